package extdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestParse_YAML(t *testing.T) {
	data := []byte(`
infoboxPatterns:
  - "^ficha de"
symbols:
  snd: " – "
redirectKeywords: [redirige]
`)
	tbl, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.InfoboxPatterns) != 1 || tbl.InfoboxPatterns[0] != "^ficha de" {
		t.Errorf("unexpected patterns %q", tbl.InfoboxPatterns)
	}
	if tbl.Symbols["snd"] != " – " {
		t.Errorf("expected symbol override, got %q", tbl.Symbols["snd"])
	}
}

func TestParse_RejectsBadPattern(t *testing.T) {
	if _, err := Parse([]byte(`infoboxPatterns: ["(unclosed"]`)); err == nil {
		t.Error("expected error for invalid pattern")
	}
	if _, err := Parse([]byte(`redirectKeywords: [""]`)); err == nil {
		t.Error("expected error for blank keyword")
	}
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	if err := os.WriteFile(path, []byte(`{"pronouns": ["xe"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.Pronouns) != 1 || tbl.Pronouns[0] != "xe" {
		t.Errorf("unexpected pronouns %q", tbl.Pronouns)
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "wikidoc-test" {
			t.Errorf("expected user agent header, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"filePrefixes": ["fichero"], "symbols": {"heart": "♥"}}`))
	}))
	defer srv.Close()

	f := NewFetcher("wikidoc-test")
	defer f.Close()
	tbl, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Symbols["heart"] != "♥" || len(tbl.FilePrefixes) != 1 {
		t.Errorf("unexpected tables %+v", tbl)
	}
}

func TestFetch_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	if _, err := NewFetcher("").Fetch(context.Background(), srv.URL); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestMerge(t *testing.T) {
	a := &Tables{Symbols: map[string]string{"x": "1"}, Pronouns: []string{"he"}}
	b := &Tables{Symbols: map[string]string{"x": "2"}, Pronouns: []string{"she"}}
	m := a.Merge(b)
	if m.Symbols["x"] != "2" {
		t.Errorf("expected later override, got %q", m.Symbols["x"])
	}
	if len(m.Pronouns) != 2 {
		t.Errorf("expected 2 pronouns, got %d", len(m.Pronouns))
	}
	if (*Tables)(nil).Merge(nil) == nil {
		t.Error("expected non-nil merge result")
	}
}
