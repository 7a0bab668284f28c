package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/wikidoc/internal/config"
	"github.com/dgallion1/wikidoc/internal/parser"
	"github.com/dgallion1/wikidoc/internal/pipeline"
	"github.com/dgallion1/wikidoc/internal/source"
)

const testKey = "test-key"

const alpha = "{{Short description|First letter}}\n{{Infobox letter\n| name = Alpha\n| script = [[Greek alphabet|Greek]]\n}}\n'''Alpha''' is the first [[letter]]. It has a long history. It is used in science. It names things. It is old. It is common.\n\n==Use==\nUsed in [[mathematics]].\n[[Category:Letters]]"

type stubFetcher struct {
	pages map[string]string
	err   error
}

func (f *stubFetcher) Fetch(ctx context.Context, title, lang string) (*source.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	text, ok := f.pages[lang+":"+source.NormalizeTitle(title)]
	if !ok {
		return nil, source.ErrNotFound
	}
	return &source.Article{Title: source.NormalizeTitle(title), Lang: lang, Wikitext: text}, nil
}

func newTestServer(t *testing.T, f source.Fetcher) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:              testKey,
		DefaultMaxBytes:     4096,
		DefaultMaxSentences: 5,
		WorkerCount:         1,
		MaxQueueSize:        4,
		MaxConcurrentFetch:  2,
		MaxBatchTitles:      3,
		MaxUploadBytes:      1 << 16,
		DefaultChunkSize:    1500,
		DefaultChunkOverlap: 100,
		JobTTL:              time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := parser.New(nil)
	orch := pipeline.NewOrchestrator(cfg, f, p, nil, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, p, f, log, cfg)
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth_NoAuth(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer wrong", http.StatusUnauthorized},
		{"Basic " + testKey, http.StatusUnauthorized},
		{"Bearer " + testKey, http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("x"))
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%q: expected %d, got %d", tt.header, tt.want, rec.Code)
		}
	}
}

func TestParse_JSONBody(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	body, _ := json.Marshal(map[string]any{"markup": alpha, "title": "Alpha"})
	rec := do(t, s, http.MethodPost, "/api/parse", "application/json", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var doc struct {
		Title            string   `json:"title"`
		ShortDescription string   `json:"shortDescription"`
		Categories       []string `json:"categories"`
		Sections         []struct {
			Title string `json:"title"`
			Depth int    `json:"depth"`
		} `json:"sections"`
	}
	decode(t, rec, &doc)
	if doc.Title != "Alpha" {
		t.Errorf("expected title %q, got %q", "Alpha", doc.Title)
	}
	if doc.ShortDescription != "First letter" {
		t.Errorf("expected short description, got %q", doc.ShortDescription)
	}
	if len(doc.Categories) != 1 || doc.Categories[0] != "Letters" {
		t.Errorf("expected [Letters], got %v", doc.Categories)
	}
	if len(doc.Sections) != 2 || doc.Sections[1].Title != "Use" {
		t.Errorf("unexpected sections %+v", doc.Sections)
	}
}

func TestParse_InvalidOptions(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	rec := do(t, s, http.MethodPost, "/api/parse?maxSentences=5000", "text/plain", alpha)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range option, got %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/api/parse?maxBytes=lots", "text/plain", alpha)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer option, got %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/api/parse", "application/json", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestParse_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	rec := do(t, s, http.MethodPost, "/api/parse", "text/plain", strings.Repeat("a", 1<<17))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestSummary_BoundedAndFull(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	for _, target := range []string{"/api/summary?maxSentences=2", "/api/summary?maxSentences=2&bounded=false"} {
		rec := do(t, s, http.MethodPost, target, "text/plain", alpha)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", target, rec.Code, rec.Body.String())
		}
		var sum struct {
			Title     string   `json:"title"`
			Sentences []string `json:"sentences"`
		}
		decode(t, rec, &sum)
		if len(sum.Sentences) != 2 {
			t.Fatalf("%s: expected 2 sentences, got %v", target, sum.Sentences)
		}
		if sum.Sentences[0] != "Alpha is the first letter." {
			t.Errorf("%s: expected first sentence, got %q", target, sum.Sentences[0])
		}
		if sum.Title != "Alpha" {
			t.Errorf("%s: expected title Alpha, got %q", target, sum.Title)
		}
	}
	rec := do(t, s, http.MethodPost, "/api/summary?bounded=maybe", "text/plain", alpha)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad bounded flag, got %d", rec.Code)
	}
}

func TestLinksCategoriesInfobox(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	rec := do(t, s, http.MethodPost, "/api/categories", "text/plain", alpha)
	var cats struct {
		Categories []string `json:"categories"`
	}
	decode(t, rec, &cats)
	if len(cats.Categories) != 1 || cats.Categories[0] != "Letters" {
		t.Errorf("expected [Letters], got %v", cats.Categories)
	}

	rec = do(t, s, http.MethodPost, "/api/links", "text/plain", alpha)
	var links struct {
		Links []struct {
			Page string `json:"page"`
		} `json:"links"`
	}
	decode(t, rec, &links)
	var pages []string
	for _, l := range links.Links {
		pages = append(pages, l.Page)
	}
	if strings.Join(pages, ",") != "Greek alphabet,letter,mathematics" {
		t.Errorf("unexpected links %v", pages)
	}

	rec = do(t, s, http.MethodPost, "/api/infobox", "text/plain", alpha)
	var ib struct {
		Found  bool              `json:"found"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, rec, &ib)
	if !ib.Found || ib.Fields["name"] != "Alpha" || ib.Fields["script"] != "Greek" {
		t.Errorf("unexpected infobox %+v", ib)
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	rec := do(t, s, http.MethodPost, "/api/render?format=markdown", "text/plain", "'''Foo''' is a [[bar]].")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("expected markdown content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Foo is a [bar](bar).") {
		t.Errorf("unexpected markdown %q", rec.Body.String())
	}
	rec = do(t, s, http.MethodPost, "/api/render?format=pdf", "text/plain", "x")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestPage(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"en:Alpha": alpha, "en:AC/DC": "'''AC/DC''' is a band."}}
	s := newTestServer(t, f)

	rec := do(t, s, http.MethodGet, "/api/page/en/alpha?view=categories", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Wikidoc-Title") != "Alpha" {
		t.Errorf("expected normalized title header, got %q", rec.Header().Get("X-Wikidoc-Title"))
	}

	rec = do(t, s, http.MethodGet, "/api/page/en/AC/DC?view=text", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "AC/DC is a band.") {
		t.Errorf("expected text view for slash title, got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/page/en/Nothing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/page/en/Alpha?view=pdf", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown view, got %d", rec.Code)
	}
}

func TestPage_UpstreamUnavailable(t *testing.T) {
	f := &stubFetcher{err: &source.RetryableError{StatusCode: 503, Err: errors.New("down")}}
	s := newTestServer(t, f)
	rec := do(t, s, http.MethodGet, "/api/page/en/Alpha", "", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestBatch_Lifecycle(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"en:Alpha": alpha}}
	s := newTestServer(t, f)

	rec := do(t, s, http.MethodPost, "/api/batch", "application/json", `{"titles":["alpha","Alpha","Missing",""],"lang":"EN"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID   string `json:"job_id"`
		Titles  int    `json:"titles"`
		PollURL string `json:"poll_url"`
	}
	decode(t, rec, &accepted)
	if accepted.Titles != 2 {
		t.Errorf("expected 2 deduplicated titles, got %d", accepted.Titles)
	}

	deadline := time.Now().Add(5 * time.Second)
	var status pipeline.JobSnapshot
	for {
		rec = do(t, s, http.MethodGet, accepted.PollURL, "", "")
		decode(t, rec, &status)
		if status.Status != pipeline.StatusQueued && status.Status != pipeline.StatusRunning {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, status %q", status.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status.Status != pipeline.StatusPartial {
		t.Errorf("expected partial, got %q", status.Status)
	}
	if status.Lang != "en" {
		t.Errorf("expected lang en, got %q", status.Lang)
	}

	rec = do(t, s, http.MethodGet, accepted.PollURL+"/results", "", "")
	var results struct {
		Results []pipeline.TitleResult `json:"results"`
	}
	decode(t, rec, &results)
	if len(results.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results.Results))
	}
	if results.Results[0].Status != pipeline.ResultOK || results.Results[1].Status != pipeline.ResultNotFound {
		t.Errorf("unexpected results %+v", results.Results)
	}

	rec = do(t, s, http.MethodGet, "/api/stats", "", "")
	var stats struct {
		Operations map[string]pipeline.StatsSnapshot `json:"operations"`
	}
	decode(t, rec, &stats)
	if stats.Operations["fetch"].Count != 2 {
		t.Errorf("expected 2 fetch samples, got %+v", stats.Operations["fetch"])
	}
}

func TestBatch_Validation(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	tests := []struct {
		body string
		want int
	}{
		{`{"titles":[]}`, http.StatusBadRequest},
		{`{"titles":["A","B","C","D"]}`, http.StatusBadRequest},
		{`{"titles":["A"],"mode":"turbo"}`, http.StatusBadRequest},
		{`nope`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodPost, "/api/batch", "application/json", tt.body)
		if rec.Code != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.body, tt.want, rec.Code)
		}
	}
	if rec := do(t, s, http.MethodGet, "/api/batch/unknown", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown job, got %d", rec.Code)
	}
}
