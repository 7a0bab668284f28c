package doctree

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/wikidoc/internal/wikierr"
)

func sampleDocument() *Document {
	lead := &Section{
		Paragraphs: []Paragraph{{
			Sentences: []Sentence{
				{Text: "Paris is the capital of France.", Bold: []string{"Paris"}, Links: []Link{{Type: LinkInternal, Page: "France", Text: "France", Start: 24, End: 30}}},
				{Text: "It is large."},
			},
		}},
		Infoboxes: []Infobox{{Type: "settlement", Template: "infobox settlement", Fields: map[string]Sentence{
			"country": {Text: "France", Links: []Link{{Type: LinkInternal, Page: "France", Text: "France"}}},
			"name":    {Text: "Paris"},
		}}},
		Templates: []Record{{Kind: RecordShortDescription, Template: "short description", Text: "Capital of France"}},
	}
	history := &Section{
		Title: "History",
		Paragraphs: []Paragraph{{
			Lists: []List{{Items: []Sentence{{Text: "Founded"}, {Text: "Grew", Links: []Link{{Type: LinkExternal, Site: "https://example.org"}}}}}},
		}},
		Tables: []Table{{Headers: []string{"Year"}, Rows: [][]Sentence{{{Text: "1900"}, {Text: "x"}}}}},
	}
	return NewDocument("raw", "", []*Section{lead, history}, []string{"Capitals"}, nil)
}

func TestDocument_Accessors(t *testing.T) {
	doc := sampleDocument()

	if got := doc.Title(); got != "Paris" {
		t.Errorf("expected inferred title Paris, got %q", got)
	}
	if got := doc.ShortDescription(); got != "Capital of France" {
		t.Errorf("expected short description, got %q", got)
	}
	if got := len(doc.Sentences()); got != 2 {
		t.Errorf("expected 2 sentences, got %d", got)
	}
	if got := len(doc.Links()); got != 3 {
		t.Errorf("expected 3 links (sentence, list, infobox), got %d", got)
	}
	if doc.Section("history") == nil {
		t.Error("expected case-insensitive section lookup")
	}
	if doc.Section("Geography") != nil {
		t.Error("expected nil for unknown section")
	}
	if ib := doc.Infobox(); ib == nil || ib.Get(" Name ").Text != "Paris" {
		t.Errorf("expected infobox name field, got %+v", ib)
	}
	want := "Paris is the capital of France. It is large.\n\nFounded\nGrew"
	if got := doc.Text(); got != want {
		t.Errorf("expected text %q, got %q", want, got)
	}
}

func TestDocument_SuppliedTitleWins(t *testing.T) {
	doc := NewDocument("", "Lutetia", sampleDocument().Sections(), nil, nil)
	if got := doc.Title(); got != "Lutetia" {
		t.Errorf("expected supplied title, got %q", got)
	}
}

func TestDocument_RedirectJSON(t *testing.T) {
	doc := NewRedirect("#REDIRECT [[Foo]]", "", Link{Type: LinkInternal, Page: "Foo"}, nil)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["isRedirect"] != true {
		t.Errorf("expected isRedirect true, got %v", out["isRedirect"])
	}
	if secs, ok := out["sections"].([]any); !ok || len(secs) != 0 {
		t.Errorf("expected empty sections array, got %v", out["sections"])
	}
	if cats, ok := out["categories"].([]any); !ok || len(cats) != 0 {
		t.Errorf("expected empty categories array, got %v", out["categories"])
	}
}

func TestTable_Keyed(t *testing.T) {
	rows := sampleDocument().Tables()[0].Keyed()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["Year"].Text != "1900" || rows[0]["col2"].Text != "x" {
		t.Errorf("unexpected keyed row %+v", rows[0])
	}
}

func TestReference_ReuseIsDeepCopy(t *testing.T) {
	orig := Reference{Kind: RefCitation, Name: "a", Citation: &Citation{Title: "T", Extra: map[string]string{"k": "v"}}, Raw: "<ref name=a>...</ref>"}
	reuse := orig.Reuse(`<ref name="a"/>`)
	if !reuse.Reused || reuse.Raw != `<ref name="a"/>` {
		t.Errorf("unexpected reuse %+v", reuse)
	}
	reuse.Citation.Extra["k"] = "changed"
	if orig.Citation.Extra["k"] != "v" {
		t.Error("expected reuse not to share citation data")
	}
	if got := orig.Text(); got != "T" {
		t.Errorf("expected text T, got %q", got)
	}
}

func TestImage_URL(t *testing.T) {
	u := Image{File: "File:eiffel tower.jpg"}.URL()
	if !strings.HasPrefix(u, "https://upload.wikimedia.org/wikipedia/commons/") {
		t.Errorf("unexpected prefix %q", u)
	}
	if !strings.HasSuffix(u, "/Eiffel_tower.jpg") {
		t.Errorf("expected normalized file name, got %q", u)
	}
	if got := (Image{File: "File:"}).URL(); got != "" {
		t.Errorf("expected empty URL, got %q", got)
	}
}

func TestOptions(t *testing.T) {
	var zero Options
	if zero.Bytes() != DefaultMaxBytes || zero.Sentences() != DefaultMaxSentences {
		t.Errorf("expected defaults, got %d/%d", zero.Bytes(), zero.Sentences())
	}
	if err := (Options{MaxBytes: 100, MaxSentences: 2}).Validate(); err != nil {
		t.Errorf("expected valid options, got %v", err)
	}
	tests := []Options{
		{MaxBytes: -1},
		{MaxBytes: MaxBytesCeiling + 1},
		{MaxSentences: 1001},
		{Title: strings.Repeat("x", 600)},
	}
	for _, o := range tests {
		err := o.Validate()
		if !errors.Is(err, wikierr.ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", o, err)
		}
	}
}
