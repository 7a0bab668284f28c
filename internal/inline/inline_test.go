package inline

import (
	"testing"

	"github.com/dgallion1/wikidoc/internal/doctree"
)

func TestParse_LinksAndOffsets(t *testing.T) {
	s := Parse("Foo began in [[1900]] near [[Paris, France|Paris]].")
	if s.Text != "Foo began in 1900 near Paris." {
		t.Fatalf("unexpected text %q", s.Text)
	}
	if len(s.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(s.Links))
	}
	for _, l := range s.Links {
		if s.Text[l.Start:l.End] != l.Text {
			t.Errorf("offsets [%d,%d) do not cover %q", l.Start, l.End, l.Text)
		}
	}
	if s.Links[0].Page != "1900" || s.Links[1].Page != "Paris, France" {
		t.Errorf("unexpected pages %q, %q", s.Links[0].Page, s.Links[1].Page)
	}
}

func TestParse_BoldAndItalic(t *testing.T) {
	s := Parse("'''Foo''' is a ''thing'' and '''''both'''''.")
	if s.Text != "Foo is a thing and both." {
		t.Fatalf("unexpected text %q", s.Text)
	}
	if s.FirstBold() != "Foo" {
		t.Errorf("expected first bold %q, got %q", "Foo", s.FirstBold())
	}
	if len(s.Bold) != 2 || s.Bold[1] != "both" {
		t.Errorf("unexpected bold spans %q", s.Bold)
	}
	if len(s.Italic) != 2 || s.Italic[0] != "thing" {
		t.Errorf("unexpected italic spans %q", s.Italic)
	}
}

func TestParse_UnclosedBoldRunsToEnd(t *testing.T) {
	s := Parse("'''Foo bar")
	if len(s.Bold) != 1 || s.Bold[0] != "Foo bar" {
		t.Errorf("unexpected bold spans %q", s.Bold)
	}
}

func TestParse_LinkForms(t *testing.T) {
	cases := []struct {
		in   string
		want doctree.Link
		text string
	}{
		{"[[dog]]s", doctree.Link{Type: doctree.LinkInternal, Page: "dog", Text: "dogs"}, "dogs"},
		{"[[Foo#Bar|here]]", doctree.Link{Type: doctree.LinkInternal, Page: "Foo", Anchor: "Bar", Text: "here"}, "here"},
		{"[[wikt:run|run]]", doctree.Link{Type: doctree.LinkInterwiki, Site: "wikt", Page: "run", Text: "run"}, "run"},
		{"[[Paris (France)|]]", doctree.Link{Type: doctree.LinkInternal, Page: "Paris (France)", Text: "Paris"}, "Paris"},
		{"[[New_York]]", doctree.Link{Type: doctree.LinkInternal, Page: "New York", Text: "New York"}, "New York"},
		{"[https://example.org Example]", doctree.Link{Type: doctree.LinkExternal, Site: "https://example.org", Text: "Example"}, "Example"},
	}
	for _, c := range cases {
		s := Parse(c.in)
		if s.Text != c.text {
			t.Errorf("%q: expected text %q, got %q", c.in, c.text, s.Text)
		}
		if len(s.Links) != 1 {
			t.Errorf("%q: expected 1 link, got %d", c.in, len(s.Links))
			continue
		}
		got := s.Links[0]
		got.Start, got.End = 0, 0
		if got != c.want {
			t.Errorf("%q: expected %+v, got %+v", c.in, c.want, got)
		}
	}
}

func TestParse_DropsCategoryLinks(t *testing.T) {
	s := Parse("text [[Category:Things]] more")
	if s.Text != "text more" || len(s.Links) != 0 {
		t.Errorf("expected category link dropped, got %q with %d links", s.Text, len(s.Links))
	}
}

func TestParse_CollapsesWhitespace(t *testing.T) {
	s := Parse("  a \n\t b   [[c]]  ")
	if s.Text != "a b c" {
		t.Errorf("expected %q, got %q", "a b c", s.Text)
	}
	if s.Links[0].Start != 4 || s.Links[0].End != 5 {
		t.Errorf("unexpected offsets %d..%d", s.Links[0].Start, s.Links[0].End)
	}
}
