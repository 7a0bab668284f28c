// Package inline turns a fragment of wikitext prose into a Sentence: plain
// text with its links (and their offsets) and the bold/italic spans whose
// markers were stripped.
package inline

import (
	"regexp"
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/scanner"
)

// Sites are interwiki prefixes that point outside the current wiki.
var Sites = []string{
	"wikt", "wiktionary", "w", "wikipedia", "commons", "c", "q", "wikiquote",
	"s", "wikisource", "b", "wikibooks", "n", "wikinews", "v", "wikiversity",
	"voy", "wikivoyage", "d", "wikidata", "species", "meta", "m", "mw",
	"foundation", "wmf", "incubator", "simple",
	"en", "de", "fr", "es", "it", "ja", "ru", "pt", "zh", "nl", "pl", "sv",
	"ar", "fa", "ko", "uk", "vi", "he", "id", "tr", "cs", "fi", "no", "da",
	"hu", "ro", "ca", "el",
}

// Parser builds sentences. It is immutable and safe for concurrent use.
type Parser struct {
	sites      map[string]bool
	categories map[string]bool
	files      map[string]bool
}

// New returns a parser recognizing the default interwiki sites plus extra.
func New(extraSites []string) *Parser {
	return &Parser{
		sites:      scanner.PrefixSet(Sites, extraSites),
		categories: scanner.PrefixSet(scanner.CategoryPrefixes),
		files:      scanner.PrefixSet(scanner.FilePrefixes),
	}
}

var defaultParser = New(nil)

// Parse builds a sentence with the default parser.
func Parse(text string) doctree.Sentence {
	return defaultParser.Parse(text)
}

// Parse builds a sentence from text. Whitespace runs collapse to a single
// space; link offsets index into the resulting Text.
func (p *Parser) Parse(text string) doctree.Sentence {
	w := &writer{}
	for i := 0; i < len(text); {
		c := text[i]
		if c == '[' {
			if tok, ok := scanner.MatchLinkAt(text, i); ok {
				p.writeLink(w, tok)
				i = tok.End
				continue
			}
		}
		if c == '\'' && i+1 < len(text) && text[i+1] == '\'' {
			n := 2
			for i+n < len(text) && text[i+n] == '\'' {
				n++
			}
			switch {
			case n >= 5:
				w.toggleBold()
				w.toggleItalic()
				i += 5
			case n == 4:
				w.writeString("'")
				w.toggleBold()
				i += 4
			case n == 3:
				w.toggleBold()
				i += 3
			default:
				w.toggleItalic()
				i += 2
			}
			continue
		}
		w.writeByte(c)
		i++
	}
	return w.finish()
}

var quoteRunRe = regexp.MustCompile(`'{2,}`)

func (p *Parser) writeLink(w *writer, tok scanner.LinkToken) {
	if tok.External {
		label := cleanDisplay(tok.Label)
		start := w.len()
		w.writeString(label)
		w.links = append(w.links, doctree.Link{
			Type:  doctree.LinkExternal,
			Site:  tok.URL,
			Text:  label,
			Start: start,
			End:   w.len(),
		})
		return
	}
	inner := tok.Inner
	colon := strings.HasPrefix(strings.TrimSpace(inner), ":")
	ns := scanner.Namespace(inner)
	if !colon && (p.categories[ns] || p.files[ns]) {
		return
	}
	link, display := p.ParseLink(inner)
	display = cleanDisplay(display + tok.Trail)
	start := w.len()
	w.writeString(display)
	link.Text = display
	link.Start = start
	link.End = w.len()
	w.links = append(w.links, link)
}

// ParseLink interprets the inner text of [[...]] and returns the link and
// the text it displays.
func (p *Parser) ParseLink(inner string) (doctree.Link, string) {
	target, display, piped := strings.Cut(inner, "|")
	target = strings.TrimSpace(strings.ReplaceAll(target, "_", " "))
	target = strings.TrimPrefix(target, ":")
	link := doctree.Link{Type: doctree.LinkInternal}

	if ns := scanner.Namespace(target); ns != "" && p.sites[ns] {
		link.Type = doctree.LinkInterwiki
		link.Site = ns
		target = strings.TrimSpace(target[strings.IndexByte(target, ':')+1:])
	}
	page, anchor, _ := strings.Cut(target, "#")
	link.Page = strings.TrimSpace(page)
	link.Anchor = strings.TrimSpace(anchor)

	switch {
	case !piped:
		display = target
	case strings.TrimSpace(display) == "":
		// pipe trick: [[Foo (bar)|]] shows "Foo"
		display = link.Page
		if k := strings.Index(display, " ("); k > 0 {
			display = display[:k]
		}
	}
	if display == "" {
		display = link.Anchor
	}
	return link, display
}

func cleanDisplay(s string) string {
	s = quoteRunRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// writer accumulates the sentence text while tracking formatting spans.
type writer struct {
	b         strings.Builder
	lastSpace bool
	links     []doctree.Link
	boldAt    int
	italicAt  int
	bold      []string
	italic    []string
}

func (w *writer) len() int { return w.b.Len() }

func (w *writer) writeByte(c byte) {
	if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
		if w.b.Len() > 0 && !w.lastSpace {
			w.b.WriteByte(' ')
			w.lastSpace = true
		}
		return
	}
	w.b.WriteByte(c)
	w.lastSpace = false
}

func (w *writer) writeString(s string) {
	for i := 0; i < len(s); i++ {
		w.writeByte(s[i])
	}
}

func (w *writer) toggleBold() {
	if w.boldAt > 0 {
		w.bold = appendSpan(w.bold, w.b.String()[w.boldAt-1:])
		w.boldAt = 0
		return
	}
	w.boldAt = w.b.Len() + 1
}

func (w *writer) toggleItalic() {
	if w.italicAt > 0 {
		w.italic = appendSpan(w.italic, w.b.String()[w.italicAt-1:])
		w.italicAt = 0
		return
	}
	w.italicAt = w.b.Len() + 1
}

func appendSpan(spans []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return spans
	}
	return append(spans, s)
}

func (w *writer) finish() doctree.Sentence {
	if w.boldAt > 0 {
		w.toggleBold()
	}
	if w.italicAt > 0 {
		w.toggleItalic()
	}
	return doctree.Sentence{
		Text:   strings.TrimRight(w.b.String(), " "),
		Links:  w.links,
		Bold:   w.bold,
		Italic: w.italic,
	}
}
