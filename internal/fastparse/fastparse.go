// Package fastparse is the bounded pipeline: summary, links, categories and
// infobox extraction under a hard byte ceiling.
//
// Every extractor reads at most opts.Bytes() bytes of input, strips
// templates and file links without resolving them and stops scanning as
// soon as it has what it needs. Output is a lossy approximation of what the
// full parser produces and must not be used where completeness matters.
package fastparse

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/extdata"
	"github.com/dgallion1/wikidoc/internal/inline"
	"github.com/dgallion1/wikidoc/internal/scanner"
	"github.com/dgallion1/wikidoc/internal/templates"
	"github.com/dgallion1/wikidoc/internal/wikierr"
)

// ShortDescriptionWindow is how far into an article the short description
// template is looked for.
const ShortDescriptionWindow = 2000

// Bounded implements the bounded extractors. It is immutable and safe for
// concurrent use.
type Bounded struct {
	inline     *inline.Parser
	redirect   *scanner.RedirectMatcher
	isInfobox  func(name string) bool
	categories map[string]bool
	files      map[string]bool
}

// New builds a bounded extractor from the built-in tables extended by ext,
// which may be nil.
func New(ext *extdata.Tables) *Bounded {
	res := templates.New(ext)
	keywords := scanner.RedirectKeywords
	var cats, files []string
	if ext != nil {
		keywords = append(append([]string(nil), keywords...), ext.RedirectKeywords...)
		cats = ext.CategoryPrefixes
		files = ext.FilePrefixes
	}
	return &Bounded{
		inline:     res.Inline(),
		redirect:   scanner.NewRedirectMatcher(keywords),
		isInfobox:  res.IsInfobox,
		categories: scanner.PrefixSet(scanner.CategoryPrefixes, cats),
		files:      scanner.PrefixSet(scanner.FilePrefixes, files),
	}
}

var (
	refRe    = regexp.MustCompile(`(?is)<ref\b[^>]*/\s*>|<ref\b[^>]*>.*?(?:</ref\s*>|$)`)
	listRe   = regexp.MustCompile(`(?m)^[ \t]*[*#:;|].*$`)
	switchRe = regexp.MustCompile(`__[A-Z]{2,20}__`)
)

// Summary returns up to opts.Sentences() lead sentences. The sentence scan
// stops as soon as enough sentences were found.
func (b *Bounded) Summary(markup string, opts doctree.Options) (res *doctree.SummaryResult, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	defer recoverInto("summary", &err)

	window := Head(markup, opts.Bytes())
	res = &doctree.SummaryResult{
		Sentences: []string{},
		Truncated: len(window) < len(markup),
	}
	if link, ok := b.redirectOf(window); ok {
		res.IsRedirect = true
		res.RedirectTo = &link
		return res, nil
	}
	res.ShortDescription = ShortDescription(Head(window, ShortDescriptionWindow))

	lead := window
	if i := scanner.FirstHeading(lead); i >= 0 {
		lead = lead[:i]
	}
	lead = b.clean(lead)

	limit := opts.Sentences()
	var first doctree.Sentence
	for pos := 0; len(res.Sentences) < limit; {
		raw, next, ok := scanner.NextSentence(lead, pos)
		if !ok {
			break
		}
		pos = next
		s := b.inline.Parse(raw)
		if s.IsEmpty() {
			continue
		}
		if len(res.Sentences) == 0 {
			first = s
		}
		res.Sentences = append(res.Sentences, s.Text)
	}
	res.Title = opts.Title
	if res.Title == "" {
		res.Title = first.FirstBold()
	}
	return res, nil
}

// clean strips everything that is not prose from a lead, without resolving
// any of it.
func (b *Bounded) clean(text string) string {
	text = scanner.StripComments(text)
	text = refRe.ReplaceAllString(text, " ")
	text = scanner.StripTemplatesAndFiles(text, b.files)
	text = switchRe.ReplaceAllString(text, "")
	text = listRe.ReplaceAllString(text, "")
	return scanner.StripHTML(text)
}

// Links returns the links of the first opts.Bytes() bytes in order. Links
// carry no offsets since they are not attached to sentences.
func (b *Bounded) Links(markup string, opts doctree.Options) (res *doctree.LinksResult, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	defer recoverInto("links", &err)

	window := Head(markup, opts.Bytes())
	res = &doctree.LinksResult{
		Links:     []doctree.Link{},
		Truncated: len(window) < len(markup),
	}
	if link, ok := b.redirectOf(window); ok {
		res.IsRedirect = true
		res.RedirectTo = &link
		return res, nil
	}
	for _, tok := range scanner.FindLinks(scanner.StripComments(window)) {
		if tok.External {
			res.Links = append(res.Links, doctree.Link{
				Type: doctree.LinkExternal,
				Site: tok.URL,
				Text: strings.Join(strings.Fields(tok.Label), " "),
			})
			continue
		}
		colon := strings.HasPrefix(strings.TrimSpace(tok.Inner), ":")
		ns := scanner.Namespace(tok.Inner)
		if !colon && (b.categories[ns] || b.files[ns]) {
			continue
		}
		link, display := b.inline.ParseLink(tok.Inner)
		if link.Page == "" && link.Anchor == "" {
			continue
		}
		link.Text = strings.Join(strings.Fields(display+tok.Trail), " ")
		res.Links = append(res.Links, link)
	}
	return res, nil
}

// redirectProbe is the head of a long article that the categories
// extractor checks for a redirect.
const redirectProbe = 256

// Categories returns the category names found in the last opts.Bytes() bytes
// of markup, where categories conventionally live. When the article is
// longer than the ceiling, a short head probe for the redirect check is
// taken out of the same budget.
func (b *Bounded) Categories(markup string, opts doctree.Options) (res *doctree.CategoriesResult, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	defer recoverInto("categories", &err)

	limit := opts.Bytes()
	res = &doctree.CategoriesResult{Categories: []string{}}
	window := markup
	if len(markup) > limit {
		probe := min(redirectProbe, limit/4)
		if _, ok := b.redirectOf(Head(markup, probe)); ok {
			res.IsRedirect = true
		}
		window = Tail(markup, limit-probe)
		res.Truncated = true
	} else if _, ok := b.redirectOf(markup); ok {
		res.IsRedirect = true
	}

	seen := map[string]bool{}
	for _, tok := range scanner.FindLinks(scanner.StripComments(window)) {
		if tok.External || strings.HasPrefix(strings.TrimSpace(tok.Inner), ":") {
			continue
		}
		if !b.categories[scanner.Namespace(tok.Inner)] {
			continue
		}
		name := categoryName(tok.Inner)
		if name != "" && !seen[name] {
			seen[name] = true
			res.Categories = append(res.Categories, name)
		}
	}
	return res, nil
}

func categoryName(inner string) string {
	s := strings.TrimLeft(strings.TrimSpace(inner), ":")
	_, s, _ = strings.Cut(s, ":")
	s, _, _ = strings.Cut(s, "|")
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}

func (b *Bounded) redirectOf(window string) (doctree.Link, bool) {
	target, ok := b.redirect.Match(window)
	if !ok {
		return doctree.Link{}, false
	}
	link, _ := b.inline.ParseLink(target)
	return link, true
}

// Head returns at most n bytes from the start of s without splitting a
// UTF-8 sequence.
func Head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Tail returns at most n bytes from the end of s without splitting a UTF-8
// sequence.
func Tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}

func recoverInto(op string, err *error) {
	if v := recover(); v != nil {
		*err = wikierr.FromPanic(op, v)
	}
}
