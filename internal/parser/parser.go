// Package parser is the full wikitext pipeline. It turns an article's markup
// into a doctree.Document: redirect check, category extraction, section
// split, then per section file links, tables, references, templates and the
// paragraph/list/sentence split.
package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/extdata"
	"github.com/dgallion1/wikidoc/internal/fastparse"
	"github.com/dgallion1/wikidoc/internal/inline"
	"github.com/dgallion1/wikidoc/internal/reference"
	"github.com/dgallion1/wikidoc/internal/scanner"
	"github.com/dgallion1/wikidoc/internal/templates"
	"github.com/dgallion1/wikidoc/internal/wikierr"
)

// Parser runs the full pipeline. It holds only read-only tables and may be
// shared by concurrent parses; per-document state lives inside Parse.
type Parser struct {
	res        *templates.Resolver
	refs       *reference.Parser
	inline     *inline.Parser
	redirect   *scanner.RedirectMatcher
	categories map[string]bool
	files      map[string]bool
	fast       *fastparse.Bounded
}

// New builds a parser from the built-in tables extended by ext, which may
// be nil.
func New(ext *extdata.Tables) *Parser {
	res := templates.New(ext)
	keywords := scanner.RedirectKeywords
	var cats, files []string
	if ext != nil {
		keywords = append(append([]string(nil), keywords...), ext.RedirectKeywords...)
		cats = ext.CategoryPrefixes
		files = ext.FilePrefixes
	}
	return &Parser{
		res:        res,
		refs:       reference.New(res),
		inline:     res.Inline(),
		redirect:   scanner.NewRedirectMatcher(keywords),
		categories: scanner.PrefixSet(scanner.CategoryPrefixes, cats),
		files:      scanner.PrefixSet(scanner.FilePrefixes, files),
		fast:       fastparse.New(ext),
	}
}

// Resolver exposes the template resolver, mainly so callers can pin its
// clock.
func (p *Parser) Resolver() *templates.Resolver { return p.res }

var (
	switchRe        = regexp.MustCompile(`__[A-Z]{2,20}__`)
	interlanguageRe = regexp.MustCompile(`(?m)^[ \t]*\[\[([a-z]{2,3}(?:-[a-z]{2,8})*):[^\]\n]+\]\][ \t]*$`)
)

// Parse builds a Document from markup. Malformed markup never fails; only
// invalid options (wikierr.ErrInvalidInput) and internal faults
// (wikierr.ErrInternal) are returned.
func (p *Parser) Parse(markup string, opts doctree.Options) (doc *doctree.Document, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	defer func() {
		if v := recover(); v != nil {
			doc, err = nil, wikierr.FromPanic("parse", v)
		}
	}()

	text := scanner.StripComments(markup)
	text = switchRe.ReplaceAllString(text, "")

	target, isRedirect := p.redirect.Match(text)
	text, categories, err := p.extractCategories(text)
	if err != nil {
		return nil, err
	}
	if isRedirect {
		link, _ := p.inline.ParseLink(target)
		return doctree.NewRedirect(markup, opts.Title, link, categories), nil
	}

	text = interlanguageRe.ReplaceAllStringFunc(text, func(line string) string {
		m := interlanguageRe.FindStringSubmatch(line)
		if p.categories[m[1]] || p.files[m[1]] {
			return line
		}
		return ""
	})

	b := &builder{p: p, reg: reference.NewRegistry()}
	sections, err := b.sections(text)
	if err != nil {
		return nil, err
	}
	return doctree.NewDocument(markup, opts.Title, sections, categories, b.images), nil
}

// extractCategories removes category links from text and returns their
// names in order, without duplicates.
func (p *Parser) extractCategories(text string) (string, []string, error) {
	var (
		names []string
		seen  = map[string]bool{}
		spans []scanner.Span
	)
	for _, tok := range scanner.FindLinks(text) {
		if tok.External || strings.HasPrefix(strings.TrimSpace(tok.Inner), ":") {
			continue
		}
		if !p.categories[scanner.Namespace(tok.Inner)] {
			continue
		}
		name := CategoryName(tok.Inner)
		spans = append(spans, scanner.Span{Start: tok.Start, End: tok.End - len(tok.Trail)})
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	out, err := scanner.Splice(text, spans)
	if err != nil {
		return "", nil, err
	}
	return out, names, nil
}

// CategoryName returns the category of a [[Category:Name|sort key]] link's
// inner text.
func CategoryName(inner string) string {
	s := strings.TrimLeft(strings.TrimSpace(inner), ":")
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}
