package parser

import (
	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/fastparse"
)

// Extractor produces the lightweight results callers ask for most. Full
// derives them from a complete Document; fastparse.Bounded scans at most
// opts.Bytes() of input.
type Extractor interface {
	Summary(markup string, opts doctree.Options) (*doctree.SummaryResult, error)
	Links(markup string, opts doctree.Options) (*doctree.LinksResult, error)
	Categories(markup string, opts doctree.Options) (*doctree.CategoriesResult, error)
	Infobox(markup string, opts doctree.Options) (*doctree.InfoboxResult, error)
}

var _ Extractor = (*fastparse.Bounded)(nil)
var _ Extractor = (*Full)(nil)

// ForBudget returns the bounded extractor when the caller has a strict
// latency budget and the full one otherwise.
func (p *Parser) ForBudget(bounded bool) Extractor {
	if bounded {
		return p.fast
	}
	return &Full{p: p}
}

// Full answers extractor calls from a fully parsed Document.
type Full struct {
	p *Parser
}

// Summary returns the first opts.Sentences() sentences of the lead section.
func (f *Full) Summary(markup string, opts doctree.Options) (*doctree.SummaryResult, error) {
	doc, err := f.p.Parse(markup, opts)
	if err != nil {
		return nil, err
	}
	res := &doctree.SummaryResult{
		Title:            doc.Title(),
		ShortDescription: doc.ShortDescription(),
		IsRedirect:       doc.IsRedirect(),
		RedirectTo:       doc.RedirectTo(),
		Sentences:        []string{},
	}
	secs := doc.Sections()
	if len(secs) == 0 || secs[0].Title != "" {
		return res, nil
	}
	for _, s := range secs[0].Sentences() {
		if len(res.Sentences) == opts.Sentences() {
			res.Truncated = true
			break
		}
		res.Sentences = append(res.Sentences, s.Text)
	}
	return res, nil
}

func (f *Full) Links(markup string, opts doctree.Options) (*doctree.LinksResult, error) {
	doc, err := f.p.Parse(markup, opts)
	if err != nil {
		return nil, err
	}
	links := doc.Links()
	if links == nil {
		links = []doctree.Link{}
	}
	return &doctree.LinksResult{
		IsRedirect: doc.IsRedirect(),
		RedirectTo: doc.RedirectTo(),
		Links:      links,
	}, nil
}

func (f *Full) Categories(markup string, opts doctree.Options) (*doctree.CategoriesResult, error) {
	doc, err := f.p.Parse(markup, opts)
	if err != nil {
		return nil, err
	}
	cats := doc.Categories()
	if cats == nil {
		cats = []string{}
	}
	return &doctree.CategoriesResult{IsRedirect: doc.IsRedirect(), Categories: cats}, nil
}

func (f *Full) Infobox(markup string, opts doctree.Options) (*doctree.InfoboxResult, error) {
	doc, err := f.p.Parse(markup, opts)
	if err != nil {
		return nil, err
	}
	res := &doctree.InfoboxResult{IsRedirect: doc.IsRedirect(), RedirectTo: doc.RedirectTo()}
	if ib := doc.Infobox(); ib != nil {
		res.Found = true
		res.Type = ib.Type
		res.Fields = ib.Flat()
	}
	return res, nil
}
