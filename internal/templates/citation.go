package templates

import (
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
)

// citationKeys are the parameters that map onto Citation fields; anything
// else non-empty lands in Extra.
var citationKeys = map[string]bool{
	"author": true, "authors": true, "last": true, "first": true, "last1": true,
	"first1": true, "author1": true, "title": true, "work": true, "website": true,
	"journal": true, "newspaper": true, "magazine": true, "periodical": true,
	"publisher": true, "date": true, "year": true, "url": true,
	"access-date": true, "accessdate": true,
}

// IsCitationName reports whether a normalized template name is a
// structured citation.
func IsCitationName(name string) bool {
	name = canonical(name)
	return strings.HasPrefix(name, "cite") || name == "citation"
}

func citation(_ *Resolver, p Params) Result {
	c := doctree.Citation{
		Template:   p.Name,
		Author:     citationAuthor(p),
		Title:      p.Get("title", "chapter"),
		Work:       p.Get("work", "website", "journal", "newspaper", "magazine", "periodical"),
		Publisher:  p.Get("publisher"),
		Date:       p.Get("date", "year"),
		URL:        p.Get("url"),
		AccessDate: p.Get("access-date", "accessdate"),
	}
	for k, v := range p.Named {
		if citationKeys[k] || k == "chapter" || v == "" {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[k] = v
	}
	return Result{Collected: Collected{Citations: []doctree.Citation{c}}}
}

func citationAuthor(p Params) string {
	if a := p.Get("author", "authors", "author1"); a != "" {
		return a
	}
	last := p.Get("last", "last1")
	first := p.Get("first", "first1")
	switch {
	case last != "" && first != "":
		return last + ", " + first
	case last != "":
		return last
	}
	return first
}
