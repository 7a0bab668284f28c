// Package reference extracts <ref> citations from section text.
//
// Anonymous refs, named definitions and self-closing reuses are processed in
// that order. Named definitions live in a Registry owned by one document
// parse; a reuse resolves only against a definition that appears earlier in
// the document and otherwise yields an unresolved stub.
package reference

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/scanner"
	"github.com/dgallion1/wikidoc/internal/templates"
)

var (
	refRe  = regexp.MustCompile(`(?is)<ref\b([^>]*?)(?:/\s*>|>(.*?)(?:</ref\s*>|$))`)
	nameRe = regexp.MustCompile(`(?i)\bname\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'/>]+))`)
)

// Registry maps reference names to their definitions for a single document.
// It is not safe for concurrent use and must not be shared across parses.
type Registry struct {
	defs    map[string]definition
	section int
}

type definition struct {
	ref     doctree.Reference
	section int
	pos     int
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]definition)}
}

// Len returns the number of named definitions seen so far.
func (r *Registry) Len() int { return len(r.defs) }

func (r *Registry) define(name string, ref doctree.Reference, pos int) {
	if _, ok := r.defs[name]; ok {
		return
	}
	r.defs[name] = definition{ref: ref, section: r.section, pos: pos}
}

// lookup finds a definition that precedes pos in the current section or
// lives in an earlier one.
func (r *Registry) lookup(name string, pos int) (doctree.Reference, bool) {
	d, ok := r.defs[name]
	if !ok || (d.section == r.section && d.pos > pos) {
		return doctree.Reference{}, false
	}
	return d.ref, true
}

// Parser turns ref bodies into References.
type Parser struct {
	res *templates.Resolver
}

func New(res *templates.Resolver) *Parser {
	return &Parser{res: res}
}

type occurrence struct {
	start, end int
	name       string
	body       string
	raw        string
}

func (o occurrence) reuse() bool { return o.name != "" && strings.TrimSpace(o.body) == "" }

// Extract removes every ref from text, replacing each with a single space,
// and returns the references in source order.
func (p *Parser) Extract(text string, reg *Registry) (string, []doctree.Reference, error) {
	reg.section++
	if !strings.Contains(strings.ToLower(text), "<ref") {
		return text, nil, nil
	}
	var occ []occurrence
	for _, m := range refRe.FindAllStringSubmatchIndex(text, -1) {
		o := occurrence{start: m[0], end: m[1], raw: text[m[0]:m[1]]}
		if m[2] >= 0 {
			o.name = attrName(text[m[2]:m[3]])
		}
		if m[4] >= 0 {
			o.body = text[m[4]:m[5]]
		}
		occ = append(occ, o)
	}

	type placed struct {
		pos int
		ref doctree.Reference
	}
	var out []placed
	spans := make([]scanner.Span, 0, len(occ))
	for _, o := range occ {
		spans = append(spans, scanner.Span{Start: o.start, End: o.end, Text: " "})
	}

	// anonymous
	for _, o := range occ {
		if o.name != "" || strings.TrimSpace(o.body) == "" {
			continue
		}
		ref, err := p.build(o)
		if err != nil {
			return "", nil, err
		}
		out = append(out, placed{o.start, ref})
	}
	// named definitions
	for _, o := range occ {
		if o.name == "" || o.reuse() {
			continue
		}
		ref, err := p.build(o)
		if err != nil {
			return "", nil, err
		}
		ref.Name = o.name
		reg.define(o.name, ref, o.start)
		out = append(out, placed{o.start, ref})
	}
	// reuses
	for _, o := range occ {
		if !o.reuse() {
			continue
		}
		ref := doctree.Reference{Kind: doctree.RefUnresolved, Name: o.name, Reused: true, Raw: o.raw}
		if def, ok := reg.lookup(o.name, o.start); ok {
			ref = def.Reuse(o.raw)
		}
		out = append(out, placed{o.start, ref})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	refs := make([]doctree.Reference, len(out))
	for i, pl := range out {
		refs[i] = pl.ref
	}
	rest, err := scanner.Splice(text, spans)
	if err != nil {
		return "", nil, err
	}
	return rest, refs, nil
}

// build classifies a ref body as a structured citation or free text.
func (p *Parser) build(o occurrence) (doctree.Reference, error) {
	body := strings.TrimSpace(o.body)
	if found := scanner.FindTemplates(body); len(found) > 0 && templates.IsCitationName(found[0].Name) {
		c, err := p.res.Citation(found[0].Body)
		if err != nil {
			return doctree.Reference{}, err
		}
		return doctree.Reference{Kind: doctree.RefCitation, Citation: &c, Raw: o.raw}, nil
	}
	text, _, err := p.res.ResolveAll(body)
	if err != nil {
		return doctree.Reference{}, err
	}
	s := p.res.Inline().Parse(scanner.StripHTML(text))
	return doctree.Reference{Kind: doctree.RefInline, Inline: &s, Raw: o.raw}, nil
}

func attrName(attrs string) string {
	m := nameRe.FindStringSubmatch(attrs)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}
