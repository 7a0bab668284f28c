// Package templates resolves {{...}} template calls into inline replacement
// text and structured side-records.
//
// Dispatch runs in a fixed priority order: infobox name patterns, the named
// template families, the symbol table, the zero-index table, the easy-inline
// table, pronoun passthrough and finally an empty replacement. Names are
// normalized and alias-folded once before dispatch.
package templates

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/extdata"
	"github.com/dgallion1/wikidoc/internal/inline"
	"github.com/dgallion1/wikidoc/internal/scanner"
)

// Collected gathers the side-records produced while resolving a run of text.
type Collected struct {
	Infoboxes   []doctree.Infobox
	Records     []doctree.Record
	Coordinates []doctree.Coordinate
	Citations   []doctree.Citation
}

func (c *Collected) merge(o Collected) {
	c.Infoboxes = append(c.Infoboxes, o.Infoboxes...)
	c.Records = append(c.Records, o.Records...)
	c.Coordinates = append(c.Coordinates, o.Coordinates...)
	c.Citations = append(c.Citations, o.Citations...)
}

// Result is the resolution of one template: its inline replacement and any
// side-records, including those of templates nested inside it.
type Result struct {
	Text string
	Collected
}

// Resolver resolves templates. It holds only read-only tables and is safe
// for concurrent use.
type Resolver struct {
	// Now supplies the clock for time-dependent templates (currentyear,
	// birth date and age ...). Defaults to time.Now.
	Now func() time.Time

	infobox  []*regexp.Regexp
	symbols  map[string]string
	pronouns map[string]bool
	inline   *inline.Parser
}

var defaultInfobox = []*regexp.Regexp{
	regexp.MustCompile(`^(?:infobox|info box)\b`),
	regexp.MustCompile(`\binfobox$`),
	regexp.MustCompile(`^(?:taxobox|speciesbox|subspeciesbox|automatic taxobox|chembox|drugbox|geobox)$`),
}

// New builds a resolver from the built-in tables extended by ext, which may
// be nil.
func New(ext *extdata.Tables) *Resolver {
	r := &Resolver{
		Now:      time.Now,
		infobox:  defaultInfobox,
		symbols:  make(map[string]string, len(symbols)),
		pronouns: make(map[string]bool, len(pronouns)),
	}
	for k, v := range symbols {
		r.symbols[k] = v
	}
	for _, p := range pronouns {
		r.pronouns[p] = true
	}
	var sites []string
	if ext != nil {
		for _, pat := range ext.InfoboxPatterns {
			if re, err := regexp.Compile(pat); err == nil {
				r.infobox = append(r.infobox, re)
			}
		}
		for k, v := range ext.Symbols {
			r.symbols[scanner.NormalizeName(k)] = v
		}
		for _, p := range ext.Pronouns {
			r.pronouns[scanner.NormalizeName(p)] = true
		}
		sites = ext.InterwikiSites
	}
	r.inline = inline.New(sites)
	return r
}

// maxNesting bounds template-in-template recursion.
const maxNesting = 32

// ResolveAll resolves every top-level template of text in one pass and
// rebuilds the text from the collected replacement spans.
func (r *Resolver) ResolveAll(text string) (string, Collected, error) {
	return r.resolveAll(text, 0)
}

func (r *Resolver) resolveAll(text string, depth int) (string, Collected, error) {
	var c Collected
	if !strings.Contains(text, "{{") {
		return text, c, nil
	}
	found := scanner.FindTemplates(text)
	spans := make([]scanner.Span, 0, len(found))
	for _, t := range found {
		res, err := r.resolve(t.Body, depth)
		if err != nil {
			return "", c, err
		}
		c.merge(res.Collected)
		spans = append(spans, scanner.Span{Start: t.Start, End: t.End, Text: res.Text})
	}
	out, err := scanner.Splice(text, spans)
	if err != nil {
		return "", c, err
	}
	return out, c, nil
}

// Resolve resolves a single template body, braces included.
func (r *Resolver) Resolve(body string) (Result, error) {
	return r.resolve(body, 0)
}

func (r *Resolver) resolve(body string, depth int) (Result, error) {
	if depth > maxNesting || !strings.HasPrefix(body, "{{") || !strings.HasSuffix(body, "}}") {
		return Result{}, nil
	}
	name := canonical(scanner.TemplateName(body))
	if r.IsInfobox(name) {
		return r.infoboxResult(name, body, depth)
	}

	var nested Collected
	inner := scanner.InnerBody(body)
	if strings.Contains(inner, "{{") {
		resolved, c, err := r.resolveAll(inner, depth+1)
		if err != nil {
			return Result{}, err
		}
		body = "{{" + resolved + "}}"
		nested = c
	}
	p := ParseParams(body)
	p.Name = name
	res := r.dispatch(name, p)
	nested.merge(res.Collected)
	res.Collected = nested
	return res, nil
}

func (r *Resolver) dispatch(name string, p Params) Result {
	if fn, ok := families[name]; ok {
		return fn(r, p)
	}
	if fn := prefixFamily(name); fn != nil {
		return fn(r, p)
	}
	if s, ok := r.symbols[name]; ok {
		return Result{Text: s}
	}
	if zeroIndex[name] {
		return Result{Text: p.Pos(0)}
	}
	if i, ok := easyInline[name]; ok {
		return Result{Text: p.Pos(i)}
	}
	if r.pronouns[name] {
		return Result{Text: name}
	}
	return Result{}
}

// IsInfobox reports whether a normalized template name is an infobox.
func (r *Resolver) IsInfobox(name string) bool {
	for _, re := range r.infobox {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// InfoboxType strips the infobox marker from a template name.
func InfoboxType(name string) string {
	t := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(name, "infobox"), "info box"))
	t = strings.TrimSpace(strings.TrimSuffix(t, "infobox"))
	if t == "" {
		return name
	}
	return t
}

// infoboxResult builds an Infobox. Field values are resolved in raw mode:
// nested templates render before the value is parsed into a sentence.
func (r *Resolver) infoboxResult(name, body string, depth int) (Result, error) {
	p := ParseParams(body)
	ib := doctree.Infobox{
		Type:     InfoboxType(name),
		Template: name,
		Fields:   make(map[string]doctree.Sentence, len(p.Named)),
	}
	keys := make([]string, 0, len(p.Named))
	for k := range p.Named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var res Result
	for _, key := range keys {
		resolved, c, err := r.resolveAll(p.Named[key], depth+1)
		if err != nil {
			return Result{}, err
		}
		res.merge(c)
		s := r.inline.Parse(scanner.StripHTML(resolved))
		if s.IsEmpty() {
			continue
		}
		ib.Fields[key] = s
	}
	res.Infoboxes = append([]doctree.Infobox{ib}, res.Infoboxes...)
	return res, nil
}

// Citation parses a citation template body into structured fields.
func (r *Resolver) Citation(body string) (doctree.Citation, error) {
	res, err := r.Resolve(body)
	if err != nil {
		return doctree.Citation{}, err
	}
	if len(res.Citations) == 0 {
		return doctree.Citation{Template: scanner.TemplateName(body)}, nil
	}
	return res.Citations[len(res.Citations)-1], nil
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// canonical folds aliases onto the family names used for dispatch.
func canonical(name string) string {
	if a, ok := aliases[name]; ok {
		return a
	}
	return name
}

// Inline returns the sentence parser configured with this resolver's
// interwiki sites.
func (r *Resolver) Inline() *inline.Parser {
	return r.inline
}
