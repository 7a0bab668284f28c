package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/reference"
	"github.com/dgallion1/wikidoc/internal/scanner"
	"github.com/dgallion1/wikidoc/internal/table"
	"github.com/dgallion1/wikidoc/internal/wikierr"
)

// builder carries the state of one document parse.
type builder struct {
	p      *Parser
	reg    *reference.Registry
	images []doctree.Image
}

// sections splits text on headings and builds every section, then drops
// empty reference-style sections.
func (b *builder) sections(text string) ([]*doctree.Section, error) {
	headings := scanner.FindHeadings(text)
	end := len(text)
	if len(headings) > 0 {
		end = headings[0].Start
	}
	var out []*doctree.Section
	lead, err := b.section("", 0, text[:end])
	if err != nil {
		return nil, err
	}
	if !isEmpty(lead) {
		out = append(out, lead)
	}
	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].Start
		}
		depth := h.Level - 2
		if depth < 0 {
			return nil, wikierr.Internalf("section %q: negative depth %d", h.Title, depth)
		}
		title := b.p.inline.Parse(scanner.StripHTML(h.Title)).Text
		s, err := b.section(title, depth, text[h.End:end])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return filterReferenceSections(out), nil
}

// section runs the per-section pipeline over one section's body.
func (b *builder) section(title string, depth int, text string) (*doctree.Section, error) {
	s := &doctree.Section{Title: title, Depth: depth}

	text, err := b.extractImages(text)
	if err != nil {
		return nil, err
	}

	blocks, text := scanner.FindTables(text)
	for _, block := range blocks {
		s.Tables = append(s.Tables, table.Parse(block, b.cell))
	}

	text, refs, err := b.p.refs.Extract(text, b.reg)
	if err != nil {
		return nil, err
	}
	s.References = refs

	text, c, err := b.p.res.ResolveAll(text)
	if err != nil {
		return nil, err
	}
	s.Infoboxes = c.Infoboxes
	s.Templates = c.Records
	s.Coordinates = c.Coordinates
	for i := range c.Citations {
		s.References = append(s.References, doctree.Reference{
			Kind:     doctree.RefCitation,
			Citation: &c.Citations[i],
		})
	}

	s.Paragraphs = b.paragraphs(scanner.StripHTML(text))
	return s, nil
}

// cell resolves the templates of one table cell and parses it inline.
func (b *builder) cell(raw string) doctree.Sentence {
	text, _, err := b.p.res.ResolveAll(raw)
	if err != nil {
		text = scanner.StripTemplatesAndFiles(raw, b.p.files)
	}
	return b.p.inline.Parse(scanner.StripHTML(text))
}

// imageOptions are the layout keywords of a file link.
var imageOptions = map[string]bool{
	"thumb": true, "thumbnail": true, "frame": true, "framed": true,
	"frameless": true, "border": true, "left": true, "right": true,
	"center": true, "centre": true, "none": true, "upright": true,
	"baseline": true, "middle": true, "sub": true, "super": true,
	"top": true, "text-top": true, "bottom": true, "text-bottom": true,
}

var imageSizeRe = regexp.MustCompile(`^\d*(?:x\d+)?px$`)

func isImageOption(part string) bool {
	p := strings.ToLower(strings.TrimSpace(part))
	if imageOptions[p] || imageSizeRe.MatchString(p) {
		return true
	}
	k, _, ok := strings.Cut(p, "=")
	if !ok {
		return false
	}
	switch strings.TrimSpace(k) {
	case "alt", "link", "upright", "page", "class", "lang", "thumb", "thumbnail":
		return true
	}
	return false
}

// extractImages removes file links from text, recording each as an Image.
func (b *builder) extractImages(text string) (string, error) {
	found := scanner.FindFileLinks(text, b.p.files)
	if len(found) == 0 {
		return text, nil
	}
	spans := make([]scanner.Span, 0, len(found))
	for _, tok := range found {
		spans = append(spans, scanner.Span{Start: tok.Start, End: tok.End})
		parts := scanner.SplitParams("{{" + tok.Inner + "}}")
		img := doctree.Image{File: strings.TrimSpace(strings.ReplaceAll(parts[0], "_", " "))}
		caption := ""
		for _, part := range parts[1:] {
			if isImageOption(part) {
				img.Options = append(img.Options, strings.TrimSpace(part))
				continue
			}
			caption = part
		}
		if caption != "" {
			resolved, _, err := b.p.res.ResolveAll(caption)
			if err != nil {
				return "", err
			}
			img.Caption = b.p.inline.Parse(scanner.StripHTML(resolved))
		}
		b.images = append(b.images, img)
	}
	return scanner.Splice(text, spans)
}

var referenceSectionRe = regexp.MustCompile(`(?i)^(?:references?|notes|notes and references|references and notes|footnotes|citations|sources|bibliography|further reading|external links|see also|works cited)$`)

// filterReferenceSections drops reference-style sections that carry no
// paragraph or template content. The section right after a dropped one
// moves up a level when it was nested deeper.
func filterReferenceSections(in []*doctree.Section) []*doctree.Section {
	out := in[:0]
	for i, s := range in {
		if !referenceSectionRe.MatchString(strings.TrimSpace(s.Title)) || s.HasContent() {
			out = append(out, s)
			continue
		}
		if i+1 < len(in) && in[i+1].Depth > s.Depth {
			in[i+1].Depth--
		}
	}
	return out
}

func isEmpty(s *doctree.Section) bool {
	return !s.HasContent() && len(s.Infoboxes) == 0 && len(s.Tables) == 0 &&
		len(s.References) == 0 && len(s.Coordinates) == 0
}
