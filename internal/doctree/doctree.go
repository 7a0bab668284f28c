// Package doctree is the structured model a wikitext article is parsed into.
//
// A Document owns ordered Sections; each Section owns Paragraphs (sentences
// and lists) plus the side-records produced while resolving templates:
// infoboxes, tables, references, coordinates and other structured records.
package doctree

import (
	"encoding/json"
	"strings"
)

// Document is the root of a parsed article. It is immutable once built.
type Document struct {
	raw        string
	title      string
	redirect   bool
	redirectTo *Link
	sections   []*Section
	categories []string
	images     []Image
}

// NewDocument builds a regular (non-redirect) document.
func NewDocument(raw, title string, sections []*Section, categories []string, images []Image) *Document {
	return &Document{
		raw:        raw,
		title:      title,
		sections:   sections,
		categories: categories,
		images:     images,
	}
}

// NewRedirect builds a redirect document. It never has sections.
func NewRedirect(raw, title string, target Link, categories []string) *Document {
	return &Document{
		raw:        raw,
		title:      title,
		redirect:   true,
		redirectTo: &target,
		categories: categories,
	}
}

// Raw returns the markup the document was parsed from.
func (d *Document) Raw() string { return d.raw }

// IsRedirect reports whether the article only points at another title.
func (d *Document) IsRedirect() bool { return d.redirect }

// RedirectTo returns the redirect target, or nil for regular documents.
func (d *Document) RedirectTo() *Link { return d.redirectTo }

// Sections returns the ordered section list.
func (d *Document) Sections() []*Section { return d.sections }

// Categories returns category names without the namespace prefix.
func (d *Document) Categories() []string { return d.categories }

// Images returns the file/image links found in the article body.
func (d *Document) Images() []Image { return d.images }

// Title returns the supplied title, or infers one from the first bold span
// of the article's first sentence.
func (d *Document) Title() string {
	if d.title != "" {
		return d.title
	}
	for _, s := range d.sections {
		for _, p := range s.Paragraphs {
			if len(p.Sentences) > 0 {
				return p.Sentences[0].FirstBold()
			}
		}
	}
	return ""
}

// Section returns the first section whose title matches, case-insensitively.
func (d *Document) Section(title string) *Section {
	for _, s := range d.sections {
		if strings.EqualFold(s.Title, title) {
			return s
		}
	}
	return nil
}

// Paragraphs returns every paragraph in document order.
func (d *Document) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, s := range d.sections {
		out = append(out, s.Paragraphs...)
	}
	return out
}

// Sentences returns every prose sentence in document order.
func (d *Document) Sentences() []Sentence {
	var out []Sentence
	for _, s := range d.sections {
		out = append(out, s.Sentences()...)
	}
	return out
}

// Links returns every link in document order.
func (d *Document) Links() []Link {
	var out []Link
	for _, s := range d.sections {
		out = append(out, s.Links()...)
	}
	return out
}

// Infoboxes returns all infoboxes in document order.
func (d *Document) Infoboxes() []Infobox {
	var out []Infobox
	for _, s := range d.sections {
		out = append(out, s.Infoboxes...)
	}
	return out
}

// Infobox returns the first infobox, or nil.
func (d *Document) Infobox() *Infobox {
	for _, s := range d.sections {
		if len(s.Infoboxes) > 0 {
			return &s.Infoboxes[0]
		}
	}
	return nil
}

func (d *Document) References() []Reference {
	var out []Reference
	for _, s := range d.sections {
		out = append(out, s.References...)
	}
	return out
}

func (d *Document) Tables() []Table {
	var out []Table
	for _, s := range d.sections {
		out = append(out, s.Tables...)
	}
	return out
}

func (d *Document) Coordinates() []Coordinate {
	var out []Coordinate
	for _, s := range d.sections {
		out = append(out, s.Coordinates...)
	}
	return out
}

// Templates returns the structured template records in document order.
func (d *Document) Templates() []Record {
	var out []Record
	for _, s := range d.sections {
		out = append(out, s.Templates...)
	}
	return out
}

// ShortDescription returns the one-line summary template's text, if any.
func (d *Document) ShortDescription() string {
	for _, r := range d.Templates() {
		if r.Kind == RecordShortDescription {
			return r.Text
		}
	}
	return ""
}

// Text returns the plain text of the article, paragraphs separated by
// blank lines.
func (d *Document) Text() string {
	var parts []string
	for _, s := range d.sections {
		if t := s.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

type documentJSON struct {
	Title            string     `json:"title,omitempty"`
	IsRedirect       bool       `json:"isRedirect"`
	RedirectTo       *Link      `json:"redirectTo,omitempty"`
	ShortDescription string     `json:"shortDescription,omitempty"`
	Categories       []string   `json:"categories"`
	Images           []Image    `json:"images,omitempty"`
	Sections         []*Section `json:"sections"`
}

// MarshalJSON emits the document as a plain nested record.
func (d *Document) MarshalJSON() ([]byte, error) {
	cats := d.categories
	if cats == nil {
		cats = []string{}
	}
	secs := d.sections
	if secs == nil {
		secs = []*Section{}
	}
	return json.Marshal(documentJSON{
		Title:            d.Title(),
		IsRedirect:       d.redirect,
		RedirectTo:       d.redirectTo,
		ShortDescription: d.ShortDescription(),
		Categories:       cats,
		Images:           d.images,
		Sections:         secs,
	})
}
