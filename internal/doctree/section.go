package doctree

import "strings"

// Section is a heading-delimited part of an article. The lead section has
// an empty title. Depth 0 is a top-level (==) heading.
type Section struct {
	Title       string       `json:"title"`
	Depth       int          `json:"depth"`
	Paragraphs  []Paragraph  `json:"paragraphs,omitempty"`
	Infoboxes   []Infobox    `json:"infoboxes,omitempty"`
	Templates   []Record     `json:"templates,omitempty"`
	Tables      []Table      `json:"tables,omitempty"`
	References  []Reference  `json:"references,omitempty"`
	Coordinates []Coordinate `json:"coordinates,omitempty"`
}

// Paragraph is a blank-line delimited chunk of section text.
type Paragraph struct {
	Sentences []Sentence `json:"sentences,omitempty"`
	Lists     []List     `json:"lists,omitempty"`
}

// List is one contiguous block of list lines; each item is a sentence.
type List struct {
	Items []Sentence `json:"items"`
}

// Sentences returns the prose sentences of every paragraph.
func (s *Section) Sentences() []Sentence {
	var out []Sentence
	for _, p := range s.Paragraphs {
		out = append(out, p.Sentences...)
	}
	return out
}

// Lists returns the list blocks of every paragraph.
func (s *Section) Lists() []List {
	var out []List
	for _, p := range s.Paragraphs {
		out = append(out, p.Lists...)
	}
	return out
}

// Links collects links from sentences, lists, infoboxes and tables.
func (s *Section) Links() []Link {
	var out []Link
	for _, p := range s.Paragraphs {
		for _, sen := range p.Sentences {
			out = append(out, sen.Links...)
		}
		for _, l := range p.Lists {
			for _, item := range l.Items {
				out = append(out, item.Links...)
			}
		}
	}
	for _, ib := range s.Infoboxes {
		for _, k := range ib.Keys() {
			out = append(out, ib.Fields[k].Links...)
		}
	}
	for _, t := range s.Tables {
		for _, row := range t.Rows {
			for _, cell := range row {
				out = append(out, cell.Links...)
			}
		}
	}
	return out
}

// HasContent reports whether the section carries paragraph or template
// content.
func (s *Section) HasContent() bool {
	if len(s.Templates) > 0 {
		return true
	}
	for _, p := range s.Paragraphs {
		if len(p.Sentences) > 0 || len(p.Lists) > 0 {
			return true
		}
	}
	return false
}

// Text renders the section's prose and lists as plain text.
func (s *Section) Text() string {
	var paras []string
	for _, p := range s.Paragraphs {
		var lines []string
		if len(p.Sentences) > 0 {
			texts := make([]string, 0, len(p.Sentences))
			for _, sen := range p.Sentences {
				texts = append(texts, sen.Text)
			}
			lines = append(lines, strings.Join(texts, " "))
		}
		for _, l := range p.Lists {
			for _, item := range l.Items {
				lines = append(lines, item.Text)
			}
		}
		if len(lines) > 0 {
			paras = append(paras, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paras, "\n\n")
}
