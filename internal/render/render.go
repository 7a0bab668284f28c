// Package render turns a parsed Document into Markdown, plain text or HTML
// for callers that want a display format rather than the structure.
package render

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/wikierr"
)

// Markdown renders doc as CommonMark with GFM tables. Headings follow
// section depth, links render as [text](Target) and references are listed
// at the end.
func Markdown(doc *doctree.Document) string {
	var b strings.Builder
	if t := doc.Title(); t != "" {
		fmt.Fprintf(&b, "# %s\n\n", escape(t))
	}
	if doc.IsRedirect() {
		to := doc.RedirectTo()
		fmt.Fprintf(&b, "Redirect to [%s](%s)\n", escape(to.Page), target(*to))
		return b.String()
	}
	if d := doc.ShortDescription(); d != "" {
		fmt.Fprintf(&b, "*%s*\n\n", escape(d))
	}
	for _, ib := range doc.Infoboxes() {
		writeInfobox(&b, ib)
	}
	for _, s := range doc.Sections() {
		if s.Title != "" {
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", min(s.Depth+2, 6)), escape(s.Title))
		}
		for _, p := range s.Paragraphs {
			if len(p.Sentences) > 0 {
				parts := make([]string, 0, len(p.Sentences))
				for _, sen := range p.Sentences {
					parts = append(parts, sentence(sen))
				}
				b.WriteString(strings.Join(parts, " "))
				b.WriteString("\n\n")
			}
			for _, l := range p.Lists {
				writeList(&b, l)
			}
		}
		for _, t := range s.Tables {
			writeTable(&b, t)
		}
	}
	if refs := doc.References(); len(refs) > 0 {
		b.WriteString("## References\n\n")
		for i, r := range refs {
			text := r.Text()
			if text == "" {
				text = r.Name
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, escape(text))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

var numberedItem = regexp.MustCompile(`^\d+\) `)

func writeList(b *strings.Builder, l doctree.List) {
	for _, item := range l.Items {
		if loc := numberedItem.FindStringIndex(item.Text); loc != nil {
			b.WriteString(item.Text[:loc[1]])
			b.WriteString(sentence(shift(item, loc[1])))
		} else {
			b.WriteString("- ")
			b.WriteString(sentence(item))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// shift drops the first n bytes of a sentence's text.
func shift(s doctree.Sentence, n int) doctree.Sentence {
	out := s.Clone()
	out.Text = s.Text[n:]
	for i := range out.Links {
		out.Links[i].Start -= n
		out.Links[i].End -= n
	}
	return out
}

func writeInfobox(b *strings.Builder, ib doctree.Infobox) {
	if len(ib.Fields) == 0 {
		return
	}
	fmt.Fprintf(b, "| %s | |\n| --- | --- |\n", cell(ib.Type))
	for _, k := range ib.Keys() {
		fmt.Fprintf(b, "| %s | %s |\n", cell(k), cellSentence(ib.Fields[k]))
	}
	b.WriteString("\n")
}

func writeTable(b *strings.Builder, t doctree.Table) {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}
	if t.Caption != "" {
		fmt.Fprintf(b, "**%s**\n\n", escape(t.Caption))
	}
	b.WriteString("|")
	for i := 0; i < cols; i++ {
		h := ""
		if i < len(t.Headers) {
			h = t.Headers[i]
		}
		fmt.Fprintf(b, " %s |", cell(h))
	}
	b.WriteString("\n|")
	b.WriteString(strings.Repeat(" --- |", cols))
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString("|")
		for i := 0; i < cols; i++ {
			c := ""
			if i < len(row) {
				c = cellSentence(row[i])
			}
			fmt.Fprintf(b, " %s |", c)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func cell(s string) string {
	return strings.ReplaceAll(escape(s), "|", `\|`)
}

func cellSentence(s doctree.Sentence) string {
	return strings.ReplaceAll(sentence(s), "|", `\|`)
}

// sentence renders a sentence's text with its links spliced in as
// Markdown links.
func sentence(s doctree.Sentence) string {
	var b strings.Builder
	pos := 0
	for _, l := range s.Links {
		if l.Start < pos || l.End > len(s.Text) || l.End < l.Start {
			continue
		}
		b.WriteString(escape(s.Text[pos:l.Start]))
		fmt.Fprintf(&b, "[%s](%s)", escape(s.Text[l.Start:l.End]), target(l))
		pos = l.End
	}
	b.WriteString(escape(s.Text[pos:]))
	return b.String()
}

// target returns the link destination. Internal pages keep their title
// with spaces as underscores.
func target(l doctree.Link) string {
	switch l.Type {
	case doctree.LinkExternal:
		return l.Site
	case doctree.LinkInterwiki:
		return l.Site + ":" + pageRef(l)
	}
	return pageRef(l)
}

func pageRef(l doctree.Link) string {
	ref := url.PathEscape(strings.ReplaceAll(l.Page, " ", "_"))
	if l.Anchor != "" {
		ref += "#" + url.PathEscape(strings.ReplaceAll(l.Anchor, " ", "_"))
	}
	return ref
}

var mdSpecial = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`", "<", `\<`,
)

func escape(s string) string {
	return mdSpecial.Replace(s)
}

// Text renders doc as plain text: the title, then each section title on its
// own line followed by its prose and list items.
func Text(doc *doctree.Document) string {
	var parts []string
	if t := doc.Title(); t != "" {
		parts = append(parts, t)
	}
	if doc.IsRedirect() {
		return strings.Join(append(parts, "Redirect to "+doc.RedirectTo().Page), "\n\n") + "\n"
	}
	for _, s := range doc.Sections() {
		var sec []string
		if s.Title != "" {
			sec = append(sec, s.Title)
		}
		if t := s.Text(); t != "" {
			sec = append(sec, t)
		}
		if len(sec) > 0 {
			parts = append(parts, strings.Join(sec, "\n"))
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

var engine = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// HTML renders doc's Markdown to HTML. Raw HTML is never emitted.
func HTML(doc *doctree.Document) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(Markdown(doc)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// Format names an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
)

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Render renders doc in the given format.
func Render(doc *doctree.Document, f Format) (string, error) {
	switch f {
	case FormatMarkdown, "md", "":
		return Markdown(doc), nil
	case FormatText, "txt":
		return Text(doc), nil
	case FormatHTML:
		return HTML(doc)
	}
	return "", wikierr.Invalidf("unknown format %q", f)
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	}
	return "", wikierr.Invalidf("unknown format %q", s)
}
