package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/scanner"
)

var (
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)
	// listLineRe matches the marker run of a list line: wiki markers, a
	// bullet glyph or a dense "1." / "1)" number.
	listLineRe = regexp.MustCompile(`^[ \t]*(?:([*#:;|]+)|(•)|(\d{1,3}[.)])[ \t])`)
)

// paragraphs splits section text on blank lines.
func (b *builder) paragraphs(text string) []doctree.Paragraph {
	var out []doctree.Paragraph
	for _, chunk := range blankLineRe.Split(text, -1) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		p := b.paragraph(chunk)
		if len(p.Sentences) > 0 || len(p.Lists) > 0 {
			out = append(out, p)
		}
	}
	return out
}

type listLine struct {
	marker string
	text   string
}

// paragraph groups contiguous list lines into List blocks and splits the
// remaining prose into sentences.
func (b *builder) paragraph(chunk string) doctree.Paragraph {
	var (
		p     doctree.Paragraph
		prose []string
		block []listLine
	)
	flushList := func() {
		if l, ok := b.list(block); ok {
			p.Lists = append(p.Lists, l)
		}
		block = nil
	}
	for _, line := range strings.Split(chunk, "\n") {
		if m := listLineRe.FindStringSubmatchIndex(line); m != nil {
			marker := line[m[0]:m[1]]
			block = append(block, listLine{
				marker: strings.TrimSpace(marker),
				text:   line[m[1]:],
			})
			continue
		}
		if len(block) > 0 {
			flushList()
		}
		prose = append(prose, line)
	}
	if len(block) > 0 {
		flushList()
	}
	for _, raw := range scanner.SplitSentences(strings.Join(prose, " ")) {
		s := b.p.inline.Parse(raw)
		if !s.IsEmpty() {
			p.Sentences = append(p.Sentences, s)
		}
	}
	return p
}

// list builds one List block. Numbered items are renumbered 1..n over the
// items that survive, whatever their source numbering. A block made only of
// ':' indents is not a list and is dropped.
func (b *builder) list(lines []listLine) (doctree.List, bool) {
	indentOnly := true
	for _, l := range lines {
		if strings.Trim(l.marker, ":") != "" {
			indentOnly = false
			break
		}
	}
	if indentOnly {
		return doctree.List{}, false
	}
	var (
		l doctree.List
		n int
	)
	for _, line := range lines {
		item := b.p.inline.Parse(line.text)
		if item.IsEmpty() {
			continue
		}
		if numbered(line.marker) {
			n++
			item = prefixSentence(strconv.Itoa(n)+") ", item)
		}
		l.Items = append(l.Items, item)
	}
	return l, len(l.Items) > 0
}

func numbered(marker string) bool {
	if strings.HasSuffix(marker, "#") {
		return true
	}
	last := marker[len(marker)-1]
	return last == '.' || last == ')'
}

// prefixSentence prepends prefix to s, shifting link offsets.
func prefixSentence(prefix string, s doctree.Sentence) doctree.Sentence {
	out := s.Clone()
	out.Text = prefix + s.Text
	for i := range out.Links {
		out.Links[i].Start += len(prefix)
		out.Links[i].End += len(prefix)
	}
	return out
}
