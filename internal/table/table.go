// Package table parses {| ... |} wiki tables into rows of sentences.
package table

import (
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/scanner"
)

// CellFunc turns the raw markup of one cell into a sentence. Callers use it
// to resolve templates before inline parsing.
type CellFunc func(raw string) doctree.Sentence

// Parse parses one table block as returned by scanner.FindTables. Nested
// tables are dropped. A leading row made only of header cells becomes
// Headers; other header cells are treated as ordinary cells.
func Parse(block string, cell CellFunc) doctree.Table {
	inner := strings.TrimSpace(block)
	inner = strings.TrimPrefix(inner, "{|")
	inner = strings.TrimSuffix(inner, "|}")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		inner = inner[nl+1:] // table attributes
	} else {
		inner = ""
	}
	_, inner = scanner.FindTables(inner)

	var (
		t       doctree.Table
		row     []string
		headers int // leading header cells of row
	)
	flush := func() {
		defer func() { row, headers = nil, 0 }()
		if len(row) == 0 {
			return
		}
		if headers == len(row) && len(t.Rows) == 0 && len(t.Headers) == 0 {
			for _, h := range row {
				t.Headers = append(t.Headers, cell(h).Text)
			}
			return
		}
		sentences := make([]doctree.Sentence, len(row))
		for i, raw := range row {
			sentences[i] = cell(raw)
		}
		t.Rows = append(t.Rows, sentences)
	}
	for _, line := range strings.Split(inner, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "|+"):
			t.Caption = cell(stripAttrs(trimmed[2:])).Text
		case strings.HasPrefix(trimmed, "|-"):
			flush()
		case strings.HasPrefix(trimmed, "!"):
			parts := splitCells(trimmed[1:], "!!", "||")
			if headers == len(row) {
				headers += len(parts)
			}
			row = append(row, parts...)
		case strings.HasPrefix(trimmed, "|"):
			row = append(row, splitCells(trimmed[1:], "||")...)
		case trimmed != "" && len(row) > 0:
			row[len(row)-1] += "\n" + line
		}
	}
	flush()
	return t
}

// splitCells splits a cell line on any of the separators and strips each
// cell's attribute prefix.
func splitCells(s string, seps ...string) []string {
	parts := []string{s}
	for _, sep := range seps {
		var next []string
		for _, p := range parts {
			next = append(next, splitTop(p, sep)...)
		}
		parts = next
	}
	for i, p := range parts {
		parts[i] = stripAttrs(p)
	}
	return parts
}

// splitTop splits on sep outside of [[links]] and {{templates}}.
func splitTop(s, sep string) []string {
	var out []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "[[") || strings.HasPrefix(s[i:], "{{"):
			depth++
			i++
		case (strings.HasPrefix(s[i:], "]]") || strings.HasPrefix(s[i:], "}}")) && depth > 0:
			depth--
			i++
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			out = append(out, s[last:i])
			last = i + len(sep)
			i += len(sep) - 1
		}
	}
	return append(out, s[last:])
}

// stripAttrs drops an `attr="x" | content` prefix from a cell.
func stripAttrs(s string) string {
	parts := splitTop(s, "|")
	if len(parts) < 2 {
		return strings.TrimSpace(s)
	}
	attrs := strings.TrimSpace(parts[0])
	if attrs != "" && !strings.Contains(attrs, "=") {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.Join(parts[1:], "|"))
}
