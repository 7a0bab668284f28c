package scanner

import "strings"

// FindTables extracts top-level {| ... |} blocks that open and close at the
// start of a line, returning them in order together with the text that
// remains once they are removed. An unclosed table extends to the end of
// input and is left in place.
func FindTables(text string) (tables []string, rest string) {
	var b strings.Builder
	depth, start, last := 0, -1, 0
	for i := 0; i+1 < len(text); {
		switch {
		case text[i] == '{' && text[i+1] == '|' && atLineStart(text, i):
			if depth == 0 {
				start = i
			}
			depth++
			i += 2
		case text[i] == '|' && text[i+1] == '}' && depth > 0 && atLineStart(text, i):
			depth--
			i += 2
			if depth == 0 {
				tables = append(tables, text[start:i])
				b.WriteString(text[last:start])
				last = i
			}
		default:
			i++
		}
	}
	if len(tables) == 0 {
		return nil, text
	}
	b.WriteString(text[last:])
	return tables, b.String()
}

// atLineStart reports whether only spaces or tabs precede i on its line.
func atLineStart(text string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch text[j] {
		case '\n':
			return true
		case ' ', '\t':
			continue
		default:
			return false
		}
	}
	return true
}
