package scanner

import (
	"regexp"
	"strings"
)

// SplitParams splits a template body on top-level pipes. Pipes inside
// nested templates or links do not split. The first segment is the name.
func SplitParams(body string) []string {
	inner := InnerBody(body)
	var out []string
	braces, brackets := 0, 0
	last := 0
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		two := i+1 < len(inner)
		switch {
		case c == '{' && two && inner[i+1] == '{':
			braces++
			i++
		case c == '}' && two && inner[i+1] == '}' && braces > 0:
			braces--
			i++
		case c == '[' && two && inner[i+1] == '[':
			brackets++
			i++
		case c == ']' && two && inner[i+1] == ']' && brackets > 0:
			brackets--
			i++
		case c == '|' && braces == 0 && brackets == 0:
			out = append(out, inner[last:i])
			last = i + 1
		}
	}
	return append(out, inner[last:])
}

var paramKeyRe = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N}_ \-.]*$`)

// SplitKeyValue splits a "key = value" segment. It only reports ok when the
// part before the first top-level '=' looks like an identifier.
func SplitKeyValue(seg string) (key, value string, ok bool) {
	braces, brackets := 0, 0
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		two := i+1 < len(seg)
		switch {
		case c == '{' && two && seg[i+1] == '{':
			braces++
			i++
		case c == '}' && two && seg[i+1] == '}' && braces > 0:
			braces--
			i++
		case c == '[' && two && seg[i+1] == '[':
			brackets++
			i++
		case c == ']' && two && seg[i+1] == ']' && brackets > 0:
			brackets--
			i++
		case c == '=' && braces == 0 && brackets == 0:
			k := strings.TrimSpace(seg[:i])
			if len(k) == 0 || len(k) > 80 || !paramKeyRe.MatchString(k) {
				return "", "", false
			}
			return k, strings.TrimSpace(seg[i+1:]), true
		case c == '<' && braces == 0 && brackets == 0:
			return "", "", false
		}
	}
	return "", "", false
}
