// Package scanner holds the low-level wikitext scanning primitives shared by
// the full and the bounded parsing pipelines: balanced template and table
// finders, link matching, sentence boundaries, span splicing and tag
// stripping. It has no knowledge of what any template means.
package scanner

import (
	"strings"
)

// Template is one top-level {{...}} occurrence. Body includes the braces;
// Start and End are byte offsets with End exclusive.
type Template struct {
	Name  string
	Body  string
	Start int
	End   int
}

// FindTemplates returns the top-level templates of text in order, using
// depth-counted brace matching. An opening {{ that is never closed extends
// to the end of input and yields no template.
func FindTemplates(text string) []Template {
	var out []Template
	depth := 0
	start := -1
	for i := 0; i+1 < len(text); {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			if depth == 0 {
				start = i
			}
			depth++
			i += 2
		case text[i] == '}' && text[i+1] == '}' && depth > 0:
			depth--
			i += 2
			if depth == 0 {
				body := text[start:i]
				out = append(out, Template{
					Name:  TemplateName(body),
					Body:  body,
					Start: start,
					End:   i,
				})
			}
		default:
			i++
		}
	}
	return out
}

// magicWords are parser functions written as {{name:arg}}.
var magicWords = map[string]bool{
	"formatnum": true, "lc": true, "uc": true, "lcfirst": true, "ucfirst": true,
	"urlencode": true, "anchorencode": true, "padleft": true, "padright": true,
	"fullurl": true, "localurl": true, "ns": true, "plural": true, "int": true,
	"msg": true, "subst": true, "safesubst": true, "defaultsort": true,
	"displaytitle": true, "lang": true,
}

// TemplateName extracts the normalized name of a template body.
func TemplateName(body string) string {
	s := strings.TrimPrefix(body, "{{")
	s = strings.TrimLeft(s, " \t\r\n")
	end := len(s)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '|' || c == '}' || c == '\n' || c == '{' || c == '[' {
			end = i
			break
		}
	}
	name := s[:end]
	for {
		i := strings.IndexByte(name, ':')
		if i <= 0 {
			break
		}
		head := strings.ToLower(strings.TrimSpace(name[:i]))
		if head == "subst" || head == "safesubst" {
			name = name[i+1:]
			continue
		}
		if strings.HasPrefix(head, "#") || magicWords[head] {
			name = name[:i]
		}
		break
	}
	return NormalizeName(name)
}

// NormalizeName lowercases a template name, folds underscores and runs of
// whitespace to single spaces, and drops a leading "template:" namespace.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, "_", " "))
	name = strings.Join(strings.Fields(name), " ")
	for _, p := range []string{"template:", "subst:", "safesubst:"} {
		name = strings.TrimSpace(strings.TrimPrefix(name, p))
	}
	return name
}

// InnerBody returns the body without its surrounding braces.
func InnerBody(body string) string {
	body = strings.TrimPrefix(body, "{{")
	return strings.TrimSuffix(body, "}}")
}

// MagicArg returns the argument written after the colon of a parser
// function or magic word name segment ({{formatnum:1234}} -> "1234").
func MagicArg(seg string) (string, bool) {
	i := strings.IndexByte(seg, ':')
	if i <= 0 {
		return "", false
	}
	head := strings.ToLower(strings.TrimSpace(seg[:i]))
	if head == "subst" || head == "safesubst" {
		return MagicArg(seg[i+1:])
	}
	if !strings.HasPrefix(head, "#") && !magicWords[head] {
		return "", false
	}
	return strings.TrimSpace(seg[i+1:]), true
}
