package scanner

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTemplatesAndFiles removes template bodies, tables and file links in a
// single forward scan without looking at their contents. Unclosed
// constructs swallow the rest of the input.
func StripTemplatesAndFiles(text string, filePrefixes map[string]bool) string {
	var b strings.Builder
	b.Grow(len(text))
	tmpl, table, file := 0, 0, 0
	for i := 0; i < len(text); {
		two := ""
		if i+1 < len(text) {
			two = text[i : i+2]
		}
		switch {
		case two == "{{":
			tmpl++
			i += 2
		case two == "}}" && tmpl > 0:
			tmpl--
			i += 2
		case tmpl > 0:
			i++
		case two == "{|" && atLineStart(text, i):
			table++
			i += 2
		case two == "|}" && table > 0 && atLineStart(text, i):
			table--
			i += 2
		case table > 0:
			i++
		case file > 0:
			switch two {
			case "[[":
				file++
				i += 2
			case "]]":
				file--
				i += 2
			default:
				i++
			}
		case two == "[[" && isFilePrefixAt(text, i+2, filePrefixes):
			file = 1
			i += 2
		default:
			b.WriteByte(text[i])
			i++
		}
	}
	return b.String()
}

func isFilePrefixAt(text string, j int, prefixes map[string]bool) bool {
	window := text[j:min(len(text), j+32)]
	k := strings.IndexByte(window, ':')
	if k <= 0 {
		return false
	}
	return prefixes[strings.ToLower(strings.TrimSpace(window[:k]))]
}

// StripComments removes <!-- --> comments; an unclosed comment runs to the
// end of input.
func StripComments(text string) string {
	if !strings.Contains(text, "<!--") {
		return text
	}
	var b strings.Builder
	for {
		i := strings.Index(text, "<!--")
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		j := strings.Index(text[i+4:], "-->")
		if j < 0 {
			return b.String()
		}
		text = text[i+4+j+3:]
	}
}

// dropElements are tags whose content is not prose.
var dropElements = map[string]bool{
	"gallery": true, "math": true, "timeline": true, "score": true,
	"imagemap": true, "chem": true, "ce": true, "graph": true,
	"mapframe": true, "maplink": true, "templatedata": true,
	"references": true, "inputbox": true, "hiero": true,
	"categorytree": true, "indicator": true, "templatestyles": true,
}

// StripHTML removes HTML-like tags from wikitext, keeps the text of inline
// elements, drops the content of non-prose elements and decodes entities.
// <br> tags become spaces; newlines in the text are kept so paragraph and
// list splitting still see them.
func StripHTML(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}
	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	b.Grow(len(text))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.ReplaceAll(b.String(), "\u00a0", " ")
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if dropElements[tag] {
				skip++
			} else if tag == "br" && skip == 0 {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if dropElements[string(name)] && skip > 0 {
				skip--
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" && skip == 0 {
				b.WriteByte(' ')
			}
		}
	}
}
