package fastparse

import (
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/scanner"
	"github.com/dgallion1/wikidoc/internal/templates"
)

// Infobox returns the first infobox inside the first opts.Bytes() bytes.
// Field values have their templates stripped, not resolved. An infobox that
// opens inside the window but does not close in it is returned with the
// complete fields seen so far and Partial set.
func (b *Bounded) Infobox(markup string, opts doctree.Options) (res *doctree.InfoboxResult, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	defer recoverInto("infobox", &err)

	window := Head(markup, opts.Bytes())
	res = &doctree.InfoboxResult{Truncated: len(window) < len(markup)}
	if link, ok := b.redirectOf(window); ok {
		res.IsRedirect = true
		res.RedirectTo = &link
		return res, nil
	}

	body, name, closed := b.findInfobox(scanner.StripComments(window))
	if body == "" {
		return res, nil
	}
	res.Found = true
	res.Type = templates.InfoboxType(name)
	res.Partial = !closed
	res.Fields = map[string]string{}

	segs := scanner.SplitParams(body)[1:]
	if !closed && len(segs) > 0 {
		segs = segs[:len(segs)-1]
	}
	for _, seg := range segs {
		key, value, ok := scanner.SplitKeyValue(seg)
		if !ok {
			continue
		}
		value = scanner.StripHTML(scanner.StripTemplatesAndFiles(value, b.files))
		if text := b.inline.Parse(value).Text; text != "" {
			res.Fields[strings.ToLower(strings.TrimSpace(key))] = text
		}
	}
	return res, nil
}

// findInfobox scans top-level templates with brace-depth matching and
// returns the first whose name is an infobox. closed is false when the
// template runs off the end of text.
func (b *Bounded) findInfobox(text string) (body, name string, closed bool) {
	depth, start := 0, -1
	for i := 0; i+1 < len(text); {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			if depth == 0 {
				start = -1
				if n := scanner.TemplateName(text[i:]); b.isInfobox(n) {
					start, name = i, n
				}
			}
			depth++
			i += 2
		case text[i] == '}' && text[i+1] == '}' && depth > 0:
			depth--
			i += 2
			if depth == 0 && start >= 0 {
				return text[start:i], name, true
			}
		default:
			i++
		}
	}
	if start >= 0 {
		return text[start:], name, false
	}
	return "", "", false
}

// ShortDescription returns the argument of the short description template
// when it appears in the first ShortDescriptionWindow bytes of markup.
func ShortDescription(markup string) string {
	head := Head(markup, ShortDescriptionWindow)
	for _, t := range scanner.FindTemplates(head) {
		if t.Name != "short description" {
			continue
		}
		segs := scanner.SplitParams(t.Body)
		for _, seg := range segs[1:] {
			if _, _, named := scanner.SplitKeyValue(seg); named {
				continue
			}
			desc := strings.TrimSpace(seg)
			if strings.EqualFold(desc, "none") {
				return ""
			}
			return desc
		}
		return ""
	}
	return ""
}
