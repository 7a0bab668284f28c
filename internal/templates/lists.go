package templates

import (
	"strconv"
	"strings"
)

// ListSeparator joins the items of inline list templates.
const ListSeparator = ", "

func inlineList(_ *Resolver, p Params) Result {
	return Result{Text: strings.Join(p.Args(), ListSeparator)}
}

// blockList flattens the bullet lines of {{plainlist|\n* a\n* b}}.
func blockList(_ *Resolver, p Params) Result {
	var items []string
	for _, a := range p.Args() {
		for _, line := range strings.Split(a, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*#:;"))
			if line != "" {
				items = append(items, line)
			}
		}
	}
	return Result{Text: strings.Join(items, ListSeparator)}
}

func orderedList(_ *Resolver, p Params) Result {
	args := p.Args()
	items := make([]string, len(args))
	for i, a := range args {
		items[i] = strconv.Itoa(i+1) + ") " + a
	}
	return Result{Text: strings.Join(items, ListSeparator)}
}

func collapsibleList(r *Resolver, p Params) Result {
	text := blockList(r, p).Text
	if title := p.Get("title"); title != "" && text != "" {
		return Result{Text: title + ": " + text}
	}
	return Result{Text: text}
}
