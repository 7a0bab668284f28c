package templates

import (
	"strconv"
	"strings"

	"github.com/dgallion1/wikidoc/internal/scanner"
)

// layoutKeys only affect presentation and are dropped while parsing.
var layoutKeys = map[string]bool{
	"style": true, "align": true, "margin": true, "width": true, "height": true,
	"class": true, "float": true, "border": true, "valign": true,
	"bgcolor": true, "background": true, "padding": true, "font-size": true,
	"text-align": true, "clear": true, "nowrap": true, "color": true,
	"bodystyle": true, "liststyle": true, "itemstyle": true, "titlestyle": true,
}

// Params are the arguments of one template call. Named keys are lowercased;
// explicitly numbered keys ("|2=x") land in Positional.
type Params struct {
	Name       string
	Named      map[string]string
	Positional []string
}

// ParseParams splits body into named and positional parameters. A segment
// is named only when its key looks like an identifier.
func ParseParams(body string) Params {
	segs := scanner.SplitParams(body)
	p := Params{
		Name:  scanner.TemplateName(body),
		Named: make(map[string]string),
	}
	if arg, ok := scanner.MagicArg(segs[0]); ok {
		p.Positional = append(p.Positional, arg)
	}
	for _, seg := range segs[1:] {
		key, value, ok := scanner.SplitKeyValue(seg)
		if !ok {
			p.Positional = append(p.Positional, strings.TrimSpace(seg))
			continue
		}
		key = strings.ToLower(key)
		if n, err := strconv.Atoi(key); err == nil && n > 0 && n <= 256 {
			for len(p.Positional) < n {
				p.Positional = append(p.Positional, "")
			}
			p.Positional[n-1] = value
			continue
		}
		if layoutKeys[key] {
			continue
		}
		p.Named[key] = value
	}
	return p
}

// Get returns the first non-empty named value among keys.
func (p Params) Get(keys ...string) string {
	for _, k := range keys {
		if v := p.Named[k]; v != "" {
			return v
		}
	}
	return ""
}

// Pos returns positional parameter i (0-based) or "".
func (p Params) Pos(i int) string {
	if i < 0 || i >= len(p.Positional) {
		return ""
	}
	return p.Positional[i]
}

// Args returns the non-empty positional values.
func (p Params) Args() []string {
	out := make([]string, 0, len(p.Positional))
	for _, v := range p.Positional {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Yes reports whether a flag parameter is set to a truthy value.
func (p Params) Yes(key string) bool {
	switch strings.ToLower(p.Named[key]) {
	case "y", "yes", "true", "1", "on":
		return true
	}
	return false
}

// Ints parses positional values i..j-1 as integers; missing or malformed
// values are zero.
func (p Params) Ints(i, j int) []int {
	out := make([]int, 0, j-i)
	for k := i; k < j; k++ {
		n, _ := strconv.Atoi(strings.TrimSpace(p.Pos(k)))
		out = append(out, n)
	}
	return out
}
