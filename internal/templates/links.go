package templates

import (
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
)

func withScheme(u string) string {
	u = strings.TrimSpace(u)
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//") {
		return u
	}
	return "http://" + u
}

func displayURL(u string) string {
	u = strings.TrimSpace(u)
	for _, s := range []string{"https://", "http://", "//"} {
		if len(u) >= len(s) && strings.EqualFold(u[:len(s)], s) {
			u = u[len(s):]
			break
		}
	}
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimSuffix(u, "/")
}

// urlFamily renders {{URL|example.com|label}} as an external link.
func urlFamily(_ *Resolver, p Params) Result {
	u := p.Pos(0)
	if u == "" {
		return Result{}
	}
	label := p.Pos(1)
	if label == "" {
		label = displayURL(u)
	}
	return Result{Text: "[" + withScheme(u) + " " + label + "]"}
}

func officialWebsite(_ *Resolver, p Params) Result {
	u := p.Pos(0)
	if u == "" {
		u = p.Get("url")
	}
	if u == "" {
		return Result{}
	}
	label := p.Get("name")
	if label == "" {
		label = p.Pos(1)
	}
	if label == "" {
		label = "Official website"
	}
	return Result{Text: "[" + withScheme(u) + " " + label + "]"}
}

// interlanguageLink renders {{ill|Target|de|Ziel|lt=label}} as a local link.
func interlanguageLink(_ *Resolver, p Params) Result {
	target := p.Pos(0)
	if target == "" {
		return Result{}
	}
	if lt := p.Get("lt"); lt != "" {
		return Result{Text: "[[" + target + "|" + lt + "]]"}
	}
	return Result{Text: "[[" + target + "]]"}
}

func sectionLink(_ *Resolver, p Params) Result {
	page, sec := p.Pos(0), p.Pos(1)
	switch {
	case sec == "":
		return Result{Text: "[[" + page + "]]"}
	case page == "":
		return Result{Text: "[[#" + sec + "|§ " + sec + "]]"}
	}
	return Result{Text: "[[" + page + "#" + sec + "|" + page + " § " + sec + "]]"}
}

var hatnotePrefix = map[string]string{
	"main":        "Main article: ",
	"see also":    "See also: ",
	"further":     "Further information: ",
	"distinguish": "Not to be confused with ",
}

// hatnote records navigation notes; they never appear in the prose.
func hatnote(_ *Resolver, p Params) Result {
	targets := p.Args()
	text := strings.Join(targets, ", ")
	if pre, ok := hatnotePrefix[p.Name]; ok {
		text = pre + text
	}
	return withRecord("", doctree.Record{Kind: doctree.RecordHatnote, Template: p.Name, Text: text, List: targets})
}

// ship renders {{ship|HMS|Victory|1765}} as a link to the ship article.
func ship(_ *Resolver, p Params) Result {
	prefix, name, id := p.Pos(0), p.Pos(1), p.Pos(2)
	if name == "" {
		return Result{Text: prefix}
	}
	return Result{Text: shipLink(strings.TrimSpace(prefix+" "+name), prefix, name, id)}
}

func shipLink(article, prefix, name, id string) string {
	target := article
	if id != "" {
		target += " (" + id + ")"
	}
	display := "''" + name + "''"
	if prefix != "" {
		display = prefix + " " + display
	}
	return "[[" + target + "|" + display + "]]"
}

// shipPrefixes are navy prefixes with their own shorthand template.
var shipPrefixes = map[string]string{
	"hms": "HMS", "uss": "USS", "hmas": "HMAS", "hmcs": "HMCS", "hmnzs": "HMNZS",
	"rms": "RMS", "ss": "SS", "ins": "INS", "sms": "SMS", "hnlms": "HNLMS",
	"usns": "USNS", "usat": "USAT", "usrc": "USRC", "uscgc": "USCGC",
	"hmhs": "HMHS", "hmt": "HMT", "mv": "MV", "jds": "JDS",
	"js": "JS", "french ship": "French", "german ship": "German",
}

func shipPrefix(_ *Resolver, p Params) Result {
	prefix := shipPrefixes[p.Name]
	name, id := p.Pos(0), p.Pos(1)
	if name == "" {
		return Result{Text: prefix}
	}
	return Result{Text: shipLink(prefix+" "+name, prefix, name, id)}
}

// shipClass renders {{sclass|Iowa|battleship}} as "Iowa-class battleship".
func shipClass(_ *Resolver, p Params) Result {
	class, kind := p.Pos(0), p.Pos(1)
	if class == "" {
		return Result{}
	}
	text := "''" + class + "''-class"
	if kind != "" {
		text += " " + kind
	}
	return Result{Text: text}
}

// stationSuffixes maps transit templates to the article-title suffix of the
// stations they link.
var stationSuffixes = map[string]string{
	"stn":         "station",
	"station":     "station",
	"rws":         "railway station",
	"metro":       "metro station",
	"lrt station": "LRT station",
	"mrt station": "MRT station",
	"tube":        "tube station",
	"subway":      "subway station",
}

// station renders {{stn|Central}} as a link to "Central station".
func station(_ *Resolver, p Params) Result {
	name := p.Pos(0)
	if name == "" {
		return Result{}
	}
	target := name + " " + stationSuffixes[p.Name]
	if place := p.Pos(1); place != "" {
		target += ", " + place
	}
	return Result{Text: "[[" + target + "|" + name + "]]"}
}
