package templates

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// textCase implements lc, uc, lcfirst, ucfirst and title case. Casers are
// not safe for concurrent use, so each call builds its own.
func textCase(_ *Resolver, p Params) Result {
	s := p.Pos(0)
	if s == "" {
		return Result{}
	}
	switch p.Name {
	case "lc":
		return Result{Text: cases.Lower(language.Und).String(s)}
	case "uc":
		return Result{Text: cases.Upper(language.Und).String(s)}
	case "title case":
		return Result{Text: cases.Title(language.English, cases.NoLower).String(s)}
	}
	_, size := utf8.DecodeRuneInString(s)
	head := s[:size]
	if p.Name == "lcfirst" {
		head = cases.Lower(language.Und).String(head)
	} else {
		head = cases.Upper(language.Und).String(head)
	}
	return Result{Text: head + s[size:]}
}

func trunc(_ *Resolver, p Params) Result {
	s := p.Pos(0)
	n, err := strconv.Atoi(strings.TrimSpace(p.Pos(1)))
	if err != nil || n < 0 || utf8.RuneCountInString(s) <= n {
		return Result{Text: s}
	}
	runes := []rune(s)
	return Result{Text: string(runes[:n])}
}

// plural renders {{plural|2|page}} as "2 pages"; a third parameter gives an
// irregular plural form.
func plural(_ *Resolver, p Params) Result {
	n, word := strings.TrimSpace(p.Pos(0)), p.Pos(1)
	if word == "" {
		return Result{Text: n}
	}
	v, ok := parseDecimal(n)
	if ok && v.Abs().Equal(decimal.NewFromInt(1)) {
		return Result{Text: n + " " + word}
	}
	form := p.Pos(2)
	if form == "" {
		form = word + "s"
	}
	return Result{Text: n + " " + form}
}

func sic(_ *Resolver, p Params) Result {
	text := p.Pos(0) + p.Pos(1)
	if text == "" || p.Yes("hide") {
		return Result{Text: text}
	}
	return Result{Text: text + " [sic]"}
}

func replace(_ *Resolver, p Params) Result {
	s, find := p.Pos(0), p.Pos(1)
	if find == "" {
		return Result{Text: s}
	}
	count := -1
	if n, err := strconv.Atoi(p.Get("count")); err == nil {
		count = n
	}
	return Result{Text: strings.Replace(s, find, p.Pos(2), count)}
}

func formatNum(_ *Resolver, p Params) Result {
	if g, ok := GroupDigits(p.Pos(0)); ok {
		return Result{Text: g}
	}
	return Result{Text: p.Pos(0)}
}

func round(_ *Resolver, p Params) Result {
	v, ok := parseDecimal(p.Pos(0))
	if !ok {
		return Result{Text: p.Pos(0)}
	}
	places, _ := strconv.Atoi(strings.TrimSpace(p.Pos(1)))
	if places < 0 {
		return Result{Text: v.Round(clampPlaces(places, -maxPlaces)).String()}
	}
	return Result{Text: v.StringFixed(clampPlaces(places, 0))}
}

func frac(_ *Resolver, p Params) Result {
	args := p.Args()
	switch len(args) {
	case 0:
		return Result{Text: "/"}
	case 1:
		return Result{Text: "1/" + args[0]}
	case 2:
		return Result{Text: args[0] + "/" + args[1]}
	}
	return Result{Text: args[0] + " " + args[1] + "/" + args[2]}
}

// unitNames holds display symbols and full names for common convert units.
var unitNames = map[string][2]string{
	"km":   {"km", "kilometres"},
	"m":    {"m", "metres"},
	"cm":   {"cm", "centimetres"},
	"mm":   {"mm", "millimetres"},
	"mi":   {"mi", "miles"},
	"ft":   {"ft", "feet"},
	"in":   {"in", "inches"},
	"yd":   {"yd", "yards"},
	"km2":  {"km²", "square kilometres"},
	"m2":   {"m²", "square metres"},
	"sqmi": {"sq mi", "square miles"},
	"ha":   {"ha", "hectares"},
	"acre": {"acres", "acres"},
	"kg":   {"kg", "kilograms"},
	"g":    {"g", "grams"},
	"lb":   {"lb", "pounds"},
	"t":    {"t", "tonnes"},
	"c":    {"°C", "degrees Celsius"},
	"f":    {"°F", "degrees Fahrenheit"},
	"km/h": {"km/h", "kilometres per hour"},
	"mph":  {"mph", "miles per hour"},
	"l":    {"L", "litres"},
	"kn":   {"kn", "knots"},
	"nmi":  {"nmi", "nautical miles"},
}

var rangeWords = map[string]string{
	"-": "–", "–": "–", "to": " to ", "and": " and ", "or": " or ",
	"by": " by ", "x": " × ", "×": " × ", "+/-": " ± ", "to(-)": " to ",
}

// convert renders the source value and unit of {{convert|5|km|mi}} without
// performing the conversion: "5 km", or "5 to 10 km" for ranges.
func convert(_ *Resolver, p Params) Result {
	args := p.Args()
	if len(args) == 0 {
		return Result{}
	}
	var b strings.Builder
	i := 0
	for i < len(args) {
		v := args[i]
		if g, ok := GroupDigits(v); ok {
			b.WriteString(g)
		} else if b.Len() == 0 {
			b.WriteString(v)
		} else {
			break
		}
		i++
		if i < len(args) {
			if sep, ok := rangeWords[strings.ToLower(args[i])]; ok && i+1 < len(args) {
				b.WriteString(sep)
				i++
				continue
			}
		}
		break
	}
	if i < len(args) {
		unit := args[i]
		if names, ok := unitNames[strings.ToLower(unit)]; ok {
			if p.Get("abbr") == "off" {
				unit = names[1]
			} else {
				unit = names[0]
			}
		}
		b.WriteString(" " + unit)
	}
	return Result{Text: b.String()}
}

// val renders {{val|1234.5|e=3|u=m}} as "1,234.5×10^3 m".
func val(_ *Resolver, p Params) Result {
	n := p.Pos(0)
	if g, ok := GroupDigits(n); ok {
		n = g
	}
	if n == "" {
		return Result{}
	}
	if e := p.Get("e"); e != "" {
		n += "×10^" + e
	}
	if u := p.Get("u", "ul"); u != "" {
		n += " " + u
	}
	return Result{Text: n}
}

func maxMin(_ *Resolver, p Params) Result {
	var best decimal.Decimal
	found := false
	for _, a := range p.Args() {
		v, ok := parseDecimal(a)
		if !ok {
			continue
		}
		if !found || (p.Name == "max" && v.GreaterThan(best)) || (p.Name == "min" && v.LessThan(best)) {
			best, found = v, true
		}
	}
	if !found {
		return Result{}
	}
	return Result{Text: best.String()}
}

func radic(_ *Resolver, p Params) Result {
	x := p.Pos(0)
	if x == "" {
		return Result{Text: "√"}
	}
	switch idx := strings.TrimSpace(p.Pos(1)); idx {
	case "", "2":
		return Result{Text: "√" + x}
	case "3":
		return Result{Text: "∛" + x}
	case "4":
		return Result{Text: "∜" + x}
	default:
		return Result{Text: idx + "√" + x}
	}
}

func percentage(_ *Resolver, p Params) Result {
	part, ok1 := parseDecimal(p.Pos(0))
	whole, ok2 := parseDecimal(p.Pos(1))
	if !ok1 || !ok2 {
		return Result{}
	}
	places, _ := strconv.Atoi(strings.TrimSpace(p.Pos(2)))
	return Result{Text: Percentage(part, whole, places)}
}

func ordinal(_ *Resolver, p Params) Result {
	n, err := strconv.Atoi(strings.TrimSpace(p.Pos(0)))
	if err != nil {
		return Result{Text: p.Pos(0)}
	}
	return Result{Text: ToOrdinal(n)}
}

// nihongo renders {{nihongo|Tokyo|東京|Tōkyō}} as "Tokyo (東京, Tōkyō)".
func nihongo(_ *Resolver, p Params) Result {
	english, native, roman := p.Pos(0), p.Pos(1), p.Pos(2)
	var inner []string
	for _, s := range []string{native, roman} {
		if s != "" {
			inner = append(inner, s)
		}
	}
	if english == "" && len(inner) > 0 {
		english, inner = inner[0], inner[1:]
	}
	if len(inner) == 0 {
		return Result{Text: english}
	}
	return Result{Text: english + " (" + strings.Join(inner, ", ") + ")"}
}

// transl renders the text of {{transl|code|text}} or
// {{transl|code|system|text}}.
func transl(_ *Resolver, p Params) Result {
	args := p.Args()
	if len(args) < 2 {
		return Result{}
	}
	return Result{Text: args[len(args)-1]}
}

func quote(_ *Resolver, p Params) Result {
	text := p.Get("text", "quote")
	if text == "" {
		text = p.Pos(0)
	}
	return Result{Text: text}
}

// sortName renders {{sort name|First|Last}} as a link to "First Last".
func sortName(_ *Resolver, p Params) Result {
	name := strings.TrimSpace(p.Pos(0) + " " + p.Pos(1))
	if name == "" {
		return Result{}
	}
	if p.Yes("nolink") || p.Pos(2) == "nolink" {
		return Result{Text: name}
	}
	if target := p.Pos(2); target != "" {
		return Result{Text: "[[" + target + "|" + name + "]]"}
	}
	return Result{Text: "[[" + name + "]]"}
}

func gaps(_ *Resolver, p Params) Result {
	return Result{Text: strings.Join(p.Args(), " ")}
}

func parserIf(_ *Resolver, p Params) Result {
	if strings.TrimSpace(p.Pos(0)) != "" {
		return Result{Text: p.Pos(1)}
	}
	return Result{Text: p.Pos(2)}
}

func parserIfEq(_ *Resolver, p Params) Result {
	if strings.TrimSpace(p.Pos(0)) == strings.TrimSpace(p.Pos(1)) {
		return Result{Text: p.Pos(2)}
	}
	return Result{Text: p.Pos(3)}
}

// parserSwitch picks the named case matching the first argument; the last
// unnamed argument is the default.
func parserSwitch(_ *Resolver, p Params) Result {
	v := strings.ToLower(strings.TrimSpace(p.Pos(0)))
	if out, ok := p.Named[v]; ok {
		return Result{Text: out}
	}
	if len(p.Positional) > 1 {
		return Result{Text: p.Positional[len(p.Positional)-1]}
	}
	return Result{}
}
