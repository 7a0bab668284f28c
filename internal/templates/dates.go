package templates

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ymd is a year/month/day triple; zero month or day means unknown.
type ymd [3]int

func (d ymd) valid() bool { return d[0] != 0 }

// dateAt reads a date from positional i: either numeric year|month|day
// parameters or one free-form date string.
func dateAt(p Params, i int) ymd {
	first := strings.TrimSpace(p.Pos(i))
	if first == "" {
		return ymd{}
	}
	if y, err := strconv.Atoi(first); err == nil {
		n := p.Ints(i, i+3)
		return ymd{y, clamp(n[1], 0, 12), clamp(n[2], 0, 31)}
	}
	t, err := dateparse.ParseAny(first)
	if err != nil {
		return ymd{}
	}
	return ymd{t.Year(), int(t.Month()), t.Day()}
}

func clamp(n, lo, hi int) int {
	if n < lo || n > hi {
		return 0
	}
	return n
}

// formatDate renders a date as "January 2, 2006", or "2 January 2006" when
// dmy is set. Missing parts are omitted.
func formatDate(d ymd, dmy bool) string {
	if !d.valid() {
		return ""
	}
	year := strconv.Itoa(d[0])
	if d[1] == 0 {
		return year
	}
	month := time.Month(d[1]).String()
	if d[2] == 0 {
		return month + " " + year
	}
	day := strconv.Itoa(d[2])
	if dmy {
		return day + " " + month + " " + year
	}
	return month + " " + day + ", " + year
}

func dayFirst(p Params) bool {
	return p.Yes("df") || p.Yes("day first")
}

func (r *Resolver) today() ymd {
	t := r.now()
	return ymd{t.Year(), int(t.Month()), t.Day()}
}

// yearsBetween counts whole years using AgeDiff's borrowing rules.
func yearsBetween(from, to ymd) int {
	y, _, _ := AgeDiff(from, to)
	return y
}

func dateFamily(_ *Resolver, p Params) Result {
	d := dateAt(p, 0)
	if !d.valid() {
		return Result{Text: p.Pos(0)}
	}
	return Result{Text: formatDate(d, dayFirst(p))}
}

func filmDate(_ *Resolver, p Params) Result {
	var parts []string
	for i := 0; i < len(p.Positional); i += 4 {
		d := dateAt(p, i)
		if !d.valid() {
			break
		}
		s := formatDate(d, dayFirst(p))
		if loc := strings.TrimSpace(p.Pos(i + 3)); loc != "" {
			s += " (" + loc + ")"
		}
		parts = append(parts, s)
	}
	return Result{Text: strings.Join(parts, ", ")}
}

func birthDateAndAge(r *Resolver, p Params) Result {
	d := dateAt(p, 0)
	if !d.valid() {
		return Result{Text: p.Pos(0)}
	}
	return Result{Text: formatDate(d, dayFirst(p)) + " (age " + strconv.Itoa(yearsBetween(d, r.today())) + ")"}
}

func deathDateAndAge(_ *Resolver, p Params) Result {
	death := dateAt(p, 0)
	if !death.valid() {
		return Result{Text: p.Pos(0)}
	}
	text := formatDate(death, dayFirst(p))
	// free-form dates take one slot, numeric ones three
	next := 3
	if _, err := strconv.Atoi(strings.TrimSpace(p.Pos(0))); err != nil {
		next = 1
	}
	if birth := dateAt(p, next); birth.valid() {
		text += " (aged " + strconv.Itoa(yearsBetween(birth, death)) + ")"
	}
	return Result{Text: text}
}

func startDateAndAge(r *Resolver, p Params) Result {
	d := dateAt(p, 0)
	if !d.valid() {
		return Result{Text: p.Pos(0)}
	}
	n := yearsBetween(d, r.today())
	unit := " years ago"
	if n == 1 {
		unit = " year ago"
	}
	return Result{Text: formatDate(d, dayFirst(p)) + " (" + strconv.Itoa(n) + unit + ")"}
}

func birthYearAndAge(r *Resolver, p Params) Result {
	n := p.Ints(0, 2)
	if n[0] == 0 {
		return Result{Text: p.Pos(0)}
	}
	now := r.today()
	years := now[0] - n[0]
	if n[1] != 0 && now[1] < n[1] {
		years--
	}
	return Result{Text: strconv.Itoa(n[0]) + " (age " + strconv.Itoa(years) + ")"}
}

func deathYearAndAge(_ *Resolver, p Params) Result {
	n := p.Ints(0, 2)
	if n[0] == 0 {
		return Result{Text: p.Pos(0)}
	}
	text := strconv.Itoa(n[0])
	if n[1] != 0 {
		text += " (aged " + strconv.Itoa(n[0]-n[1]-1) + "–" + strconv.Itoa(n[0]-n[1]) + ")"
	}
	return Result{Text: text}
}

// untilDate returns the second date of an age template or today.
func (r *Resolver) untilDate(p Params, from int) ymd {
	if d := dateAt(p, from); d.valid() {
		return d
	}
	return r.today()
}

func age(r *Resolver, p Params) Result {
	from := dateAt(p, 0)
	if !from.valid() {
		return Result{}
	}
	return Result{Text: strconv.Itoa(yearsBetween(from, r.untilDate(p, 3)))}
}

func ageLong(r *Resolver, p Params) Result {
	from := dateAt(p, 0)
	if !from.valid() {
		return Result{}
	}
	y, m, d := AgeDiff(from, r.untilDate(p, 3))
	parts := []string{countNoun(y, "year")}
	if p.Name == "age in years, months and days" {
		parts = append(parts, countNoun(m, "month"))
	}
	last := countNoun(d, "day")
	return Result{Text: strings.Join(parts, ", ") + " and " + last}
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func date(_ *Resolver, p Params) Result {
	d := dateAt(p, 0)
	if !d.valid() {
		return Result{Text: p.Pos(0)}
	}
	format := strings.ToLower(p.Get("format"))
	if p.Name == "date" && format == "" {
		format = strings.ToLower(p.Pos(1))
	}
	return Result{Text: formatDate(d, format != "mdy")}
}

func current(r *Resolver, p Params) Result {
	t := r.now()
	switch p.Name {
	case "currentyear":
		return Result{Text: strconv.Itoa(t.Year())}
	case "currentmonth":
		return Result{Text: t.Format("01")}
	case "currentmonthname":
		return Result{Text: t.Month().String()}
	case "currentday":
		return Result{Text: strconv.Itoa(t.Day())}
	case "currentdayname":
		return Result{Text: t.Weekday().String()}
	}
	return Result{}
}

func asOf(_ *Resolver, p Params) Result {
	d := dateAt(p, 0)
	if !d.valid() {
		return Result{}
	}
	prefix := "As of "
	if p.Yes("lc") {
		prefix = "as of "
	}
	return Result{Text: prefix + formatDate(d, dayFirst(p))}
}

func decade(_ *Resolver, p Params) Result {
	y, err := strconv.Atoi(strings.TrimSpace(p.Pos(0)))
	if err != nil {
		return Result{Text: p.Pos(0)}
	}
	return Result{Text: strconv.Itoa(y-y%10) + "s"}
}

func circa(_ *Resolver, p Params) Result {
	if p.Pos(0) == "" {
		return Result{Text: "c."}
	}
	text := "c. " + p.Pos(0)
	if p.Pos(1) != "" {
		text += " – c. " + p.Pos(1)
	}
	return Result{Text: text}
}

func floruit(_ *Resolver, p Params) Result {
	return Result{Text: strings.TrimSpace("fl. " + p.Pos(0))}
}

var marriageEnds = map[string]string{
	"d": "died", "died": "died", "death": "died",
	"div": "div.", "divorce": "div.", "divorced": "div.",
	"sep": "sep.", "separated": "sep.", "ann": "ann.", "annulled": "ann.",
}

func marriage(_ *Resolver, p Params) Result {
	name, start, end := p.Pos(0), p.Pos(1), p.Pos(2)
	if start == "" {
		return Result{Text: name}
	}
	inner := "m. " + start
	if end != "" {
		if reason, ok := marriageEnds[strings.ToLower(strings.TrimSuffix(p.Get("end", "reason"), "."))]; ok {
			inner += "; " + reason + " " + end
		} else {
			inner += "–" + end
		}
	}
	if name == "" {
		return Result{Text: "(" + inner + ")"}
	}
	return Result{Text: name + " (" + inner + ")"}
}
