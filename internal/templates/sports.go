package templates

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dgallion1/wikidoc/internal/doctree"
)

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// goal reads alternating minute/note parameters: {{goal|23|pen.|90+2}}.
func goal(_ *Resolver, p Params) Result {
	var goals []doctree.Goal
	for _, a := range p.Args() {
		if startsWithDigit(a) {
			goals = append(goals, doctree.Goal{Minute: a})
			continue
		}
		if len(goals) > 0 && goals[len(goals)-1].Note == "" {
			goals[len(goals)-1].Note = a
		}
	}
	if len(goals) == 0 {
		return Result{}
	}
	parts := make([]string, 0, len(goals))
	for _, g := range goals {
		s := g.Minute + "'"
		if g.Note != "" {
			s += " (" + g.Note + ")"
		}
		parts = append(parts, s)
	}
	return withRecord(strings.Join(parts, ", "), doctree.Record{Kind: doctree.RecordGoals, Template: p.Name, Goals: goals})
}

func fsPlayer(_ *Resolver, p Params) Result {
	pl := &doctree.Player{
		Number:      p.Get("no", "num"),
		Nationality: p.Get("nat", "natl"),
		Position:    p.Get("pos"),
		Name:        p.Get("name", "player"),
		Other:       p.Get("other", "note"),
	}
	if pl.Name == "" {
		return Result{}
	}
	return withRecord(pl.Name, doctree.Record{Kind: doctree.RecordPlayer, Template: p.Name, Player: pl})
}

// sportsTable reads the per-team win_/draw_/loss_/gf_/ga_ parameters of a
// league table, in team_order or team1..teamN order.
func sportsTable(_ *Resolver, p Params) Result {
	var teams []string
	if order := p.Get("team_order"); order != "" {
		for _, t := range strings.Split(order, ",") {
			if t = strings.TrimSpace(t); t != "" {
				teams = append(teams, t)
			}
		}
	} else {
		for i := 1; ; i++ {
			t := p.Get("team" + strconv.Itoa(i))
			if t == "" {
				break
			}
			teams = append(teams, t)
		}
	}
	winPts, drawPts := 3, 1
	if n, err := strconv.Atoi(p.Get("win_points")); err == nil {
		winPts = n
	}
	if n, err := strconv.Atoi(p.Get("draw_points")); err == nil {
		drawPts = n
	}
	num := func(key string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(p.Named[key]))
		return n
	}
	var rows []doctree.Standing
	for _, team := range teams {
		k := strings.ToLower(team)
		s := doctree.Standing{
			Team:         team,
			Name:         p.Get("name_" + k),
			Won:          num("win_" + k),
			Drawn:        num("draw_" + k),
			Lost:         num("loss_" + k),
			GoalsFor:     num("gf_" + k),
			GoalsAgainst: num("ga_" + k),
		}
		s.Points = s.Won*winPts + s.Drawn*drawPts + num("adjust_points_"+k)
		rows = append(rows, s)
	}
	if len(rows) == 0 {
		return Result{}
	}
	return withRecord("", doctree.Record{Kind: doctree.RecordSportsTable, Template: p.Name, Standings: rows})
}

// WinningPercentage renders (wins + ties/2) / games with three decimals and
// no leading zero, as sports tables print it (".625").
func WinningPercentage(wins, losses, ties int) string {
	games := wins + losses + ties
	if games <= 0 {
		return ""
	}
	w := decimal.NewFromInt(int64(wins)).Add(decimal.NewFromInt(int64(ties)).Div(decimal.NewFromInt(2)))
	s := w.Div(decimal.NewFromInt(int64(games))).StringFixed(3)
	return strings.TrimPrefix(s, "0")
}

func winningPercentage(_ *Resolver, p Params) Result {
	n := p.Ints(0, 3)
	return Result{Text: WinningPercentage(n[0], n[1], n[2])}
}

func flag(_ *Resolver, p Params) Result {
	if p.Pos(0) == "" {
		return Result{}
	}
	return Result{Text: "[[" + p.Pos(0) + "]]"}
}

func flagIcon(_ *Resolver, _ Params) Result {
	return Result{}
}

func flagAthlete(_ *Resolver, p Params) Result {
	if p.Pos(1) == "" {
		return Result{Text: p.Pos(0)}
	}
	return Result{Text: p.Pos(0) + " (" + p.Pos(1) + ")"}
}

var bracketKeyRe = regexp.MustCompile(`^rd(\d+)-(seed|team|score)(\d+)(?:-(\d+))?$`)

// bracket collects the rdN-teamM / rdN-seedM / rdN-scoreM parameters of a
// tournament bracket into rounds.
func bracket(_ *Resolver, p Params) Result {
	type slot struct {
		entry doctree.BracketEntry
		legs  []string
	}
	rounds := map[int]map[int]*slot{}
	for key, value := range p.Named {
		m := bracketKeyRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		rd, _ := strconv.Atoi(m[1])
		idx, _ := strconv.Atoi(m[3])
		if rounds[rd] == nil {
			rounds[rd] = map[int]*slot{}
		}
		s := rounds[rd][idx]
		if s == nil {
			s = &slot{}
			rounds[rd][idx] = s
		}
		switch m[2] {
		case "seed":
			s.entry.Seed = value
		case "team":
			s.entry.Team = value
		case "score":
			if m[4] == "" {
				s.entry.Score = value
			} else {
				s.legs = append(s.legs, m[4]+"\x00"+value)
			}
		}
	}
	if len(rounds) == 0 {
		return Result{}
	}
	out := make([]doctree.Round, 0, len(rounds))
	for _, rd := range sortedKeys(rounds) {
		round := doctree.Round{Title: p.Get("rd" + strconv.Itoa(rd))}
		for _, idx := range sortedKeys(rounds[rd]) {
			s := rounds[rd][idx]
			if len(s.legs) > 0 {
				sort.Strings(s.legs)
				scores := make([]string, 0, len(s.legs))
				for _, l := range s.legs {
					_, v, _ := strings.Cut(l, "\x00")
					scores = append(scores, v)
				}
				s.entry.Score = strings.Join(scores, ", ")
			}
			if s.entry.Team != "" {
				round.Entries = append(round.Entries, s.entry)
			}
		}
		out = append(out, round)
	}
	return withRecord("", doctree.Record{Kind: doctree.RecordBracket, Template: p.Name, Rounds: out})
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
