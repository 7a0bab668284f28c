package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/extdata"
)

func newTestResolver() *Resolver {
	r := New(nil)
	r.Now = func() time.Time { return time.Date(2026, time.May, 15, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestToOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 112: "112th", 123: "123rd"}
	for n, want := range cases {
		if got := ToOrdinal(n); got != want {
			t.Errorf("ToOrdinal(%d): expected %q, got %q", n, want, got)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount, symbol, code, want string
	}{
		{"1234567.5", "$", "", "$1,234,567.5"},
		{"1000", "£", "", "£1,000"},
		{"999", "$", "", "$999"},
		{"1234.50", "€", "", "€1,234.50"},
		{"5 million", "US$", "", "US$5 million"},
		{"2500000", "", "XYZ", "XYZ 2,500,000"},
		{"about ten", "$", "", "$about ten"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.amount, c.symbol, c.code); got != c.want {
			t.Errorf("FormatCurrency(%q, %q, %q): expected %q, got %q", c.amount, c.symbol, c.code, c.want, got)
		}
	}
}

func TestPercentage(t *testing.T) {
	got := Percentage(decimal.NewFromInt(1), decimal.NewFromInt(3), 2)
	if got != "33.33%" {
		t.Errorf("expected %q, got %q", "33.33%", got)
	}
	if got := Percentage(decimal.NewFromInt(1), decimal.Zero, 2); got != "" {
		t.Errorf("expected empty for zero whole, got %q", got)
	}
	if got := Percentage(decimal.NewFromInt(1), decimal.NewFromInt(4), -3); got != "25%" {
		t.Errorf("expected negative places to clamp to 0, got %q", got)
	}
	got = Percentage(decimal.NewFromInt(1), decimal.NewFromInt(4), 200000000)
	_, frac, _ := strings.Cut(strings.TrimSuffix(got, "%"), ".")
	if len(frac) != 20 {
		t.Errorf("expected places clamped to 20, got %q", got)
	}
}

func TestGroupDigits(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1234567", "1,234,567", true},
		{"-1234.5", "-1,234.5", true},
		{".5", "0.5", true},
		{"1,000", "1,000", true},
		{"123456789012345678901234", "123,456,789,012,345,678,901,234", true},
		{"-12345678901234567890.25", "-12,345,678,901,234,567,890.25", true},
		{"1e5", "", false},
		{"NaN", "", false},
		{"-", "", false},
		{"12a", "", false},
	}
	for _, c := range cases {
		got, ok := GroupDigits(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("GroupDigits(%q): expected (%q, %v), got (%q, %v)", c.in, c.want, c.ok, got, ok)
		}
	}
}

func TestAgeDiff_Borrowing(t *testing.T) {
	y, m, d := AgeDiff([3]int{1990, 5, 20}, [3]int{2026, 3, 10})
	if y != 35 || m != 9 || d != 20 {
		t.Errorf("expected 35y 9m 20d, got %dy %dm %dd", y, m, d)
	}
	y, m, d = AgeDiff([3]int{2000, 1, 1}, [3]int{2000, 1, 1})
	if y != 0 || m != 0 || d != 0 {
		t.Errorf("expected zero difference, got %dy %dm %dd", y, m, d)
	}
}

func TestWinningPercentage(t *testing.T) {
	if got := WinningPercentage(5, 3, 0); got != ".625" {
		t.Errorf("expected %q, got %q", ".625", got)
	}
	if got := WinningPercentage(0, 0, 0); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestParseParams(t *testing.T) {
	p := ParseParams("{{t|a|2=b|Name = x|style=color:red|<b>x=1</b>}}")
	want := []string{"a", "b", "<b>x=1</b>"}
	if len(p.Positional) != len(want) {
		t.Fatalf("expected %d positional, got %q", len(want), p.Positional)
	}
	for i := range want {
		if p.Positional[i] != want[i] {
			t.Errorf("positional %d: expected %q, got %q", i, want[i], p.Positional[i])
		}
	}
	if p.Named["name"] != "x" {
		t.Errorf("expected named param, got %q", p.Named)
	}
	if _, ok := p.Named["style"]; ok {
		t.Error("expected layout key to be stripped")
	}
}

func TestResolveAll_Inline(t *testing.T) {
	r := newTestResolver()
	cases := []struct {
		in, want string
	}{
		{"{{US$|1234567.5}}", "US$1,234,567.5"},
		{"{{currency|1000|GBP}}", "£1,000"},
		{"{{birth date|1990|1|2}}", "January 2, 1990"},
		{"{{birth date|1990|1|2|df=y}}", "2 January 1990"},
		{"{{birth date and age|1990|5|20}}", "May 20, 1990 (age 35)"},
		{"{{death date and age|2000|5|1|1920|1|1}}", "May 1, 2000 (aged 80)"},
		{"{{date|2020-01-02}}", "2 January 2020"},
		{"{{age|2000|6|1}}", "25"},
		{"{{CURRENTYEAR}}", "2026"},
		{"{{as of|2020|5}}", "As of May 2020"},
		{"{{decade|1985}}", "1980s"},
		{"{{circa|1900}}", "c. 1900"},
		{"{{marriage|Jane Doe|1990|2000|end=div}}", "Jane Doe (m. 1990; div. 2000)"},
		{"{{nowrap|{{birth date|1990|1|2}}}}", "January 2, 1990"},
		{"{{ndash}} x {{ndash}}", "– x –"},
		{"{{lang|fr|bonjour}}", "bonjour"},
		{"{{lang-fr|bonjour}}", "bonjour"},
		{"{{he}}", "he"},
		{"{{some unknown template|x}}", ""},
		{"{{lc:ABC}}", "abc"},
		{"{{ucfirst:foo}}", "Foo"},
		{"{{title case|the old man}}", "The Old Man"},
		{"{{formatnum:1234567}}", "1,234,567"},
		{"{{convert|5|to|10|km|mi}}", "5 to 10 km"},
		{"{{cvt|5|km2}}", "5 km²"},
		{"{{frac|3|1|2}}", "3 1/2"},
		{"{{round|3.14159|2}}", "3.14"},
		{"{{percentage|1|3|1}}", "33.3%"},
		{"{{plural|2|page}}", "2 pages"},
		{"{{plural|1|page}}", "1 page"},
		{"{{sic|teh}}", "teh [sic]"},
		{"{{ordinal|22}}", "22nd"},
		{"{{winning percentage|5|3}}", ".625"},
		{"{{hlist|a|b|c}}", "a, b, c"},
		{"{{plainlist|\n* a\n* b\n}}", "a, b"},
		{"{{ordered list|x|y}}", "1) x, 2) y"},
		{"{{ship|HMS|Victory|1765}}", "[[HMS Victory (1765)|HMS ''Victory'']]"},
		{"{{HMS|Victory}}", "[[HMS Victory|HMS ''Victory'']]"},
		{"{{sclass|Iowa|battleship}}", "''Iowa''-class battleship"},
		{"{{stn|Central}}", "[[Central station|Central]]"},
		{"{{URL|example.com}}", "[http://example.com example.com]"},
		{"{{ill|Foo|de|Föö}}", "[[Foo]]"},
		{"{{section link|Page|Sec}}", "[[Page#Sec|Page § Sec]]"},
		{"{{nihongo|Tokyo|東京|Tōkyō}}", "Tokyo (東京, Tōkyō)"},
		{"{{#if: x | yes | no}}", "yes"},
		{"{{#if: | yes | no}}", "no"},
		{"{{flag|France}}", "[[France]]"},
		{"{{citation needed|date=May 2020}}", ""},
	}
	for _, c := range cases {
		got, _, err := r.ResolveAll(c.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestResolveAll_KeepsSurroundingText(t *testing.T) {
	r := newTestResolver()
	got, _, err := r.ResolveAll("Born {{birth date|1990|1|2}} in {{flag|France}}.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Born January 2, 1990 in [[France]]." {
		t.Errorf("unexpected text %q", got)
	}
}

func TestResolveAll_Infobox(t *testing.T) {
	r := newTestResolver()
	in := "{{Infobox person\n| name = John [[Smith]]\n| birth_date = {{birth date|1990|1|2}}\n| website = {{URL|example.com}}\n| coordinates = {{coord|1|2}}\n| empty = \n}}After"
	text, c, err := r.ResolveAll(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "After" {
		t.Errorf("expected infobox to vanish from text, got %q", text)
	}
	if len(c.Infoboxes) != 1 {
		t.Fatalf("expected 1 infobox, got %d", len(c.Infoboxes))
	}
	ib := c.Infoboxes[0]
	if ib.Type != "person" {
		t.Errorf("expected type %q, got %q", "person", ib.Type)
	}
	if got := ib.Get("birth_date").Text; got != "January 2, 1990" {
		t.Errorf("expected nested date to render, got %q", got)
	}
	if got := ib.Get("name"); got.Text != "John Smith" || len(got.Links) != 1 {
		t.Errorf("unexpected name field %+v", got)
	}
	if got := ib.Get("website"); got.Text != "example.com" || got.Links[0].Type != doctree.LinkExternal {
		t.Errorf("unexpected website field %+v", got)
	}
	if _, ok := ib.Fields["empty"]; ok {
		t.Error("expected empty field to be skipped")
	}
	if len(c.Coordinates) != 1 || c.Coordinates[0].Lat != 1 || c.Coordinates[0].Lon != 2 {
		t.Errorf("expected nested coordinate, got %+v", c.Coordinates)
	}
}

func TestCoord(t *testing.T) {
	r := newTestResolver()
	text, c, err := r.ResolveAll("{{coord|51|30|N|0|7|W|type:city}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Coordinates) != 1 {
		t.Fatalf("expected 1 coordinate, got %d", len(c.Coordinates))
	}
	co := c.Coordinates[0]
	if co.Lat != 51.5 || co.Lon != -0.116667 {
		t.Errorf("unexpected coordinate %+v", co)
	}
	if text != "51.5°N 0.1167°W" {
		t.Errorf("unexpected text %q", text)
	}

	text, c, _ = r.ResolveAll("{{coord|40.7128|-74.0060|display=title}}")
	if text != "" || len(c.Coordinates) != 1 || c.Coordinates[0].Lon != -74.006 {
		t.Errorf("unexpected title coordinate %q %+v", text, c.Coordinates)
	}

	if _, c, _ := r.ResolveAll("{{coord|100|200}}"); len(c.Coordinates) != 0 {
		t.Error("expected out-of-range coordinate to be dropped")
	}
	for _, in := range []string{"{{coord|nan|nan}}", "{{coord|inf|0}}", "{{coord|51|NaN|N|0|7|W}}"} {
		text, c, err := r.ResolveAll(in)
		if err != nil || text != "" || len(c.Coordinates) != 0 {
			t.Errorf("%s: expected dropped coordinate, got %q %+v %v", in, text, c.Coordinates, err)
		}
	}
}

func TestResolveAll_MalformedNumbersDegrade(t *testing.T) {
	r := newTestResolver()
	cases := []struct {
		in   string
		want string
	}{
		{"{{coord|nan|nan}}", ""},
		{"{{coord|-inf|+inf}}", ""},
		{"{{percentage|1|4|200000000}}", "25.00000000000000000000%"},
		{"{{percentage|1|4|-200000000}}", "25%"},
		{"{{percentage|1e-999999999|3}}", ""},
		{"{{round|1.5|-20000000}}", "0"},
		{"{{round|1.25|20000000}}", "1.25000000000000000000"},
		{"{{round|1.5|99999999999999999999}}", "2"},
		{"{{round|1e999999999|2}}", "1e999999999"},
		{"{{max|1e2147483647|2}}", "2"},
		{"{{formatnum:99999999999999999999999}}", "99,999,999,999,999,999,999,999"},
		{"{{US$|12345678901234567890123}}", "US$12,345,678,901,234,567,890,123"},
		{"{{ordinal|99999999999999999999}}", "99999999999999999999"},
		{"{{winning percentage|9223372036854775807|9223372036854775807|1}}", ""},
	}
	for _, c := range cases {
		start := time.Now()
		got, _, err := r.ResolveAll(c.in)
		if err != nil {
			t.Errorf("%s: expected no error, got %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: expected %q, got %q", c.in, c.want, got)
		}
		if d := time.Since(start); d > 2*time.Second {
			t.Errorf("%s: expected bounded work, took %v", c.in, d)
		}
	}
}

func TestRecords(t *testing.T) {
	r := newTestResolver()
	text, c, err := r.ResolveAll("{{Short description|Test}}{{Main|Foo|Bar}}{{goal|23|pen.|90+2}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "23' (pen.), 90+2'" {
		t.Errorf("unexpected text %q", text)
	}
	if len(c.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(c.Records))
	}
	if c.Records[0].Kind != doctree.RecordShortDescription || c.Records[0].Text != "Test" {
		t.Errorf("unexpected short description %+v", c.Records[0])
	}
	if c.Records[1].Kind != doctree.RecordHatnote || c.Records[1].Text != "Main article: Foo, Bar" {
		t.Errorf("unexpected hatnote %+v", c.Records[1])
	}
	if g := c.Records[2].Goals; len(g) != 2 || g[0].Note != "pen." || g[1].Minute != "90+2" {
		t.Errorf("unexpected goals %+v", g)
	}
}

func TestSportsTable(t *testing.T) {
	r := newTestResolver()
	_, c, _ := r.ResolveAll("{{sports table|team_order=ABC, DEF|win_ABC=2|draw_ABC=1|loss_ABC=0|name_ABC=[[Alpha]]|win_DEF=0|loss_DEF=3}}")
	if len(c.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(c.Records))
	}
	rows := c.Records[0].Standings
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Team != "ABC" || rows[0].Points != 7 || rows[0].Name != "[[Alpha]]" {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if rows[1].Lost != 3 || rows[1].Points != 0 {
		t.Errorf("unexpected row %+v", rows[1])
	}
}

func TestBracket(t *testing.T) {
	r := newTestResolver()
	_, c, _ := r.ResolveAll("{{4TeamBracket|RD1=Semifinals|RD1-team1=A|RD1-score1=2|RD1-team2=B|RD1-score2=1|RD2-team1=A}}")
	if len(c.Records) != 1 || c.Records[0].Kind != doctree.RecordBracket {
		t.Fatalf("expected a bracket record, got %+v", c.Records)
	}
	rounds := c.Records[0].Rounds
	if len(rounds) != 2 || rounds[0].Title != "Semifinals" || len(rounds[0].Entries) != 2 {
		t.Fatalf("unexpected rounds %+v", rounds)
	}
	if rounds[0].Entries[1].Team != "B" || rounds[0].Entries[1].Score != "1" {
		t.Errorf("unexpected entry %+v", rounds[0].Entries[1])
	}
}

func TestCitation(t *testing.T) {
	r := newTestResolver()
	c, err := r.Citation("{{cite web|title=T|last=Doe|first=J|url=http://x|website=W|isbn=123}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Template != "cite web" || c.Author != "Doe, J" || c.Title != "T" || c.Work != "W" || c.URL != "http://x" {
		t.Errorf("unexpected citation %+v", c)
	}
	if c.Extra["isbn"] != "123" {
		t.Errorf("expected isbn in extra, got %v", c.Extra)
	}
	if !IsCitationName("cite news") || !IsCitationName("citation") || IsCitationName("citation needed") || IsCitationName("cn") {
		t.Error("unexpected citation name classification")
	}
}

func TestExtendedTables(t *testing.T) {
	r := New(&extdata.Tables{
		InfoboxPatterns: []string{`^ficha de`},
		Symbols:         map[string]string{"Smiley": ":)"},
		Pronouns:        []string{"xe"},
	})
	text, c, _ := r.ResolveAll("{{smiley}} {{xe}}{{Ficha de persona|nombre=Ana}}")
	if text != ":) xe" {
		t.Errorf("unexpected text %q", text)
	}
	if len(c.Infoboxes) != 1 || c.Infoboxes[0].Get("nombre").Text != "Ana" {
		t.Errorf("expected extended infobox pattern, got %+v", c.Infoboxes)
	}
}

func TestResolveAll_DeepNestingTerminates(t *testing.T) {
	r := newTestResolver()
	in := strings.Repeat("{{nowrap|", 100) + "x" + strings.Repeat("}}", 100)
	if _, _, err := r.ResolveAll(in); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInfoboxType(t *testing.T) {
	cases := map[string]string{
		"infobox settlement":    "settlement",
		"football club infobox": "football club",
		"taxobox":               "taxobox",
	}
	for in, want := range cases {
		if got := InfoboxType(in); got != want {
			t.Errorf("%q: expected %q, got %q", in, want, got)
		}
	}
}
