package doctree

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Infobox is a key/value summary template. Type is the template name with
// the infobox marker stripped ("Infobox settlement" -> "settlement").
type Infobox struct {
	Type     string              `json:"type"`
	Template string              `json:"template"`
	Fields   map[string]Sentence `json:"fields"`
}

// Get returns the field value, or an empty sentence.
func (ib Infobox) Get(key string) Sentence {
	return ib.Fields[strings.ToLower(strings.TrimSpace(key))]
}

// Keys returns field names in sorted order.
func (ib Infobox) Keys() []string {
	keys := make([]string, 0, len(ib.Fields))
	for k := range ib.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flat returns the field texts.
func (ib Infobox) Flat() map[string]string {
	out := make(map[string]string, len(ib.Fields))
	for k, v := range ib.Fields {
		out[k] = v.Text
	}
	return out
}

// RefKind discriminates what a Reference carries.
type RefKind string

const (
	RefCitation RefKind = "citation"
	RefInline   RefKind = "inline"
	// RefUnresolved marks a reuse whose name had no earlier definition.
	RefUnresolved RefKind = "unresolved"
)

// Citation holds the fields of a structured citation template.
type Citation struct {
	Template   string            `json:"template"`
	Author     string            `json:"author,omitempty"`
	Title      string            `json:"title,omitempty"`
	Work       string            `json:"work,omitempty"`
	Publisher  string            `json:"publisher,omitempty"`
	Date       string            `json:"date,omitempty"`
	URL        string            `json:"url,omitempty"`
	AccessDate string            `json:"accessDate,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Clone returns a deep copy.
func (c *Citation) Clone() *Citation {
	if c == nil {
		return nil
	}
	out := *c
	if c.Extra != nil {
		out.Extra = make(map[string]string, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

// Reference is one <ref> occurrence.
type Reference struct {
	Kind     RefKind   `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Reused   bool      `json:"reused,omitempty"`
	Citation *Citation `json:"citation,omitempty"`
	Inline   *Sentence `json:"inline,omitempty"`
	Raw      string    `json:"raw"`
}

// Reuse copies the data of r into a new reference owned by a later reuse.
func (r Reference) Reuse(raw string) Reference {
	out := Reference{
		Kind:     r.Kind,
		Name:     r.Name,
		Reused:   true,
		Citation: r.Citation.Clone(),
		Raw:      raw,
	}
	if r.Inline != nil {
		s := r.Inline.Clone()
		out.Inline = &s
	}
	return out
}

// Text returns a short human-readable rendering of the reference.
func (r Reference) Text() string {
	switch {
	case r.Citation != nil:
		parts := []string{}
		for _, p := range []string{r.Citation.Author, r.Citation.Title, r.Citation.Work, r.Citation.Publisher, r.Citation.Date} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ". ")
	case r.Inline != nil:
		return r.Inline.Text
	}
	return ""
}

// Table is a parsed wiki table. Rows hold cell sentences; Headers may be
// empty when the table has no header row.
type Table struct {
	Caption string       `json:"caption,omitempty"`
	Headers []string     `json:"headers,omitempty"`
	Rows    [][]Sentence `json:"rows"`
}

// Keyed returns rows as maps keyed by header, falling back to "col1"...
func (t Table) Keyed() []map[string]Sentence {
	out := make([]map[string]Sentence, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]Sentence, len(row))
		for i, cell := range row {
			key := ""
			if i < len(t.Headers) {
				key = t.Headers[i]
			}
			if key == "" {
				key = "col" + strconv.Itoa(i+1)
			}
			m[key] = cell
		}
		out = append(out, m)
	}
	return out
}

// Coordinate is a decimal latitude/longitude pair from a coord template.
type Coordinate struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Display  string  `json:"display,omitempty"`
	Template string  `json:"template"`
}

// RecordKind names the structured template families.
type RecordKind string

const (
	RecordGeneric          RecordKind = "generic"
	RecordShortDescription RecordKind = "short-description"
	RecordGoals            RecordKind = "goals"
	RecordPlayer           RecordKind = "player"
	RecordSportsTable      RecordKind = "sports-table"
	RecordBracket          RecordKind = "bracket"
	RecordHatnote          RecordKind = "hatnote"
	RecordMaintenance      RecordKind = "maintenance"
)

// Goal is one scorer entry of a goal-list template.
type Goal struct {
	Minute string `json:"minute"`
	Note   string `json:"note,omitempty"`
}

// Player is a squad-list row.
type Player struct {
	Number      string `json:"number,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Position    string `json:"position,omitempty"`
	Name        string `json:"name"`
	Other       string `json:"other,omitempty"`
}

// Standing is one team row of a sports table.
type Standing struct {
	Team         string `json:"team"`
	Name         string `json:"name,omitempty"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Points       int    `json:"points"`
}

// BracketEntry is one competitor slot in a bracket round.
type BracketEntry struct {
	Seed  string `json:"seed,omitempty"`
	Team  string `json:"team"`
	Score string `json:"score,omitempty"`
}

// Round is one column of a tournament bracket.
type Round struct {
	Title   string         `json:"title,omitempty"`
	Entries []BracketEntry `json:"entries"`
}

// Record is a structured side-record produced while resolving a template.
// Which payload fields are set depends on Kind.
type Record struct {
	Kind      RecordKind        `json:"kind"`
	Template  string            `json:"template"`
	Text      string            `json:"text,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	List      []string          `json:"list,omitempty"`
	Goals     []Goal            `json:"goals,omitempty"`
	Player    *Player           `json:"player,omitempty"`
	Standings []Standing        `json:"standings,omitempty"`
	Rounds    []Round           `json:"rounds,omitempty"`
}

// Image is a [[File:...]] link.
type Image struct {
	File    string   `json:"file"`
	Caption Sentence `json:"caption"`
	Options []string `json:"options,omitempty"`
}

// URL returns the commons upload URL for the file.
func (im Image) URL() string {
	name := strings.TrimSpace(im.File)
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	name = string(unicode.ToUpper(r)) + name[size:]
	sum := md5.Sum([]byte(name))
	h := hex.EncodeToString(sum[:])
	return "https://upload.wikimedia.org/wikipedia/commons/" + h[:1] + "/" + h[:2] + "/" + url.PathEscape(name)
}
