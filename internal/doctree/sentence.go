package doctree

// LinkType distinguishes wiki links from external and cross-site ones.
type LinkType string

const (
	LinkInternal  LinkType = "internal"
	LinkExternal  LinkType = "external"
	LinkInterwiki LinkType = "interwiki"
)

// Link is one link occurrence. Start and End are byte offsets into the
// owning sentence's Text; they are zero for links that do not live in a
// sentence (a redirect target, for instance).
type Link struct {
	Type   LinkType `json:"type"`
	Page   string   `json:"page,omitempty"`
	Text   string   `json:"text,omitempty"`
	Anchor string   `json:"anchor,omitempty"`
	Site   string   `json:"site,omitempty"`
	Start  int      `json:"start,omitempty"`
	End    int      `json:"end,omitempty"`
}

// Sentence is plain text with the links that were embedded in it.
// Bold and Italic keep the formatted spans that were stripped from Text.
type Sentence struct {
	Text   string   `json:"text"`
	Links  []Link   `json:"links,omitempty"`
	Bold   []string `json:"bold,omitempty"`
	Italic []string `json:"italic,omitempty"`
}

// FirstBold returns the first bold span, used for title inference.
func (s Sentence) FirstBold() string {
	if len(s.Bold) == 0 {
		return ""
	}
	return s.Bold[0]
}

// IsEmpty reports whether the sentence carries no text and no links.
func (s Sentence) IsEmpty() bool {
	return s.Text == "" && len(s.Links) == 0
}

// Clone returns a deep copy.
func (s Sentence) Clone() Sentence {
	out := Sentence{Text: s.Text}
	if s.Links != nil {
		out.Links = append([]Link(nil), s.Links...)
	}
	if s.Bold != nil {
		out.Bold = append([]string(nil), s.Bold...)
	}
	if s.Italic != nil {
		out.Italic = append([]string(nil), s.Italic...)
	}
	return out
}
