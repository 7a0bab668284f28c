package doctree

import "strings"

// SummaryResult is the lossy lead summary of an article.
type SummaryResult struct {
	Title            string   `json:"title,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	IsRedirect       bool     `json:"isRedirect"`
	RedirectTo       *Link    `json:"redirectTo,omitempty"`
	Sentences        []string `json:"sentences"`
	Truncated        bool     `json:"truncated"`
}

// Text joins the summary sentences.
func (r *SummaryResult) Text() string {
	return strings.Join(r.Sentences, " ")
}

// LinksResult lists the links of an article in order.
type LinksResult struct {
	IsRedirect bool   `json:"isRedirect"`
	RedirectTo *Link  `json:"redirectTo,omitempty"`
	Links      []Link `json:"links"`
	Truncated  bool   `json:"truncated"`
}

// CategoriesResult lists category names.
type CategoriesResult struct {
	IsRedirect bool     `json:"isRedirect"`
	Categories []string `json:"categories"`
	Truncated  bool     `json:"truncated"`
}

// InfoboxResult is the first infobox of an article, flattened to text.
// Partial is set when the infobox was cut off by the byte ceiling.
type InfoboxResult struct {
	IsRedirect bool              `json:"isRedirect"`
	RedirectTo *Link             `json:"redirectTo,omitempty"`
	Found      bool              `json:"found"`
	Type       string            `json:"type,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Partial    bool              `json:"partial,omitempty"`
	Truncated  bool              `json:"truncated"`
}
