package scanner

import (
	"sort"
	"strings"

	"github.com/dgallion1/wikidoc/internal/wikierr"
)

// Span replaces text[Start:End] with Text.
type Span struct {
	Start int
	End   int
	Text  string
}

// Splice rebuilds text with every span replaced, in one pass. Spans must
// not overlap; an overlap is an internal fault.
func Splice(text string, spans []Span) (string, error) {
	if len(spans) == 0 {
		return text, nil
	}
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, s := range sorted {
		if s.Start < pos || s.End < s.Start || s.End > len(text) {
			return "", wikierr.Internalf("splice: span [%d,%d) overlaps or exceeds text of %d bytes", s.Start, s.End, len(text))
		}
		b.WriteString(text[pos:s.Start])
		b.WriteString(s.Text)
		pos = s.End
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}
