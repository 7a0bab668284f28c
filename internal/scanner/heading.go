package scanner

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`(?m)^(={2,6})([^\n]{1,200}?)(={2,6})[ \t]*$`)

// Heading is one section heading line. Level is the number of '=' in the
// opening marker.
type Heading struct {
	Start int
	End   int
	Level int
	Title string
}

// FindHeadings returns the heading lines of text in order.
func FindHeadings(text string) []Heading {
	var out []Heading
	for _, m := range headingRe.FindAllStringSubmatchIndex(text, -1) {
		title := strings.TrimSpace(text[m[4]:m[5]])
		if strings.Trim(title, "=") == "" {
			continue
		}
		out = append(out, Heading{
			Start: m[0],
			End:   m[1],
			Level: m[3] - m[2],
			Title: title,
		})
	}
	return out
}

// FirstHeading returns the offset of the first heading line, or -1.
func FirstHeading(text string) int {
	loc := headingRe.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}
