package scanner

import (
	"regexp"
	"strings"
)

// RedirectKeywords are the localized #REDIRECT magic words, without '#'.
var RedirectKeywords = []string{
	"redirect", "weiterleitung", "redirection", "redirección", "redireccion",
	"rinvia", "doorverwijzing", "przekieruj", "перенаправление", "перенапр",
	"転送", "リダイレクト", "重定向", "omdirigering", "uudelleenohjaus",
}

// RedirectMatcher recognizes redirect pages.
type RedirectMatcher struct {
	re *regexp.Regexp
}

// NewRedirectMatcher compiles a matcher for the given keywords.
func NewRedirectMatcher(keywords []string) *RedirectMatcher {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimPrefix(strings.TrimSpace(k), "#")
		if k != "" {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
	}
	if len(quoted) == 0 {
		quoted = append(quoted, "redirect")
	}
	re := regexp.MustCompile(`(?is)^\s*#\s*(?:` + strings.Join(quoted, "|") + `)\s*:?\s*\[\[([^\]|\n]+)(?:\|[^\]]*)?\]\]`)
	return &RedirectMatcher{re: re}
}

// Match returns the raw redirect target when text is a redirect page.
// Anything after the target link is ignored.
func (m *RedirectMatcher) Match(text string) (string, bool) {
	sm := m.re.FindStringSubmatch(text)
	if sm == nil {
		return "", false
	}
	return strings.TrimSpace(sm[1]), true
}
