// Package source fetches raw article markup by title and language, from
// the MediaWiki action API or from a local SQLite store.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNotFound is returned when the article does not exist.
var ErrNotFound = errors.New("article not found")

// Article is the raw markup of one page.
type Article struct {
	Title    string `json:"title"`
	Lang     string `json:"lang"`
	Wikitext string `json:"wikitext"`
}

// Fetcher supplies raw markup by title and language.
type Fetcher interface {
	Fetch(ctx context.Context, title, lang string) (*Article, error)
}

// RetryableError marks a transient upstream failure (rate limiting, 5xx,
// network errors) that may succeed when retried.
type RetryableError struct {
	StatusCode int
	Err        error
}

func (e *RetryableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("retryable (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retryable: %v", e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// NormalizeTitle folds underscores and whitespace runs to single spaces and
// uppercases the first letter, the way page titles are canonicalized.
func NormalizeTitle(title string) string {
	title = strings.Join(strings.Fields(strings.ReplaceAll(title, "_", " ")), " ")
	if title == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r)) + title[size:]
}

// NormalizeLang lowercases a language code and defaults it to "en".
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "en"
	}
	return lang
}
