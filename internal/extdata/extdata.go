// Package extdata loads the supplementary lookup tables that extend the
// parser's built-in defaults: extra infobox name patterns, symbol
// overrides, redirect keywords, pronouns and localized namespace names.
// Missing tables fall back to the defaults; loading never changes parsing
// logic.
package extdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Tables holds the optional overrides. Every field may be empty.
type Tables struct {
	InfoboxPatterns  []string          `yaml:"infoboxPatterns" json:"infoboxPatterns"`
	Symbols          map[string]string `yaml:"symbols" json:"symbols"`
	RedirectKeywords []string          `yaml:"redirectKeywords" json:"redirectKeywords"`
	Pronouns         []string          `yaml:"pronouns" json:"pronouns"`
	CategoryPrefixes []string          `yaml:"categoryPrefixes" json:"categoryPrefixes"`
	FilePrefixes     []string          `yaml:"filePrefixes" json:"filePrefixes"`
	InterwikiSites   []string          `yaml:"interwikiSites" json:"interwikiSites"`
}

// Validate checks that patterns compile and no list carries blank entries.
func (t *Tables) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.InfoboxPatterns, validation.Each(validation.Required, validation.By(compiles))),
		validation.Field(&t.Symbols, validation.By(nonEmptyKeys)),
		validation.Field(&t.RedirectKeywords, validation.Each(validation.Required, validation.Length(1, 64))),
		validation.Field(&t.Pronouns, validation.Each(validation.Required)),
		validation.Field(&t.CategoryPrefixes, validation.Each(validation.Required, validation.Length(1, 24))),
		validation.Field(&t.FilePrefixes, validation.Each(validation.Required, validation.Length(1, 24))),
		validation.Field(&t.InterwikiSites, validation.Each(validation.Required, validation.Length(1, 24))),
	)
}

func compiles(v any) error {
	s, _ := v.(string)
	if _, err := regexp.Compile(s); err != nil {
		return fmt.Errorf("invalid pattern %q: %v", s, err)
	}
	return nil
}

func nonEmptyKeys(v any) error {
	m, _ := v.(map[string]string)
	for k := range m {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("blank symbol name")
		}
	}
	return nil
}

// Parse decodes YAML (or JSON, which is valid YAML) table data.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate tables: %w", err)
	}
	return &t, nil
}

// LoadFile reads tables from a YAML or JSON file.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	return Parse(data)
}

// Fetcher downloads tables from a CDN-style endpoint serving JSON.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		userAgent:  userAgent,
	}
}

// Fetch retrieves and validates the tables at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Tables, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tables: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch tables: status %d: %s", resp.StatusCode, string(respBody))
	}

	var t Tables
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate tables: %w", err)
	}
	return &t, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.httpClient.CloseIdleConnections()
}

// Merge returns a copy of t with other's entries appended. Symbol
// overrides in other win. Either may be nil.
func (t *Tables) Merge(other *Tables) *Tables {
	out := &Tables{Symbols: map[string]string{}}
	for _, src := range []*Tables{t, other} {
		if src == nil {
			continue
		}
		out.InfoboxPatterns = append(out.InfoboxPatterns, src.InfoboxPatterns...)
		out.RedirectKeywords = append(out.RedirectKeywords, src.RedirectKeywords...)
		out.Pronouns = append(out.Pronouns, src.Pronouns...)
		out.CategoryPrefixes = append(out.CategoryPrefixes, src.CategoryPrefixes...)
		out.FilePrefixes = append(out.FilePrefixes, src.FilePrefixes...)
		out.InterwikiSites = append(out.InterwikiSites, src.InterwikiSites...)
		for k, v := range src.Symbols {
			out.Symbols[k] = v
		}
	}
	return out
}
