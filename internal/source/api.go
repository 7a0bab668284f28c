package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultAPIURL is the action API endpoint; {lang} is replaced with the
// requested language.
const DefaultAPIURL = "https://{lang}.wikipedia.org/w/api.php"

var langRe = regexp.MustCompile(`^[a-z]{2,12}(?:-[a-z0-9]{1,12})*$`)

// APIClient fetches current revisions from the MediaWiki action API.
type APIClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewAPIClient returns a client for baseURL, which may contain a {lang}
// placeholder. An empty baseURL selects DefaultAPIURL.
func NewAPIClient(baseURL, userAgent string) *APIClient {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &APIClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type queryResponse struct {
	Query struct {
		Pages []struct {
			Title     string `json:"title"`
			Missing   bool   `json:"missing"`
			Invalid   bool   `json:"invalid"`
			Revisions []struct {
				Slots struct {
					Main struct {
						Content string `json:"content"`
					} `json:"main"`
				} `json:"slots"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Fetch returns the current markup of title. Redirect pages are returned
// as-is so the parser can report them.
func (c *APIClient) Fetch(ctx context.Context, title, lang string) (*Article, error) {
	title = NormalizeTitle(title)
	lang = NormalizeLang(lang)
	if title == "" {
		return nil, fmt.Errorf("fetch: empty title")
	}
	if !langRe.MatchString(lang) {
		return nil, fmt.Errorf("fetch: invalid language %q", lang)
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("prop", "revisions")
	q.Set("rvprop", "content")
	q.Set("rvslots", "main")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("titles", title)
	u := strings.ReplaceAll(c.baseURL, "{lang}", lang) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("fetch %s: %w", title, err)}
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{StatusCode: resp.StatusCode, Err: fmt.Errorf("fetch %s: %s", title, string(body))}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch %s: status %d: %s", title, resp.StatusCode, string(body))
	}

	var qr queryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<20)).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if qr.Error != nil {
		return nil, fmt.Errorf("fetch %s: %s: %s", title, qr.Error.Code, qr.Error.Info)
	}
	if len(qr.Query.Pages) == 0 {
		return nil, ErrNotFound
	}
	page := qr.Query.Pages[0]
	if page.Missing || page.Invalid || len(page.Revisions) == 0 {
		return nil, ErrNotFound
	}
	return &Article{
		Title:    page.Title,
		Lang:     lang,
		Wikitext: page.Revisions[0].Slots.Main.Content,
	}, nil
}

// Close releases idle connections.
func (c *APIClient) Close() {
	c.httpClient.CloseIdleConnections()
}
