// Package mediawiki is a minimal client for the MediaWiki action API,
// covering page listing and rendered-HTML retrieval for scraping.
package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client communicates with a MediaWiki action API endpoint, e.g.
// https://en.wiktionary.org/w/api.php.
type Client struct {
	apiURL     string
	userAgent  string
	httpClient *http.Client
}

func NewClient(apiURL, userAgent string) *Client {
	return &Client{
		apiURL:    apiURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// EndpointForLanguage returns the action API endpoint for a Wiktionary
// language edition, e.g. "en" -> https://en.wiktionary.org/w/api.php.
func EndpointForLanguage(lang string) string {
	return fmt.Sprintf("https://%s.wiktionary.org/w/api.php", lang)
}

// Page is one fetched wiki page with its rendered HTML.
type Page struct {
	Title      string
	URL        string
	RevID      int64
	HTML       string
	Categories []string
}

// RetryableError marks a transient fetch failure (throttling, server
// errors, transport errors) that is worth retrying with backoff.
type RetryableError struct {
	Status int
	Err    error
}

func (e *RetryableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient fetch error: %s", e.Err)
	}
	return fmt.Sprintf("transient fetch error: status %d", e.Status)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// RandomTitles returns up to n random main-namespace page titles.
func (c *Client) RandomTitles(ctx context.Context, n int) ([]string, error) {
	params := url.Values{
		"action":      {"query"},
		"list":        {"random"},
		"rnnamespace": {"0"},
		"rnlimit":     {fmt.Sprintf("%d", n)},
	}
	var result struct {
		Query struct {
			Random []struct {
				Title string `json:"title"`
			} `json:"random"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("list random pages: %w", err)
	}
	titles := make([]string, 0, len(result.Query.Random))
	for _, p := range result.Query.Random {
		titles = append(titles, p.Title)
	}
	return titles, nil
}

// AllTitlesFrom returns up to limit main-namespace titles in lexicographic
// order, starting at from (inclusive). Pass "!" to start at the beginning.
func (c *Client) AllTitlesFrom(ctx context.Context, from string, limit int) ([]string, error) {
	params := url.Values{
		"action":      {"query"},
		"list":        {"allpages"},
		"apnamespace": {"0"},
		"apfrom":      {from},
		"aplimit":     {fmt.Sprintf("%d", limit)},
	}
	var result struct {
		Query struct {
			AllPages []struct {
				Title string `json:"title"`
			} `json:"allpages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("list all pages: %w", err)
	}
	titles := make([]string, 0, len(result.Query.AllPages))
	for _, p := range result.Query.AllPages {
		titles = append(titles, p.Title)
	}
	return titles, nil
}

// FetchPage retrieves the rendered HTML, latest revision id and category
// list for one page.
func (c *Client) FetchPage(ctx context.Context, title string) (*Page, error) {
	params := url.Values{
		"action": {"parse"},
		"page":   {title},
		"prop":   {"text|revid|categories"},
	}
	var result struct {
		Parse struct {
			Title      string `json:"title"`
			RevID      int64  `json:"revid"`
			Text       string `json:"text"`
			Categories []struct {
				Category string `json:"category"`
			} `json:"categories"`
		} `json:"parse"`
		Error *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("fetch page %q: %w", title, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("fetch page %q: api error %s: %s", title, result.Error.Code, result.Error.Info)
	}

	cats := make([]string, 0, len(result.Parse.Categories))
	for _, cat := range result.Parse.Categories {
		cats = append(cats, cat.Category)
	}
	return &Page{
		Title:      result.Parse.Title,
		URL:        c.PageURL(result.Parse.Title),
		RevID:      result.Parse.RevID,
		HTML:       result.Parse.Text,
		Categories: cats,
	}, nil
}

// PageURL builds the canonical page URL for a title.
func (c *Client) PageURL(title string) string {
	base := strings.TrimSuffix(c.apiURL, "/w/api.php")
	return base + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// IsLemma reports whether a page's categories mark it as a lemma entry.
// Pages with no lemma category, or with a non-lemma category, are skipped.
func IsLemma(categories []string) bool {
	hasLemma := false
	for _, cat := range categories {
		lower := strings.ToLower(cat)
		if strings.Contains(lower, "non-lemma") {
			return false
		}
		if strings.Contains(lower, "lemma") {
			hasLemma = true
		}
	}
	return hasLemma
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
