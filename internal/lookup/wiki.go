// Package lookup implements the reference-lookup collaborators behind the
// search commands: Wikipedia article summaries and NamuWiki existence
// probes.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bamboobot/pkg/logx"
)

// ErrNotFound reports that no document matched the query.
var ErrNotFound = errors.New("document not found")

const (
	defaultWikiBaseURL = "https://ko.wikipedia.org"
	lookupTimeout      = 10 * time.Second
)

// WikiSummary is a looked-up Wikipedia article, normalized away from
// the REST API shape.
type WikiSummary struct {
	Title        string
	Extract      string
	PageURL      string
	ThumbnailURL string
}

type WikiClient struct {
	log     logx.Logger
	httpc   *http.Client
	baseURL string
}

func NewWikiClient(log logx.Logger) *WikiClient {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &WikiClient{
		log:     log,
		httpc:   &http.Client{Timeout: lookupTimeout},
		baseURL: defaultWikiBaseURL,
	}
}

// restSummary is the subset of the page/summary response we consume.
type restSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// Summary looks the query up via the REST summary endpoint. When the exact
// title does not resolve it falls back to full-text search and summarizes
// the first hit. Returns ErrNotFound when neither path yields a document.
func (c *WikiClient) Summary(ctx context.Context, query string) (WikiSummary, error) {
	sum, err := c.fetchSummary(ctx, query)
	if err == nil {
		return sum, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return WikiSummary{}, err
	}

	title, err := c.searchTitle(ctx, query)
	if err != nil {
		return WikiSummary{}, err
	}
	c.log.Debug("wiki fallback search hit",
		logx.String("query", query), logx.String("title", title))
	return c.fetchSummary(ctx, title)
}

func (c *WikiClient) fetchSummary(ctx context.Context, title string) (WikiSummary, error) {
	u := c.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return WikiSummary{}, err
	}
	res, err := c.httpc.Do(req)
	if err != nil {
		return WikiSummary{}, fmt.Errorf("wiki summary: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return WikiSummary{}, ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return WikiSummary{}, fmt.Errorf("wiki summary: unexpected status %d", res.StatusCode)
	}

	var raw restSummary
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return WikiSummary{}, fmt.Errorf("wiki summary decode: %w", err)
	}
	// Disambiguation-style responses carry a type marker instead of content.
	if raw.Type == "not_found" {
		return WikiSummary{}, ErrNotFound
	}

	sum := WikiSummary{
		Title:        raw.Title,
		Extract:      raw.Extract,
		PageURL:      raw.ContentURLs.Desktop.Page,
		ThumbnailURL: raw.Thumbnail.Source,
	}
	if sum.PageURL == "" {
		sum.PageURL = c.baseURL + "/wiki/" + url.PathEscape(title)
	}
	return sum, nil
}

func (c *WikiClient) searchTitle(ctx context.Context, query string) (string, error) {
	u := c.baseURL + "/w/api.php?action=query&list=search&format=json&srsearch=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	res, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("wiki search: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wiki search: unexpected status %d", res.StatusCode)
	}
	var raw searchResponse
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("wiki search decode: %w", err)
	}
	if len(raw.Query.Search) == 0 {
		return "", ErrNotFound
	}
	return raw.Query.Search[0].Title, nil
}
