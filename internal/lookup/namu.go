package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"bamboobot/pkg/logx"
)

const (
	defaultNamuBaseURL = "https://namu.wiki"

	// NamuWiki rejects non-browser clients, so the probe presents a
	// desktop browser identity.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// NamuClient probes NamuWiki for document existence. There is no public
// API; a 200 on the document page is the only signal available.
type NamuClient struct {
	log     logx.Logger
	httpc   *http.Client
	baseURL string
}

func NewNamuClient(log logx.Logger) *NamuClient {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &NamuClient{
		log:     log,
		httpc:   &http.Client{Timeout: lookupTimeout},
		baseURL: defaultNamuBaseURL,
	}
}

// Exists reports whether the document page for query resolves.
func (c *NamuClient) Exists(ctx context.Context, query string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DocumentURL(query), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	res, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("namu probe: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	c.log.Debug("namu probe",
		logx.String("query", query), logx.Int("status", res.StatusCode))
	return res.StatusCode == http.StatusOK, nil
}

// DocumentURL returns the canonical document page URL for query.
func (c *NamuClient) DocumentURL(query string) string {
	return c.baseURL + "/w/" + url.PathEscape(query)
}

// SearchURL returns the search page URL for query, offered when the
// document itself does not exist.
func (c *NamuClient) SearchURL(query string) string {
	return c.baseURL + "/search?q=" + url.QueryEscape(query)
}
