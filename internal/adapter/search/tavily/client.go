// Package tavily implements the posting source port against the Tavily
// search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amithrb/jobfinder/internal/domain"
)

// Client is a minimal Tavily HTTP client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New constructs a Tavily client with baseURL and apiKey.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	IncludeRaw     bool     `json:"include_raw_content"`
}

type searchResponse struct {
	Results []struct {
		Title      string `json:"title"`
		URL        string `json:"url"`
		Content    string `json:"content"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
}

// Search runs an advanced-depth search and maps results to raw postings.
// The source domain is derived from each result URL's host.
func (c *Client) Search(ctx context.Context, query string, maxResults int, domains []string) ([]domain.RawPosting, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: tavily api key missing", domain.ErrInvalidArgument)
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	body, _ := json.Marshal(searchRequest{
		Query:          query,
		SearchDepth:    "advanced",
		MaxResults:     maxResults,
		IncludeDomains: domains,
		IncludeRaw:     true,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tavily: %v", domain.ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: tavily status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: tavily decode: %v", domain.ErrSchemaInvalid, err)
	}

	postings := make([]domain.RawPosting, 0, len(out.Results))
	for _, r := range out.Results {
		postings = append(postings, domain.RawPosting{
			Title:      r.Title,
			Content:    r.Content,
			RawContent: r.RawContent,
			URL:        r.URL,
			Source:     hostOf(r.URL),
		})
	}
	return postings, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
