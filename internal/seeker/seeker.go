// Package seeker gives the agent a way to look things up outside its own
// memory. Providers share one interface; results are small title/snippet
// pairs suitable for storing as reflections.
package seeker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// MaxResults caps how many results a provider returns per query.
const MaxResults = 3

const searchTimeout = 30 * time.Second

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Seeker abstracts a search backend.
type Seeker interface {
	Search(ctx context.Context, query string) ([]Result, error)
	Name() string
}

// HTTPProvider queries a JSON search API. The endpoint receives the query as
// the q parameter and must answer with a {"results": [{title, description}]}
// body.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPProvider creates an API-backed seeker. The key is optional and sent
// as a bearer token when set.
func NewHTTPProvider(endpoint, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: searchTimeout},
	}
}

func (p *HTTPProvider) Name() string { return "http" }

// Search queries the endpoint and returns up to MaxResults hits.
func (p *HTTPProvider) Search(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, "GET", p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var parsed struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	var results []Result
	for _, r := range parsed.Results {
		if len(results) == MaxResults {
			break
		}
		results = append(results, Result{Title: r.Title, Snippet: r.Description})
	}
	return results, nil
}

// Compose renders results as the text body of a seeker reflection.
func Compose(query string, results []Result) string {
	text := "Sought: " + query
	for _, r := range results {
		text += fmt.Sprintf("\n%s: %s", r.Title, r.Snippet)
	}
	return text
}
