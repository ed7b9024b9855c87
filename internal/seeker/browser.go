package seeker

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Default scrape target and selectors. The result page of the lite DuckDuckGo
// frontend is static HTML, which keeps the scrape robust.
const (
	defaultSearchURL       = "https://lite.duckduckgo.com/lite/?q="
	defaultTitleSelector   = "a.result-link"
	defaultSnippetSelector = "td.result-snippet"
)

// BrowserProvider scrapes a search result page with a headless Chrome
// instance. The browser launches lazily on first search and stays up until
// Close.
type BrowserProvider struct {
	searchURL       string
	titleSelector   string
	snippetSelector string

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserProvider creates a headless-browser seeker. Empty arguments fall
// back to the built-in search frontend and selectors.
func NewBrowserProvider(searchURL, titleSelector, snippetSelector string) *BrowserProvider {
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	if titleSelector == "" {
		titleSelector = defaultTitleSelector
	}
	if snippetSelector == "" {
		snippetSelector = defaultSnippetSelector
	}
	return &BrowserProvider{
		searchURL:       searchURL,
		titleSelector:   titleSelector,
		snippetSelector: snippetSelector,
	}
}

func (p *BrowserProvider) Name() string { return "browser" }

// Search navigates to the search URL for query and collects the top results.
func (p *BrowserProvider) Search(ctx context.Context, query string) ([]Result, error) {
	browser, err := p.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: p.searchURL + url.QueryEscape(query)})
	if err != nil {
		return nil, fmt.Errorf("open search page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			slog.Debug("failed to close search page", "error", err)
		}
	}()
	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("load search page: %w", err)
	}

	titles, err := page.Elements(p.titleSelector)
	if err != nil {
		return nil, fmt.Errorf("find result titles: %w", err)
	}
	snippets, err := page.Elements(p.snippetSelector)
	if err != nil {
		return nil, fmt.Errorf("find result snippets: %w", err)
	}

	var results []Result
	for i, el := range titles {
		if len(results) == MaxResults {
			break
		}
		title, err := el.Text()
		if err != nil {
			continue
		}
		snippet := ""
		if i < len(snippets) {
			if text, err := snippets[i].Text(); err == nil {
				snippet = text
			}
		}
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		results = append(results, Result{Title: title, Snippet: strings.TrimSpace(snippet)})
	}
	return results, nil
}

// Close shuts the browser down if it was launched.
func (p *BrowserProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser == nil {
		return nil
	}
	err := p.browser.Close()
	p.browser = nil
	return err
}

func (p *BrowserProvider) ensureBrowser() (*rod.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser != nil {
		return p.browser, nil
	}

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch Chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to Chrome: %w", err)
	}

	slog.Info("seeker browser launched", "cdp", controlURL)
	p.browser = b
	return b, nil
}
