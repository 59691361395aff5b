package http

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/storelens/storelens"
)

// searchEndpoint is DuckDuckGo's HTML-only interface, which serves fully
// rendered results without JavaScript.
const searchEndpoint = "https://html.duckduckgo.com/html/"

// Ensure Searcher implements storelens.Searcher at compile time.
var _ storelens.Searcher = (*Searcher)(nil)

// Searcher performs web searches through DuckDuckGo's HTML interface.
type Searcher struct {
	fetcher  storelens.Fetcher
	endpoint string
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithSearchEndpoint overrides the search endpoint.
func WithSearchEndpoint(endpoint string) SearcherOption {
	return func(s *Searcher) {
		s.endpoint = endpoint
	}
}

// NewSearcher creates a Searcher on top of the given fetcher.
func NewSearcher(fetcher storelens.Fetcher, opts ...SearcherOption) *Searcher {
	s := &Searcher{fetcher: fetcher, endpoint: searchEndpoint}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the query and returns results in engine order. A failed or
// empty search yields an empty slice; a flaky search engine never fails
// the caller. Context cancellation is still surfaced.
func (s *Searcher) Search(ctx context.Context, query string) ([]storelens.SearchResult, error) {
	searchURL := s.endpoint + "?q=" + url.QueryEscape(query)

	html, err := s.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []storelens.SearchResult{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return []storelens.SearchResult{}, nil
	}

	var results []storelens.SearchResult
	doc.Find("a.result__a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		target := decodeRedirect(href)
		if target == "" {
			return
		}
		results = append(results, storelens.SearchResult{
			Title: strings.TrimSpace(sel.Text()),
			URL:   target,
		})
	})

	if results == nil {
		results = []storelens.SearchResult{}
	}
	return results, nil
}

// decodeRedirect unwraps DuckDuckGo's redirect links, which carry the real
// destination in the uddg query parameter. Direct links pass through.
func decodeRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		if _, err := url.Parse(target); err == nil {
			return target
		}
		return ""
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
