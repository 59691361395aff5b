// Package http provides the HTTP implementations of the transport-facing
// interfaces: page fetching, web search, Shopify catalog paging, and
// sitemap-based product URL discovery.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/storelens/storelens"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 15 * time.Second

// defaultHeaders make requests look like an ordinary browser session.
// Storefronts and CDNs routinely serve reduced markup to unidentified
// clients.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Ensure Fetcher implements storelens.Fetcher at compile time.
var _ storelens.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page content over plain HTTP. It does not execute
// JavaScript; Shopify storefronts render products, policies, and structured
// data server-side, which is all the extraction pipeline needs.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, _, err := f.do(ctx, url)
	return body, err
}

// FetchWithHeaders retrieves the page content together with the response
// headers so callers can inspect platform fingerprints.
func (f *Fetcher) FetchWithHeaders(ctx context.Context, url string) (string, map[string]string, error) {
	return f.do(ctx, url)
}

func (f *Fetcher) do(ctx context.Context, url string) (string, map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, storelens.Errorf(storelens.EINVALID, "invalid URL %q: %v", url, err)
	}
	for name, value := range defaultHeaders {
		req.Header.Set(name, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}
		return "", nil, storelens.Errorf(storelens.EUNAVAILABLE, "request to %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", nil, storelens.Errorf(storelens.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, storelens.Errorf(storelens.EUNAVAILABLE, "reading response from %s: %v", url, err)
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	return string(body), headers, nil
}

// Close releases resources. A no-op for the plain HTTP client.
func (f *Fetcher) Close() error {
	return nil
}
