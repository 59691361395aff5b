package storelens

import "context"

// Fetcher retrieves raw markup from URLs.
// Implementations hide HTTP details, headers, and timeout handling.
type Fetcher interface {
	// Fetch retrieves the raw page content for the URL.
	// The context controls timeout and cancellation. Failures are surfaced
	// as ETRANSPORT (HTTP status >= 400) or EUNAVAILABLE (network) errors.
	Fetch(ctx context.Context, url string) (string, error)

	// FetchWithHeaders is like Fetch but also returns the response headers,
	// which platform validation inspects for fingerprints.
	FetchWithHeaders(ctx context.Context, url string) (string, map[string]string, error)

	// Close releases transport resources.
	Close() error
}

// DomainLimiter provides per-domain request pacing. It is a pacing floor,
// not a lock: concurrent requests to different domains proceed freely
// while consecutive requests to one domain respect the minimum delay.
type DomainLimiter interface {
	// Wait blocks until the pacing floor allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
