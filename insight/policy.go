package insight

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/storelens/storelens"
)

// DefaultMaxContentLen caps how much of a policy document is kept.
const DefaultMaxContentLen = 10000

// PolicyDetailExtractor enriches policy stubs in place by fetching the
// linked page, extracting its main content, and converting it to readable
// text. Enrichment is strictly best-effort: any failure leaves the stub
// with its link-only confidence and never fails the caller's batch.
type PolicyDetailExtractor struct {
	Fetcher       storelens.Fetcher
	Content       storelens.ContentExtractor
	Converter     storelens.Converter
	RateLimiter   storelens.DomainLimiter
	MaxContentLen int
	RetryDelays   []time.Duration
}

// Enrich fetches every stub's URL and fills in content. Stubs are mutated
// in place; the slice itself is returned for convenience.
func (e *PolicyDetailExtractor) Enrich(ctx context.Context, policies []*storelens.Policy) []*storelens.Policy {
	for _, p := range policies {
		if err := ctx.Err(); err != nil {
			break
		}
		e.enrichOne(ctx, p)
	}
	return policies
}

func (e *PolicyDetailExtractor) enrichOne(ctx context.Context, p *storelens.Policy) {
	if p == nil || p.URL == "" {
		return
	}

	if e.RateLimiter != nil {
		if err := e.RateLimiter.Wait(ctx, domainOf(p.URL)); err != nil {
			return
		}
	}

	html, err := FetchWithRetryDelays(ctx, p.URL, e.Fetcher.Fetch, e.RetryDelays)
	if err != nil {
		return
	}

	title, contentHTML, err := e.Content.Extract(html)
	if err != nil || contentHTML == "" {
		return
	}

	text, err := e.Converter.Convert(contentHTML)
	if err != nil || text == "" {
		return
	}

	maxLen := e.MaxContentLen
	if maxLen <= 0 {
		maxLen = DefaultMaxContentLen
	}

	p.Confidence = storelens.ConfidenceFull
	if len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
		p.Confidence = storelens.ConfidencePartial
	}
	p.Content = text
	if title != "" {
		p.Title = title
	}
}
