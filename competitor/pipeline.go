package competitor

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/storelens/storelens"
)

// Defaults for the discovery pipeline.
const (
	DefaultMaxCompetitors = 5
	DefaultTimeBudget     = 5 * time.Minute
)

// blockedDomains are marketplaces, social networks, and reference sites
// that show up in search results but are never storefront competitors.
var blockedDomains = []string{
	"amazon.", "ebay.", "etsy.", "walmart.", "aliexpress.", "alibaba.",
	"target.", "bestbuy.", "wikipedia.org", "reddit.com", "quora.com",
	"medium.com", "facebook.com", "instagram.com", "youtube.com",
	"pinterest.", "linkedin.com", "twitter.com", "x.com", "tiktok.com",
	"google.", "yelp.", "trustpilot.", "shopify.com",
}

// Analyzer runs the full extraction pipeline against a validated
// competitor storefront.
type Analyzer interface {
	ExtractInsights(ctx context.Context, url string) (*storelens.BrandInsights, error)
}

// Pipeline discovers, validates, and analyzes competitor candidates for a
// brand. Candidates move through the lifecycle sequentially behind a
// per-domain pacing floor; one bad candidate never aborts the run.
type Pipeline struct {
	Searcher storelens.Searcher
	Fetcher  storelens.Fetcher
	Detector storelens.PlatformDetector
	Analyzer Analyzer

	RateLimiter storelens.DomainLimiter
	Logger      *slog.Logger

	// MaxCompetitors caps how many candidates enter validation.
	MaxCompetitors int

	// TimeBudget bounds the whole run. Candidates still pending when it
	// expires stay pending and the analysis is flagged incomplete.
	TimeBudget time.Duration

	// MinTerminal is the number of candidates that must reach a terminal
	// state for the analysis to count as complete. Zero means every
	// discovered candidate.
	MinTerminal int
}

// DiscoverAndAnalyze runs the full competitor pipeline for a brand.
// Zero search results produce a valid empty analysis, not an error.
func (p *Pipeline) DiscoverAndAnalyze(ctx context.Context, insights *storelens.BrandInsights, originalURL string) (*storelens.CompetitorAnalysis, error) {
	brandURL, err := storelens.NormalizeBrandURL(originalURL)
	if err != nil {
		return nil, err
	}

	analysis := &storelens.CompetitorAnalysis{
		BrandURL: brandURL,
	}
	if insights != nil {
		analysis.BrandName = insights.BrandName
	}

	candidates, err := p.discover(ctx, insights, brandURL)
	if err != nil {
		return nil, err
	}
	analysis.Candidates = candidates
	analysis.CompetitorsFound = len(candidates)
	if len(candidates) == 0 {
		return analysis, nil
	}

	budget := p.TimeBudget
	if budget <= 0 {
		budget = DefaultTimeBudget
	}
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	for _, c := range candidates {
		if runCtx.Err() != nil {
			break
		}
		p.processCandidate(runCtx, c)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis.Summary = storelens.SummarizeCandidates(candidates)
	analysis.CompetitorsAnalyzed = analysis.Summary.TotalCompetitors

	minTerminal := p.MinTerminal
	if minTerminal <= 0 || minTerminal > len(candidates) {
		minTerminal = len(candidates)
	}
	terminal := 0
	for _, c := range candidates {
		if c.Status.Terminal() {
			terminal++
		}
	}
	analysis.Incomplete = terminal < minTerminal

	return analysis, nil
}

// discover searches for candidate stores and reduces the results to a
// deduplicated, blocklist-filtered, capped candidate list.
func (p *Pipeline) discover(ctx context.Context, insights *storelens.BrandInsights, brandURL string) ([]*storelens.CompetitorCandidate, error) {
	category := InferCategory(insights)
	brandName := ""
	if insights != nil {
		brandName = insights.BrandName
	}
	queries := BuildQueries(category, brandName)

	maxCompetitors := p.MaxCompetitors
	if maxCompetitors <= 0 {
		maxCompetitors = DefaultMaxCompetitors
	}
	ownDomain := normalizeDomain(brandURL)

	seen := make(map[string]bool)
	var candidates []*storelens.CompetitorCandidate
	for _, query := range queries {
		if len(candidates) >= maxCompetitors {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results, err := p.Searcher.Search(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.log("search failed", "query", query, "error", err)
			continue
		}

		for _, r := range results {
			if len(candidates) >= maxCompetitors {
				break
			}
			domain := normalizeDomain(r.URL)
			if domain == "" || domain == ownDomain || seen[domain] || blocked(domain) {
				continue
			}
			seen[domain] = true
			candidates = append(candidates, storelens.NewCompetitorCandidate(r.Title, "https://"+domain))
		}
	}

	return candidates, nil
}

// processCandidate walks one candidate through validation and, when it
// validates as Shopify, analysis. All failures land in the candidate's
// state; none propagate.
func (p *Pipeline) processCandidate(ctx context.Context, c *storelens.CompetitorCandidate) {
	if err := c.BeginValidation(); err != nil {
		p.log("candidate transition rejected", "url", c.URL, "error", err)
		return
	}

	if p.RateLimiter != nil {
		if err := p.RateLimiter.Wait(ctx, normalizeDomain(c.URL)); err != nil {
			return
		}
	}

	html, headers, err := p.Fetcher.FetchWithHeaders(ctx, c.URL)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		_ = c.CompleteValidation(false, []string{"unreachable: " + err.Error()})
		return
	}

	detection := p.Detector.Detect(html, c.URL, headers)
	shopify := detection.Platform == storelens.PlatformShopify
	if err := c.CompleteValidation(shopify, detection.Evidence); err != nil {
		p.log("candidate transition rejected", "url", c.URL, "error", err)
		return
	}
	if !shopify {
		return
	}

	insights, err := p.Analyzer.ExtractInsights(ctx, c.URL)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		_ = c.FailAnalysis(err.Error())
		return
	}
	if err := c.CompleteAnalysis(insights); err != nil {
		p.log("candidate transition rejected", "url", c.URL, "error", err)
	}
}

func (p *Pipeline) log(msg string, args ...any) {
	if p.Logger != nil {
		p.Logger.Warn(msg, args...)
	}
}

// normalizeDomain reduces a URL to its lowercase host without the www
// prefix, the identity used for candidate deduplication.
func normalizeDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

func blocked(domain string) bool {
	for _, b := range blockedDomains {
		if strings.Contains(domain, b) {
			return true
		}
	}
	return false
}
