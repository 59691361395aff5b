// Package insight orchestrates a full brand extraction run: homepage
// fetch, the extractor suite, catalog loading with sitemap fallback, and
// policy detail enrichment, merged into one BrandInsights.
package insight

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/storelens/storelens"
	"github.com/storelens/storelens/bloom"
	"golang.org/x/sync/errgroup"
)

// Defaults for the extraction run.
const (
	DefaultMaxProducts = 100
	DefaultConcurrency = 4

	// walkExpectedURLs sizes the bloom filter for the page walk.
	walkExpectedURLs      = 10000
	walkFalsePositiveRate = 0.01
)

// Service runs the extraction pipeline for one storefront.
type Service struct {
	Fetcher  storelens.Fetcher
	Products storelens.ProductExtractor
	Heroes   storelens.HeroProductExtractor
	Policies storelens.PolicyExtractor
	Profile  storelens.BrandProfileExtractor
	Catalog  storelens.CatalogService
	Sitemaps storelens.SitemapService

	// PageProduct selects the single subject of a product page during the
	// sitemap walk, keeping recommendation widgets out of the catalog.
	PageProduct storelens.SingleProductExtractor

	// PolicyDetail, when set, upgrades policy stubs with page content.
	PolicyDetail *PolicyDetailExtractor

	RateLimiter storelens.DomainLimiter
	Logger      *slog.Logger

	MaxProducts int
	Concurrency int
	RetryDelays []time.Duration
}

// ExtractInsights fetches the brand's homepage and runs every extractor,
// merging the results into one BrandInsights. Only an unreachable homepage
// fails the run; a storefront missing any entity type yields empty fields.
func (s *Service) ExtractInsights(ctx context.Context, rawURL string) (*storelens.BrandInsights, error) {
	websiteURL, err := storelens.NormalizeBrandURL(rawURL)
	if err != nil {
		return nil, err
	}

	homepage, err := s.fetch(ctx, websiteURL)
	if err != nil {
		return nil, err
	}

	insights := &storelens.BrandInsights{
		WebsiteURL: websiteURL,
		FetchedAt:  time.Now().UTC(),
	}

	if profile, err := s.Profile.ExtractProfile(homepage, websiteURL); err != nil {
		s.log("brand profile extraction failed", "url", websiteURL, "error", err)
	} else {
		insights.BrandName = profile.Name
		insights.BrandDescription = profile.Description
		insights.LogoURL = profile.LogoURL
		insights.Socials = profile.Socials
		insights.Contacts = profile.Contacts
		insights.FAQs = profile.FAQs
		insights.Links = profile.Links
		insights.Currencies = profile.Currencies
		insights.PaymentMethods = profile.PaymentMethods
	}

	if heroes, err := s.Heroes.ExtractHeroProducts(homepage, websiteURL); err != nil {
		s.log("hero extraction failed", "url", websiteURL, "error", err)
	} else {
		insights.HeroProducts = heroes
	}

	if policies, err := s.Policies.ExtractPolicies(homepage, websiteURL); err != nil {
		s.log("policy extraction failed", "url", websiteURL, "error", err)
	} else {
		if s.PolicyDetail != nil {
			policies = s.PolicyDetail.Enrich(ctx, policies)
		}
		insights.Policies = policies
	}

	catalog, err := s.loadCatalog(ctx, websiteURL, homepage)
	if err != nil {
		return nil, err
	}
	insights.Catalog = catalog
	insights.TotalProducts = len(catalog)

	return insights, nil
}

// loadCatalog assembles the product catalog: homepage products first, then
// the products.json endpoint, then a bounded concurrent walk of sitemap
// product pages when the endpoint yields nothing.
func (s *Service) loadCatalog(ctx context.Context, websiteURL, homepage string) ([]*storelens.Product, error) {
	maxProducts := s.MaxProducts
	if maxProducts <= 0 {
		maxProducts = DefaultMaxProducts
	}

	set := storelens.NewProductSet()

	if products, err := s.Products.ExtractProducts(homepage, websiteURL); err != nil {
		s.log("homepage product extraction failed", "url", websiteURL, "error", err)
	} else {
		set.AddAll(products)
	}

	fromEndpoint := 0
	if s.Catalog != nil {
		products, err := s.Catalog.LoadCatalog(ctx, websiteURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log("catalog endpoint failed", "url", websiteURL, "error", err)
		} else {
			fromEndpoint = len(products)
			set.AddAll(products)
		}
	}

	if fromEndpoint == 0 && s.Sitemaps != nil {
		if err := s.walkProductPages(ctx, websiteURL, set, maxProducts); err != nil {
			return nil, err
		}
	}

	catalog := set.Products()
	if len(catalog) > maxProducts {
		catalog = catalog[:maxProducts]
	}
	return catalog, nil
}

// walkProductPages discovers product URLs from the sitemap and extracts
// each page concurrently, bounded by Concurrency workers and the remaining
// product budget. Individual page failures are logged and skipped.
func (s *Service) walkProductPages(ctx context.Context, websiteURL string, set *storelens.ProductSet, maxProducts int) error {
	urls, err := s.Sitemaps.DiscoverProductURLs(ctx, websiteURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log("sitemap discovery failed", "url", websiteURL, "error", err)
		return nil
	}

	budget := maxProducts - set.Len()
	if budget <= 0 || len(urls) == 0 {
		return nil
	}

	seen := bloom.NewFilter(walkExpectedURLs, walkFalsePositiveRate)
	var pending []string
	for _, u := range urls {
		if seen.TestAndAdd(u) {
			continue
		}
		pending = append(pending, u)
		if len(pending) >= budget {
			break
		}
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, pageURL := range pending {
		g.Go(func() error {
			html, err := s.fetch(gctx, pageURL)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.log("product page fetch failed", "url", pageURL, "error", err)
				return nil
			}

			product, err := s.pageProduct(html, pageURL)
			if err != nil {
				s.log("product page extraction failed", "url", pageURL, "error", err)
				return nil
			}
			if product == nil {
				return nil
			}

			mu.Lock()
			set.Add(product)
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// pageProduct extracts the subject of one product page. Without a
// configured PageProduct extractor it degrades to the cascade reduced to
// its most field-rich candidate, so a recommendation grid on the page can
// never contribute more than one product.
func (s *Service) pageProduct(html, pageURL string) (*storelens.Product, error) {
	if s.PageProduct != nil {
		return s.PageProduct.ExtractProduct(html, pageURL)
	}

	products, err := s.Products.ExtractProducts(html, pageURL)
	if err != nil || len(products) == 0 {
		return nil, err
	}
	subject := products[0]
	for _, p := range products[1:] {
		if p.Richness() > subject.Richness() {
			subject = p
		}
	}
	return subject, nil
}

// fetch applies the pacing floor and retry policy around the fetcher.
func (s *Service) fetch(ctx context.Context, pageURL string) (string, error) {
	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, domainOf(pageURL)); err != nil {
			return "", err
		}
	}
	return FetchWithRetryDelays(ctx, pageURL, s.Fetcher.Fetch, s.RetryDelays)
}

func (s *Service) log(msg string, args ...any) {
	if s.Logger != nil {
		s.Logger.Warn(msg, args...)
	}
}

// domainOf extracts the host for rate limiting; the raw URL is returned
// when it cannot be parsed so pacing still applies to something stable.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
