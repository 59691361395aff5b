package http

import (
	"bufio"
	"context"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/storelens/storelens"
)

// maxSitemapFetches bounds the recursive walk; Shopify splits large
// catalogs into many product sitemaps.
const maxSitemapFetches = 25

// Ensure SitemapService implements storelens.SitemapService.
var _ storelens.SitemapService = (*SitemapService)(nil)

// SitemapService discovers product page URLs from a storefront's sitemaps.
type SitemapService struct {
	fetcher storelens.Fetcher
}

// NewSitemapService creates a SitemapService on top of the given fetcher.
func NewSitemapService(fetcher storelens.Fetcher) *SitemapService {
	return &SitemapService{fetcher: fetcher}
}

// DiscoverProductURLs finds canonical /products/ URLs for the storefront.
// Sitemap locations come from robots.txt Sitemap directives, falling back
// to /sitemap.xml. Sitemap indexes are resolved recursively; on Shopify the
// product URLs live in sitemap_products_*.xml children. Returns an empty
// slice when no sitemap exists.
func (s *SitemapService) DiscoverProductURLs(ctx context.Context, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, storelens.Errorf(storelens.EINVALID, "invalid base URL: %v", err)
	}

	sitemapURLs := s.findSitemapURLs(ctx, base)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	walk := &sitemapWalk{
		seen:    make(map[string]bool),
		seenURL: make(map[string]bool),
	}
	for _, sitemapURL := range sitemapURLs {
		if err := s.walkSitemap(ctx, sitemapURL, walk); err != nil {
			return nil, err
		}
	}

	if walk.products == nil {
		walk.products = []string{}
	}
	return walk.products, nil
}

type sitemapWalk struct {
	seen     map[string]bool
	seenURL  map[string]bool
	fetches  int
	products []string
}

// findSitemapURLs reads robots.txt Sitemap directives, falling back to the
// conventional /sitemap.xml location.
func (s *SitemapService) findSitemapURLs(ctx context.Context, base *url.URL) []string {
	root := *base
	root.Path = ""

	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if body, err := s.fetcher.Fetch(ctx, robotsURL); err == nil {
		var sitemaps []string
		scanner := bufio.NewScanner(strings.NewReader(body))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
				if sitemapURL := strings.TrimSpace(line[len("sitemap:"):]); sitemapURL != "" {
					sitemaps = append(sitemaps, sitemapURL)
				}
			}
		}
		if len(sitemaps) > 0 {
			return sitemaps
		}
	}

	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}
}

// walkSitemap fetches one sitemap and either recurses into its children or
// collects its product URLs. Unfetchable or unparseable sitemaps are
// skipped; only context cancellation aborts the walk.
func (s *SitemapService) walkSitemap(ctx context.Context, sitemapURL string, walk *sitemapWalk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if walk.seen[sitemapURL] || walk.fetches >= maxSitemapFetches {
		return nil
	}
	walk.seen[sitemapURL] = true
	walk.fetches++

	body, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}

	switch root.Tag {
	case "sitemapindex":
		children := childLocations(root, "sitemap")
		// Prefer the product sitemaps, but fall back to walking everything
		// when the index does not use Shopify's naming.
		var productChildren []string
		for _, child := range children {
			if strings.Contains(child, "sitemap_products") {
				productChildren = append(productChildren, child)
			}
		}
		if len(productChildren) > 0 {
			children = productChildren
		}
		for _, child := range children {
			if err := s.walkSitemap(ctx, child, walk); err != nil {
				return err
			}
		}
	case "urlset":
		for _, loc := range childLocations(root, "url") {
			if !isProductURL(loc) || walk.seenURL[loc] {
				continue
			}
			walk.seenURL[loc] = true
			walk.products = append(walk.products, loc)
		}
	}

	return nil
}

// childLocations extracts the <loc> text of each child element with the
// given tag.
func childLocations(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if text := strings.TrimSpace(loc.Text()); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func isProductURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, "/products/")
}
