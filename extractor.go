package storelens

import "context"

// ProductExtractor recovers products from raw storefront markup.
// Implementations run a cascade of independent strategies and merge the
// candidate sets; a page with no recognizable products yields an empty
// slice, never an error.
type ProductExtractor interface {
	ExtractProducts(html string, baseURL string) ([]*Product, error)
}

// SingleProductExtractor treats a page as being about exactly one
// product. When the extraction cascade yields several candidates, the one
// matching the page's primary structured-data block is the subject; pages
// without structured data fall back to the first field-rich candidate.
type SingleProductExtractor interface {
	// ExtractProduct returns the page's subject product, or nil when the
	// page has no recognizable product.
	ExtractProduct(html string, baseURL string) (*Product, error)
}

// HeroProductExtractor recovers prominently surfaced products from
// homepage/landing markup, scored by prominence. Output is ordered by
// score descending with document-order ties.
type HeroProductExtractor interface {
	ExtractHeroProducts(html string, baseURL string) ([]*HeroProduct, error)
}

// PolicyExtractor discovers policy links on a page and classifies them
// into typed stubs. At most one stub per policy type is returned.
type PolicyExtractor interface {
	ExtractPolicies(html string, baseURL string) ([]*Policy, error)
}

// BrandProfile is the non-product surface of a storefront recovered from
// its homepage.
type BrandProfile struct {
	Name           string
	Description    string
	LogoURL        string
	Socials        SocialHandles
	Contacts       ContactDetails
	FAQs           []*FAQ
	Links          ImportantLinks
	Currencies     []string
	PaymentMethods []string
}

// BrandProfileExtractor recovers the brand profile (identity, socials,
// contacts, FAQs, important links, currencies, payment methods) from
// homepage markup.
type BrandProfileExtractor interface {
	ExtractProfile(html string, baseURL string) (*BrandProfile, error)
}

// ContentExtractor extracts the main content region of a page, with
// navigation/footer boilerplate removed.
type ContentExtractor interface {
	// Extract returns the page title and the main content as clean HTML.
	Extract(html string) (title string, contentHTML string, err error)
}

// Converter converts clean content HTML into readable text.
type Converter interface {
	Convert(html string) (string, error)
}

// Platform identifies an e-commerce platform.
type Platform string

// Detected platforms. Only Shopify conventions are supported; everything
// else is Unknown.
const (
	PlatformUnknown Platform = ""
	PlatformShopify Platform = "shopify"
)

// Detection is the outcome of platform validation for one page.
type Detection struct {
	Platform Platform
	// Evidence lists the matched fingerprints, strongest first.
	Evidence []string
}

// PlatformDetector performs heuristic platform validation from page
// markup, the page URL, and response headers. Ambiguous signals resolve
// conservatively to PlatformUnknown.
type PlatformDetector interface {
	Detect(html string, pageURL string, headers map[string]string) Detection
}

// CatalogService loads the full product catalog for a storefront through
// the platform's JSON endpoints.
type CatalogService interface {
	// LoadCatalog pages through /products.json and returns the catalog.
	// Returns an empty slice when the endpoint is unavailable.
	LoadCatalog(ctx context.Context, baseURL string) ([]*Product, error)
}

// SitemapService discovers product page URLs from a site's sitemap.
type SitemapService interface {
	// DiscoverProductURLs finds /products/ URLs via robots.txt sitemap
	// directives, falling back to /sitemap.xml. Sitemap indexes are
	// resolved recursively. Returns an empty slice when no sitemap exists.
	DiscoverProductURLs(ctx context.Context, baseURL string) ([]string, error)
}
