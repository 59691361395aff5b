package goquery

import (
	"net/url"
	"strings"

	"github.com/storelens/storelens"
)

// Detector identifies the e-commerce platform behind a page from markup,
// URL, and response-header fingerprints.
//
// Signals are split into strong and weak tiers. Strong signals are
// effectively unique to Shopify (its CDN hosts, runtime globals, response
// headers). Weak signals are conventions other platforms occasionally
// imitate, so a single weak signal never validates a site.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

var _ storelens.PlatformDetector = (*Detector)(nil)

// strongContentSignals are markup fragments unique to Shopify storefronts.
var strongContentSignals = []struct {
	fragment string
	evidence string
}{
	{"cdn.shopify.com", "asset host cdn.shopify.com"},
	{"shopify.theme", "Shopify.theme runtime global"},
	{"shopify.shop", "Shopify.shop runtime global"},
	{".myshopify.com", "myshopify.com reference"},
}

// weakContentSignals are Shopify conventions that occasionally show up
// elsewhere.
var weakContentSignals = []struct {
	fragment string
	evidence string
}{
	{"shopify-section", "shopify-section markup"},
	{"shopify-features", "shopify-features script"},
	{"shopify-analytics", "shopify-analytics beacon"},
	{"shopifycdn.com", "shopifycdn.com asset"},
	{"/cdn/shop/", "/cdn/shop/ asset path"},
	{"shopify-payment-button", "shopify payment button"},
}

// shopifyHeaders are response headers only Shopify's edge emits.
var shopifyHeaders = []string{
	"x-shopify-stage",
	"x-shopid",
	"x-sorting-hat-podid",
	"x-sorting-hat-shopid",
	"x-shardid",
}

// Detect classifies the page. A site validates as Shopify on at least one
// strong signal or at least two distinct weak signals; anything less stays
// Unknown. Evidence is returned strongest first.
func (d *Detector) Detect(html string, pageURL string, headers map[string]string) storelens.Detection {
	var strong, weak []string

	if u, err := url.Parse(pageURL); err == nil {
		if strings.HasSuffix(strings.ToLower(u.Host), ".myshopify.com") {
			strong = append(strong, "myshopify.com host")
		}
	}

	for name := range headers {
		lower := strings.ToLower(name)
		for _, h := range shopifyHeaders {
			if lower == h {
				strong = append(strong, "response header "+name)
			}
		}
		if lower == "powered-by" || lower == "x-powered-by" {
			if strings.Contains(strings.ToLower(headers[name]), "shopify") {
				strong = append(strong, "powered-by header")
			}
		}
	}

	lower := strings.ToLower(html)
	for _, sig := range strongContentSignals {
		if strings.Contains(lower, sig.fragment) {
			strong = append(strong, sig.evidence)
		}
	}
	for _, sig := range weakContentSignals {
		if strings.Contains(lower, sig.fragment) {
			weak = append(weak, sig.evidence)
		}
	}

	if len(strong) == 0 && len(weak) < 2 {
		return storelens.Detection{Platform: storelens.PlatformUnknown, Evidence: weak}
	}

	return storelens.Detection{
		Platform: storelens.PlatformShopify,
		Evidence: append(strong, weak...),
	}
}
