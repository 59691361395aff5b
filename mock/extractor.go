package mock

import (
	"context"

	"github.com/storelens/storelens"
)

var _ storelens.ProductExtractor = (*ProductExtractor)(nil)

// ProductExtractor is a mock implementation of storelens.ProductExtractor.
type ProductExtractor struct {
	ExtractProductsFn func(html string, baseURL string) ([]*storelens.Product, error)
}

func (e *ProductExtractor) ExtractProducts(html string, baseURL string) ([]*storelens.Product, error) {
	return e.ExtractProductsFn(html, baseURL)
}

var _ storelens.SingleProductExtractor = (*SingleProductExtractor)(nil)

// SingleProductExtractor is a mock implementation of
// storelens.SingleProductExtractor.
type SingleProductExtractor struct {
	ExtractProductFn func(html string, baseURL string) (*storelens.Product, error)
}

func (e *SingleProductExtractor) ExtractProduct(html string, baseURL string) (*storelens.Product, error) {
	return e.ExtractProductFn(html, baseURL)
}

var _ storelens.HeroProductExtractor = (*HeroProductExtractor)(nil)

// HeroProductExtractor is a mock implementation of storelens.HeroProductExtractor.
type HeroProductExtractor struct {
	ExtractHeroProductsFn func(html string, baseURL string) ([]*storelens.HeroProduct, error)
}

func (e *HeroProductExtractor) ExtractHeroProducts(html string, baseURL string) ([]*storelens.HeroProduct, error) {
	return e.ExtractHeroProductsFn(html, baseURL)
}

var _ storelens.PolicyExtractor = (*PolicyExtractor)(nil)

// PolicyExtractor is a mock implementation of storelens.PolicyExtractor.
type PolicyExtractor struct {
	ExtractPoliciesFn func(html string, baseURL string) ([]*storelens.Policy, error)
}

func (e *PolicyExtractor) ExtractPolicies(html string, baseURL string) ([]*storelens.Policy, error) {
	return e.ExtractPoliciesFn(html, baseURL)
}

var _ storelens.BrandProfileExtractor = (*BrandProfileExtractor)(nil)

// BrandProfileExtractor is a mock implementation of storelens.BrandProfileExtractor.
type BrandProfileExtractor struct {
	ExtractProfileFn func(html string, baseURL string) (*storelens.BrandProfile, error)
}

func (e *BrandProfileExtractor) ExtractProfile(html string, baseURL string) (*storelens.BrandProfile, error) {
	return e.ExtractProfileFn(html, baseURL)
}

var _ storelens.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of storelens.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (string, string, error)
}

func (e *ContentExtractor) Extract(html string) (string, string, error) {
	return e.ExtractFn(html)
}

var _ storelens.Converter = (*Converter)(nil)

// Converter is a mock implementation of storelens.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ storelens.PlatformDetector = (*PlatformDetector)(nil)

// PlatformDetector is a mock implementation of storelens.PlatformDetector.
type PlatformDetector struct {
	DetectFn func(html string, pageURL string, headers map[string]string) storelens.Detection
}

func (d *PlatformDetector) Detect(html string, pageURL string, headers map[string]string) storelens.Detection {
	return d.DetectFn(html, pageURL, headers)
}

var _ storelens.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of storelens.CatalogService.
type CatalogService struct {
	LoadCatalogFn func(ctx context.Context, baseURL string) ([]*storelens.Product, error)
}

func (s *CatalogService) LoadCatalog(ctx context.Context, baseURL string) ([]*storelens.Product, error) {
	return s.LoadCatalogFn(ctx, baseURL)
}

var _ storelens.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of storelens.SitemapService.
type SitemapService struct {
	DiscoverProductURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverProductURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverProductURLsFn(ctx, baseURL)
}
