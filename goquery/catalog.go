package goquery

import (
	"github.com/storelens/storelens"
)

// DefaultMaxCatalogProducts caps a catalog extraction, reflecting typical
// single-page catalog sizes.
const DefaultMaxCatalogProducts = 100

// CatalogExtractor bounds the product cascade for catalog-sized pages:
// the same strategies as ProductExtractor, with pagination-stub skipping
// and an output cap. It satisfies the ProductExtractor contract so callers
// can swap it in wherever a bounded catalog is wanted.
type CatalogExtractor struct {
	// MaxProducts caps the extracted catalog. Zero means
	// DefaultMaxCatalogProducts.
	MaxProducts int

	products ProductExtractor
}

// NewCatalogExtractor creates a new CatalogExtractor with the default cap.
func NewCatalogExtractor() *CatalogExtractor {
	return &CatalogExtractor{}
}

var _ storelens.ProductExtractor = (*CatalogExtractor)(nil)

// ExtractProducts runs the cascade and truncates the merged result to the
// configured maximum, keeping insertion order so higher-signal strategies
// survive the cut.
func (e *CatalogExtractor) ExtractProducts(html string, baseURL string) ([]*storelens.Product, error) {
	products, err := e.products.ExtractProducts(html, baseURL)
	if err != nil {
		return nil, err
	}

	max := e.MaxProducts
	if max <= 0 {
		max = DefaultMaxCatalogProducts
	}
	if len(products) > max {
		products = products[:max]
	}
	return products, nil
}
