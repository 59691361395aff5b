package goquery

import (
	"github.com/storelens/storelens"
)

// SingleProductExtractor recovers the product a product page is about.
// The full cascade still runs so the subject is enriched by every strategy
// that saw it, but related-product and recommendation sections on the same
// page never produce extra products.
type SingleProductExtractor struct{}

// NewSingleProductExtractor creates a new SingleProductExtractor.
func NewSingleProductExtractor() *SingleProductExtractor {
	return &SingleProductExtractor{}
}

var _ storelens.SingleProductExtractor = (*SingleProductExtractor)(nil)

// ExtractProduct runs the cascade and selects the page subject: the
// product described by the page's primary structured-data block when one
// exists, otherwise the first field-rich candidate in document order.
// Returns nil when the page yields no candidates.
func (e *SingleProductExtractor) ExtractProduct(html string, baseURL string) (*storelens.Product, error) {
	doc, err := ParseDocument(html, baseURL)
	if err != nil {
		return nil, err
	}

	primary := productsFromStructuredData(doc)

	set := storelens.NewProductSet()
	set.AddAll(primary)
	set.AddAll(productsFromItems(doc, gridItemSelectors, storelens.SourceGrid))
	set.AddAll(productsFromSections(doc))
	set.AddAll(productsFromItems(doc, collectionItemSelectors, storelens.SourceCollection))
	set.AddAll(productsFromLinks(doc))

	candidates := set.Products()
	if len(candidates) == 0 {
		return nil, nil
	}

	// The first structured-data block is the page's self-description;
	// later blocks typically describe recommendation widgets.
	if len(primary) > 0 && primary[0].Key != "" {
		for _, c := range candidates {
			if c.Key == primary[0].Key {
				return c, nil
			}
		}
	}

	subject := candidates[0]
	for _, c := range candidates[1:] {
		if c.Richness() > subject.Richness() {
			subject = c
		}
	}
	return subject, nil
}
