package storelens

import (
	"net/url"
	"strings"
)

// Availability is the tri-state stock status of a product.
type Availability string

// Availability states. Unknown is used when no signal was found, never
// guessed from absence alone.
const (
	AvailabilityUnknown    Availability = ""
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
)

// SourceSignal identifies the extraction strategy that produced a product.
// It is used for scoring and debugging, never for identity.
type SourceSignal string

// Extraction strategies, roughly ordered by reliability.
const (
	SourceStructuredData SourceSignal = "structured-data"
	SourceProductsJSON   SourceSignal = "products-json"
	SourceGrid           SourceSignal = "grid"
	SourceSection        SourceSignal = "section"
	SourceCollection     SourceSignal = "collection"
	SourceLink           SourceSignal = "link"
)

// Money is a monetary amount with its currency code. The amount is kept as
// the string found on the page; storefronts format prices inconsistently
// and lossy float conversion helps nobody downstream.
type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Product represents a single storefront product recovered by extraction.
// A Product is immutable once emitted by an extractor; deduplication
// happens by merging candidates in a ProductSet, not by mutating emitted
// values in place.
type Product struct {
	Key            string       `json:"key"`
	Title          string       `json:"title"`
	Price          *Money       `json:"price,omitempty"`
	CompareAtPrice *Money       `json:"compareAtPrice,omitempty"`
	Availability   Availability `json:"availability,omitempty"`
	Images         []string     `json:"images,omitempty"`
	URL            string       `json:"url,omitempty"`
	Description    string       `json:"description,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Source         SourceSignal `json:"source,omitempty"`
}

// ProductKey derives the identity key for a product. The canonical
// /products/<handle> URL path wins when present since it is unique within
// one storefront; otherwise the normalized title is used. Returns an empty
// key when neither is available.
func ProductKey(rawURL, title string) string {
	if rawURL != "" {
		if u, err := url.Parse(rawURL); err == nil {
			path := strings.TrimSuffix(u.Path, "/")
			if i := strings.Index(path, "/products/"); i != -1 {
				handle := path[i+len("/products/"):]
				if handle != "" {
					return "/products/" + strings.ToLower(handle)
				}
			}
			if path != "" && path != "/" {
				return strings.ToLower(path)
			}
		}
	}
	return strings.ToLower(strings.TrimSpace(title))
}

// Richness counts the populated optional fields of a product. Used to pick
// the better of two candidates sharing an identity key.
func (p *Product) Richness() int {
	n := 0
	if p.Price != nil {
		n++
	}
	if p.CompareAtPrice != nil {
		n++
	}
	if p.Availability != AvailabilityUnknown {
		n++
	}
	if len(p.Images) > 0 {
		n++
	}
	if p.URL != "" {
		n++
	}
	if p.Description != "" {
		n++
	}
	if len(p.Tags) > 0 {
		n++
	}
	return n
}

// Merge fills each unpopulated field of p from other. Populated fields are
// never overwritten, so merging a field-poor duplicate into a field-rich
// candidate is lossless in both directions.
func (p *Product) Merge(other *Product) {
	if other == nil {
		return
	}
	if p.Title == "" {
		p.Title = other.Title
	}
	if p.Price == nil {
		p.Price = other.Price
	}
	if p.CompareAtPrice == nil {
		p.CompareAtPrice = other.CompareAtPrice
	}
	if p.Availability == AvailabilityUnknown {
		p.Availability = other.Availability
	}
	if len(p.Images) == 0 {
		p.Images = other.Images
	}
	if p.URL == "" {
		p.URL = other.URL
	}
	if p.Description == "" {
		p.Description = other.Description
	}
	if len(p.Tags) == 0 {
		p.Tags = other.Tags
	}
}

// ProductSet is a per-run deduplication arena: an insertion-ordered map
// from identity key to product. Candidates sharing a key are merged
// field-wise so the result carries the union of populated fields. A
// ProductSet is scoped to one extraction run and never shared across runs.
type ProductSet struct {
	index    map[string]int
	products []*Product
}

// NewProductSet returns an empty ProductSet.
func NewProductSet() *ProductSet {
	return &ProductSet{index: make(map[string]int)}
}

// Add inserts a candidate into the set. Candidates without a derivable key
// are dropped. Returns true if the candidate was new, false if it was
// merged into an existing product or dropped.
func (s *ProductSet) Add(p *Product) bool {
	if p == nil {
		return false
	}
	if p.Key == "" {
		p.Key = ProductKey(p.URL, p.Title)
	}
	if p.Key == "" {
		return false
	}
	if i, ok := s.index[p.Key]; ok {
		existing := s.products[i]
		if p.Richness() > existing.Richness() {
			// The richer candidate becomes the base, keeping the union.
			p.Merge(existing)
			s.products[i] = p
		} else {
			existing.Merge(p)
		}
		return false
	}
	s.index[p.Key] = len(s.products)
	s.products = append(s.products, p)
	return true
}

// AddAll inserts every candidate in order.
func (s *ProductSet) AddAll(products []*Product) {
	for _, p := range products {
		s.Add(p)
	}
}

// Products returns the deduplicated products in insertion order.
func (s *ProductSet) Products() []*Product {
	out := make([]*Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len returns the number of unique products in the set.
func (s *ProductSet) Len() int {
	return len(s.products)
}

// Placement tags where on the page a hero product was found.
type Placement string

// Hero placement regions.
const (
	PlacementUnknown      Placement = ""
	PlacementHero         Placement = "hero"
	PlacementBanner       Placement = "banner"
	PlacementCarousel     Placement = "carousel"
	PlacementFeaturedGrid Placement = "featured-grid"
)

// HeroProduct is a product prominently surfaced on a landing page, with a
// relevance score and the region it was found in. Identity still resolves
// to the same product key, so a product appearing both in the catalog and
// as a hero reconciles to one entity.
type HeroProduct struct {
	Product
	Score     float64   `json:"score"`
	Placement Placement `json:"placement"`
}
