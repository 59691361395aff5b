package goquery

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/storelens/storelens"
)

// heroRegion is a landing-page region with a placement label and a base
// prominence weight.
type heroRegion struct {
	selector  string
	placement storelens.Placement
	weight    float64
}

// heroRegions lists the regions scanned for hero products. Above-the-fold
// regions outrank carousels, which outrank featured grids further down the
// page.
var heroRegions = []heroRegion{
	{".hero, .hero-section, .hero-banner, [data-section-type='hero'], [data-section-type='slideshow']", storelens.PlacementHero, 40},
	{".banner, .promo-banner, .main-banner", storelens.PlacementBanner, 35},
	{".carousel, .slider, .product-slider, .slideshow, .swiper-container, [data-slick], [data-carousel]", storelens.PlacementCarousel, 25},
	{".featured-products, .featured-collection, [data-section-type='featured-products'], [data-section-type='featured-collection'], .best-sellers, .trending-products", storelens.PlacementFeaturedGrid, 15},
}

// allHeroRegionSelectors joins every region selector for a single
// document-order traversal.
func allHeroRegionSelectors() string {
	selectors := make([]string, 0, len(heroRegions))
	for _, region := range heroRegions {
		selectors = append(selectors, region.selector)
	}
	return strings.Join(selectors, ", ")
}

// regionFor resolves a matched element back to its region entry. The list
// is ordered most-prominent-first, so an element matching several region
// selectors takes the highest weight.
func regionFor(sel *goquery.Selection) heroRegion {
	for _, region := range heroRegions {
		if sel.Is(region.selector) {
			return region
		}
	}
	return heroRegions[len(heroRegions)-1]
}

// HeroProductExtractor recovers products prominently surfaced on landing
// pages, scored by how the page presents them.
type HeroProductExtractor struct{}

// NewHeroProductExtractor creates a new HeroProductExtractor.
func NewHeroProductExtractor() *HeroProductExtractor {
	return &HeroProductExtractor{}
}

var _ storelens.HeroProductExtractor = (*HeroProductExtractor)(nil)

// ExtractHeroProducts scans the known hero regions, scores each product
// found there, and returns the deduplicated list ordered by score
// descending. Products sharing a score keep document order. A slide
// repeated in a looping carousel collapses to one hero product.
func (e *HeroProductExtractor) ExtractHeroProducts(html string, baseURL string) ([]*storelens.HeroProduct, error) {
	doc, err := ParseDocument(html, baseURL)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		hero  *storelens.HeroProduct
		order int
	}

	index := make(map[string]int)
	var candidates []*candidate
	order := 0

	// A single combined pass keeps candidate order aligned with document
	// order, so score ties between different region types resolve the same
	// way ties within one region do.
	doc.Find(allHeroRegionSelectors()).Each(func(_ int, regionSel *goquery.Selection) {
		region := regionFor(regionSel)
		collectHeroItems(doc, regionSel, func(item *goquery.Selection, p *storelens.Product) {
			if p.Key == "" {
				p.Key = storelens.ProductKey(p.URL, p.Title)
			}
			if p.Key == "" {
				return
			}

			hero := &storelens.HeroProduct{
				Product:   *p,
				Score:     region.weight + labelBonus(item) + imageBonus(item),
				Placement: region.placement,
			}

			if i, ok := index[p.Key]; ok {
				existing := candidates[i]
				if hero.Score > existing.hero.Score {
					hero.Product.Merge(&existing.hero.Product)
					candidates[i] = &candidate{hero: hero, order: existing.order}
				} else {
					existing.hero.Product.Merge(p)
				}
				return
			}

			index[p.Key] = len(candidates)
			candidates = append(candidates, &candidate{hero: hero, order: order})
			order++
		})
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].hero.Score != candidates[j].hero.Score {
			return candidates[i].hero.Score > candidates[j].hero.Score
		}
		return candidates[i].order < candidates[j].order
	})

	out := make([]*storelens.HeroProduct, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.hero)
	}
	return out, nil
}

// collectHeroItems walks product items inside a hero region. When the
// region has no recognizable item markup, the region itself is tried as a
// single product.
func collectHeroItems(doc *Document, region *goquery.Selection, visit func(*goquery.Selection, *storelens.Product)) {
	items := region.Find(gridItemSelectors + ", .slide, .swiper-slide, li.grid__item")
	if items.Length() == 0 {
		if p := productFromElement(doc, region, storelens.SourceSection); p != nil {
			visit(region, p)
		}
		return
	}

	items.Each(func(_ int, item *goquery.Selection) {
		if p := productFromElement(doc, item, storelens.SourceSection); p != nil {
			visit(item, p)
		}
	})
}

// labelBonus rewards explicit merchandising labels on the item itself.
func labelBonus(sel *goquery.Selection) float64 {
	text := strings.ToLower(sel.Text() + " " + attrOr(sel, "class"))
	if strings.Contains(text, "featured") ||
		strings.Contains(text, "best seller") ||
		strings.Contains(text, "bestseller") ||
		strings.Contains(text, "best-seller") {
		return 10
	}
	return 0
}

// imageBonus rewards large imagery, a weak but useful prominence signal
// when declared dimensions are present.
func imageBonus(sel *goquery.Selection) float64 {
	img := sel.Find("img").First()
	if img.Length() == 0 {
		return 0
	}
	w, _ := strconv.Atoi(attrOr(img, "width"))
	h, _ := strconv.Atoi(attrOr(img, "height"))
	switch area := w * h; {
	case area >= 360000:
		return 10
	case area >= 90000:
		return 5
	}
	return 0
}
