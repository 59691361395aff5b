package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/storelens/storelens"
)

// Selector groups for the extraction cascade. Each strategy runs
// independently; the cascade merges candidates by identity key so overlap
// between strategies enriches rather than duplicates.
const (
	gridItemSelectors = ".product-grid .product-item, .products-grid .product, " +
		".product-card, .product-tile, .grid-product, [data-product-item], " +
		".grid__item .product-item"

	sectionSelectors = "[data-section-type*='product'], [data-section-type*='collection'], " +
		".shopify-section .product-list, .shopify-section .collection-grid"

	collectionItemSelectors = ".collection .product, .collection-products .product-item, " +
		"#CollectionProductGrid .grid__item, .collection-grid .product-card"

	titleSelectors = ".product-title, .product-item__title, .product-card__title, " +
		".card__heading, .product-name, .grid-product__title, h2, h3"

	priceSelectors = ".price-item--regular, .product-price, .price__regular, " +
		".price, .money, [data-price]"

	compareAtSelectors = ".compare-at-price, .price__compare, .price-item--compare, " +
		".was-price, s, del"

	// Placeholder items inside lazy-load or pagination containers repeat
	// products already on the page and carry no data of their own.
	paginationContainers = ".pagination, .load-more, [data-load-more], [data-infinite-scroll]"
)

// ProductExtractor recovers products from storefront HTML by running a
// cascade of independent strategies: JSON-LD structured data, product grid
// markup, Shopify section markup, collection page markup, and bare product
// links. Results are merged by identity key.
type ProductExtractor struct{}

// NewProductExtractor creates a new ProductExtractor.
func NewProductExtractor() *ProductExtractor {
	return &ProductExtractor{}
}

var _ storelens.ProductExtractor = (*ProductExtractor)(nil)

// ExtractProducts runs every strategy against the page and returns the
// deduplicated union. A page with no recognizable products yields an empty
// slice.
func (e *ProductExtractor) ExtractProducts(html string, baseURL string) ([]*storelens.Product, error) {
	doc, err := ParseDocument(html, baseURL)
	if err != nil {
		return nil, err
	}

	set := storelens.NewProductSet()
	set.AddAll(productsFromStructuredData(doc))
	set.AddAll(productsFromItems(doc, gridItemSelectors, storelens.SourceGrid))
	set.AddAll(productsFromSections(doc))
	set.AddAll(productsFromItems(doc, collectionItemSelectors, storelens.SourceCollection))
	set.AddAll(productsFromLinks(doc))

	return set.Products(), nil
}

// productsFromStructuredData decodes schema.org Product and ItemList
// entities from JSON-LD blocks.
func productsFromStructuredData(doc *Document) []*storelens.Product {
	var out []*storelens.Product

	for _, block := range doc.StructuredData() {
		switch {
		case hasType(block, "Product"):
			if p := productFromSchema(doc, block); p != nil {
				out = append(out, p)
			}
		case hasType(block, "ItemList"):
			elements, _ := block["itemListElement"].([]any)
			for _, el := range elements {
				entry, ok := el.(map[string]any)
				if !ok {
					continue
				}
				item, ok := entry["item"].(map[string]any)
				if !ok {
					item = entry
				}
				if !hasType(item, "Product") {
					continue
				}
				if p := productFromSchema(doc, item); p != nil {
					out = append(out, p)
				}
			}
		}
	}

	return out
}

// hasType reports whether a JSON-LD block declares the given @type. The
// field may be a string or a list of strings.
func hasType(block map[string]any, typ string) bool {
	switch v := block["@type"].(type) {
	case string:
		return strings.EqualFold(v, typ)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, typ) {
				return true
			}
		}
	}
	return false
}

func productFromSchema(doc *Document, block map[string]any) *storelens.Product {
	p := &storelens.Product{
		Title:       schemaString(block["name"]),
		Description: normalizeText(schemaString(block["description"])),
		URL:         doc.ResolveURL(schemaString(block["url"])),
		Images:      schemaImages(doc, block["image"]),
		Source:      storelens.SourceStructuredData,
	}

	if offer := schemaOffer(block["offers"]); offer != nil {
		if price := schemaString(offer["price"]); price != "" {
			p.Price = &storelens.Money{
				Amount:   price,
				Currency: schemaString(offer["priceCurrency"]),
			}
		}
		switch availability := strings.ToLower(schemaString(offer["availability"])); {
		case strings.Contains(availability, "instock"):
			p.Availability = storelens.AvailabilityInStock
		case strings.Contains(availability, "outofstock"), strings.Contains(availability, "soldout"):
			p.Availability = storelens.AvailabilityOutOfStock
		}
	}

	if p.Title == "" && p.URL == "" {
		return nil
	}
	return p
}

func schemaString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

func schemaImages(doc *Document, v any) []string {
	var out []string
	add := func(raw string) {
		if resolved := doc.ResolveURL(raw); resolved != "" {
			out = append(out, resolved)
		}
	}
	switch img := v.(type) {
	case string:
		add(img)
	case []any:
		for _, item := range img {
			switch entry := item.(type) {
			case string:
				add(entry)
			case map[string]any:
				add(schemaString(entry["url"]))
			}
		}
	case map[string]any:
		add(schemaString(img["url"]))
	}
	return out
}

// schemaOffer normalizes the offers field, which may be a single offer, a
// list of offers, or an AggregateOffer.
func schemaOffer(v any) map[string]any {
	switch offer := v.(type) {
	case map[string]any:
		if low := schemaString(offer["lowPrice"]); low != "" {
			offer["price"] = low
		}
		return offer
	case []any:
		for _, item := range offer {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// productsFromItems extracts products from elements matching a product-item
// selector group, skipping placeholder items inside pagination containers.
func productsFromItems(doc *Document, selectors string, source storelens.SourceSignal) []*storelens.Product {
	var out []*storelens.Product
	doc.Find(selectors).Each(func(_ int, sel *goquery.Selection) {
		if sel.Closest(paginationContainers).Length() > 0 {
			return
		}
		if p := productFromElement(doc, sel, source); p != nil {
			out = append(out, p)
		}
	})
	return out
}

// productsFromSections finds Shopify theme sections and extracts the
// product items they contain.
func productsFromSections(doc *Document) []*storelens.Product {
	var out []*storelens.Product
	doc.Find(sectionSelectors).Each(func(_ int, section *goquery.Selection) {
		section.Find(gridItemSelectors + ", li.grid__item, .product").Each(func(_ int, sel *goquery.Selection) {
			if p := productFromElement(doc, sel, storelens.SourceSection); p != nil {
				out = append(out, p)
			}
		})
	})
	return out
}

// productsFromLinks is the lowest-signal strategy: any anchor pointing at a
// canonical product path. It recovers identity and title only, which the
// merge fills in from richer strategies when they saw the same product.
func productsFromLinks(doc *Document) []*storelens.Product {
	var out []*storelens.Product
	doc.Find("a[href*='/products/']").Each(func(_ int, sel *goquery.Selection) {
		if sel.Closest(paginationContainers).Length() > 0 {
			return
		}
		href := attrOr(sel, "href")
		resolved := doc.ResolveURL(href)
		if resolved == "" {
			return
		}

		title := selectionText(sel)
		if title == "" {
			title = attrOr(sel.Find("img").First(), "alt")
		}

		out = append(out, &storelens.Product{
			Title:  title,
			URL:    resolved,
			Source: storelens.SourceLink,
		})
	})
	return out
}

// productFromElement extracts one product from a product-item element.
func productFromElement(doc *Document, sel *goquery.Selection, source storelens.SourceSignal) *storelens.Product {
	link := sel.Find("a[href*='/products/']").First()
	if link.Length() == 0 {
		link = sel.Find("a[href]").First()
	}
	rawURL := doc.ResolveURL(attrOr(link, "href"))

	title := firstText(sel, strings.Split(titleSelectors, ", ")...)
	if title == "" {
		title = attrOr(sel.Find("img").First(), "alt")
	}
	if title == "" {
		title = selectionText(link)
	}
	if title == "" && rawURL == "" {
		return nil
	}

	p := &storelens.Product{
		Title:  title,
		URL:    rawURL,
		Source: source,
	}

	if price := firstText(sel, strings.Split(priceSelectors, ", ")...); price != "" {
		p.Price = parseMoney(price)
	}
	if compare := firstText(sel, strings.Split(compareAtSelectors, ", ")...); compare != "" {
		p.CompareAtPrice = parseMoney(compare)
	}

	if img := attrOr(sel.Find("img").First(), "data-src", "data-original", "src"); img != "" {
		if resolved := doc.ResolveURL(img); resolved != "" {
			p.Images = []string{resolved}
		}
	}

	p.Availability = availabilityFromText(strings.ToLower(sel.Text()))

	return p
}

var (
	priceAmountRe = regexp.MustCompile(`[0-9][0-9.,]*[0-9]|[0-9]`)
	currencyISORe = regexp.MustCompile(`\b(USD|EUR|GBP|CAD|AUD|JPY|INR|SEK|PLN|NZD)\b`)
)

var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₹", "INR"},
	{"$", "USD"},
}

// parseMoney parses a displayed price string into an amount and a currency
// code. The amount keeps the page's formatting; only the surrounding label
// text is trimmed away. Returns nil when no numeric amount is present.
func parseMoney(text string) *storelens.Money {
	amount := priceAmountRe.FindString(text)
	if amount == "" {
		return nil
	}

	m := &storelens.Money{Amount: amount}
	if iso := currencyISORe.FindString(strings.ToUpper(text)); iso != "" {
		m.Currency = iso
		return m
	}
	for _, cs := range currencySymbols {
		if strings.Contains(text, cs.symbol) {
			m.Currency = cs.code
			break
		}
	}
	return m
}

// availabilityFromText infers stock status from badge and button text.
// Absence of a signal stays Unknown, it is never guessed.
func availabilityFromText(text string) storelens.Availability {
	switch {
	case strings.Contains(text, "sold out"),
		strings.Contains(text, "out of stock"),
		strings.Contains(text, "unavailable"):
		return storelens.AvailabilityOutOfStock
	case strings.Contains(text, "add to cart"),
		strings.Contains(text, "in stock"),
		strings.Contains(text, "buy now"):
		return storelens.AvailabilityInStock
	}
	return storelens.AvailabilityUnknown
}
