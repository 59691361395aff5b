package http

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/storelens/storelens"
)

const (
	// catalogPageSize is the page size Shopify serves for products.json.
	catalogPageSize = 50

	// maxCatalogPages bounds the pagination walk on very large catalogs.
	maxCatalogPages = 20
)

// Ensure CatalogService implements storelens.CatalogService.
var _ storelens.CatalogService = (*CatalogService)(nil)

// CatalogService loads storefront catalogs through Shopify's public
// /products.json endpoint, paging until the catalog is exhausted.
type CatalogService struct {
	fetcher storelens.Fetcher
}

// NewCatalogService creates a CatalogService on top of the given fetcher.
func NewCatalogService(fetcher storelens.Fetcher) *CatalogService {
	return &CatalogService{fetcher: fetcher}
}

// catalogPage mirrors the products.json payload shape.
type catalogPage struct {
	Products []catalogProduct `json:"products"`
}

type catalogProduct struct {
	Title    string           `json:"title"`
	Handle   string           `json:"handle"`
	BodyHTML string           `json:"body_html"`
	Tags     json.RawMessage  `json:"tags"`
	Variants []catalogVariant `json:"variants"`
	Images   []catalogImage   `json:"images"`
}

type catalogVariant struct {
	Price          string `json:"price"`
	CompareAtPrice string `json:"compare_at_price"`
	Available      bool   `json:"available"`
}

type catalogImage struct {
	Src string `json:"src"`
}

// LoadCatalog pages through /products.json and returns the full catalog.
// A storefront without the endpoint yields an empty slice; a failure after
// the first page returns the products collected so far.
func (s *CatalogService) LoadCatalog(ctx context.Context, baseURL string) ([]*storelens.Product, error) {
	base := strings.TrimSuffix(baseURL, "/")

	var out []*storelens.Product
	for page := 1; page <= maxCatalogPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := base + "/products.json?limit=50&page=" + strconv.Itoa(page)
		body, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			break
		}

		var decoded catalogPage
		if err := json.Unmarshal([]byte(body), &decoded); err != nil {
			break
		}
		if len(decoded.Products) == 0 {
			break
		}

		for _, cp := range decoded.Products {
			if p := cp.toProduct(base); p != nil {
				out = append(out, p)
			}
		}

		if len(decoded.Products) < catalogPageSize {
			break
		}
	}

	if out == nil {
		out = []*storelens.Product{}
	}
	return out, nil
}

func (cp *catalogProduct) toProduct(base string) *storelens.Product {
	if cp.Handle == "" && cp.Title == "" {
		return nil
	}

	p := &storelens.Product{
		Title:       cp.Title,
		Description: stripHTML(cp.BodyHTML),
		Tags:        decodeTags(cp.Tags),
		Source:      storelens.SourceProductsJSON,
	}
	if cp.Handle != "" {
		p.Key = "/products/" + strings.ToLower(cp.Handle)
		p.URL = base + "/products/" + cp.Handle
	}

	for _, v := range cp.Variants {
		if p.Price == nil && v.Price != "" {
			p.Price = &storelens.Money{Amount: v.Price}
		}
		if p.CompareAtPrice == nil && v.CompareAtPrice != "" {
			p.CompareAtPrice = &storelens.Money{Amount: v.CompareAtPrice}
		}
		if v.Available {
			p.Availability = storelens.AvailabilityInStock
		}
	}
	if p.Availability == storelens.AvailabilityUnknown && len(cp.Variants) > 0 {
		p.Availability = storelens.AvailabilityOutOfStock
	}

	for _, img := range cp.Images {
		if img.Src != "" {
			p.Images = append(p.Images, img.Src)
		}
	}

	return p
}

// decodeTags handles both tag encodings Shopify uses: a JSON array on the
// storefront endpoint and a comma-separated string elsewhere.
func decodeTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil
	}
	var out []string
	for _, tag := range strings.Split(joined, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// stripHTML reduces body_html to plain text.
func stripHTML(html string) string {
	return strings.Join(strings.Fields(tagRe.ReplaceAllString(html, " ")), " ")
}

