package insight_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/storelens/storelens"
	"github.com/storelens/storelens/goquery"
	"github.com/storelens/storelens/insight"
	"github.com/storelens/storelens/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newService wires a Service whose extractors return nothing, for tests
// that override only the parts they exercise.
func newService() *insight.Service {
	return &insight.Service{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html></html>", nil
			},
		},
		Products: &mock.ProductExtractor{
			ExtractProductsFn: func(html, baseURL string) ([]*storelens.Product, error) {
				return []*storelens.Product{}, nil
			},
		},
		Heroes: &mock.HeroProductExtractor{
			ExtractHeroProductsFn: func(html, baseURL string) ([]*storelens.HeroProduct, error) {
				return []*storelens.HeroProduct{}, nil
			},
		},
		Policies: &mock.PolicyExtractor{
			ExtractPoliciesFn: func(html, baseURL string) ([]*storelens.Policy, error) {
				return []*storelens.Policy{}, nil
			},
		},
		Profile: &mock.BrandProfileExtractor{
			ExtractProfileFn: func(html, baseURL string) (*storelens.BrandProfile, error) {
				return &storelens.BrandProfile{}, nil
			},
		},
	}
}

func TestService_ExtractInsights(t *testing.T) {
	t.Parallel()

	t.Run("merges extractor outputs into one result", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		svc.Profile = &mock.BrandProfileExtractor{
			ExtractProfileFn: func(html, baseURL string) (*storelens.BrandProfile, error) {
				return &storelens.BrandProfile{
					Name:           "Acme Outfitters",
					Socials:        storelens.SocialHandles{Instagram: "https://instagram.com/acme"},
					PaymentMethods: []string{"Visa"},
				}, nil
			},
		}
		svc.Heroes = &mock.HeroProductExtractor{
			ExtractHeroProductsFn: func(html, baseURL string) ([]*storelens.HeroProduct, error) {
				return []*storelens.HeroProduct{
					{Product: storelens.Product{Key: "/products/hero", Title: "Hero"}, Score: 40},
				}, nil
			},
		}
		svc.Policies = &mock.PolicyExtractor{
			ExtractPoliciesFn: func(html, baseURL string) ([]*storelens.Policy, error) {
				return []*storelens.Policy{
					{Type: storelens.PolicyPrivacy, URL: "https://acme.example.com/policies/privacy", Confidence: storelens.ConfidenceLinkOnly},
				}, nil
			},
		}
		svc.Catalog = &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context, baseURL string) ([]*storelens.Product, error) {
				return []*storelens.Product{
					{Key: "/products/one", Title: "One"},
					{Key: "/products/two", Title: "Two"},
				}, nil
			},
		}

		insights, err := svc.ExtractInsights(context.Background(), "acme.example.com")

		require.NoError(t, err)
		assert.Equal(t, "https://acme.example.com", insights.WebsiteURL)
		assert.Equal(t, "Acme Outfitters", insights.BrandName)
		assert.Equal(t, []string{"instagram"}, insights.Socials.Platforms())
		require.Len(t, insights.HeroProducts, 1)
		require.Len(t, insights.Policies, 1)
		assert.Len(t, insights.Catalog, 2)
		assert.Equal(t, 2, insights.TotalProducts)
		assert.False(t, insights.FetchedAt.IsZero())
	})

	t.Run("fails only when the homepage is unreachable", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		svc.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", storelens.Errorf(storelens.EUNAVAILABLE, "connection refused")
			},
		}

		_, err := svc.ExtractInsights(context.Background(), "https://down.example.com")

		require.Error(t, err)
		assert.Equal(t, storelens.EUNAVAILABLE, storelens.ErrorCode(err))
	})

	t.Run("tolerates a failing extractor", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		svc.Profile = &mock.BrandProfileExtractor{
			ExtractProfileFn: func(html, baseURL string) (*storelens.BrandProfile, error) {
				return nil, storelens.Errorf(storelens.EINTERNAL, "boom")
			},
		}

		insights, err := svc.ExtractInsights(context.Background(), "https://acme.example.com")

		require.NoError(t, err)
		assert.Empty(t, insights.BrandName)
	})

	t.Run("rejects an invalid brand URL", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		_, err := svc.ExtractInsights(context.Background(), "   ")

		require.Error(t, err)
		assert.Equal(t, storelens.EINVALID, storelens.ErrorCode(err))
	})

	t.Run("falls back to the sitemap walk when products.json is empty", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		fetched := make(map[string]bool)
		svc := newService()
		svc.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				mu.Lock()
				fetched[url] = true
				mu.Unlock()
				return "<html>" + url + "</html>", nil
			},
		}
		svc.Products = &mock.ProductExtractor{
			ExtractProductsFn: func(html, baseURL string) ([]*storelens.Product, error) {
				if baseURL == "https://acme.example.com" {
					return []*storelens.Product{}, nil
				}
				return []*storelens.Product{{Key: storelens.ProductKey(baseURL, ""), Title: baseURL, URL: baseURL}}, nil
			},
		}
		svc.Catalog = &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context, baseURL string) ([]*storelens.Product, error) {
				return []*storelens.Product{}, nil
			},
		}
		svc.Sitemaps = &mock.SitemapService{
			DiscoverProductURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
				return []string{
					"https://acme.example.com/products/alpha",
					"https://acme.example.com/products/beta",
					"https://acme.example.com/products/alpha",
				}, nil
			},
		}

		insights, err := svc.ExtractInsights(context.Background(), "https://acme.example.com")

		require.NoError(t, err)
		assert.Len(t, insights.Catalog, 2)
		assert.True(t, fetched["https://acme.example.com/products/alpha"])
		assert.True(t, fetched["https://acme.example.com/products/beta"])
	})

	t.Run("keeps recommendation widgets off walked product pages", func(t *testing.T) {
		t.Parallel()

		productPage := `<html><head>
			<script type="application/ld+json">
			{"@type": "Product", "name": "Main Item", "url": "/products/main-item",
			 "offers": {"price": "59.00", "priceCurrency": "USD"}}
			</script>
		</head><body>
			<div class="product-grid">
				<div class="product-item">
					<a href="/products/related-one"><h3>Related One</h3></a>
					<span class="price">$19.00</span>
				</div>
				<div class="product-item">
					<a href="/products/related-two"><h3>Related Two</h3></a>
					<span class="price">$29.00</span>
				</div>
			</div>
		</body></html>`

		svc := newService()
		svc.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if url == "https://acme.example.com" {
					return "<html></html>", nil
				}
				return productPage, nil
			},
		}
		svc.Products = goquery.NewProductExtractor()
		svc.PageProduct = goquery.NewSingleProductExtractor()
		svc.Catalog = &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context, baseURL string) ([]*storelens.Product, error) {
				return []*storelens.Product{}, nil
			},
		}
		svc.Sitemaps = &mock.SitemapService{
			DiscoverProductURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
				return []string{"https://acme.example.com/products/main-item"}, nil
			},
		}

		insights, err := svc.ExtractInsights(context.Background(), "https://acme.example.com")

		require.NoError(t, err)
		require.Len(t, insights.Catalog, 1)
		assert.Equal(t, "Main Item", insights.Catalog[0].Title)
		assert.Equal(t, 1, insights.TotalProducts)
	})

	t.Run("reduces a walked page to one subject without a page extractor", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		svc.Products = &mock.ProductExtractor{
			ExtractProductsFn: func(html, baseURL string) ([]*storelens.Product, error) {
				if baseURL == "https://acme.example.com" {
					return []*storelens.Product{}, nil
				}
				return []*storelens.Product{
					{Key: "/products/related", Title: "Related", URL: "https://acme.example.com/products/related"},
					{
						Key:   "/products/subject",
						Title: "Subject",
						URL:   "https://acme.example.com/products/subject",
						Price: &storelens.Money{Amount: "42.00", Currency: "USD"},
					},
				}, nil
			},
		}
		svc.Catalog = &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context, baseURL string) ([]*storelens.Product, error) {
				return []*storelens.Product{}, nil
			},
		}
		svc.Sitemaps = &mock.SitemapService{
			DiscoverProductURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
				return []string{"https://acme.example.com/products/subject"}, nil
			},
		}

		insights, err := svc.ExtractInsights(context.Background(), "https://acme.example.com")

		require.NoError(t, err)
		require.Len(t, insights.Catalog, 1)
		assert.Equal(t, "/products/subject", insights.Catalog[0].Key)
	})

	t.Run("caps the catalog at the product budget", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		svc.MaxProducts = 3
		svc.Catalog = &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context, baseURL string) ([]*storelens.Product, error) {
				var out []*storelens.Product
				for _, handle := range []string{"a", "b", "c", "d", "e"} {
					out = append(out, &storelens.Product{Key: "/products/" + handle, Title: handle})
				}
				return out, nil
			},
		}

		insights, err := svc.ExtractInsights(context.Background(), "https://acme.example.com")

		require.NoError(t, err)
		assert.Len(t, insights.Catalog, 3)
		assert.Equal(t, 3, insights.TotalProducts)
	})
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			if attempts < 3 {
				return "", storelens.Errorf(storelens.EUNAVAILABLE, "flaky")
			}
			return "ok", nil
		}

		delays := []time.Duration{time.Millisecond, time.Millisecond}
		html, err := insight.FetchWithRetryDelays(context.Background(), "https://x.example.com", fetch, delays)

		require.NoError(t, err)
		assert.Equal(t, "ok", html)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns the last error when attempts are exhausted", func(t *testing.T) {
		t.Parallel()

		fetch := func(ctx context.Context, url string) (string, error) {
			return "", storelens.Errorf(storelens.ETRANSPORT, "HTTP 500")
		}

		_, err := insight.FetchWithRetryDelays(context.Background(), "https://x.example.com", fetch, []time.Duration{time.Millisecond})

		require.Error(t, err)
		assert.Equal(t, storelens.ETRANSPORT, storelens.ErrorCode(err))
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fetch := func(ctx context.Context, url string) (string, error) {
			return "", storelens.Errorf(storelens.EUNAVAILABLE, "nope")
		}

		_, err := insight.FetchWithRetryDelays(ctx, "https://x.example.com", fetch, []time.Duration{time.Second})

		require.ErrorIs(t, err, context.Canceled)
	})
}
