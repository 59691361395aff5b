package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storelens/storelens"
	storelenshttp "github.com/storelens/storelens/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storelens.Searcher = (*storelenshttp.Searcher)(nil)

func TestSearcher_Search(t *testing.T) {
	t.Parallel()

	t.Run("parses results and unwraps redirect links", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "shopify fitness stores", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`<html><body>
<div class="result">
	<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Ffitgear.example.com%2F&rut=abc">FitGear</a>
</div>
<div class="result">
	<a class="result__a" href="https://ironshop.example.com/">Iron Shop</a>
</div>
</body></html>`))
		}))
		defer server.Close()

		fetcher := storelenshttp.NewFetcher()
		defer fetcher.Close()

		searcher := storelenshttp.NewSearcher(fetcher, storelenshttp.WithSearchEndpoint(server.URL))
		results, err := searcher.Search(context.Background(), "shopify fitness stores")

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "FitGear", results[0].Title)
		assert.Equal(t, "https://fitgear.example.com/", results[0].URL)
		assert.Equal(t, "https://ironshop.example.com/", results[1].URL)
	})

	t.Run("degrades transport failures to an empty result set", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slow down", http.StatusTooManyRequests)
		}))
		defer server.Close()

		fetcher := storelenshttp.NewFetcher()
		defer fetcher.Close()

		searcher := storelenshttp.NewSearcher(fetcher, storelenshttp.WithSearchEndpoint(server.URL))
		results, err := searcher.Search(context.Background(), "anything")

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("returns an empty slice when no results match", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body><p>No results.</p></body></html>`))
		}))
		defer server.Close()

		fetcher := storelenshttp.NewFetcher()
		defer fetcher.Close()

		searcher := storelenshttp.NewSearcher(fetcher, storelenshttp.WithSearchEndpoint(server.URL))
		results, err := searcher.Search(context.Background(), "obscure query")

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}
