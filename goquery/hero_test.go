package goquery_test

import (
	"testing"

	"github.com/storelens/storelens"
	"github.com/storelens/storelens/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storelens.HeroProductExtractor = (*goquery.HeroProductExtractor)(nil)

func TestHeroProductExtractor_ExtractHeroProducts(t *testing.T) {
	t.Parallel()

	t.Run("collapses repeated carousel slides to unique products", func(t *testing.T) {
		t.Parallel()

		// A looping carousel duplicates its slides; three unique products
		// rendered twice each must yield three hero products.
		html := `<html><body>
<div class="carousel">
	<div class="slide"><a href="/products/alpha">Alpha</a></div>
	<div class="slide"><a href="/products/beta">Beta</a></div>
	<div class="slide"><a href="/products/gamma">Gamma</a></div>
	<div class="slide"><a href="/products/alpha">Alpha</a></div>
	<div class="slide"><a href="/products/beta">Beta</a></div>
	<div class="slide"><a href="/products/gamma">Gamma</a></div>
</div>
</body></html>`

		e := goquery.NewHeroProductExtractor()
		heroes, err := e.ExtractHeroProducts(html, "https://shop.example.com")

		require.NoError(t, err)
		require.Len(t, heroes, 3)
		assert.Equal(t, "/products/alpha", heroes[0].Key)
		assert.Equal(t, "/products/beta", heroes[1].Key)
		assert.Equal(t, "/products/gamma", heroes[2].Key)
		for _, h := range heroes {
			assert.Equal(t, storelens.PlacementCarousel, h.Placement)
		}
	})

	t.Run("ranks above-the-fold hero regions over featured grids", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="featured-products">
	<div class="product-card"><a href="/products/also-ran">Also Ran</a></div>
</div>
<section class="hero">
	<a href="/products/headliner">Headliner</a>
</section>
</body></html>`

		e := goquery.NewHeroProductExtractor()
		heroes, err := e.ExtractHeroProducts(html, "https://shop.example.com")

		require.NoError(t, err)
		require.Len(t, heroes, 2)
		assert.Equal(t, "/products/headliner", heroes[0].Key)
		assert.Equal(t, storelens.PlacementHero, heroes[0].Placement)
		assert.Equal(t, "/products/also-ran", heroes[1].Key)
		assert.Equal(t, storelens.PlacementFeaturedGrid, heroes[1].Placement)
		assert.Greater(t, heroes[0].Score, heroes[1].Score)
	})

	t.Run("breaks score ties by document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="featured-products">
	<div class="product-card"><a href="/products/first">First</a></div>
	<div class="product-card"><a href="/products/second">Second</a></div>
</div>
</body></html>`

		e := goquery.NewHeroProductExtractor()
		heroes, err := e.ExtractHeroProducts(html, "https://shop.example.com")

		require.NoError(t, err)
		require.Len(t, heroes, 2)
		assert.Equal(t, heroes[0].Score, heroes[1].Score)
		assert.Equal(t, "/products/first", heroes[0].Key)
		assert.Equal(t, "/products/second", heroes[1].Key)
	})

	t.Run("breaks score ties across region types by document order", func(t *testing.T) {
		t.Parallel()

		// A labeled carousel slide and a bare banner both score 35; the
		// carousel appears first in the document and must stay first.
		html := `<html><body>
<div class="carousel">
	<div class="slide">
		<span class="badge">Featured</span>
		<a href="/products/alpha"><h3>Alpha</h3></a>
	</div>
</div>
<div class="promo-banner">
	<a href="/products/beta"><h3>Beta</h3></a>
</div>
</body></html>`

		e := goquery.NewHeroProductExtractor()
		heroes, err := e.ExtractHeroProducts(html, "https://shop.example.com")

		require.NoError(t, err)
		require.Len(t, heroes, 2)
		assert.Equal(t, heroes[0].Score, heroes[1].Score)
		assert.Equal(t, "/products/alpha", heroes[0].Key)
		assert.Equal(t, storelens.PlacementCarousel, heroes[0].Placement)
		assert.Equal(t, "/products/beta", heroes[1].Key)
		assert.Equal(t, storelens.PlacementBanner, heroes[1].Placement)
	})

	t.Run("rewards large imagery", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="carousel">
	<div class="slide"><a href="/products/small"><img src="/s.jpg" width="100" height="100" alt="Small"></a></div>
	<div class="slide"><a href="/products/large"><img src="/l.jpg" width="800" height="600" alt="Large"></a></div>
</div>
</body></html>`

		e := goquery.NewHeroProductExtractor()
		heroes, err := e.ExtractHeroProducts(html, "https://shop.example.com")

		require.NoError(t, err)
		require.Len(t, heroes, 2)
		assert.Equal(t, "/products/large", heroes[0].Key)
	})

	t.Run("returns an empty slice when no hero regions exist", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewHeroProductExtractor()
		heroes, err := e.ExtractHeroProducts(`<html><body><p>nothing here</p></body></html>`, "https://shop.example.com")

		require.NoError(t, err)
		assert.Empty(t, heroes)
	})
}
