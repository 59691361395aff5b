package goquery_test

import (
	"testing"

	"github.com/storelens/storelens"
	"github.com/storelens/storelens/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storelens.PolicyExtractor = (*goquery.PolicyExtractor)(nil)

func TestPolicyExtractor_ExtractPolicies(t *testing.T) {
	t.Parallel()

	t.Run("classifies footer policy links into typed stubs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<footer>
	<a href="/policies/privacy-policy">Privacy Policy</a>
	<a href="/policies/shipping-policy">Shipping</a>
	<a href="/policies/terms-of-service">Terms of Service</a>
</footer>
</body></html>`

		e := goquery.NewPolicyExtractor()
		policies, err := e.ExtractPolicies(html, "https://shop.example.com")

		require.NoError(t, err)
		require.Len(t, policies, 3)

		byType := make(map[storelens.PolicyType]*storelens.Policy)
		for _, p := range policies {
			byType[p.Type] = p
		}

		privacy := byType[storelens.PolicyPrivacy]
		require.NotNil(t, privacy)
		assert.Equal(t, "Privacy Policy", privacy.Title)
		assert.Equal(t, "https://shop.example.com/policies/privacy-policy", privacy.URL)
		assert.Equal(t, storelens.ConfidenceLinkOnly, privacy.Confidence)

		assert.NotNil(t, byType[storelens.PolicyShipping])
		assert.NotNil(t, byType[storelens.PolicyTerms])
	})

	t.Run("collapses duplicate links of the same type", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<nav><a href="/pages/privacy">Privacy</a></nav>
<footer><a href="/policies/privacy-policy">Privacy Policy</a></footer>
</body></html>`

		e := goquery.NewPolicyExtractor()
		policies, err := e.ExtractPolicies(html, "https://shop.example.com")

		require.NoError(t, err)
		require.Len(t, policies, 1)
		assert.Equal(t, storelens.PolicyPrivacy, policies[0].Type)
	})

	t.Run("drops links that cannot resolve to an absolute URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="javascript:void(0)">Privacy Policy</a>
</body></html>`

		e := goquery.NewPolicyExtractor()
		policies, err := e.ExtractPolicies(html, "https://shop.example.com")

		require.NoError(t, err)
		assert.Empty(t, policies)
	})

	t.Run("returns an empty slice when no policy links exist", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewPolicyExtractor()
		policies, err := e.ExtractPolicies(`<html><body><a href="/collections/all">Shop</a></body></html>`, "https://shop.example.com")

		require.NoError(t, err)
		assert.NotNil(t, policies)
		assert.Empty(t, policies)
	})

	t.Run("classifies combined labels deterministically", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<footer><a href="/pages/legal">Terms &amp; Privacy</a></footer>
</body></html>`

		e := goquery.NewPolicyExtractor()
		for range 10 {
			policies, err := e.ExtractPolicies(html, "https://shop.example.com")
			require.NoError(t, err)
			require.Len(t, policies, 1)
			assert.Equal(t, storelens.PolicyPrivacy, policies[0].Type)
		}
	})
}
