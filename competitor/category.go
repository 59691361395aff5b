// Package competitor implements competitor discovery: inferring the
// brand's category, searching for stores in the same space, validating
// that candidates run on Shopify, and analyzing the validated ones with
// the full extraction pipeline.
package competitor

import (
	"strings"

	"github.com/storelens/storelens"
)

// FallbackCategory is used when no keyword bucket matches.
const FallbackCategory = "ecommerce"

// categoryBuckets maps a category label to its cue words. Order fixes the
// tie-break so inference is deterministic.
var categoryBuckets = []struct {
	category string
	keywords []string
}{
	{"gaming", []string{"game", "gaming", "console", "esport", "controller", "arcade"}},
	{"fitness", []string{"fitness", "gym", "workout", "protein", "supplement", "yoga", "muscle"}},
	{"beauty", []string{"beauty", "skincare", "makeup", "cosmetic", "serum", "moisturizer", "lipstick"}},
	{"fashion", []string{"fashion", "clothing", "apparel", "dress", "shirt", "shoe", "denim", "jacket"}},
	{"food", []string{"food", "snack", "coffee", "tea", "chocolate", "sauce", "beverage", "organic"}},
	{"electronics", []string{"electronic", "gadget", "headphone", "charger", "camera", "speaker", "keyboard"}},
	{"home", []string{"furniture", "decor", "kitchen", "bedding", "candle", "rug", "lamp"}},
	{"jewelry", []string{"jewelry", "jewellery", "ring", "necklace", "bracelet", "earring", "pendant"}},
	{"sports", []string{"sport", "outdoor", "bike", "ski", "surf", "hike", "camping", "climbing"}},
	{"pet", []string{"pet", "dog", "cat", "puppy", "kitten", "leash", "treats"}},
}

// InferCategory infers the brand's product category from its name,
// description, and catalog. The bucket with the most cue-word hits wins;
// ties resolve to the bucket listed first. A brand matching nothing falls
// back to the generic ecommerce category.
func InferCategory(insights *storelens.BrandInsights) string {
	if insights == nil {
		return FallbackCategory
	}

	var corpus strings.Builder
	corpus.WriteString(strings.ToLower(insights.BrandName))
	corpus.WriteString(" ")
	corpus.WriteString(strings.ToLower(insights.BrandDescription))
	for _, p := range insights.Catalog {
		corpus.WriteString(" ")
		corpus.WriteString(strings.ToLower(p.Title))
		for _, tag := range p.Tags {
			corpus.WriteString(" ")
			corpus.WriteString(strings.ToLower(tag))
		}
	}
	for _, h := range insights.HeroProducts {
		corpus.WriteString(" ")
		corpus.WriteString(strings.ToLower(h.Title))
	}
	text := corpus.String()

	best := FallbackCategory
	bestHits := 0
	for _, bucket := range categoryBuckets {
		hits := 0
		for _, kw := range bucket.keywords {
			hits += strings.Count(text, kw)
		}
		if hits > bestHits {
			best = bucket.category
			bestHits = hits
		}
	}
	return best
}

// BuildQueries expands a category and brand name into a bounded, deduped
// set of search queries.
func BuildQueries(category, brandName string) []string {
	templates := []string{
		"best " + category + " shopify stores",
		"top " + category + " brands online store",
		category + " ecommerce stores",
	}
	if brandName != "" {
		templates = append(templates, "stores like "+brandName)
	}

	seen := make(map[string]bool)
	var out []string
	for _, q := range templates {
		q = strings.Join(strings.Fields(q), " ")
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}
