package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/storelens/storelens"
)

// defaultPolicyTitles supplies a title when a classified link has no usable
// anchor text, image-only footer links mostly.
var defaultPolicyTitles = map[storelens.PolicyType]string{
	storelens.PolicyPrivacy:        "Privacy Policy",
	storelens.PolicyDataProtection: "Data Protection",
	storelens.PolicyCookies:        "Cookie Policy",
	storelens.PolicyRefund:         "Refund Policy",
	storelens.PolicyReturn:         "Return Policy",
	storelens.PolicyShipping:       "Shipping Policy",
	storelens.PolicyTerms:          "Terms of Service",
}

// PolicyExtractor discovers policy links anywhere on a page and classifies
// them into typed stubs. Links that classify to the same type collapse to
// one stub.
type PolicyExtractor struct{}

// NewPolicyExtractor creates a new PolicyExtractor.
func NewPolicyExtractor() *PolicyExtractor {
	return &PolicyExtractor{}
}

var _ storelens.PolicyExtractor = (*PolicyExtractor)(nil)

// ExtractPolicies scans every anchor on the page, classifies policy links,
// and returns at most one link-only stub per policy type. Links that do not
// resolve to an absolute URL are dropped.
func (e *PolicyExtractor) ExtractPolicies(html string, baseURL string) ([]*storelens.Policy, error) {
	doc, err := ParseDocument(html, baseURL)
	if err != nil {
		return nil, err
	}

	var candidates []*storelens.Policy
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := attrOr(sel, "href")
		text := selectionText(sel)

		policyType, ok := storelens.ClassifyPolicyLink(text, href)
		if !ok {
			return
		}

		resolved := doc.ResolveURL(href)
		if resolved == "" {
			return
		}

		title := text
		if title == "" {
			title = defaultPolicyTitles[policyType]
		}

		candidates = append(candidates, &storelens.Policy{
			Type:       policyType,
			Title:      title,
			URL:        resolved,
			Confidence: storelens.ConfidenceLinkOnly,
		})
	})

	out := storelens.MergePolicies(candidates)
	if out == nil {
		out = []*storelens.Policy{}
	}
	return out, nil
}
