package storelens

import "strings"

// PolicyType enumerates the legal/policy documents recognized on a
// storefront.
type PolicyType string

// Recognized policy types.
const (
	PolicyPrivacy        PolicyType = "privacy"
	PolicyDataProtection PolicyType = "data-protection"
	PolicyCookies        PolicyType = "cookies"
	PolicyRefund         PolicyType = "refund"
	PolicyReturn         PolicyType = "return"
	PolicyShipping       PolicyType = "shipping"
	PolicyTerms          PolicyType = "terms"
)

// PolicyConfidence describes how much of a policy was actually recovered.
type PolicyConfidence string

// Confidence levels. A policy starts as a link-only stub during discovery
// and is upgraded when the detail page is fetched and its content
// extracted.
const (
	ConfidenceLinkOnly PolicyConfidence = "link-only"
	ConfidencePartial  PolicyConfidence = "partial"
	ConfidenceFull     PolicyConfidence = "full"
)

// Policy represents one policy document. Lifecycle is two-phase: a stub
// (type + URL) is created during link discovery, then optionally enriched
// in place with content from the linked page. Enrichment failure leaves
// the stub intact, it never fails the run.
type Policy struct {
	Type       PolicyType       `json:"type"`
	Title      string           `json:"title"`
	URL        string           `json:"url"`
	Content    string           `json:"content,omitempty"`
	Confidence PolicyConfidence `json:"confidence"`
}

// policyVocab is the ordered classification vocabulary. Order matters:
// classification is first-match-wins, so more specific cues are listed
// before generic ones (a "Return & Refund Policy" link resolves to refund,
// "Terms & Privacy" resolves to privacy). Cue matching is case-insensitive
// substring matching over the link text and href combined.
var policyVocab = []struct {
	Type PolicyType
	Cues []string
}{
	{PolicyPrivacy, []string{"privacy"}},
	{PolicyDataProtection, []string{"gdpr", "ccpa", "data-protection", "data protection", "data-privacy", "data privacy"}},
	{PolicyCookies, []string{"cookie"}},
	{PolicyRefund, []string{"refund", "money-back", "money back"}},
	{PolicyReturn, []string{"return", "exchange"}},
	{PolicyShipping, []string{"shipping", "delivery", "fulfillment"}},
	{PolicyTerms, []string{"terms", "conditions", "agreement", "legal"}},
}

// ClassifyPolicyLink classifies a link into exactly one policy type using
// first-match-wins over the ordered vocabulary. The classification is a
// pure function of its inputs: the same text and href always yield the
// same type.
func ClassifyPolicyLink(text, href string) (PolicyType, bool) {
	combined := strings.ToLower(text) + " " + strings.ToLower(href)
	for _, entry := range policyVocab {
		for _, cue := range entry.Cues {
			if strings.Contains(combined, cue) {
				return entry.Type, true
			}
		}
	}
	return "", false
}

// MergePolicies collapses a candidate list so each policy type appears at
// most once. When two candidates share a type, the one with more content
// wins; on equal content length the later candidate wins. Input order is
// otherwise preserved.
func MergePolicies(policies []*Policy) []*Policy {
	index := make(map[PolicyType]int)
	var out []*Policy
	for _, p := range policies {
		if p == nil {
			continue
		}
		if i, ok := index[p.Type]; ok {
			if len(p.Content) >= len(out[i].Content) {
				out[i] = p
			}
			continue
		}
		index[p.Type] = len(out)
		out = append(out, p)
	}
	return out
}
