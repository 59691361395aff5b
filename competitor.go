package storelens

import "sort"

// CandidateStatus is the lifecycle state of a competitor candidate.
//
// Valid transitions:
//
//	pending → validating → validated-shopify → analysis-succeeded
//	                     ↘ validated-not-shopify      ↘ analysis-failed
//
// validated-not-shopify, analysis-succeeded and analysis-failed are
// terminal. A candidate never re-enters a state and is never re-analyzed
// after reaching a terminal status within the same run.
type CandidateStatus string

// Candidate lifecycle states.
const (
	StatusPending             CandidateStatus = "pending"
	StatusValidating          CandidateStatus = "validating"
	StatusValidatedShopify    CandidateStatus = "validated-shopify"
	StatusValidatedNotShopify CandidateStatus = "validated-not-shopify"
	StatusAnalysisSucceeded   CandidateStatus = "analysis-succeeded"
	StatusAnalysisFailed      CandidateStatus = "analysis-failed"
)

// Terminal reports whether the status ends the candidate's lifecycle.
func (s CandidateStatus) Terminal() bool {
	switch s {
	case StatusValidatedNotShopify, StatusAnalysisSucceeded, StatusAnalysisFailed:
		return true
	}
	return false
}

// CompetitorCandidate is a third-party store discovered by search, moving
// through validation and analysis. Status changes go through the
// transition methods so illegal jumps (e.g. straight from pending to
// analysis) are impossible.
type CompetitorCandidate struct {
	Name          string          `json:"name"`
	URL           string          `json:"url"`
	Status        CandidateStatus `json:"status"`
	Evidence      []string        `json:"evidence,omitempty"`
	FailureReason string          `json:"failureReason,omitempty"`
	Insights      *BrandInsights  `json:"insights,omitempty"`
}

// NewCompetitorCandidate returns a candidate in the pending state.
func NewCompetitorCandidate(name, url string) *CompetitorCandidate {
	return &CompetitorCandidate{Name: name, URL: url, Status: StatusPending}
}

// BeginValidation moves a pending candidate into validating.
func (c *CompetitorCandidate) BeginValidation() error {
	if c.Status != StatusPending {
		return Errorf(ECONFLICT, "cannot validate candidate %q in status %q", c.URL, c.Status)
	}
	c.Status = StatusValidating
	return nil
}

// CompleteValidation records the platform-validation outcome. A candidate
// not on the target platform reaches its terminal state here and is
// excluded from analysis.
func (c *CompetitorCandidate) CompleteValidation(shopify bool, evidence []string) error {
	if c.Status != StatusValidating {
		return Errorf(ECONFLICT, "cannot complete validation for candidate %q in status %q", c.URL, c.Status)
	}
	c.Evidence = evidence
	if shopify {
		c.Status = StatusValidatedShopify
	} else {
		c.Status = StatusValidatedNotShopify
	}
	return nil
}

// CompleteAnalysis records a successful analysis.
func (c *CompetitorCandidate) CompleteAnalysis(insights *BrandInsights) error {
	if c.Status != StatusValidatedShopify {
		return Errorf(ECONFLICT, "cannot analyze candidate %q in status %q", c.URL, c.Status)
	}
	c.Insights = insights
	c.Status = StatusAnalysisSucceeded
	return nil
}

// FailAnalysis records an analysis failure with its reason. The pipeline
// continues with remaining candidates.
func (c *CompetitorCandidate) FailAnalysis(reason string) error {
	if c.Status != StatusValidatedShopify {
		return Errorf(ECONFLICT, "cannot fail candidate %q in status %q", c.URL, c.Status)
	}
	c.FailureReason = reason
	c.Status = StatusAnalysisFailed
	return nil
}

// Frequency is one row of a frequency table.
type Frequency struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AnalysisSummary aggregates statistics over successfully analyzed
// competitors. It is deterministic given the same set of analyses:
// frequency tables are sorted by count descending, label ascending.
type AnalysisSummary struct {
	TotalCompetitors      int         `json:"totalCompetitors"`
	AvgProductsPerStore   int         `json:"avgProductsPerStore"`
	CommonSocialPlatforms []Frequency `json:"commonSocialPlatforms,omitempty"`
	CommonPaymentMethods  []Frequency `json:"commonPaymentMethods,omitempty"`
	CommonFAQCategories   []Frequency `json:"commonFaqCategories,omitempty"`
}

// summaryTopN caps each frequency table in an AnalysisSummary.
const summaryTopN = 5

// SummarizeCandidates computes the AnalysisSummary over the candidates
// that reached analysis-succeeded. Candidates in any other state do not
// contribute.
func SummarizeCandidates(candidates []*CompetitorCandidate) AnalysisSummary {
	var summary AnalysisSummary
	socials := make(map[string]int)
	payments := make(map[string]int)
	faqCategories := make(map[string]int)
	totalProducts := 0

	for _, c := range candidates {
		if c.Status != StatusAnalysisSucceeded || c.Insights == nil {
			continue
		}
		summary.TotalCompetitors++
		totalProducts += len(c.Insights.Catalog)
		for _, platform := range c.Insights.Socials.Platforms() {
			socials[platform]++
		}
		for _, method := range c.Insights.PaymentMethods {
			payments[method]++
		}
		for _, faq := range c.Insights.FAQs {
			category := faq.Category
			if category == "" {
				category = "General"
			}
			faqCategories[category]++
		}
	}

	if summary.TotalCompetitors > 0 {
		summary.AvgProductsPerStore = totalProducts / summary.TotalCompetitors
	}
	summary.CommonSocialPlatforms = topFrequencies(socials, summaryTopN)
	summary.CommonPaymentMethods = topFrequencies(payments, summaryTopN)
	summary.CommonFAQCategories = topFrequencies(faqCategories, summaryTopN)
	return summary
}

// topFrequencies converts a count map into a sorted, capped table.
func topFrequencies(counts map[string]int, n int) []Frequency {
	out := make([]Frequency, 0, len(counts))
	for label, count := range counts {
		out = append(out, Frequency{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// CompetitorAnalysis is the aggregate result of one discovery run: the
// original brand's identity, every candidate with its terminal state, and
// the computed summary. Persisted as an immutable snapshot keyed by the
// original brand's normalized URL.
type CompetitorAnalysis struct {
	BrandName           string                 `json:"brandName"`
	BrandURL            string                 `json:"brandUrl"`
	CompetitorsFound    int                    `json:"competitorsFound"`
	CompetitorsAnalyzed int                    `json:"competitorsAnalyzed"`
	Candidates          []*CompetitorCandidate `json:"candidates,omitempty"`
	Summary             AnalysisSummary        `json:"summary"`

	// Incomplete is set when fewer than the configured minimum number of
	// candidates reached a terminal state within the run's time budget.
	// The analysis is still returned, computed from the successes only.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Validate returns an error if the analysis contains invalid fields.
func (a *CompetitorAnalysis) Validate() error {
	if a.BrandURL == "" {
		return Errorf(EINVALID, "analysis brand URL required")
	}
	return nil
}
