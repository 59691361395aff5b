package main

import (
	"encoding/json"
	"fmt"

	"github.com/storelens/storelens"
)

// Run executes the compete command.
func (c *CompeteCmd) Run(deps *Dependencies) error {
	key, err := storelens.NormalizeBrandURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
		return err
	}

	if !c.Refresh {
		if snap, err := deps.Snapshots.FindSnapshotByKey(deps.Ctx, key, storelens.SnapshotAnalysis); err == nil {
			var analysis storelens.CompetitorAnalysis
			if err := json.Unmarshal(snap.Payload, &analysis); err != nil {
				return fmt.Errorf("failed to decode stored snapshot: %w", err)
			}
			return c.print(deps, &analysis)
		} else if storelens.ErrorCode(err) != storelens.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
			return err
		}
	}

	// Discovery needs the brand's own insights for category inference.
	// Reuse a stored snapshot when one exists, otherwise run extraction.
	insights, err := c.brandInsights(deps, key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
		return err
	}

	deps.Competitors.MaxCompetitors = c.MaxCompetitors

	analysis, err := deps.Competitors.DiscoverAndAnalyze(deps.Ctx, insights, key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
		return err
	}

	if err := saveSnapshot(deps, key, storelens.SnapshotAnalysis, analysis.BrandName, analysis); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: failed to store snapshot: %v\n", err)
	}

	return c.print(deps, analysis)
}

func (c *CompeteCmd) brandInsights(deps *Dependencies, key string) (*storelens.BrandInsights, error) {
	if snap, err := deps.Snapshots.FindSnapshotByKey(deps.Ctx, key, storelens.SnapshotInsights); err == nil {
		var insights storelens.BrandInsights
		if err := json.Unmarshal(snap.Payload, &insights); err != nil {
			return nil, fmt.Errorf("failed to decode stored snapshot: %w", err)
		}
		return &insights, nil
	}

	insights, err := deps.Insights.ExtractInsights(deps.Ctx, key)
	if err != nil {
		return nil, err
	}
	if err := saveSnapshot(deps, key, storelens.SnapshotInsights, insights.BrandName, insights); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: failed to store snapshot: %v\n", err)
	}
	return insights, nil
}

func (c *CompeteCmd) print(deps *Dependencies, analysis *storelens.CompetitorAnalysis) error {
	if c.JSON {
		return printJSON(deps.Stdout, analysis)
	}

	fmt.Fprintf(deps.Stdout, "Competitors for %s: %d found, %d analyzed\n",
		analysis.BrandURL, analysis.CompetitorsFound, analysis.CompetitorsAnalyzed)
	if analysis.Incomplete {
		fmt.Fprintln(deps.Stdout, "  (incomplete: some candidates did not finish in time)")
	}

	for _, cand := range analysis.Candidates {
		fmt.Fprintf(deps.Stdout, "  %-22s %s", cand.Status, cand.URL)
		if cand.FailureReason != "" {
			fmt.Fprintf(deps.Stdout, "  (%s)", cand.FailureReason)
		}
		fmt.Fprintln(deps.Stdout)
	}

	if analysis.Summary.TotalCompetitors > 0 {
		fmt.Fprintf(deps.Stdout, "  Avg products per store: %d\n", analysis.Summary.AvgProductsPerStore)
		for _, f := range analysis.Summary.CommonSocialPlatforms {
			fmt.Fprintf(deps.Stdout, "  Social %s: %d\n", f.Label, f.Count)
		}
		for _, f := range analysis.Summary.CommonPaymentMethods {
			fmt.Fprintf(deps.Stdout, "  Payment %s: %d\n", f.Label, f.Count)
		}
	}

	return nil
}
