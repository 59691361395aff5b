package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/storelens/storelens"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	key, err := storelens.NormalizeBrandURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
		return err
	}

	// Repeated runs for the same brand return the stored result.
	if !c.Refresh {
		if snap, err := deps.Snapshots.FindSnapshotByKey(deps.Ctx, key, storelens.SnapshotInsights); err == nil {
			var insights storelens.BrandInsights
			if err := json.Unmarshal(snap.Payload, &insights); err != nil {
				return fmt.Errorf("failed to decode stored snapshot: %w", err)
			}
			return c.print(deps, &insights)
		} else if storelens.ErrorCode(err) != storelens.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
			return err
		}
	}

	deps.Insights.MaxProducts = c.MaxProducts
	deps.Insights.Concurrency = c.Concurrency

	insights, err := deps.Insights.ExtractInsights(deps.Ctx, key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
		return err
	}

	if err := saveSnapshot(deps, key, storelens.SnapshotInsights, insights.BrandName, insights); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: failed to store snapshot: %v\n", err)
	}

	return c.print(deps, insights)
}

func (c *AnalyzeCmd) print(deps *Dependencies, insights *storelens.BrandInsights) error {
	if c.JSON {
		return printJSON(deps.Stdout, insights)
	}

	name := insights.BrandName
	if name == "" {
		name = insights.WebsiteURL
	}
	fmt.Fprintf(deps.Stdout, "%s\n", name)
	if insights.BrandDescription != "" {
		fmt.Fprintf(deps.Stdout, "  %s\n", insights.BrandDescription)
	}
	fmt.Fprintf(deps.Stdout, "  Products: %d", insights.TotalProducts)
	if len(insights.HeroProducts) > 0 {
		fmt.Fprintf(deps.Stdout, "  Heroes: %d", len(insights.HeroProducts))
	}
	if len(insights.Policies) > 0 {
		fmt.Fprintf(deps.Stdout, "  Policies: %d", len(insights.Policies))
	}
	if len(insights.FAQs) > 0 {
		fmt.Fprintf(deps.Stdout, "  FAQs: %d", len(insights.FAQs))
	}
	fmt.Fprintln(deps.Stdout)

	if platforms := insights.Socials.Platforms(); len(platforms) > 0 {
		fmt.Fprintf(deps.Stdout, "  Socials:")
		for _, p := range platforms {
			fmt.Fprintf(deps.Stdout, " %s", p)
		}
		fmt.Fprintln(deps.Stdout)
	}
	if len(insights.PaymentMethods) > 0 {
		fmt.Fprintf(deps.Stdout, "  Payments:")
		for _, m := range insights.PaymentMethods {
			fmt.Fprintf(deps.Stdout, " %s", m)
		}
		fmt.Fprintln(deps.Stdout)
	}

	return nil
}

// saveSnapshot encodes a result and persists it under the brand key.
func saveSnapshot(deps *Dependencies, key string, kind storelens.SnapshotKind, brandName string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return deps.Snapshots.CreateSnapshot(deps.Ctx, &storelens.Snapshot{
		Key:       key,
		Kind:      kind,
		BrandName: brandName,
		Payload:   encoded,
	})
}

func printJSON(w io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(encoded, '\n'))
	return err
}
