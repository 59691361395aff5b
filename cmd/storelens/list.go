package main

import (
	"fmt"

	"github.com/storelens/storelens"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, storelens.SnapshotFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
		return err
	}

	if len(snaps) == 0 {
		fmt.Fprintln(deps.Stdout, "No snapshots found. Use 'storelens analyze' to create one.")
		return nil
	}

	for _, s := range snaps {
		name := s.BrandName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %-9s  %-24s  %s\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.Kind, name, s.Key)
	}

	return nil
}
