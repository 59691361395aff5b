package main

import (
	"fmt"

	"github.com/storelens/storelens"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	key, err := storelens.NormalizeBrandURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
		return err
	}

	kind := storelens.SnapshotInsights
	if c.Analysis {
		kind = storelens.SnapshotAnalysis
	}

	snap, err := deps.Snapshots.FindSnapshotByKey(deps.Ctx, key, kind)
	if err != nil {
		if storelens.ErrorCode(err) == storelens.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: no %s snapshot for %q. Run 'storelens analyze %s' first.\n", kind, key, c.URL)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", storelens.ErrorMessage(err))
		}
		return err
	}

	_, err = deps.Stdout.Write(append(snap.Payload, '\n'))
	return err
}
