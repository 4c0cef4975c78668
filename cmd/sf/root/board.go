package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studyforge/internal/storage"
	"studyforge/internal/tui"
	"studyforge/internal/ui"
)

func newBoardCmd() *cobra.Command {
	var collectFirst bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		Long:  "Open the TUI dashboard. A summary of what the session earned is printed on exit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			forge, cleanup, err := openForge(ctx, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			before, err := forge.Snapshot(ctx)
			if err != nil {
				return err
			}
			if collectFirst {
				if _, err := forge.CollectIdleExperience(ctx); err != nil {
					return err
				}
			}

			if err := tui.RunBoard(ctx, forge, out); err != nil {
				return err
			}

			after, err := forge.Snapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, sessionSummary(before, after))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&collectFirst, "collect", "c", false, "Collect pending idle XP before opening")
	return cmd
}

// sessionSummary describes the progress made between two snapshots.
func sessionSummary(before, after *storage.Progression) string {
	gained := after.TotalXP - before.TotalXP
	bought := ownedCount(after.OwnedUpgrades) - ownedCount(before.OwnedUpgrades)
	if gained <= 0 && bought <= 0 {
		return ui.Muted.Render(ui.IconForge + " No progress this session.")
	}

	parts := []string{ui.Good.Render(fmt.Sprintf("+%d XP", gained))}
	if after.Level != before.Level {
		parts = append(parts, fmt.Sprintf("level %d → %d", before.Level, after.Level))
	}
	if bought > 0 {
		parts = append(parts, fmt.Sprintf("%d upgrade(s) bought", bought))
	}
	return ui.IconForge + " Session: " + strings.Join(parts, ", ")
}

func ownedCount(owned map[string]bool) int {
	n := 0
	for _, ok := range owned {
		if ok {
			n++
		}
	}
	return n
}
