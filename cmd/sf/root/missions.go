package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"studyforge/internal/ui"
)

func newMissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "Show today's missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			forge, cleanup, err := openForge(ctx, out)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := forge.Snapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Daily missions "+ui.Muted.Render(p.MissionsSeededDate)))
			for _, m := range p.Missions {
				fmt.Fprintf(out, "- %s %s %s %s\n  %s\n",
					ui.Key.Render(m.ID), m.Title,
					ui.MissionStatus(m.Progress, m.Target, m.Claimed),
					ui.Gold.Render(fmt.Sprintf("+%d XP", m.Reward)),
					ui.Muted.Render(m.Description))
			}
			return nil
		},
	}

	return cmd
}
