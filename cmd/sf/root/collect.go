package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"studyforge/internal/ui"
)

func newCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect idle XP earned while away",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			forge, cleanup, err := openForge(ctx, out)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := forge.CollectIdleExperience(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(out, ui.Muted.Render(ui.IconIdle+" Nothing to collect."))
				return nil
			}
			fmt.Fprintf(out, "%s +%d XP\n", ui.Good.Render(ui.IconIdle+" Collected"), n)
			return nil
		},
	}

	return cmd
}
