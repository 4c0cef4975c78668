package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studyforge/internal/storage"
	"studyforge/internal/ui"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent activity (newest first)",
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
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Activity"))
			if len(p.ActivityLog) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(nothing yet)"))
				return nil
			}
			for _, e := range p.ActivityLog {
				fmt.Fprintf(out, "%s %s %s\n", ui.Muted.Render(e.At.Local().Format(time.DateTime)), logIcon(e.Kind), e.Message)
			}
			return nil
		},
	}

	return cmd
}

func logIcon(kind storage.LogKind) string {
	switch kind {
	case storage.LogXP:
		return ui.IconXP
	case storage.LogLevelUp:
		return ui.IconTrophy
	case storage.LogUpgrade:
		return ui.IconShop
	case storage.LogMission:
		return ui.IconDone
	case storage.LogIdle:
		return ui.IconIdle
	default:
		return ui.IconInfo
	}
}
