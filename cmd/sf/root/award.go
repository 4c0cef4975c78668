package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"studyforge/internal/ui"
)

func newAwardCmd() *cobra.Command {
	var missionID string

	cmd := &cobra.Command{
		Use:   "award <xp> [reason...]",
		Short: "Record study activity worth base XP",
		Long: `Award base XP for a study activity. The current multipliers are applied
and the daily streak is extended.

Use --mission to also count the activity toward a daily mission, e.g.
  sf award 20 "wrote lecture notes" --mission create_notes`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("xp is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("xp must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			base, _ := strconv.Atoi(args[0])
			if base <= 0 {
				return errors.New("xp must be positive")
			}
			reason := strings.Join(args[1:], " ")
			if reason == "" {
				reason = "study session"
			}

			forge, cleanup, err := openForge(ctx, out)
			if err != nil {
				return err
			}
			defer cleanup()

			effective, err := forge.AwardExperience(ctx, base, reason, missionID)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s +%d XP %s", ui.Good.Render(ui.IconXP+" Awarded"), effective, ui.Muted.Render(reason))
			if effective != base {
				line += ui.Muted.Render(fmt.Sprintf(" (base %d)", base))
			}
			fmt.Fprintln(out, line)
			return nil
		},
	}

	cmd.Flags().StringVarP(&missionID, "mission", "m", "", "Mission id this activity counts toward")
	return cmd
}
