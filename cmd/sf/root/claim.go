package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"studyforge/internal/ui"
)

func newClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim <mission_id>",
		Short: "Claim the reward of a completed mission",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("mission_id is required (see sf missions)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			forge, cleanup, err := openForge(ctx, out)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := forge.CheckClaim(ctx, args[0]); err != nil {
				return err
			}
			reward, err := forge.ClaimMission(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s +%d XP\n", ui.Good.Render(ui.IconDone+" Claimed"), args[0], reward)
			return nil
		},
	}

	return cmd
}
