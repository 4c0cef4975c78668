package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"studyforge/internal/engine"
	"studyforge/internal/ui"
)

func newBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <upgrade_id>",
		Short: "Spend XP on an upgrade",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("upgrade_id is required (see sf shop)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			id := args[0]
			forge, cleanup, err := openForge(ctx, out)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := forge.CheckPurchase(ctx, id); err != nil {
				return err
			}
			ok, err := forge.PurchaseUpgrade(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("upgrade %q could not be purchased", id)
			}

			u, _ := engine.UpgradeByID(id)
			p, err := forge.Snapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconShop+" Bought"), u.Name, ui.Muted.Render(fmt.Sprintf("(-%d XP, %d left)", u.Cost, p.AvailableXP)))
			if t, ok := u.Effect.(engine.ThemeUnlockEffect); ok {
				fmt.Fprintf(out, "%s Switch with: %s\n", ui.IconPalette, ui.Key.Render("sf settings --theme "+t.Theme))
			}
			return nil
		},
	}

	return cmd
}
