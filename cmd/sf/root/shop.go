package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studyforge/internal/engine"
	"studyforge/internal/ui"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "List upgrades and what they cost",
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

			fmt.Fprintln(out, ui.Heading(ui.IconShop, "Upgrades"))
			fmt.Fprintln(out, ui.LabelValue("Spendable", fmt.Sprintf("%d XP", p.AvailableXP)))
			fmt.Fprintln(out, "")
			for _, u := range engine.Upgrades() {
				var reason engine.PurchaseRefusal
				if _, perr := engine.EvaluatePurchase(p, u.ID); perr != nil {
					reason = perr.Reason
				}
				var state string
				switch reason {
				case engine.RefusalOwned:
					state = ui.Good.Render("owned")
				case engine.RefusalPrerequisite:
					state = ui.Muted.Render(ui.IconLock + " needs " + strings.Join(u.Requires, ", "))
				case engine.RefusalFunds:
					state = ui.Warn.Render(fmt.Sprintf("%d XP", u.Cost))
				default:
					state = ui.Gold.Render(fmt.Sprintf("%d XP", u.Cost))
				}
				fmt.Fprintf(out, "- %s %s %s\n  %s %s\n", ui.Key.Render(u.ID), u.Name, state, ui.Muted.Render(u.Description), ui.Muted.Render("["+u.Effect.String()+"]"))
			}
			return nil
		},
	}

	return cmd
}
