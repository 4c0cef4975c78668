package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studyforge/internal/engine"
	"studyforge/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, XP, multipliers and achievements",
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
			m, err := forge.Multipliers(ctx)
			if err != nil {
				return err
			}
			toNext := max(0, p.NextLevelXP-p.TotalXP)

			fmt.Fprintln(out, ui.Heading(ui.IconForge, "StudyForge"))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d %s", p.Level, ui.Bar(p.LevelProgress, 20))))
			fmt.Fprintln(out, ui.LabelValue("Total XP", fmt.Sprintf("%d (next at %d, %d to go)", p.TotalXP, p.NextLevelXP, toNext)))
			fmt.Fprintln(out, ui.LabelValue("Spendable", p.AvailableXP))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconBolt+" Multiplier"))
			fmt.Fprintf(out, "- base %.2f + upgrades %.2f + streak %.2f = %s\n", m.Base, m.UpgradeBonus, m.StreakBonus, ui.Gold.Render(fmt.Sprintf("x%.2f", m.Total)))
			streak := fmt.Sprintf("%d day(s)", p.StreakCount)
			if p.LastStreakDate != "" {
				streak += ui.Muted.Render(" (last " + p.LastStreakDate + ")")
			}
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render(ui.IconStreak+" Streak:"), streak)
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconIdle+" Idle"))
			fmt.Fprintf(out, "- %s %.2f XP/s\n", ui.Key.Render("Rate:"), p.PassiveXPPerSecond)
			fmt.Fprintf(out, "- %s %d %s\n", ui.Key.Render("Pending:"), int(p.PendingIdleXP), ui.Muted.Render("(sf collect)"))
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Auto-collect:"), ui.OnOff(p.OwnedUpgrades[engine.UpgradeAutoCollect] && p.Settings.AutoCollect))
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Last active:"), p.LastActiveAt.Local().Format(time.DateTime))
			fmt.Fprintln(out, "")

			checker := engine.NewAchievementChecker(p)
			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Achievements (%d/%d)", ui.IconTrophy, checker.CountEarned(), checker.CountTotal())))
			for _, a := range checker.GetAchievements() {
				switch {
				case a.Earned:
					fmt.Fprintf(out, "- %s %s %s\n", a.Icon, ui.Good.Render(a.Name), ui.Muted.Render(a.Description))
				case showAll:
					fmt.Fprintf(out, "- %s %s %s\n", ui.IconLock, ui.Muted.Render(a.Name), ui.Muted.Render(a.Description))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Also list locked achievements")
	return cmd
}
