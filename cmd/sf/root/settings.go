package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studyforge/internal/engine"
	"studyforge/internal/storage"
	"studyforge/internal/ui"
)

func newSettingsCmd() *cobra.Command {
	var theme string
	var autoCollect, sound, notifications bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Long: `Without flags, print the current settings. With flags, change only the
named settings, e.g.
  sf settings --theme midnight --sound=false`,
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

			var patch engine.SettingsPatch
			changed := false
			flags := cmd.Flags()
			if flags.Changed("theme") {
				if !p.OwnsTheme(theme) {
					return fmt.Errorf("theme %q is not unlocked (owned: %s)", theme, strings.Join(p.OwnedThemes, ", "))
				}
				patch.Theme = &theme
				changed = true
			}
			if flags.Changed("auto-collect") {
				patch.AutoCollect = &autoCollect
				changed = true
			}
			if flags.Changed("sound") {
				patch.SoundEnabled = &sound
				changed = true
			}
			if flags.Changed("notifications") {
				patch.NotificationsEnabled = &notifications
				changed = true
			}

			if changed {
				if err := forge.UpdateSettings(ctx, patch); err != nil {
					return err
				}
				if p, err = forge.Snapshot(ctx); err != nil {
					return err
				}
				ui.Apply(p.Settings.Theme)
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" Settings saved"))
			}
			printSettings(cmd, p.Settings, p.OwnedUpgrades[engine.UpgradeAutoCollect])
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Theme id (must be owned)")
	cmd.Flags().BoolVar(&autoCollect, "auto-collect", true, "Credit idle XP automatically (needs the auto_collect upgrade)")
	cmd.Flags().BoolVar(&sound, "sound", true, "Sound effects")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "Notifications")
	return cmd
}

func printSettings(cmd *cobra.Command, s storage.Settings, ownsAutoCollect bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Heading(ui.IconGear, "Settings"))
	fmt.Fprintln(out, ui.LabelValue("Theme", s.Theme))
	auto := ui.OnOff(s.AutoCollect)
	if !ownsAutoCollect {
		auto += ui.Muted.Render(" (upgrade not owned)")
	}
	fmt.Fprintln(out, ui.LabelValue("Auto-collect", auto))
	fmt.Fprintln(out, ui.LabelValue("Sound", ui.OnOff(s.SoundEnabled)))
	fmt.Fprintln(out, ui.LabelValue("Notifications", ui.OnOff(s.NotificationsEnabled)))
}
