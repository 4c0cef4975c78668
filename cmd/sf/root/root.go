package root

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"studyforge/internal/config"
	"studyforge/internal/logging"
	"studyforge/internal/ui"
)

const Version = "0.1.0"

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sf",
		Short:         "StudyForge: local-first study progression",
		Long:          "StudyForge turns study sessions into XP, levels, daily missions and upgrades, stored in a local SQLite file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			c, err := config.Load(path)
			if err != nil {
				return err
			}
			if verbose {
				c.LogLevel = "debug"
			}
			cfg = c

			logFile := cfg.LogFile
			if logFile == "" {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				logFile = filepath.Join(dir, "sf.log")
			}
			l, err := logging.New(cfg.LogLevel, logFile)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.studyforge/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(
		newStatusCmd(),
		newAwardCmd(),
		newShopCmd(),
		newBuyCmd(),
		newMissionsCmd(),
		newClaimCmd(),
		newCollectCmd(),
		newSettingsCmd(),
		newLogCmd(),
		newBoardCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
