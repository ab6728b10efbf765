package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/infra/fsworkspace"
	"github.com/mdjska/daylight-analysis/internal/infra/logger"
	"github.com/mdjska/daylight-analysis/internal/infra/workspacefinder"
	"github.com/mdjska/daylight-analysis/internal/ui/tui"
)

// Execute runs the root command with a context that cancels on SIGINT or
// SIGTERM, so an interrupted simulation still kills the engine subprocess
// and records the run as failed.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var cleanup func() error

	cmd := &cobra.Command{
		Use:          "daylight",
		Short:        "Daylight-factor analysis for IFC-derived room models",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			logRoot := wd
			if root, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
				logRoot = root
			}

			cleanup, _ = logger.Setup(logger.Config{
				Root:  logRoot,
				Debug: debug,
			})
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cleanup != nil {
				_ = cleanup()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			deps := tui.Deps{
				WorkspaceLocator:     workspacefinder.NewFinder(),
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Logger:               logger.L(),
				Debug:                debug,
			}
			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .daylight/logs/daylight.log")

	cmd.AddCommand(
		runCmd(),
		spacesCmd(),
		modelCmd(),
		runsCmd(),
		reportCmd(),
		validateCmd(),
		doctorCmd(),
		initCmd(),
		versionCmd(),
	)
	return cmd
}
