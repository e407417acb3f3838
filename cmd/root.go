package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/linmole/internal/clean"
	"github.com/lakshaymaurya-felt/linmole/internal/config"
	"github.com/lakshaymaurya-felt/linmole/internal/logging"
	"github.com/lakshaymaurya-felt/linmole/internal/menu"
	"github.com/lakshaymaurya-felt/linmole/internal/pkgmgr"
	"github.com/lakshaymaurya-felt/linmole/internal/runner"
	"github.com/lakshaymaurya-felt/linmole/internal/update"
)

var (
	// Global flags
	debug  bool
	dryRun bool

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "lm",
	Short: "Deep clean and optimize your Linux",
	Long: `linmole - Deep clean and optimize your Linux.

A Linux port of Mole (https://github.com/tw93/Mole).
All-in-one toolkit for system cleanup, disk analysis,
and big-file hunting, with a dry-run mode for everything.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			return cmd.Help()
		}
		return runInteractiveMenu(cmd)
	},
}

// Execute runs the root command under the given context; cancellation stops
// in-flight scans and downloads.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// newCleanEnv wires the collaborators every cleanup path shares. A missing
// package manager is not fatal; the package-cache routine is simply skipped.
func newCleanEnv(dry bool) *clean.Env {
	log := logging.New(debug)
	cfg := config.Load()
	run := runner.New(log)

	pkg, err := pkgmgr.Detect(run)
	if err != nil {
		log.WithError(err).Debug("no supported package manager")
	}

	return &clean.Env{
		DryRun: dry || cfg.DryRun(),
		Runner: run,
		Pkg:    pkg,
		Cfg:    cfg,
		Log:    log,
	}
}

// backgroundUpdateNotice runs the silent periodic update check. It never
// surfaces errors; the returned string is empty or a one-line hint.
func backgroundUpdateNotice() string {
	log := logging.New(debug)
	cfg := config.Load()
	mgr := update.NewManager(log)
	return mgr.MaybeBackgroundCheck(appVersion, cfg.LastUpdateCheck(), func(t time.Time) {
		if err := cfg.SetLastUpdateCheck(t); err != nil {
			log.WithError(err).Debug("cannot persist update check time")
		}
	})
}

// runInteractiveMenu launches the main menu and dispatches the selection.
func runInteractiveMenu(cmd *cobra.Command) error {
	noticeCh := make(chan string, 1)
	go func() { noticeCh <- backgroundUpdateNotice() }()

	action, err := menu.Run(appVersion)
	if err != nil {
		return err
	}

	select {
	case notice := <-noticeCh:
		if notice != "" {
			fmt.Println(notice)
		}
	default:
	}

	switch action {
	case menu.ActionClean:
		return runClean(newCleanEnv(false), nil)
	case menu.ActionPreview:
		return runClean(newCleanEnv(true), nil)
	case menu.ActionAnalyze:
		return runAnalyze(cmd, "")
	case menu.ActionStatus:
		return runStatus()
	case menu.ActionUpdate:
		return runUpdate(cmd, false)
	}
	return nil
}
