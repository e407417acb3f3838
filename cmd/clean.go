package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/linmole/internal/clean"
	"github.com/lakshaymaurya-felt/linmole/internal/ui"
)

var cleanFlags struct {
	user     bool
	dev      bool
	temp     bool
	logs     bool
	docker   bool
	journal  bool
	packages bool
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Deep cleanup of caches, rotated logs, temp files, journald entries,
and package manager leftovers. With no category flags, every category runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := newCleanEnv(dryRun)
		return runClean(env, selectedRoutines(env))
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup plan without deleting")
	cleanCmd.Flags().BoolVar(&cleanFlags.user, "user", false, "User caches only")
	cleanCmd.Flags().BoolVar(&cleanFlags.dev, "dev", false, "Developer tool caches only")
	cleanCmd.Flags().BoolVar(&cleanFlags.temp, "temp", false, "Aged temp files only")
	cleanCmd.Flags().BoolVar(&cleanFlags.logs, "logs", false, "Rotated logs only")
	cleanCmd.Flags().BoolVar(&cleanFlags.docker, "docker", false, "Docker container logs only")
	cleanCmd.Flags().BoolVar(&cleanFlags.journal, "journal", false, "Journald vacuum only")
	cleanCmd.Flags().BoolVar(&cleanFlags.packages, "packages", false, "Package manager cache only")
}

// selectedRoutines maps category flags to routines. No flags means the full
// sequence; nil tells runClean to use it.
func selectedRoutines(env *clean.Env) []clean.Routine {
	var rs []clean.Routine
	if cleanFlags.user {
		rs = append(rs, clean.UserCaches())
	}
	if cleanFlags.dev {
		rs = append(rs, clean.DevCaches())
	}
	if cleanFlags.temp {
		rs = append(rs, clean.AgedTempFiles())
	}
	if cleanFlags.logs {
		rs = append(rs, clean.RotatedLogs())
	}
	if cleanFlags.docker {
		rs = append(rs, clean.DockerLogs())
	}
	if cleanFlags.journal {
		rs = append(rs, clean.JournalVacuum())
	}
	if cleanFlags.packages && env.Pkg != nil {
		rs = append(rs, clean.PackageCache())
	}
	return rs
}

// runClean executes the routines and renders the per-routine summary.
// routines == nil runs the full deep-clean sequence.
func runClean(env *clean.Env, routines []clean.Routine) error {
	if routines == nil {
		routines = clean.Routines(env)
	}

	header := "Deep clean"
	if env.DryRun {
		header += " (dry run, nothing deleted)"
	}
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).
		Render("  " + ui.IconDiamond + " " + header))
	fmt.Println()

	var results []clean.Result
	for _, r := range routines {
		fmt.Printf("  %s %s...\n", ui.IconArrow, r.Name)
		results = append(results, clean.RunRoutine(env, r))
	}
	fmt.Println()
	printCleanSummary(results, env.DryRun)
	return nil
}

func printCleanSummary(results []clean.Result, dry bool) {
	good := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	warn := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	bad := lipgloss.NewStyle().Foreground(ui.ColorDanger)
	dim := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	var totalRemoved, totalFreed int64
	for _, res := range results {
		totalRemoved += res.BytesRemoved
		totalFreed += res.BytesFreed

		icon := good.Render(ui.IconCheck)
		if res.Err != nil {
			icon = bad.Render(ui.IconCross)
		} else if len(res.Warnings) > 0 {
			icon = warn.Render(ui.IconWarn)
		}

		line := fmt.Sprintf("  %s %-26s %s", icon, res.Name, ui.FormatBytes(res.BytesRemoved))
		if !dry && res.BytesFreed != res.BytesRemoved {
			line += dim.Render(fmt.Sprintf("  (freed %s)", ui.FormatBytes(res.BytesFreed)))
		}
		fmt.Println(line)

		if res.Err != nil {
			fmt.Println(bad.Render("      " + res.Err.Error()))
		}
		for _, w := range res.Warnings {
			fmt.Println(warn.Render("      " + w))
		}
	}

	fmt.Println(dim.Render("  " + strings.Repeat("─", 48)))
	label := "removed"
	if dry {
		label = "would remove"
	}
	fmt.Printf("  Total %s: %s", label, ui.FormatBytes(totalRemoved))
	if !dry {
		fmt.Printf("  %s", lipgloss.NewStyle().Foreground(ui.ColorSuccess).
			Render(fmt.Sprintf("(%s actually freed)", ui.FormatBytes(totalFreed))))
	}
	fmt.Println()
}
