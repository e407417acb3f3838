package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/linmole/internal/analyze"
	"github.com/lakshaymaurya-felt/linmole/internal/config"
)

var analyzeFlags struct {
	depth   int
	minSize string
	timeout time.Duration
	static  bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Explore disk usage",
	Long: `Interactive disk space analyzer with a visual tree view.
If the scan exceeds --timeout, the partial tree collected so far is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := ""
		if len(args) == 1 {
			root = args[0]
		}
		return runAnalyze(cmd, root)
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeFlags.depth, "depth", 0, "Maximum directory depth to display (tree output)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.minSize, "min-size", "", "Minimum size to display, e.g. 100MB (tree output)")
	analyzeCmd.Flags().DurationVar(&analyzeFlags.timeout, "timeout", 2*time.Minute, "Scan time budget")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.static, "tree", false, "Print a plain tree instead of the interactive browser")
}

func runAnalyze(cmd *cobra.Command, root string) error {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("no path given and no home directory: %w", err)
		}
		root = home
	}

	minSize, err := parseSize(analyzeFlags.minSize)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeFlags.timeout)
	defer cancel()

	s := analyze.NewScanner(8)
	interactive := !analyzeFlags.static && isatty.IsTerminal(os.Stdout.Fd())

	var tree *analyze.Entry
	if interactive {
		// Scan behind a live spinner; q aborts.
		final, err := tea.NewProgram(analyze.NewScanModel(ctx, s, root)).Run()
		if err != nil {
			return err
		}
		sm := final.(analyze.ScanModel)
		if sm.Err != nil {
			return fmt.Errorf("scan %s: %w", root, sm.Err)
		}
		tree = sm.Tree
	} else {
		fmt.Printf("  Scanning %s...\n", root)
		if tree, err = s.Scan(ctx, root); err != nil {
			return fmt.Errorf("scan %s: %w", root, err)
		}
	}

	if s.Partial() {
		fmt.Println("  Scan timed out, showing partial data.")
	}

	if !interactive {
		analyze.PrintTree(tree, analyzeFlags.depth, minSize)
		return nil
	}

	browser := analyze.NewBrowser(tree, s.Partial(), config.Load().DryRun())
	p := tea.NewProgram(browser, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// parseSize parses human sizes like 100MB, 1.5GB, 2GiB. Empty means zero.
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}

	mult := int64(1)
	for _, u := range []struct {
		suffix string
		factor int64
	}{
		{"GIB", 1 << 30}, {"GB", 1 << 30}, {"G", 1 << 30},
		{"MIB", 1 << 20}, {"MB", 1 << 20}, {"M", 1 << 20},
		{"KIB", 1 << 10}, {"KB", 1 << 10}, {"K", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.factor
			s = strings.TrimSuffix(s, u.suffix)
			break
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return int64(v * float64(mult)), nil
}
