package cmd

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/linmole/internal/config"
	"github.com/lakshaymaurya-felt/linmole/internal/fsops"
	"github.com/lakshaymaurya-felt/linmole/internal/ui"
)

var purgeFlags struct {
	minSize string
	limit   int
	delete  bool
}

var purgeCmd = &cobra.Command{
	Use:   "purge [path]",
	Short: "Find and remove big files",
	Long: `Scan a directory tree for files above a size threshold and list them
largest first. With --delete, each listed file is confirmed and removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := ""
		if len(args) == 1 {
			root = args[0]
		}
		return runPurge(root)
	},
}

func init() {
	purgeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without deleting")
	purgeCmd.Flags().StringVar(&purgeFlags.minSize, "min-size", "", "Size threshold, e.g. 500MB (default from config)")
	purgeCmd.Flags().IntVar(&purgeFlags.limit, "limit", 30, "Maximum number of files to list")
	purgeCmd.Flags().BoolVar(&purgeFlags.delete, "delete", false, "Prompt to delete each listed file")
}

type bigFile struct {
	path string
	size int64
}

func runPurge(root string) error {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("no path given and no home directory: %w", err)
		}
		root = home
	}

	cfg := config.Load()
	threshold, err := parseSize(purgeFlags.minSize)
	if err != nil {
		return err
	}
	if threshold == 0 {
		threshold = cfg.BigFileMinBytes()
	}

	found := findBigFiles(root, fsops.MinSize(threshold-1))
	if len(found) == 0 {
		fmt.Printf("  No files over %s under %s.\n", ui.FormatBytes(threshold), root)
		return nil
	}
	if len(found) > purgeFlags.limit {
		found = found[:purgeFlags.limit]
	}

	dim := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).
		Render(fmt.Sprintf("  %s Files over %s", ui.IconDiamond, ui.FormatBytes(threshold))))
	for i, f := range found {
		fmt.Printf("  %s %10s  %s\n", dim.Render(fmt.Sprintf("%3d.", i+1)), ui.FormatBytes(f.size), f.path)
	}

	if !purgeFlags.delete {
		return nil
	}
	return deleteBigFiles(found, dryRun || cfg.DryRun())
}

// findBigFiles walks the tree collecting regular files that satisfy match,
// sorted largest first. Unreadable subtrees are skipped.
func findBigFiles(root string, match fsops.Predicate) []bigFile {
	var found []bigFile
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if match.Matches(d.Name(), info) {
			found = append(found, bigFile{path: path, size: info.Size()})
		}
		return nil
	})
	sort.Slice(found, func(i, j int) bool { return found[i].size > found[j].size })
	return found
}

// purgeDelete deletes each confirmed file through the guarded executor. A
// file whose deletion was refused or failed is not counted toward the
// removed total; its warning is returned instead.
func purgeDelete(exec *fsops.Executor, files []bigFile, confirm func(bigFile) bool) (int64, []string) {
	var removed int64
	var warnings []string
	for _, f := range files {
		if !confirm(f) {
			continue
		}
		exec.DeleteFile(f.path)
		if w := exec.Warnings(); len(w) > 0 {
			warnings = append(warnings, w...)
			continue
		}
		removed += f.size
	}
	return removed, warnings
}

func deleteBigFiles(files []bigFile, dry bool) error {
	reader := bufio.NewReader(os.Stdin)
	warn := lipgloss.NewStyle().Foreground(ui.ColorWarning)

	removed, warnings := purgeDelete(fsops.New(dry, nil), files, func(f bigFile) bool {
		fmt.Printf("  Delete %s (%s)? [y/N] ", f.path, ui.FormatBytes(f.size))
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		return strings.TrimSpace(strings.ToLower(line)) == "y"
	})
	for _, w := range warnings {
		fmt.Println(warn.Render("  " + ui.IconWarn + " " + w))
	}

	label := "Removed"
	if dry {
		label = "Would remove"
	}
	fmt.Printf("  %s %s.\n", label, ui.FormatBytes(removed))
	return nil
}
