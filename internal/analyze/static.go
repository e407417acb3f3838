package analyze

import (
	"fmt"
	"strings"

	"github.com/lakshaymaurya-felt/linmole/internal/ui"
)

// PrintTree prints a plain-text tree of the scan result for non-TTY output
// (pipes, scripts, CI). Children were already sorted largest-first by the
// scanner.
func PrintTree(root *Entry, maxDepth int, minSize int64) {
	if root == nil {
		fmt.Println("  No data to display.")
		return
	}

	fmt.Printf("  Disk usage: %s\n", root.Path)
	fmt.Printf("  Total size: %s\n", ui.FormatBytes(root.Size))
	fmt.Println("  " + strings.Repeat("-", 58))
	printEntry(root, "", true, 0, maxDepth, minSize)
}

// maxPerLevel caps the entries shown per directory level.
const maxPerLevel = 20

func printEntry(e *Entry, prefix string, isLast bool, depth, maxDepth int, minSize int64) {
	if e == nil {
		return
	}
	if maxDepth > 0 && depth > maxDepth {
		return
	}
	if minSize > 0 && e.Size < minSize {
		return
	}

	connector := "+-- "
	childPrefix := "|   "
	if isLast {
		connector = "\\-- "
		childPrefix = "    "
	}
	if depth == 0 {
		connector = ""
		childPrefix = ""
	}

	marker := ""
	if e.IsDir {
		marker = "/"
	}
	fmt.Printf("  %s%s%s%s  %s\n", prefix, connector, e.Name, marker, ui.FormatBytes(e.Size))

	if !e.IsDir || len(e.Children) == 0 {
		return
	}
	shown := e.Children
	if len(shown) > maxPerLevel {
		shown = shown[:maxPerLevel]
	}
	for i, c := range shown {
		printEntry(c, prefix+childPrefix, i == len(shown)-1, depth+1, maxDepth, minSize)
	}
	if rest := len(e.Children) - len(shown); rest > 0 {
		fmt.Printf("  %s\\-- ... and %d more entries\n", prefix+childPrefix, rest)
	}
}
