package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/linmole/internal/config"
	"github.com/lakshaymaurya-felt/linmole/internal/fsops"
	"github.com/lakshaymaurya-felt/linmole/internal/logging"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove linmole from this system",
	Long:  "Delete the lm binary, its configuration directory, and its log files.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemove()
	},
}

func runRemove() error {
	binary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate installed binary: %w", err)
	}
	confDir := filepath.Dir(config.Path())
	logDir := filepath.Dir(logging.LogPath())

	fmt.Println("  This removes:")
	fmt.Println("    " + binary)
	fmt.Println("    " + confDir)
	fmt.Println("    " + logDir)
	fmt.Print("  Continue? [y/N] ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil || strings.TrimSpace(strings.ToLower(line)) != "y" {
		fmt.Println("  Aborted.")
		return nil
	}

	exec := fsops.New(false, nil)
	exec.DeleteTree(confDir)
	exec.DeleteTree(logDir)
	exec.DeleteFile(binary)
	for _, w := range exec.Warnings() {
		fmt.Println("  " + w)
	}
	fmt.Println("  Removed. Goodbye.")
	return nil
}
