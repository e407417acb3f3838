package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/linmole/internal/logging"
	"github.com/lakshaymaurya-felt/linmole/internal/update"
)

var updateForce bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update linmole",
	Long:  "Check for and install the latest version. The running binary is replaced atomically; any failure leaves it untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd, updateForce)
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "Reinstall even when already on the latest version")
}

func runUpdate(cmd *cobra.Command, force bool) error {
	target, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate installed binary: %w", err)
	}

	current := appVersion
	if force {
		// A deliberately non-matching current version makes any remote
		// version look new, forcing the download.
		current = ""
	}

	mgr := update.NewManager(logging.New(debug))
	stat, err := mgr.Run(cmd.Context(), current, target, confirmUpdate)
	if err != nil {
		return err
	}

	switch stat {
	case update.StatusUpToDate:
		fmt.Printf("  Already on the latest version (%s).\n", appVersion)
	case update.StatusDeclined:
		fmt.Println("  Update declined.")
	case update.StatusUpdated:
		fmt.Println("  Updated. Restart lm to use the new version.")
	}
	return nil
}

func confirmUpdate(current, remote string) bool {
	if current == "" {
		current = "unknown"
	}
	fmt.Printf("  Update %s -> %s? [y/N] ", current, remote)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(line)) == "y"
}
