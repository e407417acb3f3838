package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/linmole/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show disk and system overview",
	Long:  "One-shot overview of mounted filesystems, memory pressure, and uptime.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus()
	},
}

func runStatus() error {
	report, err := status.Collect()
	if err != nil {
		return err
	}
	fmt.Print(status.Render(report))
	return nil
}
