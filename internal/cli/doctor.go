package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/actlog-project/actlog/internal/doctor"
	"github.com/actlog-project/actlog/pkg/color"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the monitoring setup",
	Long: `Check the monitoring setup.

Verifies that the configured watch paths exist, the log directory is
writable, application watching is available on this platform, and the
analysis endpoint responds when analysis is enabled.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig()
		rep := doctor.Run(cmd.Context(), cfg)

		if jsonOutput {
			outputJSON(rep)
		} else if len(rep.Findings) == 0 {
			fmt.Println("Setup is healthy.")
		} else {
			fmt.Printf("Findings (%d):\n", len(rep.Findings))
			for _, f := range rep.Findings {
				severity := string(f.Severity)
				if f.Severity == doctor.SeverityError {
					severity = color.Error(severity)
				} else {
					severity = color.Warning(severity)
				}
				fmt.Printf("  [%s] %s: %s\n", severity, f.Check, f.Description)
			}
		}

		if !rep.Healthy() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
