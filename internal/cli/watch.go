package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/actlog-project/actlog/internal/monitor"
	"github.com/actlog-project/actlog/pkg/color"
)

var (
	watchNoApps   bool
	watchAnalyze  bool
	watchInterval string
)

var watchCmd = &cobra.Command{
	Use:   "watch [path...]",
	Short: "Watch directories and log activity",
	Long: `Watch directories and log activity.

Without arguments the configured watch paths are used. File changes are
appended to files.log and, on macOS, application switches to apps.log.
With analysis enabled each captured change is also sent to the local
inference endpoint and the risk classification appended to
llm_analysis.log.

Watching runs in the foreground until interrupted.

Examples:
  actlog watch                     # Watch configured paths
  actlog watch ~/projects          # Watch a specific tree
  actlog watch --analyze           # Force LLM analysis on
  actlog watch --no-apps           # File changes only
  actlog watch --interval 5s       # Slower app polling`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig()
		if watchInterval != "" {
			cfg.App.PollInterval = watchInterval
		}

		m, err := monitor.New(monitor.Options{
			Config:  cfg,
			Paths:   args,
			Analyze: watchAnalyze,
			NoApps:  watchNoApps,
			Logger:  newLoggerFor(cfg),
		})
		if err != nil {
			fmtErr("start monitor: %v", err)
			os.Exit(1)
		}
		defer m.Close()

		if !jsonOutput {
			fmt.Printf("Logging to %s\n", color.Path(cfg.Log.Dir))
			for _, root := range m.Roots() {
				fmt.Printf("Watching %s\n", color.Path(root))
			}
			fmt.Println(color.Dim("Press Ctrl-C to stop."))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		m.Run(ctx)

		summary := m.Summary()
		if jsonOutput {
			outputJSON(summary)
			return
		}
		fmt.Printf("\nStopped. %d file events, %d skipped, %d app switches, %d records written",
			summary.FileEvents, summary.FileSkipped, summary.AppSwitches, summary.RecordsWritten)
		if summary.Analyses > 0 || summary.AnalysisErrors > 0 {
			fmt.Printf(", %d analyses (%d failed)", summary.Analyses, summary.AnalysisErrors)
		}
		fmt.Println(".")
		if summary.WriteErrors > 0 {
			fmtErr("%d records failed to write", summary.WriteErrors)
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoApps, "no-apps", false, "disable application switch logging")
	watchCmd.Flags().BoolVar(&watchAnalyze, "analyze", false, "force LLM analysis on")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "application poll interval (e.g. 2s)")
	rootCmd.AddCommand(watchCmd)
}
