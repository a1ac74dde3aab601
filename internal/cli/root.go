package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/actlog-project/actlog/pkg/color"
)

var (
	jsonOutput bool
	noColor    bool
	logDirFlag string

	rootCmd = &cobra.Command{
		Use:   "actlog",
		Short: "Actlog - desktop activity logger",
		Long: `Actlog observes a desktop workstation and keeps structured, append-only
logs of what happened on it: file changes under watched directories,
application switches, and optional LLM risk analysis of changed code.

Each observation is one JSON line in a per-category log under the log
directory (files.log, apps.log, llm_analysis.log).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color.Init(noColor)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logDirFlag, "log-dir", "", "override the log directory")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtErr(format string, args ...any) {
	prefix := "actlog: "
	if color.Enabled() {
		prefix = color.Error("actlog:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
