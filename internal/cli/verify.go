package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/actlog-project/actlog/internal/journal"
	"github.com/actlog-project/actlog/pkg/color"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [files|apps|analysis]",
	Short: "Verify the integrity of the event logs",
	Long: `Verify the integrity of the event logs.

Every line of each log is checked: it must be valid JSON, carry the
required keys, and timestamps must not go backwards. Without an
argument all categories are verified.

Exit status is non-zero when any finding is reported.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig()

		categories := []journal.Category{journal.CategoryFiles, journal.CategoryApps, journal.CategoryAnalysis}
		if len(args) == 1 {
			category, err := journal.ParseCategory(args[0])
			if err != nil {
				fmtErr("%v", err)
				os.Exit(1)
			}
			categories = []journal.Category{category}
		}

		var results []journal.VerifyResult
		clean := true
		for _, category := range categories {
			res, err := journal.Verify(cfg.Log.Dir, category)
			if err != nil {
				fmtErr("verify %s: %v", category, err)
				os.Exit(1)
			}
			results = append(results, res)
			if !res.OK() {
				clean = false
			}
		}

		if jsonOutput {
			outputJSON(results)
		} else {
			for _, res := range results {
				printVerifyResult(res)
			}
		}
		if !clean {
			os.Exit(1)
		}
	},
}

func printVerifyResult(res journal.VerifyResult) {
	if res.OK() {
		fmt.Printf("%s %s (%d lines)\n", color.Success("ok"), res.Path, res.Lines)
		return
	}
	fmt.Printf("%s %s (%d lines, %d findings)\n", color.Error("corrupt"), res.Path, res.Lines, len(res.Findings))
	for _, f := range res.Findings {
		fmt.Printf("  line %d: %s\n", f.Line, f.Problem)
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
