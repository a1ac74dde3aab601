package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/actlog-project/actlog/internal/journal"
	"github.com/actlog-project/actlog/pkg/color"
	"github.com/actlog-project/actlog/pkg/model"
)

var (
	historyLimit int
	historyGrep  string
)

var historyCmd = &cobra.Command{
	Use:   "history [files|apps|analysis]",
	Short: "Show recently logged events",
	Long: `Show recently logged events from a category log.

The newest events are shown last. Use --grep to filter by path (for
file and analysis events) or application name (for app events).

Examples:
  actlog history                 # Last file events
  actlog history apps            # Last app switches
  actlog history analysis        # Last risk classifications
  actlog history -n 50           # More of them
  actlog history --grep main.py  # Only events touching main.py`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig()

		category := journal.CategoryFiles
		if len(args) == 1 {
			var err error
			category, err = journal.ParseCategory(args[0])
			if err != nil {
				fmtErr("%v", err)
				os.Exit(1)
			}
		}
		if category == journal.CategoryAnalysis {
			showAnalysisHistory(cfg.Log.Dir)
			return
		}

		path := filepath.Join(cfg.Log.Dir, category.Filename())
		var (
			records   []model.Record
			malformed int
			err       error
		)
		if historyGrep == "" {
			records, err = journal.Tail(path, historyLimit)
		} else {
			// Filter first, then keep the newest matches.
			records, malformed, err = journal.ReadRecords(path)
			records = filterRecords(records, historyGrep)
			if historyLimit > 0 && len(records) > historyLimit {
				records = records[len(records)-historyLimit:]
			}
		}
		if err != nil {
			fmtErr("read %s: %v", path, err)
			os.Exit(1)
		}

		if jsonOutput {
			if records == nil {
				records = []model.Record{}
			}
			outputJSON(records)
			return
		}

		if len(records) == 0 {
			fmt.Println("No events logged yet.")
			return
		}
		for _, rec := range records {
			fmt.Println(formatRecord(rec))
		}
		if malformed > 0 {
			fmtErr("%d malformed lines skipped", malformed)
		}
	},
}

func showAnalysisHistory(dir string) {
	path := filepath.Join(dir, journal.CategoryAnalysis.Filename())
	records, malformed, err := journal.ReadAnalysisRecords(path)
	if err != nil {
		fmtErr("read %s: %v", path, err)
		os.Exit(1)
	}
	if historyGrep != "" {
		var filtered []model.AnalysisRecord
		for _, rec := range records {
			if strings.Contains(rec.Path, historyGrep) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	if historyLimit > 0 && len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	if jsonOutput {
		if records == nil {
			records = []model.AnalysisRecord{}
		}
		outputJSON(records)
		return
	}

	if len(records) == 0 {
		fmt.Println("No analyses logged yet.")
		return
	}
	for _, rec := range records {
		ts := rec.Timestamp.Local().Format(time.DateTime)
		risk := color.Dim("no risk object")
		if rec.Risk != nil {
			risk = color.Riskf(rec.Risk.RiskLevel, rec.Risk.Confidence)
		}
		fmt.Printf("%s  %s  %s\n", color.Dim(ts), risk, color.Path(rec.Path))
	}
	if malformed > 0 {
		fmtErr("%d malformed lines skipped", malformed)
	}
}

func filterRecords(records []model.Record, needle string) []model.Record {
	var out []model.Record
	for _, rec := range records {
		if recordMatches(rec, needle) {
			out = append(out, rec)
		}
	}
	return out
}

func recordMatches(rec model.Record, needle string) bool {
	switch rec.Event {
	case model.KindFileEvent:
		data, err := rec.FileData()
		return err == nil && strings.Contains(data.Path, needle)
	case model.KindAppEvent:
		data, err := rec.AppData()
		return err == nil && (strings.Contains(data.Name, needle) || strings.Contains(data.BundleID, needle))
	}
	return false
}

func formatRecord(rec model.Record) string {
	ts := rec.Timestamp.Local().Format(time.DateTime)
	switch rec.Event {
	case model.KindFileEvent:
		data, err := rec.FileData()
		if err != nil {
			return fmt.Sprintf("%s  %s", color.Dim(ts), color.Error("unreadable file event"))
		}
		line := fmt.Sprintf("%s  %-8s  %s", color.Dim(ts), color.ChangeType(data.Type), color.Path(data.Path))
		if len(data.Related) > 0 {
			line += color.Dim(fmt.Sprintf("  (+%d related)", len(data.Related)))
		}
		return line
	case model.KindAppEvent:
		data, err := rec.AppData()
		if err != nil {
			return fmt.Sprintf("%s  %s", color.Dim(ts), color.Error("unreadable app event"))
		}
		return fmt.Sprintf("%s  %-8s  %s %s", color.Dim(ts), string(data.Type), data.Name, color.Dim(data.BundleID))
	}
	return fmt.Sprintf("%s  %s", color.Dim(ts), string(rec.Event))
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of events to show")
	historyCmd.Flags().StringVar(&historyGrep, "grep", "", "filter by path or application name substring")
	rootCmd.AddCommand(historyCmd)
}
