package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/actlog-project/actlog/internal/export"
	"github.com/actlog-project/actlog/internal/journal"
)

var (
	exportEndpoint     string
	exportKafkaBrokers []string
	exportKafkaTopic   string
	exportBatchSize    int
	exportResetCursor  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <files|apps|analysis>",
	Short: "Ship logged events to a remote collector",
	Long: `Ship logged events to a remote collector.

Reads the category log from the last exported position and forwards the
new lines in batches, over HTTP or Kafka. The position is committed
after each delivered batch, so an interrupted export resumes without
resending.

Examples:
  actlog export files --endpoint https://collector.example.com/ingest
  actlog export apps --kafka-brokers broker:9092 --kafka-topic actlog.apps
  actlog export files --reset-cursor   # Resend the whole log`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig()

		category, err := journal.ParseCategory(args[0])
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		endpoint := exportEndpoint
		if endpoint == "" {
			endpoint = cfg.Export.Endpoint
		}
		brokers := exportKafkaBrokers
		if len(brokers) == 0 {
			brokers = cfg.Export.KafkaBrokers
		}
		topic := exportKafkaTopic
		if topic == "" {
			topic = cfg.Export.KafkaTopic
		}
		batchSize := exportBatchSize
		if batchSize <= 0 {
			batchSize = cfg.Export.BatchSize
		}

		var sender export.Sender
		switch {
		case endpoint != "":
			sender = export.NewHTTPSender(endpoint)
		case len(brokers) > 0 && topic != "":
			sender = export.NewKafkaSender(brokers, topic)
		default:
			fmtErr("no collector configured: set --endpoint or --kafka-brokers and --kafka-topic")
			os.Exit(1)
		}
		defer sender.Close()

		if exportResetCursor {
			if err := export.NewCursor(cfg.Log.Dir).Reset(category); err != nil {
				fmtErr("reset cursor: %v", err)
				os.Exit(1)
			}
		}

		e := export.New(export.Options{
			Dir:        cfg.Log.Dir,
			Sender:     sender,
			BatchSize:  batchSize,
			MaxRetries: cfg.Export.MaxRetries,
			Logger:     newLoggerFor(cfg),
		})
		res, err := e.Run(cmd.Context(), category)
		if err != nil {
			fmtErr("export %s: %v", category, err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(res)
			return
		}
		if res.Records == 0 {
			fmt.Println("Nothing new to export.")
			return
		}
		fmt.Printf("Exported %d records in %d batches via %s.\n", res.Records, res.Batches, sender.Name())
		if res.Skipped > 0 {
			fmtErr("%d malformed lines skipped", res.Skipped)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportEndpoint, "endpoint", "", "collector HTTP endpoint")
	exportCmd.Flags().StringSliceVar(&exportKafkaBrokers, "kafka-brokers", nil, "Kafka broker addresses")
	exportCmd.Flags().StringVar(&exportKafkaTopic, "kafka-topic", "", "Kafka topic")
	exportCmd.Flags().IntVar(&exportBatchSize, "batch-size", 0, "records per batch")
	exportCmd.Flags().BoolVar(&exportResetCursor, "reset-cursor", false, "forget the export position and resend everything")
	rootCmd.AddCommand(exportCmd)
}
