package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/actlog-project/actlog/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config <command>",
	Short: "Manage actlog configuration",
	Long: `Manage actlog configuration stored in ~/.actlog/config.yaml.

Settable keys:
  app.enabled          - Log application switches (true, false)
  app.poll_interval    - Application poll interval (e.g. 2s)
  log.dir              - Directory for the event logs
  analysis.enabled     - Send changes for LLM analysis (true, false)
  analysis.base_url    - OpenAI-compatible endpoint base URL
  analysis.model       - Model identifier for analysis requests
  export.endpoint      - Collector endpoint for exports
  export.kafka_topic   - Kafka topic for exports
  logging.level        - Log verbosity (debug, info, warn, error)
  logging.format       - Log encoding (text, json)

Available commands:
  show              - Show current configuration
  set <key> <value> - Set a configuration value
  get <key>         - Get a configuration value`,
	DisableFlagsInUseLine: true,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Show the current actlog configuration from ~/.actlog/config.yaml.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig()

		if jsonOutput {
			outputJSON(cfg)
			return
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmtErr("encode config: %v", err)
			os.Exit(1)
		}
		fmt.Printf("# Location: %s/config.yaml\n\n", requireBaseDir())
		os.Stdout.Write(data)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig()
		value, err := cfg.Get(args[0])
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
		if jsonOutput {
			outputJSON(map[string]string{args[0]: value})
			return
		}
		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in ~/.actlog/config.yaml.

Examples:
  actlog config set app.poll_interval 5s
  actlog config set analysis.enabled true
  actlog config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		base := requireBaseDir()
		cfg, err := config.Load(base)
		if err != nil {
			fmtErr("load config: %v", err)
			os.Exit(1)
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
		if err := config.Save(base, cfg); err != nil {
			fmtErr("save config: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
