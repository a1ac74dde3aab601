// Package config provides configuration file support for actlog.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/actlog-project/actlog/pkg/errclass"
	"github.com/actlog-project/actlog/pkg/fsutil"
	"github.com/actlog-project/actlog/pkg/pathutil"
)

// Config represents the actlog configuration, stored at <base>/config.yaml.
type Config struct {
	Watch    WatchConfig    `yaml:"watch"`
	App      AppConfig      `yaml:"app"`
	Log      LogConfig      `yaml:"log"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Paths       []string `yaml:"paths"`
	Extensions  []string `yaml:"extensions"`
	SkipDirs    []string `yaml:"skip_dirs"`
	MinFileSize int64    `yaml:"min_file_size"`
	MaxFileSize int64    `yaml:"max_file_size"`
}

// AppConfig configures the application-switch watcher.
type AppConfig struct {
	Enabled      bool   `yaml:"enabled"`
	PollInterval string `yaml:"poll_interval"`
}

// LogConfig configures where event journals are written.
type LogConfig struct {
	Dir string `yaml:"dir"`
}

// AnalysisConfig configures the local inference endpoint.
type AnalysisConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// ExportConfig configures shipping records to a remote collector.
type ExportConfig struct {
	Endpoint     string   `yaml:"endpoint"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	BatchSize    int      `yaml:"batch_size"`
	MaxRetries   int      `yaml:"max_retries"`
}

// LoggingConfig configures diagnostic logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// DefaultBaseDir returns ~/.actlog.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errclass.ErrConfigInvalid.WithMessagef("resolve home directory: %v", err)
	}
	return filepath.Join(home, ".actlog"), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Watch: WatchConfig{
			Paths: []string{"~/Documents", "~/Desktop", "~/Downloads"},
			Extensions: []string{
				".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".cpp", ".c", ".h",
				".cs", ".go", ".rs", ".php", ".rb", ".swift", ".kt", ".scala",
				".sh", ".bash", ".zsh", ".sql", ".r", ".m", ".html", ".css",
				".vue", ".svelte", ".yaml", ".yml", ".json", ".xml", ".md",
			},
			SkipDirs:    []string{"__pycache__", ".git", "node_modules", "venv", ".venv", "logs", "pids"},
			MinFileSize: 10,
			MaxFileSize: 1 << 20,
		},
		App: AppConfig{
			Enabled:      true,
			PollInterval: "2s",
		},
		Log: LogConfig{},
		Analysis: AnalysisConfig{
			Enabled: false,
			BaseURL: "http://127.0.0.1:1234",
			Model:   "deepseek/deepseek-r1-0528-qwen3-8b",
			Timeout: "120s",
		},
		Export: ExportConfig{
			BatchSize:  100,
			MaxRetries: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from <baseDir>/config.yaml, applying defaults for
// missing values and ACTLOG_* environment overrides on top. A missing config
// file is not an error. A .env file in the working directory is honored.
func Load(baseDir string) (*Config, error) {
	cfg := Default()
	cfgPath := filepath.Join(baseDir, "config.yaml")

	data, err := os.ReadFile(cfgPath)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errclass.ErrConfigInvalid.WithMessagef("parse %s: %v", cfgPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, errclass.ErrConfigInvalid.WithMessagef("read %s: %v", cfgPath, err)
	}

	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(baseDir, "logs")
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays ACTLOG_* environment variables. A .env file in the
// working directory is loaded first, never overriding real environment.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ACTLOG_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv("ACTLOG_ANALYSIS_URL"); v != "" {
		cfg.Analysis.BaseURL = v
		cfg.Analysis.Enabled = true
	}
	if v := os.Getenv("ACTLOG_ANALYSIS_MODEL"); v != "" {
		cfg.Analysis.Model = v
	}
	if v := os.Getenv("ACTLOG_POLL_INTERVAL"); v != "" {
		cfg.App.PollInterval = v
	}
	if v := os.Getenv("ACTLOG_EXPORT_ENDPOINT"); v != "" {
		cfg.Export.Endpoint = v
	}
	if v := os.Getenv("ACTLOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Save writes configuration to <baseDir>/config.yaml atomically.
func Save(baseDir string, cfg *Config) error {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return fsutil.AtomicWrite(filepath.Join(baseDir, "config.yaml"), data, 0644)
}

// Validate checks durations and sizes.
func (c *Config) Validate() error {
	if _, err := c.PollInterval(); err != nil {
		return err
	}
	if _, err := c.AnalysisTimeout(); err != nil {
		return err
	}
	if c.Watch.MaxFileSize > 0 && c.Watch.MinFileSize > c.Watch.MaxFileSize {
		return errclass.ErrConfigInvalid.WithMessagef(
			"watch.min_file_size (%d) exceeds watch.max_file_size (%d)",
			c.Watch.MinFileSize, c.Watch.MaxFileSize)
	}
	if c.Export.BatchSize < 1 {
		return errclass.ErrConfigInvalid.WithMessage("export.batch_size must be positive")
	}
	return nil
}

// PollInterval parses app.poll_interval.
func (c *Config) PollInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.App.PollInterval)
	if err != nil || d <= 0 {
		return 0, errclass.ErrConfigInvalid.WithMessagef("invalid app.poll_interval: %q", c.App.PollInterval)
	}
	return d, nil
}

// AnalysisTimeout parses analysis.timeout.
func (c *Config) AnalysisTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Analysis.Timeout)
	if err != nil || d <= 0 {
		return 0, errclass.ErrConfigInvalid.WithMessagef("invalid analysis.timeout: %q", c.Analysis.Timeout)
	}
	return d, nil
}

// WatchPaths expands and returns the configured watch paths.
func (c *Config) WatchPaths() ([]string, error) {
	paths := make([]string, 0, len(c.Watch.Paths))
	for _, p := range c.Watch.Paths {
		expanded, err := pathutil.ExpandUser(p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, expanded)
	}
	return paths, nil
}

// Get returns the value of a settable key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "app.poll_interval":
		return c.App.PollInterval, nil
	case "app.enabled":
		return strconv.FormatBool(c.App.Enabled), nil
	case "log.dir":
		return c.Log.Dir, nil
	case "analysis.enabled":
		return strconv.FormatBool(c.Analysis.Enabled), nil
	case "analysis.base_url":
		return c.Analysis.BaseURL, nil
	case "analysis.model":
		return c.Analysis.Model, nil
	case "export.endpoint":
		return c.Export.Endpoint, nil
	case "export.kafka_topic":
		return c.Export.KafkaTopic, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	}
	return "", errclass.ErrConfigInvalid.WithMessagef("unknown config key: %s", key)
}

// Set updates a settable key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "app.poll_interval":
		c.App.PollInterval = value
	case "app.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("app.enabled: %q is not a boolean", value)
		}
		c.App.Enabled = b
	case "log.dir":
		c.Log.Dir = value
	case "analysis.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("analysis.enabled: %q is not a boolean", value)
		}
		c.Analysis.Enabled = b
	case "analysis.base_url":
		c.Analysis.BaseURL = value
	case "analysis.model":
		c.Analysis.Model = value
	case "export.endpoint":
		c.Export.Endpoint = value
	case "export.kafka_topic":
		c.Export.KafkaTopic = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	default:
		return errclass.ErrConfigInvalid.WithMessagef("unknown config key: %s", key)
	}
	return c.Validate()
}
