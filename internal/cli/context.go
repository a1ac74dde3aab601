package cli

import (
	"os"

	"github.com/actlog-project/actlog/pkg/config"
	"github.com/actlog-project/actlog/pkg/logging"
)

// requireConfig loads the configuration from the default base directory
// and applies CLI overrides, or exits with error.
func requireConfig() *config.Config {
	base, err := config.DefaultBaseDir()
	if err != nil {
		fmtErr("cannot determine config directory: %v", err)
		os.Exit(1)
	}
	cfg, err := config.Load(base)
	if err != nil {
		fmtErr("load config: %v", err)
		os.Exit(1)
	}
	if logDirFlag != "" {
		cfg.Log.Dir = logDirFlag
	}
	logging.SetGlobal(newLoggerFor(cfg))
	return cfg
}

func newLoggerFor(cfg *config.Config) *logging.Logger {
	l := logging.NewLogger(logging.ParseLevel(cfg.Logging.Level))
	l.SetFormat(logging.Format(cfg.Logging.Format))
	l.SetOutput(os.Stderr)
	return l
}

// requireBaseDir returns the config base directory, or exits with error.
func requireBaseDir() string {
	base, err := config.DefaultBaseDir()
	if err != nil {
		fmtErr("cannot determine config directory: %v", err)
		os.Exit(1)
	}
	return base
}
