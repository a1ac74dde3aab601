// Package color provides terminal color output support for actlog.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"fmt"
	"os"
	"sync"

	"github.com/actlog-project/actlog/pkg/model"
)

var state struct {
	enabled  bool
	once     sync.Once
	disabled bool
}

// Init initializes the color system based on environment and flags.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		if _, exists := os.LookupEnv("NO_COLOR"); exists {
			state.disabled = true
		}
		if term := os.Getenv("TERM"); term == "dumb" {
			state.disabled = true
		}
		if noColorFlag {
			state.disabled = true
		}
		state.enabled = !state.disabled
	})
}

// Enabled returns true if color output is enabled.
func Enabled() bool {
	Init(false) // Ensure initialized
	return state.enabled
}

// Disable turns off color output.
func Disable() {
	state.disabled = true
	state.enabled = false
}

// ANSI color codes
const (
	reset   = "\033[0m"
	red     = "\033[31m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	magenta = "\033[35m"
	cyan    = "\033[36m"
	gray    = "\033[90m"
	dim     = "\033[2m"
)

func wrap(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + reset
}

// Success formats a success message in green.
func Success(s string) string { return wrap(green, s) }

// Error formats an error message in red.
func Error(s string) string { return wrap(red, s) }

// Warning formats a warning message in yellow.
func Warning(s string) string { return wrap(yellow, s) }

// Info formats an informational message in cyan.
func Info(s string) string { return wrap(cyan, s) }

// Dim formats de-emphasized text.
func Dim(s string) string { return wrap(dim, s) }

// Code formats a command-line example.
func Code(s string) string { return wrap(cyan, s) }

// Path formats a filesystem path.
func Path(s string) string { return wrap(gray, s) }

// ChangeType colors a file change type: created green, modified yellow,
// deleted red.
func ChangeType(t model.FileChangeType) string {
	switch t {
	case model.FileCreated:
		return wrap(green, string(t))
	case model.FileModified:
		return wrap(yellow, string(t))
	case model.FileDeleted:
		return wrap(red, string(t))
	}
	return string(t)
}

// Risk colors a risk level: Critical/High red, Medium yellow, Low green.
func Risk(level model.RiskLevel) string {
	switch level {
	case model.RiskCritical, model.RiskHigh:
		return wrap(red, string(level))
	case model.RiskMedium:
		return wrap(yellow, string(level))
	case model.RiskLow:
		return wrap(green, string(level))
	}
	return string(level)
}

// Riskf formats a risk level with confidence.
func Riskf(level model.RiskLevel, confidence float64) string {
	return fmt.Sprintf("%s (%.0f%%)", Risk(level), confidence*100)
}
