package errclass

import "fmt"

// Error is a stable, machine-readable error class.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// WithMessage returns a new Error with the same Code but a specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg}
}

// WithMessagef returns a new Error with a formatted message.
func (e *Error) WithMessagef(format string, args ...any) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// All stable error classes.
var (
	ErrPathInvalid         = &Error{Code: "E_PATH_INVALID"}
	ErrWatchFailed         = &Error{Code: "E_WATCH_FAILED"}
	ErrJournalWrite        = &Error{Code: "E_JOURNAL_WRITE"}
	ErrJournalCorrupt      = &Error{Code: "E_JOURNAL_CORRUPT"}
	ErrAppWatchUnsupported = &Error{Code: "E_APPWATCH_UNSUPPORTED"}
	ErrAnalysisUnavailable = &Error{Code: "E_ANALYSIS_UNAVAILABLE"}
	ErrAnalysisMalformed   = &Error{Code: "E_ANALYSIS_MALFORMED"}
	ErrConfigInvalid       = &Error{Code: "E_CONFIG_INVALID"}
	ErrExportFailed        = &Error{Code: "E_EXPORT_FAILED"}
)
