//go:build !darwin

package appwatch

import (
	"runtime"

	"github.com/actlog-project/actlog/pkg/errclass"
)

// NewProvider reports that frontmost-application tracking is not
// available on this platform; the watch command disables app watching
// with a warning.
func NewProvider() (Provider, error) {
	return nil, errclass.ErrAppWatchUnsupported.WithMessagef(
		"application tracking is not supported on %s", runtime.GOOS)
}
