// Package pathutil provides path expansion and filtering utilities for actlog.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/actlog-project/actlog/pkg/errclass"
)

// ExpandUser expands a leading "~" or "~/" to the current user's home
// directory and returns an absolute, cleaned path.
func ExpandUser(path string) (string, error) {
	if path == "" {
		return "", errclass.ErrPathInvalid.WithMessage("path must not be empty")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errclass.ErrPathInvalid.WithMessagef("resolve home directory: %v", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errclass.ErrPathInvalid.WithMessagef("resolve %s: %v", path, err)
	}
	return abs, nil
}

// Normalize returns path with Unicode NFC normalization applied.
// macOS stores file names in NFD, so comparisons against configured
// names must normalize both sides.
func Normalize(path string) string {
	return norm.NFC.String(path)
}

// IsSkipped reports whether any path component matches one of the
// configured skip directories.
func IsSkipped(path string, skipDirs []string) bool {
	if len(skipDirs) == 0 {
		return false
	}
	parts := strings.Split(Normalize(filepath.ToSlash(path)), "/")
	for _, part := range parts {
		for _, skip := range skipDirs {
			if part == Normalize(skip) {
				return true
			}
		}
	}
	return false
}

// HasTrackedExtension reports whether path carries one of the configured
// extensions. Matching is case-insensitive and NFC-normalized.
func HasTrackedExtension(path string, exts []string) bool {
	ext := strings.ToLower(Normalize(filepath.Ext(path)))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == strings.ToLower(Normalize(e)) {
			return true
		}
	}
	return false
}

// ValidateWatchPath checks that path exists and is a directory.
func ValidateWatchPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errclass.ErrPathInvalid.WithMessagef("watch path does not exist: %s", path)
		}
		return errclass.ErrPathInvalid.WithMessagef("stat %s: %v", path, err)
	}
	if !info.IsDir() {
		return errclass.ErrPathInvalid.WithMessagef("watch path is not a directory: %s", path)
	}
	return nil
}
