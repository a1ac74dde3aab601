//go:build darwin

package appwatch

import (
	"context"
	"os/exec"

	"github.com/actlog-project/actlog/pkg/errclass"
)

// lsappinfoProvider asks the macOS window server via lsappinfo(1).
type lsappinfoProvider struct{}

// NewProvider returns the darwin frontmost-application provider.
func NewProvider() (Provider, error) {
	if _, err := exec.LookPath("lsappinfo"); err != nil {
		return nil, errclass.ErrAppWatchUnsupported.WithMessage("lsappinfo not found in PATH")
	}
	return lsappinfoProvider{}, nil
}

func (lsappinfoProvider) Frontmost(ctx context.Context) (AppInfo, error) {
	front, err := exec.CommandContext(ctx, "lsappinfo", "front").Output()
	if err != nil {
		return AppInfo{}, errclass.ErrAppWatchUnsupported.WithMessagef("lsappinfo front: %v", err)
	}
	asn := parseFrontASN(string(front))
	if asn == "" {
		return AppInfo{}, errclass.ErrAppWatchUnsupported.WithMessage("no frontmost application")
	}

	info, err := exec.CommandContext(ctx, "lsappinfo", "info",
		"-only", "name,bundleid,bundlepath", asn).Output()
	if err != nil {
		return AppInfo{}, errclass.ErrAppWatchUnsupported.WithMessagef("lsappinfo info: %v", err)
	}
	return parseLsappinfo(string(info)), nil
}
