//go:build !linux && !windows && !darwin

package autostart

import (
	"runtime"

	"github.com/pkg/errors"
)

func enable() error {
	return errors.Errorf("autostart not supported on %s", runtime.GOOS)
}

func disable() error {
	return errors.Errorf("autostart not supported on %s", runtime.GOOS)
}

func isEnabled() bool { return false }
