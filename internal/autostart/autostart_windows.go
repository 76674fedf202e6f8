//go:build windows

package autostart

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows/registry"
)

const (
	runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`
	runName    = "InputHub"
)

func enable() error {
	execPath, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "autostart")
	}
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return errors.Wrap(err, "autostart: open run key")
	}
	defer key.Close()
	if err := key.SetStringValue(runName, execPath); err != nil {
		return errors.Wrap(err, "autostart: set run value")
	}
	return nil
}

func disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return errors.Wrap(err, "autostart: open run key")
	}
	defer key.Close()
	if err := key.DeleteValue(runName); err != nil && err != registry.ErrNotExist {
		return errors.Wrap(err, "autostart: delete run value")
	}
	return nil
}

func isEnabled() bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()
	_, _, err = key.GetStringValue(runName)
	return err == nil
}
