//go:build linux

package autostart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const desktopEntry = `[Desktop Entry]
Type=Application
Name=Input Hub
Exec=%s
X-GNOME-Autostart-enabled=true
`

func desktopPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "autostart")
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", "inputhub.desktop"), nil
}

func enable() error {
	execPath, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "autostart")
	}
	path, err := desktopPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "autostart")
	}
	entry := fmt.Sprintf(desktopEntry, execPath)
	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return errors.Wrap(err, "autostart")
	}
	return nil
}

func disable() error {
	path, err := desktopPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "autostart")
	}
	return nil
}

func isEnabled() bool {
	path, err := desktopPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
