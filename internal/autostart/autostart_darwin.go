//go:build darwin

package autostart

import (
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
)

const launchAgentLabel = "com.inputhub.agent"

const launchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>` + launchAgentLabel + `</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>`

func plistPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "autostart")
	}
	return filepath.Join(home, "Library", "LaunchAgents", launchAgentLabel+".plist"), nil
}

func enable() error {
	execPath, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "autostart")
	}
	path, err := plistPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "autostart")
	}

	tmpl, err := template.New("plist").Parse(launchAgentPlist)
	if err != nil {
		return errors.Wrap(err, "autostart")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "autostart")
	}
	defer f.Close()
	return tmpl.Execute(f, struct{ ExecutablePath string }{execPath})
}

func disable() error {
	path, err := plistPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "autostart")
	}
	return nil
}

func isEnabled() bool {
	path, err := plistPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
