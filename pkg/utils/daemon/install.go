package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// UnitName is the systemd user unit battnotify installs itself as.
const UnitName = "battnotify.service"

const unitTemplate = `[Unit]
Description=Battery notification daemon
PartOf=graphical-session.target
After=graphical-session.target

[Service]
Type=notify
NotifyAccess=main
ExecStart="/path/to/battnotify" --config "/path/to/config" daemon
Restart=on-failure
RestartSec=5

[Install]
WantedBy=graphical-session.target
`

// systemctl is replaced in tests.
var systemctl = func(args ...string) error {
	out, err := exec.Command("systemctl", append([]string{"--user"}, args...)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl --user %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// UnitDir returns the directory systemd reads user units from.
func UnitDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "systemd", "user")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "systemd", "user")
	}
	return filepath.Join(home, ".config", "systemd", "user")
}

// execArgEscaper escapes a value for a double-quoted ExecStart argument.
// systemd expands % specifiers and $ variables even inside quotes.
var execArgEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`%`, `%%`,
	`$`, `$$`,
)

// RenderUnit fills the unit template with the binary and config paths.
func RenderUnit(exePath, configPath string) (string, error) {
	for _, p := range []string{exePath, configPath} {
		if strings.ContainsAny(p, "\n\r") {
			return "", fmt.Errorf("path %q contains a line break, which a unit file cannot hold", p)
		}
	}

	tmpl := strings.ReplaceAll(unitTemplate, "/path/to/battnotify", execArgEscaper.Replace(exePath))
	return strings.ReplaceAll(tmpl, "/path/to/config", execArgEscaper.Replace(configPath)), nil
}

// Install writes the user unit into unitDir and starts it.
func Install(unitDir, configPath string) error {
	// Get the path to the current executable
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}
	configPath, err = filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the config file: %w", err)
	}

	logrus.Infof("current executable path: %s", exePath)

	err = os.MkdirAll(unitDir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", unitDir, err)
	}

	unitPath := filepath.Join(unitDir, UnitName)
	if _, err = os.Stat(unitPath); err == nil {
		logrus.Warnf("%s already exists, overwriting", unitPath)
	}

	logrus.Infof("writing user unit to %s", unitPath)
	unit, err := RenderUnit(exePath, configPath)
	if err != nil {
		return err
	}
	err = os.WriteFile(unitPath, []byte(unit), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", unitPath, err)
	}

	logrus.Infof("starting battnotify")
	if err = systemctl("daemon-reload"); err != nil {
		return err
	}
	return systemctl("enable", "--now", UnitName)
}
