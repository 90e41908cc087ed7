package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Uninstall stops the user unit and removes it from unitDir.
func Uninstall(unitDir string) error {
	logrus.Infof("stopping battnotify")

	err := systemctl("disable", "--now", UnitName)
	if err != nil {
		return fmt.Errorf("failed to disable %s: %w", UnitName, err)
	}

	logrus.Infof("removing user unit")

	unitPath := filepath.Join(unitDir, UnitName)
	// if the file doesn't exist, we don't need to remove it
	_, err = os.Stat(unitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", unitPath, err)
	}

	err = os.Remove(unitPath)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", unitPath, err)
	}

	return systemctl("daemon-reload")
}
