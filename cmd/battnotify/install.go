package main

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battnotify/pkg/config"
	daemonutils "github.com/charlie0129/battnotify/pkg/utils/daemon"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install battnotify as a systemd user service",
		Long: `Install battnotify daemon as a systemd user service.

This makes battnotify run in the background whenever you log into a graphical
session. Do not run this command as root.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Validates the config and writes the defaults if missing.
			if _, err := config.NewFile(configPath); err != nil {
				return err
			}

			err := daemonutils.Install(daemonutils.UnitDir(), configPath)
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to install daemon")
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("systemd will use current binary (%s) at login so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run ``battnotify install'' again.\n", exePath)

			return nil
		},
	}
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Uninstall the battnotify systemd user service",
		RunE: func(_ *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall(daemonutils.UnitDir())
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to uninstall daemon")
			}

			logrus.Infof("successfully uninstalled battnotify")
			return nil
		},
	}
}
