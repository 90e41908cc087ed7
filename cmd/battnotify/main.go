package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/battnotify/pkg/config"
	"github.com/charlie0129/battnotify/pkg/power"
)

var (
	logLevel   = "info"
	configPath = config.DefaultPath()
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, power.ErrNoBattery) {
		fmt.Fprintln(os.Stderr, "\nError: no battery found")
		fmt.Fprintln(os.Stderr, "battnotify needs at least one BAT* entry under the power supply path to run.")
	} else if errors.Is(err, config.ErrInvalid) {
		fmt.Fprintf(os.Stderr, "\nError: please fix the config file at %s\n", configPath)
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battnotify",
		Short: "battnotify notifies you about your laptop battery",
		Long: `battnotify is a small daemon that watches your laptop batteries, shows
desktop notifications when the battery state changes or gets low, runs your
commands on those events and suspends the system when the battery is critical.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")

	cmd.AddCommand(
		NewDaemonCommand(),
		NewStatusCommand(),
		NewConfigCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
		NewVersionCommand(),
	)

	return cmd
}
