package daemon

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battnotify/pkg/bluetooth"
	"github.com/charlie0129/battnotify/pkg/command"
	"github.com/charlie0129/battnotify/pkg/config"
	"github.com/charlie0129/battnotify/pkg/monitors"
	"github.com/charlie0129/battnotify/pkg/notification"
	"github.com/charlie0129/battnotify/pkg/power"
)

// NewReader returns the battery reader selected in the config.
func NewReader(conf config.Config) power.Reader {
	if conf.BatteryBackend() == config.BackendGeneric {
		return power.NewGenericReader()
	}
	return power.NewSysfsReader(conf.PowerSupplyPath())
}

// Run polls the batteries until SIGINT or SIGTERM. It returns an error if
// the config cannot be loaded or no battery can be read.
func Run(configPath string) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return err
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	reader := NewReader(conf)
	readings, err := reader.Read()
	if err != nil {
		return err
	}
	logrus.WithField("batteries", batteryStates(readings)).Info("batteries detected")

	var notifier notification.Notifier
	notifier, err = notification.NewDBusNotifier()
	if err != nil {
		logrus.Errorf("notifications will only be logged: %v", err)
		notifier = &notification.LogNotifier{}
	}

	var bt bluetooth.Probe
	if conf.BluetoothLowPercent() > 0 {
		bt = bluetooth.NewBlueZProbe()
	}

	var mon monitors.Probe
	if conf.MonitorsWithNoAC() > 0 {
		randr := monitors.NewRandRProbe()
		defer randr.Close()
		mon = randr
	}

	engine := NewEngine(conf, reader, notifier, command.NewShellRunner(conf.Shell()), bt, mon)
	defer func() {
		logrus.Info("closing notifications")
		engine.Close()
	}()

	scheduler := NewScheduler(conf.Interval())
	watchdog := NewWatchdog(conf.Interval())
	scheduler.Heartbeat = watchdog.Heartbeat

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigc)
		close(sigc)
	}()
	go func() {
		sig, ok := <-sigc
		if !ok {
			return
		}
		logrus.Infof("caught signal \"%s\": shutting down.", sig)
		scheduler.Stop()
	}()

	watchdog.Ready()
	defer watchdog.Stopping()

	start := time.Now()
	err = scheduler.Run(engine.Tick)
	if err != nil {
		logrus.WithField("uptime", time.Since(start).Round(time.Second).String()).Errorf("main loop exited: %v", err)
		return err
	}

	logrus.Info("exiting")
	return nil
}
