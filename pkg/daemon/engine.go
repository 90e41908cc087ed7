package daemon

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battnotify/pkg/bluetooth"
	"github.com/charlie0129/battnotify/pkg/command"
	"github.com/charlie0129/battnotify/pkg/config"
	"github.com/charlie0129/battnotify/pkg/monitors"
	"github.com/charlie0129/battnotify/pkg/notification"
	"github.com/charlie0129/battnotify/pkg/power"
)

// sleepBackoff is the minimum time between two runs of the sleep command.
const sleepBackoff = 60 * time.Second

// Engine decides, once per tick, which notifications to show and which
// commands to run.
type Engine struct {
	conf      config.Config
	reader    power.Reader
	runner    command.Runner
	bluetooth bluetooth.Probe // nil disables bluetooth alerts
	monitors  monitors.Probe  // nil disables monitor warnings

	state *State

	lastStatus    tickStatus
	lastPrintTime time.Time
}

func NewEngine(
	conf config.Config,
	reader power.Reader,
	notifier notification.Notifier,
	runner command.Runner,
	bt bluetooth.Probe,
	mon monitors.Probe,
) *Engine {
	return &Engine{
		conf:      conf,
		reader:    reader,
		runner:    runner,
		bluetooth: bt,
		monitors:  mon,
		state:     NewState(notifier),
	}
}

// Close closes every notification the engine has on screen.
func (e *Engine) Close() {
	e.state.Close()
}

// Tick reads the batteries and acts on them. The only error it returns is
// a failure to read any battery, which is fatal.
func (e *Engine) Tick(now time.Time) error {
	readings, err := e.reader.Read()
	if err != nil {
		return err
	}

	global := power.Aggregate(readings)
	if global.Ambiguous {
		logrus.WithField("batteries", batteryStates(readings)).
			Warn("battery states did not match any rule, assuming discharging")
	}

	e.printStatus(global, readings, now)

	e.handleStateChange(global)
	e.handleLevel(global, now)
	e.handleMonitors(global)
	e.handleBluetooth()

	e.state.LastState = global.State
	return nil
}

func (e *Engine) handleStateChange(global power.Global) {
	if global.State == e.state.LastState {
		return
	}

	logrus.WithFields(logrus.Fields{
		"from":  e.state.LastState.String(),
		"to":    global.State.String(),
		"level": global.Level,
	}).Info("battery state changed")

	event := config.Event(global.State.Key())
	e.show(e.state.BatteryState, event, "Battery now "+strings.ToLower(global.State.String()), notification.UrgencyNormal)
	e.runCommand(event)
}

func (e *Engine) handleLevel(global power.Global, now time.Time) {
	low := e.conf.LowPercent()
	sleep := e.conf.SleepPercent()

	switch {
	case global.State == power.Charging || global.Level > low:
		e.state.Level.Close()
		e.state.LowCommandRun = false
	case global.Level <= sleep:
		e.show(e.state.Level, config.EventSleep, fmt.Sprintf("Battery critical (%d%%)", global.Level), notification.UrgencyCritical)
		last := e.state.LastSleepCommand
		if last.IsZero() || now.Sub(last) > sleepBackoff {
			e.state.LastSleepCommand = now
			e.runCommand(config.EventSleep)
		} else {
			logrus.WithField("lastRun", now.Sub(last).String()).Debug("sleep command ran recently, skipping")
		}
	default:
		e.show(e.state.Level, config.EventLow, fmt.Sprintf("Battery low (%d%%)", global.Level), notification.UrgencyCritical)
		if !e.state.LowCommandRun {
			e.state.LowCommandRun = true
			e.runCommand(config.EventLow)
		}
	}
}

func (e *Engine) handleMonitors(global power.Global) {
	threshold := e.conf.MonitorsWithNoAC()
	if e.monitors == nil || threshold <= 0 || global.State != power.Discharging {
		e.state.Monitors.Close()
		return
	}

	n, err := e.monitors.Connected()
	if err != nil {
		logrus.Warnf("failed to count connected monitors: %v", err)
		n = 0
	}

	if n >= threshold {
		e.show(e.state.Monitors, config.EventMonitorsWithNoAC, fmt.Sprintf("%d monitors connected without AC", n), notification.UrgencyNormal)
	} else {
		e.state.Monitors.Close()
	}
}

func (e *Engine) handleBluetooth() {
	threshold := e.conf.BluetoothLowPercent()
	if e.bluetooth == nil || threshold == 0 {
		e.state.Bluetooth.CloseAll()
		return
	}

	batteries, err := e.bluetooth.Batteries()
	if err != nil {
		logrus.Warnf("failed to get bluetooth battery levels: %v", err)
		batteries = nil
	}

	// Names are not unique. Devices sharing a name share a slot, which
	// follows the lowest level among them.
	levels := make(map[string]uint8, len(batteries))
	for _, b := range batteries {
		if l, ok := levels[b.Name]; !ok || b.Level < l {
			levels[b.Name] = b.Level
		}
	}

	seen := make(map[string]struct{}, len(levels))
	for name, level := range levels {
		seen[name] = struct{}{}
		slot := e.state.Bluetooth.Get(name)
		if level <= threshold {
			e.show(slot, config.EventBluetoothLow, fmt.Sprintf("%s battery low (%d%%)", name, level), notification.UrgencyNormal)
		} else {
			slot.Close()
		}
	}

	e.state.Bluetooth.Sweep(seen)
}

// show displays summary in slot, or closes the slot if notifications for
// event are disabled.
func (e *Engine) show(slot *notification.Slot, event config.Event, summary string, urgency notification.Urgency) {
	timeout := e.conf.NotificationTimeout(event)
	if !timeout.Enabled() {
		slot.Close()
		return
	}
	slot.Show(summary, urgency, timeout)
}

func (e *Engine) runCommand(event config.Event) {
	cmd := e.conf.Command(event)
	if cmd == "" {
		return
	}

	logrus.WithFields(logrus.Fields{
		"event":   event,
		"command": cmd,
	}).Info("running command")

	if err := e.runner.Run(cmd); err != nil {
		logrus.WithField("event", event).Errorf("%v", err)
	}
}

func batteryStates(readings []power.Reading) []string {
	var s []string
	for _, r := range readings {
		s = append(s, fmt.Sprintf("%s=%s", r.Name, r.State))
	}
	return s
}

type tickStatus struct {
	state     power.State
	level     uint8
	batteries int
}

// printStatus logs the tick status at Debug, or at Trace if nothing changed
// since the last tick. It reports whether the Debug line was logged.
func (e *Engine) printStatus(global power.Global, readings []power.Reading, now time.Time) bool {
	currentStatus := tickStatus{
		state:     global.State,
		level:     global.Level,
		batteries: len(readings),
	}

	fields := logrus.Fields{
		"state":     global.State.String(),
		"level":     global.Level,
		"batteries": batteryStates(readings),
	}

	defer func() { e.lastPrintTime = now }()

	// Skip printing if nothing changed since the last tick.
	if now.Sub(e.lastPrintTime) < e.conf.Interval()+time.Second && reflect.DeepEqual(e.lastStatus, currentStatus) {
		logrus.WithFields(fields).Trace("tick status")
		return false
	}

	logrus.WithFields(fields).Debug("tick status")

	e.lastStatus = currentStatus
	return true
}
