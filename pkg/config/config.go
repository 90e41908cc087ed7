package config

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrInvalid is wrapped by every validation error returned while loading.
var ErrInvalid = errors.New("invalid config")

// Event names a category that can have a command and a notification.
// Battery states use their snake_case name, e.g. "not_charging".
type Event string

const (
	EventLow              Event = "low"
	EventSleep            Event = "sleep"
	EventBluetoothLow     Event = "bluetooth_low"
	EventMonitorsWithNoAC Event = "monitors_with_no_ac"
	EventCharging         Event = "charging"
	EventDischarging      Event = "discharging"
	EventNotCharging      Event = "not_charging"
	EventFull             Event = "full"
	EventUnknown          Event = "unknown"
	EventAtThreshold      Event = "at_threshold"
)

// Config is read once at startup and never changes afterwards.
type Config interface {
	// Interval is the time between two polls.
	Interval() time.Duration
	// SleepPercent is the level at or below which the sleep command runs.
	SleepPercent() uint8
	// LowPercent is the level at or below which the low alert is shown.
	LowPercent() uint8
	// BluetoothLowPercent is the level at or below which a bluetooth
	// device alert is shown. 0 disables bluetooth probing.
	BluetoothLowPercent() uint8
	// MonitorsWithNoAC is the number of connected monitors that triggers a
	// warning while discharging. 0 disables monitor probing.
	MonitorsWithNoAC() int
	// Shell is the argv prefix that command strings are appended to.
	Shell() []string
	BatteryBackend() string
	PowerSupplyPath() string

	// Command returns the command string configured for the event, or "".
	Command(Event) string
	// NotificationTimeout returns the notification setting for the event.
	NotificationTimeout(Event) Timeout

	LogrusFields() logrus.Fields
}
