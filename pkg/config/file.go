package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/battnotify/pkg/utils/ptr"
)

const (
	BackendSysfs   = "sysfs"
	BackendGeneric = "generic"
)

var (
	defaultFileConfig = &RawFileConfig{
		Interval:         ptr.To(30000),
		SleepPct:         ptr.To(15),
		LowPct:           ptr.To(40),
		BluetoothLowPct:  ptr.To(40),
		MonitorsWithNoAC: ptr.To(2),
		Shell:            ptr.To(""),
		BatteryBackend:   ptr.To(BackendSysfs),
		PowerSupplyPath:  ptr.To("/sys/class/power_supply"),
		Events: map[Event]string{
			EventLow:         "",
			EventSleep:       "systemctl suspend",
			EventCharging:    "",
			EventDischarging: "",
			EventNotCharging: "",
			EventFull:        "",
			EventUnknown:     "",
			EventAtThreshold: "",
		},
		Notifications: map[Event]Timeout{
			EventLow:              TimeoutPersistent,
			EventSleep:            TimeoutPersistent,
			EventBluetoothLow:     TimeoutPersistent,
			EventMonitorsWithNoAC: TimeoutPersistent,
			EventCharging:         TimeoutServerDefault,
			EventDischarging:      TimeoutServerDefault,
			EventNotCharging:      TimeoutPersistent,
			EventFull:             TimeoutPersistent,
			EventUnknown:          TimeoutPersistent,
			EventAtThreshold:      TimeoutPersistent,
		},
	}
)

var _ Config = &File{}

// File is a Config backed by a YAML file. Fields missing from the file
// fall back to defaultFileConfig.
type File struct {
	c        *RawFileConfig
	filepath string
}

// RawFileConfig is the on-disk representation. nil fields are unset.
type RawFileConfig struct {
	Interval         *int              `yaml:"interval,omitempty" json:"interval,omitempty"`
	SleepPct         *int              `yaml:"sleep_pct,omitempty" json:"sleepPct,omitempty"`
	LowPct           *int              `yaml:"low_pct,omitempty" json:"lowPct,omitempty"`
	BluetoothLowPct  *int              `yaml:"bluetooth_low_pct,omitempty" json:"bluetoothLowPct,omitempty"`
	MonitorsWithNoAC *int              `yaml:"monitors_with_no_ac,omitempty" json:"monitorsWithNoAC,omitempty"`
	Shell            *string           `yaml:"shell,omitempty" json:"shell,omitempty"`
	BatteryBackend   *string           `yaml:"battery_backend,omitempty" json:"batteryBackend,omitempty"`
	PowerSupplyPath  *string           `yaml:"power_supply_path,omitempty" json:"powerSupplyPath,omitempty"`
	Events           map[Event]string  `yaml:"events,omitempty" json:"events,omitempty"`
	Notifications    map[Event]Timeout `yaml:"notifications,omitempty" json:"notifications,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/battnotify/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "battnotify", "config.yaml")
}

// NewFile loads the config at configPath. If the file does not exist, it
// is created with the default values.
func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// NewFileFromConfig wraps an in-memory config. A nil c means all defaults.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	return &File{
		c:        c,
		filepath: configPath,
	}
}

// Effective returns a RawFileConfig with every field set.
func (f *File) Effective() *RawFileConfig {
	events := map[Event]string{}
	for e := range defaultFileConfig.Events {
		events[e] = f.Command(e)
	}
	notifications := map[Event]Timeout{}
	for e := range defaultFileConfig.Notifications {
		notifications[e] = f.NotificationTimeout(e)
	}

	return &RawFileConfig{
		Interval:         ptr.To(int(f.Interval() / time.Millisecond)),
		SleepPct:         ptr.To(int(f.SleepPercent())),
		LowPct:           ptr.To(int(f.LowPercent())),
		BluetoothLowPct:  ptr.To(int(f.BluetoothLowPercent())),
		MonitorsWithNoAC: ptr.To(f.MonitorsWithNoAC()),
		Shell:            ptr.To(f.shellString()),
		BatteryBackend:   ptr.To(f.BatteryBackend()),
		PowerSupplyPath:  ptr.To(f.PowerSupplyPath()),
		Events:           events,
		Notifications:    notifications,
	}
}

func intOrDefault(v, def *int) int {
	if v != nil {
		return *v
	}
	return *def
}

func stringOrDefault(v, def *string) string {
	if v != nil {
		return *v
	}
	return *def
}

func (f *File) Interval() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	return time.Duration(intOrDefault(f.c.Interval, defaultFileConfig.Interval)) * time.Millisecond
}

func (f *File) SleepPercent() uint8 {
	if f.c == nil {
		panic("config is nil")
	}

	return uint8(intOrDefault(f.c.SleepPct, defaultFileConfig.SleepPct))
}

func (f *File) LowPercent() uint8 {
	if f.c == nil {
		panic("config is nil")
	}

	return uint8(intOrDefault(f.c.LowPct, defaultFileConfig.LowPct))
}

func (f *File) BluetoothLowPercent() uint8 {
	if f.c == nil {
		panic("config is nil")
	}

	return uint8(intOrDefault(f.c.BluetoothLowPct, defaultFileConfig.BluetoothLowPct))
}

func (f *File) MonitorsWithNoAC() int {
	if f.c == nil {
		panic("config is nil")
	}

	return intOrDefault(f.c.MonitorsWithNoAC, defaultFileConfig.MonitorsWithNoAC)
}

func (f *File) shellString() string {
	return stringOrDefault(f.c.Shell, defaultFileConfig.Shell)
}

// Shell returns the configured shell split into words. When unset, it is
// $SHELL -c, or /bin/sh -c if $SHELL is empty.
func (f *File) Shell() []string {
	if f.c == nil {
		panic("config is nil")
	}

	s := f.shellString()
	if strings.TrimSpace(s) == "" {
		sh := os.Getenv("SHELL")
		if sh == "" {
			sh = "/bin/sh"
		}
		return []string{sh, "-c"}
	}

	// Validated on load.
	words, _ := shlex.Split(s)
	return words
}

func (f *File) BatteryBackend() string {
	if f.c == nil {
		panic("config is nil")
	}

	return stringOrDefault(f.c.BatteryBackend, defaultFileConfig.BatteryBackend)
}

func (f *File) PowerSupplyPath() string {
	if f.c == nil {
		panic("config is nil")
	}

	return stringOrDefault(f.c.PowerSupplyPath, defaultFileConfig.PowerSupplyPath)
}

func (f *File) Command(e Event) string {
	if f.c == nil {
		panic("config is nil")
	}

	if cmd, ok := f.c.Events[e]; ok {
		return cmd
	}
	return defaultFileConfig.Events[e]
}

func (f *File) NotificationTimeout(e Event) Timeout {
	if f.c == nil {
		panic("config is nil")
	}

	if t, ok := f.c.Notifications[e]; ok {
		return t
	}
	if t, ok := defaultFileConfig.Notifications[e]; ok {
		return t
	}
	return TimeoutDisabled
}

func (f *File) validate() error {
	percents := []struct {
		name string
		v    *int
	}{
		{"sleep_pct", f.c.SleepPct},
		{"low_pct", f.c.LowPct},
		{"bluetooth_low_pct", f.c.BluetoothLowPct},
	}
	for _, p := range percents {
		if p.v != nil && (*p.v < 0 || *p.v > 100) {
			return pkgerrors.Wrapf(ErrInvalid, "%s must be between 0 and 100, got %d", p.name, *p.v)
		}
	}

	if f.c.Interval != nil && *f.c.Interval <= 0 {
		return pkgerrors.Wrapf(ErrInvalid, "interval must be positive, got %d", *f.c.Interval)
	}

	if f.c.MonitorsWithNoAC != nil && *f.c.MonitorsWithNoAC < 0 {
		return pkgerrors.Wrapf(ErrInvalid, "monitors_with_no_ac must not be negative, got %d", *f.c.MonitorsWithNoAC)
	}

	switch b := f.BatteryBackend(); b {
	case BackendSysfs, BackendGeneric:
	default:
		return pkgerrors.Wrapf(ErrInvalid, "unknown battery_backend %q", b)
	}

	if f.c.Shell != nil && strings.TrimSpace(*f.c.Shell) != "" {
		if _, err := shlex.Split(*f.c.Shell); err != nil {
			return pkgerrors.Wrapf(ErrInvalid, "shell %q: %v", *f.c.Shell, err)
		}
	}

	for e := range f.c.Events {
		if _, ok := defaultFileConfig.Events[e]; !ok {
			logrus.WithField("event", e).Warn("ignoring command for unknown event")
		}
	}
	for e := range f.c.Notifications {
		if _, ok := defaultFileConfig.Notifications[e]; !ok {
			logrus.WithField("event", e).Warn("ignoring notification setting for unknown event")
		}
	}

	if f.SleepPercent() > f.LowPercent() {
		logrus.WithFields(logrus.Fields{
			"sleepPct": f.SleepPercent(),
			"lowPct":   f.LowPercent(),
		}).Warn("sleep_pct is above low_pct, the low alert will never be shown")
	}

	return nil
}

// Load reads the file. A missing file is created with the defaults, an
// empty file means all defaults.
func (f *File) Load() error {
	b, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			f.c = &RawFileConfig{}
			logrus.WithField("path", f.filepath).Info("config file does not exist, writing defaults")
			return f.saveRaw(defaultFileConfig)
		}
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if len(bytes.TrimSpace(b)) == 0 {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = yaml.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	if err := f.validate(); err != nil {
		return pkgerrors.Wrapf(err, "config file %s", f.filepath)
	}

	return nil
}

// Save writes the current config to the file.
func (f *File) Save() error {
	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	return f.saveRaw(f.c)
}

func (f *File) saveRaw(c *RawFileConfig) error {
	if err := os.MkdirAll(filepath.Dir(f.filepath), 0o755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create directory for %s", f.filepath)
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	if err := os.WriteFile(f.filepath, b, 0o644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"interval":         f.Interval().String(),
		"sleepPct":         f.SleepPercent(),
		"lowPct":           f.LowPercent(),
		"bluetoothLowPct":  f.BluetoothLowPercent(),
		"monitorsWithNoAC": f.MonitorsWithNoAC(),
		"shell":            f.Shell(),
		"batteryBackend":   f.BatteryBackend(),
	}
}
