package config

import (
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Timeout controls whether and for how long a notification category is
// shown. Positive values are milliseconds.
type Timeout int32

const (
	// TimeoutPersistent notifications stay until closed.
	TimeoutPersistent Timeout = 0
	// TimeoutServerDefault lets the notification server decide.
	TimeoutServerDefault Timeout = -1
	// TimeoutDisabled notifications are never shown.
	TimeoutDisabled Timeout = -2
)

const (
	timeoutPersistentName    = "persistent"
	timeoutServerDefaultName = "server-default"
	timeoutDisabledName      = "disabled"
)

// Enabled reports whether notifications of this category are shown at all.
func (t Timeout) Enabled() bool {
	return t != TimeoutDisabled
}

// Duration is the expiry of a positive timeout, zero otherwise.
func (t Timeout) Duration() time.Duration {
	if t <= 0 {
		return 0
	}
	return time.Duration(t) * time.Millisecond
}

func (t Timeout) String() string {
	switch t {
	case TimeoutPersistent:
		return timeoutPersistentName
	case TimeoutServerDefault:
		return timeoutServerDefaultName
	case TimeoutDisabled:
		return timeoutDisabledName
	}
	return strconv.Itoa(int(t))
}

// ParseTimeout accepts "persistent", "server-default", "disabled" or a
// positive number of milliseconds.
func ParseTimeout(s string) (Timeout, error) {
	switch s {
	case timeoutPersistentName:
		return TimeoutPersistent, nil
	case timeoutServerDefaultName:
		return TimeoutServerDefault, nil
	case timeoutDisabledName:
		return TimeoutDisabled, nil
	}

	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v <= 0 {
		return 0, pkgerrors.Wrapf(ErrInvalid, "timeout %q: want a positive integer or one of %q, %q, %q",
			s, timeoutPersistentName, timeoutServerDefaultName, timeoutDisabledName)
	}
	return Timeout(v), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Timeout) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return pkgerrors.Wrapf(ErrInvalid, "timeout at line %d must be a scalar", value.Line)
	}
	parsed, err := ParseTimeout(value.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Timeout) MarshalYAML() (interface{}, error) {
	if t > 0 {
		return int(t), nil
	}
	return t.String(), nil
}
