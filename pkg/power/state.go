package power

import (
	"strings"
)

// State is the charging state of a battery, or of all batteries combined.
type State int

const (
	// Invalid means no reading has been taken yet.
	Invalid State = iota
	// Charging indicates the battery is charging.
	Charging
	// Discharging indicates the battery is discharging.
	Discharging
	// NotCharging indicates the battery is on AC but not taking charge.
	NotCharging
	// Full indicates the battery is full.
	Full
	// Unknown is reported by the kernel when the driver cannot tell.
	Unknown
	// AtThreshold is never reported by hardware. It is inferred when every
	// battery is idle because a charge limit has been reached.
	AtThreshold
)

// stateNames is the single mapping between states and their names, used
// both to parse sysfs "status" files and to render states for users and
// command lookup.
var stateNames = []struct {
	state State
	name  string
}{
	{Charging, "Charging"},
	{Discharging, "Discharging"},
	{NotCharging, "Not charging"},
	{Full, "Full"},
	{Unknown, "Unknown"},
	{AtThreshold, "At threshold"},
	{Invalid, "Invalid"},
}

// String returns the canonical name, e.g. "Not charging".
func (s State) String() string {
	for _, n := range stateNames {
		if n.state == s {
			return n.name
		}
	}
	return "Invalid"
}

// Key returns the snake_case form used for config keys, e.g. "not_charging".
func (s State) Key() string {
	return strings.ReplaceAll(strings.ToLower(s.String()), " ", "_")
}

// ParseState parses a canonical state name. ok is false if the name is not
// in the table.
func ParseState(name string) (s State, ok bool) {
	for _, n := range stateNames {
		if n.name == name {
			return n.state, true
		}
	}
	return Invalid, false
}

// parseHardwareState maps a kernel-reported status to a State. Anything
// not known, including the synthetic names, becomes Unknown.
func parseHardwareState(name string) State {
	s, ok := ParseState(name)
	if !ok || s == AtThreshold || s == Invalid {
		return Unknown
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
