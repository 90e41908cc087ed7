// Package power reads laptop batteries and reduces them into a single
// global status.
package power

import (
	"errors"
)

// ErrNoBattery is returned by a Reader when no usable battery was found.
var ErrNoBattery = errors.New("no battery detected")

// Reading is one physical battery as seen on one poll.
// Energies are in µWh. EnergyFull is always > 0.
type Reading struct {
	Name       string `json:"name"`
	State      State  `json:"state"`
	EnergyNow  uint64 `json:"energyNow"`
	EnergyFull uint64 `json:"energyFull"`
}

// Level is the charge percentage of this battery alone, clamped to 100.
func (r Reading) Level() uint8 {
	return level(r.EnergyNow, r.EnergyFull)
}

// Global is the status of all batteries combined.
type Global struct {
	State State `json:"state"`
	Level uint8 `json:"level"`
	// Ambiguous is set when no aggregation rule matched and the state
	// fell back to Discharging.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Reader yields the batteries currently present. Batteries that fail to
// read are dropped. If none remain, ErrNoBattery is returned.
type Reader interface {
	Read() ([]Reading, error)
}

func level(now, full uint64) uint8 {
	if full == 0 {
		return 0
	}
	l := now * 100 / full
	if l > 100 {
		l = 100
	}
	return uint8(l)
}

// Aggregate reduces the readings into one Global. readings must not be
// empty.
//
// The state is decided by the first matching rule:
//   - any battery charging: Charging
//   - any battery discharging: Discharging
//   - all batteries full: Full
//   - all batteries unknown, not charging or full: AtThreshold
//   - otherwise: Discharging (Ambiguous)
//
// Energies are summed before dividing, so batteries of unequal capacity
// are weighted correctly.
func Aggregate(readings []Reading) Global {
	var now, full uint64
	for _, r := range readings {
		now += r.EnergyNow
		full += r.EnergyFull
	}

	g := Global{Level: level(now, full)}

	switch {
	case anyState(readings, Charging):
		g.State = Charging
	case anyState(readings, Discharging):
		g.State = Discharging
	case allStates(readings, Full):
		g.State = Full
	case allStates(readings, Unknown, NotCharging, Full):
		// Some laptops report "Unknown" instead of "Not charging" once
		// the charge threshold is reached.
		g.State = AtThreshold
	default:
		g.State = Discharging
		g.Ambiguous = true
	}

	return g
}

func anyState(readings []Reading, s State) bool {
	for _, r := range readings {
		if r.State == s {
			return true
		}
	}
	return false
}

func allStates(readings []Reading, states ...State) bool {
	for _, r := range readings {
		found := false
		for _, s := range states {
			if r.State == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
