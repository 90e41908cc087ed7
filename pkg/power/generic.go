package power

import (
	"errors"
	"fmt"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var _ Reader = &GenericReader{}

// GenericReader reads batteries through the platform-independent battery
// library. It is useful where sysfs is not available.
type GenericReader struct {
	getAll func() ([]*battery.Battery, error)
}

func NewGenericReader() *GenericReader {
	return &GenericReader{getAll: battery.GetAll}
}

func (g *GenericReader) Read() ([]Reading, error) {
	batteries, err := g.getAll()

	var errs battery.Errors
	if err != nil && !errors.As(err, &errs) {
		return nil, pkgerrors.Wrapf(ErrNoBattery, "failed to get batteries: %v", err)
	}

	var readings []Reading
	for i, bat := range batteries {
		var batErr error
		if i < len(errs) {
			batErr = errs[i]
		}
		usable, stateKnown := checkBatteryError(batErr)
		if !usable {
			logrus.WithField("battery", i).Debugf("skipping battery: %v", batErr)
			continue
		}
		if bat == nil || bat.Full <= 0 {
			continue
		}

		state := Unknown
		if stateKnown {
			switch bat.State {
			case battery.Charging:
				state = Charging
			case battery.Discharging:
				state = Discharging
			case battery.Full:
				state = Full
			}
		}

		current := bat.Current
		if current < 0 {
			current = 0
		}

		// The library reports mWh.
		readings = append(readings, Reading{
			Name:       fmt.Sprintf("BAT%d", i),
			State:      state,
			EnergyNow:  uint64(current * 1000),
			EnergyFull: uint64(bat.Full * 1000),
		})
	}

	if len(readings) == 0 {
		return nil, ErrNoBattery
	}

	return readings, nil
}

// checkBatteryError tells whether a battery with the given per-battery
// error still has usable energy values, and whether its state can be
// trusted. Only Current and Full are needed for a reading. A failed State
// is common on Linux, where "Not charging" is not a state the library
// knows, and is read as Unknown.
func checkBatteryError(err error) (usable, stateKnown bool) {
	if err == nil {
		return true, true
	}

	var partial battery.ErrPartial
	if !errors.As(err, &partial) {
		return false, false
	}
	if partial.Current != nil || partial.Full != nil {
		return false, false
	}
	return true, partial.State == nil
}
