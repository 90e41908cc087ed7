package power

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPowerSupplyPath is where Linux exposes power supplies.
const DefaultPowerSupplyPath = "/sys/class/power_supply"

var _ Reader = &SysfsReader{}

// SysfsReader reads batteries from the Linux power_supply class.
type SysfsReader struct {
	root string
}

func NewSysfsReader(root string) *SysfsReader {
	if root == "" {
		root = DefaultPowerSupplyPath
	}
	return &SysfsReader{root: root}
}

func (s *SysfsReader) Read() ([]Reading, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrNoBattery, "failed to list %s: %v", s.root, err)
	}

	var readings []Reading
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "BAT") {
			continue
		}
		r, err := readBatteryDir(filepath.Join(s.root, e.Name()))
		if err != nil {
			logrus.WithField("battery", e.Name()).Debugf("skipping battery: %v", err)
			continue
		}
		readings = append(readings, r)
	}

	if len(readings) == 0 {
		return nil, pkgerrors.Wrapf(ErrNoBattery, "no usable BAT* entry in %s", s.root)
	}

	return readings, nil
}

func readBatteryDir(dir string) (Reading, error) {
	status, err := readBatteryFile(dir, "status")
	if err != nil {
		return Reading{}, err
	}
	now, err := readEnergyOrCharge(dir, "now")
	if err != nil {
		return Reading{}, err
	}
	full, err := readEnergyOrCharge(dir, "full")
	if err != nil {
		return Reading{}, err
	}
	if full == 0 {
		return Reading{}, pkgerrors.Errorf("%s reports zero full energy", dir)
	}

	return Reading{
		Name:       filepath.Base(dir),
		State:      parseHardwareState(status),
		EnergyNow:  now,
		EnergyFull: full,
	}, nil
}

// readBatteryFile returns the first line of a sysfs attribute.
func readBatteryFile(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to read %s", name)
	}
	content := string(b)
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	return content, nil
}

func readBatteryUint(dir, name string) (uint64, error) {
	s, err := readBatteryFile(dir, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to parse %s", name)
	}
	return v, nil
}

// readEnergyOrCharge returns energy_<suffix> in µWh. Some drivers only
// expose charge_<suffix> in µAh, which is converted with voltage_now (µV).
func readEnergyOrCharge(dir, suffix string) (uint64, error) {
	uwh, err := readBatteryUint(dir, "energy_"+suffix)
	if err == nil {
		return uwh, nil
	}

	uv, err := readBatteryUint(dir, "voltage_now")
	if err != nil {
		return 0, err
	}
	uah, err := readBatteryUint(dir, "charge_"+suffix)
	if err != nil {
		return 0, err
	}
	return uah * uv / 1_000_000, nil
}
