package power

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSysfs(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for f, content := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(content+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSysfsReader(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, "BAT0", map[string]string{
		"status":      "Discharging",
		"energy_now":  "3000",
		"energy_full": "10000",
	})
	// charge-only driver: 2000 µAh * 12 V = 24000 µWh
	writeSysfs(t, root, "BAT1", map[string]string{
		"status":      "Not charging",
		"charge_now":  "1000",
		"charge_full": "2000",
		"voltage_now": "12000000",
	})
	// broken battery is skipped
	writeSysfs(t, root, "BAT2", map[string]string{
		"status": "Full",
	})
	// not a battery
	writeSysfs(t, root, "AC", map[string]string{
		"online": "1",
	})

	readings, err := NewSysfsReader(root).Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("Read() returned %d readings, want 2: %+v", len(readings), readings)
	}

	byName := map[string]Reading{}
	for _, r := range readings {
		byName[r.Name] = r
	}

	want0 := Reading{Name: "BAT0", State: Discharging, EnergyNow: 3000, EnergyFull: 10000}
	if byName["BAT0"] != want0 {
		t.Errorf("BAT0 = %+v, want %+v", byName["BAT0"], want0)
	}
	want1 := Reading{Name: "BAT1", State: NotCharging, EnergyNow: 12000, EnergyFull: 24000}
	if byName["BAT1"] != want1 {
		t.Errorf("BAT1 = %+v, want %+v", byName["BAT1"], want1)
	}
}

func TestSysfsReaderNoBattery(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, "BAT0", map[string]string{
		"status":      "Full",
		"energy_now":  "0",
		"energy_full": "0",
	})

	_, err := NewSysfsReader(root).Read()
	if !errors.Is(err, ErrNoBattery) {
		t.Fatalf("Read() error = %v, want ErrNoBattery", err)
	}

	_, err = NewSysfsReader(filepath.Join(root, "missing")).Read()
	if !errors.Is(err, ErrNoBattery) {
		t.Fatalf("Read() on missing dir error = %v, want ErrNoBattery", err)
	}
}
