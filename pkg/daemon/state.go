package daemon

import (
	"time"

	"github.com/charlie0129/battnotify/pkg/notification"
	"github.com/charlie0129/battnotify/pkg/power"
)

// State is what the daemon remembers between two ticks. It is owned by the
// loop goroutine and never shared.
type State struct {
	// LastState is the global battery state seen on the previous tick.
	LastState power.State

	// BatteryState shows "Battery now ..." after a state change.
	BatteryState *notification.Slot
	// Level shows the low and critical alerts.
	Level *notification.Slot
	// Monitors shows the monitors-without-AC warning.
	Monitors *notification.Slot
	// Bluetooth has one slot per device name.
	Bluetooth *notification.SlotMap

	// LowCommandRun is set once the low command has run, and cleared when
	// the level leaves the low band.
	LowCommandRun bool
	// LastSleepCommand is when the sleep command last ran.
	LastSleepCommand time.Time
}

func NewState(n notification.Notifier) *State {
	return &State{
		LastState:    power.Invalid,
		BatteryState: notification.NewSlot(n),
		Level:        notification.NewSlot(n),
		Monitors:     notification.NewSlot(n),
		Bluetooth:    notification.NewSlotMap(n),
	}
}

// Close closes every notification still on screen.
func (s *State) Close() {
	s.BatteryState.Close()
	s.Level.Close()
	s.Monitors.Close()
	s.Bluetooth.CloseAll()
}
