package daemon

import (
	"fmt"
	"time"

	sddaemon "github.com/coreos/go-systemd/v22/daemon"
	"github.com/sirupsen/logrus"
)

// Watchdog reports liveness to systemd. Outside of systemd every call is a
// no-op.
type Watchdog struct {
	timeout time.Duration
	notify  func(state string) (bool, error)
}

// NewWatchdog declares a watchdog timeout of twice the poll interval.
func NewWatchdog(interval time.Duration) *Watchdog {
	return &Watchdog{
		timeout: 2 * interval,
		notify: func(state string) (bool, error) {
			return sddaemon.SdNotify(false, state)
		},
	}
}

func (w *Watchdog) send(state string) {
	sent, err := w.notify(state)
	if err != nil {
		logrus.Warnf("failed to notify systemd: %v", err)
		return
	}
	if sent {
		logrus.Tracef("notified systemd: %q", state)
	}
}

// Ready tells systemd startup is done and sets the watchdog timeout.
func (w *Watchdog) Ready() {
	w.send(fmt.Sprintf("%s\nWATCHDOG_USEC=%d", sddaemon.SdNotifyReady, w.timeout.Microseconds()))
}

// Heartbeat resets the watchdog timer.
func (w *Watchdog) Heartbeat() {
	w.send(sddaemon.SdNotifyWatchdog)
}

// Stopping tells systemd the daemon is shutting down.
func (w *Watchdog) Stopping() {
	w.send(sddaemon.SdNotifyStopping)
}
