// Package notification shows desktop notifications and makes sure each
// alert category has at most one of them on screen.
package notification

import (
	"github.com/charlie0129/battnotify/pkg/config"
)

// Urgency of a notification.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyCritical
)

func (u Urgency) String() string {
	if u == UrgencyCritical {
		return "critical"
	}
	return "normal"
}

// Handle identifies a notification that is on screen.
type Handle uint32

// Notifier renders notifications.
type Notifier interface {
	Show(summary string, urgency Urgency, timeout config.Timeout) (Handle, error)
	Close(Handle) error
}
