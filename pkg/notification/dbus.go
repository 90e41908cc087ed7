package notification

import (
	"time"

	"github.com/esiqveland/notify"
	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battnotify/pkg/config"
)

const (
	appName = "battnotify"

	notificationsDest = "org.freedesktop.Notifications"
	notificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
)

var _ Notifier = &DBusNotifier{}

// DBusNotifier talks to the freedesktop notification server on the
// session bus.
type DBusNotifier struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func NewDBusNotifier() (*DBusNotifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to session bus")
	}

	return &DBusNotifier{
		conn: conn,
		obj:  conn.Object(notificationsDest, notificationsPath),
	}, nil
}

func expireTimeout(t config.Timeout) time.Duration {
	switch {
	case t == config.TimeoutPersistent:
		return notify.ExpireTimeoutNever
	case t > 0:
		return t.Duration()
	default:
		return notify.ExpireTimeoutSetByNotificationServer
	}
}

func (d *DBusNotifier) Show(summary string, urgency Urgency, timeout config.Timeout) (Handle, error) {
	n := notify.Notification{
		AppName:       appName,
		AppIcon:       "battery",
		Summary:       summary,
		ExpireTimeout: expireTimeout(timeout),
	}
	if urgency == UrgencyCritical {
		n.SetUrgency(notify.UrgencyCritical)
	} else {
		n.SetUrgency(notify.UrgencyNormal)
	}

	id, err := notify.SendNotification(d.conn, n)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to send notification")
	}
	return Handle(id), nil
}

func (d *DBusNotifier) Close(h Handle) error {
	if h == 0 {
		return nil
	}
	call := d.obj.Call(notificationsDest+".CloseNotification", 0, uint32(h))
	if call.Err != nil {
		return pkgerrors.Wrapf(call.Err, "failed to close notification %d", h)
	}
	return nil
}
