package notification

import (
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battnotify/pkg/config"
)

var _ Notifier = &LogNotifier{}

// LogNotifier writes notifications to the log. It is used when no
// notification server is reachable.
type LogNotifier struct {
	next Handle
}

func (l *LogNotifier) Show(summary string, urgency Urgency, _ config.Timeout) (Handle, error) {
	l.next++
	logrus.WithFields(logrus.Fields{
		"urgency": urgency,
		"id":      l.next,
	}).Infof("notification: %s", summary)
	return l.next, nil
}

func (l *LogNotifier) Close(h Handle) error {
	logrus.WithField("id", h).Debug("notification closed")
	return nil
}
