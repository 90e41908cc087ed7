package notification

import (
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battnotify/pkg/config"
)

// Slot owns at most one notification. Showing the same text again is a
// no-op, showing a different text replaces the old notification.
//
// Callers must Close every slot before exiting so no notification outlives
// the process.
type Slot struct {
	notifier Notifier
	handle   Handle
	live     bool
	summary  string
	shown    bool
}

func NewSlot(n Notifier) *Slot {
	return &Slot{notifier: n}
}

// Show displays summary unless it is what the slot already shows.
func (s *Slot) Show(summary string, urgency Urgency, timeout config.Timeout) {
	if s.shown && s.summary == summary {
		return
	}

	s.Close()

	logrus.WithField("urgency", urgency).Tracef("creating notification for %q", summary)
	h, err := s.notifier.Show(summary, urgency, timeout)
	if err != nil {
		logrus.Errorf("failed to show notification %q: %v", summary, err)
	} else {
		s.handle = h
		s.live = true
	}
	// Remembered even on failure, so a broken notification server is not
	// retried every tick with the same text.
	s.summary = summary
	s.shown = true
}

// Close removes the notification if one is shown.
func (s *Slot) Close() {
	if !s.shown {
		return
	}

	if s.live {
		logrus.Tracef("closing notification for %q", s.summary)
		if err := s.notifier.Close(s.handle); err != nil {
			logrus.Warnf("failed to close notification %q: %v", s.summary, err)
		}
	}

	s.handle = 0
	s.live = false
	s.summary = ""
	s.shown = false
}

// Summary returns the text currently shown, and whether anything is.
func (s *Slot) Summary() (string, bool) {
	return s.summary, s.shown
}

// SlotMap is a set of slots keyed by an identity such as a device name.
type SlotMap struct {
	notifier Notifier
	slots    map[string]*Slot
}

func NewSlotMap(n Notifier) *SlotMap {
	return &SlotMap{
		notifier: n,
		slots:    make(map[string]*Slot),
	}
}

// Get returns the slot for key, creating it if needed.
func (m *SlotMap) Get(key string) *Slot {
	s, ok := m.slots[key]
	if !ok {
		s = NewSlot(m.notifier)
		m.slots[key] = s
	}
	return s
}

// Sweep closes and forgets every slot whose key is not in keep.
func (m *SlotMap) Sweep(keep map[string]struct{}) {
	for key, s := range m.slots {
		if _, ok := keep[key]; ok {
			continue
		}
		logrus.WithField("key", key).Debug("forgetting notification slot")
		s.Close()
		delete(m.slots, key)
	}
}

// Len returns the number of tracked slots.
func (m *SlotMap) Len() int {
	return len(m.slots)
}

// CloseAll closes and forgets every slot.
func (m *SlotMap) CloseAll() {
	m.Sweep(nil)
}
