package notification

import (
	"errors"
	"testing"

	"github.com/charlie0129/battnotify/pkg/config"
)

type fakeNotifier struct {
	next   Handle
	shows  []string
	closes []Handle
	live   map[Handle]string
	fail   bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{live: map[Handle]string{}}
}

func (f *fakeNotifier) Show(summary string, _ Urgency, _ config.Timeout) (Handle, error) {
	f.shows = append(f.shows, summary)
	if f.fail {
		return 0, errors.New("no notification server")
	}
	f.next++
	f.live[f.next] = summary
	return f.next, nil
}

func (f *fakeNotifier) Close(h Handle) error {
	f.closes = append(f.closes, h)
	delete(f.live, h)
	return nil
}

func TestSlotShowIsIdempotent(t *testing.T) {
	n := newFakeNotifier()
	s := NewSlot(n)

	s.Show("Battery low (30%)", UrgencyCritical, config.TimeoutPersistent)
	s.Show("Battery low (30%)", UrgencyCritical, config.TimeoutPersistent)

	if len(n.shows) != 1 {
		t.Fatalf("notifier received %d shows, want 1", len(n.shows))
	}
	if len(n.closes) != 0 {
		t.Fatalf("notifier received %d closes, want 0", len(n.closes))
	}
}

func TestSlotShowReplaces(t *testing.T) {
	n := newFakeNotifier()
	s := NewSlot(n)

	s.Show("A", UrgencyNormal, config.TimeoutPersistent)
	s.Show("B", UrgencyNormal, config.TimeoutPersistent)

	if len(n.shows) != 2 {
		t.Fatalf("notifier received %d shows, want 2", len(n.shows))
	}
	if len(n.closes) != 1 || n.closes[0] != 1 {
		t.Fatalf("closes = %v, want [1]", n.closes)
	}
	if len(n.live) != 1 || n.live[2] != "B" {
		t.Fatalf("live notifications = %v, want only B", n.live)
	}
	if got, ok := s.Summary(); !ok || got != "B" {
		t.Fatalf("Summary() = %q, %v", got, ok)
	}
}

func TestSlotClose(t *testing.T) {
	n := newFakeNotifier()
	s := NewSlot(n)

	s.Close()
	if len(n.closes) != 0 {
		t.Fatalf("Close() on empty slot should not reach the notifier")
	}

	s.Show("A", UrgencyNormal, config.TimeoutPersistent)
	s.Close()
	s.Close()
	if len(n.closes) != 1 {
		t.Fatalf("closes = %v, want exactly one", n.closes)
	}
	if _, ok := s.Summary(); ok {
		t.Fatalf("slot should be empty after Close()")
	}

	// Same text shows again after a close.
	s.Show("A", UrgencyNormal, config.TimeoutPersistent)
	if len(n.shows) != 2 {
		t.Fatalf("shows = %v, want 2", n.shows)
	}
}

func TestSlotShowFailure(t *testing.T) {
	n := newFakeNotifier()
	n.fail = true
	s := NewSlot(n)

	s.Show("A", UrgencyNormal, config.TimeoutPersistent)
	s.Show("A", UrgencyNormal, config.TimeoutPersistent)
	if len(n.shows) != 1 {
		t.Fatalf("failed show should not be retried with the same text, got %d shows", len(n.shows))
	}

	s.Close()
	if len(n.closes) != 0 {
		t.Fatalf("nothing was shown, Close() should not reach the notifier")
	}

	n.fail = false
	s.Show("A", UrgencyNormal, config.TimeoutPersistent)
	if len(n.live) != 1 {
		t.Fatalf("live = %v, want one notification", n.live)
	}
}

func TestSlotMapSweep(t *testing.T) {
	n := newFakeNotifier()
	m := NewSlotMap(n)

	m.Get("headphones").Show("headphones battery low (10%)", UrgencyNormal, config.TimeoutPersistent)
	m.Get("mouse").Show("mouse battery low (5%)", UrgencyNormal, config.TimeoutPersistent)
	m.Get("keyboard")

	m.Sweep(map[string]struct{}{"keyboard": {}})

	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	if len(n.live) != 0 {
		t.Fatalf("swept slots left live notifications: %v", n.live)
	}

	m.Get("keyboard").Show("keyboard battery low (1%)", UrgencyNormal, config.TimeoutPersistent)
	m.CloseAll()
	if m.Len() != 0 || len(n.live) != 0 {
		t.Fatalf("CloseAll() left %d slots and %v live", m.Len(), n.live)
	}
}
