package monitors

import (
	"errors"
	"testing"
)

type fakeSession struct {
	results []error
	n       int
	closed  bool
}

func (s *fakeSession) connected() (int, error) {
	if len(s.results) > 0 {
		err := s.results[0]
		s.results = s.results[1:]
		if err != nil {
			return 0, err
		}
	}
	return s.n, nil
}

func (s *fakeSession) close() { s.closed = true }

func TestRandRProbe_ResetOnQueryError(t *testing.T) {
	errOutput := errors.New("failed to get info of output 66")

	var sessions []*fakeSession
	r := &RandRProbe{open: func() (session, error) {
		s := &fakeSession{n: 2}
		if len(sessions) == 0 {
			s.results = []error{nil, errOutput}
		}
		sessions = append(sessions, s)
		return s, nil
	}}

	if n, err := r.Connected(); err != nil || n != 2 {
		t.Fatalf("Connected() = %d, %v, want 2, nil", n, err)
	}
	if _, err := r.Connected(); !errors.Is(err, errOutput) {
		t.Fatalf("Connected() error = %v, want %v", err, errOutput)
	}
	if !sessions[0].closed {
		t.Fatalf("a failed query should close the connection")
	}

	if n, err := r.Connected(); err != nil || n != 2 {
		t.Fatalf("Connected() after reset = %d, %v, want 2, nil", n, err)
	}
	if len(sessions) != 2 {
		t.Fatalf("opened %d connections, want 2", len(sessions))
	}

	r.Close()
	if !sessions[1].closed {
		t.Errorf("Close() should close the connection")
	}
}

func TestRandRProbe_OpenError(t *testing.T) {
	errDial := errors.New("no display")
	r := &RandRProbe{open: func() (session, error) { return nil, errDial }}

	if _, err := r.Connected(); !errors.Is(err, errDial) {
		t.Fatalf("Connected() error = %v, want %v", err, errDial)
	}
	// Nothing to close.
	r.Close()
}
