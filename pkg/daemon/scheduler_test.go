package daemon

import (
	"errors"
	"testing"
	"time"
)

func TestNextWake(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	interval := 30 * time.Second

	tests := []struct {
		name     string
		prev     time.Time
		now      time.Time
		wantNext time.Time
		wantWait time.Duration
	}{
		{
			name:     "fast tick keeps the cadence",
			prev:     t0,
			now:      t0.Add(time.Second),
			wantNext: t0.Add(interval),
			wantWait: 29 * time.Second,
		},
		{
			name:     "overrun restarts from now",
			prev:     t0,
			now:      t0.Add(45 * time.Second),
			wantNext: t0.Add(75 * time.Second),
			wantWait: interval,
		},
		{
			name:     "tick ending exactly on the wake time restarts",
			prev:     t0,
			now:      t0.Add(interval),
			wantNext: t0.Add(2 * interval),
			wantWait: interval,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, wait := nextWake(tt.prev, tt.now, interval)
			if !next.Equal(tt.wantNext) {
				t.Errorf("next = %v, want %v", next, tt.wantNext)
			}
			if wait != tt.wantWait {
				t.Errorf("wait = %v, want %v", wait, tt.wantWait)
			}
			if wait <= 0 {
				t.Errorf("wait must be positive, got %v", wait)
			}
		})
	}
}

func TestSchedulerRunUntilStop(t *testing.T) {
	s := NewScheduler(time.Millisecond)

	heartbeats := 0
	s.Heartbeat = func() { heartbeats++ }

	ticks := 0
	err := s.Run(func(time.Time) error {
		ticks++
		if ticks == 3 {
			s.Stop()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3", ticks)
	}
	if heartbeats != 3 {
		t.Fatalf("heartbeats = %d, want 3", heartbeats)
	}
}

func TestSchedulerStopWakesSleep(t *testing.T) {
	s := NewScheduler(time.Hour)

	ticked := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Run(func(time.Time) error {
			close(ticked)
			return nil
		})
	}()

	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatalf("first tick did not run in time")
	}

	s.Stop()
	s.Stop() // second call must not panic

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Stop() did not wake up the scheduler")
	}
}

func TestSchedulerStopBeforeRun(t *testing.T) {
	s := NewScheduler(time.Millisecond)
	s.Stop()

	err := s.Run(func(time.Time) error {
		t.Fatalf("tick should not run after Stop()")
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestSchedulerTickError(t *testing.T) {
	s := NewScheduler(time.Millisecond)
	boom := errors.New("boom")

	ticks := 0
	err := s.Run(func(time.Time) error {
		ticks++
		if ticks == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if ticks != 2 {
		t.Fatalf("ticks = %d, want 2", ticks)
	}
}

func TestSchedulerOverrunDoesNotSpin(t *testing.T) {
	s := NewScheduler(20 * time.Millisecond)

	var starts []time.Time
	err := s.Run(func(now time.Time) error {
		starts = append(starts, now)
		if len(starts) == 1 {
			// Overrun the interval.
			time.Sleep(50 * time.Millisecond)
		}
		if len(starts) == 2 {
			s.Stop()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The second tick waits a full interval after the slow one ended
	// instead of starting immediately.
	if gap := starts[1].Sub(starts[0]); gap < 70*time.Millisecond {
		t.Fatalf("gap between ticks = %v, want at least 70ms", gap)
	}
}
