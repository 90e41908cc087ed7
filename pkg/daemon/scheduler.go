package daemon

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// TickFunc runs one poll. A returned error stops the scheduler.
type TickFunc func(now time.Time) error

// Scheduler runs a TickFunc at a fixed interval on the calling goroutine.
// If a tick overruns the interval, the schedule restarts from the end of
// that tick instead of running the missed ticks back to back.
type Scheduler struct {
	// Heartbeat, if set, is called before every tick.
	Heartbeat func()

	interval time.Duration
	recorder *TickRecorder
	now      func() time.Time

	stopped atomic.Bool
	stopCh  chan struct{}
}

func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		panic("interval must be positive")
	}

	return &Scheduler{
		interval: interval,
		recorder: NewTickRecorder(60, interval),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Stop makes Run return before the next tick, waking it up if it is
// sleeping. A tick that has already started runs to completion. It is safe
// to call from a signal handling goroutine.
func (s *Scheduler) Stop() {
	s.stopped.Store(true)
	select {
	case <-s.stopCh: // already closed
	default:
		close(s.stopCh)
	}
}

// Run ticks until Stop is called or tick returns an error.
func (s *Scheduler) Run(tick TickFunc) error {
	logrus.WithField("interval", s.interval.String()).Debug("scheduler started")
	defer logrus.Debug("scheduler stopped")

	next := s.now()
	for {
		if s.stopped.Load() {
			return nil
		}

		if s.Heartbeat != nil {
			s.Heartbeat()
		}

		now := s.now()
		s.recorder.CheckMissed(now)
		s.recorder.AddRecord(now)

		if err := tick(now); err != nil {
			return err
		}

		var wait time.Duration
		next, wait = nextWake(next, s.now(), s.interval)

		if !s.sleep(wait) {
			return nil
		}
	}
}

// nextWake advances prev by one interval. If that is not in the future,
// the schedule is restarted from now.
func nextWake(prev, now time.Time, interval time.Duration) (time.Time, time.Duration) {
	next := prev.Add(interval)
	if !next.After(now) {
		logrus.WithField("behind", now.Sub(next).String()).Debug("tick overran the interval, rescheduling")
		next = now.Add(interval)
	}
	return next, next.Sub(now)
}

// sleep waits for d. It returns false if woken up by Stop.
func (s *Scheduler) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-s.stopCh:
		return false
	}
}
