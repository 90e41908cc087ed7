package daemon

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// TickRecorder records the last N tick times, to tell when ticks were
// missed, usually because the system was asleep.
type TickRecorder struct {
	MaxRecordCount int
	LastTickTimes  []time.Time
	interval       time.Duration
	mu             *sync.Mutex
}

// NewTickRecorder returns a new TickRecorder.
func NewTickRecorder(maxRecordCount int, interval time.Duration) *TickRecorder {
	return &TickRecorder{
		MaxRecordCount: maxRecordCount,
		LastTickTimes:  make([]time.Time, 0),
		interval:       interval,
		mu:             &sync.Mutex{},
	}
}

// AddRecord adds a new record.
func (r *TickRecorder) AddRecord(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strip monotonic clock reading.
	// This will prevent Sub from hiding the time the system spent in sleep mode.
	t = t.Round(0)

	if len(r.LastTickTimes) >= r.MaxRecordCount {
		r.LastTickTimes = r.LastTickTimes[1:]
	}
	r.LastTickTimes = append(r.LastTickTimes, t)
}

// GetRecords returns the records.
func (r *TickRecorder) GetRecords() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]time.Time(nil), r.LastTickTimes...)
}

// GetLastRecord returns the last record.
func (r *TickRecorder) GetLastRecord() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.LastTickTimes) == 0 {
		return time.Time{}
	}

	return r.LastTickTimes[len(r.LastTickTimes)-1]
}

// GetRecordsIn returns the number of continuous records within last before
// now. Two records are continuous if they are less than interval+1s apart.
func (r *TickRecorder) GetRecordsIn(now time.Time, last time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now = now.Round(0)
	maxGap := r.interval + time.Second

	// The last record must be within the last duration.
	if len(r.LastTickTimes) > 0 && now.Sub(r.LastTickTimes[len(r.LastTickTimes)-1]) >= maxGap {
		return 0
	}

	// Find continuous records from the end of the list.
	count := 0
	for i := len(r.LastTickTimes) - 1; i >= 0; i-- {
		record := r.LastTickTimes[i]
		if now.Sub(record) > last {
			break
		}

		theRecordAfter := record
		if i+1 < len(r.LastTickTimes) {
			theRecordAfter = r.LastTickTimes[i+1]
		}

		if theRecordAfter.Sub(record) >= maxGap {
			break
		}
		count++
	}

	return count
}

// CheckMissed logs and returns true if the previous tick was more than two
// intervals before now.
func (r *TickRecorder) CheckMissed(now time.Time) bool {
	last := r.GetLastRecord()
	if last.IsZero() {
		return false
	}

	gap := now.Round(0).Sub(last)
	if gap <= 2*r.interval {
		return false
	}

	logrus.WithFields(logrus.Fields{
		"gap":             gap.Round(time.Second).String(),
		"interval":        r.interval.String(),
		"continuousTicks": r.GetRecordsIn(last, time.Duration(r.MaxRecordCount)*r.interval),
	}).Info("possibly missed ticks, was the system asleep?")
	return true
}
