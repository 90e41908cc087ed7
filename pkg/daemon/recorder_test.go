package daemon

import (
	"sync"
	"testing"
	"time"
)

func TestTickRecorder_GetRecordsIn(t *testing.T) {
	now := time.Now()

	type fields struct {
		MaxRecordCount int
		LastTickTimes  []time.Time
	}
	type args struct {
		last time.Duration
	}
	tests := []struct {
		name   string
		fields fields
		args   args
		want   int
	}{
		{
			name: "test noncontinuous records",
			fields: fields{
				MaxRecordCount: 10,
				LastTickTimes: []time.Time{
					now.Add(-time.Second * 31).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 20).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 10).Add(-10 * time.Millisecond),
				},
			},
			args: args{
				last: time.Second * 40,
			},
			want: 2,
		},
		{
			name: "test continuous records",
			fields: fields{
				MaxRecordCount: 10,
				LastTickTimes: []time.Time{
					now.Add(-time.Second * 70).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 60).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 40).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 30).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 20).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 10).Add(-10 * time.Millisecond),
				},
			},
			args: args{
				last: time.Second * 50,
			},
			want: 4,
		},
		{
			name: "test stale last record",
			fields: fields{
				MaxRecordCount: 10,
				LastTickTimes: []time.Time{
					now.Add(-time.Second * 70).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 60).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 40).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 30).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 20).Add(-10 * time.Millisecond),
					now.Add(-time.Second * 15).Add(-10 * time.Millisecond),
				},
			},
			args: args{
				last: time.Second * 50,
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &TickRecorder{
				MaxRecordCount: tt.fields.MaxRecordCount,
				LastTickTimes:  tt.fields.LastTickTimes,
				interval:       time.Second * 10,
				mu:             &sync.Mutex{},
			}
			if got := r.GetRecordsIn(now, tt.args.last); got != tt.want {
				t.Errorf("GetRecordsIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTickRecorder_AddRecord(t *testing.T) {
	r := NewTickRecorder(3, time.Second)
	base := time.Now()
	for i := 0; i < 5; i++ {
		r.AddRecord(base.Add(time.Duration(i) * time.Second))
	}

	records := r.GetRecords()
	if len(records) != 3 {
		t.Fatalf("len(GetRecords()) = %d, want 3", len(records))
	}
	if !r.GetLastRecord().Equal(base.Add(4 * time.Second)) {
		t.Fatalf("GetLastRecord() = %v, want base+4s", r.GetLastRecord())
	}
}

func TestTickRecorder_CheckMissed(t *testing.T) {
	r := NewTickRecorder(10, 10*time.Second)
	base := time.Now()

	if r.CheckMissed(base) {
		t.Fatalf("CheckMissed() with no records should be false")
	}

	r.AddRecord(base)
	if r.CheckMissed(base.Add(15 * time.Second)) {
		t.Fatalf("CheckMissed() within two intervals should be false")
	}
	if !r.CheckMissed(base.Add(5 * time.Minute)) {
		t.Fatalf("CheckMissed() after a long gap should be true")
	}
}
