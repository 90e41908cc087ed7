package main

import (
	"testing"

	"github.com/charlie0129/battnotify/pkg/config"
	"github.com/charlie0129/battnotify/pkg/power"
	"github.com/charlie0129/battnotify/pkg/utils/ptr"
)

func TestBand(t *testing.T) {
	conf := config.NewFileFromConfig(&config.RawFileConfig{
		LowPct:   ptr.To(40),
		SleepPct: ptr.To(15),
	}, "")

	tests := []struct {
		name   string
		global power.Global
		want   string
	}{
		{"above low", power.Global{State: power.Discharging, Level: 41}, bandNormal},
		{"at low", power.Global{State: power.Discharging, Level: 40}, bandLow},
		{"charging while low", power.Global{State: power.Charging, Level: 5}, bandNormal},
		{"at sleep", power.Global{State: power.Discharging, Level: 15}, bandCritical},
		{"full", power.Global{State: power.Full, Level: 100}, bandNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := band(tt.global, conf); got != tt.want {
				t.Errorf("band() = %q, want %q", got, tt.want)
			}
		})
	}
}
