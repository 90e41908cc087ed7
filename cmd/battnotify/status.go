package main

import (
	"encoding/json"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battnotify/pkg/config"
	"github.com/charlie0129/battnotify/pkg/daemon"
	"github.com/charlie0129/battnotify/pkg/power"
)

const (
	bandNormal   = "normal"
	bandLow      = "low"
	bandCritical = "critical"
)

type statusJSON struct {
	Batteries []power.Reading `json:"batteries"`
	Global    power.Global    `json:"global"`
	Band      string          `json:"band"`
	LowPct    uint8           `json:"lowPct"`
	SleepPct  uint8           `json:"sleepPct"`
}

// band returns which alert band the global battery is in.
func band(g power.Global, conf config.Config) string {
	switch {
	case g.State == power.Charging || g.Level > conf.LowPercent():
		return bandNormal
	case g.Level <= conf.SleepPercent():
		return bandCritical
	default:
		return bandLow
	}
}

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Read the batteries once and print their status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			readings, err := daemon.NewReader(conf).Read()
			if err != nil {
				return err
			}
			global := power.Aggregate(readings)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statusJSON{
					Batteries: readings,
					Global:    global,
					Band:      band(global, conf),
					LowPct:    conf.LowPercent(),
					SleepPct:  conf.SleepPercent(),
				})
			}

			cmd.Println(bold("Batteries:"))
			for _, r := range readings {
				cmd.Printf("  %s: %s, %s (%.2f / %.2f Wh)\n",
					r.Name, stateText(r.State), bold("%d%%", r.Level()),
					float64(r.EnergyNow)/1e6, float64(r.EnergyFull)/1e6)
			}
			cmd.Println()

			cmd.Println(bold("Global:"))
			cmd.Printf("  State: %s\n", stateText(global.State))
			if global.Ambiguous {
				cmd.Printf("    %s\n", color.YellowString("battery states are inconsistent, treated as discharging"))
			}
			cmd.Printf("  Level: %s\n", bold("%d%%", global.Level))
			cmd.Printf("  Alert: %s\n", bandText(band(global, conf)))
			cmd.Println()

			cmd.Println(bold("Thresholds:"))
			cmd.Printf("  Low: %s\n", bold("%d%%", conf.LowPercent()))
			cmd.Printf("  Sleep: %s\n", bold("%d%%", conf.SleepPercent()))
			if conf.BluetoothLowPercent() > 0 {
				cmd.Printf("  Bluetooth low: %s\n", bold("%d%%", conf.BluetoothLowPercent()))
			} else {
				cmd.Printf("  Bluetooth low: %s\n", bool2Text(false))
			}
			if conf.MonitorsWithNoAC() > 0 {
				cmd.Printf("  Monitors without AC: %s\n", bold("%d", conf.MonitorsWithNoAC()))
			} else {
				cmd.Printf("  Monitors without AC: %s\n", bool2Text(false))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func stateText(s power.State) string {
	switch s {
	case power.Charging:
		return color.GreenString(s.String())
	case power.Discharging:
		return color.RedString(s.String())
	case power.Full:
		return color.New(color.Bold, color.FgGreen).Sprint(s.String())
	}
	return s.String()
}

func bandText(b string) string {
	switch b {
	case bandCritical:
		return color.New(color.Bold, color.FgRed).Sprint(b)
	case bandLow:
		return color.New(color.Bold, color.FgYellow).Sprint(b)
	}
	return b
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
