// Package bluetooth reads battery levels of bluetooth devices from BlueZ.
package bluetooth

import (
	"sort"

	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
)

const (
	bluezDest          = "org.bluez"
	objectManagerIface = "org.freedesktop.DBus.ObjectManager"
	deviceIface        = "org.bluez.Device1"
	batteryIface       = "org.bluez.Battery1"
)

// Battery is the battery level of one bluetooth device.
type Battery struct {
	Name  string `json:"name"`
	Level uint8  `json:"level"`
}

// Probe returns the battery levels of connected bluetooth devices.
type Probe interface {
	Batteries() ([]Battery, error)
}

type managedObjects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant

var _ Probe = &BlueZProbe{}

// BlueZProbe asks BlueZ on the system bus for every object that has a
// Battery1 interface.
type BlueZProbe struct {
	conn *dbus.Conn
}

func NewBlueZProbe() *BlueZProbe {
	return &BlueZProbe{}
}

func (b *BlueZProbe) connect() (*dbus.Conn, error) {
	if b.conn != nil && b.conn.Connected() {
		return b.conn, nil
	}
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to system bus")
	}
	b.conn = conn
	return conn, nil
}

func (b *BlueZProbe) Batteries() ([]Battery, error) {
	conn, err := b.connect()
	if err != nil {
		return nil, err
	}

	var objects managedObjects
	err = conn.Object(bluezDest, "/").
		Call(objectManagerIface+".GetManagedObjects", 0).
		Store(&objects)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get bluez managed objects")
	}

	return parseManagedObjects(objects), nil
}

// parseManagedObjects picks the devices that expose both a name and a
// battery percentage. The result is sorted by name.
func parseManagedObjects(objects managedObjects) []Battery {
	var batteries []Battery
	for _, ifaces := range objects {
		bat, ok := ifaces[batteryIface]
		if !ok {
			continue
		}
		dev, ok := ifaces[deviceIface]
		if !ok {
			continue
		}

		pct, ok := bat["Percentage"].Value().(byte)
		if !ok {
			continue
		}
		name, ok := dev["Alias"].Value().(string)
		if !ok || name == "" {
			name, ok = dev["Name"].Value().(string)
			if !ok {
				continue
			}
		}

		batteries = append(batteries, Battery{Name: name, Level: pct})
	}

	sort.Slice(batteries, func(i, j int) bool {
		return batteries[i].Name < batteries[j].Name
	})
	return batteries
}
