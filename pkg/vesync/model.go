package vesync

import (
	"context"
	"fmt"
)

type ProductType string

const (
	ProductOutlet     ProductType = "outlet"
	ProductSwitch     ProductType = "switch"
	ProductBulb       ProductType = "bulb"
	ProductFan        ProductType = "fan"
	ProductPurifier   ProductType = "purifier"
	ProductHumidifier ProductType = "humidifier"
	ProductAirFryer   ProductType = "airfryer"
)

const (
	StatusOn  = "on"
	StatusOff = "off"

	ConnectionOnline = "online"
)

// Device mode vocabulary as reported by the cloud API.
const (
	ModeAuto     = "auto"
	ModeHumidity = "humidity"
	ModeManual   = "manual"
	ModeSleep    = "sleep"
	ModeTurbo    = "turbo"
)

// DeviceMeta carries the cloud-assigned identity and connection state shared
// by every device family.
type DeviceMeta struct {
	CID              string
	UUID             string
	MacID            string
	ConfigModule     string
	SubDeviceNo      *int
	DeviceName       string
	DeviceType       string
	FirmwareVersion  string
	ConnectionStatus string
}

// BaseID is the stable identifier for a physical device. Multi-outlet strips
// report the same CID for every socket, disambiguated by SubDeviceNo.
func (m DeviceMeta) BaseID() string {
	if m.SubDeviceNo != nil {
		return fmt.Sprintf("%s%d", m.CID, *m.SubDeviceNo)
	}
	return m.CID
}

func (m DeviceMeta) Online() bool {
	return m.ConnectionStatus == ConnectionOnline
}

// Device is the read surface common to all families. Command methods live on
// the concrete family structs.
type Device interface {
	Meta() DeviceMeta
	Product() ProductType
}

// Dispatcher executes a device command against the cloud backend. The real
// implementation is the cloud client; tests substitute a recorder.
type Dispatcher interface {
	Command(ctx context.Context, meta DeviceMeta, method string, params map[string]any) error
}

// DeviceCollection groups the account's devices by family. Slices may be
// empty but are never nil after a rescan.
type DeviceCollection struct {
	Outlets      []*Outlet
	Switches     []*WallSwitch
	Bulbs        []*Bulb
	Fans         []*Fan
	AirPurifiers []*Fan
	Humidifiers  []*Humidifier
	AirFryers    []*AirFryer
}

func (c *DeviceCollection) All() []Device {
	var all []Device
	for _, d := range c.Outlets {
		all = append(all, d)
	}
	for _, d := range c.Switches {
		all = append(all, d)
	}
	for _, d := range c.Bulbs {
		all = append(all, d)
	}
	for _, d := range c.Fans {
		all = append(all, d)
	}
	for _, d := range c.AirPurifiers {
		all = append(all, d)
	}
	for _, d := range c.Humidifiers {
		all = append(all, d)
	}
	for _, d := range c.AirFryers {
		all = append(all, d)
	}
	return all
}

func (c *DeviceCollection) Empty() bool {
	return len(c.All()) == 0
}

// Manager is the session owning authentication, device discovery and state
// refresh against the VeSync cloud.
type Manager interface {
	Login(ctx context.Context) error
	// Rescan re-fetches the account device list.
	Rescan(ctx context.Context) error
	// Update refreshes the state snapshot of every known device, including
	// outlet energy history.
	Update(ctx context.Context) error
	Devices() *DeviceCollection
}

func IntPtr(v int) *int {
	return &v
}

func Float64Ptr(v float64) *float64 {
	return &v
}

func BoolPtr(v bool) *bool {
	return &v
}

func StringPtr(v string) *string {
	return &v
}
