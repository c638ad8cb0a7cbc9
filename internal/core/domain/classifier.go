package domain

import (
	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

	"go.uber.org/zap"
)

type Platform string

const (
	PlatformSwitch       Platform = "switch"
	PlatformLight        Platform = "light"
	PlatformFan          Platform = "fan"
	PlatformHumidifier   Platform = "humidifier"
	PlatformSensor       Platform = "sensor"
	PlatformBinarySensor Platform = "binary_sensor"
	PlatformNumber       Platform = "number"
	PlatformButton       Platform = "button"
)

func Platforms() []Platform {
	return []Platform{
		PlatformSwitch, PlatformLight, PlatformFan, PlatformHumidifier,
		PlatformSensor, PlatformBinarySensor, PlatformNumber, PlatformButton,
	}
}

// Routing maps every platform to the ordered list of devices exposed under
// it. Every platform key is always present, lists possibly empty.
type Routing map[Platform][]vesync.Device

// Classify partitions the device collection onto platforms. The pass only
// reads collection membership and capability flags, it cannot fail.
func Classify(col *vesync.DeviceCollection, logger *zap.Logger) Routing {
	routing := Routing{}
	for _, p := range Platforms() {
		routing[p] = []vesync.Device{}
	}

	add := func(d vesync.Device, platforms ...Platform) {
		for _, p := range platforms {
			routing[p] = append(routing[p], d)
		}
	}

	// Fans, purifiers and humidifiers are multi-homed: the auxiliary
	// entities (level numbers, child-lock switch, night light,
	// diagnostics) hang off the secondary platforms. Which of them a
	// device actually grows is decided per capability at entity
	// construction, not here.
	for _, f := range col.Fans {
		add(f, PlatformFan, PlatformNumber, PlatformSwitch, PlatformSensor, PlatformBinarySensor, PlatformLight)
	}
	for _, f := range col.AirPurifiers {
		add(f, PlatformFan, PlatformNumber, PlatformSwitch, PlatformSensor, PlatformBinarySensor, PlatformLight)
	}
	for _, h := range col.Humidifiers {
		add(h, PlatformHumidifier, PlatformNumber, PlatformSwitch, PlatformSensor, PlatformBinarySensor, PlatformLight)
	}
	for _, b := range col.Bulbs {
		add(b, PlatformLight)
	}
	for _, o := range col.Outlets {
		add(o, PlatformSwitch, PlatformSensor)
	}
	// A dimmable wall switch behaves as a light from the host's
	// perspective.
	for _, s := range col.Switches {
		if s.Caps.Dimmable {
			add(s, PlatformLight)
		} else {
			add(s, PlatformSwitch)
		}
	}
	for _, a := range col.AirFryers {
		add(a, PlatformSensor, PlatformBinarySensor, PlatformSwitch, PlatformButton)
		logger.Warn("air fryer support is partial, some functions are unavailable",
			zap.String("device_name", a.DeviceName),
			zap.String("device_type", a.DeviceType))
	}

	if col.Empty() {
		logger.Info("no devices found in VeSync account")
	}

	return routing
}
