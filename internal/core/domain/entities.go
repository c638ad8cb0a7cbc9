package domain

import (
	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

// BuildEntities walks the routing table and constructs one entity adapter
// per (device, platform, feature) with its command binding. Which features a
// device grows on the secondary platforms is decided here from its
// capability flags.
func BuildEntities(routing Routing, baseTopic string) (EntitySet, *CommandRegistry) {
	b := &entityBuilder{
		registry: NewCommandRegistry(),
		bridge:   BridgeDevice(baseTopic),
		seen:     map[string]Device{},
	}

	b.set.BinarySensors = append(b.set.BinarySensors, BridgeSensors(b.bridge)...)

	for _, platform := range Platforms() {
		for _, dev := range routing[platform] {
			b.build(platform, dev)
		}
	}

	return b.set, b.registry
}

type entityBuilder struct {
	set      EntitySet
	registry *CommandRegistry
	bridge   Device
	seen     map[string]Device
}

// device returns the grouping block for one physical device: the full block
// the first time, the id-only form after, so the host merges all entities
// under one device card.
func (b *entityBuilder) device(meta vesync.DeviceMeta) Device {
	if full, ok := b.seen[meta.BaseID()]; ok {
		return IdDevice(full)
	}
	full := VesyncDevice(meta)
	full.ViaDevice = b.bridge.Id
	b.seen[meta.BaseID()] = full
	return full
}

func (b *entityBuilder) build(platform Platform, dev vesync.Device) {
	switch platform {
	case PlatformSwitch:
		b.buildSwitches(dev)
	case PlatformLight:
		b.buildLights(dev)
	case PlatformFan:
		b.buildFans(dev)
	case PlatformHumidifier:
		b.buildHumidifiers(dev)
	case PlatformSensor:
		b.buildSensors(dev)
	case PlatformBinarySensor:
		b.buildBinarySensors(dev)
	case PlatformNumber:
		b.buildNumbers(dev)
	case PlatformButton:
		b.buildButtons(dev)
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{
		{
			Device:      bridgeDevice,
			Id:          SENSOR_ID_BRIDGE_STATE,
			SensorType:  SENSOR_TYPE_BINARY,
			Name:        "Bridge connection state",
			DeviceClass: DEVICE_CLASS_CONNECTIVITY,
			UniqueId:    FeatureUniqueId(bridgeDevice.Id, "_state"),
		},
	}
}
