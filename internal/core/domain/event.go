package domain

import "fmt"

type EntityUpdateEventMixIn struct {
	Id string
}

type EntityUpdateEvent interface {
	EntityUpdateEvent() string
	EntityId() string
}

func (e EntityUpdateEventMixIn) EntityUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e EntityUpdateEventMixIn) EntityId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	EntityUpdateEventMixIn
	Value    float64
	Decimals uint
}

type BinarySensorUpdateEvent struct {
	EntityUpdateEventMixIn
	Value bool
}

type SwitchStateUpdateEvent struct {
	EntityUpdateEventMixIn
	Value bool
}

type SwitchAttributesUpdateEvent struct {
	EntityUpdateEventMixIn
	Attributes map[string]any
}

type TextSensorUpdateEvent struct {
	EntityUpdateEventMixIn
	Value string
}

// LightStateUpdateEvent carries host-range values: brightness 0-255, color
// temperature in mireds. Nil means no published value.
type LightStateUpdateEvent struct {
	EntityUpdateEventMixIn
	On         bool
	Brightness *int
	ColorTemp  *int
}

// FanStateUpdateEvent carries the speed as a 0-100 percentage. Percentage is
// published only in manual mode.
type FanStateUpdateEvent struct {
	EntityUpdateEventMixIn
	On         bool
	Percentage *int
	PresetMode string
}

type HumidifierStateUpdateEvent struct {
	EntityUpdateEventMixIn
	On              bool
	Mode            string
	TargetHumidity  int
	CurrentHumidity *int
}

type NumberStateUpdateEvent struct {
	EntityUpdateEventMixIn
	Value    float64
	Decimals uint
}

type BridgeStateUpdateEvent struct {
	EntityUpdateEventMixIn
	Value bool
}

// DeviceAvailabilityUpdateEvent drives the per-device availability topic.
// Id is the device id, not an entity id.
type DeviceAvailabilityUpdateEvent struct {
	EntityUpdateEventMixIn
	Online bool
}
