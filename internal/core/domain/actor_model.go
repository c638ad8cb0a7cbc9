package domain

import "github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_VESYNC       = "vesync"
	ACTOR_ID_POLLER       = "poller"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

// GetDevicesRequest returns the current device collection without touching
// the cloud.
type GetDevicesRequest struct {
	ActorRequestMixIn
}

type GetDevicesResponse struct {
	ActorResponseMixIn
	Devices *vesync.DeviceCollection
}

// UpdateDevicesRequest triggers a bulk state refresh of every known device.
type UpdateDevicesRequest struct {
	ActorRequestMixIn
}

type UpdateDevicesResponse struct {
	ActorResponseMixIn
	Devices *vesync.DeviceCollection
}

// RescanDevicesRequest re-fetches the account device list to pick up added
// or removed devices.
type RescanDevicesRequest struct {
	ActorRequestMixIn
}

type RescanDevicesResponse struct {
	ActorResponseMixIn
	Devices *vesync.DeviceCollection
}

// DeviceCommandRequest routes one parsed entity command to its registered
// handler.
type DeviceCommandRequest struct {
	ActorRequestMixIn
	Key     CommandKey
	Payload string
}

type DeviceCommandResponse struct {
	ActorResponseMixIn
	Key CommandKey
}

// RegisterCommandsRequest hands the freshly built command registry to the
// vendor I/O actor after a discovery pass.
type RegisterCommandsRequest struct {
	ActorRequestMixIn
	Registry *CommandRegistry
}

// RefreshDevicesRequest is the manual "refresh devices" operation: rescan
// the account and re-run discovery.
type RefreshDevicesRequest struct {
	ActorRequestMixIn
}

type RefreshDevicesResponse struct {
	ActorResponseMixIn
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishEntityUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  EntityUpdateEvent
}

type PublishEntityUpdateResponse struct {
	ActorResponseMixIn
}

// PublishDiscoveryRequest carries every entity descriptor produced by a
// classification pass.
type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Entities EntitySet
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
