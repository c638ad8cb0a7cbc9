package domain

import (
	"context"
	"testing"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func buildTestEntities(t *testing.T) (*vesync.TestManager, EntitySet, *CommandRegistry) {
	t.Helper()
	m := vesync.CreateTestManager()
	routing := Classify(m.Devices(), zap.NewNop())
	set, registry := BuildEntities(routing, "vesync2mqtt")
	return m, set, registry
}

func TestBuildEntitiesFullCollection(t *testing.T) {
	_, set, registry := buildTestEntities(t)

	// dimmer reads as a light, so only the outlet and the aux toggles
	// land on the switch platform
	assert.Len(t, set.Fans, 2, "tower fan and purifier")
	assert.Len(t, set.Humidifiers, 1)
	assert.Len(t, set.Buttons, 1)
	assert.Len(t, set.Lights, 2, "bulb and dimmer")

	switchIds := map[string]bool{}
	for _, sw := range set.Switches {
		switchIds[sw.Id] = true
	}
	assert.True(t, switchIds["outlet_cid"])
	assert.False(t, switchIds["dimmer_cid"])
	assert.True(t, switchIds["fan_cid_child_lock"])
	assert.True(t, switchIds["purifier_cid_display"])
	assert.True(t, switchIds["humidifier_cid_auto_mode"])
	assert.True(t, switchIds["humidifier_cid_automatic_stop"])

	assert.Greater(t, registry.Len(), 0)
}

func TestBuildEntitiesUniqueIdsAreStable(t *testing.T) {
	_, set1, _ := buildTestEntities(t)
	_, set2, _ := buildTestEntities(t)

	ids := func(set EntitySet) map[string]bool {
		out := map[string]bool{}
		for _, s := range set.Sensors {
			out[s.UniqueId] = true
		}
		for _, s := range set.BinarySensors {
			out[s.UniqueId] = true
		}
		for _, s := range set.Switches {
			out[s.UniqueId] = true
		}
		for _, s := range set.Lights {
			out[s.UniqueId] = true
		}
		for _, s := range set.Fans {
			out[s.UniqueId] = true
		}
		for _, s := range set.Humidifiers {
			out[s.UniqueId] = true
		}
		for _, s := range set.Numbers {
			out[s.UniqueId] = true
		}
		for _, s := range set.Buttons {
			out[s.UniqueId] = true
		}
		return out
	}

	first := ids(set1)
	assert.Equal(t, first, ids(set2))
	assert.True(t, first["outlet-cid"])
	assert.True(t, first["humidifier-cid-target-humidity"])
	assert.True(t, first["airfryer-cid-end"])
}

func TestBuildEntitiesDeviceBlocks(t *testing.T) {
	_, set, _ := buildTestEntities(t)

	// first entity of a device carries the full block, later ones only
	// the id, so discovery merges them under one device
	seenFull := map[string]int{}
	for _, n := range set.Numbers {
		if n.Device.Manufacturer != "" {
			seenFull[n.Device.Id]++
		}
	}
	for _, sw := range set.Switches {
		if sw.Device.Manufacturer != "" {
			seenFull[sw.Device.Id]++
		}
	}
	for id, count := range seenFull {
		assert.Equal(t, 1, count, "device %s has one full block", id)
	}

	for _, sw := range set.Switches {
		if sw.Device.Manufacturer != "" {
			assert.Equal(t, MANUFACTURER, sw.Device.Manufacturer)
			assert.NotEmpty(t, sw.Device.ViaDevice, "grouped under the bridge")
		}
	}
}

func TestBuildEntitiesBridgeSensor(t *testing.T) {
	_, set, _ := buildTestEntities(t)

	assert.NotEmpty(t, set.BinarySensors)
	bridge := set.BinarySensors[0]
	assert.Equal(t, SENSOR_ID_BRIDGE_STATE, bridge.Id)
	assert.Equal(t, DEVICE_CLASS_CONNECTIVITY, bridge.DeviceClass)
	assert.Empty(t, bridge.Device.ViaDevice, "bridge is not behind itself")
}

func TestOutletSwitchAttributes(t *testing.T) {
	d := &vesync.TestDispatcher{}
	metered := vesync.CreateTestOutlet(d)
	plain := vesync.CreateTestOutlet(d)
	plain.CID = "plain-outlet-cid"
	plain.Caps.EnergyHistory = false

	routing := Classify(&vesync.DeviceCollection{Outlets: []*vesync.Outlet{metered, plain}}, zap.NewNop())
	set, _ := BuildEntities(routing, "vesync2mqtt")

	assert.Len(t, set.Switches, 2)
	byId := map[string]GenericSwitch{}
	for _, sw := range set.Switches {
		byId[sw.Id] = sw
	}
	assert.True(t, byId["outlet_cid"].HasAttributes)
	assert.False(t, byId["plain_outlet_cid"].HasAttributes)
}

func TestRegistrySwitchCommandDispatches(t *testing.T) {
	m, _, registry := buildTestEntities(t)

	handler, ok := registry.Lookup(CommandKey{EntityId: "outlet_cid"})
	assert.True(t, ok)
	assert.NoError(t, handler(context.Background(), PAYLOAD_OFF))

	recorded := m.Dispatcher.Recorded()
	assert.Len(t, recorded, 1)
	assert.Equal(t, "outlet-cid", recorded[0].BaseID)
	assert.Equal(t, "turnOff", recorded[0].Method)
}

func TestRegistryFanPercentageZeroTurnsOff(t *testing.T) {
	m, _, registry := buildTestEntities(t)

	handler, ok := registry.Lookup(CommandKey{EntityId: "fan_cid", Param: PARAM_PERCENTAGE})
	assert.True(t, ok)
	assert.NoError(t, handler(context.Background(), "0"))

	recorded := m.Dispatcher.Recorded()
	assert.Len(t, recorded, 1)
	assert.Equal(t, "turnOff", recorded[0].Method)
}

func TestRegistryFanPercentageMapsToLevel(t *testing.T) {
	m, _, registry := buildTestEntities(t)

	handler, _ := registry.Lookup(CommandKey{EntityId: "purifier_cid", Param: PARAM_PERCENTAGE})
	assert.NoError(t, handler(context.Background(), "100"))

	recorded := m.Dispatcher.Recorded()
	assert.Len(t, recorded, 1)
	assert.Equal(t, "setLevel", recorded[0].Method)
	assert.Equal(t, 3, recorded[0].Params["level"])
}

func TestRegistryUnknownHumidifierModeRejectedWithoutDispatch(t *testing.T) {
	m, _, registry := buildTestEntities(t)

	handler, ok := registry.Lookup(CommandKey{EntityId: "humidifier_cid", Param: PARAM_MODE})
	assert.True(t, ok)
	assert.Error(t, handler(context.Background(), "eco"))
	assert.Empty(t, m.Dispatcher.Recorded())
}

func TestRegistryHumidifierModeMapsToVendor(t *testing.T) {
	m, _, registry := buildTestEntities(t)

	handler, _ := registry.Lookup(CommandKey{EntityId: "humidifier_cid", Param: PARAM_MODE})
	assert.NoError(t, handler(context.Background(), HUMIDIFIER_MODE_NORMAL))

	recorded := m.Dispatcher.Recorded()
	assert.Len(t, recorded, 1)
	assert.Equal(t, "setHumidityMode", recorded[0].Method)
	assert.Equal(t, vesync.ModeManual, recorded[0].Params["mode"])
}

func TestRegistryLightBrightnessCommand(t *testing.T) {
	m, _, registry := buildTestEntities(t)

	handler, ok := registry.Lookup(CommandKey{EntityId: "bulb_cid", Param: PARAM_BRIGHTNESS})
	assert.True(t, ok)
	assert.NoError(t, handler(context.Background(), "255"))

	recorded := m.Dispatcher.Recorded()
	assert.Len(t, recorded, 1)
	assert.Equal(t, 100, recorded[0].Params["brightness"])
}

func TestRegistryButtonCommand(t *testing.T) {
	m, _, registry := buildTestEntities(t)

	handler, ok := registry.Lookup(CommandKey{EntityId: "airfryer_cid_end"})
	assert.True(t, ok)
	assert.NoError(t, handler(context.Background(), PAYLOAD_PRESS))

	recorded := m.Dispatcher.Recorded()
	assert.Len(t, recorded, 1)
	assert.Equal(t, "endCook", recorded[0].Method)
}
