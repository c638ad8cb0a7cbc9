package events

import (
	"testing"

	. "github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

	"github.com/stretchr/testify/assert"
)

func eventById(events []EntityUpdateEvent, id string) EntityUpdateEvent {
	for _, e := range events {
		if e.EntityId() == id {
			return e
		}
	}
	return nil
}

func TestOutletToUpdateEvents(t *testing.T) {
	d := &vesync.TestDispatcher{}
	o := vesync.CreateTestOutlet(d)

	events := OutletToUpdateEvents(o)

	state, ok := eventById(events, "outlet_cid").(SwitchStateUpdateEvent)
	assert.True(t, ok)
	assert.True(t, state.Value)

	var attrEvent *SwitchAttributesUpdateEvent
	for _, e := range events {
		if a, ok := e.(SwitchAttributesUpdateEvent); ok {
			attrEvent = &a
			break
		}
	}
	assert.NotNil(t, attrEvent)
	assert.Len(t, attrEvent.Attributes, 4)
	assert.Equal(t, 120.0, attrEvent.Attributes["voltage"])
	assert.Equal(t, 8.4, attrEvent.Attributes["weekly_energy"])

	power, ok := eventById(events, "outlet_cid_power").(FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 15.5, power.Value)

	energy, ok := eventById(events, "outlet_cid_energy").(FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 1.2, energy.Value)
}

func TestOutletWithoutEnergyHistory(t *testing.T) {
	d := &vesync.TestDispatcher{}
	o := vesync.CreateTestOutlet(d)
	o.Caps.EnergyHistory = false

	events := OutletToUpdateEvents(o)

	for _, e := range events {
		_, isAttrs := e.(SwitchAttributesUpdateEvent)
		assert.False(t, isAttrs)
	}
	assert.Nil(t, eventById(events, "outlet_cid_voltage"))
}

func TestDimmerToUpdateEvents(t *testing.T) {
	d := &vesync.TestDispatcher{}
	s := vesync.CreateTestWallSwitch(d)

	events := WallSwitchToUpdateEvents(s)

	assert.Len(t, events, 1)
	light, ok := events[0].(LightStateUpdateEvent)
	assert.True(t, ok)
	assert.True(t, light.On)
	assert.Equal(t, 128, *light.Brightness)
}

func TestPlainWallSwitchToUpdateEvents(t *testing.T) {
	d := &vesync.TestDispatcher{}
	s := vesync.CreateTestWallSwitch(d)
	s.Caps.Dimmable = false

	events := WallSwitchToUpdateEvents(s)

	assert.Len(t, events, 1)
	_, ok := events[0].(SwitchStateUpdateEvent)
	assert.True(t, ok)
}

func TestBulbToUpdateEvents(t *testing.T) {
	d := &vesync.TestDispatcher{}
	b := vesync.CreateTestBulb(d)

	events := BulbToUpdateEvents(b)

	assert.Len(t, events, 1)
	light, ok := events[0].(LightStateUpdateEvent)
	assert.True(t, ok)
	assert.True(t, light.On)
	assert.Equal(t, 128, *light.Brightness)
	assert.Equal(t, 262, *light.ColorTemp)
}

func TestFanToUpdateEvents(t *testing.T) {
	d := &vesync.TestDispatcher{}
	f := vesync.CreateTestTowerFan(d)

	events := FanToUpdateEvents(f)

	state, ok := eventById(events, "fan_cid").(FanStateUpdateEvent)
	assert.True(t, ok)
	assert.True(t, state.On)
	assert.Equal(t, vesync.ModeManual, state.PresetMode)
	assert.NotNil(t, state.Percentage)
	assert.Equal(t, 8, *state.Percentage, "level 1 of 12")

	level, ok := eventById(events, "fan_cid_fan_speed_level").(NumberStateUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 1.0, level.Value)

	childLock, ok := eventById(events, "fan_cid_child_lock").(SwitchStateUpdateEvent)
	assert.True(t, ok)
	assert.False(t, childLock.Value)

	humidity, ok := eventById(events, "fan_cid_humidity").(FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 54.0, humidity.Value)
}

func TestFanPercentageOnlyInManualMode(t *testing.T) {
	d := &vesync.TestDispatcher{}
	f := vesync.CreateTestTowerFan(d)
	f.State.Mode = vesync.ModeAuto

	events := FanToUpdateEvents(f)

	state, ok := eventById(events, "fan_cid").(FanStateUpdateEvent)
	assert.True(t, ok)
	assert.Nil(t, state.Percentage)
	assert.Equal(t, vesync.ModeAuto, state.PresetMode)
}

func TestPurifierSensors(t *testing.T) {
	d := &vesync.TestDispatcher{}
	f := vesync.CreateTestPurifier(d)

	events := FanToUpdateEvents(f)

	pm25, ok := eventById(events, "purifier_cid_pm25").(FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 5.0, pm25.Value)

	filterLife, ok := eventById(events, "purifier_cid_filter_life").(FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 99.0, filterLife.Value)

	// fields the device never reported produce no events
	assert.Nil(t, eventById(events, "purifier_cid_pm1"))
	assert.Nil(t, eventById(events, "purifier_cid_rotate_angle"))
}

func TestHumidifierToUpdateEvents(t *testing.T) {
	d := &vesync.TestDispatcher{}
	h := vesync.CreateTestHumidifier(d)

	events := HumidifierToUpdateEvents(h)

	state, ok := eventById(events, "humidifier_cid").(HumidifierStateUpdateEvent)
	assert.True(t, ok)
	assert.True(t, state.On)
	assert.Equal(t, HUMIDIFIER_MODE_NORMAL, state.Mode)
	assert.Equal(t, 55, state.TargetHumidity)
	assert.Equal(t, 50, *state.CurrentHumidity)

	autoMode, ok := eventById(events, "humidifier_cid_auto_mode").(SwitchStateUpdateEvent)
	assert.True(t, ok)
	assert.False(t, autoMode.Value)

	mist, ok := eventById(events, "humidifier_cid_mist_level").(NumberStateUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 3.0, mist.Value)

	target, ok := eventById(events, "humidifier_cid_target_humidity").(NumberStateUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 55.0, target.Value)

	waterLacks, ok := eventById(events, "humidifier_cid_water_lacks").(BinarySensorUpdateEvent)
	assert.True(t, ok)
	assert.False(t, waterLacks.Value)
}

func TestHumidifierAutoModeReadsOn(t *testing.T) {
	d := &vesync.TestDispatcher{}
	h := vesync.CreateTestHumidifier(d)
	h.State.Mode = vesync.ModeHumidity

	events := HumidifierToUpdateEvents(h)

	state, _ := eventById(events, "humidifier_cid").(HumidifierStateUpdateEvent)
	assert.Equal(t, HUMIDIFIER_MODE_AUTO, state.Mode)

	autoMode, _ := eventById(events, "humidifier_cid_auto_mode").(SwitchStateUpdateEvent)
	assert.True(t, autoMode.Value)
}

func TestAirFryerToUpdateEvents(t *testing.T) {
	d := &vesync.TestDispatcher{}
	a := vesync.CreateTestAirFryer(d)

	events := AirFryerToUpdateEvents(a)

	status, ok := eventById(events, "airfryer_cid_cook_status").(TextSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, "cooking", status.Value)

	temp, ok := eventById(events, "airfryer_cid_current_temp").(FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, 180.0, temp.Value)

	cooking, ok := eventById(events, "airfryer_cid_is_cooking").(BinarySensorUpdateEvent)
	assert.True(t, ok)
	assert.True(t, cooking.Value)

	// preheat time was never reported
	assert.Nil(t, eventById(events, "airfryer_cid_preheat_last_time"))
}

func TestDeviceCollectionToUpdateEvents(t *testing.T) {
	m := vesync.CreateTestManager()

	events := DeviceCollectionToUpdateEvents(m.Devices())

	availability := 0
	for _, e := range events {
		if a, ok := e.(DeviceAvailabilityUpdateEvent); ok {
			availability++
			assert.True(t, a.Online)
		}
	}
	assert.Equal(t, 7, availability, "one availability event per device")
}

func TestBridgeStateToUpdateEvent(t *testing.T) {
	ev, ok := BridgeStateToUpdateEvent(true).(BridgeStateUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, SENSOR_ID_BRIDGE_STATE, ev.EntityId())
	assert.True(t, ev.Value)
}
