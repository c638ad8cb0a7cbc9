package domain

import (
	"testing"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClassifyEmptyCollection(t *testing.T) {
	routing := Classify(&vesync.DeviceCollection{}, zap.NewNop())

	assert.Len(t, routing, len(Platforms()))
	for _, p := range Platforms() {
		devices, ok := routing[p]
		assert.True(t, ok, "platform %s present", p)
		assert.Empty(t, devices)
	}
}

func TestClassifyOutlet(t *testing.T) {
	d := &vesync.TestDispatcher{}
	col := &vesync.DeviceCollection{Outlets: []*vesync.Outlet{vesync.CreateTestOutlet(d)}}

	routing := Classify(col, zap.NewNop())

	assert.Len(t, routing[PlatformSwitch], 1)
	assert.Len(t, routing[PlatformSensor], 1)
	assert.Empty(t, routing[PlatformLight])
	assert.Empty(t, routing[PlatformFan])
	assert.Empty(t, routing[PlatformHumidifier])
	assert.Empty(t, routing[PlatformBinarySensor])
	assert.Empty(t, routing[PlatformNumber])
	assert.Empty(t, routing[PlatformButton])
}

func TestClassifyDimmableWallSwitchIsLight(t *testing.T) {
	d := &vesync.TestDispatcher{}
	dimmer := vesync.CreateTestWallSwitch(d)
	col := &vesync.DeviceCollection{Switches: []*vesync.WallSwitch{dimmer}}

	routing := Classify(col, zap.NewNop())

	assert.Len(t, routing[PlatformLight], 1)
	assert.Empty(t, routing[PlatformSwitch])
}

func TestClassifyPlainWallSwitch(t *testing.T) {
	d := &vesync.TestDispatcher{}
	sw := vesync.CreateTestWallSwitch(d)
	sw.Caps.Dimmable = false
	col := &vesync.DeviceCollection{Switches: []*vesync.WallSwitch{sw}}

	routing := Classify(col, zap.NewNop())

	assert.Empty(t, routing[PlatformLight])
	assert.Len(t, routing[PlatformSwitch], 1)
}

func TestClassifyFanIsMultiHomed(t *testing.T) {
	d := &vesync.TestDispatcher{}
	col := &vesync.DeviceCollection{Fans: []*vesync.Fan{vesync.CreateTestTowerFan(d)}}

	routing := Classify(col, zap.NewNop())

	for _, p := range []Platform{PlatformFan, PlatformNumber, PlatformSwitch, PlatformSensor, PlatformBinarySensor, PlatformLight} {
		assert.Len(t, routing[p], 1, "platform %s", p)
	}
	assert.Empty(t, routing[PlatformHumidifier])
	assert.Empty(t, routing[PlatformButton])
}

func TestClassifyHumidifier(t *testing.T) {
	d := &vesync.TestDispatcher{}
	col := &vesync.DeviceCollection{Humidifiers: []*vesync.Humidifier{vesync.CreateTestHumidifier(d)}}

	routing := Classify(col, zap.NewNop())

	for _, p := range []Platform{PlatformHumidifier, PlatformNumber, PlatformSwitch, PlatformSensor, PlatformBinarySensor, PlatformLight} {
		assert.Len(t, routing[p], 1, "platform %s", p)
	}
	assert.Empty(t, routing[PlatformFan])
}

func TestClassifyAirFryer(t *testing.T) {
	d := &vesync.TestDispatcher{}
	col := &vesync.DeviceCollection{AirFryers: []*vesync.AirFryer{vesync.CreateTestAirFryer(d)}}

	routing := Classify(col, zap.NewNop())

	for _, p := range []Platform{PlatformSensor, PlatformBinarySensor, PlatformSwitch, PlatformButton} {
		assert.Len(t, routing[p], 1, "platform %s", p)
	}
	assert.Empty(t, routing[PlatformFan])
	assert.Empty(t, routing[PlatformLight])
}
