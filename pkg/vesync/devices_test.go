package vesync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutletTurnOnOff(t *testing.T) {
	d := &TestDispatcher{}
	o := CreateTestOutlet(d)

	assert.NoError(t, o.TurnOff(context.Background()))
	assert.Equal(t, StatusOff, o.State.DeviceStatus)

	assert.NoError(t, o.TurnOn(context.Background()))
	assert.Equal(t, StatusOn, o.State.DeviceStatus)

	cmds := d.Recorded()
	assert.Len(t, cmds, 2)
	assert.Equal(t, "turnOff", cmds[0].Method)
	assert.Equal(t, "turnOn", cmds[1].Method)
}

func TestOutletDispatchErrorKeepsState(t *testing.T) {
	d := &TestDispatcher{Err: errors.New("cloud unreachable")}
	o := CreateTestOutlet(d)

	assert.Error(t, o.TurnOff(context.Background()))
	assert.Equal(t, StatusOn, o.State.DeviceStatus)
}

func TestWallSwitchBrightnessValidation(t *testing.T) {
	d := &TestDispatcher{}
	s := CreateTestWallSwitch(d)

	assert.ErrorIs(t, s.SetBrightness(context.Background(), 0), ErrOutOfRange)
	assert.ErrorIs(t, s.SetBrightness(context.Background(), 101), ErrOutOfRange)
	assert.Empty(t, d.Recorded())

	assert.NoError(t, s.SetBrightness(context.Background(), 75))
	assert.Equal(t, StatusOn, s.State.DeviceStatus)
	assert.Equal(t, 75, *s.State.Brightness)
}

func TestWallSwitchNotDimmable(t *testing.T) {
	d := &TestDispatcher{}
	s := NewWallSwitch(testMeta("switch-cid", "Test Switch", "ESWL01"), WallSwitchCapabilities{}, d)

	assert.ErrorIs(t, s.SetBrightness(context.Background(), 50), ErrUnsupported)
	assert.Empty(t, d.Recorded())
}

func TestBulbSetBrightnessImpliesOn(t *testing.T) {
	d := &TestDispatcher{}
	b := CreateTestBulb(d)
	b.State.DeviceStatus = StatusOff

	assert.NoError(t, b.SetBrightness(context.Background(), 40))
	assert.Equal(t, StatusOn, b.State.DeviceStatus)
	assert.Equal(t, 40, *b.State.Brightness)

	cmds := d.Recorded()
	assert.Len(t, cmds, 1)
	assert.Equal(t, "setBrightness", cmds[0].Method)
}

func TestBulbColorTempValidation(t *testing.T) {
	d := &TestDispatcher{}
	b := CreateTestBulb(d)

	assert.ErrorIs(t, b.SetColorTemp(context.Background(), -1), ErrOutOfRange)
	assert.ErrorIs(t, b.SetColorTemp(context.Background(), 101), ErrOutOfRange)
	assert.NoError(t, b.SetColorTemp(context.Background(), 0))
	assert.NoError(t, b.SetColorTemp(context.Background(), 100))

	plain := NewBulb(testMeta("bulb2-cid", "Plain Bulb", "ESL100"), BulbCapabilities{Dimmable: true}, d)
	assert.ErrorIs(t, plain.SetColorTemp(context.Background(), 50), ErrUnsupported)
}

func TestFanSpeedValidatesDeclaredLevels(t *testing.T) {
	d := &TestDispatcher{}
	f := CreateTestPurifier(d)

	assert.ErrorIs(t, f.SetFanSpeed(context.Background(), 0), ErrOutOfRange)
	assert.ErrorIs(t, f.SetFanSpeed(context.Background(), 4), ErrOutOfRange)
	assert.Empty(t, d.Recorded())

	f.State.Mode = ModeAuto
	assert.NoError(t, f.SetFanSpeed(context.Background(), 2))
	assert.Equal(t, 2, f.State.FanLevel)
	assert.Equal(t, ModeManual, f.State.Mode)
}

func TestFanSpeedWithoutDeclaredLevels(t *testing.T) {
	d := &TestDispatcher{}
	f := NewFan(testMeta("legacy-cid", "Legacy Purifier", "LV-PUR131S"), ProductPurifier, FanCapabilities{
		Modes: []string{ModeAuto, ModeManual, ModeSleep},
	}, d)

	assert.NoError(t, f.SetFanSpeed(context.Background(), 3))
	assert.Equal(t, 3, f.State.FanLevel)
}

func TestFanModeValidation(t *testing.T) {
	d := &TestDispatcher{}
	f := CreateTestPurifier(d)

	assert.ErrorIs(t, f.SetMode(context.Background(), ModeTurbo), ErrOutOfRange)
	assert.NoError(t, f.SetMode(context.Background(), ModeSleep))
	assert.Equal(t, ModeSleep, f.State.Mode)
}

func TestFanNightLight(t *testing.T) {
	d := &TestDispatcher{}
	f := NewFan(testMeta("c200-cid", "Bedroom Purifier", "Core200S"), ProductPurifier, FanCapabilities{
		FanLevels:  []int{1, 2, 3},
		Modes:      []string{ModeManual, ModeSleep},
		NightLight: true,
	}, d)

	assert.ErrorIs(t, f.SetNightLight(context.Background(), "bright"), ErrOutOfRange)
	assert.NoError(t, f.SetNightLight(context.Background(), "dim"))
	assert.Equal(t, "dim", *f.State.NightLight)

	plain := CreateTestPurifier(d)
	assert.ErrorIs(t, plain.SetNightLight(context.Background(), "on"), ErrUnsupported)
}

func TestHumidifierTargetHumidityRange(t *testing.T) {
	d := &TestDispatcher{}
	h := CreateTestHumidifier(d)

	assert.ErrorIs(t, h.SetHumidity(context.Background(), 29), ErrOutOfRange)
	assert.ErrorIs(t, h.SetHumidity(context.Background(), 81), ErrOutOfRange)
	assert.Empty(t, d.Recorded())

	assert.NoError(t, h.SetHumidity(context.Background(), 30))
	assert.NoError(t, h.SetHumidity(context.Background(), 80))
	assert.Equal(t, 80, h.State.TargetHumidity)
}

func TestHumidifierModeValidation(t *testing.T) {
	d := &TestDispatcher{}
	h := CreateTestHumidifier(d)

	assert.ErrorIs(t, h.SetMode(context.Background(), ModeTurbo), ErrOutOfRange)
	assert.NoError(t, h.SetMode(context.Background(), ModeHumidity))
	assert.Equal(t, ModeHumidity, h.State.Mode)
}

func TestHumidifierMistLevelSwitchesToManual(t *testing.T) {
	d := &TestDispatcher{}
	h := CreateTestHumidifier(d)
	h.State.Mode = ModeAuto

	assert.NoError(t, h.SetMistLevel(context.Background(), 5))
	assert.Equal(t, 5, h.State.MistVirtualLevel)
	assert.Equal(t, ModeManual, h.State.Mode)

	assert.ErrorIs(t, h.SetMistLevel(context.Background(), 10), ErrOutOfRange)
}

func TestHumidifierWarmLevel(t *testing.T) {
	d := &TestDispatcher{}
	h := CreateTestHumidifier(d)

	assert.NoError(t, h.SetWarmLevel(context.Background(), 2))
	assert.Equal(t, 2, *h.State.WarmMistLevel)
	assert.ErrorIs(t, h.SetWarmLevel(context.Background(), 4), ErrOutOfRange)

	cold := NewHumidifier(testMeta("classic-cid", "Classic 300S", "Classic300S"), HumidifierCapabilities{
		MistLevels: []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Modes:      []string{ModeAuto, ModeManual, ModeSleep},
	}, d)
	assert.ErrorIs(t, cold.SetWarmLevel(context.Background(), 1), ErrUnsupported)
}

func TestHumidifierNightLightBrightnessZeroMeansOff(t *testing.T) {
	d := &TestDispatcher{}
	h := NewHumidifier(testMeta("d301-cid", "Nursery Humidifier", "LUH-D301S-WEU"), HumidifierCapabilities{
		MistLevels:           []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Modes:                []string{ModeAuto, ModeManual, ModeSleep},
		NightLightBrightness: true,
	}, d)

	assert.NoError(t, h.SetNightLightBrightness(context.Background(), 0))
	assert.Equal(t, 0, *h.State.NightLightBrightness)
	assert.ErrorIs(t, h.SetNightLightBrightness(context.Background(), 101), ErrOutOfRange)
}

func TestBaseIDWithSubDevice(t *testing.T) {
	meta := testMeta("strip-cid", "Power Strip", "ESW15-USA")
	assert.Equal(t, "strip-cid", meta.BaseID())

	meta.SubDeviceNo = IntPtr(2)
	assert.Equal(t, "strip-cid2", meta.BaseID())
}
