package domain

import (
	"testing"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

	"github.com/stretchr/testify/assert"
)

func TestBrightnessToHost(t *testing.T) {
	assert.Nil(t, BrightnessToHost(nil))
	assert.Equal(t, 255, *BrightnessToHost(vesync.IntPtr(100)))
	assert.Equal(t, 128, *BrightnessToHost(vesync.IntPtr(50)))
	// vendor 0 reads as minimum brightness, not off
	assert.Equal(t, 3, *BrightnessToHost(vesync.IntPtr(0)))
	assert.Equal(t, 3, *BrightnessToHost(vesync.IntPtr(1)))
}

func TestBrightnessToVendor(t *testing.T) {
	assert.Equal(t, 100, BrightnessToVendor(255))
	assert.Equal(t, 1, BrightnessToVendor(0))
	assert.Equal(t, 1, BrightnessToVendor(1))
	assert.Equal(t, 50, BrightnessToVendor(128))
}

func TestBrightnessRoundTripWithinOne(t *testing.T) {
	for pct := 1; pct <= 100; pct++ {
		back := BrightnessToVendor(*BrightnessToHost(vesync.IntPtr(pct)))
		assert.InDelta(t, pct, back, 1, "pct %d", pct)
	}
}

func TestColorTempPctToMireds(t *testing.T) {
	assert.Nil(t, ColorTempPctToMireds(nil))
	// 0 percent is the warmest white
	assert.Equal(t, MAX_MIREDS, *ColorTempPctToMireds(vesync.IntPtr(0)))
	assert.Equal(t, MIN_MIREDS, *ColorTempPctToMireds(vesync.IntPtr(100)))
	assert.Equal(t, 262, *ColorTempPctToMireds(vesync.IntPtr(50)))
}

func TestMiredsToColorTempPct(t *testing.T) {
	assert.Equal(t, 0, MiredsToColorTempPct(MAX_MIREDS))
	assert.Equal(t, 100, MiredsToColorTempPct(MIN_MIREDS))
	// out of range clamps
	assert.Equal(t, 100, MiredsToColorTempPct(100))
	assert.Equal(t, 0, MiredsToColorTempPct(500))
}

func TestColorTempRoundTripWithinOne(t *testing.T) {
	for pct := 0; pct <= 100; pct++ {
		back := MiredsToColorTempPct(*ColorTempPctToMireds(vesync.IntPtr(pct)))
		assert.InDelta(t, pct, back, 1, "pct %d", pct)
	}
}

func TestFanSpeedLevels(t *testing.T) {
	d := &vesync.TestDispatcher{}

	fan := vesync.CreateTestTowerFan(d)
	assert.Len(t, FanSpeedLevels(fan), 12)

	legacy := vesync.NewFan(vesync.DeviceMeta{DeviceType: LEGACY_PURIFIER_MODEL}, vesync.ProductPurifier, vesync.FanCapabilities{}, d)
	assert.Equal(t, []int{1, 2, 3}, FanSpeedLevels(legacy))

	unknown := vesync.NewFan(vesync.DeviceMeta{DeviceType: "LTF-XXXX"}, vesync.ProductFan, vesync.FanCapabilities{}, d)
	assert.Equal(t, []int{1}, FanSpeedLevels(unknown))
}

func TestPercentageToLevel(t *testing.T) {
	levels := []int{1, 2, 3}
	assert.Equal(t, 1, PercentageToLevel(1, levels))
	assert.Equal(t, 1, PercentageToLevel(33, levels))
	assert.Equal(t, 2, PercentageToLevel(34, levels))
	assert.Equal(t, 2, PercentageToLevel(66, levels))
	assert.Equal(t, 3, PercentageToLevel(67, levels))
	assert.Equal(t, 3, PercentageToLevel(100, levels))
	// over-range clamps to the top level
	assert.Equal(t, 3, PercentageToLevel(150, levels))
}

func TestLevelToPercentage(t *testing.T) {
	levels := []int{1, 2, 3}
	assert.Equal(t, 33, LevelToPercentage(1, levels))
	assert.Equal(t, 66, LevelToPercentage(2, levels))
	assert.Equal(t, 100, LevelToPercentage(3, levels))
	// undeclared level reads as 0
	assert.Equal(t, 0, LevelToPercentage(9, levels))
}

func TestLevelPercentageRoundTrip(t *testing.T) {
	levels := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	for _, level := range levels {
		back := PercentageToLevel(LevelToPercentage(level, levels), levels)
		assert.Equal(t, level, back, "level %d", level)
	}
}

func TestHumidifierModeToHost(t *testing.T) {
	assert.Equal(t, HUMIDIFIER_MODE_AUTO, HumidifierModeToHost(vesync.ModeAuto))
	assert.Equal(t, HUMIDIFIER_MODE_AUTO, HumidifierModeToHost(vesync.ModeHumidity))
	assert.Equal(t, HUMIDIFIER_MODE_NORMAL, HumidifierModeToHost(vesync.ModeManual))
	assert.Equal(t, HUMIDIFIER_MODE_SLEEP, HumidifierModeToHost(vesync.ModeSleep))
	assert.Equal(t, "", HumidifierModeToHost("bogus"))
}

func TestHumidifierModeToVendor(t *testing.T) {
	withAuto := []string{vesync.ModeAuto, vesync.ModeHumidity, vesync.ModeManual, vesync.ModeSleep}
	humidityOnly := []string{vesync.ModeHumidity, vesync.ModeManual, vesync.ModeSleep}

	mode, err := HumidifierModeToVendor(HUMIDIFIER_MODE_AUTO, withAuto)
	assert.NoError(t, err)
	assert.Equal(t, vesync.ModeAuto, mode)

	mode, err = HumidifierModeToVendor(HUMIDIFIER_MODE_AUTO, humidityOnly)
	assert.NoError(t, err)
	assert.Equal(t, vesync.ModeHumidity, mode)

	mode, err = HumidifierModeToVendor(HUMIDIFIER_MODE_NORMAL, withAuto)
	assert.NoError(t, err)
	assert.Equal(t, vesync.ModeManual, mode)

	mode, err = HumidifierModeToVendor(HUMIDIFIER_MODE_SLEEP, withAuto)
	assert.NoError(t, err)
	assert.Equal(t, vesync.ModeSleep, mode)

	_, err = HumidifierModeToVendor(HUMIDIFIER_MODE_AUTO, []string{vesync.ModeManual})
	assert.Error(t, err)

	_, err = HumidifierModeToVendor("eco", withAuto)
	assert.Error(t, err)
}

func TestNightLightCommand(t *testing.T) {
	assert.Equal(t, NIGHT_LIGHT_OFF, NightLightCommand(0))
	assert.Equal(t, NIGHT_LIGHT_DIM, NightLightCommand(1))
	assert.Equal(t, NIGHT_LIGHT_DIM, NightLightCommand(127))
	assert.Equal(t, NIGHT_LIGHT_ON, NightLightCommand(128))
	assert.Equal(t, NIGHT_LIGHT_ON, NightLightCommand(255))
}

func TestNightLightBrightness(t *testing.T) {
	assert.Equal(t, 255, *NightLightBrightness(NIGHT_LIGHT_ON))
	assert.Equal(t, 128, *NightLightBrightness(NIGHT_LIGHT_DIM))
	assert.Equal(t, 0, *NightLightBrightness(NIGHT_LIGHT_OFF))
	assert.Nil(t, NightLightBrightness("bogus"))
}
