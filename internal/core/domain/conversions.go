package domain

import (
	"fmt"
	"math"
	"slices"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

const (
	// Tunable white range, 6500K-2700K.
	MIN_MIREDS = 154
	MAX_MIREDS = 370

	MIN_TARGET_HUMIDITY = 30
	MAX_TARGET_HUMIDITY = 80

	HUMIDIFIER_MODE_AUTO   = "auto"
	HUMIDIFIER_MODE_NORMAL = "normal"
	HUMIDIFIER_MODE_SLEEP  = "sleep"

	NIGHT_LIGHT_ON  = "on"
	NIGHT_LIGHT_DIM = "dim"
	NIGHT_LIGHT_OFF = "off"

	// Legacy purifier that reports no level list.
	LEGACY_PURIFIER_MODEL = "LV-PUR131S"

	DEFAULT_TURN_ON_PERCENTAGE = 50
)

// BrightnessToHost rescales the vendor 0-100 percentage to the host 0-255
// range. Vendor 0 clamps to 1 so "off via brightness" never appears. Absent
// vendor brightness stays absent.
func BrightnessToHost(pct *int) *int {
	if pct == nil {
		return nil
	}
	p := *pct
	if p < 1 {
		p = 1
	}
	if p > 100 {
		p = 100
	}
	v := int(math.Round(float64(p) * 255.0 / 100.0))
	return &v
}

// BrightnessToVendor maps host 0-255 back to the vendor 1-100 percentage.
func BrightnessToVendor(brightness int) int {
	p := int(math.Round(float64(brightness) * 100.0 / 255.0))
	if p < 1 {
		p = 1
	}
	if p > 100 {
		p = 100
	}
	return p
}

// ColorTempPctToMireds maps the vendor 0-100 white temperature percentage
// (0 = warmest) onto [MIN_MIREDS, MAX_MIREDS]. Absent stays absent.
func ColorTempPctToMireds(pct *int) *int {
	if pct == nil {
		return nil
	}
	p := *pct
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	m := int(math.Round(float64(MAX_MIREDS) - float64(p)*float64(MAX_MIREDS-MIN_MIREDS)/100.0))
	return &m
}

func MiredsToColorTempPct(mireds int) int {
	if mireds < MIN_MIREDS {
		mireds = MIN_MIREDS
	}
	if mireds > MAX_MIREDS {
		mireds = MAX_MIREDS
	}
	return int(math.Round(float64(MAX_MIREDS-mireds) * 100.0 / float64(MAX_MIREDS-MIN_MIREDS)))
}

// FanSpeedLevels returns the discrete speed levels of a fan or purifier:
// the declared list when present, the known range for the legacy model,
// otherwise a single speed.
func FanSpeedLevels(f *vesync.Fan) []int {
	if len(f.Caps.FanLevels) > 0 {
		return f.Caps.FanLevels
	}
	if f.DeviceType == LEGACY_PURIFIER_MODEL {
		return []int{1, 2, 3}
	}
	return []int{1}
}

// PercentageToLevel maps a 0-100 percentage onto a discrete level list,
// rounding up. Percentage 0 is the caller's power-off case, never a level.
func PercentageToLevel(percentage int, levels []int) int {
	n := len(levels)
	idx := int(math.Ceil(float64(percentage) * float64(n) / 100.0))
	if idx < 1 {
		idx = 1
	}
	if idx > n {
		idx = n
	}
	return levels[idx-1]
}

// LevelToPercentage is the exact inverse of PercentageToLevel: flooring
// here pairs with the ceiling there so every level round-trips.
func LevelToPercentage(level int, levels []int) int {
	n := len(levels)
	idx := slices.Index(levels, level)
	if idx < 0 {
		return 0
	}
	return (idx + 1) * 100 / n
}

// HumidifierModeToHost collapses the vendor mode vocabulary onto the host's
// smaller set: auto and humidity both read as auto.
func HumidifierModeToHost(mode string) string {
	switch mode {
	case vesync.ModeAuto, vesync.ModeHumidity:
		return HUMIDIFIER_MODE_AUTO
	case vesync.ModeManual:
		return HUMIDIFIER_MODE_NORMAL
	case vesync.ModeSleep:
		return HUMIDIFIER_MODE_SLEEP
	default:
		return ""
	}
}

// HumidifierModeToVendor maps a host mode back to a vendor mode the device
// declares. Host auto prefers vendor auto, falling back to humidity when
// that is all the device has.
func HumidifierModeToVendor(mode string, declared []string) (string, error) {
	switch mode {
	case HUMIDIFIER_MODE_AUTO:
		if slices.Contains(declared, vesync.ModeAuto) {
			return vesync.ModeAuto, nil
		}
		if slices.Contains(declared, vesync.ModeHumidity) {
			return vesync.ModeHumidity, nil
		}
		return "", fmt.Errorf("mode %q not supported by device", mode)
	case HUMIDIFIER_MODE_NORMAL:
		return vesync.ModeManual, nil
	case HUMIDIFIER_MODE_SLEEP:
		return vesync.ModeSleep, nil
	default:
		return "", fmt.Errorf("unknown humidifier mode %q", mode)
	}
}

// NightLightCommand chooses the fan-family tri-state command from a host
// brightness value.
func NightLightCommand(brightness int) string {
	switch {
	case brightness == 0:
		return NIGHT_LIGHT_OFF
	case brightness >= 128:
		return NIGHT_LIGHT_ON
	default:
		return NIGHT_LIGHT_DIM
	}
}

// NightLightBrightness reads the tri-state back as a host brightness.
func NightLightBrightness(mode string) *int {
	switch mode {
	case NIGHT_LIGHT_ON:
		return vesync.IntPtr(255)
	case NIGHT_LIGHT_DIM:
		return vesync.IntPtr(128)
	case NIGHT_LIGHT_OFF:
		return vesync.IntPtr(0)
	default:
		return nil
	}
}
