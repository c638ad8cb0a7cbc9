package vesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyModel(t *testing.T) {
	assert.Equal(t, ProductOutlet, classifyModel("ESW15-USA"))
	assert.Equal(t, ProductOutlet, classifyModel("ESW03-USA"))
	assert.Equal(t, ProductOutlet, classifyModel("wifi-switch-1.3"))
	assert.Equal(t, ProductOutlet, classifyModel("ESO15-TB"))
	assert.Equal(t, ProductSwitch, classifyModel("ESWL01"))
	assert.Equal(t, ProductSwitch, classifyModel("ESWD16"))
	assert.Equal(t, ProductBulb, classifyModel("ESL100CW"))
	assert.Equal(t, ProductBulb, classifyModel("XYD0001"))
	assert.Equal(t, ProductFan, classifyModel("LTF-F422S-KEU"))
	assert.Equal(t, ProductPurifier, classifyModel("Core400S"))
	assert.Equal(t, ProductPurifier, classifyModel("LAP-C201S-AUSR"))
	assert.Equal(t, ProductPurifier, classifyModel("LV-PUR131S"))
	assert.Equal(t, ProductHumidifier, classifyModel("Classic300S"))
	assert.Equal(t, ProductHumidifier, classifyModel("LUH-A602S-WUS"))
	assert.Equal(t, ProductHumidifier, classifyModel("LEH-S601S-WUS"))
	assert.Equal(t, ProductAirFryer, classifyModel("CS158-AF"))
	assert.Equal(t, ProductType(""), classifyModel("NOT-A-DEVICE"))
}

func TestOutletCapsEnergyHistory(t *testing.T) {
	assert.True(t, outletCaps("ESW15-USA").EnergyHistory)
	assert.True(t, outletCaps("wifi-switch-1.3").EnergyHistory)
	assert.False(t, outletCaps("ESW01-EU").EnergyHistory)
}

func TestWallSwitchCapsDimmable(t *testing.T) {
	assert.True(t, wallSwitchCaps("ESWD16").Dimmable)
	assert.False(t, wallSwitchCaps("ESWL01").Dimmable)
	assert.False(t, wallSwitchCaps("ESWL03").Dimmable)
}

func TestBulbCaps(t *testing.T) {
	plain := bulbCaps("ESL100")
	assert.True(t, plain.Dimmable)
	assert.False(t, plain.ColorTemp)

	cw := bulbCaps("ESL100CW")
	assert.True(t, cw.ColorTemp)
}

func TestPurifierCapsLegacyModelHasNoLevelList(t *testing.T) {
	legacy := purifierCaps("LV-PUR131S")
	assert.Nil(t, legacy.FanLevels)
	assert.False(t, legacy.NightLight)

	core200 := purifierCaps("Core200S")
	assert.Equal(t, []int{1, 2, 3}, core200.FanLevels)
	assert.True(t, core200.NightLight)

	core400 := purifierCaps("Core400S")
	assert.False(t, core400.NightLight)
}

func TestHumidifierCapsWarmMistModels(t *testing.T) {
	warm := humidifierCaps("LUH-A602S-WUS")
	assert.Equal(t, []int{0, 1, 2, 3}, warm.WarmMistLevels)
	assert.Contains(t, warm.Modes, ModeHumidity)

	classic := humidifierCaps("Classic300S")
	assert.Empty(t, classic.WarmMistLevels)
	assert.NotContains(t, classic.Modes, ModeHumidity)

	nursery := humidifierCaps("LUH-D301S-WEU")
	assert.True(t, nursery.NightLightBrightness)
}

func TestDetailFieldHelpers(t *testing.T) {
	details := map[string]any{
		"power":      15.5,
		"voltage":    float64(120),
		"level":      float64(3),
		"display":    true,
		"child_lock": float64(0),
		"mode":       "manual",
		"bogus":      "n/a",
	}

	assert.Equal(t, 15.5, *numField(details, "power"))
	assert.Nil(t, numField(details, "bogus"))
	assert.Nil(t, numField(details, "missing"))

	assert.Equal(t, 3, *intField(details, "level"))
	assert.True(t, *boolField(details, "display"))
	assert.False(t, *boolField(details, "child_lock"))
	assert.Nil(t, boolField(details, "mode"))

	assert.Equal(t, "manual", strField(details, "mode"))
	assert.Equal(t, "", strField(details, "power"))
}

func TestConnectionOrDefault(t *testing.T) {
	assert.Equal(t, "offline", connectionOrDefault(map[string]any{"connectionStatus": "offline"}))
	assert.Equal(t, ConnectionOnline, connectionOrDefault(map[string]any{}))
}

func TestTestManagerCollection(t *testing.T) {
	m := CreateTestManager()
	assert.False(t, m.Collection.Empty())
	assert.Len(t, m.Collection.All(), 7)
	for _, dev := range m.Collection.All() {
		assert.True(t, dev.Meta().Online())
		assert.NotEmpty(t, dev.Meta().BaseID())
		assert.NotEmpty(t, dev.Product())
	}
}
