package events

import (
	. "github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

// DeviceCollectionToUpdateEvents converts one polled snapshot into the
// events the publisher fans out. Events mirror the entities discovery
// announces: a feature gated off by capabilities produces no event.
func DeviceCollectionToUpdateEvents(col *vesync.DeviceCollection) []EntityUpdateEvent {
	var events []EntityUpdateEvent

	for _, dev := range col.All() {
		meta := dev.Meta()
		events = append(events, DeviceAvailabilityUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: EntityTopicId(meta.BaseID())},
			Online:                 meta.Online(),
		})
	}

	for _, o := range col.Outlets {
		events = append(events, OutletToUpdateEvents(o)...)
	}
	for _, s := range col.Switches {
		events = append(events, WallSwitchToUpdateEvents(s)...)
	}
	for _, b := range col.Bulbs {
		events = append(events, BulbToUpdateEvents(b)...)
	}
	for _, f := range col.Fans {
		events = append(events, FanToUpdateEvents(f)...)
	}
	for _, f := range col.AirPurifiers {
		events = append(events, FanToUpdateEvents(f)...)
	}
	for _, h := range col.Humidifiers {
		events = append(events, HumidifierToUpdateEvents(h)...)
	}
	for _, a := range col.AirFryers {
		events = append(events, AirFryerToUpdateEvents(a)...)
	}

	return events
}

func BridgeStateToUpdateEvent(online bool) EntityUpdateEvent {
	return BridgeStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: SENSOR_ID_BRIDGE_STATE},
		Value:                  online,
	}
}

func OutletToUpdateEvents(o *vesync.Outlet) []EntityUpdateEvent {
	var events []EntityUpdateEvent
	baseId := o.Meta().BaseID()

	events = append(events, SwitchStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: EntityTopicId(baseId)},
		Value:                  o.State.DeviceStatus == vesync.StatusOn,
	})
	if o.Caps.EnergyHistory {
		attrs := map[string]any{}
		if o.State.Voltage != nil {
			attrs["voltage"] = *o.State.Voltage
		}
		if o.State.WeeklyEnergy != nil {
			attrs["weekly_energy"] = *o.State.WeeklyEnergy
		}
		if o.State.MonthlyEnergy != nil {
			attrs["monthly_energy"] = *o.State.MonthlyEnergy
		}
		if o.State.YearlyEnergy != nil {
			attrs["yearly_energy"] = *o.State.YearlyEnergy
		}
		events = append(events, SwitchAttributesUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: EntityTopicId(baseId)},
			Attributes:             attrs,
		})
	}
	events = append(events, floatSensorEvents(baseId, []floatFeature{
		{SUFFIX_POWER, o.State.Power, 2},
		{SUFFIX_ENERGY, o.State.EnergyToday, 3},
	})...)
	if o.Caps.EnergyHistory {
		events = append(events, floatSensorEvents(baseId, []floatFeature{
			{SUFFIX_VOLTAGE, o.State.Voltage, 2},
		})...)
	}
	return events
}

func WallSwitchToUpdateEvents(s *vesync.WallSwitch) []EntityUpdateEvent {
	baseId := s.Meta().BaseID()
	on := s.State.DeviceStatus == vesync.StatusOn
	if s.Caps.Dimmable {
		return []EntityUpdateEvent{LightStateUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: EntityTopicId(baseId)},
			On:                     on,
			Brightness:             BrightnessToHost(s.State.Brightness),
		}}
	}
	return []EntityUpdateEvent{SwitchStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: EntityTopicId(baseId)},
		Value:                  on,
	}}
}

func BulbToUpdateEvents(b *vesync.Bulb) []EntityUpdateEvent {
	baseId := b.Meta().BaseID()
	ev := LightStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: EntityTopicId(baseId)},
		On:                     b.State.DeviceStatus == vesync.StatusOn,
	}
	if b.Caps.Dimmable {
		ev.Brightness = BrightnessToHost(b.State.Brightness)
	}
	if b.Caps.ColorTemp {
		ev.ColorTemp = ColorTempPctToMireds(b.State.ColorTempPct)
	}
	return []EntityUpdateEvent{ev}
}

func FanToUpdateEvents(f *vesync.Fan) []EntityUpdateEvent {
	var events []EntityUpdateEvent
	baseId := f.Meta().BaseID()

	state := FanStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: EntityTopicId(baseId)},
		On:                     f.State.DeviceStatus == vesync.StatusOn,
		PresetMode:             f.State.Mode,
	}
	// only manual mode has a meaningful speed percentage
	if f.State.Mode == vesync.ModeManual {
		state.Percentage = vesync.IntPtr(LevelToPercentage(f.State.FanLevel, FanSpeedLevels(f)))
	}
	events = append(events, state)

	events = append(events, NumberStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_FAN_SPEED_LEVEL)},
		Value:                  float64(f.State.FanLevel),
	})

	if f.Caps.ChildLock && f.State.ChildLock != nil {
		events = append(events, switchFeatureEvent(baseId, SUFFIX_CHILD_LOCK, *f.State.ChildLock))
	}
	if f.Caps.DisplayToggle && f.State.Display != nil {
		events = append(events, switchFeatureEvent(baseId, SUFFIX_DISPLAY, *f.State.Display))
	}
	if f.Caps.NightLight && f.State.NightLight != nil {
		ev := LightStateUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_NIGHT_LIGHT)},
			On:                     *f.State.NightLight != NIGHT_LIGHT_OFF,
		}
		if ev.On {
			ev.Brightness = NightLightBrightness(*f.State.NightLight)
		}
		events = append(events, ev)
	}

	events = append(events, intSensorEvents(baseId, []intFeature{
		{SUFFIX_HUMIDITY, f.State.Humidity},
		{SUFFIX_AIR_QUALITY, f.State.AirQuality},
		{SUFFIX_PM25, f.State.AirQualityValue},
		{SUFFIX_PM1, f.State.PM1},
		{SUFFIX_PM10, f.State.PM10},
		{SUFFIX_AQ_PERCENT, f.State.AQPercent},
		{SUFFIX_FILTER_LIFE, f.State.FilterLife},
		{SUFFIX_ROTATE_ANGLE, f.State.RotateAngle},
	})...)

	if f.State.FilterOpenState != nil {
		events = append(events, BinarySensorUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_FILTER_OPEN)},
			Value:                  *f.State.FilterOpenState,
		})
	}

	return events
}

func HumidifierToUpdateEvents(h *vesync.Humidifier) []EntityUpdateEvent {
	var events []EntityUpdateEvent
	baseId := h.Meta().BaseID()

	vendorAuto := h.State.Mode == vesync.ModeAuto || h.State.Mode == vesync.ModeHumidity

	events = append(events, HumidifierStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: EntityTopicId(baseId)},
		On:                     h.State.DeviceStatus == vesync.StatusOn,
		Mode:                   HumidifierModeToHost(h.State.Mode),
		TargetHumidity:         h.State.TargetHumidity,
		CurrentHumidity:        h.State.Humidity,
	})
	events = append(events, switchFeatureEvent(baseId, SUFFIX_AUTO_MODE, vendorAuto))

	if h.Caps.ChildLock && h.State.ChildLock != nil {
		events = append(events, switchFeatureEvent(baseId, SUFFIX_CHILD_LOCK, *h.State.ChildLock))
	}
	if h.Caps.DisplayToggle && h.State.Display != nil {
		events = append(events, switchFeatureEvent(baseId, SUFFIX_DISPLAY, *h.State.Display))
	}
	if h.Caps.AutomaticStop && h.State.AutomaticStop != nil {
		events = append(events, switchFeatureEvent(baseId, SUFFIX_AUTOMATIC_STOP, *h.State.AutomaticStop))
	}
	if h.Caps.NightLightBrightness && h.State.NightLightBrightness != nil {
		ev := LightStateUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_NIGHT_LIGHT)},
			On:                     *h.State.NightLightBrightness > 0,
		}
		// 0 is off, not a brightness
		if ev.On {
			ev.Brightness = BrightnessToHost(h.State.NightLightBrightness)
		}
		events = append(events, ev)
	}

	if len(h.Caps.MistLevels) > 0 {
		events = append(events, NumberStateUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_MIST_LEVEL)},
			Value:                  float64(h.State.MistLevel),
		})
	}
	if len(h.Caps.WarmMistLevels) > 0 && h.State.WarmMistLevel != nil {
		events = append(events, NumberStateUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_WARM_MIST_LEVEL)},
			Value:                  float64(*h.State.WarmMistLevel),
		})
	}
	events = append(events, NumberStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_TARGET_HUMIDITY)},
		Value:                  float64(h.State.TargetHumidity),
	})

	events = append(events, intSensorEvents(baseId, []intFeature{
		{SUFFIX_HUMIDITY, h.State.Humidity},
	})...)

	if h.State.WaterLacks != nil {
		events = append(events, BinarySensorUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_WATER_LACKS)},
			Value:                  *h.State.WaterLacks,
		})
	}
	if h.State.WaterTankLifted != nil {
		events = append(events, BinarySensorUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_WATER_TANK)},
			Value:                  *h.State.WaterTankLifted,
		})
	}

	return events
}

func AirFryerToUpdateEvents(a *vesync.AirFryer) []EntityUpdateEvent {
	var events []EntityUpdateEvent
	baseId := a.Meta().BaseID()

	events = append(events, TextSensorUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_COOK_STATUS)},
		Value:                  a.State.CookStatus,
	})
	events = append(events, intSensorEvents(baseId, []intFeature{
		{SUFFIX_CURRENT_TEMP, a.State.CurrentTemp},
		{SUFFIX_COOK_SET_TEMP, a.State.CookSetTemp},
		{SUFFIX_COOK_LAST_TIME, a.State.CookLastTime},
		{SUFFIX_PREHEAT_LAST, a.State.PreheatLastTime},
	})...)
	events = append(events, BinarySensorUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_IS_HEATING)},
		Value:                  a.State.IsHeating,
	})
	events = append(events, BinarySensorUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_IS_COOKING)},
		Value:                  a.State.IsCooking,
	})
	events = append(events, BinarySensorUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, SUFFIX_IS_RUNNING)},
		Value:                  a.State.IsRunning,
	})

	return events
}

type floatFeature struct {
	suffix   string
	value    *float64
	decimals uint
}

func floatSensorEvents(baseId string, features []floatFeature) []EntityUpdateEvent {
	var events []EntityUpdateEvent
	for _, f := range features {
		if f.value == nil {
			continue
		}
		events = append(events, FloatSensorUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, f.suffix)},
			Value:                  *f.value,
			Decimals:               f.decimals,
		})
	}
	return events
}

type intFeature struct {
	suffix string
	value  *int
}

func intSensorEvents(baseId string, features []intFeature) []EntityUpdateEvent {
	var events []EntityUpdateEvent
	for _, f := range features {
		if f.value == nil {
			continue
		}
		events = append(events, FloatSensorUpdateEvent{
			EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, f.suffix)},
			Value:                  float64(*f.value),
			Decimals:               0,
		})
	}
	return events
}

func switchFeatureEvent(baseId, suffix string, on bool) EntityUpdateEvent {
	return SwitchStateUpdateEvent{
		EntityUpdateEventMixIn: EntityUpdateEventMixIn{Id: FeatureTopicId(baseId, suffix)},
		Value:                  on,
	}
}
