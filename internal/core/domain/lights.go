package domain

import (
	"context"
	"strconv"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

const (
	PARAM_BRIGHTNESS = "brightness"
	PARAM_COLOR_TEMP = "color_temp"
)

func (b *entityBuilder) buildLights(dev vesync.Device) {
	switch d := dev.(type) {
	case *vesync.Bulb:
		b.addBulbLight(d)
	case *vesync.WallSwitch:
		b.addDimmerLight(d)
	case *vesync.Fan:
		b.addFanNightLight(d)
	case *vesync.Humidifier:
		b.addHumidifierNightLight(d)
	}
}

func (b *entityBuilder) addBulbLight(bulb *vesync.Bulb) {
	meta := bulb.Meta()
	light := GenericLight{
		Device:     b.device(meta),
		Id:         EntityTopicId(meta.BaseID()),
		Name:       meta.DeviceName,
		UniqueId:   meta.BaseID(),
		Brightness: bulb.Caps.Dimmable,
		ColorTemp:  bulb.Caps.ColorTemp,
		MinMireds:  MIN_MIREDS,
		MaxMireds:  MAX_MIREDS,
	}
	b.set.Lights = append(b.set.Lights, light)

	b.registry.Register(CommandKey{EntityId: light.Id}, func(ctx context.Context, payload string) error {
		if payload == PAYLOAD_ON {
			return bulb.TurnOn(ctx)
		}
		return bulb.TurnOff(ctx)
	})
	if light.Brightness {
		// set-brightness implies power-on, no separate turn_on
		b.registry.Register(CommandKey{EntityId: light.Id, Param: PARAM_BRIGHTNESS}, func(ctx context.Context, payload string) error {
			hostValue, err := strconv.Atoi(payload)
			if err != nil {
				return err
			}
			return bulb.SetBrightness(ctx, BrightnessToVendor(hostValue))
		})
	}
	if light.ColorTemp {
		b.registry.Register(CommandKey{EntityId: light.Id, Param: PARAM_COLOR_TEMP}, func(ctx context.Context, payload string) error {
			mireds, err := strconv.Atoi(payload)
			if err != nil {
				return err
			}
			return bulb.SetColorTemp(ctx, MiredsToColorTempPct(mireds))
		})
	}
}

func (b *entityBuilder) addDimmerLight(s *vesync.WallSwitch) {
	meta := s.Meta()
	light := GenericLight{
		Device:     b.device(meta),
		Id:         EntityTopicId(meta.BaseID()),
		Name:       meta.DeviceName,
		UniqueId:   meta.BaseID(),
		Brightness: true,
	}
	b.set.Lights = append(b.set.Lights, light)

	b.registry.Register(CommandKey{EntityId: light.Id}, func(ctx context.Context, payload string) error {
		if payload == PAYLOAD_ON {
			return s.TurnOn(ctx)
		}
		return s.TurnOff(ctx)
	})
	b.registry.Register(CommandKey{EntityId: light.Id, Param: PARAM_BRIGHTNESS}, func(ctx context.Context, payload string) error {
		hostValue, err := strconv.Atoi(payload)
		if err != nil {
			return err
		}
		return s.SetBrightness(ctx, BrightnessToVendor(hostValue))
	})
}

// Fan-family night light takes the tri-state on/dim/off command chosen by a
// brightness threshold.
func (b *entityBuilder) addFanNightLight(f *vesync.Fan) {
	if !f.Caps.NightLight {
		return
	}
	meta := f.Meta()
	light := GenericLight{
		Device:     b.device(meta),
		Id:         FeatureTopicId(meta.BaseID(), SUFFIX_NIGHT_LIGHT),
		Name:       featureName(meta.DeviceName, "night light"),
		UniqueId:   FeatureUniqueId(meta.BaseID(), SUFFIX_NIGHT_LIGHT),
		Icon:       "mdi:lightbulb-night",
		Brightness: true,
	}
	b.set.Lights = append(b.set.Lights, light)

	b.registry.Register(CommandKey{EntityId: light.Id}, func(ctx context.Context, payload string) error {
		if payload == PAYLOAD_ON {
			return f.SetNightLight(ctx, NIGHT_LIGHT_ON)
		}
		return f.SetNightLight(ctx, NIGHT_LIGHT_OFF)
	})
	b.registry.Register(CommandKey{EntityId: light.Id, Param: PARAM_BRIGHTNESS}, func(ctx context.Context, payload string) error {
		hostValue, err := strconv.Atoi(payload)
		if err != nil {
			return err
		}
		return f.SetNightLight(ctx, NightLightCommand(hostValue))
	})
}

// Humidifier-family night light takes a numeric brightness, 0 meaning off.
func (b *entityBuilder) addHumidifierNightLight(h *vesync.Humidifier) {
	if !h.Caps.NightLightBrightness {
		return
	}
	meta := h.Meta()
	light := GenericLight{
		Device:     b.device(meta),
		Id:         FeatureTopicId(meta.BaseID(), SUFFIX_NIGHT_LIGHT),
		Name:       featureName(meta.DeviceName, "night light"),
		UniqueId:   FeatureUniqueId(meta.BaseID(), SUFFIX_NIGHT_LIGHT),
		Icon:       "mdi:lightbulb-night",
		Brightness: true,
	}
	b.set.Lights = append(b.set.Lights, light)

	b.registry.Register(CommandKey{EntityId: light.Id}, func(ctx context.Context, payload string) error {
		if payload == PAYLOAD_ON {
			return h.SetNightLightBrightness(ctx, 100)
		}
		return h.SetNightLightBrightness(ctx, 0)
	})
	b.registry.Register(CommandKey{EntityId: light.Id, Param: PARAM_BRIGHTNESS}, func(ctx context.Context, payload string) error {
		hostValue, err := strconv.Atoi(payload)
		if err != nil {
			return err
		}
		if hostValue == 0 {
			return h.SetNightLightBrightness(ctx, 0)
		}
		return h.SetNightLightBrightness(ctx, BrightnessToVendor(hostValue))
	})
}
