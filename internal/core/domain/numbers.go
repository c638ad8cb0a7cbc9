package domain

import (
	"context"
	"slices"
	"strconv"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

func (b *entityBuilder) buildNumbers(dev vesync.Device) {
	switch d := dev.(type) {
	case *vesync.Fan:
		b.addFanSpeedNumber(d)
	case *vesync.Humidifier:
		b.addHumidifierNumbers(d)
	}
}

func (b *entityBuilder) addNumber(n GenericInputNumber, handler func(ctx context.Context, value int) error) {
	b.set.Numbers = append(b.set.Numbers, n)
	b.registry.Register(CommandKey{EntityId: n.Id}, func(ctx context.Context, payload string) error {
		value, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			return err
		}
		return handler(ctx, int(value))
	})
}

func (b *entityBuilder) addFanSpeedNumber(f *vesync.Fan) {
	meta := f.Meta()
	levels := FanSpeedLevels(f)
	b.addNumber(GenericInputNumber{
		Device:         b.device(meta),
		Id:             FeatureTopicId(meta.BaseID(), SUFFIX_FAN_SPEED_LEVEL),
		Name:           featureName(meta.DeviceName, "fan speed level"),
		UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_FAN_SPEED_LEVEL),
		EntityCategory: ENTITY_CLASS_CONFIG,
		Min:            float64(slices.Min(levels)),
		Max:            float64(slices.Max(levels)),
		Step:           1,
		Mode:           INPUT_NUMBER_MODE_SLIDER,
	}, f.SetFanSpeed)
}

func (b *entityBuilder) addHumidifierNumbers(h *vesync.Humidifier) {
	meta := h.Meta()
	if len(h.Caps.MistLevels) > 0 {
		b.addNumber(GenericInputNumber{
			Device:         b.device(meta),
			Id:             FeatureTopicId(meta.BaseID(), SUFFIX_MIST_LEVEL),
			Name:           featureName(meta.DeviceName, "mist level"),
			UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_MIST_LEVEL),
			EntityCategory: ENTITY_CLASS_CONFIG,
			Min:            float64(slices.Min(h.Caps.MistLevels)),
			Max:            float64(slices.Max(h.Caps.MistLevels)),
			Step:           1,
			Mode:           INPUT_NUMBER_MODE_SLIDER,
		}, h.SetMistLevel)
	}
	if len(h.Caps.WarmMistLevels) > 0 {
		b.addNumber(GenericInputNumber{
			Device:         b.device(meta),
			Id:             FeatureTopicId(meta.BaseID(), SUFFIX_WARM_MIST_LEVEL),
			Name:           featureName(meta.DeviceName, "warm mist level"),
			UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_WARM_MIST_LEVEL),
			EntityCategory: ENTITY_CLASS_CONFIG,
			Min:            float64(slices.Min(h.Caps.WarmMistLevels)),
			Max:            float64(slices.Max(h.Caps.WarmMistLevels)),
			Step:           1,
			Mode:           INPUT_NUMBER_MODE_SLIDER,
		}, h.SetWarmLevel)
	}
	b.addNumber(GenericInputNumber{
		Device:         b.device(meta),
		Id:             FeatureTopicId(meta.BaseID(), SUFFIX_TARGET_HUMIDITY),
		Name:           featureName(meta.DeviceName, "target humidity"),
		UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_TARGET_HUMIDITY),
		EntityCategory: ENTITY_CLASS_CONFIG,
		Min:            MIN_TARGET_HUMIDITY,
		Max:            MAX_TARGET_HUMIDITY,
		Step:           1,
		Mode:           INPUT_NUMBER_MODE_BOX,
	}, h.SetHumidity)
}
