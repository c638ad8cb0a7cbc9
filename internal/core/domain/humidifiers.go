package domain

import (
	"context"
	"strconv"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

const (
	PARAM_MODE            = "mode"
	PARAM_TARGET_HUMIDITY = "target_humidity"
)

func (b *entityBuilder) buildHumidifiers(dev vesync.Device) {
	h, ok := dev.(*vesync.Humidifier)
	if !ok {
		return
	}
	meta := h.Meta()
	hum := GenericHumidifier{
		Device:      b.device(meta),
		Id:          EntityTopicId(meta.BaseID()),
		Name:        meta.DeviceName,
		UniqueId:    meta.BaseID(),
		Modes:       humidifierHostModes(h),
		MinHumidity: MIN_TARGET_HUMIDITY,
		MaxHumidity: MAX_TARGET_HUMIDITY,
	}
	b.set.Humidifiers = append(b.set.Humidifiers, hum)

	b.registry.Register(CommandKey{EntityId: hum.Id}, func(ctx context.Context, payload string) error {
		if payload == PAYLOAD_ON {
			return h.TurnOn(ctx)
		}
		return h.TurnOff(ctx)
	})

	b.registry.Register(CommandKey{EntityId: hum.Id, Param: PARAM_MODE}, func(ctx context.Context, payload string) error {
		mode, err := HumidifierModeToVendor(payload, h.Caps.Modes)
		if err != nil {
			return err
		}
		return h.SetMode(ctx, mode)
	})

	b.registry.Register(CommandKey{EntityId: hum.Id, Param: PARAM_TARGET_HUMIDITY}, func(ctx context.Context, payload string) error {
		target, err := strconv.Atoi(payload)
		if err != nil {
			return err
		}
		return h.SetHumidity(ctx, target)
	})
}

// humidifierHostModes collapses the declared vendor modes to the host's
// vocabulary preserving order and dropping duplicates (auto and humidity
// both read as auto).
func humidifierHostModes(h *vesync.Humidifier) []string {
	var modes []string
	seen := map[string]bool{}
	for _, m := range h.Caps.Modes {
		host := HumidifierModeToHost(m)
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		modes = append(modes, host)
	}
	return modes
}
