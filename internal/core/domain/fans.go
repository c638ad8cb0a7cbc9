package domain

import (
	"context"
	"strconv"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

const (
	PARAM_PERCENTAGE  = "percentage"
	PARAM_PRESET_MODE = "preset_mode"
)

func (b *entityBuilder) buildFans(dev vesync.Device) {
	f, ok := dev.(*vesync.Fan)
	if !ok {
		return
	}
	meta := f.Meta()
	fan := GenericFan{
		Device:      b.device(meta),
		Id:          EntityTopicId(meta.BaseID()),
		Name:        meta.DeviceName,
		UniqueId:    meta.BaseID(),
		PresetModes: fanPresetModes(f),
	}
	b.set.Fans = append(b.set.Fans, fan)

	levels := FanSpeedLevels(f)

	b.registry.Register(CommandKey{EntityId: fan.Id}, func(ctx context.Context, payload string) error {
		if payload != PAYLOAD_ON {
			return f.TurnOff(ctx)
		}
		if err := f.TurnOn(ctx); err != nil {
			return err
		}
		// turn-on without an explicit speed defaults to 50%
		if f.State.FanLevel == 0 {
			return f.SetFanSpeed(ctx, PercentageToLevel(DEFAULT_TURN_ON_PERCENTAGE, levels))
		}
		return nil
	})

	b.registry.Register(CommandKey{EntityId: fan.Id, Param: PARAM_PERCENTAGE}, func(ctx context.Context, payload string) error {
		percentage, err := strconv.Atoi(payload)
		if err != nil {
			return err
		}
		// zero percent means power off, never a speed command
		if percentage == 0 {
			return f.TurnOff(ctx)
		}
		return f.SetFanSpeed(ctx, PercentageToLevel(percentage, levels))
	})

	b.registry.Register(CommandKey{EntityId: fan.Id, Param: PARAM_PRESET_MODE}, func(ctx context.Context, payload string) error {
		return f.SetMode(ctx, payload)
	})
}

func fanPresetModes(f *vesync.Fan) []string {
	if len(f.Caps.Modes) > 0 {
		return f.Caps.Modes
	}
	return []string{vesync.ModeAuto, vesync.ModeManual, vesync.ModeSleep}
}
