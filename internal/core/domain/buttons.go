package domain

import (
	"context"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

const PAYLOAD_PRESS = "PRESS"

func (b *entityBuilder) buildButtons(dev vesync.Device) {
	if a, ok := dev.(*vesync.AirFryer); ok {
		b.addEndButton(a)
	}
}

func (b *entityBuilder) addEndButton(a *vesync.AirFryer) {
	meta := a.Meta()
	btn := GenericButton{
		Device:   b.device(meta),
		Id:       FeatureTopicId(meta.BaseID(), SUFFIX_END),
		Name:     featureName(meta.DeviceName, "end cooking"),
		UniqueId: FeatureUniqueId(meta.BaseID(), SUFFIX_END),
		Icon:     "mdi:stop",
	}
	b.set.Buttons = append(b.set.Buttons, btn)
	b.registry.Register(CommandKey{EntityId: btn.Id}, func(ctx context.Context, payload string) error {
		return a.End(ctx)
	})
}
