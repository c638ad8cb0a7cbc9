package domain

import (
	"context"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

const (
	PAYLOAD_ON  = "on"
	PAYLOAD_OFF = "off"
)

func (b *entityBuilder) buildSwitches(dev vesync.Device) {
	switch d := dev.(type) {
	case *vesync.Outlet:
		b.addOutletSwitch(d)
	case *vesync.WallSwitch:
		b.addWallSwitch(d)
	case *vesync.Fan:
		b.addFanAuxSwitches(d)
	case *vesync.Humidifier:
		b.addHumidifierAuxSwitches(d)
	case *vesync.AirFryer:
		// partial support, no switch entity
	}
}

func (b *entityBuilder) addSwitch(sw GenericSwitch, handler func(ctx context.Context, on bool) error) {
	b.set.Switches = append(b.set.Switches, sw)
	b.registry.Register(CommandKey{EntityId: sw.Id}, func(ctx context.Context, payload string) error {
		return handler(ctx, payload == PAYLOAD_ON)
	})
}

func (b *entityBuilder) addOutletSwitch(o *vesync.Outlet) {
	meta := o.Meta()
	b.addSwitch(GenericSwitch{
		Device:   b.device(meta),
		Id:       EntityTopicId(meta.BaseID()),
		Name:     meta.DeviceName,
		UniqueId: meta.BaseID(),
		// energy-history attributes distinguish metered plugs
		HasAttributes: o.Caps.EnergyHistory,
	}, func(ctx context.Context, on bool) error {
		if on {
			return o.TurnOn(ctx)
		}
		return o.TurnOff(ctx)
	})
}

func (b *entityBuilder) addWallSwitch(s *vesync.WallSwitch) {
	meta := s.Meta()
	b.addSwitch(GenericSwitch{
		Device:   b.device(meta),
		Id:       EntityTopicId(meta.BaseID()),
		Name:     meta.DeviceName,
		UniqueId: meta.BaseID(),
	}, func(ctx context.Context, on bool) error {
		if on {
			return s.TurnOn(ctx)
		}
		return s.TurnOff(ctx)
	})
}

func (b *entityBuilder) addFanAuxSwitches(f *vesync.Fan) {
	meta := f.Meta()
	if f.Caps.ChildLock {
		b.addSwitch(GenericSwitch{
			Device:         b.device(meta),
			Id:             FeatureTopicId(meta.BaseID(), SUFFIX_CHILD_LOCK),
			Name:           featureName(meta.DeviceName, "child lock"),
			UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_CHILD_LOCK),
			EntityCategory: ENTITY_CLASS_CONFIG,
			Icon:           "mdi:lock",
		}, f.SetChildLock)
	}
	if f.Caps.DisplayToggle {
		b.addSwitch(GenericSwitch{
			Device:         b.device(meta),
			Id:             FeatureTopicId(meta.BaseID(), SUFFIX_DISPLAY),
			Name:           featureName(meta.DeviceName, "display"),
			UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_DISPLAY),
			EntityCategory: ENTITY_CLASS_CONFIG,
			Icon:           "mdi:monitor",
		}, f.SetDisplay)
	}
}

func (b *entityBuilder) addHumidifierAuxSwitches(h *vesync.Humidifier) {
	meta := h.Meta()
	if h.Caps.ChildLock {
		b.addSwitch(GenericSwitch{
			Device:         b.device(meta),
			Id:             FeatureTopicId(meta.BaseID(), SUFFIX_CHILD_LOCK),
			Name:           featureName(meta.DeviceName, "child lock"),
			UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_CHILD_LOCK),
			EntityCategory: ENTITY_CLASS_CONFIG,
			Icon:           "mdi:lock",
		}, h.SetChildLock)
	}
	if h.Caps.DisplayToggle {
		b.addSwitch(GenericSwitch{
			Device:         b.device(meta),
			Id:             FeatureTopicId(meta.BaseID(), SUFFIX_DISPLAY),
			Name:           featureName(meta.DeviceName, "display"),
			UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_DISPLAY),
			EntityCategory: ENTITY_CLASS_CONFIG,
			Icon:           "mdi:monitor",
		}, h.SetDisplay)
	}
	if h.Caps.AutomaticStop {
		b.addSwitch(GenericSwitch{
			Device:         b.device(meta),
			Id:             FeatureTopicId(meta.BaseID(), SUFFIX_AUTOMATIC_STOP),
			Name:           featureName(meta.DeviceName, "automatic stop"),
			UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_AUTOMATIC_STOP),
			EntityCategory: ENTITY_CLASS_CONFIG,
			Icon:           "mdi:water-off",
		}, h.SetAutomaticStop)
	}
	// auto mode toggle: on = vendor auto mode, off = manual
	b.addSwitch(GenericSwitch{
		Device:         b.device(meta),
		Id:             FeatureTopicId(meta.BaseID(), SUFFIX_AUTO_MODE),
		Name:           featureName(meta.DeviceName, "auto mode"),
		UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_AUTO_MODE),
		EntityCategory: ENTITY_CLASS_CONFIG,
		Icon:           "mdi:autorenew",
	}, func(ctx context.Context, on bool) error {
		if on {
			mode, err := HumidifierModeToVendor(HUMIDIFIER_MODE_AUTO, h.Caps.Modes)
			if err != nil {
				return err
			}
			return h.SetMode(ctx, mode)
		}
		return h.SetMode(ctx, vesync.ModeManual)
	})
}

func featureName(deviceName, feature string) string {
	if feature == "" {
		return deviceName
	}
	return deviceName + " " + feature
}
