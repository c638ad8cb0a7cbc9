package domain

import (
	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

func (b *entityBuilder) buildBinarySensors(dev vesync.Device) {
	switch d := dev.(type) {
	case *vesync.Fan:
		b.addFanBinarySensors(d)
	case *vesync.Humidifier:
		b.addHumidifierBinarySensors(d)
	case *vesync.AirFryer:
		b.addAirFryerBinarySensors(d)
	}
}

func (b *entityBuilder) addBinarySensor(s GenericSensor) {
	s.SensorType = SENSOR_TYPE_BINARY
	b.set.BinarySensors = append(b.set.BinarySensors, s)
}

func (b *entityBuilder) addFanBinarySensors(f *vesync.Fan) {
	meta := f.Meta()
	if f.State.FilterOpenState != nil {
		b.addBinarySensor(GenericSensor{
			Device:         b.device(meta),
			Id:             FeatureTopicId(meta.BaseID(), SUFFIX_FILTER_OPEN),
			Name:           featureName(meta.DeviceName, "filter open"),
			UniqueId:       FeatureUniqueId(meta.BaseID(), SUFFIX_FILTER_OPEN),
			DeviceClass:    DEVICE_CLASS_PROBLEM,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		})
	}
}

func (b *entityBuilder) addHumidifierBinarySensors(h *vesync.Humidifier) {
	meta := h.Meta()
	b.addBinarySensor(GenericSensor{
		Device:      b.device(meta),
		Id:          FeatureTopicId(meta.BaseID(), SUFFIX_WATER_LACKS),
		Name:        featureName(meta.DeviceName, "water level low"),
		UniqueId:    FeatureUniqueId(meta.BaseID(), SUFFIX_WATER_LACKS),
		DeviceClass: DEVICE_CLASS_PROBLEM,
	})
	b.addBinarySensor(GenericSensor{
		Device:      b.device(meta),
		Id:          FeatureTopicId(meta.BaseID(), SUFFIX_WATER_TANK),
		Name:        featureName(meta.DeviceName, "water tank lifted"),
		UniqueId:    FeatureUniqueId(meta.BaseID(), SUFFIX_WATER_TANK),
		DeviceClass: DEVICE_CLASS_PROBLEM,
	})
}

func (b *entityBuilder) addAirFryerBinarySensors(a *vesync.AirFryer) {
	meta := a.Meta()
	b.addBinarySensor(GenericSensor{
		Device:      b.device(meta),
		Id:          FeatureTopicId(meta.BaseID(), SUFFIX_IS_HEATING),
		Name:        featureName(meta.DeviceName, "heating"),
		UniqueId:    FeatureUniqueId(meta.BaseID(), SUFFIX_IS_HEATING),
		DeviceClass: DEVICE_CLASS_RUNNING,
	})
	b.addBinarySensor(GenericSensor{
		Device:      b.device(meta),
		Id:          FeatureTopicId(meta.BaseID(), SUFFIX_IS_COOKING),
		Name:        featureName(meta.DeviceName, "cooking"),
		UniqueId:    FeatureUniqueId(meta.BaseID(), SUFFIX_IS_COOKING),
		DeviceClass: DEVICE_CLASS_RUNNING,
	})
	b.addBinarySensor(GenericSensor{
		Device:      b.device(meta),
		Id:          FeatureTopicId(meta.BaseID(), SUFFIX_IS_RUNNING),
		Name:        featureName(meta.DeviceName, "running"),
		UniqueId:    FeatureUniqueId(meta.BaseID(), SUFFIX_IS_RUNNING),
		DeviceClass: DEVICE_CLASS_RUNNING,
	})
}
