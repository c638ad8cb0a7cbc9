package domain

import (
	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"
)

func (b *entityBuilder) buildSensors(dev vesync.Device) {
	switch d := dev.(type) {
	case *vesync.Outlet:
		b.addOutletSensors(d)
	case *vesync.Fan:
		b.addFanSensors(d)
	case *vesync.Humidifier:
		b.addHumiditySensor(d)
	case *vesync.AirFryer:
		b.addAirFryerSensors(d)
	}
}

func (b *entityBuilder) addSensor(s GenericSensor) {
	s.SensorType = SENSOR_TYPE_SENSOR
	b.set.Sensors = append(b.set.Sensors, s)
}

func (b *entityBuilder) addOutletSensors(o *vesync.Outlet) {
	meta := o.Meta()
	b.addSensor(GenericSensor{
		Device:            b.device(meta),
		Id:                FeatureTopicId(meta.BaseID(), SUFFIX_POWER),
		Name:              featureName(meta.DeviceName, "current power"),
		UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_POWER),
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_POWER,
		UnitOfMeasurement: "W",
	})
	b.addSensor(GenericSensor{
		Device:            b.device(meta),
		Id:                FeatureTopicId(meta.BaseID(), SUFFIX_ENERGY),
		Name:              featureName(meta.DeviceName, "energy use today"),
		UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_ENERGY),
		StateClass:        STATE_CLASS_TOTAL_INCREASING,
		DeviceClass:       DEVICE_CLASS_ENERGY,
		UnitOfMeasurement: "kWh",
	})
	if o.Caps.EnergyHistory {
		b.addSensor(GenericSensor{
			Device:            b.device(meta),
			Id:                FeatureTopicId(meta.BaseID(), SUFFIX_VOLTAGE),
			Name:              featureName(meta.DeviceName, "current voltage"),
			UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_VOLTAGE),
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_VOLTAGE,
			UnitOfMeasurement: "V",
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
		})
	}
}

func (b *entityBuilder) addFanSensors(f *vesync.Fan) {
	meta := f.Meta()
	if f.State.Humidity != nil {
		b.addSensor(GenericSensor{
			Device:            b.device(meta),
			Id:                FeatureTopicId(meta.BaseID(), SUFFIX_HUMIDITY),
			Name:              featureName(meta.DeviceName, "humidity"),
			UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_HUMIDITY),
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_HUMIDITY,
			UnitOfMeasurement: "%",
		})
	}
	if f.State.AirQuality != nil {
		b.addSensor(GenericSensor{
			Device:     b.device(meta),
			Id:         FeatureTopicId(meta.BaseID(), SUFFIX_AIR_QUALITY),
			Name:       featureName(meta.DeviceName, "air quality"),
			UniqueId:   FeatureUniqueId(meta.BaseID(), SUFFIX_AIR_QUALITY),
			StateClass: STATE_CLASS_MEASUREMENT,
		})
	}
	if f.State.AirQualityValue != nil {
		b.addSensor(GenericSensor{
			Device:            b.device(meta),
			Id:                FeatureTopicId(meta.BaseID(), SUFFIX_PM25),
			Name:              featureName(meta.DeviceName, "PM2.5"),
			UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_PM25),
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_PM25,
			UnitOfMeasurement: "µg/m³",
		})
	}
	if f.State.PM1 != nil {
		b.addSensor(GenericSensor{
			Device:            b.device(meta),
			Id:                FeatureTopicId(meta.BaseID(), SUFFIX_PM1),
			Name:              featureName(meta.DeviceName, "PM1"),
			UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_PM1),
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_PM1,
			UnitOfMeasurement: "µg/m³",
		})
	}
	if f.State.PM10 != nil {
		b.addSensor(GenericSensor{
			Device:            b.device(meta),
			Id:                FeatureTopicId(meta.BaseID(), SUFFIX_PM10),
			Name:              featureName(meta.DeviceName, "PM10"),
			UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_PM10),
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_PM10,
			UnitOfMeasurement: "µg/m³",
		})
	}
	if f.State.AQPercent != nil {
		b.addSensor(GenericSensor{
			Device:            b.device(meta),
			Id:                FeatureTopicId(meta.BaseID(), SUFFIX_AQ_PERCENT),
			Name:              featureName(meta.DeviceName, "air quality percent"),
			UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_AQ_PERCENT),
			StateClass:        STATE_CLASS_MEASUREMENT,
			UnitOfMeasurement: "%",
		})
	}
	if f.State.FilterLife != nil {
		b.addSensor(GenericSensor{
			Device:            b.device(meta),
			Id:                FeatureTopicId(meta.BaseID(), SUFFIX_FILTER_LIFE),
			Name:              featureName(meta.DeviceName, "filter lifetime"),
			UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_FILTER_LIFE),
			StateClass:        STATE_CLASS_MEASUREMENT,
			UnitOfMeasurement: "%",
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
			Icon:              "mdi:air-filter",
		})
	}
	if f.State.RotateAngle != nil {
		b.addSensor(GenericSensor{
			Device:            b.device(meta),
			Id:                FeatureTopicId(meta.BaseID(), SUFFIX_ROTATE_ANGLE),
			Name:              featureName(meta.DeviceName, "rotate angle"),
			UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_ROTATE_ANGLE),
			StateClass:        STATE_CLASS_MEASUREMENT,
			UnitOfMeasurement: "°",
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
		})
	}
}

func (b *entityBuilder) addHumiditySensor(h *vesync.Humidifier) {
	meta := h.Meta()
	b.addSensor(GenericSensor{
		Device:            b.device(meta),
		Id:                FeatureTopicId(meta.BaseID(), SUFFIX_HUMIDITY),
		Name:              featureName(meta.DeviceName, "humidity"),
		UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_HUMIDITY),
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_HUMIDITY,
		UnitOfMeasurement: "%",
	})
}

func (b *entityBuilder) addAirFryerSensors(a *vesync.AirFryer) {
	meta := a.Meta()
	b.addSensor(GenericSensor{
		Device:            b.device(meta),
		Id:                FeatureTopicId(meta.BaseID(), SUFFIX_CURRENT_TEMP),
		Name:              featureName(meta.DeviceName, "current temperature"),
		UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_CURRENT_TEMP),
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_TEMPERATURE,
		UnitOfMeasurement: "°C",
	})
	b.addSensor(GenericSensor{
		Device:            b.device(meta),
		Id:                FeatureTopicId(meta.BaseID(), SUFFIX_COOK_SET_TEMP),
		Name:              featureName(meta.DeviceName, "cook set temperature"),
		UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_COOK_SET_TEMP),
		DeviceClass:       DEVICE_CLASS_TEMPERATURE,
		UnitOfMeasurement: "°C",
	})
	b.addSensor(GenericSensor{
		Device:            b.device(meta),
		Id:                FeatureTopicId(meta.BaseID(), SUFFIX_COOK_LAST_TIME),
		Name:              featureName(meta.DeviceName, "cook time remaining"),
		UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_COOK_LAST_TIME),
		DeviceClass:       DEVICE_CLASS_DURATION,
		UnitOfMeasurement: "min",
	})
	b.addSensor(GenericSensor{
		Device:            b.device(meta),
		Id:                FeatureTopicId(meta.BaseID(), SUFFIX_PREHEAT_LAST),
		Name:              featureName(meta.DeviceName, "preheat time remaining"),
		UniqueId:          FeatureUniqueId(meta.BaseID(), SUFFIX_PREHEAT_LAST),
		DeviceClass:       DEVICE_CLASS_DURATION,
		UnitOfMeasurement: "min",
	})
	b.addSensor(GenericSensor{
		Device:   b.device(meta),
		Id:       FeatureTopicId(meta.BaseID(), SUFFIX_COOK_STATUS),
		Name:     featureName(meta.DeviceName, "cook status"),
		UniqueId: FeatureUniqueId(meta.BaseID(), SUFFIX_COOK_STATUS),
	})
}
