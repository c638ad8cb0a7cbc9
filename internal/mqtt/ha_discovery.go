package mqtt

import (
	"fmt"

	"github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
)

const defaultHADiscoveryTopic = "homeassistant"

type HADiscoveryConfig struct {
	Device            HADiscoveryDevice    `json:"device"`
	StateTopic        string               `json:"state_topic,omitempty"`
	CommandTopic      string               `json:"command_topic,omitempty"`
	StateClass        string               `json:"state_class,omitempty"`
	DeviceClass       string               `json:"device_class,omitempty"`
	UnitOfMeasurement string               `json:"unit_of_measurement,omitempty"`
	Availability      []HADiscoveryAvTopic `json:"availability,omitempty"`
	AvailabilityMode  string               `json:"availability_mode,omitempty"`
	EntityCategory    string               `json:"entity_category,omitempty"`
	Name              string               `json:"name"`
	UniqueId          string               `json:"unique_id"`
	Platform          string               `json:"platform"`
	EnabledByDefault  *bool                `json:"enabled_by_default,omitempty"`
	PayloadOn         string               `json:"payload_on,omitempty"`
	PayloadOff        string               `json:"payload_off,omitempty"`
	PayloadPress      string               `json:"payload_press,omitempty"`
	Icon              string               `json:"icon,omitempty"`
	Min               float64              `json:"min,omitempty"`
	Max               float64              `json:"max,omitempty"`
	Step              float64              `json:"step,omitempty"`
	Mode              string               `json:"mode,omitempty"`
	JsonAttributes    string               `json:"json_attributes_topic,omitempty"`

	BrightnessStateTopic   string `json:"brightness_state_topic,omitempty"`
	BrightnessCommandTopic string `json:"brightness_command_topic,omitempty"`
	BrightnessScale        int    `json:"brightness_scale,omitempty"`
	ColorTempStateTopic    string `json:"color_temp_state_topic,omitempty"`
	ColorTempCommandTopic  string `json:"color_temp_command_topic,omitempty"`
	MinMireds              int    `json:"min_mireds,omitempty"`
	MaxMireds              int    `json:"max_mireds,omitempty"`

	PercentageStateTopic   string   `json:"percentage_state_topic,omitempty"`
	PercentageCommandTopic string   `json:"percentage_command_topic,omitempty"`
	PresetModeStateTopic   string   `json:"preset_mode_state_topic,omitempty"`
	PresetModeCommandTopic string   `json:"preset_mode_command_topic,omitempty"`
	PresetModes            []string `json:"preset_modes,omitempty"`

	ModeStateTopic             string   `json:"mode_state_topic,omitempty"`
	ModeCommandTopic           string   `json:"mode_command_topic,omitempty"`
	Modes                      []string `json:"modes,omitempty"`
	TargetHumidityStateTopic   string   `json:"target_humidity_state_topic,omitempty"`
	TargetHumidityCommandTopic string   `json:"target_humidity_command_topic,omitempty"`
	MinHumidity                int      `json:"min_humidity,omitempty"`
	MaxHumidity                int      `json:"max_humidity,omitempty"`
}

type HADiscoveryAvTopic struct {
	Topic               string `json:"topic"`
	PayloadAvailable    string `json:"payload_available,omitempty"`
	PayloadNotAvailable string `json:"payload_not_available,omitempty"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

func (c *MQTTClient) haDiscoveryTopic() string {
	if c.cfg.HADiscoveryTopic != "" {
		return c.cfg.HADiscoveryTopic
	}
	return defaultHADiscoveryTopic
}

func (c *MQTTClient) HADiscoverySensorTopic(sensor domain.GenericSensor) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", c.haDiscoveryTopic(), sensor.SensorType, sensor.Device.Id, sensor.Id)
}

func (c *MQTTClient) HADiscoverySwitchTopic(sw domain.GenericSwitch) string {
	return fmt.Sprintf("%s/switch/%s/%s/config", c.haDiscoveryTopic(), sw.Device.Id, sw.Id)
}

func (c *MQTTClient) HADiscoveryLightTopic(light domain.GenericLight) string {
	return fmt.Sprintf("%s/light/%s/%s/config", c.haDiscoveryTopic(), light.Device.Id, light.Id)
}

func (c *MQTTClient) HADiscoveryFanTopic(fan domain.GenericFan) string {
	return fmt.Sprintf("%s/fan/%s/%s/config", c.haDiscoveryTopic(), fan.Device.Id, fan.Id)
}

func (c *MQTTClient) HADiscoveryHumidifierTopic(hum domain.GenericHumidifier) string {
	return fmt.Sprintf("%s/humidifier/%s/%s/config", c.haDiscoveryTopic(), hum.Device.Id, hum.Id)
}

func (c *MQTTClient) HADiscoveryInputNumberTopic(number domain.GenericInputNumber) string {
	return fmt.Sprintf("%s/number/%s/%s/config", c.haDiscoveryTopic(), number.Device.Id, number.Id)
}

func (c *MQTTClient) HADiscoveryButtonTopic(button domain.GenericButton) string {
	return fmt.Sprintf("%s/button/%s/%s/config", c.haDiscoveryTopic(), button.Device.Id, button.Id)
}

// availability lists the bridge topic plus the per-device topic, both must
// read online for the entity to be available. Bridge entities only carry
// the bridge topic.
func (c *MQTTClient) availability(dev domain.Device, entityId string) []HADiscoveryAvTopic {
	topics := []HADiscoveryAvTopic{{
		Topic:               c.BridgeStateTopic(),
		PayloadAvailable:    MQTT_PAYLOAD_ONLINE,
		PayloadNotAvailable: MQTT_PAYLOAD_OFFLINE,
	}}
	if entityId == domain.SENSOR_ID_BRIDGE_STATE {
		return topics
	}
	return append(topics, HADiscoveryAvTopic{
		Topic:               c.DeviceAvailabilityTopic(dev.Id),
		PayloadAvailable:    MQTT_PAYLOAD_ONLINE,
		PayloadNotAvailable: MQTT_PAYLOAD_OFFLINE,
	})
}

func GenericSensorToHADiscoveryMessage(client *MQTTClient, sensor domain.GenericSensor) HADiscoveryConfig {
	var topic string
	switch {
	case sensor.Id == domain.SENSOR_ID_BRIDGE_STATE:
		topic = client.BridgeStateTopic()
	case sensor.SensorType == domain.SENSOR_TYPE_SENSOR:
		topic = client.SensorStateTopic(sensor.Id)
	case sensor.SensorType == domain.SENSOR_TYPE_BINARY:
		topic = client.BinarySensorStateTopic(sensor.Id)
	}
	disConfig := HADiscoveryConfig{
		Device:            device(sensor.Device),
		StateTopic:        topic,
		StateClass:        sensor.StateClass,
		DeviceClass:       sensor.DeviceClass,
		UnitOfMeasurement: sensor.UnitOfMeasurement,
		Availability:      client.availability(sensor.Device, sensor.Id),
		AvailabilityMode:  "all",
		EntityCategory:    sensor.EntityCategory,
		Name:              sensor.Name,
		UniqueId:          sensor.UniqueId,
		Icon:              sensor.Icon,
		EnabledByDefault:  sensor.EnabledByDefault,
		Platform:          "mqtt",
	}
	if sensor.Id == domain.SENSOR_ID_BRIDGE_STATE {
		// the bridge sensor reads the availability topic as its state
		disConfig.Availability = nil
		disConfig.AvailabilityMode = ""
		disConfig.PayloadOn = MQTT_PAYLOAD_ONLINE
		disConfig.PayloadOff = MQTT_PAYLOAD_OFFLINE
	} else if sensor.SensorType == domain.SENSOR_TYPE_BINARY {
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
	}
	return disConfig
}

func GenericSwitchToHADiscoveryMessage(client *MQTTClient, sw domain.GenericSwitch) HADiscoveryConfig {
	disConfig := HADiscoveryConfig{
		Device:           device(sw.Device),
		StateTopic:       client.SwitchStateTopic(sw.Id),
		CommandTopic:     client.SwitchCommandTopic(sw.Id),
		Availability:     client.availability(sw.Device, sw.Id),
		AvailabilityMode: "all",
		EntityCategory:   sw.EntityCategory,
		Name:             sw.Name,
		UniqueId:         sw.UniqueId,
		Icon:             sw.Icon,
		Platform:         "mqtt",
		PayloadOn:        MQTT_PAYLOAD_ON,
		PayloadOff:       MQTT_PAYLOAD_OFF,
	}
	if sw.HasAttributes {
		disConfig.JsonAttributes = client.SwitchAttributesTopic(sw.Id)
	}
	return disConfig
}

func GenericLightToHADiscoveryMessage(client *MQTTClient, light domain.GenericLight) HADiscoveryConfig {
	disConfig := HADiscoveryConfig{
		Device:           device(light.Device),
		StateTopic:       client.LightStateTopic(light.Id),
		CommandTopic:     client.LightCommandTopic(light.Id),
		Availability:     client.availability(light.Device, light.Id),
		AvailabilityMode: "all",
		Name:             light.Name,
		UniqueId:         light.UniqueId,
		Icon:             light.Icon,
		Platform:         "mqtt",
		PayloadOn:        MQTT_PAYLOAD_ON,
		PayloadOff:       MQTT_PAYLOAD_OFF,
	}
	if light.Brightness {
		disConfig.BrightnessStateTopic = client.LightParamStateTopic(light.Id, domain.PARAM_BRIGHTNESS)
		disConfig.BrightnessCommandTopic = client.LightParamCommandTopic(light.Id, domain.PARAM_BRIGHTNESS)
		disConfig.BrightnessScale = 255
	}
	if light.ColorTemp {
		disConfig.ColorTempStateTopic = client.LightParamStateTopic(light.Id, domain.PARAM_COLOR_TEMP)
		disConfig.ColorTempCommandTopic = client.LightParamCommandTopic(light.Id, domain.PARAM_COLOR_TEMP)
		disConfig.MinMireds = light.MinMireds
		disConfig.MaxMireds = light.MaxMireds
	}
	return disConfig
}

func GenericFanToHADiscoveryMessage(client *MQTTClient, fan domain.GenericFan) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:                 device(fan.Device),
		StateTopic:             client.FanStateTopic(fan.Id),
		CommandTopic:           client.FanCommandTopic(fan.Id),
		Availability:           client.availability(fan.Device, fan.Id),
		AvailabilityMode:       "all",
		Name:                   fan.Name,
		UniqueId:               fan.UniqueId,
		Icon:                   fan.Icon,
		Platform:               "mqtt",
		PayloadOn:              MQTT_PAYLOAD_ON,
		PayloadOff:             MQTT_PAYLOAD_OFF,
		PercentageStateTopic:   client.FanParamStateTopic(fan.Id, domain.PARAM_PERCENTAGE),
		PercentageCommandTopic: client.FanParamCommandTopic(fan.Id, domain.PARAM_PERCENTAGE),
		PresetModeStateTopic:   client.FanParamStateTopic(fan.Id, domain.PARAM_PRESET_MODE),
		PresetModeCommandTopic: client.FanParamCommandTopic(fan.Id, domain.PARAM_PRESET_MODE),
		PresetModes:            fan.PresetModes,
	}
}

func GenericHumidifierToHADiscoveryMessage(client *MQTTClient, hum domain.GenericHumidifier) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:                     device(hum.Device),
		StateTopic:                 client.HumidifierStateTopic(hum.Id),
		CommandTopic:               client.HumidifierCommandTopic(hum.Id),
		Availability:               client.availability(hum.Device, hum.Id),
		AvailabilityMode:           "all",
		Name:                       hum.Name,
		UniqueId:                   hum.UniqueId,
		Icon:                       hum.Icon,
		Platform:                   "mqtt",
		PayloadOn:                  MQTT_PAYLOAD_ON,
		PayloadOff:                 MQTT_PAYLOAD_OFF,
		ModeStateTopic:             client.HumidifierParamStateTopic(hum.Id, domain.PARAM_MODE),
		ModeCommandTopic:           client.HumidifierParamCommandTopic(hum.Id, domain.PARAM_MODE),
		Modes:                      hum.Modes,
		TargetHumidityStateTopic:   client.HumidifierParamStateTopic(hum.Id, domain.PARAM_TARGET_HUMIDITY),
		TargetHumidityCommandTopic: client.HumidifierParamCommandTopic(hum.Id, domain.PARAM_TARGET_HUMIDITY),
		MinHumidity:                hum.MinHumidity,
		MaxHumidity:                hum.MaxHumidity,
	}
}

func GenericInputNumberToHADiscoveryMessage(client *MQTTClient, number domain.GenericInputNumber) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:           device(number.Device),
		StateTopic:       client.InputNumberStateTopic(number.Id),
		CommandTopic:     client.InputNumberCommandTopic(number.Id),
		Availability:     client.availability(number.Device, number.Id),
		AvailabilityMode: "all",
		EntityCategory:   number.EntityCategory,
		Name:             number.Name,
		UniqueId:         number.UniqueId,
		Icon:             number.Icon,
		Platform:         "mqtt",
		Min:              number.Min,
		Max:              number.Max,
		Step:             number.Step,
		Mode:             number.Mode,
	}
}

func GenericButtonToHADiscoveryMessage(client *MQTTClient, button domain.GenericButton) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:           device(button.Device),
		CommandTopic:     client.ButtonCommandTopic(button.Id),
		Availability:     client.availability(button.Device, button.Id),
		AvailabilityMode: "all",
		Name:             button.Name,
		UniqueId:         button.UniqueId,
		Icon:             button.Icon,
		Platform:         "mqtt",
		PayloadPress:     MQTT_PAYLOAD_PRESS,
	}
}

func device(d domain.Device) HADiscoveryDevice {
	return HADiscoveryDevice{
		Id:           []string{d.Id},
		Manufacturer: d.Manufacturer,
		Version:      d.Version,
		Model:        d.Model,
		Name:         d.Name,
		ViaDevice:    d.ViaDevice,
	}
}
