package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

	"github.com/carlmjohnson/versioninfo"
)

const (
	MANUFACTURER = "VeSync"

	SENSOR_ID_BRIDGE_STATE = "bridge"

	// Fixed per-feature unique id suffixes. unique_id = BaseID + suffix,
	// stable across restarts as long as the vendor id is stable.
	SUFFIX_CHILD_LOCK       = "-child-lock"
	SUFFIX_DISPLAY          = "-display"
	SUFFIX_AUTOMATIC_STOP   = "-automatic-stop"
	SUFFIX_AUTO_MODE        = "-auto-mode"
	SUFFIX_NIGHT_LIGHT      = "-night-light"
	SUFFIX_FAN_SPEED_LEVEL  = "-fan-speed-level"
	SUFFIX_MIST_LEVEL       = "-mist-level"
	SUFFIX_WARM_MIST_LEVEL  = "-warm-mist-level"
	SUFFIX_TARGET_HUMIDITY  = "-target-humidity"
	SUFFIX_POWER            = "-power"
	SUFFIX_ENERGY           = "-energy"
	SUFFIX_VOLTAGE          = "-voltage"
	SUFFIX_HUMIDITY         = "-humidity"
	SUFFIX_AIR_QUALITY      = "-air-quality"
	SUFFIX_PM25             = "-pm25"
	SUFFIX_PM1              = "-pm1"
	SUFFIX_PM10             = "-pm10"
	SUFFIX_AQ_PERCENT       = "-aq-percent"
	SUFFIX_FILTER_LIFE      = "-filter-life"
	SUFFIX_ROTATE_ANGLE     = "-rotate-angle"
	SUFFIX_CURRENT_TEMP     = "-current-temp"
	SUFFIX_COOK_SET_TEMP    = "-cook-set-temp"
	SUFFIX_COOK_LAST_TIME   = "-cook-last-time"
	SUFFIX_PREHEAT_LAST     = "-preheat-last-time"
	SUFFIX_COOK_STATUS      = "-cook-status"
	SUFFIX_WATER_LACKS      = "-water-lacks"
	SUFFIX_WATER_TANK       = "-water-tank-lifted"
	SUFFIX_FILTER_OPEN      = "-filter-open-state"
	SUFFIX_IS_HEATING       = "-is-heating"
	SUFFIX_IS_COOKING       = "-is-cooking"
	SUFFIX_IS_RUNNING       = "-is-running"
	SUFFIX_END              = "-end"

	STATE_CLASS_MEASUREMENT      = "measurement"
	STATE_CLASS_TOTAL_INCREASING = "total_increasing"
	DEVICE_CLASS_POWER           = "power"
	DEVICE_CLASS_ENERGY          = "energy"
	DEVICE_CLASS_VOLTAGE         = "voltage"
	DEVICE_CLASS_HUMIDITY        = "humidity"
	DEVICE_CLASS_TEMPERATURE     = "temperature"
	DEVICE_CLASS_PM25            = "pm25"
	DEVICE_CLASS_PM1             = "pm1"
	DEVICE_CLASS_PM10            = "pm10"
	DEVICE_CLASS_DURATION        = "duration"
	DEVICE_CLASS_CONNECTIVITY    = "connectivity"
	DEVICE_CLASS_PROBLEM         = "problem"
	DEVICE_CLASS_RUNNING         = "running"
	ENTITY_CLASS_DIAGNOSTIC      = "diagnostic"
	ENTITY_CLASS_CONFIG          = "config"
	SENSOR_TYPE_SENSOR           = "sensor"
	SENSOR_TYPE_BINARY           = "binary_sensor"
	INPUT_NUMBER_MODE_BOX        = "box"
	INPUT_NUMBER_MODE_SLIDER     = "slider"
)

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement, total_increasing (for acc energy)
	DeviceClass       string
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
}

type GenericSwitch struct {
	Device         Device
	Id             string
	Name           string
	UniqueId       string
	Icon           string
	EntityCategory string
	// HasAttributes enables a json attributes topic alongside the state
	// topic. Metered outlets use it for voltage and energy totals.
	HasAttributes bool
}

type GenericInputNumber struct {
	Device         Device
	Id             string
	Name           string
	UniqueId       string
	Icon           string
	EntityCategory string
	Max            float64
	Min            float64
	Step           float64
	Mode           string
}

type GenericLight struct {
	Device     Device
	Id         string
	Name       string
	UniqueId   string
	Icon       string
	Brightness bool
	ColorTemp  bool
	MinMireds  int
	MaxMireds  int
}

type GenericFan struct {
	Device      Device
	Id          string
	Name        string
	UniqueId    string
	Icon        string
	PresetModes []string
}

type GenericHumidifier struct {
	Device      Device
	Id          string
	Name        string
	UniqueId    string
	Icon        string
	Modes       []string
	MinHumidity int
	MaxHumidity int
}

type GenericButton struct {
	Device   Device
	Id       string
	Name     string
	UniqueId string
	Icon     string
}

// EntitySet is everything one classification pass produces for discovery.
type EntitySet struct {
	Sensors       []GenericSensor
	BinarySensors []GenericSensor
	Switches      []GenericSwitch
	Lights        []GenericLight
	Fans          []GenericFan
	Humidifiers   []GenericHumidifier
	Numbers       []GenericInputNumber
	Buttons       []GenericButton
}

func (s *EntitySet) Count() int {
	return len(s.Sensors) + len(s.BinarySensors) + len(s.Switches) + len(s.Lights) +
		len(s.Fans) + len(s.Humidifiers) + len(s.Numbers) + len(s.Buttons)
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("vesync_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: MANUFACTURER,
		Model:        "vesync2mqtt",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("VeSync Bridge %s", md5HashShort(baseTopic)),
	}
}

// VesyncDevice is the grouping block shared by every entity of one physical
// device, keyed by BaseID.
func VesyncDevice(meta vesync.DeviceMeta) Device {
	return Device{
		Id:           EntityTopicId(meta.BaseID()),
		Name:         meta.DeviceName,
		Model:        meta.DeviceType,
		Manufacturer: MANUFACTURER,
		Version:      meta.FirmwareVersion,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

var topicIdSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// EntityTopicId turns a unique id into a topic-safe id segment.
func EntityTopicId(uniqueId string) string {
	return topicIdSanitizer.ReplaceAllString(uniqueId, "_")
}

// FeatureUniqueId derives the stable unique id of one feature entity.
func FeatureUniqueId(baseId, suffix string) string {
	return baseId + suffix
}

// FeatureTopicId is the topic-safe form of FeatureUniqueId.
func FeatureTopicId(baseId, suffix string) string {
	return EntityTopicId(FeatureUniqueId(baseId, suffix))
}

func md5HashShort(value string) string {
	hash := md5.Sum([]byte(value))
	return hex.EncodeToString(hash[:])[:8]
}
