package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	r := commandExtractor(baseTopic)

	matches := r.FindAllStringSubmatch("loremTopic/switch/my_device/command", 1)
	assert.Equal(matches[0][1], "switch", "platform extract")
	assert.Equal(matches[0][2], "my_device", "entity extract")

	matches = r.FindAllStringSubmatch("loremTopic/fan/fan_1/command", 1)
	assert.Equal(matches[0][1], "fan")
	assert.Equal(matches[0][2], "fan_1")
}

func TestCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	r := commandExtractor(baseTopic)

	assert.Empty(r.FindAllStringSubmatch("loremTopic/switch/my_device/state", 1), "state topic is not a command")
	assert.Empty(r.FindAllStringSubmatch("loremTopic/sensor/my_device/command", 1), "sensors take no commands")
	assert.Empty(r.FindAllStringSubmatch("otherTopic/switch/my_device/command", 1), "foreign base topic")
}

func TestParamCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	r := paramCommandExtractor(baseTopic)

	matches := r.FindAllStringSubmatch("loremTopic/light/bulb_1/brightness/set", 1)
	assert.Equal(matches[0][1], "light")
	assert.Equal(matches[0][2], "bulb_1")
	assert.Equal(matches[0][3], "brightness")

	matches = r.FindAllStringSubmatch("loremTopic/humidifier/hum_1/target_humidity/set", 1)
	assert.Equal(matches[0][3], "target_humidity")
}

func TestParamCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	r := paramCommandExtractor(baseTopic)

	assert.Empty(r.FindAllStringSubmatch("loremTopic/light/bulb_1/brightness/state", 1), "state topic is not a command")
	assert.Empty(r.FindAllStringSubmatch("loremTopic/switch/sw_1/brightness/set", 1), "switches have no params")
}

func TestInputNumberCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	r := numberSetExtractor(baseTopic)

	matches := r.FindAllStringSubmatch("loremTopic/number/number_name/set", 1)
	assert.Equal(matches[0][1], "number_name", "number_id extract")
}

func TestInputNumberCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	r := numberSetExtractor(baseTopic)

	assert.Empty(r.FindAllStringSubmatch("loremTopic/switch/number_name/command", 1), "no matches")
}
