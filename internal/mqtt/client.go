package mqtt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"time"

	"github.com/dawidkulpa/vesync2mqtt/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"
	MQTT_PAYLOAD_PRESS   = "PRESS"
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("vesync_%d", rand.IntN(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:             mqtt.NewClient(opts),
		cfg:                cfg.MQTT,
		commandRegexp:      commandExtractor(cfg.MQTT.BaseTopic),
		paramCommandRegexp: paramCommandExtractor(cfg.MQTT.BaseTopic),
		numberSetRegexp:    numberSetExtractor(cfg.MQTT.BaseTopic),
	}
}

type MQTTClient struct {
	client             mqtt.Client
	cfg                config.MQTTConfig
	commandRegexp      *regexp.Regexp
	paramCommandRegexp *regexp.Regexp
	numberSetRegexp    *regexp.Regexp
}

// ParsedMQTTCommand is one inbound command message reduced to the entity it
// addresses. Param is empty for the primary command topic.
type ParsedMQTTCommand struct {
	EntityId string
	Platform string
	Param    string
	Payload  string
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

// DeviceAvailabilityTopic carries online/offline per physical device,
// entities reference it next to the bridge topic.
func (c *MQTTClient) DeviceAvailabilityTopic(deviceId string) string {
	return fmt.Sprintf("%s/device/%s/availability", c.baseTopic(), deviceId)
}

func (c *MQTTClient) SensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/sensor/%s/state", c.baseTopic(), sensorId)
}

func (c *MQTTClient) BinarySensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/binary_sensor/%s/state", c.baseTopic(), sensorId)
}

func (c *MQTTClient) SwitchStateTopic(switchId string) string {
	return fmt.Sprintf("%s/switch/%s/state", c.baseTopic(), switchId)
}

func (c *MQTTClient) SwitchCommandTopic(switchId string) string {
	return fmt.Sprintf("%s/switch/%s/command", c.baseTopic(), switchId)
}

func (c *MQTTClient) SwitchAttributesTopic(switchId string) string {
	return fmt.Sprintf("%s/switch/%s/attributes", c.baseTopic(), switchId)
}

func (c *MQTTClient) LightStateTopic(lightId string) string {
	return fmt.Sprintf("%s/light/%s/state", c.baseTopic(), lightId)
}

func (c *MQTTClient) LightCommandTopic(lightId string) string {
	return fmt.Sprintf("%s/light/%s/command", c.baseTopic(), lightId)
}

func (c *MQTTClient) LightParamStateTopic(lightId, param string) string {
	return fmt.Sprintf("%s/light/%s/%s/state", c.baseTopic(), lightId, param)
}

func (c *MQTTClient) LightParamCommandTopic(lightId, param string) string {
	return fmt.Sprintf("%s/light/%s/%s/set", c.baseTopic(), lightId, param)
}

func (c *MQTTClient) FanStateTopic(fanId string) string {
	return fmt.Sprintf("%s/fan/%s/state", c.baseTopic(), fanId)
}

func (c *MQTTClient) FanCommandTopic(fanId string) string {
	return fmt.Sprintf("%s/fan/%s/command", c.baseTopic(), fanId)
}

func (c *MQTTClient) FanParamStateTopic(fanId, param string) string {
	return fmt.Sprintf("%s/fan/%s/%s/state", c.baseTopic(), fanId, param)
}

func (c *MQTTClient) FanParamCommandTopic(fanId, param string) string {
	return fmt.Sprintf("%s/fan/%s/%s/set", c.baseTopic(), fanId, param)
}

func (c *MQTTClient) HumidifierStateTopic(id string) string {
	return fmt.Sprintf("%s/humidifier/%s/state", c.baseTopic(), id)
}

func (c *MQTTClient) HumidifierCommandTopic(id string) string {
	return fmt.Sprintf("%s/humidifier/%s/command", c.baseTopic(), id)
}

func (c *MQTTClient) HumidifierParamStateTopic(id, param string) string {
	return fmt.Sprintf("%s/humidifier/%s/%s/state", c.baseTopic(), id, param)
}

func (c *MQTTClient) HumidifierParamCommandTopic(id, param string) string {
	return fmt.Sprintf("%s/humidifier/%s/%s/set", c.baseTopic(), id, param)
}

func (c *MQTTClient) InputNumberStateTopic(id string) string {
	return fmt.Sprintf("%s/number/%s/state", c.baseTopic(), id)
}

func (c *MQTTClient) InputNumberCommandTopic(id string) string {
	return fmt.Sprintf("%s/number/%s/set", c.baseTopic(), id)
}

func (c *MQTTClient) ButtonCommandTopic(id string) string {
	return fmt.Sprintf("%s/button/%s/command", c.baseTopic(), id)
}

func (c *MQTTClient) ParseMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	if cmd, err := c.parsePrimaryCommand(msg); err == nil {
		return cmd, nil
	}
	if cmd, err := c.parseParamCommand(msg); err == nil {
		return cmd, nil
	}
	return c.parseNumberSetCommand(msg)
}

func (c *MQTTClient) parsePrimaryCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	matches := c.commandRegexp.FindAllStringSubmatch(msg.Topic(), 1)
	if len(matches) == 0 || len(matches[0]) != 3 {
		return nil, errors.New("invalid command")
	}
	return &ParsedMQTTCommand{
		Platform: matches[0][1],
		EntityId: matches[0][2],
		Payload:  string(msg.Payload()),
	}, nil
}

func (c *MQTTClient) parseParamCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	matches := c.paramCommandRegexp.FindAllStringSubmatch(msg.Topic(), 1)
	if len(matches) == 0 || len(matches[0]) != 4 {
		return nil, errors.New("invalid command")
	}
	return &ParsedMQTTCommand{
		Platform: matches[0][1],
		EntityId: matches[0][2],
		Param:    matches[0][3],
		Payload:  string(msg.Payload()),
	}, nil
}

func (c *MQTTClient) parseNumberSetCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	matches := c.numberSetRegexp.FindAllStringSubmatch(msg.Topic(), 1)
	if len(matches) == 0 || len(matches[0]) != 2 {
		return nil, errors.New("invalid command")
	}

	// try to parse a valid number
	if _, err := strconv.ParseFloat(string(msg.Payload()), 64); err != nil {
		return nil, err
	}

	return &ParsedMQTTCommand{
		Platform: "number",
		EntityId: matches[0][1],
		Payload:  string(msg.Payload()),
	}, nil
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	token := c.client.Publish(topic, qos, retain, payload)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT publish timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	token := c.client.Subscribe(topic, qos, handler)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT subscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) SubscribeToCommandTopic(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	c.Subscribe(c.commandTopic(), 1, handler, continuation, timeout)
}

func (c *MQTTClient) Unsubscribe(topic string, continuation func(error), timeout time.Duration) {
	token := c.client.Unsubscribe(topic)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT unsubscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	token := c.client.Connect()
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT connect timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func (c *MQTTClient) commandTopic() string {
	return fmt.Sprintf("%s/#", c.baseTopic())
}

func commandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/(switch|light|fan|humidifier|button)/([a-zA-Z0-9_]+)/command$", baseTopic))
}

func paramCommandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/(light|fan|humidifier)/([a-zA-Z0-9_]+)/([a-z_]+)/set$", baseTopic))
}

func numberSetExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/number/([a-zA-Z0-9_]+)/set$", baseTopic))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}
