package actor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dawidkulpa/vesync2mqtt/internal/config"
	"github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/internal/mqtt"
	"github.com/dawidkulpa/vesync2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type MQTTActor struct {
	config   *config.Config
	behavior actor.Behavior
	stash    *actorutil.Stash
	client   *mqtt.MQTTClient
	logger   *zap.Logger

	pendingPublishes int
}

type MQTTConnected struct {
}

type MQTTSubscribed struct {
}

type MQTTConnectionLost struct {
	Error error
}

type publishResult struct {
	ReplyTo *actor.PID
	Error   error
}

type ParsedCommand struct {
	Command *mqtt.ParsedMQTTCommand
}

type rawMessage struct {
	topic   string
	message string
	retain  bool
}

func NewMQTTActor(config *config.Config, logger *zap.Logger) *MQTTActor {
	act := &MQTTActor{
		config:   config,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_MQTT, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MQTTActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MQTTActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("mqtt@starting started")

		// create MQTT client
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), func(_ pahomqtt.Client) {
		}, func(_ pahomqtt.Client, err error) {
			ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
		})

		// connect to MQTT server
		state.client.Connect(func(err error) {
			if err != nil {
				ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
			} else {
				ctx.Send(ctx.Self(), MQTTConnected{})
			}
		}, 10*time.Second)

	case MQTTConnected:
		state.logger.Debug("mqtt@starting connected")

		state.client.Publish(state.client.BridgeStateTopic(), mqtt.MQTT_PAYLOAD_ONLINE, 0, true, func(error) {}, 500*time.Millisecond)

		// subscribe to MQTT command topic
		state.client.SubscribeToCommandTopic(func(c pahomqtt.Client, m pahomqtt.Message) {
			cmd, err := state.client.ParseMQTTCommand(m)
			if err == nil && cmd != nil {
				ctx.Send(ctx.Self(), ParsedCommand{Command: cmd})
			}
		}, func(err error) {
			if err != nil {
				ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
			} else {
				ctx.Send(ctx.Self(), MQTTSubscribed{})
			}
		}, 1*time.Second)
	case MQTTSubscribed:
		// init completed, transition to default state
		state.logger.Debug("mqtt@starting subscribed")
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("mqtt@starting connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	case *actor.Restarting:
		state.stop()
	default:
		state.logger.Debug("mqtt@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	case domain.ActorHealthRequest:
		state.logger.Debug("mqtt@default ActorHealthRequest")
		// respond health check request
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: true,
			State:   "idle",
		})
	case ParsedCommand:
		// route command to parent
		state.logger.Debug("mqtt@default parsedCommand", zap.Any("command", msg.Command))
		ctx.Send(ctx.Parent(), msg)
	case domain.PublishMessageRequest:
		state.logger.Debug("mqtt@default PublishMessageRequest", zap.Any("message", msg))
		state.publishMessage(ctx, msg.Topic, msg.Payload, msg.Retain, actorutil.ForRequest(msg).ReplyTo(ctx))
	case domain.PublishEntityUpdateRequest:
		// receive message from event bus and publish to MQTT if needed
		state.logger.Debug("mqtt@default PublishEntityUpdateRequest", zap.String("type", fmt.Sprintf("%T", msg.Event)))
		state.publishEntityUpdate(ctx, msg.Event, msg.Retain)
	case domain.PublishDiscoveryRequest:
		state.logger.Debug("mqtt@default PublishHADiscovery")
		err := state.PublishHomeAssistantDiscovery(ctx, msg.Entities)
		if err != nil {
			state.logger.Error("mqtt@default PublishHADiscovery error", zap.Error(err))
		}
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("mqtt@default connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	default:
		state.logger.Debug("mqtt@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// event2MQTTMessages converts one entity update into the raw messages it
// produces. Composite states (light, fan, humidifier) fan out to several
// topics.
func (state *MQTTActor) event2MQTTMessages(event any) []rawMessage {
	switch msg := event.(type) {
	case domain.FloatSensorUpdateEvent:
		return []rawMessage{{
			topic:   state.client.SensorStateTopic(msg.Id),
			message: strconv.FormatFloat(msg.Value, 'f', int(msg.Decimals), 64),
		}}
	case domain.BinarySensorUpdateEvent:
		return []rawMessage{{
			topic:   state.client.BinarySensorStateTopic(msg.Id),
			message: bool2MQTTPayload(msg.Value),
		}}
	case domain.TextSensorUpdateEvent:
		return []rawMessage{{
			topic:   state.client.SensorStateTopic(msg.Id),
			message: msg.Value,
		}}
	case domain.SwitchStateUpdateEvent:
		return []rawMessage{{
			topic:   state.client.SwitchStateTopic(msg.Id),
			message: bool2MQTTPayload(msg.Value),
			retain:  true,
		}}
	case domain.SwitchAttributesUpdateEvent:
		payload, err := json.Marshal(msg.Attributes)
		if err != nil {
			state.logger.Error("mqtt: could not encode switch attributes", zap.Error(err))
			return nil
		}
		return []rawMessage{{
			topic:   state.client.SwitchAttributesTopic(msg.Id),
			message: string(payload),
			retain:  true,
		}}
	case domain.NumberStateUpdateEvent:
		return []rawMessage{{
			topic:   state.client.InputNumberStateTopic(msg.Id),
			message: strconv.FormatFloat(msg.Value, 'f', int(msg.Decimals), 64),
			retain:  true,
		}}
	case domain.LightStateUpdateEvent:
		msgs := []rawMessage{{
			topic:   state.client.LightStateTopic(msg.Id),
			message: bool2MQTTPayload(msg.On),
			retain:  true,
		}}
		if msg.Brightness != nil {
			msgs = append(msgs, rawMessage{
				topic:   state.client.LightParamStateTopic(msg.Id, domain.PARAM_BRIGHTNESS),
				message: strconv.Itoa(*msg.Brightness),
				retain:  true,
			})
		}
		if msg.ColorTemp != nil {
			msgs = append(msgs, rawMessage{
				topic:   state.client.LightParamStateTopic(msg.Id, domain.PARAM_COLOR_TEMP),
				message: strconv.Itoa(*msg.ColorTemp),
				retain:  true,
			})
		}
		return msgs
	case domain.FanStateUpdateEvent:
		msgs := []rawMessage{{
			topic:   state.client.FanStateTopic(msg.Id),
			message: bool2MQTTPayload(msg.On),
			retain:  true,
		}}
		if msg.Percentage != nil {
			msgs = append(msgs, rawMessage{
				topic:   state.client.FanParamStateTopic(msg.Id, domain.PARAM_PERCENTAGE),
				message: strconv.Itoa(*msg.Percentage),
				retain:  true,
			})
		}
		if msg.PresetMode != "" {
			msgs = append(msgs, rawMessage{
				topic:   state.client.FanParamStateTopic(msg.Id, domain.PARAM_PRESET_MODE),
				message: msg.PresetMode,
				retain:  true,
			})
		}
		return msgs
	case domain.HumidifierStateUpdateEvent:
		msgs := []rawMessage{{
			topic:   state.client.HumidifierStateTopic(msg.Id),
			message: bool2MQTTPayload(msg.On),
			retain:  true,
		}}
		if msg.Mode != "" {
			msgs = append(msgs, rawMessage{
				topic:   state.client.HumidifierParamStateTopic(msg.Id, domain.PARAM_MODE),
				message: msg.Mode,
				retain:  true,
			})
		}
		msgs = append(msgs, rawMessage{
			topic:   state.client.HumidifierParamStateTopic(msg.Id, domain.PARAM_TARGET_HUMIDITY),
			message: strconv.Itoa(msg.TargetHumidity),
			retain:  true,
		})
		return msgs
	case domain.DeviceAvailabilityUpdateEvent:
		return []rawMessage{{
			topic:   state.client.DeviceAvailabilityTopic(msg.Id),
			message: onlineOffline2MQTTPayload(msg.Online),
			retain:  true,
		}}
	case domain.BridgeStateUpdateEvent:
		return []rawMessage{{
			topic:   state.client.BridgeStateTopic(),
			message: onlineOffline2MQTTPayload(msg.Value),
			retain:  true,
		}}
	default:
		return nil
	}
}

func (state *MQTTActor) publishEntityUpdate(ctx actor.Context, event domain.EntityUpdateEvent, retain bool) {
	msgs := state.event2MQTTMessages(event)
	if len(msgs) == 0 {
		return
	}
	state.pendingPublishes = len(msgs)
	for _, msg := range msgs {
		state.logger.Sugar().Debugf("mqtt@publish: entity publish %s => %s", msg.topic, msg.message)
		state.client.Publish(msg.topic, msg.message, 1, msg.retain || retain, func(err error) {
			ctx.Send(ctx.Self(), publishResult{Error: err})
		}, 5*time.Second)
	}
	state.behavior.BecomeStacked(state.EventPublishResultReceive)
}

func (state *MQTTActor) publishMessage(ctx actor.Context, topic, payload string, retain bool, replyTo *actor.PID) {
	state.logger.Sugar().Debugf("mqtt@publish: message publish %s => %s", topic, payload)
	state.client.Publish(topic, payload, 1, retain, func(err error) {
		ctx.Send(ctx.Self(), publishResult{ReplyTo: replyTo, Error: err})
	}, 5*time.Second)
	state.behavior.BecomeStacked(state.MessagePublishResultReceive)
}

func (state *MQTTActor) MessagePublishResultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case publishResult:
		// log error and return to default state
		if msg.Error != nil {
			state.logger.Error("mqtt@publishing could not publish a message", zap.Error(msg.Error))
		}
		if msg.ReplyTo != nil {
			ctx.Send(msg.ReplyTo, domain.PublishMessageResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: msg.Error,
				},
			})
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashOldest(ctx)
	default:
		state.logger.Debug("mqtt@publishing stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) EventPublishResultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case publishResult:
		// log error, wait for the rest of the batch, then return to the
		// default state
		if msg.Error != nil {
			state.logger.Error("mqtt@publishing could not publish a message", zap.Error(msg.Error))
		}
		state.pendingPublishes--
		if state.pendingPublishes <= 0 {
			state.behavior.UnbecomeStacked()
			state.stash.UnstashOldest(ctx)
		}
	default:
		state.logger.Debug("mqtt@publishing stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) PublishHomeAssistantDiscovery(ctx actor.Context, entities domain.EntitySet) error {
	publish := func(topic string, msg any) error {
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		state.client.Publish(topic, payload, 0, true, func(error) {}, 1*time.Second)
		return nil
	}
	for i := range entities.Sensors {
		if err := publish(state.client.HADiscoverySensorTopic(entities.Sensors[i]),
			mqtt.GenericSensorToHADiscoveryMessage(state.client, entities.Sensors[i])); err != nil {
			return err
		}
	}
	for i := range entities.BinarySensors {
		if err := publish(state.client.HADiscoverySensorTopic(entities.BinarySensors[i]),
			mqtt.GenericSensorToHADiscoveryMessage(state.client, entities.BinarySensors[i])); err != nil {
			return err
		}
	}
	for i := range entities.Switches {
		if err := publish(state.client.HADiscoverySwitchTopic(entities.Switches[i]),
			mqtt.GenericSwitchToHADiscoveryMessage(state.client, entities.Switches[i])); err != nil {
			return err
		}
	}
	for i := range entities.Lights {
		if err := publish(state.client.HADiscoveryLightTopic(entities.Lights[i]),
			mqtt.GenericLightToHADiscoveryMessage(state.client, entities.Lights[i])); err != nil {
			return err
		}
	}
	for i := range entities.Fans {
		if err := publish(state.client.HADiscoveryFanTopic(entities.Fans[i]),
			mqtt.GenericFanToHADiscoveryMessage(state.client, entities.Fans[i])); err != nil {
			return err
		}
	}
	for i := range entities.Humidifiers {
		if err := publish(state.client.HADiscoveryHumidifierTopic(entities.Humidifiers[i]),
			mqtt.GenericHumidifierToHADiscoveryMessage(state.client, entities.Humidifiers[i])); err != nil {
			return err
		}
	}
	for i := range entities.Numbers {
		if err := publish(state.client.HADiscoveryInputNumberTopic(entities.Numbers[i]),
			mqtt.GenericInputNumberToHADiscoveryMessage(state.client, entities.Numbers[i])); err != nil {
			return err
		}
	}
	for i := range entities.Buttons {
		if err := publish(state.client.HADiscoveryButtonTopic(entities.Buttons[i]),
			mqtt.GenericButtonToHADiscoveryMessage(state.client, entities.Buttons[i])); err != nil {
			return err
		}
	}
	return nil
}

func (state *MQTTActor) stop() {
	state.logger.Debug("mqtt: disconnect")
	state.client.Publish(state.client.BridgeStateTopic(), mqtt.MQTT_PAYLOAD_OFFLINE, 0, true, func(error) {}, 500*time.Millisecond)
	if state.client != nil {
		state.client.Disconnect(500 * time.Millisecond)
	}
}

func bool2MQTTPayload(value bool) string {
	if value {
		return mqtt.MQTT_PAYLOAD_ON
	} else {
		return mqtt.MQTT_PAYLOAD_OFF
	}
}

func onlineOffline2MQTTPayload(value bool) string {
	if value {
		return mqtt.MQTT_PAYLOAD_ONLINE
	}
	return mqtt.MQTT_PAYLOAD_OFFLINE
}

// Dummy actor
func NewTestMQTTActor(config *config.Config, logger *zap.Logger) *MQTTActor {
	act := &MQTTActor{
		config:   config,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger("mqtt", logger),
	}
	act.behavior.Become(act.DummyReceive)
	return act
}

func (state *MQTTActor) DummyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), nil, nil)
	case domain.ActorHealthRequest:
		state.logger.Debug("mqtt@default ActorHealthRequest")
		// respond health check request
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: true,
			State:   "idle",
		})
	case domain.PublishEntityUpdateRequest:
		if msg.ReplyToRef != nil {
			ctx.Respond(domain.PublishEntityUpdateResponse{})
		}
	case domain.PublishMessageRequest:
		if msg.ReplyToRef != nil {
			ctx.Respond(domain.PublishMessageResponse{})
		}
	case domain.PublishDiscoveryRequest:
		if msg.ReplyToRef != nil {
			ctx.Respond(domain.PublishDiscoveryResponse{})
		}
	}
}
