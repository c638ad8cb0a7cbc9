package actor

import (
	"errors"
	"fmt"
	"log"
	"time"

	adactor "github.com/dawidkulpa/vesync2mqtt/internal/adapter/actor"
	"github.com/dawidkulpa/vesync2mqtt/internal/config"
	"github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/internal/mqtt"
	. "github.com/dawidkulpa/vesync2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type MQTTActorProvider func() *adactor.MQTTActor

type VeSyncActorProvider func() *adactor.VeSyncActor

type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck  healthCheckResult
	vesyncActor         *actor.PID
	mqttActor           *actor.PID
	pollerActor         *actor.PID
	haDiscoveryActor    *actor.PID
	vesyncActorProvider VeSyncActorProvider
	mqttActorProvider   MQTTActorProvider
	refreshReplyTo      *actor.PID
	logger              *zap.Logger
}

type healthCheckResult struct {
	vesyncActorHealthy bool
	mqttActorHealthy   bool
	pollerActorHealthy bool
	checksReceived     int
	respondTo          *actor.PID
}

func NewMasterOfPuppetsActor(config config.Config, vesyncActorProvider VeSyncActorProvider, mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:              config,
		behavior:            actor.NewBehavior(),
		stash:               &Stash{},
		logger:              ActorLogger(domain.ACTOR_ID_MASTER, logger),
		vesyncActorProvider: vesyncActorProvider,
		mqttActorProvider:   mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		state.currentHealthCheck = healthCheckResult{}
		state.currentHealthCheck.reset()

		// start VeSync child
		vesyncActorPID, err := state.startVeSyncActor(ctx)
		if err != nil {
			panic(err)
		}
		state.vesyncActor = vesyncActorPID

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// start Poller child
		pollerActorPID, err := state.startPollerActor(ctx)
		if err != nil {
			panic(err)
		}
		state.pollerActor = pollerActorPID

		// start HA Discovery. Always spawned: a discovery pass also builds
		// the command registry, even when publishing to HA is disabled.
		haDiscPID, err := state.startHADiscoveryActor(ctx)
		if err != nil {
			panic(err)
		}
		state.haDiscoveryActor = haDiscPID

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.currentHealthCheck.reset()
		state.currentHealthCheck.respondTo = ctx.Sender()
		// VeSync Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.vesyncActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_VESYNC,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		// Poller Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.pollerActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_POLLER,
				Healthy: false,
			}
		})

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case adactor.ParsedCommand:
		// redirect parsed command to the vendor I/O actor
		state.logger.Debug("master@default parsedCommand", zap.Any("command", msg.Command))
		if msg.Command != nil {
			cmd := ParsedMQTTCommandToDeviceCommand(*msg.Command)
			cmd.ReplyToRef = (*domain.ActorRef)(ctx.Self())
			ctx.Send(state.vesyncActor, cmd)
		}
	case domain.DeviceCommandResponse:
		// fire-and-forget command outcome, only interesting when it failed
		if msg.HasResponseError() {
			state.logger.Error("master@default device command failed",
				zap.String("key", msg.Key.String()), zap.Error(msg.GetResponseError()))
		}
	case domain.RefreshDevicesRequest:
		state.logger.Debug("master@default RefreshDevicesRequest")
		state.refreshReplyTo = ctx.Sender()
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.vesyncActor, domain.RescanDevicesRequest{}, 30*time.Second), func(err error) any {
			return domain.RescanDevicesResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.BecomeStacked(state.WaitingRescanReceive)
	case *actor.Terminated:
		// if some actor fails on boot, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_VESYNC) {
			state.logger.Error("master@default vesync error")
			panic(errors.New("vesync terminated"))
		}
	default:
		state.logger.Debug("master@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.checksReceived++
		if msg.Healthy {
			if msg.Id == domain.ACTOR_ID_VESYNC {
				state.currentHealthCheck.vesyncActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_MQTT {
				state.currentHealthCheck.mqttActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_POLLER {
				state.currentHealthCheck.pollerActorHealthy = true
			}
		}
		if state.currentHealthCheck.allReceived() {

			state.currentHealthCheck.respond(ctx)

			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) WaitingRescanReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.RescanDevicesResponse:
		if msg.HasResponseError() {
			state.logger.Error("master@rescan RescanDevicesResponse error", zap.Error(msg.GetResponseError()))
		} else {
			state.logger.Debug("master@rescan RescanDevicesResponse")
			// re-run discovery so new devices get entities and commands
			ctx.Send(state.haDiscoveryActor, RunDiscoveryRequest{})
		}
		if state.refreshReplyTo != nil {
			ctx.Send(state.refreshReplyTo, domain.RefreshDevicesResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: msg.GetResponseError(),
				},
			})
			state.refreshReplyTo = nil
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@rescan stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// ParsedMQTTCommandToDeviceCommand maps an inbound MQTT command to the
// registry key of the entity it addresses.
func ParsedMQTTCommandToDeviceCommand(cmd mqtt.ParsedMQTTCommand) domain.DeviceCommandRequest {
	return domain.DeviceCommandRequest{
		Key: domain.CommandKey{
			EntityId: cmd.EntityId,
			Param:    cmd.Param,
		},
		Payload: cmd.Payload,
	}
}

func (state *MasterOfPuppetsActor) startVeSyncActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	vesyncProps := actor.PropsFromProducer(func() actor.Actor {
		return state.vesyncActorProvider()
	}, actor.WithSupervisor(supervisor))
	vesyncActorPID, err := ctx.SpawnNamed(vesyncProps, domain.ACTOR_ID_VESYNC)
	if err != nil {
		return nil, err
	}

	return vesyncActorPID, nil
}

func (state *MasterOfPuppetsActor) startPollerActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewAllForOneStrategy(1, 10*time.Second, decider)

	pollerProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollerActor(&state.config, state.vesyncActor, state.mqttActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	pollerActorPID, err := ctx.SpawnNamed(pollerProps, domain.ACTOR_ID_POLLER)
	if err != nil {
		return nil, err
	}

	return pollerActorPID, nil
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	haDiscProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.vesyncActor, state.mqttActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	haDiscPID, err := ctx.SpawnNamed(haDiscProps, domain.ACTOR_ID_HA_DISCOVERY)
	if err != nil {
		return nil, err
	}

	return haDiscPID, nil
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider()
	}, actor.WithSupervisor(supervisor))
	mqttActorPID, err := ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
	if err != nil {
		return nil, err
	}

	return mqttActorPID, nil
}

func (state *healthCheckResult) reset() {
	state.vesyncActorHealthy = false
	state.mqttActorHealthy = false
	state.pollerActorHealthy = false
	state.checksReceived = 0
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived == 3
}

func (state *healthCheckResult) allHealthy() bool {
	return state.vesyncActorHealthy && state.mqttActorHealthy && state.pollerActorHealthy
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
