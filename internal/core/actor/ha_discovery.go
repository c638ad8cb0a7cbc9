package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/dawidkulpa/vesync2mqtt/internal/config"
	"github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/internal/metrics"
	"github.com/dawidkulpa/vesync2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// RunDiscoveryRequest re-runs the discovery pass over the current device
// collection. Sent by the master after a rescan picked up new devices.
type RunDiscoveryRequest struct {
}

// HADiscoveryActor runs one classification pass over the device collection:
// it builds the entity set and command registry, hands the registry to the
// vendor I/O actor, and publishes Home Assistant discovery messages when
// enabled.
type HADiscoveryActor struct {
	config             *config.Config
	behavior           actor.Behavior
	stash              *actorutil.Stash
	vesyncActor        *actor.PID
	mqttActor          *actor.PID
	vesyncActorHealthy bool
	mqttActorHealthy   bool
	healthyRecv        int

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, vesyncActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:      config,
		vesyncActor: vesyncActor,
		mqttActor:   mqttActor,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check VeSync and MQTT actor healthy
		state.healthyRecv = 0
		state.vesyncActorHealthy = false
		state.mqttActorHealthy = false
		// VeSync Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.vesyncActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_VESYNC,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_VESYNC:
				state.vesyncActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {

			if state.vesyncActorHealthy && state.mqttActorHealthy {
				state.requestDevices(ctx)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or VeSync Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {
	switch ctx.Message().(type) {
	case RunDiscoveryRequest:
		state.logger.Debug("hadiscovery@done RunDiscoveryRequest")
		state.requestDevices(ctx)
	}
}

func (state *HADiscoveryActor) WaitingDevicesReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDevicesResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@devices: GetDevicesResponse")

		routing := domain.Classify(msg.Devices, state.logger)
		entities, registry := domain.BuildEntities(routing, state.config.MQTT.BaseTopic)
		metrics.DiscoveredDevices.Set(float64(len(msg.Devices.All())))

		// the vendor actor needs the registry to dispatch inbound commands
		ctx.Send(state.vesyncActor, domain.RegisterCommandsRequest{
			Registry: registry,
		})

		if state.config.MQTT.HADiscoveryEnable {
			ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
				Entities: entities,
			})
		}
		state.behavior.Become(state.Done)

	default:
		state.logger.Debug("hadiscovery@devices: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) requestDevices(ctx actor.Context) {
	actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.vesyncActor, domain.GetDevicesRequest{}, 2*time.Second), func(err error) any {
		return domain.GetDevicesResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
	state.behavior.Become(state.WaitingDevicesReceive)
}
