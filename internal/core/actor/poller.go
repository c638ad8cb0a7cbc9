package actor

import (
	"fmt"
	"time"

	"github.com/dawidkulpa/vesync2mqtt/internal/config"
	"github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/internal/core/events"
	"github.com/dawidkulpa/vesync2mqtt/internal/metrics"
	. "github.com/dawidkulpa/vesync2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// PollerActor drives the periodic state refresh. Every tick it asks the
// vendor I/O actor for a bulk update and republishes the resulting entity
// states. A failed update flips the bridge state to offline until the next
// successful tick.
type PollerActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	vesyncActor  *actor.PID
	mqttActor    *actor.PID
	config       *config.Config
	bridgeOnline bool
	tickStarted  time.Time

	logger *zap.Logger
}

type pollerTick struct {
}

func NewPollerActor(config *config.Config, vesyncActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *PollerActor {
	act := &PollerActor{
		config:      config,
		vesyncActor: vesyncActor,
		mqttActor:   mqttActor,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_POLLER, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *PollerActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PollerActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("poller@starting started")

		if state.config.MonitorConfig.PollIntervalMillis > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
			state.scheduler.RequestOnce(time.Duration(state.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), pollerTick{})
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("poller@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("poller@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   "idle",
		})
	case pollerTick:
		state.logger.Debug("poller@default tick")
		state.tickStarted = time.Now()
		// refresh all device states
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.vesyncActor, domain.UpdateDevicesRequest{}, state.updateTimeout()), func(err error) any {
			return domain.UpdateDevicesResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})

		// schedule next tick
		state.scheduler.RequestOnce(time.Duration(state.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), pollerTick{})
		state.behavior.BecomeStacked(state.WaitingUpdateReceive)
	default:
		state.logger.Debug("poller@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingUpdateReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.UpdateDevicesResponse:
		metrics.PollDuration.Observe(time.Since(state.tickStarted).Seconds())
		if msg.HasResponseError() {
			metrics.DevicePolls.WithLabelValues(metrics.ResultError).Inc()
			state.logger.Error("poller@waiting UpdateDevicesResponse error", zap.Error(msg.GetResponseError()))
			if state.bridgeOnline {
				state.bridgeOnline = false
				state.publish(ctx, events.BridgeStateToUpdateEvent(false))
			}
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
			return
		}
		metrics.DevicePolls.WithLabelValues(metrics.ResultOK).Inc()
		state.logger.Debug("poller@waiting UpdateDevicesResponse")
		if msg.Devices != nil {
			evs := events.DeviceCollectionToUpdateEvents(msg.Devices)
			for _, ev := range evs {
				state.publish(ctx, ev)
			}
		}
		if !state.bridgeOnline {
			state.bridgeOnline = true
			state.publish(ctx, events.BridgeStateToUpdateEvent(true))
		}

		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("poller@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) publish(ctx actor.Context, ev domain.EntityUpdateEvent) {
	ctx.Send(state.mqttActor, domain.PublishEntityUpdateRequest{Event: ev})
}

func (state *PollerActor) updateTimeout() time.Duration {
	// a bulk update is one cloud call per device, leave headroom over the
	// vendor actor's own task timeout
	return time.Duration(state.config.VeSync.RequestTimeoutMillis)*time.Millisecond*5 + 2*time.Second
}
