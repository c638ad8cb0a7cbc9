package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/internal/metrics"
	"github.com/dawidkulpa/vesync2mqtt/internal/util/actorutil"
	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// VeSyncActor owns all cloud I/O. Every request runs as a background task
// so the actor never blocks, and inbound messages are stashed until the
// running call finishes.
type VeSyncActor struct {
	behavior       actor.Behavior
	stash          *actorutil.Stash
	manager        vesync.Manager
	registry       *domain.CommandRegistry
	requestTimeout time.Duration
	logger         *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewVeSyncActor(manager vesync.Manager, requestTimeout time.Duration, logger *zap.Logger) *VeSyncActor {
	act := &VeSyncActor{
		manager:        manager,
		requestTimeout: requestTimeout,
		behavior:       actor.NewBehavior(),
		stash:          &actorutil.Stash{},
		logger:         actorutil.ActorLogger(domain.ACTOR_ID_VESYNC, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *VeSyncActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *VeSyncActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("vesync@starting started")
		if err := state.login(); err != nil {
			panic(err)
		}
		if err := state.initialScan(); err != nil {
			panic(err)
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("vesync@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *VeSyncActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("vesync@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_VESYNC,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDevicesRequest:
		state.logger.Debug("vesync@default: GetDevicesRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		ctx.Send(sender, domain.GetDevicesResponse{
			Devices: state.manager.Devices(),
		})
	case domain.RegisterCommandsRequest:
		state.logger.Debug("vesync@default: RegisterCommandsRequest",
			zap.Int("commands", msg.Registry.Len()))
		state.registry = msg.Registry
	case domain.UpdateDevicesRequest:
		state.logger.Debug("vesync@default: UpdateDevicesRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.updateDevices),
			mapTaskResult[domain.UpdateDevicesResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.UpdateDevicesResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout()).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingVeSync)
	case domain.RescanDevicesRequest:
		state.logger.Debug("vesync@default: RescanDevicesRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.rescanDevices),
			mapTaskResult[domain.RescanDevicesResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.RescanDevicesResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout()).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingVeSync)
	case domain.DeviceCommandRequest:
		state.logger.Debug("vesync@default: DeviceCommandRequest",
			zap.String("key", msg.Key.String()))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		key := msg.Key
		payload := msg.Payload
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.DeviceCommandResponse, error) {
			return state.deviceCommand(key, payload)
		}),
			mapTaskResult[domain.DeviceCommandResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.DeviceCommandResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Key: key,
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout()).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingVeSync)
	default:
		state.logger.Debug("vesync@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *VeSyncActor) WaitingVeSync(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("vesync@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("vesync@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *VeSyncActor) taskTimeout() time.Duration {
	// device updates are several sequential cloud calls
	return state.requestTimeout*4 + time.Second
}

func (state *VeSyncActor) login() error {
	reqCtx, cancel := context.WithTimeout(context.Background(), state.requestTimeout)
	defer cancel()
	return state.manager.Login(reqCtx)
}

func (state *VeSyncActor) initialScan() error {
	reqCtx, cancel := context.WithTimeout(context.Background(), state.taskTimeout())
	defer cancel()
	if err := state.manager.Rescan(reqCtx); err != nil {
		return err
	}
	return state.manager.Update(reqCtx)
}

func (state *VeSyncActor) updateDevices() (*domain.UpdateDevicesResponse, error) {
	reqCtx, cancel := context.WithTimeout(context.Background(), state.taskTimeout())
	defer cancel()
	if err := state.manager.Update(reqCtx); err != nil {
		state.logger.Error("device update failed", zap.Error(err))
		return nil, err
	}
	return &domain.UpdateDevicesResponse{
		Devices: state.manager.Devices(),
	}, nil
}

func (state *VeSyncActor) rescanDevices() (*domain.RescanDevicesResponse, error) {
	reqCtx, cancel := context.WithTimeout(context.Background(), state.taskTimeout())
	defer cancel()
	if err := state.manager.Rescan(reqCtx); err != nil {
		state.logger.Error("device rescan failed", zap.Error(err))
		return nil, err
	}
	if err := state.manager.Update(reqCtx); err != nil {
		state.logger.Error("device update failed", zap.Error(err))
		return nil, err
	}
	return &domain.RescanDevicesResponse{
		Devices: state.manager.Devices(),
	}, nil
}

func (state *VeSyncActor) deviceCommand(key domain.CommandKey, payload string) (*domain.DeviceCommandResponse, error) {
	if state.registry == nil {
		return nil, fmt.Errorf("no command registry, discovery has not run yet")
	}
	handler, ok := state.registry.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("no handler for command %s", key)
	}
	reqCtx, cancel := context.WithTimeout(context.Background(), state.requestTimeout)
	defer cancel()
	if err := handler(reqCtx, payload); err != nil {
		metrics.DeviceCommands.WithLabelValues(metrics.ResultError).Inc()
		state.logger.Warn("device command failed", zap.String("key", key.String()), zap.Error(err))
		return nil, err
	}
	metrics.DeviceCommands.WithLabelValues(metrics.ResultOK).Inc()
	return &domain.DeviceCommandResponse{
		Key: key,
	}, nil
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
