package commands

import (
	"context"
	"errors"
	"time"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/pkg/errs"
)

// stopAttempts bounds retries when a robot changed under the stop.
const stopAttempts = 5

type EmergencyStopResult struct {
	Stopped []kernel.UUID
	Events  []events.Event
}

// EmergencyStopCommandHandler returns every navigating, delivering or
// returning robot to idle where it stands and clears its route and order
// reference. Orders are left as they are for operators to resolve.
// Idle, charging and maintenance robots are not touched.
type EmergencyStopCommandHandler struct {
	uowFactory RobotUoWFactory
	locks      *RobotLocks
	now        func() time.Time
}

func NewEmergencyStopCommandHandler(uowFactory RobotUoWFactory, locks *RobotLocks, now func() time.Time) EmergencyStopCommandHandler {
	return EmergencyStopCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		now:        now,
	}
}

// Handle always emits exactly one fleet-wide event, even if no robot was moving.
func (h EmergencyStopCommandHandler) Handle(ctx context.Context, cmd EmergencyStopCommand) (EmergencyStopResult, error) {
	if err := cmd.Validate(); err != nil {
		return EmergencyStopResult{}, err
	}

	var (
		stopped []kernel.UUID
		err     error
	)
	for range stopAttempts {
		stopped, err = h.stop(ctx)
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			break
		}
	}
	if err != nil {
		return EmergencyStopResult{}, err
	}

	return EmergencyStopResult{
		Stopped: stopped,
		Events:  []events.Event{events.EmergencyStop(stopped, h.now())},
	}, nil
}

func (h EmergencyStopCommandHandler) stop(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	robotRepo := uow.RobotRepository()

	onTask, err := robotRepo.GetAllInStatus(ctx, robot.Navigating, robot.Delivering, robot.Returning)
	if err != nil {
		return nil, err
	}

	// Repositories return robots ordered by id, so locks are always taken in
	// the same order.
	stopped := make([]kernel.UUID, 0, len(onTask))
	for _, listed := range onTask {
		unlock := h.locks.Lock(listed.ID())
		defer unlock()

		r, err := robotRepo.Get(ctx, listed.ID())
		if err != nil {
			return nil, err
		}
		if !r.EmergencyStop() {
			continue
		}
		if err = robotRepo.Update(ctx, r); err != nil {
			return nil, err
		}
		stopped = append(stopped, r.ID())
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return stopped, nil
}
