package commands

import (
	"context"
	"time"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
)

// AdvanceOutcome tells the caller what a tick did.
type AdvanceOutcome int

const (
	// Moved means the robot took a step and has more to go.
	Moved AdvanceOutcome = iota + 1
	// ReachedDestination means the outbound route is done; arrival handling is next.
	ReachedDestination
	// ReachedDepot means the return route is done; return completion is next.
	ReachedDepot
	// Skipped means the robot is not following a route, e.g. it was stopped.
	Skipped
	// Stale means the tick belongs to a task the robot no longer carries.
	Stale
)

func (o AdvanceOutcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case ReachedDestination:
		return "reached_destination"
	case ReachedDepot:
		return "reached_depot"
	case Skipped:
		return "skipped"
	case Stale:
		return "stale"
	}
	return "unknown"
}

type AdvanceRobotResult struct {
	Outcome AdvanceOutcome
	// Step is the move made, zero when the robot did not move.
	Step robot.Step
	// OrderID is the order the robot carries after the tick, if any.
	OrderID *kernel.UUID
	Events  []events.Event
}

// AdvanceRobotCommandHandler performs one tick for one robot. It re-reads
// the robot on every call, so a robot that was stopped or switched to
// maintenance since the last tick is skipped without writing anything.
// A robot still Delivering reports ReachedDestination again, so arrival
// handling that failed earlier is retried on the next tick.
type AdvanceRobotCommandHandler struct {
	uowFactory UoWFactory
	locks      *RobotLocks
	now        func() time.Time
}

func NewAdvanceRobotCommandHandler(uowFactory UoWFactory, locks *RobotLocks, now func() time.Time) AdvanceRobotCommandHandler {
	return AdvanceRobotCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		now:        now,
	}
}

func (h AdvanceRobotCommandHandler) Handle(ctx context.Context, cmd AdvanceRobotCommand) (AdvanceRobotResult, error) {
	if err := cmd.Validate(); err != nil {
		return AdvanceRobotResult{}, err
	}

	unlock := h.locks.Lock(cmd.RobotID())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AdvanceRobotResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	robotRepo := uow.RobotRepository()
	orderRepo := uow.OrderRepository()

	r, err := robotRepo.Get(ctx, cmd.RobotID())
	if err != nil {
		return AdvanceRobotResult{}, err
	}
	if orderID, ok := cmd.OrderID(); ok && (r.OrderID() == nil || !r.OrderID().IsEqual(orderID)) {
		return AdvanceRobotResult{Outcome: Stale, OrderID: r.OrderID()}, nil
	}
	if r.Status() == robot.Delivering && r.OrderID() != nil {
		return AdvanceRobotResult{Outcome: ReachedDestination, OrderID: r.OrderID()}, nil
	}
	if !r.Status().IsMoving() || r.Route().IsEmpty() {
		return AdvanceRobotResult{Outcome: Skipped, OrderID: r.OrderID()}, nil
	}

	result := AdvanceRobotResult{OrderID: r.OrderID()}
	if !r.RouteExhausted() {
		step, err := r.Advance()
		if err != nil {
			return AdvanceRobotResult{}, err
		}

		var tableID string
		if r.Status() == robot.Navigating && r.OrderID() != nil {
			o, err := orderRepo.Get(ctx, *r.OrderID())
			if err != nil {
				return AdvanceRobotResult{}, err
			}
			tableID = o.Destination().TableID()
		}

		result.Step = step
		result.Events = append(result.Events,
			events.Position(r.ID(), step.To, step.Facing, step.Progress, tableID, h.now()))
	}

	result.Outcome = Moved
	if r.RouteExhausted() {
		switch r.Status() {
		case robot.Navigating:
			if err = r.MarkArrived(); err != nil {
				return AdvanceRobotResult{}, err
			}
			result.Outcome = ReachedDestination
		case robot.Returning:
			result.Outcome = ReachedDepot
		}
	}

	if err = robotRepo.Update(ctx, r); err != nil {
		return AdvanceRobotResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AdvanceRobotResult{}, err
	}

	return result, nil
}
