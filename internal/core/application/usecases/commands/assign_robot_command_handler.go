package commands

import (
	"context"
	"errors"
	"sync"
	"time"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/core/domain/services"
	"robodelivery/internal/pkg/errs"
)

// assignAttempts bounds retries after another writer changed the chosen robot.
const assignAttempts = 3

// AssignOutcome is the result of an assignment attempt. Only Assigned
// changes state; the others are normal outcomes, not errors.
type AssignOutcome int

const (
	Assigned AssignOutcome = iota + 1
	NoAvailableRobot
	RouteNotFound
	OrderAlreadyAssigned
	OrderNotReady
)

func (o AssignOutcome) String() string {
	switch o {
	case Assigned:
		return "assigned"
	case NoAvailableRobot:
		return "no_available_robot"
	case RouteNotFound:
		return "route_not_found"
	case OrderAlreadyAssigned:
		return "order_already_assigned"
	case OrderNotReady:
		return "order_not_ready"
	}
	return "unknown"
}

// AssignRobotResult describes an assignment. RobotID and Route are set only
// when Outcome is Assigned.
type AssignRobotResult struct {
	Outcome AssignOutcome
	RobotID kernel.UUID
	Route   route.Route
	Events  []events.Event
}

// AssignRobotCommandHandler picks an idle robot for a ready order, plans the
// route from the robot to the order's table and commits both aggregates in
// one unit of work.
//
// Concurrent Handle calls are serialised, so two orders can never be given
// the same robot by this process. Writers in other processes are caught by
// the robot version check and the selection is retried.
type AssignRobotCommandHandler struct {
	uowFactory UoWFactory
	floor      *layout.Layout
	planner    RoutePlanner
	dispatcher services.FleetDispatcher
	now        func() time.Time

	mu *sync.Mutex
}

func NewAssignRobotCommandHandler(
	uowFactory UoWFactory,
	floor *layout.Layout,
	planner RoutePlanner,
	dispatcher services.FleetDispatcher,
	now func() time.Time,
) AssignRobotCommandHandler {
	return AssignRobotCommandHandler{
		uowFactory: uowFactory,
		floor:      floor,
		planner:    planner,
		dispatcher: dispatcher,
		now:        now,
		mu:         &sync.Mutex{},
	}
}

// Handle runs the assignment. Missing orders and unknown tables surface as
// errors; a busy fleet, an unreachable table or an order that was already
// taken are reported through the result.
func (h AssignRobotCommandHandler) Handle(ctx context.Context, cmd AssignRobotCommand) (AssignRobotResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignRobotResult{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	for range assignAttempts {
		var result AssignRobotResult
		result, err = h.assign(ctx, cmd.OrderID())
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			continue
		}
		return result, err
	}
	return AssignRobotResult{}, err
}

func (h AssignRobotCommandHandler) assign(ctx context.Context, orderID kernel.UUID) (AssignRobotResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignRobotResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	robotRepo := uow.RobotRepository()
	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return AssignRobotResult{}, err
	}
	if o.Robot() != nil {
		return AssignRobotResult{Outcome: OrderAlreadyAssigned}, nil
	}
	if o.Status() != order.Ready {
		return AssignRobotResult{Outcome: OrderNotReady}, nil
	}

	target, err := h.floor.DestinationPosition(o.Destination())
	if errors.Is(err, layout.ErrAddressNotOnFloor) {
		return AssignRobotResult{Outcome: RouteNotFound}, nil
	}
	if err != nil {
		return AssignRobotResult{}, err
	}

	r, err := robotRepo.FindIdle(ctx, h.dispatcher.MinBattery())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return AssignRobotResult{Outcome: NoAvailableRobot}, nil
	}
	if err != nil {
		return AssignRobotResult{}, err
	}

	outbound, ok := h.planner.Plan(r.Position(), target)
	if !ok {
		return AssignRobotResult{Outcome: RouteNotFound}, nil
	}

	if err = h.dispatcher.Dispatch(o, r, outbound); err != nil {
		return AssignRobotResult{}, err
	}

	if err = robotRepo.Update(ctx, r); err != nil {
		return AssignRobotResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return AssignRobotResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignRobotResult{}, err
	}

	return AssignRobotResult{
		Outcome: Assigned,
		RobotID: r.ID(),
		Route:   outbound,
		Events:  []events.Event{events.Assigned(r.ID(), o.ID(), outbound.Points(), h.now())},
	}, nil
}
