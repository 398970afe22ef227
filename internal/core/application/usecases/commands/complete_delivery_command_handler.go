package commands

import (
	"context"
	"time"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/domain/model/route"
)

type CompleteDeliveryOutcome int

const (
	// ReturnStarted means the order is delivered and the robot heads home.
	ReturnStarted CompleteDeliveryOutcome = iota + 1
	// Stranded means the order is delivered but no route to the depot
	// exists; the robot stays in Delivering where it stands.
	Stranded
	// NotArrived means the robot is not waiting at a destination.
	NotArrived
)

func (o CompleteDeliveryOutcome) String() string {
	switch o {
	case ReturnStarted:
		return "return_started"
	case Stranded:
		return "stranded"
	case NotArrived:
		return "not_arrived"
	}
	return "unknown"
}

type CompleteDeliveryResult struct {
	Outcome     CompleteDeliveryOutcome
	OrderID     kernel.UUID
	ReturnRoute route.Route
	Events      []events.Event
}

// ReturnRouteFound reports whether the robot could be routed back to the depot.
func (r CompleteDeliveryResult) ReturnRouteFound() bool {
	return r.Outcome == ReturnStarted
}

// CompleteDeliveryCommandHandler marks the order delivered, counts the
// delivery on the robot and attaches the return route.
//
// Running it again for a stranded robot retries only the return routing;
// an order that is already delivered is not touched a second time.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	locks      *RobotLocks
	floor      *layout.Layout
	planner    RoutePlanner
	now        func() time.Time
}

func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	locks *RobotLocks,
	floor *layout.Layout,
	planner RoutePlanner,
	now func() time.Time,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		floor:      floor,
		planner:    planner,
		now:        now,
	}
}

func (h CompleteDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd CompleteDeliveryCommand,
) (CompleteDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return CompleteDeliveryResult{}, err
	}

	unlock := h.locks.Lock(cmd.RobotID())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CompleteDeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	robotRepo := uow.RobotRepository()
	orderRepo := uow.OrderRepository()

	r, err := robotRepo.Get(ctx, cmd.RobotID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}
	if r.Status() != robot.Delivering || r.OrderID() == nil {
		return CompleteDeliveryResult{Outcome: NotArrived}, nil
	}

	o, err := orderRepo.Get(ctx, *r.OrderID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}

	now := h.now()
	result := CompleteDeliveryResult{OrderID: o.ID()}

	if o.Status() == order.RobotDelivering {
		if err = o.MarkDelivered(now); err != nil {
			return CompleteDeliveryResult{}, err
		}
		if err = r.CompleteDelivery(); err != nil {
			return CompleteDeliveryResult{}, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return CompleteDeliveryResult{}, err
		}
		dest := o.Destination()
		result.Events = append(result.Events,
			events.Delivered(r.ID(), o.ID(), dest.TableID(), dest.Address(), now))
	}

	back, ok := h.planner.Plan(r.Position(), h.floor.Depot())
	if ok {
		if err = r.StartReturn(back); err != nil {
			return CompleteDeliveryResult{}, err
		}
		result.Outcome = ReturnStarted
		result.ReturnRoute = back
	} else {
		result.Outcome = Stranded
		result.Events = append(result.Events, events.RouteFailed(r.ID(), o.ID(), r.Position(), now))
	}

	if err = robotRepo.Update(ctx, r); err != nil {
		return CompleteDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CompleteDeliveryResult{}, err
	}

	return result, nil
}
