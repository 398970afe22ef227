package services

import (
	"errors"

	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/pkg/errs"
)

// ErrRobotNotAvailable is returned when the chosen robot can not take an order.
var ErrRobotNotAvailable = errors.New("robot is not available")

// FleetDispatcher hands a ready order to a robot.
//
// Business rules:
//   - Both aggregates must be valid
//   - The order must be Ready with an empty robot slot
//   - The robot must be available and the route must start where it stands
//   - Either both aggregates change or neither does
//
// Example usage:
//
//	dispatcher := services.NewFleetDispatcher(20)
//	if err := dispatcher.Dispatch(o, r, outbound); err != nil {
//	    return err
//	}
//	// r is Navigating, o is RobotDelivering
type FleetDispatcher struct {
	minBattery int
}

// NewFleetDispatcher creates a dispatcher that only uses robots whose battery
// is strictly above minBattery.
func NewFleetDispatcher(minBattery int) FleetDispatcher {
	return FleetDispatcher{minBattery: minBattery}
}

// MinBattery returns the battery threshold.
func (d FleetDispatcher) MinBattery() int {
	return d.minBattery
}

// Dispatch attaches the outbound route and order to the robot and the robot
// to the order. All preconditions are checked before anything is mutated.
func (d FleetDispatcher) Dispatch(o *order.Order, r *robot.Robot, outbound route.Route) error {
	if err := errors.Join(o.Validate(), r.Validate()); err != nil {
		return err
	}

	if o.Robot() != nil {
		return order.ErrRobotAlreadyAssigned
	}
	if _, err := o.Status().AssignRobot(); err != nil {
		return err
	}

	if !r.IsAvailable(d.minBattery) {
		return ErrRobotNotAvailable
	}
	if outbound.IsEmpty() {
		return route.ErrRouteIsEmpty
	}
	if !outbound.Origin().Equal(r.Position()) {
		return errs.NewValueIsInvalidError("route must start at the robot position")
	}

	if err := r.StartDelivery(o.ID(), outbound); err != nil {
		return err
	}
	return o.AssignRobot(r.ID())
}
