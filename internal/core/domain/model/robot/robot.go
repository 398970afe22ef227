package robot

import (
	"errors"
	"fmt"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/pkg/errs"
	"robodelivery/internal/pkg/guard"
)

const (
	// MinBattery and MaxBattery bound the battery level in percent.
	MinBattery = 0
	MaxBattery = 100
)

// Domain errors for robot operations.
var (
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrRobotIsNotConstructed is returned when using a Robot not built by NewRobot or RestoreRobot.
	ErrRobotIsNotConstructed = errors.New("Robot must be created via NewRobot constructor")
	// ErrRobotIsBusy is returned when an operator action targets a robot on a task.
	ErrRobotIsBusy = errors.New("robot is on a delivery task")
	// ErrRobotIsNotMoving is returned by Advance when there is no route to follow.
	ErrRobotIsNotMoving = errors.New("robot is not following a route")
	// ErrRouteIsNotExhausted is returned when arrival is reported before the last waypoint.
	ErrRouteIsNotExhausted = errors.New("route is not exhausted")
)

// Step describes a single move made by Advance.
type Step struct {
	From   kernel.Position
	To     kernel.Position
	Facing kernel.Direction
	// Index is the 1-based number of the step just taken.
	Index int
	// Total is the number of steps in the route.
	Total int
	// Progress is Index/Total.
	Progress float64
	// Exhausted reports that To is the route's destination.
	Exhausted bool
}

// Robot is the aggregate root for one delivery robot of the fleet.
//
// A robot sits idle at the depot until it is given an order and a route.
// It then walks the route one waypoint per tick, hands the order over at
// the destination, walks back to the depot and becomes idle again.
//
// Business rules:
//   - A robot must have a valid UUID, a non-empty name and a battery level in [0,100]
//   - Only an idle, active robot can start a delivery
//   - A route must start where the robot stands
//   - Operator service modes can not be entered while the robot is on a task
//   - An emergency stop returns any robot on a task to idle on the spot
//
// Robot carries a version number that repositories use for optimistic
// concurrency. The aggregate never changes it.
type Robot struct {
	id       kernel.UUID
	name     string
	status   Status
	position kernel.Position
	facing   kernel.Direction

	// orderID is the order being delivered; nil unless on a task.
	orderID *kernel.UUID
	// route is the route being followed, cursor is the index of the current waypoint.
	route  route.Route
	cursor int

	battery    int
	active     bool
	deliveries int
	distance   float64
	version    int64

	guard guard.ConstructorGuard
}

// NewRobot provisions a robot standing idle at the given position, facing north.
//
// Example:
//
//	depot, _ := kernel.NewPosition(0, 0)
//	r, err := robot.NewRobot(kernel.NewUUID(), "R2", 100, depot)
//	if err != nil {
//	    return err
//	}
func NewRobot(id kernel.UUID, name string, battery int, position kernel.Position) (*Robot, error) {
	r := &Robot{
		status: Idle,
		facing: kernel.North,
		active: true,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setBattery(battery),
		r.setPosition(position),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// State is the persisted form of a Robot, used by RestoreRobot.
type State struct {
	ID         kernel.UUID
	Name       string
	Status     Status
	Position   kernel.Position
	Facing     kernel.Direction
	OrderID    *kernel.UUID
	Route      route.Route
	Cursor     int
	Battery    int
	Active     bool
	Deliveries int
	Distance   float64
	Version    int64
}

// RestoreRobot rebuilds a Robot from storage.
//
// Business rules:
//   - all NewRobot rules apply
//   - status and facing must be valid
//   - a robot following a route must have one, with the cursor inside it
//   - the delivery counter and distance can not be negative
func RestoreRobot(s State) (*Robot, error) {
	r := &Robot{
		active:     s.Active,
		deliveries: s.Deliveries,
		distance:   s.Distance,
		version:    s.Version,
		guard:      guard.NewConstructorGuard(),
	}

	var statsErr error
	if s.Deliveries < 0 || s.Distance < 0 {
		statsErr = errs.NewValueIsInvalidErrorWithCause(
			"stats are invalid",
			fmt.Errorf("deliveries %d, distance %f", s.Deliveries, s.Distance),
		)
	}

	if err := errors.Join(
		r.setID(s.ID),
		r.setName(s.Name),
		r.setBattery(s.Battery),
		r.setPosition(s.Position),
		r.setStatus(s.Status),
		r.setFacing(s.Facing),
		r.setTask(s.Status, s.OrderID, s.Route, s.Cursor),
		statsErr,
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks the robot was built through a constructor.
func (r *Robot) Validate() error {
	if r == nil {
		return ErrRobotIsNotConstructed
	}
	return r.guard.Validate(ErrRobotIsNotConstructed)
}

// IsEqual compares robots by identity.
func (r *Robot) IsEqual(other *Robot) bool {
	return other != nil && r.id.IsEqual(other.id)
}

func (r *Robot) ID() kernel.UUID           { return r.id }
func (r *Robot) Name() string              { return r.name }
func (r *Robot) Status() Status            { return r.status }
func (r *Robot) Position() kernel.Position { return r.position }
func (r *Robot) Facing() kernel.Direction  { return r.facing }
func (r *Robot) Battery() int              { return r.battery }
func (r *Robot) IsActive() bool            { return r.active }
func (r *Robot) Deliveries() int           { return r.deliveries }
func (r *Robot) Distance() float64         { return r.distance }
func (r *Robot) Version() int64            { return r.version }
func (r *Robot) Route() route.Route        { return r.route }
func (r *Robot) Cursor() int               { return r.cursor }

// OrderID returns the order being delivered, or nil.
func (r *Robot) OrderID() *kernel.UUID {
	if r.orderID == nil {
		return nil
	}
	id := *r.orderID
	return &id
}

// Progress returns the fraction of the current route already walked, in [0,1].
// A robot without a route reports 0.
func (r *Robot) Progress() float64 {
	if r.route.IsEmpty() {
		return 0
	}
	if r.route.Steps() == 0 {
		return 1
	}
	return float64(r.cursor) / float64(r.route.Steps())
}

// IsAvailable reports whether the robot can be given a new order: idle,
// active and with battery strictly above minBattery.
func (r *Robot) IsAvailable(minBattery int) bool {
	return r.status == Idle && r.active && r.battery > minBattery
}

// StartDelivery attaches an order and its outbound route and puts the robot
// in Navigating. The route must start at the robot's position.
func (r *Robot) StartDelivery(orderID kernel.UUID, outbound route.Route) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if r.status != Idle || !r.active {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("robot %s is %s, active=%t", r.id, r.status, r.active),
		)
	}
	if err := r.checkRouteStart(outbound); err != nil {
		return err
	}

	r.status = Navigating
	r.orderID = &orderID
	r.route = outbound
	r.cursor = 0
	return nil
}

// RouteExhausted reports whether the robot stands on the last waypoint of its route.
func (r *Robot) RouteExhausted() bool {
	return !r.route.IsEmpty() && r.cursor >= r.route.Steps()
}

// Advance moves the robot to the next waypoint of its route and turns it to
// face the direction of travel.
func (r *Robot) Advance() (Step, error) {
	if !r.status.IsMoving() || r.route.IsEmpty() || r.RouteExhausted() {
		return Step{}, ErrRobotIsNotMoving
	}

	from := r.position
	r.cursor++
	to := r.route.At(r.cursor)

	r.facing = kernel.DirectionBetween(from, to, r.facing)
	r.position = to
	r.distance += from.Euclidean(to)

	total := r.route.Steps()
	return Step{
		From:      from,
		To:        to,
		Facing:    r.facing,
		Index:     r.cursor,
		Total:     total,
		Progress:  float64(r.cursor) / float64(total),
		Exhausted: r.cursor == total,
	}, nil
}

// MarkArrived switches a navigating robot that reached its destination to Delivering.
func (r *Robot) MarkArrived() error {
	if r.status != Navigating {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to arrive", r.status),
		)
	}
	if !r.RouteExhausted() {
		return ErrRouteIsNotExhausted
	}
	r.status = Delivering
	return nil
}

// CompleteDelivery counts the hand-over of the current order. The robot
// stays in Delivering, holding the order reference, until StartReturn.
func (r *Robot) CompleteDelivery() error {
	if r.status != Delivering || r.orderID == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete a delivery", r.status),
		)
	}
	r.deliveries++
	return nil
}

// StartReturn attaches the route back to the depot and puts the robot in Returning.
func (r *Robot) StartReturn(back route.Route) error {
	if r.status != Delivering {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to return", r.status),
		)
	}
	if err := r.checkRouteStart(back); err != nil {
		return err
	}

	r.status = Returning
	r.route = back
	r.cursor = 0
	return nil
}

// CompleteReturn parks the robot at the depot and makes it idle, dropping
// the order reference and route.
func (r *Robot) CompleteReturn(depot kernel.Position) error {
	if r.status != Returning {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete a return", r.status),
		)
	}
	if !r.RouteExhausted() {
		return ErrRouteIsNotExhausted
	}
	if err := r.setPosition(depot); err != nil {
		return err
	}

	r.status = Idle
	r.clearTask()
	return nil
}

// EmergencyStop halts a robot on a task where it stands and makes it idle.
// It reports whether anything changed; robots that are idle, charging or in
// maintenance are left alone.
func (r *Robot) EmergencyStop() bool {
	if !r.status.IsOnTask() {
		return false
	}
	r.status = Idle
	r.clearTask()
	return true
}

// SetServiceMode applies an operator status: Idle, Charging or Maintenance.
func (r *Robot) SetServiceMode(mode Status) error {
	if !mode.IsServiceMode() {
		return errs.NewValueIsInvalidErrorWithCause(
			"service mode is invalid",
			fmt.Errorf("%s can not be set by an operator", mode),
		)
	}
	if r.status.IsOnTask() {
		return ErrRobotIsBusy
	}
	r.status = mode
	return nil
}

// Activate returns a deactivated robot to the pool of assignable robots.
func (r *Robot) Activate() {
	r.active = true
}

// Deactivate withdraws the robot from assignment. Robots are never deleted.
func (r *Robot) Deactivate() error {
	if r.status.IsOnTask() {
		return ErrRobotIsBusy
	}
	r.active = false
	return nil
}

// SetBattery records a new battery reading.
func (r *Robot) SetBattery(level int) error {
	return r.setBattery(level)
}

func (r *Robot) clearTask() {
	r.orderID = nil
	r.route = route.Route{}
	r.cursor = 0
}

func (r *Robot) checkRouteStart(rt route.Route) error {
	if rt.IsEmpty() {
		return route.ErrRouteIsEmpty
	}
	if !rt.Origin().Equal(r.position) {
		return errs.NewValueIsInvalidErrorWithCause(
			"route is invalid",
			fmt.Errorf("route starts at %s, robot stands at %s", rt.Origin(), r.position),
		)
	}
	return nil
}

func (r *Robot) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Robot) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	r.name = name
	return nil
}

func (r *Robot) setBattery(level int) error {
	if level < MinBattery || level > MaxBattery {
		return errs.NewValueIsOutOfRangeError("battery", level, MinBattery, MaxBattery)
	}
	r.battery = level
	return nil
}

func (r *Robot) setPosition(position kernel.Position) error {
	p, err := kernel.NewPosition(position.X, position.Y)
	if err != nil {
		return err
	}
	r.position = p
	return nil
}

func (r *Robot) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}

func (r *Robot) setFacing(facing kernel.Direction) error {
	if err := facing.Validate(); err != nil {
		return err
	}
	r.facing = facing
	return nil
}

// setTask checks that the persisted task fields agree with the status.
func (r *Robot) setTask(status Status, orderID *kernel.UUID, rt route.Route, cursor int) error {
	if status.IsMoving() && rt.IsEmpty() {
		return errs.NewValueIsRequiredErrorWithCause("route", fmt.Errorf("a %s robot must have a route", status))
	}
	if (status == Navigating || status == Delivering) && orderID == nil {
		return errs.NewValueIsRequiredErrorWithCause("order", fmt.Errorf("a %s robot must carry an order", status))
	}
	if cursor < 0 || cursor > rt.Steps() {
		return errs.NewValueIsOutOfRangeError("cursor", cursor, 0, rt.Steps())
	}

	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return err
		}
		id := *orderID
		r.orderID = &id
	}
	r.route = rt
	r.cursor = cursor
	return nil
}
