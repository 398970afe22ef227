package order

import (
	"errors"
	"fmt"
	"time"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrRobotAlreadyAssigned is returned when the robot assignment slot is taken.
	ErrRobotAlreadyAssigned = errors.New("order already has a robot assigned")
)

// Order is the robot-delivery slice of a restaurant order. The order itself
// belongs to the order-management service; the fleet only reads its
// destination and writes the robot assignment slot, the status and the
// delivery timestamp.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a destination
//   - A robot is assigned exactly while the order is RobotDelivering, and
//     stays recorded once it is Delivered
//   - Status transitions follow the rules of Status
//   - A delivered order carries its delivery time
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// destination is the table or address the order goes to
	destination Destination

	// robotID is the robot carrying the order (nil if none)
	robotID *kernel.UUID

	// status represents the current state in the order lifecycle
	status Status

	// deliveredAt is set when the robot hands the order over
	deliveredAt *time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in the Created status.
//
// Example:
//
//	dest, _ := order.TableDestination("T4")
//	o, err := order.NewOrder(kernel.NewUUID(), dest)
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID, destination Destination) (*Order, error) {
	order := &Order{
		status:        Created,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setDestination(destination),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder rebuilds an Order from storage.
//
// Business Rules:
//   - all NewOrder rules apply
//   - status must be valid and consistent with the robot slot
//   - a Delivered order must carry its delivery time
func RestoreOrder(
	id kernel.UUID,
	destination Destination,
	status Status,
	robotID *kernel.UUID,
	deliveredAt *time.Time,
) (*Order, error) {
	order := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setDestination(destination),
		order.setStatus(status, robotID),
		order.setDeliveredAt(status, deliveredAt),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Destination returns the table or address the order goes to.
func (o *Order) Destination() Destination {
	return o.destination
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Robot returns the assigned robot's ID, or nil.
func (o *Order) Robot() *kernel.UUID {
	if o.robotID == nil {
		return nil
	}
	id := *o.robotID
	return &id
}

// DeliveredAt returns the delivery time, or nil if the order is not delivered.
func (o *Order) DeliveredAt() *time.Time {
	if o.deliveredAt == nil {
		return nil
	}
	at := *o.deliveredAt
	return &at
}

// MarkReady records that the kitchen finished the order.
func (o *Order) MarkReady() error {
	newStatus, err := o.status.MarkReady()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// AssignRobot fills the robot slot and moves the order to RobotDelivering.
//
// This method enforces the following business rules:
//   - The robot ID must be valid
//   - The robot slot must be empty
//   - The order must be Ready
//
// Example:
//
//	if err := o.AssignRobot(robotID); err != nil {
//	    // order was not ready or already taken
//	}
func (o *Order) AssignRobot(robotID kernel.UUID) error {
	if err := robotID.Validate(); err != nil {
		return err
	}
	if o.robotID != nil {
		return ErrRobotAlreadyAssigned
	}

	newStatus, err := o.status.AssignRobot()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.robotID = &robotID
	return nil
}

// MarkDelivered closes a robot delivery at the given time.
func (o *Order) MarkDelivered(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("delivered at")
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	at = at.UTC()
	o.status = newStatus
	o.deliveredAt = &at
	return nil
}

// Cancel cancels an order that no robot has taken yet.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDestination(destination Destination) error {
	if destination == (Destination{}) {
		return ErrDestinationIsRequired
	}
	o.destination = destination
	return nil
}

func (o *Order) setStatus(status Status, robotID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveRobot(robotID != nil); err != nil {
		return err
	}
	if robotID != nil {
		if err := robotID.Validate(); err != nil {
			return err
		}
		id := *robotID
		o.robotID = &id
	}
	o.status = status
	return nil
}

func (o *Order) setDeliveredAt(status Status, deliveredAt *time.Time) error {
	if status == Delivered && deliveredAt == nil {
		return errs.NewValueIsRequiredErrorWithCause("delivered at", fmt.Errorf("%s order must have a delivery time", status))
	}
	if deliveredAt != nil {
		at := deliveredAt.UTC()
		o.deliveredAt = &at
	}
	return nil
}
