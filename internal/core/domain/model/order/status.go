package order

import (
	"fmt"

	"robodelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order as far as robot delivery
// is concerned. Transitions before Ready and cancellation are owned by the
// order-management service; the fleet only moves an order from Ready to
// RobotDelivering and from there to Delivered.
//
// State transitions:
//
//	Created ──> Ready ──> RobotDelivering ──> Delivered
//	   │          │
//	   └──────────┴──> Cancelled
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status; the kitchen has not finished the order.
	Created

	// Ready means the order waits at the pass for a robot.
	Ready

	// RobotDelivering means a robot has been assigned and is on its way.
	RobotDelivering

	// Delivered is final: the robot handed the order over.
	Delivered

	// Cancelled is final.
	Cancelled
)

// getStatusStrings returns a map of valid Status values to their wire names.
func getStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:         "created",
		Ready:           "ready",
		RobotDelivering: "robot_delivering",
		Delivered:       "delivered",
		Cancelled:       "cancelled",
	}
}

// Validate checks if the Status value is valid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ParseStatus converts a wire name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// ValidateCanHaveRobot checks the consistency between status and robot assignment.
//
// Business Rules:
//   - Created, Ready and Cancelled orders must not have a robot
//   - RobotDelivering orders must have a robot
//   - Delivered orders may have one (orders delivered by couriers have none)
func (s Status) ValidateCanHaveRobot(robot bool) error {
	if robot && s != RobotDelivering && s != Delivered {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a robot", s),
		)
	}

	if !robot && s == RobotDelivering {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no robot", s),
		)
	}

	return nil
}

// MarkReady transitions Created -> Ready.
func (s Status) MarkReady() (Status, error) {
	if s != Created {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to mark ready", s),
		)
	}
	return Ready, nil
}

// AssignRobot transitions Ready -> RobotDelivering.
//
// Invalid transitions:
//   - Created -> RobotDelivering (kitchen is not done)
//   - RobotDelivering -> RobotDelivering (already assigned)
//   - Delivered, Cancelled -> RobotDelivering (final states)
func (s Status) AssignRobot() (Status, error) {
	if s != Ready {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign a robot", s),
		)
	}
	return RobotDelivering, nil
}

// Deliver transitions RobotDelivering -> Delivered.
func (s Status) Deliver() (Status, error) {
	if s != RobotDelivering {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s),
		)
	}
	return Delivered, nil
}

// Cancel transitions Created or Ready -> Cancelled.
func (s Status) Cancel() (Status, error) {
	if s != Created && s != Ready {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s),
		)
	}
	return Cancelled, nil
}
