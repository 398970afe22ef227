package robot

import (
	"fmt"

	"robodelivery/internal/pkg/errs"
)

// Status is the robot's position in its task lifecycle.
//
// State transitions driven by the fleet:
//
//	Idle ──> Navigating ──> Delivering ──> Returning ──> Idle
//	              │              │              │
//	              └──────────────┴──────────────┴──> Idle   (emergency stop)
//
// Charging and Maintenance are entered and left only through operator action.
// Delivering is the arrived state: the outbound route is exhausted and the
// order is being handed over. A robot also stays in Delivering when no route
// back to the depot could be found, until an operator or a retry moves it.
type Status int

const (
	// Unknown catches uninitialised values.
	Unknown Status = iota
	Idle
	Navigating
	Delivering
	Returning
	Charging
	Maintenance
)

var statusStrings = map[Status]string{
	Idle:        "idle",
	Navigating:  "navigating",
	Delivering:  "delivering",
	Returning:   "returning",
	Charging:    "charging",
	Maintenance: "maintenance",
}

// String returns the lower-case wire name of the status.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that s is one of the defined statuses.
func (s Status) Validate() error {
	if _, ok := statusStrings[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsOnTask reports whether the robot is in the middle of a delivery task.
// Only these statuses are affected by an emergency stop.
func (s Status) IsOnTask() bool {
	return s == Navigating || s == Delivering || s == Returning
}

// IsMoving reports whether the robot is following a route.
func (s Status) IsMoving() bool {
	return s == Navigating || s == Returning
}

// IsServiceMode reports whether s may be requested by an operator.
func (s Status) IsServiceMode() bool {
	return s == Idle || s == Charging || s == Maintenance
}

// ParseStatus converts the wire name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range statusStrings {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}
