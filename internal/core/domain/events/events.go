// Package events defines the notifications the fleet publishes and the
// audiences (topics) each one is addressed to.
package events

import (
	"time"

	"robodelivery/internal/core/domain/model/kernel"
)

// Name identifies the kind of an event on the wire.
type Name string

const (
	RobotAssigned      Name = "robot.assigned"
	RobotPosition      Name = "robot.position"
	RobotDelivered     Name = "robot.delivered"
	RobotIdle          Name = "robot.idle"
	RobotEmergencyStop Name = "robot.emergency_stop"
	// RobotRouteFailed reports a robot stranded because no route back to the depot exists.
	RobotRouteFailed Name = "robot.route_failed"
)

// Audiences.
const (
	TopicKitchen = "kitchen"
	TopicFleet   = "fleet"
	tablePrefix  = "table."
)

// TableTopic returns the topic of one table's guests.
func TableTopic(tableID string) string {
	return tablePrefix + tableID
}

// Event is a single fleet notification. Fields that do not apply to a given
// Name are left empty.
type Event struct {
	Name       Name              `json:"event"`
	OccurredAt time.Time         `json:"occurredAt"`
	RobotID    string            `json:"robotId,omitempty"`
	OrderID    string            `json:"orderId,omitempty"`
	Route      []kernel.Position `json:"route,omitempty"`
	Position   *kernel.Position  `json:"position,omitempty"`
	Facing     string            `json:"facing,omitempty"`
	Progress   *float64          `json:"progress,omitempty"`
	TableID    string            `json:"tableId,omitempty"`
	Address    string            `json:"address,omitempty"`
	RobotIDs   []string          `json:"robotIds,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// Key groups events that must stay in order, the emitting robot's id.
// Fleet-wide events share the empty key.
func (e Event) Key() string {
	return e.RobotID
}

// Topics lists the audiences an event is published to.
//
//	assigned        kitchen, fleet
//	position        fleet, table (outbound only)
//	delivered       kitchen, table
//	idle            fleet
//	emergency_stop  fleet
//	route_failed    kitchen, fleet
func (e Event) Topics() []string {
	switch e.Name {
	case RobotAssigned, RobotRouteFailed:
		return []string{TopicKitchen, TopicFleet}
	case RobotPosition:
		if e.TableID != "" {
			return []string{TopicFleet, TableTopic(e.TableID)}
		}
		return []string{TopicFleet}
	case RobotDelivered:
		if e.TableID != "" {
			return []string{TopicKitchen, TableTopic(e.TableID)}
		}
		return []string{TopicKitchen}
	case RobotIdle, RobotEmergencyStop:
		return []string{TopicFleet}
	}
	return nil
}

// Assigned is emitted once a robot has been given an order and route.
func Assigned(robotID, orderID kernel.UUID, route []kernel.Position, at time.Time) Event {
	return Event{
		Name:       RobotAssigned,
		OccurredAt: at,
		RobotID:    robotID.String(),
		OrderID:    orderID.String(),
		Route:      route,
	}
}

// Position is emitted after every step. tableID is empty on the way back.
func Position(
	robotID kernel.UUID,
	pos kernel.Position,
	facing kernel.Direction,
	progress float64,
	tableID string,
	at time.Time,
) Event {
	return Event{
		Name:       RobotPosition,
		OccurredAt: at,
		RobotID:    robotID.String(),
		Position:   &pos,
		Facing:     facing.String(),
		Progress:   &progress,
		TableID:    tableID,
	}
}

// Delivered is emitted when the order is handed over.
func Delivered(robotID, orderID kernel.UUID, tableID, address string, at time.Time) Event {
	return Event{
		Name:       RobotDelivered,
		OccurredAt: at,
		RobotID:    robotID.String(),
		OrderID:    orderID.String(),
		TableID:    tableID,
		Address:    address,
	}
}

// Idle is emitted when a robot is parked back at the depot.
func Idle(robotID kernel.UUID, at time.Time) Event {
	return Event{
		Name:       RobotIdle,
		OccurredAt: at,
		RobotID:    robotID.String(),
	}
}

// EmergencyStop is the single fleet-wide event of an emergency stop.
func EmergencyStop(stopped []kernel.UUID, at time.Time) Event {
	ids := make([]string, 0, len(stopped))
	for _, id := range stopped {
		ids = append(ids, id.String())
	}
	return Event{
		Name:       RobotEmergencyStop,
		OccurredAt: at,
		RobotIDs:   ids,
	}
}

// RouteFailed is emitted when a robot can not be routed back to the depot.
func RouteFailed(robotID, orderID kernel.UUID, pos kernel.Position, at time.Time) Event {
	return Event{
		Name:       RobotRouteFailed,
		OccurredAt: at,
		RobotID:    robotID.String(),
		OrderID:    orderID.String(),
		Position:   &pos,
		Reason:     "no route to depot",
	}
}
