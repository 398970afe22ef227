// Package robotrepo persists robot aggregates in PostgreSQL. A robot lives in
// a single row; its planned route is stored as a JSON array of cells.
package robotrepo

import (
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RobotDTO is the row layout of the robots table.
type RobotDTO struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name       string        `gorm:"type:varchar(255);not null"`
	Status     string        `gorm:"type:varchar(32);not null;index"`
	Position   PositionDTO   `gorm:"embedded;embeddedPrefix:position_"`
	Facing     string        `gorm:"type:varchar(8);not null"`
	OrderID    *uuid.UUID    `gorm:"type:uuid;index"`
	Route      []PositionDTO `gorm:"type:jsonb;serializer:json"`
	Cursor     int           `gorm:"type:int;not null"`
	Battery    int           `gorm:"type:smallint;not null"`
	Active     bool          `gorm:"not null"`
	Deliveries int           `gorm:"type:int;not null"`
	Distance   float64       `gorm:"not null"`
	Version    int64         `gorm:"not null"`
}

// TableName overrides GORM's default "robot_dtos".
func (RobotDTO) TableName() string {
	return "robots"
}

// PositionDTO is a grid cell, embedded as columns or serialized inside routes.
type PositionDTO struct {
	X int `gorm:"type:int" json:"x"`
	Y int `gorm:"type:int" json:"y"`
}

func fromDomain(r *robot.Robot) RobotDTO {
	var orderID *uuid.UUID
	if id := r.OrderID(); id != nil {
		b := id.Bytes()
		orderID = &b
	}

	var points []PositionDTO
	if rt := r.Route(); !rt.IsEmpty() {
		points = make([]PositionDTO, 0, rt.Len())
		for _, p := range rt.Points() {
			points = append(points, PositionDTO{X: p.X, Y: p.Y})
		}
	}

	return RobotDTO{
		ID:         r.ID().Bytes(),
		Name:       r.Name(),
		Status:     r.Status().String(),
		Position:   PositionDTO{X: r.Position().X, Y: r.Position().Y},
		Facing:     r.Facing().String(),
		OrderID:    orderID,
		Route:      points,
		Cursor:     r.Cursor(),
		Battery:    r.Battery(),
		Active:     r.IsActive(),
		Deliveries: r.Deliveries(),
		Distance:   r.Distance(),
		Version:    r.Version(),
	}
}

func toDomain(dto RobotDTO) (*robot.Robot, error) {
	status, err := robot.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	facing, err := kernel.ParseDirection(dto.Facing)
	if err != nil {
		return nil, err
	}

	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	var rt route.Route
	if len(dto.Route) > 0 {
		points := make([]kernel.Position, 0, len(dto.Route))
		for _, p := range dto.Route {
			points = append(points, kernel.Position{X: p.X, Y: p.Y})
		}
		if rt, err = route.NewRoute(points); err != nil {
			return nil, err
		}
	}

	return robot.RestoreRobot(robot.State{
		ID:         id,
		Name:       dto.Name,
		Status:     status,
		Position:   kernel.Position{X: dto.Position.X, Y: dto.Position.Y},
		Facing:     facing,
		OrderID:    orderID,
		Route:      rt,
		Cursor:     dto.Cursor,
		Battery:    dto.Battery,
		Active:     dto.Active,
		Deliveries: dto.Deliveries,
		Distance:   dto.Distance,
		Version:    dto.Version,
	})
}
