// Package orderrepo persists the robot-delivery view of orders in PostgreSQL.
package orderrepo

import (
	"time"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row layout of the orders table. Exactly one of TableID and
// Address is set.
type OrderDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TableID     string     `gorm:"type:varchar(64)"`
	Address     string     `gorm:"type:text"`
	Status      string     `gorm:"type:varchar(32);not null;index"`
	RobotID     *uuid.UUID `gorm:"type:uuid;index"`
	DeliveredAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

// TableName overrides GORM's default "order_dtos".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	var robotID *uuid.UUID
	if id := o.Robot(); id != nil {
		b := id.Bytes()
		robotID = &b
	}

	return OrderDTO{
		ID:          o.ID().Bytes(),
		TableID:     o.Destination().TableID(),
		Address:     o.Destination().Address(),
		Status:      o.Status().String(),
		RobotID:     robotID,
		DeliveredAt: o.DeliveredAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var robotID *kernel.UUID
	if dto.RobotID != nil {
		rID, robotErr := kernel.UUIDFromBytes((*dto.RobotID)[:])
		if robotErr != nil {
			return nil, robotErr
		}
		robotID = &rID
	}

	dest, err := order.NewDestination(dto.TableID, dto.Address)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, dest, status, robotID, dto.DeliveredAt)
}
