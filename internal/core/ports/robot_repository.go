// Package ports defines the contracts between the fleet core and its
// infrastructure: repositories, the unit of work and the event sink.
package ports

import (
	"context"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
)

// RobotRepository defines the persistence contract for robot aggregates.
type RobotRepository interface {
	// Add persists a newly provisioned robot.
	Add(ctx context.Context, aggregate *robot.Robot) error

	// Update persists changes to an existing robot. The write only succeeds if
	// the stored version still equals aggregate.Version(); otherwise an
	// errs.VersionIsInvalidError is returned and nothing is written.
	Update(ctx context.Context, aggregate *robot.Robot) error

	// Get retrieves a robot by id, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*robot.Robot, error)

	// FindIdle returns the idle, active robot with the lowest id whose battery
	// is strictly above minBattery, or an errs.ObjectNotFoundError if none.
	FindIdle(ctx context.Context, minBattery int) (*robot.Robot, error)

	// GetAll returns every robot ordered by id.
	GetAll(ctx context.Context) ([]*robot.Robot, error)

	// GetAllInStatus returns the robots in any of the given statuses ordered by id.
	GetAllInStatus(ctx context.Context, statuses ...robot.Status) ([]*robot.Robot, error)
}
