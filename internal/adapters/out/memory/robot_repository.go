package memory

import (
	"context"
	"slices"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/pkg/errs"
)

// RobotRepository is bound to one unit of work.
type RobotRepository struct {
	uow *UnitOfWork
}

func (r *RobotRepository) Add(_ context.Context, aggregate *robot.Robot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.stageRobot(robotWrite{state: snapshotRobot(aggregate), isNew: true})
}

func (r *RobotRepository) Update(_ context.Context, aggregate *robot.Robot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.uow.pendingRobot(aggregate.ID()); !ok {
		return errs.NewObjectNotFoundError("robot", aggregate.ID().String())
	}
	return r.uow.stageRobot(robotWrite{state: snapshotRobot(aggregate), expected: aggregate.Version()})
}

func (r *RobotRepository) Get(_ context.Context, id kernel.UUID) (*robot.Robot, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	st, ok := r.uow.pendingRobot(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("robot", id.String())
	}
	return robot.RestoreRobot(st)
}

func (r *RobotRepository) FindIdle(ctx context.Context, minBattery int) (*robot.Robot, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rb := range all {
		if rb.IsAvailable(minBattery) {
			return rb, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("robot", "idle")
}

func (r *RobotRepository) GetAll(_ context.Context) ([]*robot.Robot, error) {
	ids := r.uow.robotIDs()
	slices.SortFunc(ids, kernel.UUID.Compare)
	ids = slices.Compact(ids)

	robots := make([]*robot.Robot, 0, len(ids))
	for _, id := range ids {
		st, ok := r.uow.pendingRobot(id)
		if !ok {
			continue
		}
		rb, err := robot.RestoreRobot(st)
		if err != nil {
			return nil, err
		}
		robots = append(robots, rb)
	}
	return robots, nil
}

func (r *RobotRepository) GetAllInStatus(ctx context.Context, statuses ...robot.Status) ([]*robot.Robot, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(rb *robot.Robot) bool {
		return !slices.Contains(statuses, rb.Status())
	}), nil
}
