package robotrepo

import (
	"context"
	"errors"
	"fmt"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/ports"
	"robodelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.RobotRepository = (*GormRobotRepository)(nil)

// GormRobotRepository implements RobotRepository using GORM.
type GormRobotRepository struct {
	db *gorm.DB
}

// NewGormRobotRepository creates a repository on db, which may be a transaction.
func NewGormRobotRepository(db *gorm.DB) *GormRobotRepository {
	return &GormRobotRepository{db: db}
}

// Add inserts a new robot row.
func (r *GormRobotRepository) Add(ctx context.Context, aggregate *robot.Robot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes every column of the robot as long as the stored version is
// still the one the aggregate was loaded with, and bumps the version.
//
// Select("*") makes GORM write zero values too: a robot coming home clears
// its order and route, which a plain struct update would silently skip.
func (r *GormRobotRepository) Update(ctx context.Context, aggregate *robot.Robot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&RobotDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var stored RobotDTO
	err := r.db.WithContext(ctx).Select("version").Where("id = ?", dto.ID).Take(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("robot", aggregate.ID().String())
	}
	if err != nil {
		return err
	}
	return errs.NewVersionIsInvalidError(
		"robot",
		fmt.Errorf("robot %s stored version %d, expected %d", aggregate.ID(), stored.Version, aggregate.Version()),
	)
}

// Get loads a robot by id.
func (r *GormRobotRepository) Get(ctx context.Context, id kernel.UUID) (*robot.Robot, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RobotDTO
	if err := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("robot", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindIdle returns the idle, active robot with the lowest id whose battery
// is above minBattery.
func (r *GormRobotRepository) FindIdle(ctx context.Context, minBattery int) (*robot.Robot, error) {
	var dto RobotDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND active = ? AND battery > ?", robot.Idle.String(), true, minBattery).
		Order("id").
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("robot", "idle")
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll returns the whole fleet ordered by id.
func (r *GormRobotRepository) GetAll(ctx context.Context) ([]*robot.Robot, error) {
	var dtos []RobotDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// GetAllInStatus returns the robots in any of the given statuses, ordered by id.
func (r *GormRobotRepository) GetAllInStatus(ctx context.Context, statuses ...robot.Status) ([]*robot.Robot, error) {
	if len(statuses) == 0 {
		return []*robot.Robot{}, nil
	}

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}

	var dtos []RobotDTO
	if err := r.db.WithContext(ctx).Where("status IN ?", names).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func toDomainAll(dtos []RobotDTO) ([]*robot.Robot, error) {
	robots := make([]*robot.Robot, 0, len(dtos))
	for _, dto := range dtos {
		rb, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		robots = append(robots, rb)
	}
	return robots, nil
}
