package layoutrepo

import (
	"context"
	"errors"

	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/ports"
	"robodelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.LayoutRepository = (*GormLayoutRepository)(nil)

// GormLayoutRepository implements LayoutRepository using GORM.
type GormLayoutRepository struct {
	db *gorm.DB
}

func NewGormLayoutRepository(db *gorm.DB) *GormLayoutRepository {
	return &GormLayoutRepository{db: db}
}

// Get loads a layout by id.
func (r *GormLayoutRepository) Get(ctx context.Context, id string) (*layout.Layout, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("layout id")
	}

	var dto LayoutDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("layout", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save inserts the layout or replaces the stored one with the same id.
func (r *GormLayoutRepository) Save(ctx context.Context, l *layout.Layout) error {
	if l == nil {
		return errs.NewValueIsRequiredError("layout")
	}

	dto := fromDomain(l)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error
}
