// Package postgres provides the GORM-based Unit of Work over the robot and
// order tables.
//
// Repositories handed out after Begin run inside the transaction; before
// Begin (or after Commit/Rollback) they run straight on the connection,
// which is how the read-only query handlers use them.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.RobotRepository().Update(ctx, rb); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Robot updates are optimistic: Update fails with a VersionIsInvalidError
// when another unit of work changed the row first, and the caller retries.
package postgres

import (
	"context"

	"robodelivery/internal/adapters/out/postgres/layoutrepo"
	"robodelivery/internal/adapters/out/postgres/orderrepo"
	"robodelivery/internal/adapters/out/postgres/robotrepo"
	"robodelivery/internal/core/ports"

	"gorm.io/gorm"
)

var _ ports.UnitOfWorkFactory = (*GormUnitOfWorkFactory)(nil)

// Migrate creates or alters the robots, orders and layouts tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&robotrepo.RobotDTO{}, &orderrepo.OrderDTO{}, &layoutrepo.LayoutDTO{})
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work. Instances must not be shared
// between goroutines.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// Layouts returns a layout repository on the pool. Layouts are written
// once at startup and never take part in a business transaction.
func (f *GormUnitOfWorkFactory) Layouts() *layoutrepo.GormLayoutRepository {
	return layoutrepo.NewGormLayoutRepository(f.db)
}

// GormUnitOfWork wraps a single GORM transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts the transaction. Calling it again before Commit or Rollback
// is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback returns gorm.ErrInvalidTransaction when no transaction is open,
// which makes a deferred Rollback after a successful Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) RobotRepository() ports.RobotRepository {
	return robotrepo.NewGormRobotRepository(uow.conn())
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
