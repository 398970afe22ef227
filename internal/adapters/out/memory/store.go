// Package memory keeps fleet state in process memory. It backs the embedded
// mode of the service and the coordinator tests, and follows the same
// contracts as the postgres adapter: units of work commit atomically and
// robot updates are checked against the stored version.
package memory

import (
	"maps"
	"slices"
	"sync"
	"time"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/ports"
)

var _ ports.UnitOfWorkFactory = (*Store)(nil)

type orderRecord struct {
	id          kernel.UUID
	destination order.Destination
	status      order.Status
	robotID     *kernel.UUID
	deliveredAt *time.Time
	seq         uint64
}

// Store holds committed state. Aggregates never leave it; repositories hand
// out fresh copies rebuilt from records.
type Store struct {
	mu      sync.RWMutex
	robots  map[kernel.UUID]robot.State
	orders  map[kernel.UUID]orderRecord
	layouts map[string]*layout.Layout
	seq     uint64
}

func NewStore() *Store {
	return &Store{
		robots:  make(map[kernel.UUID]robot.State),
		orders:  make(map[kernel.UUID]orderRecord),
		layouts: make(map[string]*layout.Layout),
	}
}

// Create returns a unit of work over the store.
func (s *Store) Create() ports.UnitOfWork {
	return newUnitOfWork(s)
}

// Layouts returns the layout repository of the store.
func (s *Store) Layouts() *LayoutRepository {
	return &LayoutRepository{store: s}
}

func (s *Store) robot(id kernel.UUID) (robot.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.robots[id]
	return st, ok
}

func (s *Store) robotIDs() []kernel.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Collect(maps.Keys(s.robots))
}

func (s *Store) order(id kernel.UUID) (orderRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.orders[id]
	return rec, ok
}

func (s *Store) orderIDs() []kernel.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Collect(maps.Keys(s.orders))
}

func snapshotRobot(r *robot.Robot) robot.State {
	return robot.State{
		ID:         r.ID(),
		Name:       r.Name(),
		Status:     r.Status(),
		Position:   r.Position(),
		Facing:     r.Facing(),
		OrderID:    r.OrderID(),
		Route:      r.Route(),
		Cursor:     r.Cursor(),
		Battery:    r.Battery(),
		Active:     r.IsActive(),
		Deliveries: r.Deliveries(),
		Distance:   r.Distance(),
		Version:    r.Version(),
	}
}

func snapshotOrder(o *order.Order) orderRecord {
	return orderRecord{
		id:          o.ID(),
		destination: o.Destination(),
		status:      o.Status(),
		robotID:     o.Robot(),
		deliveredAt: o.DeliveredAt(),
	}
}

func (rec orderRecord) restore() (*order.Order, error) {
	return order.RestoreOrder(rec.id, rec.destination, rec.status, rec.robotID, rec.deliveredAt)
}
