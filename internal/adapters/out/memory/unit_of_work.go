package memory

import (
	"context"
	"errors"
	"fmt"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/ports"
	"robodelivery/internal/pkg/errs"
)

// ErrNoTransaction is returned by Commit and Rollback outside a transaction.
var ErrNoTransaction = errors.New("no active transaction")

type robotWrite struct {
	state    robot.State
	isNew    bool
	expected int64
}

type orderWrite struct {
	record orderRecord
	isNew  bool
}

// UnitOfWork buffers writes until Commit. Outside a transaction every write
// is committed immediately. Reads see the transaction's own writes first.
type UnitOfWork struct {
	store  *Store
	active bool

	robots    map[kernel.UUID]robotWrite
	orders    map[kernel.UUID]orderWrite
	robotKeys []kernel.UUID
	orderKeys []kernel.UUID
}

func newUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.active {
		return nil
	}
	u.reset()
	u.active = true
	return nil
}

// Commit applies every buffered write or none. A robot whose stored version
// moved since it was read fails the whole commit with a VersionIsInvalidError.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	defer func() {
		u.active = false
		u.reset()
	}()
	return u.apply()
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	u.active = false
	u.reset()
	return nil
}

func (u *UnitOfWork) RobotRepository() ports.RobotRepository {
	return &RobotRepository{uow: u}
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: u}
}

func (u *UnitOfWork) reset() {
	u.robots = make(map[kernel.UUID]robotWrite)
	u.orders = make(map[kernel.UUID]orderWrite)
	u.robotKeys = nil
	u.orderKeys = nil
}

func (u *UnitOfWork) stageRobot(w robotWrite) error {
	if u.robots == nil {
		u.reset()
	}
	if _, ok := u.robots[w.state.ID]; !ok {
		u.robotKeys = append(u.robotKeys, w.state.ID)
	} else {
		prev := u.robots[w.state.ID]
		w.isNew = prev.isNew
		w.expected = prev.expected
	}
	u.robots[w.state.ID] = w

	if u.active {
		return nil
	}
	defer u.reset()
	return u.apply()
}

func (u *UnitOfWork) stageOrder(w orderWrite) error {
	if u.orders == nil {
		u.reset()
	}
	if prev, ok := u.orders[w.record.id]; !ok {
		u.orderKeys = append(u.orderKeys, w.record.id)
	} else {
		w.isNew = prev.isNew
	}
	u.orders[w.record.id] = w

	if u.active {
		return nil
	}
	defer u.reset()
	return u.apply()
}

func (u *UnitOfWork) apply() error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range u.robotKeys {
		w := u.robots[id]
		stored, exists := s.robots[id]
		switch {
		case w.isNew && exists:
			return errs.NewValueIsInvalidErrorWithCause("robot", fmt.Errorf("robot %s already exists", id))
		case !w.isNew && !exists:
			return errs.NewObjectNotFoundError("robot", id.String())
		case !w.isNew && stored.Version != w.expected:
			return errs.NewVersionIsInvalidError(
				"robot",
				fmt.Errorf("robot %s stored version %d, expected %d", id, stored.Version, w.expected),
			)
		}
	}
	for _, id := range u.orderKeys {
		w := u.orders[id]
		_, exists := s.orders[id]
		switch {
		case w.isNew && exists:
			return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order %s already exists", id))
		case !w.isNew && !exists:
			return errs.NewObjectNotFoundError("order", id.String())
		}
	}

	for _, id := range u.robotKeys {
		w := u.robots[id]
		if !w.isNew {
			w.state.Version = w.expected + 1
		}
		s.robots[id] = w.state
	}
	for _, id := range u.orderKeys {
		w := u.orders[id]
		if w.isNew {
			s.seq++
			w.record.seq = s.seq
		} else {
			w.record.seq = s.orders[id].seq
		}
		s.orders[id] = w.record
	}
	return nil
}

// pendingRobot returns the robot as this unit of work sees it.
func (u *UnitOfWork) pendingRobot(id kernel.UUID) (robot.State, bool) {
	if w, ok := u.robots[id]; ok {
		return w.state, true
	}
	return u.store.robot(id)
}

func (u *UnitOfWork) pendingOrder(id kernel.UUID) (orderRecord, bool) {
	if w, ok := u.orders[id]; ok {
		if !w.isNew {
			w.record.seq = u.storedSeq(id)
		}
		return w.record, true
	}
	return u.store.order(id)
}

func (u *UnitOfWork) storedSeq(id kernel.UUID) uint64 {
	rec, _ := u.store.order(id)
	return rec.seq
}

func (u *UnitOfWork) robotIDs() []kernel.UUID {
	ids := u.store.robotIDs()
	for _, id := range u.robotKeys {
		if w := u.robots[id]; w.isNew {
			ids = append(ids, id)
		}
	}
	return ids
}

func (u *UnitOfWork) orderIDs() []kernel.UUID {
	ids := u.store.orderIDs()
	for _, id := range u.orderKeys {
		if w := u.orders[id]; w.isNew {
			ids = append(ids, id)
		}
	}
	return ids
}
