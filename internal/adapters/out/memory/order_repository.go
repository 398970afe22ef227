package memory

import (
	"cmp"
	"context"
	"slices"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/pkg/errs"
)

// OrderRepository is bound to one unit of work.
type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.stageOrder(orderWrite{record: snapshotOrder(aggregate), isNew: true})
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.uow.pendingOrder(aggregate.ID()); !ok {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return r.uow.stageOrder(orderWrite{record: snapshotOrder(aggregate)})
}

func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	rec, ok := r.uow.pendingOrder(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return rec.restore()
}

// GetAllReadyUnassigned returns Ready orders without a robot, oldest first.
// A limit of zero or less means no limit.
func (r *OrderRepository) GetAllReadyUnassigned(_ context.Context, limit int) ([]*order.Order, error) {
	records := r.records(func(rec orderRecord) bool {
		return rec.status == order.Ready && rec.robotID == nil
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return restoreAll(records)
}

func (r *OrderRepository) GetAllInStatus(_ context.Context, status order.Status) ([]*order.Order, error) {
	return restoreAll(r.records(func(rec orderRecord) bool {
		return rec.status == status
	}))
}

// records returns matching orders in insertion order; orders added in the
// current unit of work come last.
func (r *OrderRepository) records(match func(orderRecord) bool) []orderRecord {
	ids := r.uow.orderIDs()
	slices.SortFunc(ids, kernel.UUID.Compare)
	ids = slices.Compact(ids)

	out := make([]orderRecord, 0)
	for _, id := range ids {
		rec, ok := r.uow.pendingOrder(id)
		if ok && match(rec) {
			out = append(out, rec)
		}
	}
	slices.SortStableFunc(out, func(a, b orderRecord) int {
		switch {
		case a.seq == 0 && b.seq != 0:
			return 1
		case a.seq != 0 && b.seq == 0:
			return -1
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

func restoreAll(records []orderRecord) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(records))
	for _, rec := range records {
		o, err := rec.restore()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
