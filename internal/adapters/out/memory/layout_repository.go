package memory

import (
	"context"

	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/ports"
	"robodelivery/internal/pkg/errs"
)

var _ ports.LayoutRepository = (*LayoutRepository)(nil)

// LayoutRepository keeps layouts by id. Layouts are immutable, so the same
// pointer is handed out to every caller.
type LayoutRepository struct {
	store *Store
}

func (r *LayoutRepository) Get(_ context.Context, id string) (*layout.Layout, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	l, ok := r.store.layouts[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("layout", id)
	}
	return l, nil
}

func (r *LayoutRepository) Save(_ context.Context, l *layout.Layout) error {
	if l == nil {
		return errs.NewValueIsRequiredError("layout")
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.layouts[l.ID()] = l
	return nil
}
