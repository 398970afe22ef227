package ports

import (
	"context"

	"robodelivery/internal/core/domain/model/layout"
)

// LayoutRepository stores floor layouts. Layouts are read once per process
// to build the route planner and are never changed by the fleet.
type LayoutRepository interface {
	// Get returns the layout with the given id, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id string) (*layout.Layout, error)

	// Save creates or replaces a layout.
	Save(ctx context.Context, l *layout.Layout) error
}
