package messaging

import (
	"context"
	"errors"
	"fmt"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/ports"
)

var _ ports.EventPublisher = Fanout(nil)

// Fanout publishes every event to all of its publishers in order. One sink
// failing does not keep the event from the others; the failures are joined.
type Fanout []ports.EventPublisher

func (f Fanout) Publish(ctx context.Context, topic string, event events.Event) error {
	var errs []error
	for i, p := range f {
		if err := p.Publish(ctx, topic, event); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
