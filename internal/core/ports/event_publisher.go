package ports

import (
	"context"

	"robodelivery/internal/core/domain/events"
)

// EventPublisher delivers an event to one topic. Delivery is at most once;
// implementations must not block longer than ctx allows.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Event) error
}
