// Package eventbus is the in-process event sink. It fans fleet events out to
// subscribers by topic and backs the server-sent events feed.
package eventbus

import (
	"context"
	"sync"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/ports"
)

var _ ports.EventPublisher = (*Bus)(nil)

type SubscriberID int

// Handler receives an event together with the topic it was published to.
// Handlers run on the publisher's goroutine and must not block.
type Handler func(topic string, event events.Event)

type subscriber struct {
	id    SubscriberID
	topic string
	fn    Handler
}

// Bus delivers each published event synchronously to every subscriber of
// the event's topic, in subscription order.
type Bus struct {
	mu          sync.RWMutex
	subscribers []subscriber
	nextID      SubscriberID
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers fn for one topic. An empty topic receives everything.
func (b *Bus) Subscribe(topic string, fn Handler) SubscriberID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subscribers = append(b.subscribers, subscriber{id: b.nextID, topic: topic, fn: fn})
	return b.nextID
}

// Unsubscribe removes a subscriber by ID.
func (b *Bus) Unsubscribe(id SubscriberID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subscribers {
		if s.id == id {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Publish never fails; a subscriber that wants to drop events does so itself.
func (b *Bus) Publish(_ context.Context, topic string, event events.Event) error {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		if s.topic != "" && s.topic != topic {
			continue
		}
		s.fn(topic, event)
	}
	return nil
}

// Subscribers reports how many handlers are registered.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
