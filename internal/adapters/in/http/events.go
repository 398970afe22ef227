package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"robodelivery/internal/core/domain/events"

	"github.com/labstack/echo/v4"
)

const (
	streamBuffer      = 64
	keepaliveInterval = 30 * time.Second
)

type streamEvent struct {
	name string
	data []byte
}

// StreamEvents handles GET /api/v1/events/{topic}: a server-sent events
// feed of one audience. A client that falls behind by more than the buffer
// loses events rather than slowing the fleet down.
func (s *Server) StreamEvents(ctx echo.Context, topic string) error {
	if !validTopic(topic) {
		return badRequest(ctx, "Unknown topic "+topic)
	}

	ch := make(chan streamEvent, streamBuffer)
	id := s.events.Subscribe(topic, func(_ string, ev events.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		select {
		case ch <- streamEvent{name: string(ev.Name), data: data}:
		default:
		}
	})
	defer s.events.Unsubscribe(id)

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case ev := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data); err != nil {
				s.logger.Debug("sse write failed", "topic", topic, "error", err)
				return nil
			}
			w.Flush()
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func validTopic(topic string) bool {
	switch topic {
	case events.TopicKitchen, events.TopicFleet:
		return true
	}
	table, ok := strings.CutPrefix(topic, "table.")
	return ok && table != ""
}
