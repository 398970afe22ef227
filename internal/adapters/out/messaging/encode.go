package messaging

import (
	"encoding/json"
	"fmt"
	"strings"

	"robodelivery/internal/core/domain/events"
)

func encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.Name, err)
	}
	return data, nil
}

// brokerTopic joins prefix and topic with sep and rewrites the dots of
// topics like "table.T4" to sep as well.
func brokerTopic(prefix, sep, topic string) string {
	topic = strings.ReplaceAll(topic, ".", sep)
	if prefix == "" {
		return topic
	}
	return strings.TrimSuffix(prefix, sep) + sep + topic
}
