package messaging

import (
	"context"
	"fmt"
	"time"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event to "<prefix>.<topic>" keyed by the robot
// id, so one robot's events land on one partition in order.
type KafkaPublisher struct {
	writer kafkaWriter
	prefix string
}

// NewKafkaPublisher builds a synchronous writer with a hash balancer.
// Topics are created on first use when the broker allows it.
func NewKafkaPublisher(brokers []string, prefix string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		prefix: prefix,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event events.Event) error {
	data, err := encode(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: brokerTopic(p.prefix, ".", topic),
		Key:   []byte(event.Key()),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
