package messaging

import (
	"context"
	"fmt"
	"time"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/ports"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var _ ports.EventPublisher = (*MQTTPublisher)(nil)

const mqttQoS byte = 1

type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes at QoS 1 to "<prefix>/<topic>", with the dots of
// table topics turned into levels: robodelivery/table/T4.
type MQTTPublisher struct {
	client  mqttClient
	prefix  string
	timeout time.Duration
}

// ConnectMQTT dials the broker and keeps reconnecting in the background.
func ConnectMQTT(broker, clientID, prefix string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return newMQTTPublisher(client, prefix), nil
}

func newMQTTPublisher(client mqttClient, prefix string) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: prefix, timeout: 5 * time.Second}
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, event events.Event) error {
	data, err := encode(event)
	if err != nil {
		return err
	}

	token := p.client.Publish(brokerTopic(p.prefix, "/", topic), mqttQoS, false, data)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("mqtt publish %s: timed out after %s", topic, p.timeout)
	}
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
