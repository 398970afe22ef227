package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/kernel"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func positionEvent(t *testing.T) events.Event {
	t.Helper()
	id, err := kernel.UUIDFromString("6f1c1c0e-1d7e-4d6a-9d55-0a3c2c1e8b10")
	require.NoError(t, err)
	return events.Position(id, kernel.Position{X: 2, Y: 3}, kernel.East, 0.5, "T4", at)
}

type fakeKafkaWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeKafkaWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeKafkaWriter{}
	p := &KafkaPublisher{writer: writer, prefix: "robodelivery"}
	ev := positionEvent(t)

	require.NoError(t, p.Publish(t.Context(), events.TableTopic("T4"), ev))

	require.Len(t, writer.msgs, 1)
	msg := writer.msgs[0]
	assert.Equal(t, "robodelivery.table.T4", msg.Topic)
	assert.Equal(t, ev.RobotID, string(msg.Key))
	assert.Equal(t, at, msg.Time)
	assert.Equal(t, []kafka.Header{{Key: "event", Value: []byte("robot.position")}}, msg.Headers)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, events.RobotPosition, decoded.Name)
	assert.Equal(t, kernel.Position{X: 2, Y: 3}, *decoded.Position)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeKafkaWriter{err: errors.New("leader not available")}}
	err := p.Publish(t.Context(), events.TopicFleet, positionEvent(t))
	assert.EqualError(t, err, "leader not available")
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "")
	assert.Error(t, err)
}

type fakeToken struct {
	done chan struct{}
	err  error
}

func doneToken(err error) *fakeToken {
	tok := &fakeToken{done: make(chan struct{}), err: err}
	close(tok.done)
	return tok
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type MockMQTTClient struct {
	mock.Mock
}

func (m *MockMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	args := m.Called(topic, qos, retained, payload)
	return args.Get(0).(mqtt.Token)
}

func (m *MockMQTTClient) Disconnect(quiesce uint) {
	m.Called(quiesce)
}

func TestMQTTPublisher_Publish(t *testing.T) {
	t.Run("publishes at qos 1 under the prefix", func(t *testing.T) {
		client := &MockMQTTClient{}
		client.On("Publish", "robodelivery/table/T4", byte(1), false, mock.AnythingOfType("[]uint8")).
			Return(doneToken(nil)).Once()
		p := newMQTTPublisher(client, "robodelivery")

		require.NoError(t, p.Publish(t.Context(), events.TableTopic("T4"), positionEvent(t)))
		client.AssertExpectations(t)
	})

	t.Run("returns the token error", func(t *testing.T) {
		client := &MockMQTTClient{}
		client.On("Publish", "fleet", byte(1), false, mock.Anything).
			Return(doneToken(errors.New("not connected"))).Once()
		p := newMQTTPublisher(client, "")

		assert.EqualError(t, p.Publish(t.Context(), events.TopicFleet, positionEvent(t)), "not connected")
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		client := &MockMQTTClient{}
		client.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&fakeToken{done: make(chan struct{})}).Once()
		p := newMQTTPublisher(client, "")

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		assert.ErrorIs(t, p.Publish(ctx, events.TopicFleet, positionEvent(t)), context.Canceled)
	})

	t.Run("times out on a stuck broker", func(t *testing.T) {
		client := &MockMQTTClient{}
		client.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&fakeToken{done: make(chan struct{})}).Once()
		p := newMQTTPublisher(client, "")
		p.timeout = 10 * time.Millisecond

		assert.Error(t, p.Publish(t.Context(), events.TopicFleet, positionEvent(t)))
	})
}

type fakeRedis struct {
	channels []string
	payloads [][]byte
	err      error
}

func (r *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	r.channels = append(r.channels, channel)
	r.payloads = append(r.payloads, message.([]byte))
	return redis.NewIntResult(1, r.err)
}

func (r *fakeRedis) Close() error { return nil }

func TestRedisPublisher_Publish(t *testing.T) {
	client := &fakeRedis{}
	p := &RedisPublisher{client: client, prefix: "robodelivery"}

	require.NoError(t, p.Publish(t.Context(), events.TopicKitchen, positionEvent(t)))
	assert.Equal(t, []string{"robodelivery:kitchen"}, client.channels)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(client.payloads[0], &decoded))
	assert.Equal(t, events.RobotPosition, decoded.Name)

	client.err = errors.New("connection refused")
	assert.EqualError(t, p.Publish(t.Context(), events.TopicKitchen, positionEvent(t)), "connection refused")
}

type recordingSink struct {
	topics []string
	err    error
}

func (s *recordingSink) Publish(_ context.Context, topic string, _ events.Event) error {
	s.topics = append(s.topics, topic)
	return s.err
}

func TestFanout_Publish(t *testing.T) {
	t.Run("reaches every sink even when one fails", func(t *testing.T) {
		broken := &recordingSink{err: errors.New("down")}
		healthy := &recordingSink{}
		f := Fanout{broken, healthy}

		err := f.Publish(t.Context(), events.TopicFleet, positionEvent(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sink 0: down")
		assert.Equal(t, []string{events.TopicFleet}, healthy.topics)
	})

	t.Run("empty fanout succeeds", func(t *testing.T) {
		assert.NoError(t, Fanout{}.Publish(t.Context(), events.TopicFleet, positionEvent(t)))
	})
}

func TestBrokerTopic(t *testing.T) {
	assert.Equal(t, "table/T1", brokerTopic("", "/", "table.T1"))
	assert.Equal(t, "fleet/robots/fleet", brokerTopic("fleet/robots/", "/", "fleet"))
	assert.Equal(t, "app.kitchen", brokerTopic("app", ".", "kitchen"))
}
