package pgnotify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/domain/model/kernel"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssigner struct {
	mock.Mock
}

func (m *MockAssigner) Assign(ctx context.Context, orderID kernel.UUID) (commands.AssignRobotResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(commands.AssignRobotResult), args.Error(1)
}

type fakeSource struct {
	ch chan *pq.Notification
}

func (f fakeSource) NotificationChannel() <-chan *pq.Notification { return f.ch }
func (f fakeSource) Ping() error                                  { return nil }

func newTestListener(assigner Assigner) *Listener {
	return NewListener("", assigner, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandle_AssignsNotifiedOrder(t *testing.T) {
	assigner := &MockAssigner{}
	orderID := kernel.NewUUID()
	assigner.On("Assign", mock.Anything, orderID).
		Return(commands.AssignRobotResult{Outcome: commands.NoAvailableRobot}, nil).Once()

	newTestListener(assigner).handle(t.Context(), orderID.String())

	assigner.AssertExpectations(t)
}

func TestHandle_IgnoresMalformedPayload(t *testing.T) {
	assigner := &MockAssigner{}
	l := newTestListener(assigner)

	l.handle(t.Context(), "not-a-uuid")
	l.handle(t.Context(), "00000000-0000-0000-0000-000000000000")

	assigner.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything)
}

func TestHandle_AssignErrorIsSwallowed(t *testing.T) {
	assigner := &MockAssigner{}
	orderID := kernel.NewUUID()
	assigner.On("Assign", mock.Anything, orderID).
		Return(commands.AssignRobotResult{}, errors.New("boom")).Once()

	assert.NotPanics(t, func() {
		newTestListener(assigner).handle(t.Context(), orderID.String())
	})
	assigner.AssertExpectations(t)
}

func TestLoop_DispatchesUntilCancelled(t *testing.T) {
	assigner := &MockAssigner{}
	orderID := kernel.NewUUID()
	handled := make(chan struct{})
	assigner.On("Assign", mock.Anything, orderID).
		Return(commands.AssignRobotResult{Outcome: commands.Assigned}, nil).
		Run(func(mock.Arguments) { close(handled) }).Once()

	src := fakeSource{ch: make(chan *pq.Notification, 2)}
	src.ch <- nil
	src.ch <- &pq.Notification{Channel: "order_ready", Extra: orderID.String()}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		newTestListener(assigner).loop(ctx, src)
		close(done)
	}()

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("notification was not handled")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "loop did not stop")
	}
	assigner.AssertExpectations(t)
}
