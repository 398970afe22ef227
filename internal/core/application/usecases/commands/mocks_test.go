package commands_test

import (
	"context"
	"testing"
	"time"

	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRobotRepository struct{ mock.Mock }

func (m *MockRobotRepository) Add(ctx context.Context, r *robot.Robot) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRobotRepository) Update(ctx context.Context, r *robot.Robot) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRobotRepository) Get(ctx context.Context, id kernel.UUID) (*robot.Robot, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*robot.Robot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRobotRepository) FindIdle(ctx context.Context, minBattery int) (*robot.Robot, error) {
	args := m.Called(ctx, minBattery)
	if r := args.Get(0); r != nil {
		return r.(*robot.Robot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRobotRepository) GetAll(ctx context.Context) ([]*robot.Robot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*robot.Robot), args.Error(1)
}

func (m *MockRobotRepository) GetAllInStatus(ctx context.Context, statuses ...robot.Status) ([]*robot.Robot, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]*robot.Robot), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetAllReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*order.Order), args.Error(1)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) RobotRepository() ports.RobotRepository {
	args := m.Called()
	return args.Get(0).(ports.RobotRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockRobotUoWFactory struct{ mock.Mock }

func (m *MockRobotUoWFactory) Create() commands.RobotUoW {
	args := m.Called()
	return args.Get(0).(commands.RobotUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockRoutePlanner struct{ mock.Mock }

func (m *MockRoutePlanner) Plan(from, to kernel.Position) (route.Route, bool) {
	args := m.Called(from, to)
	return args.Get(0).(route.Route), args.Bool(1)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func pos(t *testing.T, x, y int) kernel.Position {
	t.Helper()
	p, err := kernel.NewPosition(x, y)
	require.NoError(t, err)
	return p
}

func mustRoute(t *testing.T, pts ...kernel.Position) route.Route {
	t.Helper()
	rt, err := route.NewRoute(pts)
	require.NoError(t, err)
	return rt
}

// testFloor is an open 5x5 floor with the depot at (0,0) and table T1 at (4,4).
func testFloor(t *testing.T) *layout.Layout {
	t.Helper()
	cells := make([][]int, 5)
	for y := range cells {
		cells[y] = make([]int, 5)
	}
	g, err := grid.NewGrid(cells)
	require.NoError(t, err)
	l, err := layout.NewLayout("test", g, pos(t, 0, 0), nil, map[string]kernel.Position{"T1": pos(t, 4, 4)})
	require.NoError(t, err)
	return l
}

func idleRobot(t *testing.T, at kernel.Position) *robot.Robot {
	t.Helper()
	r, err := robot.NewRobot(kernel.NewUUID(), "R1", 100, at)
	require.NoError(t, err)
	return r
}

func readyOrder(t *testing.T, tableID string) *order.Order {
	t.Helper()
	dest, err := order.TableDestination(tableID)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), dest)
	require.NoError(t, err)
	require.NoError(t, o.MarkReady())
	return o
}

// onTask returns a robot and order already paired on the given outbound route.
func onTask(t *testing.T, outbound route.Route) (*robot.Robot, *order.Order) {
	t.Helper()
	r := idleRobot(t, outbound.Origin())
	o := readyOrder(t, "T1")
	require.NoError(t, r.StartDelivery(o.ID(), outbound))
	require.NoError(t, o.AssignRobot(r.ID()))
	return r, o
}
