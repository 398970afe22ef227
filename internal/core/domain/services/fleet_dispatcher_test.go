package services_test

import (
	"testing"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var depot = kernel.Position{X: 0, Y: 0}

func newReadyOrder(t *testing.T) *order.Order {
	t.Helper()
	dest, err := order.TableDestination("T1")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), dest)
	require.NoError(t, err)
	require.NoError(t, o.MarkReady())
	return o
}

func newIdleRobot(t *testing.T, battery int) *robot.Robot {
	t.Helper()
	r, err := robot.NewRobot(kernel.NewUUID(), "R1", battery, depot)
	require.NoError(t, err)
	return r
}

func outboundRoute(t *testing.T) route.Route {
	t.Helper()
	r, err := route.NewRoute([]kernel.Position{depot, {X: 3, Y: 0}})
	require.NoError(t, err)
	return r
}

func TestFleetDispatcher_Dispatch(t *testing.T) {
	dispatcher := services.NewFleetDispatcher(20)

	t.Run("should assign robot and order together", func(t *testing.T) {
		o := newReadyOrder(t)
		r := newIdleRobot(t, 90)

		err := dispatcher.Dispatch(o, r, outboundRoute(t))

		require.NoError(t, err)
		assert.Equal(t, robot.Navigating, r.Status())
		assert.True(t, r.OrderID().IsEqual(o.ID()))
		assert.Equal(t, order.RobotDelivering, o.Status())
		assert.True(t, o.Robot().IsEqual(r.ID()))
	})

	tests := []struct {
		name    string
		prepare func(t *testing.T) (*order.Order, *robot.Robot, route.Route)
		wantErr error
	}{
		{
			name: "low battery",
			prepare: func(t *testing.T) (*order.Order, *robot.Robot, route.Route) {
				return newReadyOrder(t), newIdleRobot(t, 20), outboundRoute(t)
			},
			wantErr: services.ErrRobotNotAvailable,
		},
		{
			name: "robot in maintenance",
			prepare: func(t *testing.T) (*order.Order, *robot.Robot, route.Route) {
				r := newIdleRobot(t, 90)
				require.NoError(t, r.SetServiceMode(robot.Maintenance))
				return newReadyOrder(t), r, outboundRoute(t)
			},
			wantErr: services.ErrRobotNotAvailable,
		},
		{
			name: "order already assigned",
			prepare: func(t *testing.T) (*order.Order, *robot.Robot, route.Route) {
				o := newReadyOrder(t)
				require.NoError(t, o.AssignRobot(kernel.NewUUID()))
				return o, newIdleRobot(t, 90), outboundRoute(t)
			},
			wantErr: order.ErrRobotAlreadyAssigned,
		},
		{
			name: "empty route",
			prepare: func(t *testing.T) (*order.Order, *robot.Robot, route.Route) {
				return newReadyOrder(t), newIdleRobot(t, 90), route.Route{}
			},
			wantErr: route.ErrRouteIsEmpty,
		},
	}
	for _, tt := range tests {
		t.Run("should change nothing when "+tt.name, func(t *testing.T) {
			o, r, rt := tt.prepare(t)
			orderStatus, robotStatus := o.Status(), r.Status()

			err := dispatcher.Dispatch(o, r, rt)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, orderStatus, o.Status())
			assert.Equal(t, robotStatus, r.Status())
			assert.Nil(t, r.OrderID())
		})
	}

	t.Run("should reject route not starting at the robot", func(t *testing.T) {
		o := newReadyOrder(t)
		r := newIdleRobot(t, 90)
		elsewhere, _ := route.NewRoute([]kernel.Position{{X: 1, Y: 1}, {X: 2, Y: 1}})

		err := dispatcher.Dispatch(o, r, elsewhere)

		require.Error(t, err)
		assert.Equal(t, order.Ready, o.Status())
		assert.Equal(t, robot.Idle, r.Status())
	})
}

func TestRoutePlanner_Plan(t *testing.T) {
	g := newGrid(t, [][]int{
		{0, 0, 0},
		{1, 1, 0},
		{0, 0, 0},
	})
	planner, err := services.NewRoutePlanner(g)
	require.NoError(t, err)

	t.Run("returns smoothed route", func(t *testing.T) {
		r, ok := planner.Plan(kernel.Position{X: 0, Y: 0}, kernel.Position{X: 0, Y: 2})

		require.True(t, ok)
		assert.Equal(t, 4, r.Len())
	})

	t.Run("reports unreachable goal", func(t *testing.T) {
		_, ok := planner.Plan(kernel.Position{X: 0, Y: 0}, kernel.Position{X: 0, Y: 1})

		assert.False(t, ok)
	})
}
