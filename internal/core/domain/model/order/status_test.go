package order_test

import (
	"testing"

	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(order.Unknown))
		assert.Equal(t, 1, int(order.Created))
		assert.Equal(t, 2, int(order.Ready))
		assert.Equal(t, 3, int(order.RobotDelivering))
		assert.Equal(t, 4, int(order.Delivered))
		assert.Equal(t, 5, int(order.Cancelled))
	})
}

func TestStatus_StringAndParse(t *testing.T) {
	for _, s := range []order.Status{order.Created, order.Ready, order.RobotDelivering, order.Delivered, order.Cancelled} {
		t.Run(s.String(), func(t *testing.T) {
			require.NoError(t, s.Validate())

			parsed, err := order.ParseStatus(s.String())

			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		assert.Equal(t, "unknown", order.Unknown.String())
		assert.ErrorIs(t, order.Status(42).Validate(), errs.ErrValueIsInvalid)
		_, err := order.ParseStatus("lost")
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		from       order.Status
		transition func(order.Status) (order.Status, error)
		want       order.Status
		wantErr    bool
	}{
		{"ready from created", order.Created, order.Status.MarkReady, order.Ready, false},
		{"ready from ready", order.Ready, order.Status.MarkReady, 0, true},
		{"assign from ready", order.Ready, order.Status.AssignRobot, order.RobotDelivering, false},
		{"assign from created", order.Created, order.Status.AssignRobot, 0, true},
		{"assign from robot delivering", order.RobotDelivering, order.Status.AssignRobot, 0, true},
		{"assign from delivered", order.Delivered, order.Status.AssignRobot, 0, true},
		{"deliver from robot delivering", order.RobotDelivering, order.Status.Deliver, order.Delivered, false},
		{"deliver from ready", order.Ready, order.Status.Deliver, 0, true},
		{"cancel from created", order.Created, order.Status.Cancel, order.Cancelled, false},
		{"cancel from ready", order.Ready, order.Status.Cancel, order.Cancelled, false},
		{"cancel from robot delivering", order.RobotDelivering, order.Status.Cancel, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.transition(tt.from)

			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_ValidateCanHaveRobot(t *testing.T) {
	require.NoError(t, order.RobotDelivering.ValidateCanHaveRobot(true))
	require.NoError(t, order.Delivered.ValidateCanHaveRobot(true))
	require.NoError(t, order.Delivered.ValidateCanHaveRobot(false))
	require.NoError(t, order.Ready.ValidateCanHaveRobot(false))
	require.Error(t, order.Ready.ValidateCanHaveRobot(true))
	require.Error(t, order.RobotDelivering.ValidateCanHaveRobot(false))
}
