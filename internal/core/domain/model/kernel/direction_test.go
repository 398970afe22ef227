package kernel_test

import (
	"testing"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionBetween(t *testing.T) {
	origin := kernel.Position{X: 5, Y: 5}

	tests := []struct {
		name string
		to   kernel.Position
		want kernel.Direction
	}{
		{name: "east", to: kernel.Position{X: 8, Y: 6}, want: kernel.East},
		{name: "west", to: kernel.Position{X: 1, Y: 4}, want: kernel.West},
		{name: "south", to: kernel.Position{X: 6, Y: 9}, want: kernel.South},
		{name: "north", to: kernel.Position{X: 4, Y: 0}, want: kernel.North},
		{name: "diagonal tie goes vertical", to: kernel.Position{X: 7, Y: 7}, want: kernel.South},
		{name: "diagonal tie north", to: kernel.Position{X: 7, Y: 3}, want: kernel.North},
		{name: "no movement keeps facing", to: origin, want: kernel.West},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kernel.DirectionBetween(origin, tt.to, kernel.West))
		})
	}
}

func TestDirection_StringAndParse(t *testing.T) {
	for _, d := range []kernel.Direction{kernel.North, kernel.East, kernel.South, kernel.West} {
		parsed, err := kernel.ParseDirection(d.String())

		require.NoError(t, err)
		assert.Equal(t, d, parsed)
		require.NoError(t, d.Validate())
	}

	_, err := kernel.ParseDirection("up")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, kernel.Direction(9).Validate(), errs.ErrValueIsInvalid)
	assert.Equal(t, "unknown", kernel.Direction(9).String())
}
