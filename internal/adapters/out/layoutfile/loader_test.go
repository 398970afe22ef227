package layoutfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"robodelivery/internal/adapters/out/layoutfile"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floor = `
id: main
depot: {x: 0, y: 0}
chargingStations:
  - {x: 0, y: 2}
tables:
  T1: {x: 4, y: 0}
  T2: {x: 4, y: 2}
grid:
  - "....."
  - ".##1."
  - "0...."
`

func TestDecode(t *testing.T) {
	l, err := layoutfile.Decode(strings.NewReader(floor))
	require.NoError(t, err)

	assert.Equal(t, "main", l.ID())
	assert.Equal(t, 5, l.Grid().Width())
	assert.Equal(t, 3, l.Grid().Height())
	assert.False(t, l.Grid().IsWalkable(kernel.Position{X: 1, Y: 1}))
	assert.False(t, l.Grid().IsWalkable(kernel.Position{X: 3, Y: 1}))
	assert.True(t, l.Grid().IsWalkable(kernel.Position{X: 0, Y: 2}))
	assert.Equal(t, kernel.Position{}, l.Depot())
	assert.Equal(t, []kernel.Position{{X: 0, Y: 2}}, l.ChargingStations())

	pos, err := l.TablePosition("T2")
	require.NoError(t, err)
	assert.Equal(t, kernel.Position{X: 4, Y: 2}, pos)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown cell", "id: x\ngrid: [\"..x\"]\n"},
		{"unknown key", "id: x\nexits: []\ngrid: [\"...\"]\n"},
		{"ragged rows", "id: x\ngrid: [\"...\", \"..\"]\n"},
		{"table on obstacle", "id: x\ntables: {T1: {x: 1, y: 0}}\ngrid: [\".#.\"]\n"},
		{"missing id", "grid: [\"...\"]\n"},
		{"not yaml", "grid: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := layoutfile.Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestDecode_UnknownCellIsInvalidValue(t *testing.T) {
	_, err := layoutfile.Decode(strings.NewReader("id: x\ngrid: [\"..x\"]\n"))
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(floor), 0o600))

	l, err := layoutfile.Load(path)
	require.NoError(t, err)
	assert.Len(t, l.Tables(), 2)

	_, err = layoutfile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ShippedLayout(t *testing.T) {
	l, err := layoutfile.Load("../../../../configs/layout.yaml")
	require.NoError(t, err)
	assert.Len(t, l.Tables(), 5)
}
