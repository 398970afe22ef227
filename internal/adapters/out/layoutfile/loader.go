// Package layoutfile reads restaurant floor layouts from YAML.
//
//	id: main
//	depot: {x: 0, y: 0}
//	chargingStations:
//	  - {x: 0, y: 4}
//	tables:
//	  T1: {x: 4, y: 0}
//	  T2: {x: 4, y: 4}
//	grid:
//	  - "....."
//	  - ".##.."
//	  - "....."
//
// Grid rows are strings, one character per cell: '.' or '0' is floor, '#'
// or '1' is an obstacle.
package layoutfile

import (
	"fmt"
	"io"
	"os"

	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

type position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p position) kernel() kernel.Position {
	return kernel.Position{X: p.X, Y: p.Y}
}

type document struct {
	ID               string              `yaml:"id"`
	Depot            position            `yaml:"depot"`
	ChargingStations []position          `yaml:"chargingStations"`
	Tables           map[string]position `yaml:"tables"`
	Grid             []string            `yaml:"grid"`
}

// Load reads and validates the layout file at path.
func Load(path string) (*layout.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

// Decode parses one YAML layout document. Unknown keys are rejected.
func Decode(r io.Reader) (*layout.Layout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("layout", err)
	}

	cells, err := parseRows(doc.Grid)
	if err != nil {
		return nil, err
	}
	g, err := grid.NewGrid(cells)
	if err != nil {
		return nil, err
	}

	stations := make([]kernel.Position, 0, len(doc.ChargingStations))
	for _, s := range doc.ChargingStations {
		stations = append(stations, s.kernel())
	}
	tables := make(map[string]kernel.Position, len(doc.Tables))
	for id, p := range doc.Tables {
		tables[id] = p.kernel()
	}

	return layout.NewLayout(doc.ID, g, doc.Depot.kernel(), stations, tables)
}

func parseRows(rows []string) ([][]int, error) {
	cells := make([][]int, 0, len(rows))
	for y, row := range rows {
		line := make([]int, 0, len(row))
		for x, ch := range row {
			switch ch {
			case '.', '0':
				line = append(line, grid.Walkable)
			case '#', '1':
				line = append(line, grid.Obstacle)
			default:
				return nil, errs.NewValueIsInvalidErrorWithCause(
					"grid",
					fmt.Errorf("unexpected %q at (%d,%d)", ch, x, y),
				)
			}
		}
		cells = append(cells, line)
	}
	return cells, nil
}
