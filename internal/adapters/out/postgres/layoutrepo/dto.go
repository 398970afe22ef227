// Package layoutrepo stores restaurant floor layouts in PostgreSQL, one row
// per layout with the grid and named locations as JSON.
package layoutrepo

import (
	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/layout"
)

// LayoutDTO is the row layout of the layouts table.
type LayoutDTO struct {
	ID               string                 `gorm:"type:varchar(64);primaryKey"`
	Cells            [][]int                `gorm:"type:jsonb;serializer:json;not null"`
	Depot            PositionDTO            `gorm:"embedded;embeddedPrefix:depot_"`
	ChargingStations []PositionDTO          `gorm:"type:jsonb;serializer:json"`
	Tables           map[string]PositionDTO `gorm:"type:jsonb;serializer:json"`
}

// TableName overrides GORM's default "layout_dtos".
func (LayoutDTO) TableName() string {
	return "layouts"
}

// PositionDTO is a grid cell.
type PositionDTO struct {
	X int `gorm:"type:int" json:"x"`
	Y int `gorm:"type:int" json:"y"`
}

func fromDomain(l *layout.Layout) LayoutDTO {
	stations := make([]PositionDTO, 0, len(l.ChargingStations()))
	for _, s := range l.ChargingStations() {
		stations = append(stations, PositionDTO{X: s.X, Y: s.Y})
	}

	tables := make(map[string]PositionDTO, len(l.Tables()))
	for id, p := range l.Tables() {
		tables[id] = PositionDTO{X: p.X, Y: p.Y}
	}

	return LayoutDTO{
		ID:               l.ID(),
		Cells:            l.Grid().Cells(),
		Depot:            PositionDTO{X: l.Depot().X, Y: l.Depot().Y},
		ChargingStations: stations,
		Tables:           tables,
	}
}

func toDomain(dto LayoutDTO) (*layout.Layout, error) {
	g, err := grid.NewGrid(dto.Cells)
	if err != nil {
		return nil, err
	}

	stations := make([]kernel.Position, 0, len(dto.ChargingStations))
	for _, s := range dto.ChargingStations {
		stations = append(stations, kernel.Position{X: s.X, Y: s.Y})
	}

	tables := make(map[string]kernel.Position, len(dto.Tables))
	for id, p := range dto.Tables {
		tables[id] = kernel.Position{X: p.X, Y: p.Y}
	}

	return layout.NewLayout(dto.ID, g, kernel.Position{X: dto.Depot.X, Y: dto.Depot.Y}, stations, tables)
}
