package storage

import (
	"github.com/OCharnyshevich/heightfield/pkg/heightfield"
)

// FieldData is the serializable representation of a synthesized height field.
type FieldData struct {
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Octaves     int       `json:"octaves"`
	Persistence float64   `json:"persistence"`
	Seed        uint64    `json:"seed"`
	Mean        float64   `json:"mean"`
	Heights     []float64 `json:"heights"` // row-major, index = y*width + x
}

// FieldDataFromGrid builds FieldData for g and the settings that produced it.
func FieldDataFromGrid(g *heightfield.Grid, seed uint64, octaves int, persistence, mean float64) *FieldData {
	return &FieldData{
		Width:       g.Width(),
		Height:      g.Height(),
		Octaves:     octaves,
		Persistence: persistence,
		Seed:        seed,
		Mean:        mean,
		Heights:     g.Values(),
	}
}
