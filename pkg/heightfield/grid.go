// Package heightfield synthesizes tileable 2D height fields from octaves of
// bilinearly smoothed value noise.
package heightfield

import "fmt"

// Grid is a fixed-size 2D field of float64 samples.
// Index = y*width + x.
type Grid struct {
	width  int
	height int
	cells  []float64
}

// NewGrid allocates a width×height grid with every cell set to 0.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new grid %dx%d: %w", width, height, ErrInvalidArgument)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]float64, width*height),
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the sample at (x, y). It panics if the coordinates are outside the grid.
func (g *Grid) At(x, y int) float64 {
	return g.cells[g.index(x, y)]
}

// Set stores v at (x, y). It panics if the coordinates are outside the grid.
func (g *Grid) Set(x, y int, v float64) {
	g.cells[g.index(x, y)] = v
}

// Values returns a copy of the samples in row-major order.
func (g *Grid) Values() []float64 {
	out := make([]float64, len(g.cells))
	copy(out, g.cells)
	return out
}

func (g *Grid) index(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Errorf("cell (%d,%d) in %dx%d grid: %w", x, y, g.width, g.height, ErrIndexOutOfBounds))
	}
	return y*g.width + x
}

// row returns the backing slice for row y.
func (g *Grid) row(y int) []float64 {
	return g.cells[y*g.width : (y+1)*g.width]
}

func (g *Grid) empty() bool {
	return g == nil || len(g.cells) == 0
}
