package heightfield

import "fmt"

// MeanHeight returns the arithmetic mean of every cell in g.
func MeanHeight(g *Grid) (float64, error) {
	if g.empty() {
		return 0, fmt.Errorf("mean height: empty grid: %w", ErrInvalidArgument)
	}
	var sum float64
	for _, v := range g.cells {
		sum += v
	}
	return sum / float64(len(g.cells)), nil
}
