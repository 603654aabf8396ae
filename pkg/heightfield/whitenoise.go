package heightfield

import (
	"fmt"
	"math/rand/v2"
)

// Source supplies uniform samples in [0, 1). *rand.Rand satisfies it.
// A Source is only read from the goroutine that passed it in.
type Source interface {
	Float64() float64
}

// NewSource returns a PCG-backed Source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WhiteNoise returns a width×height grid of independent uniform samples in
// [0, 1), drawn from src in row-major order.
func WhiteNoise(width, height int, src Source) (*Grid, error) {
	if src == nil {
		return nil, fmt.Errorf("white noise: nil source: %w", ErrInvalidArgument)
	}
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, fmt.Errorf("white noise: %w", err)
	}
	for i := range g.cells {
		v := src.Float64()
		if !(v >= 0 && v < 1) {
			return nil, fmt.Errorf("white noise: source sample %v outside [0,1): %w", v, ErrInvalidArgument)
		}
		g.cells[i] = v
	}
	return g, nil
}
