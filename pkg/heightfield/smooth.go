package heightfield

import "fmt"

// MaxOctave is the largest octave Smooth accepts (period 2^30).
const MaxOctave = 30

// Smooth samples base every 2^octave cells and bilinearly interpolates
// between the samples. Anchors past the right and bottom edges wrap to the
// opposite edge, so the result tiles. Octave 0 returns a copy of base.
func Smooth(base *Grid, octave int) (*Grid, error) {
	if base.empty() {
		return nil, fmt.Errorf("smooth: empty base grid: %w", ErrInvalidArgument)
	}
	if octave < 0 || octave > MaxOctave {
		return nil, fmt.Errorf("smooth: octave %d outside [0,%d]: %w", octave, MaxOctave, ErrInvalidArgument)
	}

	out := &Grid{
		width:  base.width,
		height: base.height,
		cells:  make([]float64, len(base.cells)),
	}

	period := 1 << octave
	frequency := 1.0 / float64(period)

	// Horizontal anchors are the same for every row.
	x0s := make([]int, base.width)
	x1s := make([]int, base.width)
	xBlend := make([]float64, base.width)
	for x := range base.width {
		x0s[x], x1s[x], xBlend[x] = anchors(x, period, frequency, base.width)
	}

	for y := range base.height {
		y0, y1, yBlend := anchors(y, period, frequency, base.height)
		r0 := base.row(y0)
		r1 := base.row(y1)
		dst := out.row(y)
		for x := range dst {
			top := Lerp(r0[x0s[x]], r0[x1s[x]], xBlend[x])
			bottom := Lerp(r1[x0s[x]], r1[x1s[x]], xBlend[x])
			dst[x] = Lerp(top, bottom, yBlend)
		}
	}
	return out, nil
}

// anchors returns the two sample coordinates bracketing i along an axis of
// length n and the blend factor between them.
func anchors(i, period int, frequency float64, n int) (int, int, float64) {
	s0 := (i / period) * period
	s1 := (s0 + period) % n
	return s0, s1, float64(i-s0) * frequency
}
