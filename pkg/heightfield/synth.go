package heightfield

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultPersistence is the per-octave amplitude decay.
const DefaultPersistence = 0.5

// Synthesizer blends smoothed octaves of a base grid into a height field.
// The zero value rejects every call: Persistence must be set, usually via
// NewSynthesizer.
type Synthesizer struct {
	// Persistence scales the amplitude once per octave. Must be in (0, 1];
	// zero is not replaced by DefaultPersistence.
	Persistence float64
	// Workers caps the goroutines used per call. Zero means GOMAXPROCS.
	Workers int
}

// NewSynthesizer returns a Synthesizer with DefaultPersistence and
// GOMAXPROCS workers.
func NewSynthesizer() Synthesizer {
	return Synthesizer{Persistence: DefaultPersistence}
}

// Synthesize layers octaveCount smoothed copies of base. The smoothest
// octave is added first with amplitude p, each following octave with the
// amplitude multiplied by p again. The sum is divided by the last amplitude
// applied, p^octaveCount, rather than by the sum of the amplitudes, so the
// finest octave keeps unit weight and coarser octaves are boosted.
func (s Synthesizer) Synthesize(base *Grid, octaveCount int) (*Grid, error) {
	if base.empty() {
		return nil, fmt.Errorf("synthesize: empty base grid: %w", ErrInvalidArgument)
	}
	if octaveCount < 1 || octaveCount > MaxOctave+1 {
		return nil, fmt.Errorf("synthesize: octave count %d outside [1,%d]: %w", octaveCount, MaxOctave+1, ErrInvalidArgument)
	}
	p := s.Persistence
	if !(p > 0 && p <= 1) {
		return nil, fmt.Errorf("synthesize: persistence %v outside (0,1]: %w", p, ErrInvalidArgument)
	}

	weights, divisor := amplitudes(octaveCount, p)
	// Cells are bounded by the sum of the normalized weights.
	var total float64
	for _, w := range weights {
		total += w
	}
	if divisor == 0 || math.IsInf(total/divisor, 0) {
		return nil, fmt.Errorf("synthesize: persistence %v underflows over %d octaves: %w", p, octaveCount, ErrInvalidArgument)
	}

	smoothed := make([]*Grid, octaveCount)
	var smoothing errgroup.Group
	smoothing.SetLimit(s.workers())
	for i := range smoothed {
		smoothing.Go(func() error {
			sg, err := Smooth(base, i)
			if err != nil {
				return err
			}
			smoothed[i] = sg
			return nil
		})
	}
	if err := smoothing.Wait(); err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	out := &Grid{
		width:  base.width,
		height: base.height,
		cells:  make([]float64, len(base.cells)),
	}

	// Each row sees the octaves in the same order as a sequential loop, so the
	// result does not depend on scheduling.
	var blending errgroup.Group
	blending.SetLimit(s.workers())
	for y := range out.height {
		blending.Go(func() error {
			acc := out.row(y)
			for octave := octaveCount - 1; octave >= 0; octave-- {
				amp := weights[octave]
				src := smoothed[octave].row(y)
				for x := range acc {
					acc[x] += src[x] * amp
				}
			}
			for x := range acc {
				acc[x] /= divisor
			}
			return nil
		})
	}
	if err := blending.Wait(); err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	return out, nil
}

func (s Synthesizer) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// amplitudes returns the weight of each octave and the final amplitude
// reached by walking from the smoothest octave down to octave 0.
func amplitudes(octaveCount int, persistence float64) ([]float64, float64) {
	weights := make([]float64, octaveCount)
	amplitude := 1.0
	for octave := octaveCount - 1; octave >= 0; octave-- {
		amplitude *= persistence
		weights[octave] = amplitude
	}
	return weights, amplitude
}

// TotalAmplitude returns the sum of the octave weights for octaveCount
// octaves. Callers that want a weighted average can rescale a synthesized
// field by Persistence^octaveCount / TotalAmplitude.
func TotalAmplitude(octaveCount int, persistence float64) float64 {
	weights, _ := amplitudes(octaveCount, persistence)
	var total float64
	for _, w := range weights {
		total += w
	}
	return total
}

// Synthesize runs a Synthesizer with the given persistence.
func Synthesize(base *Grid, octaveCount int, persistence float64) (*Grid, error) {
	return Synthesizer{Persistence: persistence}.Synthesize(base, octaveCount)
}

// SynthesizeHeightField generates white noise from src and blends
// octaveCount octaves of it with DefaultPersistence.
func SynthesizeHeightField(width, height, octaveCount int, src Source) (*Grid, error) {
	if octaveCount < 1 {
		return nil, fmt.Errorf("synthesize height field: octave count %d: %w", octaveCount, ErrInvalidArgument)
	}
	base, err := WhiteNoise(width, height, src)
	if err != nil {
		return nil, fmt.Errorf("synthesize height field: %w", err)
	}
	return NewSynthesizer().Synthesize(base, octaveCount)
}
