// Package embed locates the significant coefficient of a transformed
// block and applies the watermark to it.
package embed

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SelectTarget returns the grid coordinate of the embedding target: the
// highest-magnitude coefficient remaining after the global maximum is
// masked out, excluding the DC term at (0,0). The scan is row-major and
// the first coefficient of any tied magnitude wins, so the choice is
// deterministic; an all-zero block yields (0,1).
//
// coeffs is a row-major side x side block with side >= 2.
func SelectTarget(coeffs []float64, side int) (row, col int) {
	maxIdx, maxVal := 0, -1.0
	for i, v := range coeffs {
		if a := math.Abs(v); a > maxVal {
			maxIdx, maxVal = i, a
		}
	}
	target, targetVal := 1, -1.0
	for i, v := range coeffs {
		if i == 0 || i == maxIdx {
			continue
		}
		if a := math.Abs(v); a > targetVal {
			target, targetVal = i, a
		}
	}
	return target / side, target % side
}

// Strategy is a pure embedding function: it returns a new coefficient
// slice and leaves its input untouched, so strategies can be swapped and
// compared against the same transformed blocks.
type Strategy interface {
	Name() string
	Embed(coeffs []float64, side int, w, alpha float64) []float64
}

// MaxCoefficient perturbs only the selected target coefficient by
// alpha*w. Every other coefficient is bit-identical to the input.
type MaxCoefficient struct{}

func (MaxCoefficient) Name() string { return "max-coefficient" }

func (MaxCoefficient) Embed(coeffs []float64, side int, w, alpha float64) []float64 {
	out := make([]float64, len(coeffs))
	copy(out, coeffs)
	row, col := SelectTarget(coeffs, side)
	out[row*side+col] += alpha * w
	return out
}

// Spread adds alpha*w to every coefficient except the DC term.
type Spread struct{}

func (Spread) Name() string { return "spread" }

func (Spread) Embed(coeffs []float64, side int, w, alpha float64) []float64 {
	out := make([]float64, len(coeffs))
	copy(out, coeffs)
	floats.AddConst(alpha*w, out)
	out[0] = coeffs[0]
	return out
}
