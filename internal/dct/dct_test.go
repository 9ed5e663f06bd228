package dct_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spreadmark/internal/dct"
)

func randomBlock(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	data := make([]float64, n*n)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return data
}

func TestDCT_RoundTrip(t *testing.T) {
	test := []struct {
		name string
		n    int
		seed uint64
	}{
		{name: "2x2", n: 2, seed: 1},
		{name: "3x3", n: 3, seed: 2},
		{name: "4x4", n: 4, seed: 3},
		{name: "8x8", n: 8, seed: 4},
		{name: "64x64", n: 64, seed: 5},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			data := randomBlock(tt.n, tt.seed)
			original := make([]float64, len(data))
			copy(original, data)

			d := dct.New(tt.n)
			coeffs, err := d.Forward(data)
			require.NoError(t, err)
			recon, err := d.Inverse(coeffs)
			require.NoError(t, err)

			for i := range original {
				assert.InDelta(t, original[i], recon[i], 1e-9,
					"round-trip error at index %d", i)
			}
			// forward must not touch its input
			assert.Equal(t, original, data)
		})
	}
}

func TestDCT_DCComponent(t *testing.T) {
	// For constant input only the DC term is non-zero, and it equals
	// constant * n for the orthonormal 2-D transform.
	const n = 4
	const constant = 5.0
	data := make([]float64, n*n)
	for i := range data {
		data[i] = constant
	}

	coeffs, err := dct.New(n).Forward(data)
	require.NoError(t, err)

	assert.InEpsilon(t, constant*n, coeffs[0], 1e-9, "DC component mismatch")
	for i := 1; i < len(coeffs); i++ {
		assert.InDelta(t, 0.0, coeffs[i], 1e-10, "non-DC component[%d] should be zero", i)
	}
}

func TestDCT_DCIsMaxMagnitude(t *testing.T) {
	// Positive-valued natural blocks concentrate energy in the DC term.
	const n = 8
	data := randomBlock(n, 42)
	for i := range data {
		data[i] = data[i]*0.1 + 0.5 // intensities around mid-gray
	}
	coeffs, err := dct.New(n).Forward(data)
	require.NoError(t, err)

	for i := 1; i < len(coeffs); i++ {
		assert.Less(t, math.Abs(coeffs[i]), math.Abs(coeffs[0]),
			"coefficient[%d] outweighs the DC term", i)
	}
}

func TestDCT_ZeroInput(t *testing.T) {
	const n = 3
	coeffs, err := dct.New(n).Forward(make([]float64, n*n))
	require.NoError(t, err)
	for i, v := range coeffs {
		assert.Equal(t, 0.0, v, "zero input should produce zero output at index %d", i)
	}
}

func TestDCT_BlockSizeMismatch(t *testing.T) {
	d := dct.New(4)
	_, err := d.Forward(make([]float64, 15))
	require.ErrorIs(t, err, dct.ErrBlockSize)
	_, err = d.Inverse(make([]float64, 17))
	require.ErrorIs(t, err, dct.ErrBlockSize)
}

func TestCache_SharesInstances(t *testing.T) {
	c := dct.NewCache()
	assert.Same(t, c.New(8), c.New(8))
	assert.NotSame(t, c.New(8), c.New(16))
}
