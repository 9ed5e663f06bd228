// Package dct implements the orthonormal 2-D type-II discrete cosine
// transform and its inverse on square blocks.
package dct

import (
	"math"

	"github.com/pkg/errors"
)

// ErrBlockSize reports data whose length does not match the block area.
var ErrBlockSize = errors.New("dct: data length does not match block size")

// DCT transforms row-major n x n blocks. The 1-D cosine basis is
// precomputed once per instance and applied separably to rows and then
// columns, so a forward/inverse pair costs O(n^3) per block.
type DCT struct {
	n   int
	phi []float64 // phi[k*n+j]: basis function k sampled at j
}

func New(n int) *DCT {
	dct := &DCT{n: n, phi: make([]float64, n*n)}

	nf := float64(n)
	for j := range n {
		// k = 0
		dct.phi[j] = 1.0 / math.Sqrt(nf)
	}
	for k := 1; k < n; k++ {
		for j := range n {
			dct.phi[k*n+j] = math.Sqrt(2.0/nf) *
				math.Cos(
					(float64(k)*math.Pi*(float64(j)*2+1))/
						(2.0*nf),
				)
		}
	}
	return dct
}

// Forward returns the DCT-II coefficients of data. The coefficient at
// index 0 is the DC term. data is left untouched.
func (dct *DCT) Forward(data []float64) ([]float64, error) {
	if len(data) != dct.n*dct.n {
		return nil, errors.Wrapf(ErrBlockSize, "len %d, want %dx%d", len(data), dct.n, dct.n)
	}
	return dct.colPass(dct.rowPass(data, false), false), nil
}

// Inverse returns the spatial samples reconstructed from DCT-II
// coefficients. coeffs is left untouched.
func (dct *DCT) Inverse(coeffs []float64) ([]float64, error) {
	if len(coeffs) != dct.n*dct.n {
		return nil, errors.Wrapf(ErrBlockSize, "len %d, want %dx%d", len(coeffs), dct.n, dct.n)
	}
	return dct.rowPass(dct.colPass(coeffs, true), true), nil
}

func (dct *DCT) rowPass(src []float64, inverse bool) []float64 {
	n := dct.n
	out := make([]float64, n*n)
	for i := range n { // row
		for k := range n { // output column
			sum := 0.0
			for j := range n { // input column
				if inverse {
					sum += dct.phi[j*n+k] * src[i*n+j]
				} else {
					sum += dct.phi[k*n+j] * src[i*n+j]
				}
			}
			out[i*n+k] = sum
		}
	}
	return out
}

func (dct *DCT) colPass(src []float64, inverse bool) []float64 {
	n := dct.n
	out := make([]float64, n*n)
	for j := range n { // column
		for k := range n { // output row
			sum := 0.0
			for i := range n { // input row
				if inverse {
					sum += dct.phi[i*n+k] * src[i*n+j]
				} else {
					sum += dct.phi[k*n+i] * src[i*n+j]
				}
			}
			out[k*n+j] = sum
		}
	}
	return out
}
