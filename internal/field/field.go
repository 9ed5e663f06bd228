// Package field generates the pseudo-random watermark field and defines
// the interchangeable uniform sources it is drawn from.
package field

import (
	"image"

	"github.com/pkg/errors"

	"spreadmark/internal/imgio"
)

// Field is a square grid of watermark values in [0,1), one per block
// position, addressed row-major. It is generated once per run and
// read-only afterwards.
type Field struct {
	N      int
	Values []float64
}

// New draws an n x n field from p. Values outside [0,1) are rejected so
// every provider honors the same statistical contract.
func New(p Provider, n int) (*Field, error) {
	values, err := p.Generate(n * n)
	if err != nil {
		return nil, errors.Wrapf(err, "provider %s", p.Name())
	}
	if len(values) != n*n {
		return nil, errors.Errorf("provider %s returned %d values, want %d", p.Name(), len(values), n*n)
	}
	for i, v := range values {
		if v < 0 || v >= 1 {
			return nil, errors.Errorf("provider %s: value[%d]=%v outside [0,1)", p.Name(), i, v)
		}
	}
	return &Field{N: n, Values: values}, nil
}

// At returns the value assigned to the block at grid coordinate
// (row, col).
func (f *Field) At(row, col int) float64 {
	return f.Values[row*f.N+col]
}

// Gray renders the field as an 8-bit n x n image.
func (f *Field) Gray() *image.Gray {
	p := &imgio.Plane{Width: f.N, Height: f.N, Pix: f.Values}
	return p.Gray(0, 1)
}
