// Package grid tiles a square plane into fixed-size blocks and
// reassembles blocks into a plane. Blocks live in a row-major arena
// indexed by grid coordinate; Reassemble depends on that order.
package grid

import (
	"github.com/pkg/errors"

	"spreadmark/internal/imgio"
)

// ErrDimensionMismatch reports a plane whose width and height differ.
var ErrDimensionMismatch = errors.New("grid: image width and height do not match")

// Policy decides what happens to trailing samples when the plane side is
// not an exact multiple of the block side.
type Policy int

const (
	// PolicyDrop discards any remainder smaller than a full block.
	PolicyDrop Policy = iota
	// PolicyPad zero-extends the plane until the remainder fills a block.
	PolicyPad
)

// Block is one square tile of a plane, identified by its grid
// coordinate. Pix is an independent row-major copy of the source region,
// so blocks never alias each other or the parent plane.
type Block struct {
	Side     int
	Row, Col int
	Pix      []float64
}

// Grid is the arena of blocks cut from a plane. Blocks[row*Width+col] is
// the block at grid coordinate (row, col).
type Grid struct {
	Side   int // block side length in samples
	Width  int // blocks per axis
	Blocks []Block
}

// Tile cuts p into blocks of the given side in row-major grid order.
// The plane must be square.
func Tile(p *imgio.Plane, side int, policy Policy) (*Grid, error) {
	if p.Width != p.Height {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%dx%d", p.Width, p.Height)
	}
	if policy == PolicyPad {
		if padded := imgio.NextMultiple(p.Width, side); padded != p.Width {
			p = p.PadTo(padded, padded)
		}
	}
	width := p.Width / side
	g := &Grid{Side: side, Width: width, Blocks: make([]Block, 0, width*width)}
	for row := range width {
		for col := range width {
			b := Block{Side: side, Row: row, Col: col, Pix: make([]float64, side*side)}
			for y := range side {
				src := (row*side+y)*p.Width + col*side
				copy(b.Pix[y*side:(y+1)*side], p.Pix[src:src+side])
			}
			g.Blocks = append(g.Blocks, b)
		}
	}
	return g, nil
}

// At returns the block at grid coordinate (row, col).
func (g *Grid) At(row, col int) *Block {
	return &g.Blocks[row*g.Width+col]
}

// WithPix returns a grid of the same shape whose block contents are
// replaced by pix, one slice per block in row-major order. The receiver
// is left untouched.
func (g *Grid) WithPix(pix [][]float64) *Grid {
	out := &Grid{Side: g.Side, Width: g.Width, Blocks: make([]Block, len(g.Blocks))}
	for i, b := range g.Blocks {
		b.Pix = pix[i]
		out.Blocks[i] = b
	}
	return out
}

// Reassemble writes every block into a zero-initialized plane of the
// tiled size. Block i lands at grid coordinate (i/Width, i%Width), the
// same order Tile produced; under PolicyDrop the result is smaller than
// the source plane by the discarded remainder.
func (g *Grid) Reassemble() *imgio.Plane {
	side := g.Side * g.Width
	p := imgio.NewPlane(side, side)
	for i := range g.Blocks {
		b := &g.Blocks[i]
		for y := range b.Side {
			dst := (b.Row*b.Side+y)*p.Width + b.Col*b.Side
			copy(p.Pix[dst:dst+b.Side], b.Pix[y*b.Side:(y+1)*b.Side])
		}
	}
	return p
}
