package spreadmark

import (
	"fmt"

	"spreadmark/internal/embed"
	"spreadmark/internal/field"
	"spreadmark/internal/grid"
)

type Option func(*Pipeline) error

// Provider is the uniform randomness contract watermark fields are drawn
// from. See the field package for the bundled implementations.
type Provider = field.Provider

// Strategy is the pure embedding contract. See the embed package for the
// bundled implementations.
type Strategy = embed.Strategy

// RemainderPolicy decides the fate of trailing samples smaller than a
// block.
type RemainderPolicy = grid.Policy

const (
	DropRemainder = grid.PolicyDrop
	PadRemainder  = grid.PolicyPad
)

// WithGridSize divides the image into an n x n grid of blocks, matching
// the watermark field dimensions. The block side length is the padded
// image side divided by n; for a 512x512 image and n=8 each block is
// 64x64 pixels.
func WithGridSize(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("grid size must be positive, got %d", n)
		}
		p.gridSize = n
		return nil
	}
}

// WithAlpha sets the embedding strength. Larger values make the mark
// easier to detect but more visible. Zero disables the perturbation,
// which is useful for measuring transform fidelity on its own.
func WithAlpha(alpha float64) Option {
	return func(p *Pipeline) error {
		if alpha < 0 {
			return fmt.Errorf("alpha must not be negative, got %v", alpha)
		}
		p.alpha = alpha
		return nil
	}
}

// WithNormRange maps pixel intensities into [lo, hi] for processing
// instead of the default [0, 1].
func WithNormRange(lo, hi float64) Option {
	return func(p *Pipeline) error {
		if hi <= lo {
			return fmt.Errorf("invalid normalization range [%v, %v]", lo, hi)
		}
		p.normLo, p.normHi = lo, hi
		return nil
	}
}

// WithProvider selects the uniform source the watermark field is drawn
// from.
func WithProvider(provider Provider) Option {
	return func(p *Pipeline) error {
		p.provider = provider
		return nil
	}
}

// WithField reuses a pre-generated field instead of drawing a new one,
// so several strategies can be compared against identical watermark
// values.
func WithField(f *field.Field) Option {
	return func(p *Pipeline) error {
		p.fld = f
		return nil
	}
}

// WithStrategy selects the embedding strategy.
func WithStrategy(s Strategy) Option {
	return func(p *Pipeline) error {
		p.strategy = s
		return nil
	}
}

// WithRemainderPolicy decides how trailing samples smaller than a full
// block are handled during tiling. The default drops them.
func WithRemainderPolicy(policy RemainderPolicy) Option {
	return func(p *Pipeline) error {
		p.policy = policy
		return nil
	}
}

// WithWorkers caps the number of goroutines used for the per-block
// stages. One worker reproduces the sequential reference behavior
// exactly; any worker count produces identical output.
func WithWorkers(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("worker count must be positive, got %d", n)
		}
		p.workers = n
		return nil
	}
}
