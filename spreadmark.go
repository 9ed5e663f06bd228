// Package spreadmark embeds a pseudo-random spread-spectrum watermark
// into a grayscale image through a block-wise DCT pipeline: the image is
// tiled into a square grid of blocks, each block is cosine-transformed,
// one significant coefficient per block is perturbed by the watermark
// value assigned to that grid position, and the inverse transform
// reassembles the marked image.
package spreadmark

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/stat"

	"spreadmark/internal/dct"
	"spreadmark/internal/embed"
	"spreadmark/internal/field"
	"spreadmark/internal/grid"
	"spreadmark/internal/imgio"
)

var (
	// ErrDimensionMismatch reports an image that is not square after
	// padding, or a pair of images whose sizes disagree.
	ErrDimensionMismatch = errors.New("image dimensions do not match")
	// ErrTooSmallImage reports an image too small for the block grid.
	ErrTooSmallImage = errors.New("image is too small for the block grid")
)

// fieldRenderSide is the side of the upscaled watermark-field rendering.
const fieldRenderSide = 256

// Pipeline drives one watermarking run: normalize, pad, tile, transform,
// embed, inverse-transform, reassemble.
type Pipeline struct {
	gridSize       int
	alpha          float64
	normLo, normHi float64
	policy         grid.Policy
	provider       field.Provider
	strategy       embed.Strategy
	fld            *field.Field
	workers        int
	dctCache       *dct.Cache
}

// New initializes a watermarking pipeline. Defaults: an 8x8 block grid,
// embedding strength 0.5, [0,1] normalization, the max-coefficient
// strategy, the local provider seeded from the clock, and one worker per
// CPU.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		gridSize: 8,
		alpha:    0.5,
		normLo:   0,
		normHi:   1,
		policy:   grid.PolicyDrop,
		strategy: embed.MaxCoefficient{},
		workers:  runtime.GOMAXPROCS(0),
		dctCache: dct.NewCache(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.provider == nil {
		p.provider = field.NewLocal(uint64(time.Now().UnixNano()))
	}
	return p, nil
}

// Result carries the artifacts of one pipeline run.
type Result struct {
	// Field is the watermark field used for every block, one value per
	// grid position.
	Field *field.Field
	// FieldImage is the field rendered 8-bit and upscaled for inspection.
	FieldImage image.Image
	// Spectrum is the reassembled image of forward-transformed blocks
	// before embedding, a diagnostic rendering only.
	Spectrum image.Image
	// Watermarked is the reconstructed image with the mark embedded.
	Watermarked image.Image
	// EmbedElapsed is the wall time spent in the embedding stage.
	EmbedElapsed time.Duration
}

// WriteFiles writes the three output artifacts as PNG files. Nothing is
// written unless the run that produced the result completed.
func (r *Result) WriteFiles(fieldPath, spectrumPath, markedPath string) error {
	if err := imgio.WritePNG(fieldPath, r.FieldImage); err != nil {
		return fmt.Errorf("write field: %w", err)
	}
	if err := imgio.WritePNG(spectrumPath, r.Spectrum); err != nil {
		return fmt.Errorf("write spectrum: %w", err)
	}
	if err := imgio.WritePNG(markedPath, r.Watermarked); err != nil {
		return fmt.Errorf("write watermarked: %w", err)
	}
	return nil
}

// Run embeds the watermark into src.
//
// Process:
//  1. Converts the image to a normalized grayscale plane.
//  2. Pads each axis up to the next multiple of the grid size; the
//     padded image must be square.
//  3. Draws one watermark field from the provider (or reuses an
//     injected one).
//  4. Tiles the plane into a gridSize x gridSize grid of blocks.
//  5. Transforms, embeds and inverse-transforms every block.
//  6. Reassembles the blocks in row-major order.
//
// Returns an error if the padded image is not square or the blocks are
// too small to carry a non-DC coefficient.
func (p *Pipeline) Run(ctx context.Context, src image.Image) (*Result, error) {
	g, coeffs, side, err := p.transform(ctx, src)
	if err != nil {
		return nil, err
	}

	fld := p.fld
	if fld == nil {
		if fld, err = field.New(p.provider, p.gridSize); err != nil {
			return nil, fmt.Errorf("generate watermark field: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	marked := make([][]float64, len(coeffs))
	if err := p.forEach(len(coeffs), func(i int) error {
		b := &g.Blocks[i]
		w := fld.At(b.Row%fld.N, b.Col%fld.N)
		marked[i] = p.strategy.Embed(coeffs[i], side, w, p.alpha)
		return nil
	}); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dcos := p.dctCache.New(side)
	recon := make([][]float64, len(marked))
	if err := p.forEach(len(marked), func(i int) error {
		r, err := dcos.Inverse(marked[i])
		if err != nil {
			return err
		}
		recon[i] = r
		return nil
	}); err != nil {
		return nil, err
	}

	return &Result{
		Field:        fld,
		FieldImage:   resize.Resize(fieldRenderSide, fieldRenderSide, fld.Gray(), resize.NearestNeighbor),
		Spectrum:     g.WithPix(coeffs).Reassemble().Gray(p.normLo, p.normHi),
		Watermarked:  g.WithPix(recon).Reassemble().Gray(p.normLo, p.normHi),
		EmbedElapsed: elapsed,
	}, nil
}

// Detect correlates the coefficient responses of a suspect image against
// a watermark field. The original image selects the target coefficients,
// so detection is non-blind. A marked image scores near 1, an unrelated
// one near 0.
func (p *Pipeline) Detect(ctx context.Context, original, suspect image.Image, fld *field.Field) (float64, error) {
	gOrig, origCoeffs, side, err := p.transform(ctx, original)
	if err != nil {
		return 0, err
	}
	_, suspCoeffs, suspSide, err := p.transform(ctx, suspect)
	if err != nil {
		return 0, err
	}
	if side != suspSide || len(origCoeffs) != len(suspCoeffs) {
		return 0, fmt.Errorf("%w: original block side %d, suspect %d", ErrDimensionMismatch, side, suspSide)
	}

	responses := make([]float64, len(origCoeffs))
	values := make([]float64, len(origCoeffs))
	for i := range origCoeffs {
		b := &gOrig.Blocks[i]
		row, col := embed.SelectTarget(origCoeffs[i], side)
		responses[i] = suspCoeffs[i][row*side+col] - origCoeffs[i][row*side+col]
		values[i] = fld.At(b.Row%fld.N, b.Col%fld.N)
	}
	score := stat.Correlation(responses, values, nil)
	if math.IsNaN(score) {
		// zero response variance, no watermark evidence at all
		return 0, nil
	}
	return score, nil
}

// transform runs the shared front of the pipeline: normalize, pad, tile
// and forward-transform every block.
func (p *Pipeline) transform(ctx context.Context, src image.Image) (*grid.Grid, [][]float64, int, error) {
	plane := imgio.FromImage(src, p.normLo, p.normHi)
	padW := imgio.NextMultiple(plane.Width, p.gridSize)
	padH := imgio.NextMultiple(plane.Height, p.gridSize)
	if padW != padH {
		return nil, nil, 0, fmt.Errorf("%w: %dx%d", ErrDimensionMismatch, plane.Width, plane.Height)
	}
	plane = plane.PadTo(padW, padH)

	side := padW / p.gridSize
	if side < 2 {
		return nil, nil, 0, fmt.Errorf("%w: %d blocks per axis over %d pixels", ErrTooSmallImage, p.gridSize, padW)
	}

	g, err := grid.Tile(plane, side, p.policy)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w:%w", ErrDimensionMismatch, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}
	dcos := p.dctCache.New(side)
	coeffs := make([][]float64, len(g.Blocks))
	if err := p.forEach(len(g.Blocks), func(i int) error {
		c, err := dcos.Forward(g.Blocks[i].Pix)
		if err != nil {
			return err
		}
		coeffs[i] = c
		return nil
	}); err != nil {
		return nil, nil, 0, err
	}
	return g, coeffs, side, nil
}

// forEach runs fn over every index with the configured number of
// workers. Each index owns its output slot, so parallel runs reproduce
// the sequential result exactly.
func (p *Pipeline) forEach(total int, fn func(i int) error) error {
	if total == 0 {
		return nil
	}
	workers := p.workers
	if workers > total {
		workers = total
	}
	if workers <= 1 {
		for i := range total {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, total)
	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range idx {
				errs[i] = fn(i)
			}
		}()
	}
	for i := range total {
		idx <- i
	}
	close(idx)
	wg.Wait()
	return errors.Join(errs...)
}
