// Package imgio converts between image.Image and the float planes the
// watermarking pipeline operates on.
package imgio

import (
	"image"
	"image/draw"
	_ "image/jpeg" // register decoder
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ErrDecode reports an input that could not be read as an image.
var ErrDecode = errors.New("imgio: cannot decode image")

// Plane is a grayscale image held as a row-major grid of float samples,
// normalized to the range it was constructed with ([0,1] by default).
type Plane struct {
	Width, Height int
	Pix           []float64
}

func NewPlane(width, height int) *Plane {
	return &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// Decode reads a single image from r.
func Decode(r io.Reader) (image.Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%v", err)
	}
	return src, nil
}

// FromImage converts src to a grayscale plane with intensities mapped
// linearly from [0,255] to [lo,hi]. The draw package handles the color
// model conversion for non-gray inputs.
func FromImage(src image.Image, lo, hi float64) *Plane {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, src, bounds.Min, draw.Src)

	p := NewPlane(bounds.Dx(), bounds.Dy())
	idx := 0
	for y := range p.Height {
		for x := range p.Width {
			p.Pix[idx] = float64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y) / 255.0
			idx++
		}
	}
	if lo != 0 || hi != 1 {
		floats.Scale(hi-lo, p.Pix)
		floats.AddConst(lo, p.Pix)
	}
	return p
}

// Gray renders the plane as an 8-bit grayscale image, mapping [lo,hi]
// back to [0,255]. Samples outside the range saturate.
func (p *Plane) Gray(lo, hi float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	scale := 255.0 / (hi - lo)
	for i, v := range p.Pix {
		img.Pix[i] = clamp8((v - lo) * scale)
	}
	return img
}

// PadTo returns a copy of the plane grown to width x height, zero samples
// filling the new right and bottom border. Axes already at least as large
// are left unchanged.
func (p *Plane) PadTo(width, height int) *Plane {
	if width < p.Width {
		width = p.Width
	}
	if height < p.Height {
		height = p.Height
	}
	if width == p.Width && height == p.Height {
		return p
	}
	dst := NewPlane(width, height)
	for y := range p.Height {
		copy(dst.Pix[y*width:y*width+p.Width], p.Pix[y*p.Width:(y+1)*p.Width])
	}
	return dst
}

// NextMultiple rounds dim up to the nearest multiple of step.
func NextMultiple(dim, step int) int {
	if rem := dim % step; rem != 0 {
		return dim + step - rem
	}
	return dim
}

// WritePNG writes img to path, creating or truncating the file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()
	return errors.Wrap(png.Encode(f, img), "encode png")
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
