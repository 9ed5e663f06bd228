package spreadmark_test

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"spreadmark"
	"spreadmark/internal/field"
)

func ExampleNew() {
	// Create a simple gradient image (64x64 pixels)
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) * 2)})
		}
	}

	// Draw the watermark field from a seeded source so the run is
	// reproducible
	fld, err := field.New(field.NewLocal(1), 8)
	if err != nil {
		fmt.Printf("Error generating field: %v\n", err)
		return
	}

	p, err := spreadmark.New(
		spreadmark.WithGridSize(8),
		spreadmark.WithAlpha(0.5),
		spreadmark.WithField(fld),
	)
	if err != nil {
		fmt.Printf("Error creating pipeline: %v\n", err)
		return
	}

	ctx := context.Background()
	res, err := p.Run(ctx, img)
	if err != nil {
		fmt.Printf("Error embedding watermark: %v\n", err)
		return
	}

	score, err := p.Detect(ctx, img, res.Watermarked, fld)
	if err != nil {
		fmt.Printf("Error detecting watermark: %v\n", err)
		return
	}

	bounds := res.Watermarked.Bounds()
	fmt.Printf("Watermarked: %dx%d\n", bounds.Dx(), bounds.Dy())
	fmt.Printf("Detected: %v\n", score > 0.9)

	// Output:
	// Watermarked: 64x64
	// Detected: true
}
