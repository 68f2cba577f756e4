package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
)

// DefaultGridSpacing is the line spacing used when Grid is given zero.
const DefaultGridSpacing = 50

// GridOptions configures Grid.
type GridOptions struct {
	// Spacing is the distance between grid lines in pixels.
	Spacing int

	// Color is the line color; nil means semi-transparent red.
	Color any

	// Labels draws "x,y" at every intersection using the document's fonts.
	Labels bool

	// LabelSize is the label font size in points. Zero means 9.
	LabelSize float64
}

// Grid draws a coordinate grid over a copy of the document. It is meant as
// a placement aid for Crop, Overlay offsets and Text positions.
//
// Lines are alpha-blended over the image, so a translucent grid color keeps
// the picture visible underneath. Labels are white on a translucent black
// box, drawn just inside the bottom-right of each intersection.
func (d *Document) Grid(opts GridOptions) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}

	spacing := opts.Spacing
	if spacing == 0 {
		spacing = DefaultGridSpacing
	}
	if spacing < 0 {
		return nil, fmt.Errorf("%w: grid spacing %d", ErrInvalidGeometry, spacing)
	}

	lineColor := Color{R: 255, A: 64}
	if opts.Color != nil {
		if lineColor, err = Normalize(opts.Color); err != nil {
			return nil, fmt.Errorf("failed to draw grid: %w", err)
		}
	}

	out := imaging.Clone(img)
	b := out.Rect
	line := image.NewUniform(lineColor)

	for x := spacing; x < b.Dx(); x += spacing {
		r := image.Rect(x, 0, x+1, b.Dy()).Add(b.Min)
		draw.Draw(out, r, line, image.Point{}, draw.Over)
	}
	for y := spacing; y < b.Dy(); y += spacing {
		r := image.Rect(0, y, b.Dx(), y+1).Add(b.Min)
		draw.Draw(out, r, line, image.Point{}, draw.Over)
	}

	if opts.Labels {
		if err := d.gridLabels(out, spacing, opts.LabelSize); err != nil {
			return nil, err
		}
	}
	return d.derive(out), nil
}

func (d *Document) gridLabels(dst *image.NRGBA, spacing int, size float64) error {
	if size == 0 {
		size = 9
	}
	if d.cfg.Fonts == nil {
		return fmt.Errorf("%w: no font provider configured", ErrFontLoadFailed)
	}
	face, err := d.cfg.Fonts.Face("", size)
	if err != nil {
		return fmt.Errorf("failed to draw grid labels: %w", err)
	}
	if closer, ok := face.(io.Closer); ok {
		defer closer.Close()
	}

	b := dst.Rect
	fg := Color{R: 255, G: 255, B: 255}
	bg := image.NewUniform(Color{A: 40})

	for y := spacing; y < b.Dy(); y += spacing {
		for x := spacing; x < b.Dx(); x += spacing {
			label := fmt.Sprintf("%d,%d", x, y)
			box := face.Measure(label)
			at := b.Min.Add(image.Pt(x+2, y+2))
			draw.Draw(dst, image.Rect(at.X-1, at.Y-1, at.X+box.Width+1, at.Y+box.Height+1), bg, image.Point{}, draw.Over)
			face.Draw(dst, at.X, at.Y+box.Height, fg, label)
		}
	}
	return nil
}
