package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Overlay composites other onto a copy of the document. other is placed at
// position (shifted by the offsets), its alpha is rescaled with Merge at
// opacity (clamped to [0, 1]) and the result is alpha-blended over the
// document. other is only read.
func (d *Document) Overlay(other *Document, position Anchor, opacity float64, xOff, yOff int) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}
	top, err := other.buffer()
	if err != nil {
		return nil, fmt.Errorf("failed to overlay: %w", err)
	}

	opacity = clampFloat(opacity, 0, 1)
	at := placeAt(d.Size(), other.Size(), position, xOff, yOff)

	return d.derive(mergeOver(img, top, at, opacity*100)), nil
}

// mergeOver merges top into a transparent layer at pct and draws that layer
// over a copy of base at pos, so transparent parts of top let base show
// through.
func mergeOver(base, top *image.NRGBA, pos image.Point, pct float64) *image.NRGBA {
	w, h := top.Rect.Dx(), top.Rect.Dy()
	layer := imaging.New(w, h, transparent)
	Merge(layer, top, 0, 0, 0, 0, w, h, pct)
	return imaging.Overlay(base, layer, pos, 1)
}

// Opacity makes the whole document more transparent. o is clamped to
// [0, 1]; 1 keeps the image as is and 0 makes it fully transparent. Pixels
// keep their transparency relative to each other.
func (d *Document) Opacity(o float64) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}

	b := img.Rect
	layer := imaging.New(b.Dx(), b.Dy(), Color{A: MaxAlpha}.NRGBA())
	Merge(layer, img, 0, 0, 0, 0, b.Dx(), b.Dy(), clampFloat(o, 0, 1)*100)
	return d.derive(layer), nil
}

// Desaturate converts the document to grayscale. Below 100 percent a
// grayscale copy is merged over the original at that percentage.
func (d *Document) Desaturate(percent float64) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}

	gray := imaging.Grayscale(img)
	if percent >= 100 {
		return d.derive(gray), nil
	}

	return d.derive(mergeOver(img, gray, image.Point{}, clampFloat(percent, 0, 100))), nil
}

// Fill replaces every pixel with c, alpha included.
func (d *Document) Fill(c any) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}
	fill, err := Normalize(c)
	if err != nil {
		return nil, fmt.Errorf("failed to fill: %w", err)
	}
	return d.derive(imaging.New(img.Rect.Dx(), img.Rect.Dy(), fill.NRGBA())), nil
}

// Text draws run onto a copy of the document using the Config's fonts.
func (d *Document) Text(run TextRun) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}

	out := imaging.Clone(img)
	if err := DrawText(out, run, d.cfg.Fonts); err != nil {
		return nil, fmt.Errorf("failed to draw text: %w", err)
	}
	return d.derive(out), nil
}
