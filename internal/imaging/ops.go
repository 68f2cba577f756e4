package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Resize scales the document to exactly width×height, ignoring the aspect
// ratio. The resampling filter comes from the document's Config.
func (d *Document) Resize(width, height int) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}
	if err := (Size{W: width, H: height}).Validate(); err != nil {
		return nil, fmt.Errorf("failed to resize: %w", err)
	}
	return d.derive(imaging.Resize(img, width, height, d.cfg.filter())), nil
}

func (d *Document) resizeTo(s Size) (*Document, error) {
	return d.Resize(s.W, s.H)
}

// BestFit shrinks the document to fit inside maxWidth×maxHeight, keeping its
// aspect ratio. A document that already fits is returned as an unchanged
// copy.
func (d *Document) BestFit(maxWidth, maxHeight int) (*Document, error) {
	if _, err := d.buffer(); err != nil {
		return nil, err
	}
	if err := (Size{W: maxWidth, H: maxHeight}).Validate(); err != nil {
		return nil, fmt.Errorf("failed to fit: %w", err)
	}
	cur := d.Size()
	fit := BestFit(cur, maxWidth, maxHeight)
	if fit == cur {
		return d.derive(imaging.Clone(d.img)), nil
	}
	return d.resizeTo(fit)
}

// FitToWidth scales the document to the given width, keeping its aspect
// ratio.
func (d *Document) FitToWidth(width int) (*Document, error) {
	if _, err := d.buffer(); err != nil {
		return nil, err
	}
	return d.resizeTo(FitToWidth(d.Size(), width))
}

// FitToHeight scales the document to the given height, keeping its aspect
// ratio.
func (d *Document) FitToHeight(height int) (*Document, error) {
	if _, err := d.buffer(); err != nil {
		return nil, err
	}
	return d.resizeTo(FitToHeight(d.Size(), height))
}

// Thumbnail produces an exact width×height image. The document is first
// scaled so it covers the target on both axes, then the overflow is cropped
// away around focal (see ThumbnailPlan). A zero height makes a square
// thumbnail.
func (d *Document) Thumbnail(width, height int, focal Anchor) (*Document, error) {
	if _, err := d.buffer(); err != nil {
		return nil, err
	}
	if height == 0 {
		height = width
	}
	if err := (Size{W: width, H: height}).Validate(); err != nil {
		return nil, fmt.Errorf("failed to thumbnail: %w", err)
	}

	fitted, region := ThumbnailPlan(d.Size(), width, height, focal)
	scaled, err := d.resizeTo(fitted)
	if err != nil {
		return nil, fmt.Errorf("failed to thumbnail: %w", err)
	}
	defer scaled.Close()

	return scaled.crop(region)
}

// AdaptiveResize is Thumbnail with a centred focal point.
func (d *Document) AdaptiveResize(width, height int) (*Document, error) {
	return d.Thumbnail(width, height, Center)
}

// Crop cuts out the rectangle with corners (x1, y1) and (x2, y2). The
// corners may be given in any order. Parts of the rectangle outside the
// image are transparent.
func (d *Document) Crop(x1, y1, x2, y2 int) (*Document, error) {
	if _, err := d.buffer(); err != nil {
		return nil, err
	}
	return d.crop(CropRect(x1, y1, x2, y2))
}

func (d *Document) crop(r RegionRect) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}
	if err := r.Size().Validate(); err != nil {
		return nil, fmt.Errorf("failed to crop: %w", err)
	}

	rect := r.Rect().Add(img.Rect.Min)
	if rect.In(img.Rect) {
		return d.derive(imaging.Crop(img, rect)), nil
	}

	canvas := imaging.New(r.Width(), r.Height(), transparent)
	return d.derive(imaging.Paste(canvas, img, image.Pt(-r.Left, -r.Top))), nil
}

// Rotate turns the document clockwise by angle degrees. The angle is
// clamped to [-360, 360]. Corners uncovered by the rotation are filled with
// bg; a nil bg is opaque black.
func (d *Document) Rotate(angle float64, bg any) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}

	c := Color{}
	if bg != nil {
		if c, err = Normalize(bg); err != nil {
			return nil, fmt.Errorf("failed to rotate: %w", err)
		}
	}

	angle = clampFloat(angle, -360, 360)
	return d.derive(imaging.Rotate(img, -angle, c.NRGBA())), nil
}

// Flip mirrors the document. "x" flips horizontally, "y" vertically and
// "both" does both.
func (d *Document) Flip(direction string) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "x", "horizontal":
		return d.derive(imaging.FlipH(img)), nil
	case "y", "vertical":
		return d.derive(imaging.FlipV(img)), nil
	case "both", "xy":
		return d.derive(imaging.Rotate180(img)), nil
	}
	return nil, fmt.Errorf("unknown flip direction: %s", direction)
}

// Orient applies the transformation for an EXIF orientation tag (1-8) so
// that the image displays upright without the tag. Tag 1 and unknown tags
// return an unchanged copy.
func (d *Document) Orient(tag int) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}

	var out *image.NRGBA
	switch tag {
	case 2:
		out = imaging.FlipH(img)
	case 3:
		out = imaging.Rotate180(img)
	case 4:
		out = imaging.FlipV(img)
	case 5:
		out = imaging.Transpose(img)
	case 6:
		out = imaging.Rotate270(img)
	case 7:
		out = imaging.Transverse(img)
	case 8:
		out = imaging.Rotate90(img)
	default:
		out = imaging.Clone(img)
	}
	return d.derive(out), nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
