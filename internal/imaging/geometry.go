package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Size is a width/height pair in pixels.
type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

// Validate reports ErrInvalidGeometry for non-positive dimensions.
func (s Size) Validate() error {
	if s.W <= 0 || s.H <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, s.W, s.H)
	}
	return nil
}

// aspect is height over width, the ratio every fit computation uses.
func (s Size) aspect() float64 {
	return float64(s.H) / float64(s.W)
}

// RegionRect is a rectangle normalized so that Right >= Left and Bottom >= Top.
//
// (Left, Top) is inclusive and (Right, Bottom) is exclusive, so
// Width = Right - Left and Height = Bottom - Top.
type RegionRect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns Right - Left.
func (r RegionRect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r RegionRect) Height() int { return r.Bottom - r.Top }

// Size returns the rectangle's dimensions.
func (r RegionRect) Size() Size { return Size{W: r.Width(), H: r.Height()} }

// Rect converts r to an image.Rectangle.
func (r RegionRect) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Anchor names one of nine reference points of a rectangle. It is used as
// the focal point of thumbnail crops and as the placement preset for
// overlays and text.
type Anchor int

// Anchor values.
const (
	Center Anchor = iota
	Top
	Bottom
	Left
	Right
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

var anchorNames = map[Anchor]string{
	Center:      "center",
	Top:         "top",
	Bottom:      "bottom",
	Left:        "left",
	Right:       "right",
	TopLeft:     "top left",
	TopRight:    "top right",
	BottomLeft:  "bottom left",
	BottomRight: "bottom right",
}

func (a Anchor) String() string {
	if name, ok := anchorNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

// ParseAnchor parses an anchor name. Matching is case-insensitive and
// accepts space, '-' or '_' between words ("top left", "top-left",
// "TOP_LEFT"). The empty string is Center.
func ParseAnchor(s string) (Anchor, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	if key == "" {
		return Center, nil
	}
	for a, name := range anchorNames {
		if name == key {
			return a, nil
		}
	}
	return Center, fmt.Errorf("unknown anchor: %s", s)
}

// BestFit scales cur down to fit inside maxW×maxH while preserving its
// aspect ratio. A size that already fits is returned unchanged; BestFit never
// upscales.
//
// The width is fitted first; if the resulting height still exceeds maxH the
// size is refitted by height. Fractional results are truncated.
func BestFit(cur Size, maxW, maxH int) Size {
	if cur.W <= maxW && cur.H <= maxH {
		return cur
	}

	ar := cur.aspect()
	w, h := float64(cur.W), float64(cur.H)

	if cur.W > maxW {
		w = float64(maxW)
		h = w * ar
	}
	if h > float64(maxH) {
		h = float64(maxH)
		w = h / ar
	}

	return Size{W: int(w), H: int(h)}
}

// FitToWidth returns cur scaled to width w, preserving its aspect ratio.
// There is no upper or lower bound.
func FitToWidth(cur Size, w int) Size {
	return Size{W: w, H: int(float64(w) * cur.aspect())}
}

// FitToHeight returns cur scaled to height h, preserving its aspect ratio.
// There is no upper or lower bound.
func FitToHeight(cur Size, h int) Size {
	return Size{W: int(float64(h) / cur.aspect()), H: h}
}

// ThumbnailPlan computes the two steps of a thumbnail: the size to resize
// cur to, and the w×h region of the resized image to crop.
//
// If the target aspect ratio (h/w) is taller than the current one the image
// is fitted to height h, otherwise to width w, so that the fitted image
// covers the target on both axes. The crop region is then placed according
// to focal: edge anchors pin the named edge and center the other axis,
// corner anchors pin both edges, Center centers both axes. Centering uses
// floor(size/2 - target/2).
func ThumbnailPlan(cur Size, w, h int, focal Anchor) (Size, RegionRect) {
	target := float64(h) / float64(w)

	var fitted Size
	if target > cur.aspect() {
		fitted = FitToHeight(cur, h)
	} else {
		fitted = FitToWidth(cur, w)
	}

	centerX := int(math.Floor(float64(fitted.W)/2 - float64(w)/2))
	centerY := int(math.Floor(float64(fitted.H)/2 - float64(h)/2))
	farX := fitted.W - w
	farY := fitted.H - h

	var left, top int
	switch focal {
	case Top:
		left, top = centerX, 0
	case Bottom:
		left, top = centerX, farY
	case Left:
		left, top = 0, centerY
	case Right:
		left, top = farX, centerY
	case TopLeft:
		left, top = 0, 0
	case TopRight:
		left, top = farX, 0
	case BottomLeft:
		left, top = 0, farY
	case BottomRight:
		left, top = farX, farY
	default:
		left, top = centerX, centerY
	}

	return fitted, RegionRect{Left: left, Top: top, Right: left + w, Bottom: top + h}
}

// CropRect builds a RegionRect from two corner points. Each axis is
// normalized independently, so swapping x1 and x2 (or y1 and y2) yields the
// same rectangle.
func CropRect(x1, y1, x2, y2 int) RegionRect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return RegionRect{Left: x1, Top: y1, Right: x2, Bottom: y2}
}

// placeAt returns the top-left position of a box of size inner placed inside
// outer at anchor a, shifted by the given offsets. Fractional centre
// positions are truncated.
func placeAt(outer, inner Size, a Anchor, xOff, yOff int) image.Point {
	ow, oh := float64(outer.W), float64(outer.H)
	iw, ih := float64(inner.W), float64(inner.H)

	var x, y float64
	switch a {
	case TopLeft:
		x, y = 0, 0
	case TopRight:
		x, y = ow-iw, 0
	case Top:
		x, y = ow/2-iw/2, 0
	case BottomLeft:
		x, y = 0, oh-ih
	case BottomRight:
		x, y = ow-iw, oh-ih
	case Bottom:
		x, y = ow/2-iw/2, oh-ih
	case Left:
		x, y = 0, oh/2-ih/2
	case Right:
		x, y = ow-iw, oh/2-ih/2
	default:
		x, y = ow/2-iw/2, oh/2-ih/2
	}

	return image.Pt(int(x)+xOff, int(y)+yOff)
}
