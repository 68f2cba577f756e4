package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"
)

// TextBox holds the measured extent of a string.
type TextBox struct {
	// Width and Height are the ink bounding box in pixels.
	Width  int
	Height int

	// Advance is the horizontal distance the pen moves after drawing the
	// string, in pixels.
	Advance int
}

// FontFace measures and draws text in one font at one size.
type FontFace interface {
	// Measure returns the extent of text.
	Measure(text string) TextBox

	// Draw renders text with its baseline origin at (x, y).
	Draw(dst draw.Image, x, y int, c color.Color, text string)
}

// FontProvider resolves a font reference and size to a FontFace.
//
// Faces that implement io.Closer are closed once a text run is rendered.
type FontProvider interface {
	Face(ref string, size float64) (FontFace, error)
}

// Alignment pins a text run horizontally to an edge of the image.
type Alignment int

// Alignment values. AlignNone keeps the horizontal placement of the
// position preset.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignRight
)

// ParseAlignment parses "", "none", "left" or "right".
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AlignNone, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	}
	return AlignNone, fmt.Errorf("unknown alignment: %s", s)
}

// TextRun describes one piece of text to render.
type TextRun struct {
	Text string

	// Font is the font reference handed to the FontProvider; empty selects
	// the provider's built-in face.
	Font string

	// Size is the font size in points.
	Size float64

	// Colors is the fill color sequence. A single entry fills the whole run;
	// several entries are cycled per visible glyph. Empty means black.
	Colors []Color

	// StrokeColors is the optional stroke color sequence, cycled
	// independently of Colors. Empty disables the stroke.
	StrokeColors []Color

	// StrokeWidth is the stroke radius in pixels.
	StrokeWidth int

	Position Anchor
	OffsetX  int
	OffsetY  int
	Align    Alignment

	// LetterSpacing is extra space in pixels added after every glyph.
	LetterSpacing int
}

// perGlyph reports whether the run must be drawn one glyph at a time.
func (r TextRun) perGlyph() bool {
	return len(r.Colors) > 1 || len(r.StrokeColors) > 1 || r.LetterSpacing != 0
}

// TextOrigin computes the baseline origin of a run measured as box inside a
// canvas of the given size.
//
// The nine position presets place the text box visually: because text is
// drawn from its baseline, every preset adds box.Height to the vertical
// position so the top presets start below the top edge. AlignLeft and
// AlignRight then replace the horizontal position with the left edge or
// with canvas width minus box.Width. Offsets apply in every case.
func TextOrigin(canvas Size, box TextBox, run TextRun) image.Point {
	w, h := float64(canvas.W), float64(canvas.H)
	bw, bh := float64(box.Width), float64(box.Height)
	ox, oy := float64(run.OffsetX), float64(run.OffsetY)

	var x, y float64
	switch run.Position {
	case TopLeft:
		x, y = ox, oy+bh
	case TopRight:
		x, y = w-bw+ox, oy+bh
	case Top:
		x, y = w/2-bw/2+ox, oy+bh
	case BottomLeft:
		x, y = ox, h-bh+oy+bh
	case BottomRight:
		x, y = w-bw+ox, h-bh+oy+bh
	case Bottom:
		x, y = w/2-bw/2+ox, h-bh+oy+bh
	case Left:
		x, y = ox, h/2-(bh/2-bh)+oy
	case Right:
		x, y = w-bw+ox, h/2-(bh/2-bh)+oy
	default:
		x, y = w/2-bw/2+ox, h/2-(bh/2-bh)+oy
	}

	switch run.Align {
	case AlignLeft:
		x = ox
	case AlignRight:
		x = w - bw + ox
	}

	return image.Pt(int(x), int(y))
}

// DrawText renders run onto dst.
//
// The whole string is measured first to place it (see TextOrigin). Then:
//   - one fill color, no stroke: the string is drawn once;
//   - one fill color with a stroke: the string is drawn in the stroke color
//     at every offset in [-w,+w]² around the origin, then once in the fill
//     color on top;
//   - several fill or stroke colors, or non-zero letter spacing: glyphs are
//     drawn one by one from left to right. Each glyph after the first moves
//     the pen by the previous glyph's advance plus LetterSpacing. The
//     space character moves the pen but is not drawn and does not consume
//     a color; other whitespace is drawn like any glyph. Fill and stroke
//     sequences wrap independently.
//
// Errors from the provider are returned wrapping ErrFontLoadFailed; dst is
// not modified in that case.
func DrawText(dst draw.Image, run TextRun, fonts FontProvider) error {
	if fonts == nil {
		return fmt.Errorf("%w: no font provider configured", ErrFontLoadFailed)
	}
	face, err := fonts.Face(run.Font, run.Size)
	if err != nil {
		if errors.Is(err, ErrFontLoadFailed) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrFontLoadFailed, run.Font, err)
	}
	if closer, ok := face.(io.Closer); ok {
		defer closer.Close()
	}

	b := dst.Bounds()
	box := face.Measure(run.Text)
	origin := TextOrigin(Size{W: b.Dx(), H: b.Dy()}, box, run)
	origin = origin.Add(b.Min)

	fill := run.Colors
	if len(fill) == 0 {
		fill = []Color{{}}
	}

	if !run.perGlyph() {
		if len(run.StrokeColors) > 0 {
			drawStroked(dst, face, origin.X, origin.Y, fill[0], run.StrokeColors[0], run.StrokeWidth, run.Text)
		} else {
			face.Draw(dst, origin.X, origin.Y, fill[0], run.Text)
		}
		return nil
	}

	glyphs := []rune(run.Text)
	x := origin.X
	fi, si := 0, 0
	for i, g := range glyphs {
		if i > 0 {
			x += face.Measure(string(glyphs[i-1])).Advance + run.LetterSpacing
		}
		if g == ' ' {
			continue
		}

		if len(run.StrokeColors) > 0 {
			drawStroked(dst, face, x, origin.Y, fill[fi], run.StrokeColors[si], run.StrokeWidth, string(g))
			si = (si + 1) % len(run.StrokeColors)
		} else {
			face.Draw(dst, x, origin.Y, fill[fi], string(g))
		}
		fi = (fi + 1) % len(fill)
	}
	return nil
}

// drawStroked draws text in the stroke color at every integer offset within
// width of (x, y), then draws the fill on top.
func drawStroked(dst draw.Image, face FontFace, x, y int, fill, stroke Color, width int, text string) {
	if width < 0 {
		width = -width
	}
	for dx := -width; dx <= width; dx++ {
		for dy := -width; dy <= width; dy++ {
			face.Draw(dst, x+dx, y+dy, stroke, text)
		}
	}
	face.Draw(dst, x, y, fill, text)
}
