package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Merge copies a window of src onto dst at the given opacity while keeping
// the relative transparency of the source pixels.
//
// Parameters:
//   - dst: Destination buffer, modified in place.
//   - src: Source image. It is read, never written.
//   - dstX, dstY: Top-left destination position, relative to dst's origin.
//   - srcX, srcY, srcW, srcH: Source window, relative to src's origin.
//   - pct: Opacity percentage, clamped to [0,100].
//
// # Algorithm
//
// With p = pct/100 the window is processed in two passes:
//
//  1. Scan every pixel of the window for the smallest alpha (the most
//     opaque pixel), min_alpha. Nothing is written during this pass.
//  2. Rewrite each pixel's alpha, leaving RGB untouched:
//     alpha' = 127 + 127·p·(alpha−127)/(127−min_alpha), or, when every pixel
//     is fully transparent, alpha' = alpha + 127·p. The result is clamped
//     to [0,127] and truncated.
//
// Pixels whose 7-bit alpha is unchanged are copied with their original
// 8-bit alpha, so pct = 100 over a window containing an opaque pixel copies
// the source exactly.
//
// The rewritten window then replaces the destination pixels (RGBA is
// overwritten, not blended). The parts of the window that fall outside
// either image are skipped; a zero-area window is a no-op.
//
// # Performance
//
// Both passes are O(w·h). This is the hot path for overlays on large
// buffers, so the per-pixel rewrite runs in parallel across rows.
func Merge(dst *image.NRGBA, src image.Image, dstX, dstY, srcX, srcY, srcW, srcH int, pct float64) {
	sb := src.Bounds()
	window := image.Rect(srcX, srcY, srcX+srcW, srcY+srcH).Add(sb.Min).Intersect(sb)
	if window.Empty() {
		return
	}

	// Work on a copy so the operand stays read-only.
	layer := imaging.Crop(src, window)
	w, h := layer.Rect.Dx(), layer.Rect.Dy()

	p := pct
	if p < 0 {
		p = 0
	} else if p > 100 {
		p = 100
	}
	p /= 100

	minAlpha := uint8(MaxAlpha)
	for y := 0; y < h && minAlpha > 0; y++ {
		row := layer.Pix[y*layer.Stride : y*layer.Stride+w*4]
		for x := 3; x < len(row); x += 4 {
			if a := alphaFromNRGBA(row[x]); a < minAlpha {
				minAlpha = a
			}
		}
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := layer.Pix[y*layer.Stride : y*layer.Stride+w*4]
			for x := 3; x < len(row); x += 4 {
				old := alphaFromNRGBA(row[x])
				// Unchanged pixels keep their 8-bit alpha byte.
				if a := mergedAlpha(old, minAlpha, p); a != old {
					row[x] = alphaToNRGBA(a)
				}
			}
		}
	})

	// A window clipped on its top/left edge shifts the paste position too.
	shift := window.Min.Sub(sb.Min).Sub(image.Pt(srcX, srcY))
	origin := dst.Rect.Min.Add(image.Pt(dstX, dstY)).Add(shift)
	target := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}.Intersect(dst.Rect)
	if target.Empty() {
		return
	}

	n := target.Dx() * 4
	for y := target.Min.Y; y < target.Max.Y; y++ {
		si := layer.PixOffset(target.Min.X-origin.X, y-origin.Y)
		di := dst.PixOffset(target.Min.X, y)
		copy(dst.Pix[di:di+n], layer.Pix[si:si+n])
	}
}

// mergedAlpha rescales one pixel's distance from fully transparent.
func mergedAlpha(alpha, minAlpha uint8, p float64) uint8 {
	var v float64
	if minAlpha != MaxAlpha {
		v = MaxAlpha + MaxAlpha*p*(float64(alpha)-MaxAlpha)/(MaxAlpha-float64(minAlpha))
	} else {
		v = float64(alpha) + MaxAlpha*p
	}
	if v < 0 {
		v = 0
	} else if v > MaxAlpha {
		v = MaxAlpha
	}
	return uint8(v)
}
