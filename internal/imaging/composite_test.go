package imaging

import (
	"image"
	"image/color"
	"testing"
)

// fillNRGBA creates a w×h buffer filled with c.
func fillNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestMergedAlpha(t *testing.T) {
	tests := []struct {
		name     string
		alpha    uint8
		minAlpha uint8
		p        float64
		want     uint8
	}{
		{"opaque at full opacity", 0, 0, 1, 0},
		{"half transparent at full opacity", 64, 0, 1, 64},
		{"transparent stays transparent", 127, 0, 1, 127},
		{"opaque at zero opacity", 0, 0, 0, 127},
		{"opaque at half opacity", 0, 0, 0.5, 63},
		{"rescaled to most opaque", 64, 64, 1, 0},
		{"all transparent branch", 127, 127, 1, 127},
		{"all transparent branch at zero", 127, 127, 0, 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergedAlpha(tt.alpha, tt.minAlpha, tt.p)
			if got != tt.want {
				t.Errorf("mergedAlpha(%d, %d, %v) = %d, want %d", tt.alpha, tt.minAlpha, tt.p, got, tt.want)
			}
		})
	}
}

func TestMerge_FullOpacityKeepsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, Color{R: 10, A: 0}.NRGBA())
	src.SetNRGBA(1, 0, Color{G: 20, A: 64}.NRGBA())
	dst := fillNRGBA(4, 4, color.NRGBA{255, 255, 255, 255})

	Merge(dst, src, 1, 1, 0, 0, 2, 1, 100)

	if got := FromNRGBA(dst.NRGBAAt(1, 1)); got != (Color{R: 10, A: 0}) {
		t.Errorf("pixel (1,1): got %+v", got)
	}
	if got := FromNRGBA(dst.NRGBAAt(2, 1)); got != (Color{G: 20, A: 64}) {
		t.Errorf("pixel (2,1): got %+v", got)
	}
	// Outside the window nothing changes.
	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (0,0) changed: %+v", got)
	}
}

func TestMerge_FullOpacityCopiesExactly(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	src.SetNRGBA(1, 0, color.NRGBA{40, 50, 60, 200})

	t.Run("merge", func(t *testing.T) {
		dst := fillNRGBA(2, 1, color.NRGBA{255, 255, 255, 255})
		Merge(dst, src, 0, 0, 0, 0, 2, 1, 100)
		for x := 0; x < 2; x++ {
			if got, want := dst.NRGBAAt(x, 0), src.NRGBAAt(x, 0); got != want {
				t.Errorf("pixel (%d,0): got %v, want %v", x, got, want)
			}
		}
	})

	t.Run("opacity", func(t *testing.T) {
		out, err := newDocument(src, Info{Format: FormatPNG}, DefaultConfig()).Opacity(1)
		if err != nil {
			t.Fatalf("Opacity failed: %v", err)
		}
		for x := 0; x < 2; x++ {
			if got, want := out.img.NRGBAAt(x, 0), src.NRGBAAt(x, 0); got != want {
				t.Errorf("pixel (%d,0): got %v, want %v", x, got, want)
			}
		}
	})
}

func TestMerge_AllTransparent(t *testing.T) {
	src := fillNRGBA(3, 3, color.NRGBA{1, 2, 3, 0})
	dst := fillNRGBA(3, 3, color.NRGBA{255, 0, 0, 255})

	Merge(dst, src, 0, 0, 0, 0, 3, 3, 100)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if a := FromNRGBA(dst.NRGBAAt(x, y)).A; a != MaxAlpha {
				t.Fatalf("pixel (%d,%d) alpha = %d, want %d", x, y, a, MaxAlpha)
			}
		}
	}
}

func TestMerge_ZeroOpacityIsTransparent(t *testing.T) {
	src := fillNRGBA(2, 2, color.NRGBA{9, 9, 9, 255})
	dst := fillNRGBA(2, 2, color.NRGBA{0, 0, 0, 255})

	Merge(dst, src, 0, 0, 0, 0, 2, 2, 0)

	if a := FromNRGBA(dst.NRGBAAt(0, 0)).A; a != MaxAlpha {
		t.Errorf("alpha = %d, want %d", a, MaxAlpha)
	}
}

func TestMerge_SourceUnchanged(t *testing.T) {
	src := fillNRGBA(4, 4, color.NRGBA{100, 100, 100, 200})
	before := append([]uint8(nil), src.Pix...)
	dst := fillNRGBA(4, 4, color.NRGBA{})

	Merge(dst, src, 0, 0, 0, 0, 4, 4, 50)

	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatalf("source modified at byte %d", i)
		}
	}
}

func TestMerge_ClipsToBounds(t *testing.T) {
	src := fillNRGBA(4, 4, color.NRGBA{0, 0, 255, 255})
	dst := fillNRGBA(4, 4, color.NRGBA{255, 0, 0, 255})

	// Window hangs off the bottom-right corner of dst.
	Merge(dst, src, 2, 2, 0, 0, 4, 4, 100)

	if got := dst.NRGBAAt(3, 3); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel (3,3): got %+v, want blue", got)
	}
	if got := dst.NRGBAAt(1, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel (1,1): got %+v, want red", got)
	}
}

func TestMerge_ZeroAreaIsNoop(t *testing.T) {
	src := fillNRGBA(2, 2, color.NRGBA{0, 0, 255, 255})
	dst := fillNRGBA(2, 2, color.NRGBA{255, 0, 0, 255})

	Merge(dst, src, 0, 0, 0, 0, 0, 2, 100)

	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel changed: %+v", got)
	}
}
