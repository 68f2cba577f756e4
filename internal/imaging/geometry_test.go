package imaging

import (
	"errors"
	"image"
	"testing"
)

func TestBestFit(t *testing.T) {
	tests := []struct {
		name       string
		cur        Size
		maxW, maxH int
		want       Size
	}{
		{"already fits", Size{100, 50}, 200, 200, Size{100, 50}},
		{"exact fit", Size{200, 100}, 200, 100, Size{200, 100}},
		{"width first, no refit", Size{200, 100}, 50, 50, Size{50, 25}},
		{"width then height", Size{100, 200}, 50, 50, Size{25, 50}},
		{"only height too big", Size{100, 400}, 200, 100, Size{25, 100}},
		{"truncates", Size{300, 200}, 100, 100, Size{100, 66}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestFit(tt.cur, tt.maxW, tt.maxH)
			if got != tt.want {
				t.Errorf("BestFit(%v, %d, %d) = %v, want %v", tt.cur, tt.maxW, tt.maxH, got, tt.want)
			}
			if got.W > tt.cur.W || got.H > tt.cur.H {
				t.Errorf("BestFit upscaled %v to %v", tt.cur, got)
			}
		})
	}
}

func TestFitToWidthAndHeight(t *testing.T) {
	cur := Size{400, 200}

	if got := FitToWidth(cur, 100); got != (Size{100, 50}) {
		t.Errorf("FitToWidth: got %v, want 100x50", got)
	}
	if got := FitToWidth(cur, 800); got != (Size{800, 400}) {
		t.Errorf("FitToWidth upscaling: got %v, want 800x400", got)
	}
	if got := FitToHeight(cur, 100); got != (Size{200, 100}) {
		t.Errorf("FitToHeight: got %v, want 200x100", got)
	}
}

func TestThumbnailPlan(t *testing.T) {
	tests := []struct {
		name       string
		cur        Size
		w, h       int
		focal      Anchor
		wantFitted Size
		wantRect   RegionRect
	}{
		{"landscape center", Size{400, 200}, 100, 100, Center, Size{200, 100}, RegionRect{50, 0, 150, 100}},
		{"landscape left", Size{400, 200}, 100, 100, Left, Size{200, 100}, RegionRect{0, 0, 100, 100}},
		{"landscape right", Size{400, 200}, 100, 100, Right, Size{200, 100}, RegionRect{100, 0, 200, 100}},
		{"portrait center", Size{200, 400}, 100, 100, Center, Size{100, 200}, RegionRect{0, 50, 100, 150}},
		{"portrait top", Size{200, 400}, 100, 100, Top, Size{100, 200}, RegionRect{0, 0, 100, 100}},
		{"portrait bottom", Size{200, 400}, 100, 100, Bottom, Size{100, 200}, RegionRect{0, 100, 100, 200}},
		{"bottom right corner", Size{400, 200}, 100, 100, BottomRight, Size{200, 100}, RegionRect{100, 0, 200, 100}},
		{"same aspect", Size{400, 200}, 200, 100, Center, Size{200, 100}, RegionRect{0, 0, 200, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fitted, rect := ThumbnailPlan(tt.cur, tt.w, tt.h, tt.focal)
			if fitted != tt.wantFitted {
				t.Errorf("fitted: got %v, want %v", fitted, tt.wantFitted)
			}
			if rect != tt.wantRect {
				t.Errorf("rect: got %+v, want %+v", rect, tt.wantRect)
			}
			if rect.Width() != tt.w || rect.Height() != tt.h {
				t.Errorf("rect size: got %dx%d, want %dx%d", rect.Width(), rect.Height(), tt.w, tt.h)
			}
		})
	}
}

func TestCropRect_SwappedCorners(t *testing.T) {
	want := CropRect(10, 20, 30, 40)
	if got := CropRect(30, 20, 10, 40); got != want {
		t.Errorf("swapped x: got %+v, want %+v", got, want)
	}
	if got := CropRect(10, 40, 30, 20); got != want {
		t.Errorf("swapped y: got %+v, want %+v", got, want)
	}
	if want.Width() != 20 || want.Height() != 20 {
		t.Errorf("size: got %dx%d, want 20x20", want.Width(), want.Height())
	}
}

func TestSize_Validate(t *testing.T) {
	if err := (Size{1, 1}).Validate(); err != nil {
		t.Errorf("1x1 should be valid: %v", err)
	}
	for _, s := range []Size{{0, 10}, {10, 0}, {-1, 5}} {
		if err := s.Validate(); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("%v: expected ErrInvalidGeometry, got %v", s, err)
		}
	}
}

func TestParseAnchor(t *testing.T) {
	tests := []struct {
		in   string
		want Anchor
	}{
		{"", Center},
		{"center", Center},
		{"top", Top},
		{"Top Left", TopLeft},
		{"top-right", TopRight},
		{"BOTTOM_LEFT", BottomLeft},
		{"  bottom   right ", BottomRight},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAnchor(tt.in)
			if err != nil {
				t.Fatalf("ParseAnchor(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAnchor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseAnchor("middle"); err == nil {
		t.Error("ParseAnchor should reject unknown names")
	}
}

func TestPlaceAt(t *testing.T) {
	outer, inner := Size{100, 50}, Size{20, 10}

	tests := []struct {
		anchor Anchor
		want   image.Point
	}{
		{Center, image.Pt(40, 20)},
		{TopLeft, image.Pt(0, 0)},
		{TopRight, image.Pt(80, 0)},
		{BottomLeft, image.Pt(0, 40)},
		{BottomRight, image.Pt(80, 40)},
		{Top, image.Pt(40, 0)},
		{Bottom, image.Pt(40, 40)},
		{Left, image.Pt(0, 20)},
		{Right, image.Pt(80, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			if got := placeAt(outer, inner, tt.anchor, 0, 0); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if got := placeAt(outer, inner, TopLeft, 5, -3); got != image.Pt(5, -3) {
		t.Errorf("offsets: got %v, want (5,-3)", got)
	}
}

func TestNamedRegion(t *testing.T) {
	s := Size{100, 80}

	tests := []struct {
		name string
		want RegionRect
	}{
		{"top-left", RegionRect{0, 0, 50, 40}},
		{"bottom right", RegionRect{50, 40, 100, 80}},
		{"left_half", RegionRect{0, 0, 50, 80}},
		{"center", RegionRect{25, 20, 75, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamedRegion(s, tt.name)
			if err != nil {
				t.Fatalf("NamedRegion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := NamedRegion(s, "nowhere"); err == nil {
		t.Error("NamedRegion should reject unknown names")
	}
}
