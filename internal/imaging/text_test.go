package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// drawCall records one FontFace.Draw invocation.
type drawCall struct {
	x, y  int
	color Color
	text  string
}

// fakeFace measures every rune as 10 px wide with an 8 px advance and a
// 12 px tall box, and records draw calls instead of rasterizing.
type fakeFace struct {
	calls  []drawCall
	closed bool
}

func (f *fakeFace) Measure(text string) TextBox {
	n := len([]rune(text))
	return TextBox{Width: 10 * n, Height: 12, Advance: 8 * n}
}

func (f *fakeFace) Draw(dst draw.Image, x, y int, c color.Color, text string) {
	f.calls = append(f.calls, drawCall{x: x, y: y, color: c.(Color), text: text})
}

func (f *fakeFace) Close() error {
	f.closed = true
	return nil
}

type fakeFonts struct {
	face *fakeFace
	err  error
}

func (p *fakeFonts) Face(ref string, size float64) (FontFace, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.face, nil
}

var (
	red   = Color{R: 255}
	green = Color{G: 255}
	blue  = Color{B: 255}
	black = Color{}
)

func TestDrawText_ColorCycling(t *testing.T) {
	face := &fakeFace{}
	dst := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	run := TextRun{Text: "ABC", Colors: []Color{red, green}, Position: TopLeft, LetterSpacing: 2}

	if err := DrawText(dst, run, &fakeFonts{face: face}); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}

	want := []drawCall{
		{0, 12, red, "A"},
		{10, 12, green, "B"},
		{20, 12, red, "C"},
	}
	if len(face.calls) != len(want) {
		t.Fatalf("got %d draw calls, want %d: %+v", len(face.calls), len(want), face.calls)
	}
	for i := range want {
		if face.calls[i] != want[i] {
			t.Errorf("call %d: got %+v, want %+v", i, face.calls[i], want[i])
		}
	}
	if !face.closed {
		t.Error("face was not closed")
	}
}

func TestDrawText_SpacesAdvanceWithoutColor(t *testing.T) {
	face := &fakeFace{}
	dst := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	run := TextRun{Text: "A B", Colors: []Color{red, green}, Position: TopLeft}

	if err := DrawText(dst, run, &fakeFonts{face: face}); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}

	want := []drawCall{
		{0, 12, red, "A"},
		{16, 12, green, "B"},
	}
	if len(face.calls) != len(want) {
		t.Fatalf("got %d draw calls, want %d: %+v", len(face.calls), len(want), face.calls)
	}
	for i := range want {
		if face.calls[i] != want[i] {
			t.Errorf("call %d: got %+v, want %+v", i, face.calls[i], want[i])
		}
	}
}

func TestDrawText_TabIsDrawnLikeAGlyph(t *testing.T) {
	face := &fakeFace{}
	dst := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	run := TextRun{Text: "A\tB", Colors: []Color{red, green}, Position: TopLeft}

	if err := DrawText(dst, run, &fakeFonts{face: face}); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}

	want := []drawCall{
		{0, 12, red, "A"},
		{8, 12, green, "\t"},
		{16, 12, red, "B"},
	}
	if len(face.calls) != len(want) {
		t.Fatalf("got %d draw calls, want %d: %+v", len(face.calls), len(want), face.calls)
	}
	for i := range want {
		if face.calls[i] != want[i] {
			t.Errorf("call %d: got %+v, want %+v", i, face.calls[i], want[i])
		}
	}
}

func TestDrawText_SingleColorDrawsOnce(t *testing.T) {
	face := &fakeFace{}
	dst := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	run := TextRun{Text: "Hello", Colors: []Color{blue}, Position: TopLeft}

	if err := DrawText(dst, run, &fakeFonts{face: face}); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}
	if len(face.calls) != 1 || face.calls[0].text != "Hello" || face.calls[0].color != blue {
		t.Errorf("unexpected calls: %+v", face.calls)
	}
}

func TestDrawText_DefaultsToBlack(t *testing.T) {
	face := &fakeFace{}
	dst := image.NewNRGBA(image.Rect(0, 0, 50, 50))

	if err := DrawText(dst, TextRun{Text: "x"}, &fakeFonts{face: face}); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}
	if len(face.calls) != 1 || face.calls[0].color != black {
		t.Errorf("unexpected calls: %+v", face.calls)
	}
}

func TestDrawText_StrokeOrder(t *testing.T) {
	face := &fakeFace{}
	dst := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	run := TextRun{
		Text:         "Hi",
		Colors:       []Color{red},
		StrokeColors: []Color{black},
		StrokeWidth:  1,
		Position:     TopLeft,
		OffsetX:      5,
	}

	if err := DrawText(dst, run, &fakeFonts{face: face}); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}

	// 3×3 stroke offsets then the fill on top.
	if len(face.calls) != 10 {
		t.Fatalf("got %d draw calls, want 10", len(face.calls))
	}
	for i, c := range face.calls[:9] {
		if c.color != black {
			t.Errorf("call %d: got color %+v, want stroke", i, c.color)
		}
		if c.x < 4 || c.x > 6 || c.y < 11 || c.y > 13 {
			t.Errorf("call %d: stroke at (%d,%d) outside [-1,1] of (5,12)", i, c.x, c.y)
		}
	}
	last := face.calls[9]
	if last.color != red || last.x != 5 || last.y != 12 {
		t.Errorf("fill call: got %+v", last)
	}
}

func TestDrawText_StrokeColorsCycleIndependently(t *testing.T) {
	face := &fakeFace{}
	dst := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	run := TextRun{
		Text:         "ABC",
		Colors:       []Color{red},
		StrokeColors: []Color{green, blue},
		Position:     TopLeft,
	}

	if err := DrawText(dst, run, &fakeFonts{face: face}); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}

	// Width 0: one stroke call and one fill call per glyph.
	wantStroke := []Color{green, blue, green}
	if len(face.calls) != 6 {
		t.Fatalf("got %d draw calls, want 6", len(face.calls))
	}
	for i, want := range wantStroke {
		if got := face.calls[i*2].color; got != want {
			t.Errorf("glyph %d stroke: got %+v, want %+v", i, got, want)
		}
		if got := face.calls[i*2+1].color; got != red {
			t.Errorf("glyph %d fill: got %+v, want red", i, got)
		}
	}
}

func TestDrawText_FontError(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	err := DrawText(dst, TextRun{Text: "x"}, &fakeFonts{err: errors.New("boom")})
	if !errors.Is(err, ErrFontLoadFailed) {
		t.Errorf("expected ErrFontLoadFailed, got %v", err)
	}

	err = DrawText(dst, TextRun{Text: "x"}, nil)
	if !errors.Is(err, ErrFontLoadFailed) {
		t.Errorf("nil provider: expected ErrFontLoadFailed, got %v", err)
	}
}

func TestTextOrigin(t *testing.T) {
	canvas := Size{200, 100}
	box := TextBox{Width: 40, Height: 10}

	tests := []struct {
		name string
		run  TextRun
		want image.Point
	}{
		{"top left", TextRun{Position: TopLeft}, image.Pt(0, 10)},
		{"top right", TextRun{Position: TopRight}, image.Pt(160, 10)},
		{"top", TextRun{Position: Top}, image.Pt(80, 10)},
		{"bottom left", TextRun{Position: BottomLeft}, image.Pt(0, 100)},
		{"bottom right", TextRun{Position: BottomRight}, image.Pt(160, 100)},
		{"center", TextRun{Position: Center}, image.Pt(80, 55)},
		{"left", TextRun{Position: Left}, image.Pt(0, 55)},
		{"right", TextRun{Position: Right}, image.Pt(160, 55)},
		{"offsets", TextRun{Position: TopLeft, OffsetX: 5, OffsetY: 7}, image.Pt(5, 17)},
		{"align left", TextRun{Position: Center, Align: AlignLeft, OffsetX: 3}, image.Pt(3, 55)},
		{"align right", TextRun{Position: TopLeft, Align: AlignRight, OffsetX: -3}, image.Pt(157, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextOrigin(canvas, box, tt.run); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenTypeFonts_Builtin(t *testing.T) {
	fonts := NewOpenTypeFonts("")

	face, err := fonts.Face("", 24)
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	box := face.Measure("Hello")
	if box.Width <= 0 || box.Height <= 0 || box.Advance <= 0 {
		t.Errorf("unexpected measurement: %+v", box)
	}

	if _, err := fonts.Face("/nonexistent/font.ttf", 12); !errors.Is(err, ErrFontLoadFailed) {
		t.Errorf("missing font: expected ErrFontLoadFailed, got %v", err)
	}
	if _, err := fonts.Face("", 0); !errors.Is(err, ErrFontLoadFailed) {
		t.Errorf("zero size: expected ErrFontLoadFailed, got %v", err)
	}
}
