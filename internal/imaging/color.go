package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxAlpha is the fully transparent alpha value.
const MaxAlpha = 127

// Color is an RGBA color using a 7-bit inverted alpha channel.
//
// The alpha component represents transparency, not opacity:
//   - 0 = fully opaque
//   - 127 = fully transparent
//
// Values are always produced by Normalize, which clamps every component.
// Color implements color.Color so it can be handed directly to drawing code.
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Transparency (0 opaque - 127 transparent)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts c to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alphaToNRGBA(c.A)}
}

// Hex returns the "#RRGGBB" representation of c. Alpha is not included.
func (c Color) Hex() string {
	return strings.ToUpper(c.colorful().Hex())
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// FromNRGBA converts a non-premultiplied 8-bit color to a Color.
func FromNRGBA(c color.NRGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: alphaFromNRGBA(c.A)}
}

// alphaToNRGBA maps 0 (opaque)..127 (transparent) onto 255..0.
func alphaToNRGBA(a uint8) uint8 {
	if a > MaxAlpha {
		a = MaxAlpha
	}
	return 255 - uint8(math.Round(float64(a)*255/MaxAlpha))
}

// alphaFromNRGBA maps 255 (opaque)..0 (transparent) onto 0..127.
func alphaFromNRGBA(a uint8) uint8 {
	return MaxAlpha - uint8(math.Round(float64(a)*MaxAlpha/255))
}

// Normalize converts a color specification into a clamped Color.
//
// Accepted specifications:
//   - Hex string with an optional leading '#': "#F00", "ff8040". Exactly 3 or
//     6 hex digits; the 3-digit form duplicates each digit. Alpha is 0.
//   - Named components: map[string]int, map[string]float64 or
//     map[string]any with keys r, g, b and optional a.
//   - Positional components: []int, []float64 or []any of length 3 or 4.
//   - A Color or any color.Color value.
//
// R, G and B are clamped to [0,255]; A is clamped to [0,127] and defaults to 0.
// Any other shape returns an error wrapping ErrInvalidColor.
func Normalize(spec any) (Color, error) {
	switch v := spec.(type) {
	case Color:
		return clampColor(int(v.R), int(v.G), int(v.B), int(v.A)), nil
	case string:
		return parseHex(v)
	case map[string]int:
		named := make(map[string]any, len(v))
		for k, n := range v {
			named[k] = n
		}
		return normalizeNamed(named)
	case map[string]float64:
		named := make(map[string]any, len(v))
		for k, n := range v {
			named[k] = n
		}
		return normalizeNamed(named)
	case map[string]any:
		return normalizeNamed(v)
	case []int:
		values := make([]any, len(v))
		for i, n := range v {
			values[i] = n
		}
		return normalizePositional(values)
	case []float64:
		values := make([]any, len(v))
		for i, n := range v {
			values[i] = n
		}
		return normalizePositional(values)
	case []any:
		return normalizePositional(v)
	case color.Color:
		return FromNRGBA(color.NRGBAModel.Convert(v).(color.NRGBA)), nil
	}
	return Color{}, fmt.Errorf("%w: unsupported color value %T", ErrInvalidColor, spec)
}

// MustNormalize is like Normalize but panics on error. It is intended for
// package-level defaults built from literal values.
func MustNormalize(spec any) Color {
	c, err := Normalize(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// NormalizeAll converts a single color specification or a list of
// specifications into an ordered color sequence.
//
// A []any whose elements are all numbers is a single positional color, not a
// list; use [][]int or []any of strings/maps to express a sequence.
func NormalizeAll(spec any) ([]Color, error) {
	var items []any
	switch v := spec.(type) {
	case nil:
		return nil, nil
	case []Color:
		out := make([]Color, len(v))
		for i, c := range v {
			out[i] = clampColor(int(c.R), int(c.G), int(c.B), int(c.A))
		}
		return out, nil
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case [][]int:
		for _, s := range v {
			items = append(items, s)
		}
	case []map[string]any:
		for _, s := range v {
			items = append(items, s)
		}
	case []any:
		if isNumericList(v) {
			c, err := Normalize(v)
			if err != nil {
				return nil, err
			}
			return []Color{c}, nil
		}
		items = v
	default:
		c, err := Normalize(spec)
		if err != nil {
			return nil, err
		}
		return []Color{c}, nil
	}

	out := make([]Color, 0, len(items))
	for i, item := range items {
		c, err := Normalize(item)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("%w: hex color %q must have 3 or 6 digits", ErrInvalidColor, s)
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: hex color %q: %v", ErrInvalidColor, s, err)
	}
	return Color{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val)}, nil
}

func normalizeNamed(m map[string]any) (Color, error) {
	if len(m) != 3 && len(m) != 4 {
		return Color{}, fmt.Errorf("%w: expected r, g, b and optional a", ErrInvalidColor)
	}
	var comps [4]int
	for i, key := range []string{"r", "g", "b", "a"} {
		raw, ok := m[key]
		if !ok {
			if key == "a" {
				continue
			}
			return Color{}, fmt.Errorf("%w: missing component %q", ErrInvalidColor, key)
		}
		n, ok := toInt(raw)
		if !ok {
			return Color{}, fmt.Errorf("%w: component %q is %T, not a number", ErrInvalidColor, key, raw)
		}
		comps[i] = n
	}
	return clampColor(comps[0], comps[1], comps[2], comps[3]), nil
}

func normalizePositional(values []any) (Color, error) {
	if len(values) != 3 && len(values) != 4 {
		return Color{}, fmt.Errorf("%w: expected 3 or 4 components, got %d", ErrInvalidColor, len(values))
	}
	var comps [4]int
	for i, raw := range values {
		n, ok := toInt(raw)
		if !ok {
			return Color{}, fmt.Errorf("%w: component %d is %T, not a number", ErrInvalidColor, i, raw)
		}
		comps[i] = n
	}
	return clampColor(comps[0], comps[1], comps[2], comps[3]), nil
}

func isNumericList(values []any) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if _, ok := toInt(v); !ok {
			return false
		}
	}
	return true
}

// toInt truncates numeric values toward zero.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return int(math.Max(math.Min(n, math.MaxInt32), math.MinInt32)), true
	}
	return 0, false
}

func clampColor(r, g, b, a int) Color {
	return Color{
		R: uint8(clamp(r, 0, 255)),
		G: uint8(clamp(g, 0, 255)),
		B: uint8(clamp(b, 0, 255)),
		A: uint8(clamp(a, 0, MaxAlpha)),
	}
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled color value in multiple representations.
type ColorResult struct {
	Hex   string   `json:"hex"`   // Hex format "#RRGGBB" (no alpha)
	RGB   RGBColor `json:"rgb"`   // RGB components
	Color Color    `json:"color"` // Components with 0 (opaque) - 127 (transparent) alpha
	HSL   HSLColor `json:"hsl"`   // HSL representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based relative to the image's top-left corner. An error
// is returned if (x, y) lies outside the image.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	px, py := bounds.Min.X+x, bounds.Min.Y+y
	if !(image.Point{X: px, Y: py}).In(bounds) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := FromNRGBA(color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA))
	return newColorResult(c), nil
}

func newColorResult(c Color) *ColorResult {
	h, s, l := c.colorful().Hsl()
	return &ColorResult{
		Hex:   c.Hex(),
		RGB:   RGBColor{R: c.R, G: c.G, B: c.B},
		Color: c,
		HSL:   HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
	HSL        HSLColor `json:"hsl"`        // HSL of the quantized color
}

// DominantColorsResult contains the most frequently occurring colors in an image.
//
// Colors are sorted by frequency in descending order (most common first).
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors extracts the N most common colors from an image or region.
//
// Components are quantized to multiples of 16 before counting so that
// near-identical shades are grouped together. Fully transparent pixels are
// skipped. If region is nil the entire image is analyzed; otherwise the
// region is clipped to the image bounds.
func DominantColors(img image.Image, count int, region *RegionRect) (*DominantColorsResult, error) {
	bounds := img.Bounds()
	if region != nil {
		bounds = region.Rect().Add(bounds.Min).Intersect(bounds)
	}

	colorCounts := make(map[Color]int)
	totalPixels := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			key := Color{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}
			colorCounts[key]++
			totalPixels++
		}
	}

	colors := make([]ColorFrequency, 0, len(colorCounts))
	for c, cnt := range colorCounts {
		res := newColorResult(c)
		colors = append(colors, ColorFrequency{
			Hex:        res.Hex,
			Percentage: float64(cnt) / float64(totalPixels) * 100,
			RGB:        res.RGB,
			HSL:        res.HSL,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage == colors[j].Percentage {
			return colors[i].Hex < colors[j].Hex
		}
		return colors[i].Percentage > colors[j].Percentage
	})

	if count > 0 && len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}
