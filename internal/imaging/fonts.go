package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// BuiltinFont is the font reference for the embedded Go Regular face.
const BuiltinFont = "goregular"

// fontDPI matches the resolution the point sizes are specified against.
const fontDPI = 96

// OpenTypeFonts is a FontProvider backed by TrueType/OpenType font files.
//
// Font references are file paths; relative paths are resolved against the
// provider's directory. The empty reference and BuiltinFont select the
// embedded Go Regular font. Parsed fonts are cached, so OpenTypeFonts is
// safe for concurrent use and cheap to reuse across documents.
type OpenTypeFonts struct {
	dir string

	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

// NewOpenTypeFonts creates a provider that resolves relative font paths
// against dir. An empty dir uses paths as given.
func NewOpenTypeFonts(dir string) *OpenTypeFonts {
	return &OpenTypeFonts{
		dir:   dir,
		fonts: make(map[string]*opentype.Font),
	}
}

var (
	defaultFonts     *OpenTypeFonts
	defaultFontsOnce sync.Once
)

// DefaultFonts returns the process-wide provider with no font directory.
func DefaultFonts() *OpenTypeFonts {
	defaultFontsOnce.Do(func() {
		defaultFonts = NewOpenTypeFonts("")
	})
	return defaultFonts
}

// Face implements FontProvider.
func (p *OpenTypeFonts) Face(ref string, size float64) (FontFace, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: font size must be positive, got %v", ErrFontLoadFailed, size)
	}

	f, err := p.load(ref)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoadFailed, ref, err)
	}
	return &openTypeFace{face: face}, nil
}

func (p *OpenTypeFonts) load(ref string) (*opentype.Font, error) {
	key := strings.TrimSpace(ref)
	if key == "" {
		key = BuiltinFont
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if f, ok := p.fonts[key]; ok {
		return f, nil
	}

	var data []byte
	if key == BuiltinFont {
		data = goregular.TTF
	} else {
		path := key
		if p.dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(p.dir, path)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFontLoadFailed, err)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoadFailed, ref, err)
	}
	p.fonts[key] = f
	return f, nil
}

type openTypeFace struct {
	face font.Face
}

func (f *openTypeFace) Measure(text string) TextBox {
	bounds, advance := font.BoundString(f.face, text)
	return TextBox{
		Width:   (bounds.Max.X - bounds.Min.X).Ceil(),
		Height:  (bounds.Max.Y - bounds.Min.Y).Ceil(),
		Advance: advance.Round(),
	}
}

func (f *openTypeFace) Draw(dst draw.Image, x, y int, c color.Color, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func (f *openTypeFace) Close() error {
	return f.face.Close()
}
