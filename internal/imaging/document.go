package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Format is an image file format name as reported by the decoders.
type Format string

// Supported formats. WebP can be decoded but not encoded.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// MimeType returns the "image/..." MIME type for f.
func (f Format) MimeType() string {
	return "image/" + string(f)
}

// Info is the metadata captured when a document is created. It describes
// the source, not the current buffer: use Width, Height and Orientation on
// the Document for current values.
type Info struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      Format `json:"format"`
	MimeType    string `json:"mime_type"`
	Orientation string `json:"orientation"`
	Path        string `json:"path,omitempty"`
}

// Document is an image buffer plus the metadata and configuration it was
// created with.
//
// Documents are immutable: every operation returns a new Document and leaves
// the receiver untouched, so a document can safely be used as the read-only
// operand of another document's Overlay. Failed operations return the error
// and no document.
//
// The pixel buffer is released by Close. A closed document returns
// ErrDocumentClosed from every operation.
type Document struct {
	img  *image.NRGBA
	info Info
	cfg  Config
}

func newDocument(img *image.NRGBA, info Info, cfg Config) *Document {
	b := img.Bounds()
	info.Width, info.Height = b.Dx(), b.Dy()
	info.Orientation = orientationOf(b.Dx(), b.Dy())
	info.MimeType = info.Format.MimeType()
	return &Document{img: img, info: info, cfg: cfg.withDefaults()}
}

// New creates a width×height document filled with fill. A zero height
// makes the document square. A nil fill gives opaque black. The document's
// format is PNG.
func New(width, height int, fill any, cfg Config) (*Document, error) {
	if height == 0 {
		height = width
	}
	if err := (Size{W: width, H: height}).Validate(); err != nil {
		return nil, err
	}

	c := Color{}
	if fill != nil {
		var err error
		if c, err = Normalize(fill); err != nil {
			return nil, err
		}
	}

	img := imaging.New(width, height, c.NRGBA())
	return newDocument(img, Info{Format: FormatPNG}, cfg), nil
}

// Open loads the image file at path.
func Open(path string, cfg Config) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	doc, err := decodeBytes(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.info.Path = path
	return doc, nil
}

// Decode reads an encoded image from r.
func Decode(r io.Reader, cfg Config) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return decodeBytes(data, cfg)
}

var dataURIPrefix = regexp.MustCompile(`^data:image/[^;]+;base64,`)

// DecodeBase64 decodes a base64 image, optionally wrapped in a
// "data:image/...;base64," URI. Spaces are read as '+', which undoes the
// usual form-encoding damage.
func DecodeBase64(s string, cfg Config) (*Document, error) {
	s = dataURIPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, " ", "+")

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64 data: %v", ErrInvalidImage, err)
	}
	return decodeBytes(data, cfg)
}

func decodeBytes(data []byte, cfg Config) (*Document, error) {
	cfg = cfg.withDefaults()

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(cfg.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrInvalidImage, err)
	}

	return newDocument(imaging.Clone(img), Info{Format: Format(name)}, cfg), nil
}

// derive returns a document sharing d's metadata with a new buffer.
func (d *Document) derive(img *image.NRGBA) *Document {
	return &Document{img: img, info: d.info, cfg: d.cfg}
}

// buffer returns the pixel buffer or ErrDocumentClosed.
func (d *Document) buffer() (*image.NRGBA, error) {
	if d == nil || d.img == nil {
		return nil, ErrDocumentClosed
	}
	return d.img, nil
}

// Close releases the pixel buffer. It is safe to call more than once.
func (d *Document) Close() error {
	if d != nil {
		d.img = nil
	}
	return nil
}

// Width returns the current width in pixels, or 0 once closed.
func (d *Document) Width() int {
	if d == nil || d.img == nil {
		return 0
	}
	return d.img.Rect.Dx()
}

// Height returns the current height in pixels, or 0 once closed.
func (d *Document) Height() int {
	if d == nil || d.img == nil {
		return 0
	}
	return d.img.Rect.Dy()
}

// Size returns the current dimensions.
func (d *Document) Size() Size {
	return Size{W: d.Width(), H: d.Height()}
}

// Orientation returns "landscape", "portrait" or "square" for the current
// dimensions.
func (d *Document) Orientation() string {
	return orientationOf(d.Width(), d.Height())
}

// Info returns the metadata captured when the document was created.
func (d *Document) Info() Info {
	return d.info
}

// Config returns the configuration the document was created with.
func (d *Document) Config() Config {
	return d.cfg
}

// Image returns a copy of the pixel buffer.
func (d *Document) Image() (*image.NRGBA, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// At returns the color of the pixel at (x, y).
func (d *Document) At(x, y int) (Color, error) {
	img, err := d.buffer()
	if err != nil {
		return Color{}, err
	}
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return Color{}, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	return FromNRGBA(img.NRGBAAt(x, y)), nil
}

// SampleColor returns the color at (x, y) in several representations.
func (d *Document) SampleColor(x, y int) (*ColorResult, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}
	return SampleColor(img, x, y)
}

// DominantColors returns the count most common colors of the document or
// of region when it is not nil.
func (d *Document) DominantColors(count int, region *RegionRect) (*DominantColorsResult, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}
	return DominantColors(img, count, region)
}

// HasAlpha reports whether any pixel is not fully opaque.
func (d *Document) HasAlpha() bool {
	if d == nil || d.img == nil {
		return false
	}
	return !d.img.Opaque()
}

func orientationOf(w, h int) string {
	switch {
	case w > h:
		return "landscape"
	case w < h:
		return "portrait"
	}
	return "square"
}

// transparent is the zero NRGBA color, used for padding.
var transparent = color.NRGBA{}
