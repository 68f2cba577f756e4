package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var encodeFormats = map[Format]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatJPEG: imaging.JPEG,
	FormatGIF:  imaging.GIF,
	FormatBMP:  imaging.BMP,
	FormatTIFF: imaging.TIFF,
}

// ParseFormat maps a format name or file extension ("jpg", ".png", "TIFF")
// to a Format.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch name {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
}

// OutputFormat picks the encode format: the explicit name if given, else
// the extension of path, else the document's source format.
func (d *Document) OutputFormat(name, path string) (Format, error) {
	if name != "" {
		return ParseFormat(name)
	}
	if ext := filepath.Ext(path); ext != "" {
		return ParseFormat(ext)
	}
	if d.info.Format != "" {
		return d.info.Format, nil
	}
	return FormatPNG, nil
}

// Encode writes the document to w. An empty format uses the document's
// source format; a quality of 0 uses the Config's default.
func (d *Document) Encode(w io.Writer, format string, quality int) error {
	f, err := d.OutputFormat(format, "")
	if err != nil {
		return err
	}
	return d.encode(w, f, quality)
}

func (d *Document) encode(w io.Writer, f Format, quality int) error {
	img, err := d.buffer()
	if err != nil {
		return err
	}

	target, ok := encodeFormats[f]
	if !ok {
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, f)
	}

	if quality <= 0 {
		quality = d.cfg.Quality
	}
	quality = clamp(quality, 1, 100)

	opts := []imaging.EncodeOption{
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(pngCompression(quality)),
	}
	if err := imaging.Encode(w, img, target, opts...); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

// pngCompression maps a 1-100 quality onto zlib's 0-9 scale and then onto
// the levels the PNG encoder offers.
func pngCompression(quality int) png.CompressionLevel {
	level := int(math.Round(9 * float64(quality) / 100))
	switch {
	case level == 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	}
	return png.BestCompression
}

// Bytes encodes the document and returns the data with its MIME type.
func (d *Document) Bytes(format string, quality int) ([]byte, string, error) {
	f, err := d.OutputFormat(format, "")
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := d.encode(&buf, f, quality); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), f.MimeType(), nil
}

// Base64 encodes the document as a "data:image/...;base64," URI.
func (d *Document) Base64(format string, quality int) (string, error) {
	data, mime, err := d.Bytes(format, quality)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Save writes the document to path. The format is the explicit format if
// given, else the one named by the file extension, else the source format.
// An empty path saves over the file the document was opened from.
func (d *Document) Save(path, format string, quality int) error {
	if path == "" {
		path = d.info.Path
	}
	if path == "" {
		return fmt.Errorf("failed to save image: no path given")
	}

	f, err := d.OutputFormat(format, path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := d.encode(&buf, f, quality); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
