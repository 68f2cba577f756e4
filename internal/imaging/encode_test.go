package imaging

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", FormatPNG},
		{".PNG", FormatPNG},
		{"jpg", FormatJPEG},
		{"jpeg", FormatJPEG},
		{"gif", FormatGIF},
		{"bmp", FormatBMP},
		{"tif", FormatTIFF},
		{"webp", FormatWebP},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseFormat("psd"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestPngCompression(t *testing.T) {
	tests := []struct {
		quality int
		want    png.CompressionLevel
	}{
		{1, png.NoCompression},
		{20, png.BestSpeed},
		{50, png.DefaultCompression},
		{80, png.BestCompression},
		{100, png.BestCompression},
	}

	for _, tt := range tests {
		if got := pngCompression(tt.quality); got != tt.want {
			t.Errorf("pngCompression(%d) = %v, want %v", tt.quality, got, tt.want)
		}
	}
}

func TestDocument_EncodeRoundTrip(t *testing.T) {
	doc := newPatternDocument(t, 30, 20)

	for _, format := range []string{"png", "jpeg", "gif", "bmp", "tiff"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := doc.Encode(&buf, format, 90); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			back, err := Decode(&buf, Config{})
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if back.Width() != 30 || back.Height() != 20 {
				t.Errorf("size: got %dx%d, want 30x20", back.Width(), back.Height())
			}
			want, _ := ParseFormat(format)
			if back.Info().Format != want {
				t.Errorf("format: got %s, want %s", back.Info().Format, want)
			}
		})
	}
}

func TestDocument_EncodeWebPUnsupported(t *testing.T) {
	doc := newPatternDocument(t, 4, 4)
	var buf bytes.Buffer
	if err := doc.Encode(&buf, "webp", 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDocument_Base64(t *testing.T) {
	doc := newPatternDocument(t, 8, 8)

	uri, err := doc.Base64("", 0)
	if err != nil {
		t.Fatalf("Base64 failed: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("unexpected prefix: %.30s", uri)
	}

	back, err := DecodeBase64(uri, Config{})
	if err != nil {
		t.Fatalf("DecodeBase64 failed: %v", err)
	}
	if got := mustColorAt(t, back, 7, 7); got != (Color{R: 255, G: 255, B: 255}) {
		t.Errorf("round trip pixel: got %+v, want white", got)
	}
}

func TestDocument_Save(t *testing.T) {
	doc := newPatternDocument(t, 12, 10)
	dir := t.TempDir()

	path := filepath.Join(dir, "out.jpg")
	if err := doc.Save(path, "", 75); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	saved, err := Open(path, Config{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if saved.Info().Format != FormatJPEG {
		t.Errorf("format from extension: got %s, want jpeg", saved.Info().Format)
	}

	// Explicit format wins over the extension.
	path = filepath.Join(dir, "out.img")
	if err := doc.Save(path, "png", 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("explicit png format was not used")
	}

	// An empty path saves over the source file.
	if err := saved.Save("", "", 0); err != nil {
		t.Fatalf("Save to source path failed: %v", err)
	}

	if err := doc.Save("", "", 0); err == nil {
		t.Error("Save without a path should fail for a document with no source")
	}
}
