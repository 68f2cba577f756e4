package imaging

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultQuality is the encode quality used when none is requested.
const DefaultQuality = 80

// Config holds the settings a Document is created with. It is a plain value:
// copy it and change fields to derive a new configuration, documents keep
// the Config they were created with.
type Config struct {
	// Quality is the default encode quality (1-100). JPEG uses it directly;
	// PNG maps it onto a compression level.
	Quality int

	// AutoOrient applies the EXIF orientation tag while decoding.
	AutoOrient bool

	// Resample names the filter used by every resize: "lanczos" (default),
	// "catmullrom", "linear", "box" or "nearest".
	Resample string

	// Fonts resolves font references for text rendering.
	Fonts FontProvider
}

var resampleFilters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

// DefaultConfig returns the configuration used when nothing else is set:
// quality 80, no auto-orientation, Lanczos resampling and the built-in fonts.
func DefaultConfig() Config {
	return Config{
		Quality:  DefaultQuality,
		Resample: "lanczos",
		Fonts:    DefaultFonts(),
	}
}

// ConfigFromEnv returns DefaultConfig adjusted by environment variables:
//
//	SIMPLEIMAGE_QUALITY=1..100     default encode quality
//	SIMPLEIMAGE_AUTO_ORIENT=true   apply EXIF orientation on load
//	SIMPLEIMAGE_RESAMPLE=linear    resampling filter
//	SIMPLEIMAGE_FONT_DIR=/path     directory for relative font paths
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("SIMPLEIMAGE_QUALITY"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return cfg, fmt.Errorf("SIMPLEIMAGE_QUALITY must be an integer in 1-100, got %q", v)
		}
		cfg.Quality = q
	}

	if v := os.Getenv("SIMPLEIMAGE_AUTO_ORIENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("SIMPLEIMAGE_AUTO_ORIENT: %w", err)
		}
		cfg.AutoOrient = b
	}

	if v := os.Getenv("SIMPLEIMAGE_RESAMPLE"); v != "" {
		name := strings.ToLower(v)
		if _, ok := resampleFilters[name]; !ok {
			return cfg, fmt.Errorf("SIMPLEIMAGE_RESAMPLE: unknown filter %q", v)
		}
		cfg.Resample = name
	}

	if dir := os.Getenv("SIMPLEIMAGE_FONT_DIR"); dir != "" {
		cfg.Fonts = NewOpenTypeFonts(dir)
	}

	return cfg, nil
}

// withDefaults fills zero fields so a zero Config behaves like DefaultConfig.
func (c Config) withDefaults() Config {
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = DefaultQuality
	}
	if _, ok := resampleFilters[c.Resample]; !ok {
		c.Resample = "lanczos"
	}
	if c.Fonts == nil {
		c.Fonts = DefaultFonts()
	}
	return c
}

func (c Config) filter() imaging.ResampleFilter {
	if f, ok := resampleFilters[c.Resample]; ok {
		return f
	}
	return imaging.Lanczos
}
