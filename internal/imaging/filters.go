package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Filters return a filtered copy of the document. Kernels come from bild and
// imaging; bild works on premultiplied RGBA, so its results are converted
// back with imaging.Clone.

// apply runs fn on the buffer and wraps the result in a new document.
func (d *Document) apply(fn func(img *image.NRGBA) image.Image) (*Document, error) {
	img, err := d.buffer()
	if err != nil {
		return nil, err
	}
	out := fn(img)
	if n, ok := out.(*image.NRGBA); ok {
		return d.derive(n), nil
	}
	return d.derive(imaging.Clone(out)), nil
}

// Blur blurs the document passes times. kind is "gaussian" or "selective";
// anything else is treated as "selective", an edge-preserving median blur.
func (d *Document) Blur(kind string, passes int) (*Document, error) {
	if passes < 1 {
		passes = 1
	}
	gaussian := strings.EqualFold(kind, "gaussian")
	return d.apply(func(img *image.NRGBA) image.Image {
		var out image.Image = img
		for i := 0; i < passes; i++ {
			if gaussian {
				out = blur.Gaussian(out, 1)
			} else {
				out = effect.Median(out, 1)
			}
		}
		return out
	})
}

// Brightness adds level, clamped to [-255, 255], to every color channel.
func (d *Document) Brightness(level int) (*Document, error) {
	level = clamp(level, -255, 255)
	return d.apply(func(img *image.NRGBA) image.Image {
		return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{
				R: uint8(clamp(int(c.R)+level, 0, 255)),
				G: uint8(clamp(int(c.G)+level, 0, 255)),
				B: uint8(clamp(int(c.B)+level, 0, 255)),
				A: c.A,
			}
		})
	})
}

// Contrast changes the contrast by level, clamped to [-100, 100]. Negative
// levels increase contrast and positive levels reduce it.
func (d *Document) Contrast(level int) (*Document, error) {
	change := -float64(clamp(level, -100, 100)) / 100
	return d.apply(func(img *image.NRGBA) image.Image {
		return adjust.Contrast(img, change)
	})
}

// Colorize adds the channels of c to every pixel. opacity in [0, 1] sets how
// much of the tint's transparency is added: 1 keeps the image's alpha and 0
// adds full transparency.
func (d *Document) Colorize(c any, opacity float64) (*Document, error) {
	tint, err := Normalize(c)
	if err != nil {
		return nil, fmt.Errorf("failed to colorize: %w", err)
	}
	alpha := clamp(int(MaxAlpha-MaxAlpha*opacity), 0, MaxAlpha)

	return d.apply(func(img *image.NRGBA) image.Image {
		return imaging.AdjustFunc(img, func(px color.NRGBA) color.NRGBA {
			a := clamp(int(alphaFromNRGBA(px.A))+alpha, 0, MaxAlpha)
			return color.NRGBA{
				R: uint8(clamp(int(px.R)+int(tint.R), 0, 255)),
				G: uint8(clamp(int(px.G)+int(tint.G), 0, 255)),
				B: uint8(clamp(int(px.B)+int(tint.B), 0, 255)),
				A: alphaToNRGBA(uint8(a)),
			}
		})
	})
}

// Edges highlights edges.
func (d *Document) Edges() (*Document, error) {
	return d.apply(func(img *image.NRGBA) image.Image {
		return effect.EdgeDetection(img, 1)
	})
}

// Emboss applies an emboss effect.
func (d *Document) Emboss() (*Document, error) {
	return d.apply(func(img *image.NRGBA) image.Image {
		return effect.Emboss(img)
	})
}

// Invert inverts the colors, leaving alpha untouched.
func (d *Document) Invert() (*Document, error) {
	return d.apply(func(img *image.NRGBA) image.Image {
		return imaging.Invert(img)
	})
}

// MeanRemove applies a mean removal kernel, which gives a sketchy look.
func (d *Document) MeanRemove() (*Document, error) {
	k := convolution.NewKernel(3, 3)
	for i := range k.Matrix {
		k.Matrix[i] = -1
	}
	k.Matrix[4] = 9
	return d.convolve(k)
}

// Sketch is MeanRemove.
func (d *Document) Sketch() (*Document, error) {
	return d.MeanRemove()
}

// Pixelate replaces each block×block square with its average color. Blocks
// start at the top-left corner; those on the right and bottom edges may be
// partial.
func (d *Document) Pixelate(block int) (*Document, error) {
	if block < 1 {
		block = 1
	}
	return d.apply(func(img *image.NRGBA) image.Image {
		w, h := img.Rect.Dx(), img.Rect.Dy()
		cols := (w + block - 1) / block
		rows := (h + block - 1) / block

		small := imaging.Resize(img, cols, rows, imaging.Box)
		large := imaging.Resize(small, cols*block, rows*block, imaging.NearestNeighbor)
		return imaging.Crop(large, image.Rect(0, 0, w, h))
	})
}

// Sepia applies a sepia tone.
func (d *Document) Sepia() (*Document, error) {
	return d.apply(func(img *image.NRGBA) image.Image {
		return effect.Sepia(img)
	})
}

// Smooth applies a 3×3 smoothing kernel whose centre weight is level,
// clamped to [-10, 10]. Lower levels smooth more.
func (d *Document) Smooth(level int) (*Document, error) {
	level = clamp(level, -10, 10)

	k := convolution.NewKernel(3, 3)
	div := float64(level + 8)
	if div == 0 {
		div = 1
	}
	for i := range k.Matrix {
		k.Matrix[i] = 1 / div
	}
	k.Matrix[4] = float64(level) / div
	return d.convolve(k)
}

// Sharpen sharpens the document.
func (d *Document) Sharpen() (*Document, error) {
	return d.apply(func(img *image.NRGBA) image.Image {
		return effect.Sharpen(img)
	})
}

func (d *Document) convolve(k *convolution.Kernel) (*Document, error) {
	return d.apply(func(img *image.NRGBA) image.Image {
		return convolution.Convolve(img, k, &convolution.Options{KeepAlpha: true})
	})
}

// FilterOptions carries the arguments of a filter selected by name through
// Filter. Fields a filter does not use are ignored.
type FilterOptions struct {
	// Kind selects the blur kind: "gaussian" or "selective".
	Kind string

	// Level is the filter strength for brightness, contrast, smooth,
	// pixelate (block size) and desaturate (percent).
	Level float64

	// Passes is the number of blur passes.
	Passes int

	// Color and Opacity configure colorize.
	Color   any
	Opacity float64
}

// FilterNames lists the names accepted by Filter.
var FilterNames = []string{
	"blur", "brightness", "colorize", "contrast", "desaturate", "edges",
	"emboss", "invert", "mean_remove", "pixelate", "sepia", "sketch",
	"smooth", "sharpen",
}

// Filter applies the filter called name.
func (d *Document) Filter(name string, opts FilterOptions) (*Document, error) {
	level := int(math.Round(opts.Level))

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "blur":
		return d.Blur(opts.Kind, opts.Passes)
	case "brightness":
		return d.Brightness(level)
	case "colorize":
		return d.Colorize(opts.Color, opts.Opacity)
	case "contrast":
		return d.Contrast(level)
	case "desaturate", "grayscale":
		pct := opts.Level
		if pct == 0 {
			pct = 100
		}
		return d.Desaturate(pct)
	case "edges":
		return d.Edges()
	case "emboss":
		return d.Emboss()
	case "invert":
		return d.Invert()
	case "mean_remove":
		return d.MeanRemove()
	case "pixelate":
		if level == 0 {
			level = 10
		}
		return d.Pixelate(level)
	case "sepia":
		return d.Sepia()
	case "sketch":
		return d.Sketch()
	case "smooth":
		return d.Smooth(level)
	case "sharpen":
		return d.Sharpen()
	}
	return nil, fmt.Errorf("unknown filter: %s", name)
}
