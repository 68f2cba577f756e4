package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// compareThreshold is the average RGB difference above which two pixels
// count as different.
const compareThreshold = 10

// CompareResult describes how closely two regions match.
type CompareResult struct {
	SimilarityScore  float64 `json:"similarity_score"`
	PixelsDifferent  int     `json:"pixels_different"`
	TotalPixels      int     `json:"total_pixels"`
	SameSize         bool    `json:"same_size"`
	Region1Size      Size    `json:"region1_size"`
	Region2Size      Size    `json:"region2_size"`
	AverageColorDiff float64 `json:"average_color_diff"`

	// AverageAlphaDiff is measured on the 0 (opaque) - 127 scale.
	AverageAlphaDiff float64 `json:"average_alpha_diff"`
}

// CompareRegions compares r1 of img1 with r2 of img2 pixel by pixel.
//
// Regions are relative to each image's origin and clipped to it. When the
// sizes differ the overlapping top-left part is compared. A pixel counts as
// different when its average RGB difference exceeds 10 or its alpha differs
// by more than 1 step. Useful for checking Overlay and Merge results against
// a reference.
func CompareRegions(img1 image.Image, r1 RegionRect, img2 image.Image, r2 RegionRect) (*CompareResult, error) {
	b1 := r1.Rect().Add(img1.Bounds().Min).Intersect(img1.Bounds())
	b2 := r2.Rect().Add(img2.Bounds().Min).Intersect(img2.Bounds())
	if b1.Empty() || b2.Empty() {
		return nil, fmt.Errorf("%w: region is empty or outside the image", ErrInvalidGeometry)
	}

	minW, minH := b1.Dx(), b1.Dy()
	if b2.Dx() < minW {
		minW = b2.Dx()
	}
	if b2.Dy() < minH {
		minH = b2.Dy()
	}

	totalPixels := minW * minH
	pixelsDifferent := 0
	var totalColorDiff, totalAlphaDiff float64

	for dy := 0; dy < minH; dy++ {
		for dx := 0; dx < minW; dx++ {
			c1 := color.NRGBAModel.Convert(img1.At(b1.Min.X+dx, b1.Min.Y+dy)).(color.NRGBA)
			c2 := color.NRGBAModel.Convert(img2.At(b2.Min.X+dx, b2.Min.Y+dy)).(color.NRGBA)

			diff := float64(absDiff(c1.R, c2.R)+absDiff(c1.G, c2.G)+absDiff(c1.B, c2.B)) / 3.0
			alphaDiff := absDiff(alphaFromNRGBA(c1.A), alphaFromNRGBA(c2.A))

			totalColorDiff += diff
			totalAlphaDiff += float64(alphaDiff)
			if diff > compareThreshold || alphaDiff > 1 {
				pixelsDifferent++
			}
		}
	}

	similarity := 1.0 - float64(pixelsDifferent)/float64(totalPixels)
	return &CompareResult{
		SimilarityScore:  math.Round(similarity*1000) / 1000,
		PixelsDifferent:  pixelsDifferent,
		TotalPixels:      totalPixels,
		SameSize:         b1.Size() == b2.Size(),
		Region1Size:      Size{W: b1.Dx(), H: b1.Dy()},
		Region2Size:      Size{W: b2.Dx(), H: b2.Dy()},
		AverageColorDiff: math.Round(totalColorDiff/float64(totalPixels)*100) / 100,
		AverageAlphaDiff: math.Round(totalAlphaDiff/float64(totalPixels)*100) / 100,
	}, nil
}

// Compare compares region r1 of the document with region r2 of other. A
// nil region means the whole image.
func (d *Document) Compare(r1 *RegionRect, other *Document, r2 *RegionRect) (*CompareResult, error) {
	img1, err := d.buffer()
	if err != nil {
		return nil, err
	}
	img2, err := other.buffer()
	if err != nil {
		return nil, fmt.Errorf("failed to compare: %w", err)
	}

	whole := func(r *RegionRect, s Size) RegionRect {
		if r == nil {
			return CropRect(0, 0, s.W, s.H)
		}
		return *r
	}
	return CompareRegions(img1, whole(r1, d.Size()), img2, whole(r2, other.Size()))
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
