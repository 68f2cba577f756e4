package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a word with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the complete results of text extraction from an image.
type OCRResult struct {
	// FullText is all recognized text as a single string with original spacing/newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words with their bounding boxes and confidence scores.
	// May be empty if bounding box extraction fails (text will still be in FullText).
	Regions []TextRegion `json:"regions"`
}

// Options tunes recognition.
type Options struct {
	// Language is the Tesseract language code; empty means DefaultLanguage.
	Language string

	// Whitelist restricts recognition to these characters when not empty.
	Whitelist string
}

// newClient creates a Tesseract client loaded with img.
//
// Tesseract reads encoded images, so img is handed over as an in-memory
// PNG. The caller must Close the client.
func newClient(img image.Image, opts Options) (*gosseract.Client, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()

	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	return client, nil
}

// ReadText performs OCR on img and returns the recognized text with
// word-level bounding boxes.
//
// Typical use is checking rendered captions and watermarks: draw text onto a
// document, then read it back from the result.
//
// # Word-Level Results
//
// Regions uses Tesseract's RIL_WORD iterator level. Empty words are dropped.
// If word-level extraction fails, which happens with some Tesseract
// configurations, the full text is still returned with an empty Regions
// slice.
func ReadText(img image.Image, opts Options) (*OCRResult, error) {
	client, err := newClient(img, opts)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &OCRResult{
			FullText: text,
			Regions:  []TextRegion{},
		}, nil
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds:     boundsOf(box.Box),
		})
	}

	return &OCRResult{
		FullText: text,
		Regions:  regions,
	}, nil
}

// ReadTextInRegion performs OCR on the part of img inside r.
//
// r is relative to img's top-left corner and is clipped to the image. The
// returned bounding boxes are translated back into img's coordinates: a word
// found at (10, 20) inside a region starting at (100, 50) is reported at
// (110, 70).
func ReadTextInRegion(img image.Image, r image.Rectangle, opts Options) (*OCRResult, error) {
	b := img.Bounds()
	r = r.Canon().Add(b.Min).Intersect(b)
	if r.Empty() {
		return nil, fmt.Errorf("region is empty or outside the image")
	}

	result, err := ReadText(imaging.Crop(img, r), opts)
	if err != nil {
		return nil, err
	}

	off := r.Min.Sub(b.Min)
	for i := range result.Regions {
		result.Regions[i].Bounds.X1 += off.X
		result.Regions[i].Bounds.Y1 += off.Y
		result.Regions[i].Bounds.X2 += off.X
		result.Regions[i].Bounds.Y2 += off.Y
	}
	return result, nil
}

// DetectTextRegionsResult contains text region locations without the text.
type DetectTextRegionsResult struct {
	// Regions is the list of detected text regions with bounding boxes.
	Regions []TextRegionBox `json:"regions"`

	// Count is the number of text regions detected.
	Count int `json:"count"`
}

// TextRegionBox is a detected text region's location without its content.
type TextRegionBox struct {
	Bounds     Bounds  `json:"bounds"`
	Confidence float64 `json:"confidence"`
}

// DetectTextRegions finds block-level text regions in img without reading
// them. Regions with a confidence (0.0 to 1.0) below minConfidence are
// dropped.
func DetectTextRegions(img image.Image, minConfidence float64) (*DetectTextRegionsResult, error) {
	client, err := newClient(img, Options{})
	if err != nil {
		return nil, err
	}
	defer client.Close()

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get text regions: %w", err)
	}

	regions := make([]TextRegionBox, 0)
	for _, box := range boxes {
		confidence := box.Confidence / 100.0
		if confidence < minConfidence {
			continue
		}
		regions = append(regions, TextRegionBox{
			Bounds:     boundsOf(box.Box),
			Confidence: confidence,
		})
	}

	return &DetectTextRegionsResult{
		Regions: regions,
		Count:   len(regions),
	}, nil
}

func boundsOf(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}
