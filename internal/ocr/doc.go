// Package ocr reads text back out of images using Tesseract.
//
// It wraps the Tesseract engine (via gosseract/v2) and works on in-memory
// images, so rendered documents can be checked without writing them to
// disk first. Captions and watermarks drawn by the imaging package are the
// main use.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Functions
//
//   - ReadText: whole-image OCR with word bounding boxes
//   - ReadTextInRegion: OCR of one rectangle, boxes in image coordinates
//   - DetectTextRegions: block locations without recognition
//
// # Error Handling
//
// Errors are returned for unsupported language codes, Tesseract
// initialization failures and images that cannot be encoded. If bounding
// box extraction fails, ReadText still returns the text with an empty
// Regions slice.
package ocr
