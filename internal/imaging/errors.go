package imaging

import "errors"

// Sentinel errors reported by the imaging package. Callers match them with
// errors.Is; the returned errors carry additional context.
var (
	// ErrInvalidColor means a color specification could not be normalized.
	ErrInvalidColor = errors.New("invalid color")

	// ErrFontLoadFailed means a font could not be loaded or measured.
	ErrFontLoadFailed = errors.New("unable to load font")

	// ErrInvalidGeometry means an operation would produce a buffer with a
	// non-positive width or height.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrUnsupportedFormat means the requested encode format is not available.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrInvalidImage means the input could not be decoded as an image.
	ErrInvalidImage = errors.New("invalid image")

	// ErrDocumentClosed means an operation was attempted on a closed document.
	ErrDocumentClosed = errors.New("document is closed")
)
