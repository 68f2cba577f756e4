// Package imaging implements the image document behind the simpleimage tools:
// loading, resizing, cropping, compositing, filtering, text rendering and
// encoding of raster images.
//
// Most pixel work is delegated to github.com/disintegration/imaging and
// github.com/anthonynsimon/bild. The package itself implements four pieces
// that those libraries do not provide:
//   - Normalize: parses color specifications into a clamped Color.
//   - Merge: a two-pass compositor that keeps relative transparency.
//   - BestFit, FitToWidth, FitToHeight, ThumbnailPlan and CropRect: the
//     aspect-preserving geometry every fit and thumbnail reduces to.
//   - DrawText: anchored, multi-color, stroked text with per-glyph layout.
//
// # Documents
//
// A Document owns one *image.NRGBA and is immutable. Every operation returns
// a new Document, so a document can be used as the operand of another's
// Overlay without aliasing. Chain (see Edit) strings operations together
// and stops at the first error.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. For regions, (Left,Top) is
// inclusive and (Right,Bottom) is exclusive.
//
// # Alpha
//
// Color uses an alpha range of 0 (fully opaque) to 127 (fully transparent).
// Buffers use Go's NRGBA alpha (0 transparent, 255 opaque); Color.NRGBA and
// FromNRGBA convert between the two.
//
// # Thread Safety
//
// Documents are read-only after creation and may be shared between
// goroutines. DocumentCache and OpenTypeFonts are safe for concurrent use.
//
// # Error Handling
//
// Errors wrap the package's sentinels (ErrInvalidColor, ErrFontLoadFailed,
// ErrInvalidGeometry, ErrUnsupportedFormat, ErrInvalidImage,
// ErrDocumentClosed); test them with errors.Is. A failed operation leaves
// its input untouched.
package imaging
