package imaging

import (
	"fmt"
	"os"
	"sync"
)

// DocumentCache keeps opened documents keyed by file path so repeated
// requests for the same file skip disk reads and decoding.
//
// All documents are opened with the cache's Config. The cache owns the
// documents it returns: callers must not Close them, and should derive new
// documents (every operation does) instead of holding on to a cached one
// across Evict or Clear, which close the evicted documents.
//
// DocumentCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewDocumentCache(imaging.DefaultConfig())
//	doc, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	thumb, err := doc.Thumbnail(100, 100, imaging.Center)
//	cache.Evict("/path/to/image.png") // Optional: free memory
type DocumentCache struct {
	cfg Config

	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentCache creates an empty cache that opens documents with cfg.
func NewDocumentCache(cfg Config) *DocumentCache {
	return &DocumentCache{
		cfg:  cfg.withDefaults(),
		docs: make(map[string]*Document),
	}
}

// Config returns the configuration documents are opened with.
func (c *DocumentCache) Config() Config {
	return c.cfg
}

// Load returns the cached document for path, opening it on first use.
//
// The document is cached under the exact path string given, so different
// spellings of the same file get separate entries.
func (c *DocumentCache) Load(path string) (*Document, error) {
	c.mu.RLock()
	if doc, ok := c.docs[path]; ok {
		c.mu.RUnlock()
		return doc, nil
	}
	c.mu.RUnlock()

	doc, err := Open(path, c.cfg)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.docs[path]; ok {
		// Another goroutine won the race.
		doc.Close()
		return cached, nil
	}
	c.docs[path] = doc
	return doc, nil
}

// Clear closes and removes every cached document.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	for _, doc := range c.docs {
		doc.Close()
	}
	c.docs = make(map[string]*Document)
	c.mu.Unlock()
}

// Evict closes and removes the document cached for path, if any. The next
// Load for that path reads the file again, which is what callers want after
// overwriting it.
func (c *DocumentCache) Evict(path string) {
	c.mu.Lock()
	if doc, ok := c.docs[path]; ok {
		doc.Close()
		delete(c.docs, path)
	}
	c.mu.Unlock()
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format detected from the file contents.
	Format Format `json:"format"`

	// MimeType is the MIME type for Format.
	MimeType string `json:"mime_type"`

	// Orientation is "landscape", "portrait" or "square".
	Orientation string `json:"orientation"`

	// HasAlpha reports whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and returns its metadata.
//
// Parameters:
//   - cache: The document cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Metadata about the image.
//   - error: Non-nil if the image cannot be loaded or the file cannot be stat'd.
func LoadImageInfo(cache *DocumentCache, path string) (*ImageInfo, error) {
	doc, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := doc.Info()
	return &ImageInfo{
		Width:         doc.Width(),
		Height:        doc.Height(),
		Format:        info.Format,
		MimeType:      info.MimeType,
		Orientation:   doc.Orientation(),
		HasAlpha:      doc.HasAlpha(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Orientation string `json:"orientation"`
}

// GetDimensions returns the dimensions and orientation of an image without
// the rest of its metadata. The image is loaded into the cache if not
// already present.
func GetDimensions(cache *DocumentCache, path string) (*DimensionsResult, error) {
	doc, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	return &DimensionsResult{
		Width:       doc.Width(),
		Height:      doc.Height(),
		Orientation: doc.Orientation(),
	}, nil
}
