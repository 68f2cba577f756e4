package imaging

import (
	"fmt"
	"strings"
)

// NamedRegion returns the rectangle of s called name:
//
//	top-left, top-right, bottom-left, bottom-right   quadrants
//	top-half, bottom-half, left-half, right-half     halves
//	center                                           the middle 50%
//
// Names may use spaces or underscores instead of dashes.
func NamedRegion(s Size, name string) (RegionRect, error) {
	w, h := s.W, s.H
	midX, midY := w/2, h/2

	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)

	switch key {
	case "top-left":
		return CropRect(0, 0, midX, midY), nil
	case "top-right":
		return CropRect(midX, 0, w, midY), nil
	case "bottom-left":
		return CropRect(0, midY, midX, h), nil
	case "bottom-right":
		return CropRect(midX, midY, w, h), nil
	case "top-half":
		return CropRect(0, 0, w, midY), nil
	case "bottom-half":
		return CropRect(0, midY, w, h), nil
	case "left-half":
		return CropRect(0, 0, midX, h), nil
	case "right-half":
		return CropRect(midX, 0, w, h), nil
	case "center":
		qW, qH := w/4, h/4
		return CropRect(qW, qH, w-qW, h-qH), nil
	}
	return RegionRect{}, fmt.Errorf("unknown region: %s", name)
}

// CropRegion crops the document to the region called name (see
// NamedRegion).
func (d *Document) CropRegion(name string) (*Document, error) {
	if _, err := d.buffer(); err != nil {
		return nil, err
	}
	r, err := NamedRegion(d.Size(), name)
	if err != nil {
		return nil, err
	}
	return d.crop(r)
}
