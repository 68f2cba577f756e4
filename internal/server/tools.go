package server

import "github.com/ironsheep/simpleimage/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var anchorEnum = []string{
	"center", "top", "bottom", "left", "right",
	"top left", "top right", "bottom left", "bottom right",
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func colorProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"description": description + ` Accepts "#RGB"/"#RRGGBB", [r, g, b(, a)] or {"r","g","b","a"}; alpha 0 is opaque and 127 transparent.`,
	}
}

// withOutput adds the output, format and quality properties shared by every
// tool that produces an image.
func withOutput(props map[string]interface{}) map[string]interface{} {
	props["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional file to write the result to. When omitted the image is returned as a base64 data URI.",
	}
	props["format"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"png", "jpeg", "gif", "bmp", "tiff"},
		"description": "Output format. Defaults to the output file extension, then the source format.",
	}
	props["quality"] = map[string]interface{}{
		"type":        "integer",
		"description": "Encode quality 1-100. JPEG uses it directly, PNG maps it to a compression level. Default 80",
		"minimum":     1,
		"maximum":     100,
	}
	return props
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, orientation and whether it has transparency.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
			}, "path"),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and orientation (landscape, portrait or square) of an image file.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
			}, "path"),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate, including its alpha.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (0-based, from left)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (0-based, from top)",
				},
			}, "path", "x", "y"),
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the most common colors in an image or region, most frequent first.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
				"count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of colors to return. Default 5",
					"default":     5,
				},
				"region": map[string]interface{}{
					"type":        "object",
					"description": "Optional region {x1, y1, x2, y2} to analyze",
				},
			}, "path"),
		},
		{
			Name:        "image_compare_regions",
			Description: "Compare a region of one image with a region of the same or another image. Returns a similarity score from 0 to 1 and the number of differing pixels. Use it to check an overlay or text result against a reference.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
				"region": map[string]interface{}{
					"type":        "object",
					"description": "Region {x1, y1, x2, y2} of the first image. Default whole image",
				},
				"other": map[string]interface{}{
					"type":        "string",
					"description": "Second image file. Default the first image",
				},
				"region2": map[string]interface{}{
					"type":        "object",
					"description": "Region {x1, y1, x2, y2} of the second image. Default the first region",
				},
			}, "path"),
		},

		// Geometry
		{
			Name:        "image_resize",
			Description: "Resize an image to an exact size. Give only width or only height to keep the aspect ratio.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Target width in pixels",
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Target height in pixels",
				},
			}), "path"),
		},
		{
			Name:        "image_best_fit",
			Description: "Shrink an image to fit inside a box while keeping its aspect ratio. Images that already fit are unchanged.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"max_width": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum width in pixels",
				},
				"max_height": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum height in pixels",
				},
			}), "path", "max_width", "max_height"),
		},
		{
			Name:        "image_thumbnail",
			Description: "Resize and crop an image to exactly fill width x height, keeping the part of the image at the anchor.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Thumbnail width in pixels",
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Thumbnail height in pixels. Defaults to width",
				},
				"anchor": map[string]interface{}{
					"type":        "string",
					"enum":        anchorEnum,
					"description": "Part of the image to keep. Default center",
					"default":     "center",
				},
			}), "path", "width"),
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image. Corners may be given in any order; parts outside the image are transparent.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"x1": map[string]interface{}{
					"type":        "integer",
					"description": "Left edge X coordinate (0-based)",
				},
				"y1": map[string]interface{}{
					"type":        "integer",
					"description": "Top edge Y coordinate (0-based)",
				},
				"x2": map[string]interface{}{
					"type":        "integer",
					"description": "Right edge X coordinate (exclusive)",
				},
				"y2": map[string]interface{}{
					"type":        "integer",
					"description": "Bottom edge Y coordinate (exclusive)",
				},
			}), "path", "x1", "y1", "x2", "y2"),
		},
		{
			Name:        "image_crop_region",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center).",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"region": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
					"description": "Named region to extract",
				},
			}), "path", "region"),
		},
		{
			Name:        "image_rotate",
			Description: "Rotate an image clockwise by an angle in degrees (-360 to 360). Uncovered corners are filled with the background color.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"angle": map[string]interface{}{
					"type":        "number",
					"description": "Clockwise rotation in degrees",
				},
				"background": colorProperty("Fill for uncovered corners. Default opaque black."),
			}), "path", "angle"),
		},
		{
			Name:        "image_flip",
			Description: "Mirror an image horizontally (x), vertically (y) or both.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"x", "y", "both"},
					"description": "Flip direction. Default x",
					"default":     "x",
				},
			}), "path"),
		},

		// Compositing and Filters
		{
			Name:        "image_overlay",
			Description: "Place one image over another at an anchor position with optional opacity and pixel offsets. Transparent parts of the overlay let the base show through.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"overlay": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the image to place on top",
				},
				"position": map[string]interface{}{
					"type":        "string",
					"enum":        anchorEnum,
					"description": "Anchor position. Default center",
					"default":     "center",
				},
				"opacity": map[string]interface{}{
					"type":        "number",
					"description": "Overlay opacity 0-1. Default 1",
					"default":     1.0,
				},
				"x_offset": map[string]interface{}{
					"type":        "integer",
					"description": "Horizontal offset in pixels",
				},
				"y_offset": map[string]interface{}{
					"type":        "integer",
					"description": "Vertical offset in pixels",
				},
			}), "path", "overlay"),
		},
		{
			Name:        "image_text",
			Description: "Draw text on an image. Several fill or stroke colors are cycled per letter; letter_spacing also draws one letter at a time.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to draw",
				},
				"font": map[string]interface{}{
					"type":        "string",
					"description": "Path to a TrueType/OpenType font. Default is the built-in Go Regular font",
				},
				"size": map[string]interface{}{
					"type":        "number",
					"description": "Font size in points. Default 12",
					"default":     12,
				},
				"color":        colorProperty("Fill color or list of colors. Default black."),
				"stroke_color": colorProperty("Optional stroke color or list of colors."),
				"stroke_width": map[string]interface{}{
					"type":        "integer",
					"description": "Stroke width in pixels. Default 1",
					"default":     1,
				},
				"position": map[string]interface{}{
					"type":        "string",
					"enum":        anchorEnum,
					"description": "Anchor position. Default center",
					"default":     "center",
				},
				"x_offset": map[string]interface{}{
					"type":        "integer",
					"description": "Horizontal offset in pixels",
				},
				"y_offset": map[string]interface{}{
					"type":        "integer",
					"description": "Vertical offset in pixels",
				},
				"align": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"none", "left", "right"},
					"description": "Pin the text to the left or right edge",
				},
				"letter_spacing": map[string]interface{}{
					"type":        "integer",
					"description": "Extra pixels after every letter",
				},
			}), "path", "text"),
		},
		{
			Name:        "image_filter",
			Description: "Apply an image filter: blur, brightness, colorize, contrast, desaturate, edges, emboss, invert, mean_remove, pixelate, sepia, sketch, smooth or sharpen.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"filter": map[string]interface{}{
					"type":        "string",
					"enum":        imaging.FilterNames,
					"description": "Filter to apply",
				},
				"level": map[string]interface{}{
					"type":        "number",
					"description": "Strength for brightness (-255..255), contrast (-100..100), smooth (-10..10), pixelate (block size, default 10) and desaturate (percent, default 100)",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"gaussian", "selective"},
					"description": "Blur kind. Default selective",
				},
				"passes": map[string]interface{}{
					"type":        "integer",
					"description": "Blur passes. Default 1",
					"default":     1,
				},
				"color": colorProperty("Colorize color."),
				"opacity": map[string]interface{}{
					"type":        "number",
					"description": "Colorize opacity 0-1. Default 1",
					"default":     1.0,
				},
			}), "path", "filter"),
		},
		{
			Name:        "image_grid",
			Description: "Draw a coordinate grid over an image to help pick crop rectangles, overlay offsets and text positions.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"path": pathProperty(),
				"spacing": map[string]interface{}{
					"type":        "integer",
					"description": "Grid spacing in pixels. Default 50",
					"default":     imaging.DefaultGridSpacing,
				},
				"color": colorProperty("Line color. Default translucent red."),
				"labels": map[string]interface{}{
					"type":        "boolean",
					"description": "Label intersections with their coordinates",
				},
			}), "path"),
		},

		// Pipelines
		{
			Name:        "image_process",
			Description: "Run a pipeline script, one command per line, e.g. load \"in.png\" / thumbnail 200 200 / text \"Hi\" size 24 color \"#fff\" position \"bottom right\" / save \"out.jpg\" quality 90.",
			InputSchema: objectSchema(withOutput(map[string]interface{}{
				"script": map[string]interface{}{
					"type":        "string",
					"description": "Script source. It must start with load or new",
				},
				"dir": map[string]interface{}{
					"type":        "string",
					"description": "Directory that relative paths in the script resolve against",
				},
			}), "script"),
		},

		// OCR
		{
			Name:        "image_read_text",
			Description: "Read text from an image or region with Tesseract OCR. Useful for checking rendered captions and watermarks.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Tesseract language code. Default eng",
					"default":     "eng",
				},
				"whitelist": map[string]interface{}{
					"type":        "string",
					"description": "Only recognize these characters",
				},
				"region": map[string]interface{}{
					"type":        "object",
					"description": "Optional region {x1, y1, x2, y2} to read",
				},
			}, "path"),
		},
		{
			Name:        "image_detect_text_regions",
			Description: "Find blocks of text in an image and return their bounding boxes without reading them.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
				"min_confidence": map[string]interface{}{
					"type":        "number",
					"description": "Minimum confidence 0-1. Default 0.5",
					"default":     0.5,
				},
			}, "path"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
