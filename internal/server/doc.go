// Package server implements the MCP (Model Context Protocol) server that
// exposes simpleimage editing operations as tools.
//
// The server speaks JSON-RPC 2.0 and lets MCP clients resize, crop, annotate
// and filter image files, run multi-step pipelines written in the script
// language, and read rendered text back with OCR.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Dimensions, format, orientation and transparency
//   - image_dimensions: Width, height and orientation
//   - image_sample_color: Color at a pixel, with 0-127 alpha
//   - image_dominant_colors: Color palette of an image or region
//   - image_compare_regions: Similarity of two regions, for checking results
//
// Geometry:
//   - image_resize, image_best_fit, image_thumbnail
//   - image_crop, image_crop_region
//   - image_rotate, image_flip
//
// Compositing and Filters:
//   - image_overlay: Place one image over another
//   - image_text: Draw text with per-letter colors and strokes
//   - image_filter: Blur, brightness, colorize, sepia and the other filters
//   - image_grid: Coordinate grid for picking positions
//
// Pipelines:
//   - image_process: Run a script, see package script
//
// OCR:
//   - image_read_text: Read text from an image or region
//   - image_detect_text_regions: Find text bounding boxes
//
// # Results
//
// Tools that produce an image accept output, format and quality. With an
// output path the image is written there and the result carries the path;
// otherwise the result carries the encoded image as a base64 data URI.
// Source files are never modified unless output names them.
//
// # Image Caching
//
// Source images are opened through an imaging.DocumentCache keyed by path
// and reused across tool calls. Writing to a path evicts it, so a later call
// reads the new file. The cache is cleared when Serve returns.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := imaging.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
