package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/simpleimage/internal/imaging"
	"github.com/ironsheep/simpleimage/internal/ocr"
	"github.com/ironsheep/simpleimage/internal/script"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_thumbnail").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the source document from the cache
//  4. Runs the imaging, script or ocr operation
//  5. Returns the result, writing transformed images to disk or base64
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_compare_regions":
		return s.handleImageCompareRegions(args)

	// Geometry
	case "image_resize":
		return s.handleImageResize(args)
	case "image_best_fit":
		return s.handleImageBestFit(args)
	case "image_thumbnail":
		return s.handleImageThumbnail(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_region":
		return s.handleImageCropRegion(args)
	case "image_rotate":
		return s.handleImageRotate(args)
	case "image_flip":
		return s.handleImageFlip(args)

	// Compositing and Filters
	case "image_overlay":
		return s.handleImageOverlay(args)
	case "image_text":
		return s.handleImageText(args)
	case "image_filter":
		return s.handleImageFilter(args)
	case "image_grid":
		return s.handleImageGrid(args)

	// Pipelines
	case "image_process":
		return s.handleImageProcess(args)

	// OCR
	case "image_read_text":
		return s.handleImageReadText(args)
	case "image_detect_text_regions":
		return s.handleImageDetectTextRegions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Output ===

// outputArgs are shared by every tool that produces an image.
type outputArgs struct {
	// Output is the file to write. When empty the image is returned inline.
	Output  string `json:"output"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// ImageResult describes an image produced by a tool.
type ImageResult struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Format   imaging.Format `json:"format"`
	MimeType string         `json:"mime_type"`

	// Path is set when the image was written to disk.
	Path string `json:"path,omitempty"`

	// ImageBase64 is a data URI, set when no output path was given.
	ImageBase64 string `json:"image_base64,omitempty"`
}

// emit writes doc to out.Output or encodes it as a data URI.
func (s *Server) emit(doc *imaging.Document, out outputArgs) (*ImageResult, error) {
	format, err := doc.OutputFormat(out.Format, out.Output)
	if err != nil {
		return nil, err
	}
	if format == imaging.FormatWebP && out.Format == "" && out.Output == "" {
		// WebP sources are returned inline as PNG.
		format = imaging.FormatPNG
	}
	result := &ImageResult{
		Width:    doc.Width(),
		Height:   doc.Height(),
		Format:   format,
		MimeType: format.MimeType(),
	}

	if out.Output != "" {
		if err := doc.Save(out.Output, string(format), out.Quality); err != nil {
			return nil, err
		}
		// The file may be cached from an earlier call.
		s.cache.Evict(out.Output)
		result.Path = out.Output
		return result, nil
	}

	uri, err := doc.Base64(string(format), out.Quality)
	if err != nil {
		return nil, err
	}
	result.ImageBase64 = uri
	return result, nil
}

// transform loads path, applies op and emits the result.
func (s *Server) transform(path string, out outputArgs, op func(*imaging.Document) (*imaging.Document, error)) (*ImageResult, error) {
	doc, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	result, err := op(doc)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	return s.emit(result, out)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return doc.SampleColor(a.X, a.Y)
}

// regionArgs is a rectangle given by two corners.
type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type imageDominantColorsArgs struct {
	Path   string      `json:"path"`
	Count  int         `json:"count"`
	Region *regionArgs `json:"region,omitempty"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	return doc.DominantColors(a.Count, a.Region.rect())
}

// rect converts the corners to a RegionRect. A nil region stays nil.
func (r *regionArgs) rect() *imaging.RegionRect {
	if r == nil {
		return nil
	}
	rect := imaging.CropRect(r.X1, r.Y1, r.X2, r.Y2)
	return &rect
}

type imageCompareRegionsArgs struct {
	Path    string      `json:"path"`
	Region  *regionArgs `json:"region,omitempty"`
	Other   string      `json:"other"`
	Region2 *regionArgs `json:"region2,omitempty"`
}

func (s *Server) handleImageCompareRegions(args json.RawMessage) (interface{}, error) {
	var a imageCompareRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Other == "" {
		a.Other = a.Path
	}
	if a.Region2 == nil {
		a.Region2 = a.Region
	}

	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	other, err := s.cache.Load(a.Other)
	if err != nil {
		return nil, err
	}
	return doc.Compare(a.Region.rect(), other, a.Region2.rect())
}

// === Geometry Handlers ===

type imageResizeArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	outputArgs
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		switch {
		case a.Height == 0:
			return d.FitToWidth(a.Width)
		case a.Width == 0:
			return d.FitToHeight(a.Height)
		}
		return d.Resize(a.Width, a.Height)
	})
}

type imageBestFitArgs struct {
	Path      string `json:"path"`
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
	outputArgs
}

func (s *Server) handleImageBestFit(args json.RawMessage) (interface{}, error) {
	var a imageBestFitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.BestFit(a.MaxWidth, a.MaxHeight)
	})
}

type imageThumbnailArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Anchor string `json:"anchor"`
	outputArgs
}

func (s *Server) handleImageThumbnail(args json.RawMessage) (interface{}, error) {
	var a imageThumbnailArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	focal, err := imaging.ParseAnchor(a.Anchor)
	if err != nil {
		return nil, err
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.Thumbnail(a.Width, a.Height, focal)
	})
}

type imageCropArgs struct {
	Path string `json:"path"`
	regionArgs
	outputArgs
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.Crop(a.X1, a.Y1, a.X2, a.Y2)
	})
}

type imageCropRegionArgs struct {
	Path   string `json:"path"`
	Region string `json:"region"`
	outputArgs
}

func (s *Server) handleImageCropRegion(args json.RawMessage) (interface{}, error) {
	var a imageCropRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.CropRegion(a.Region)
	})
}

type imageRotateArgs struct {
	Path       string      `json:"path"`
	Angle      float64     `json:"angle"`
	Background interface{} `json:"background"`
	outputArgs
}

func (s *Server) handleImageRotate(args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.Rotate(a.Angle, a.Background)
	})
}

type imageFlipArgs struct {
	Path      string `json:"path"`
	Direction string `json:"direction"`
	outputArgs
}

func (s *Server) handleImageFlip(args json.RawMessage) (interface{}, error) {
	var a imageFlipArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Direction == "" {
		a.Direction = "x"
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.Flip(a.Direction)
	})
}

// === Compositing and Filter Handlers ===

type imageOverlayArgs struct {
	Path     string   `json:"path"`
	Overlay  string   `json:"overlay"`
	Position string   `json:"position"`
	Opacity  *float64 `json:"opacity"`
	XOffset  int      `json:"x_offset"`
	YOffset  int      `json:"y_offset"`
	outputArgs
}

func (s *Server) handleImageOverlay(args json.RawMessage) (interface{}, error) {
	var a imageOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	position, err := imaging.ParseAnchor(a.Position)
	if err != nil {
		return nil, err
	}
	opacity := 1.0
	if a.Opacity != nil {
		opacity = *a.Opacity
	}
	other, err := s.cache.Load(a.Overlay)
	if err != nil {
		return nil, fmt.Errorf("failed to load overlay: %w", err)
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.Overlay(other, position, opacity, a.XOffset, a.YOffset)
	})
}

type imageTextArgs struct {
	Path          string      `json:"path"`
	Text          string      `json:"text"`
	Font          string      `json:"font"`
	Size          float64     `json:"size"`
	Color         interface{} `json:"color"`
	StrokeColor   interface{} `json:"stroke_color"`
	StrokeWidth   int         `json:"stroke_width"`
	Position      string      `json:"position"`
	XOffset       int         `json:"x_offset"`
	YOffset       int         `json:"y_offset"`
	Align         string      `json:"align"`
	LetterSpacing int         `json:"letter_spacing"`
	outputArgs
}

// textRun converts tool arguments into a TextRun.
func (a *imageTextArgs) textRun() (imaging.TextRun, error) {
	run := imaging.TextRun{
		Text:          a.Text,
		Font:          a.Font,
		Size:          a.Size,
		StrokeWidth:   a.StrokeWidth,
		OffsetX:       a.XOffset,
		OffsetY:       a.YOffset,
		LetterSpacing: a.LetterSpacing,
	}
	if run.Size == 0 {
		run.Size = 12
	}
	if run.StrokeWidth == 0 {
		run.StrokeWidth = 1
	}

	var err error
	if run.Colors, err = imaging.NormalizeAll(a.Color); err != nil {
		return run, fmt.Errorf("color: %w", err)
	}
	if run.StrokeColors, err = imaging.NormalizeAll(a.StrokeColor); err != nil {
		return run, fmt.Errorf("stroke_color: %w", err)
	}
	if run.Position, err = imaging.ParseAnchor(a.Position); err != nil {
		return run, err
	}
	if run.Align, err = imaging.ParseAlignment(a.Align); err != nil {
		return run, err
	}
	return run, nil
}

func (s *Server) handleImageText(args json.RawMessage) (interface{}, error) {
	var a imageTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	run, err := a.textRun()
	if err != nil {
		return nil, err
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.Text(run)
	})
}

type imageFilterArgs struct {
	Path    string      `json:"path"`
	Filter  string      `json:"filter"`
	Level   float64     `json:"level"`
	Kind    string      `json:"kind"`
	Passes  int         `json:"passes"`
	Color   interface{} `json:"color"`
	Opacity *float64    `json:"opacity"`
	outputArgs
}

func (s *Server) handleImageFilter(args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := imaging.FilterOptions{
		Kind:    a.Kind,
		Level:   a.Level,
		Passes:  a.Passes,
		Color:   a.Color,
		Opacity: 1,
	}
	if opts.Passes == 0 {
		opts.Passes = 1
	}
	if a.Opacity != nil {
		opts.Opacity = *a.Opacity
	}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.Filter(a.Filter, opts)
	})
}

type imageGridArgs struct {
	Path    string      `json:"path"`
	Spacing int         `json:"spacing"`
	Color   interface{} `json:"color"`
	Labels  bool        `json:"labels"`
	outputArgs
}

func (s *Server) handleImageGrid(args json.RawMessage) (interface{}, error) {
	var a imageGridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := imaging.GridOptions{Spacing: a.Spacing, Color: a.Color, Labels: a.Labels}
	return s.transform(a.Path, a.outputArgs, func(d *imaging.Document) (*imaging.Document, error) {
		return d.Grid(opts)
	})
}

// === Pipeline Handler ===

type imageProcessArgs struct {
	Script string `json:"script"`
	Dir    string `json:"dir"`
	outputArgs
}

// ProcessResult is the outcome of image_process.
type ProcessResult struct {
	// Saved lists files written by save statements.
	Saved []string `json:"saved"`

	// Image is the final document, written to output or returned inline.
	Image *ImageResult `json:"image"`
}

func (s *Server) handleImageProcess(args json.RawMessage) (interface{}, error) {
	var a imageProcessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Script == "" {
		return nil, fmt.Errorf("script is required")
	}

	runner := &script.Runner{Config: s.cfg, Dir: a.Dir}
	result, err := runner.RunString(a.Script)
	if err != nil {
		return nil, err
	}
	defer result.Doc.Close()

	for _, path := range result.Saved {
		s.cache.Evict(path)
	}

	img, err := s.emit(result.Doc, a.outputArgs)
	if err != nil {
		return nil, err
	}
	saved := result.Saved
	if saved == nil {
		saved = []string{}
	}
	return &ProcessResult{Saved: saved, Image: img}, nil
}

// === OCR Handlers ===

type imageReadTextArgs struct {
	Path      string      `json:"path"`
	Language  string      `json:"language"`
	Whitelist string      `json:"whitelist"`
	Region    *regionArgs `json:"region,omitempty"`
}

func (s *Server) handleImageReadText(args json.RawMessage) (interface{}, error) {
	var a imageReadTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	img, err := doc.Image()
	if err != nil {
		return nil, err
	}

	opts := ocr.Options{Language: a.Language, Whitelist: a.Whitelist}
	if a.Region != nil {
		r := image.Rect(a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)
		return ocr.ReadTextInRegion(img, r, opts)
	}
	return ocr.ReadText(img, opts)
}

type imageDetectTextRegionsArgs struct {
	Path          string  `json:"path"`
	MinConfidence float64 `json:"min_confidence"`
}

func (s *Server) handleImageDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a imageDetectTextRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = 0.5
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	img, err := doc.Image()
	if err != nil {
		return nil, err
	}
	return ocr.DetectTextRegions(img, a.MinConfidence)
}
