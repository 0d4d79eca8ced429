package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/image-segment-mcp/internal/imaging"
)

// DefaultTopRegions is how many regions image_segment_regions describes when
// the caller does not say.
const DefaultTopRegions = 10

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_segment").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed",
			zap.String("tool", params.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool finished",
		zap.String("tool", params.Name),
		zap.Duration("elapsed", time.Since(start)))

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
//  2. Fills omitted parameters from the server configuration
//  3. Loads the image from cache
//  4. Runs the pipeline and returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Segmentation
	case "image_segment":
		return s.handleImageSegment(ctx, args)
	case "image_segment_regions":
		return s.handleImageSegmentRegions(ctx, args)
	case "image_mst":
		return s.handleImageMST(args)

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

// === Basic Image Information Handlers ===

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

// === Segmentation Handlers ===

// pipelineArgs are the pre-processing arguments shared by all segmentation
// tools. Pointer fields distinguish "omitted" from an explicit zero.
type pipelineArgs struct {
	Path        string          `json:"path"`
	BlurRadius  *float64        `json:"blur_radius"`
	ResizeWidth *int            `json:"resize_width"`
	Region      *imaging.Region `json:"region"`
	NamedRegion string          `json:"named_region"`
}

// segmentOptions merges a and k over the configured defaults. bounds is the
// source image's bounds, needed to resolve a named region. A nil k keeps the
// configured sensitivity.
func (s *Server) segmentOptions(a pipelineArgs, k *float64, bounds image.Rectangle) (imaging.SegmentOptions, error) {
	opts := s.cfg.SegmentOptions()
	if k != nil {
		if *k < 0 {
			return opts, fmt.Errorf("k must not be negative, got %g", *k)
		}
		opts.K = *k
	}
	if a.BlurRadius != nil {
		if *a.BlurRadius < 0 {
			return opts, fmt.Errorf("blur_radius must not be negative, got %g", *a.BlurRadius)
		}
		opts.BlurRadius = *a.BlurRadius
	}
	if a.ResizeWidth != nil {
		if *a.ResizeWidth < 0 {
			return opts, fmt.Errorf("resize_width must not be negative, got %d", *a.ResizeWidth)
		}
		opts.ResizeWidth = *a.ResizeWidth
	}

	switch {
	case a.Region != nil:
		r := *a.Region
		opts.Region = &r
	case a.NamedRegion != "":
		r, err := imaging.NamedRegion(bounds, a.NamedRegion)
		if err != nil {
			return opts, err
		}
		opts.Region = &r
	}
	return opts, nil
}

type imageSegmentArgs struct {
	pipelineArgs
	K            *float64 `json:"k"`
	Seed         *int64   `json:"seed"`
	Outline      *bool    `json:"outline"`
	IncludeImage *bool    `json:"include_image"`
	OutputPath   string   `json:"output_path"`
	Top          *int     `json:"top"`
}

// segment loads the image named by a and runs the full pipeline with the
// server defaults filled in.
func (s *Server) segment(ctx context.Context, a imageSegmentArgs) (*imaging.Segmentation, imaging.RenderOptions, error) {
	render := s.cfg.RenderOptions()
	if a.Seed != nil {
		render.Seed = *a.Seed
	}
	if a.Outline != nil {
		render.Outline = *a.Outline
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, render, err
	}
	opts, err := s.segmentOptions(a.pipelineArgs, a.K, img.Bounds())
	if err != nil {
		return nil, render, err
	}

	seg, err := imaging.Segment(ctx, img, opts)
	if err != nil {
		return nil, render, err
	}
	s.logger.Debug("segmented",
		zap.String("path", a.Path),
		zap.Float64("k", opts.K),
		zap.Int("width", seg.Intensity.Width),
		zap.Int("height", seg.Intensity.Height),
		zap.Int("regions", seg.Partition.Count()),
		zap.Duration("elapsed", seg.Elapsed))
	return seg, render, nil
}

type imageSegmentResult struct {
	*imaging.SegmentResult

	// OutputPath echoes where the colorized image was written, if anywhere.
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleImageSegment(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSegmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	includeImage := a.IncludeImage == nil || *a.IncludeImage

	seg, render, err := s.segment(ctx, a)
	if err != nil {
		return nil, err
	}
	summary, err := imaging.Summarize(ctx, seg, render, false)
	if err != nil {
		return nil, err
	}
	result := &imageSegmentResult{SegmentResult: summary}
	if !includeImage && a.OutputPath == "" {
		return result, nil
	}

	colored, err := imaging.Colorize(ctx, seg.Partition, render)
	if err != nil {
		return nil, err
	}
	if includeImage {
		encoded, err := imaging.EncodePNGBase64(colored)
		if err != nil {
			return nil, err
		}
		result.ImageBase64 = encoded
		result.MimeType = "image/png"
	}
	if a.OutputPath != "" {
		if err := imaging.SaveImage(colored, a.OutputPath); err != nil {
			return nil, err
		}
		result.OutputPath = a.OutputPath
	}
	return result, nil
}

type imageSegmentRegionsResult struct {
	*imaging.SegmentResult

	// TopRegions describes the largest regions, biggest first.
	TopRegions []imaging.RegionStat `json:"top_regions"`
}

func (s *Server) handleImageSegmentRegions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSegmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	top := DefaultTopRegions
	if a.Top != nil {
		if *a.Top < 0 {
			return nil, fmt.Errorf("top must not be negative, got %d", *a.Top)
		}
		top = *a.Top
	}

	seg, render, err := s.segment(ctx, a)
	if err != nil {
		return nil, err
	}
	summary, err := imaging.Summarize(ctx, seg, render, false)
	if err != nil {
		return nil, err
	}
	return &imageSegmentRegionsResult{
		SegmentResult: summary,
		TopRegions:    imaging.RegionStats(seg.Partition, seg.Intensity, top, render.Seed),
	}, nil
}

func (s *Server) handleImageMST(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	opts, err := s.segmentOptions(a, nil, img.Bounds())
	if err != nil {
		return nil, err
	}
	return imaging.SpanningTree(img, opts.PreprocessOptions)
}
