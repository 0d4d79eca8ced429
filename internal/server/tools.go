package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// namedRegions lists the values accepted by the named_region argument.
var namedRegions = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// pipelineProperties returns the schema properties shared by every tool that
// runs the pre-processing pipeline.
func pipelineProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before segmenting. 0 disables smoothing. Defaults to the server configuration (0.8).",
			"minimum":     0,
		},
		"resize_width": map[string]interface{}{
			"type":        "integer",
			"description": "Scale the image to this many columns before segmenting, keeping aspect ratio. 0 keeps the source size. Defaults to the server configuration (240).",
			"minimum":     0,
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional rectangle to segment instead of the whole image. x1,y1 inclusive; x2,y2 exclusive.",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"named_region": map[string]interface{}{
			"type":        "string",
			"description": "Optional named part of the image to segment. Ignored when region is given.",
			"enum":        namedRegions,
		},
	}
}

// segmentProperties extends pipelineProperties with the merge sensitivity.
func segmentProperties() map[string]interface{} {
	props := pipelineProperties()
	props["k"] = map[string]interface{}{
		"type":        "number",
		"description": "Merge sensitivity. Larger values produce fewer, larger regions; useful values lie roughly between 500 and 50000. Defaults to the server configuration (30000).",
		"minimum":     0,
	}
	props["seed"] = map[string]interface{}{
		"type":        "integer",
		"description": "Palette seed for region colors. The same seed always colors a segmentation the same way.",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	segmentProps := segmentProperties()
	segmentProps["outline"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw region boundaries in black on the colorized image",
		"default":     false,
	}
	segmentProps["include_image"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Return the colorized segmentation as base64 PNG",
		"default":     true,
	}
	segmentProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional file path to also write the colorized segmentation to. The format follows the extension.",
	}

	regionsProps := segmentProperties()
	regionsProps["top"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of largest regions to describe. 0 describes all of them.",
		"default":     10,
		"minimum":     0,
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached so later segmentation calls on the same path are fast.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Segmentation
		{
			Name:        "image_segment",
			Description: "Segment an image into regions of similar intensity with the graph-based merge algorithm and return the region count plus a colorized PNG. Call repeatedly with different k values to tune the granularity.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": segmentProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_segment_regions",
			Description: "Segment an image and describe its largest regions: size, share of the image, bounding box, centroid, mean and standard deviation of intensity, and display color.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": regionsProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_mst",
			Description: "Compute the minimum spanning tree of an image's 8-connected pixel graph, weighted by intensity difference. Returns the tree's total and heaviest edge weights.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(),
				"required":   []string{"path"},
			},
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
