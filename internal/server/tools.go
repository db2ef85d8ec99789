package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "raster_info",
			Description: "Load an image file (Targa, PNG, BMP, TIFF or .rgbz snapshot) and return its dimensions, format, alpha usage and file size.",
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

		// Transform Operations
		{
			Name:        "raster_apply",
			Description: "Load an image, apply a list of operations in order (e.g. \"gray\", \"dither-fs\", \"scale 0.5\", \"comp-over /tmp/bg.tga\"), and optionally save the result and return a PNG preview. Use raster_operations to list the commands.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the input image",
					},
					"operations": map[string]interface{}{
						"type":        "array",
						"description": "Commands to apply, one per entry, with their arguments",
						"items": map[string]interface{}{
							"type": "string",
						},
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path to save the result; the extension selects the format",
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the result as a base64 PNG",
						"default":     false,
					},
					"preview_size": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum preview width and height in pixels",
						"default":     512,
					},
				},
				"required": []string{"path", "operations"},
			},
		},
		{
			Name:        "raster_run_script",
			Description: "Run a multi-line command script (load, transform, save, compare). Blank lines and lines starting with # are skipped. Stops at the first failing line.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"script": map[string]interface{}{
						"type":        "string",
						"description": "Script text, one command per line",
					},
					"base_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory that relative paths in the script are resolved against",
					},
				},
				"required": []string{"script"},
			},
		},
		{
			Name:        "raster_operations",
			Description: "List every command accepted by raster_apply and raster_run_script with its arguments and a description.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Analysis
		{
			Name:        "raster_compare",
			Description: "Compare two image files pixel for pixel. Reports whether they are identical, how many pixels differ and the largest channel difference.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the first image",
					},
					"path2": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the second image",
					},
				},
				"required": []string{"path1", "path2"},
			},
		},
		{
			Name:        "raster_sample_color",
			Description: "Get the exact color at a pixel as hex, RGB, stored RGBA and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "raster_palette",
			Description: "List the most common colors of an image, bucketed the same way populosity quantization counts them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return",
						"default":     8,
					},
				},
				"required": []string{"path"},
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
