package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ironsheep/raster-tools-mcp/internal/codec"
	"github.com/ironsheep/raster-tools-mcp/internal/script"
)

// defaultPreviewSize bounds raster_apply previews when preview_size is omitted.
const defaultPreviewSize = 512

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_info", "raster_apply").
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
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
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
//  3. Loads images through the cache
//  4. Runs the raster engine or a script session
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Information
	case "raster_info":
		return s.handleRasterInfo(args)

	// Transform Operations
	case "raster_apply":
		return s.handleRasterApply(args)
	case "raster_run_script":
		return s.handleRasterRunScript(args)
	case "raster_operations":
		return s.handleRasterOperations(args)

	// Analysis
	case "raster_compare":
		return s.handleRasterCompare(args)
	case "raster_sample_color":
		return s.handleRasterSampleColor(args)
	case "raster_palette":
		return s.handleRasterPalette(args)

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

// newSession creates a script session that shares the server cache.
func (s *Server) newSession(opts ...script.Option) *script.Session {
	opts = append([]script.Option{script.WithCache(s.cache), script.WithLogger(s.logger)}, opts...)
	if s.seed != nil {
		opts = append(opts, script.WithSeed(*s.seed))
	}
	return script.NewSession(opts...)
}

// === Image Information Handlers ===

type rasterPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleRasterInfo(args json.RawMessage) (interface{}, error) {
	var a rasterPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return codec.LoadInfo(s.cache, a.Path)
}

// === Transform Handlers ===

type rasterApplyArgs struct {
	Path        string   `json:"path"`
	Operations  []string `json:"operations"`
	Output      string   `json:"output"`
	Preview     bool     `json:"preview"`
	PreviewSize int      `json:"preview_size"`
}

// ApplyResult reports the outcome of raster_apply.
type ApplyResult struct {
	Width   int                  `json:"width"`
	Height  int                  `json:"height"`
	Applied []script.Result      `json:"applied"`
	Output  string               `json:"output,omitempty"`
	Preview *codec.PreviewResult `json:"preview,omitempty"`
}

func (s *Server) handleRasterApply(args json.RawMessage) (interface{}, error) {
	var a rasterApplyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.PreviewSize <= 0 {
		a.PreviewSize = defaultPreviewSize
	}

	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	sess := s.newSession()
	sess.SetCurrent(buf)

	result := &ApplyResult{Applied: []script.Result{}}
	for i, line := range a.Operations {
		r, err := sess.Exec(line)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		if r != nil {
			result.Applied = append(result.Applied, *r)
		}
	}

	out := sess.Current()
	result.Width, result.Height = out.Width(), out.Height()

	if a.Output != "" {
		if err := s.cache.Save(a.Output, out); err != nil {
			return nil, err
		}
		result.Output = a.Output
	}

	// A transform may legally leave an empty image, which has nothing to preview
	if a.Preview && !out.Empty() {
		result.Preview, err = codec.Preview(out, a.PreviewSize)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

type rasterRunScriptArgs struct {
	Script  string `json:"script"`
	BaseDir string `json:"base_dir"`
}

// ScriptResult reports the commands a script completed. Error is set when
// a line failed; the commands before it still ran.
type ScriptResult struct {
	Results []script.Result `json:"results"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
}

func (s *Server) handleRasterRunScript(args json.RawMessage) (interface{}, error) {
	var a rasterRunScriptArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	sess := s.newSession(script.WithBaseDir(a.BaseDir))
	results, err := sess.Run(strings.NewReader(a.Script))

	out := &ScriptResult{Results: results, Success: err == nil}
	if out.Results == nil {
		out.Results = []script.Result{}
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out, nil
}

func (s *Server) handleRasterOperations(_ json.RawMessage) (interface{}, error) {
	ops := script.Operations()
	usage := make([]map[string]interface{}, 0, len(ops))
	for _, op := range ops {
		usage = append(usage, map[string]interface{}{
			"name":        op.Name,
			"usage":       op.Usage(),
			"category":    op.Category,
			"description": op.Description,
		})
	}
	return map[string]interface{}{
		"operations": usage,
		"count":      len(usage),
	}, nil
}

// === Analysis Handlers ===

type rasterCompareArgs struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
}

func (s *Server) handleRasterCompare(args json.RawMessage) (interface{}, error) {
	var a rasterCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img1, err := s.cache.Load(a.Path1)
	if err != nil {
		return nil, fmt.Errorf("path1: %w", err)
	}
	img2, err := s.cache.Load(a.Path2)
	if err != nil {
		return nil, fmt.Errorf("path2: %w", err)
	}
	return img1.Compare(img2)
}

type rasterSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleRasterSampleColor(args json.RawMessage) (interface{}, error) {
	var a rasterSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return img.SampleColor(a.X, a.Y)
}

type rasterPaletteArgs struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func (s *Server) handleRasterPalette(args json.RawMessage) (interface{}, error) {
	var a rasterPaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count <= 0 {
		a.Count = 8
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return img.Palette(a.Count), nil
}
