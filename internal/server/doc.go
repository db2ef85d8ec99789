// Package server implements the MCP (Model Context Protocol) server for the
// raster tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the raster engine
// through the MCP protocol, so an MCP client can convert, transform and
// inspect Targa, PNG, BMP, TIFF and .rgbz images.
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
//   - raster_info: Dimensions, format, alpha usage and file size
//
// Transform Operations:
//   - raster_apply: Apply a list of commands to one image
//   - raster_run_script: Run a multi-line command script
//   - raster_operations: List the commands
//
// Analysis:
//   - raster_compare: Pixel-exact comparison of two files
//   - raster_sample_color: Color at a pixel
//   - raster_palette: Most common colors
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls. The cache
// hands out copies, so a transform never alters a cached image, and saving
// through a tool evicts the stale entry for that path.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// raster_run_script is the exception: a failing line is reported in the
// result next to the commands that completed before it.
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
