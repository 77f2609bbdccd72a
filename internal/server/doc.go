// Package server implements the MCP (Model Context Protocol) server for
// target detection.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line on stdin
// and one response per line on stdout. Logs go to stderr.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - target_load: Load a frame and report its size and format
//   - target_mask: Threshold a frame by HSV range, returning the mask PNG
//   - target_detect: Run the full pipeline, returning boxes and the best pair
//   - target_score_pair: Score two boxes given directly
//
// target_mask and target_detect accept hsv_min/hsv_max overrides so a client
// can tune the color range interactively without restarting the server.
//
// # Image Caching
//
// Frames are cached by path for the life of the process. Pass reload to
// target_load when a camera rewrites the same file. The configured working
// resolution is applied on each call, not to the cached copy.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data. A line that is not JSON gets a
// -32700 reply with a null id. Finding no target is not an error:
// target_detect returns a result without a pair.
package server
