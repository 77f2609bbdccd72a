// Package imaging loads, resizes and encodes the frames fed to the target
// detector.
//
// It wraps github.com/disintegration/imaging for decoding (with EXIF
// auto-orientation), Lanczos resizing and format-by-extension saving, and
// adds a thread-safe cache so the MCP server can run several tools against
// the same frame without re-reading it.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Decoded frames always
// have their bounds starting at (0, 0).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless.
package imaging
