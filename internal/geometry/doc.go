// Package geometry provides the planar primitives used by target detection.
//
// It covers three steps that sit between a binary mask and a set of oriented
// boxes:
//
//   - Contours: border following over a 0/255 mask with full outer/hole
//     hierarchy, with straight runs compressed to their endpoints.
//   - Moments: spatial, central and normalized moments of a contour polygon
//     computed by Green's theorem, plus the seven Hu invariants.
//   - Rotated rectangles: the minimal-area rectangle enclosing a point set,
//     found with a convex hull and rotating calipers.
//
// # Coordinate System
//
// Points use image coordinates: origin at the top-left pixel, X rightward,
// Y downward. Contour points are the integer coordinates of boundary pixels,
// so a filled block spanning columns 10..29 has a contour edge of length 19.
//
// # Backends
//
// The default build uses the pure Go implementations above. Building with
// the gocv tag (go build -tags gocv) routes FindContours, ComputeMoments and
// MinAreaRect through OpenCV instead; that build needs OpenCV installed.
// Both report the same hierarchy, ordering and angle range. Backend names
// the one compiled in.
//
// # Angle Convention
//
// MinAreaRect reports the rotation of the rectangle's width edge from the
// horizontal axis in degrees, in the range [-90, 0). Axis-aligned rectangles
// therefore come back as -90 with the visual width and height swapped.
package geometry
