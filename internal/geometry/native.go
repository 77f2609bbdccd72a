//go:build !gocv

package geometry

import "image"

// Backend names the implementation of FindContours, ComputeMoments and
// MinAreaRect compiled into this binary.
const Backend = "native"

// FindContours traces every border in a binary mask.
//
// Any non-zero pixel counts as foreground. The result holds outer borders
// and hole borders with their nesting recorded in Parent, and straight runs
// compressed to their endpoints. Contours are returned in the order their
// first pixel is met by a row-major scan.
//
// A region of a single pixel yields a one-point contour; a one-pixel-wide
// line yields its endpoints. Both have zero area.
func FindContours(mask *image.Gray) []Contour {
	return traceContours(mask)
}

// ComputeMoments returns the moments of the closed polygon through pts.
//
// The polygon is closed implicitly from the last point back to the first.
// Orientation does not matter: M00 is always the non-negative enclosed
// area. Fewer than three points, or collinear points, give all zeros.
func ComputeMoments(pts []image.Point) Moments {
	return polygonMoments(pts)
}

// MinAreaRect finds the smallest-area rectangle enclosing pts.
//
// The returned Angle lies in [-90, 0). Degenerate input follows the OpenCV
// convention:
//   - no points: the zero rectangle
//   - one distinct point: zero size centred on it
//   - collinear points: zero height, width along the segment
func MinAreaRect(pts []image.Point) RotatedRect {
	return hullMinAreaRect(pts)
}
