package detection

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/target-vision/internal/geometry"
)

// Point2f is a sub-pixel image position.
type Point2f struct {
	X float64 `json:"x"` // Horizontal position (0 = leftmost)
	Y float64 `json:"y"` // Vertical position (0 = topmost)
}

// Size2f is the extent of an oriented box along its own axes.
type Size2f struct {
	Width  float64 `json:"width"`  // Short side after normalization
	Height float64 `json:"height"` // Long side after normalization
}

// OrientedBox is the minimal rotated rectangle around a detected region.
//
// Boxes produced by NormalizeBox are tall (Size.Height >= Size.Width) and
// Angle is the tilt of the long axis from vertical, in degrees.
type OrientedBox struct {
	Center Point2f `json:"center"`
	Size   Size2f  `json:"size"`
	Angle  float64 `json:"angle"`
}

// Bounds represents an axis-aligned bounding box in pixel coordinates.
//
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// boxFromRect converts a geometry rectangle without normalizing it.
func boxFromRect(r geometry.RotatedRect) OrientedBox {
	return OrientedBox{
		Center: Point2f(r.Center),
		Size:   Size2f{Width: r.Width, Height: r.Height},
		Angle:  r.Angle,
	}
}

// NormalizeBox makes a box tall.
//
// When the box is wider than it is tall the sides are swapped and the box is
// turned a quarter: an angle a < 0 becomes a + 90, any other angle becomes
// -90. Boxes that are already tall are returned unchanged.
func NormalizeBox(b OrientedBox) OrientedBox {
	if b.Size.Width <= b.Size.Height {
		return b
	}
	angle := -90.0
	if b.Angle < 0 {
		angle = b.Angle + 90
	}
	return OrientedBox{
		Center: b.Center,
		Size:   Size2f{Width: b.Size.Height, Height: b.Size.Width},
		Angle:  angle,
	}
}

// Corners returns the four corners of the box.
func (b OrientedBox) Corners() [4]Point2f {
	rect := geometry.RotatedRect{
		Center: r2.Vec(b.Center),
		Width:  b.Size.Width,
		Height: b.Size.Height,
		Angle:  b.Angle,
	}
	var out [4]Point2f
	for i, c := range rect.Corners() {
		out[i] = Point2f(c)
	}
	return out
}

// SpanBounds returns the axis-aligned bounds covering both boxes, rounded
// outward to whole pixels.
func SpanBounds(a, b OrientedBox) Bounds {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, box := range []OrientedBox{a, b} {
		for _, c := range box.Corners() {
			minX = math.Min(minX, c.X)
			minY = math.Min(minY, c.Y)
			maxX = math.Max(maxX, c.X)
			maxY = math.Max(maxY, c.Y)
		}
	}
	return Bounds{
		X1: int(math.Floor(minX)),
		Y1: int(math.Floor(minY)),
		X2: int(math.Ceil(maxX)),
		Y2: int(math.Ceil(maxY)),
	}
}
