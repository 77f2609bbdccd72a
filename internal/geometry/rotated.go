package geometry

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// RotatedRect is a rectangle at an arbitrary rotation.
type RotatedRect struct {
	// Center is the rectangle's centre point.
	Center r2.Vec

	// Width is the length of the edge whose direction Angle describes.
	Width float64

	// Height is the length of the perpendicular edge.
	Height float64

	// Angle is the rotation of the width edge from horizontal, in degrees.
	Angle float64
}

// Corners returns the four corners of the rectangle, walking around it.
func (r RotatedRect) Corners() [4]r2.Vec {
	rad := r.Angle * math.Pi / 180
	u := r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
	v := r2.Vec{X: -u.Y, Y: u.X}
	hu := r2.Scale(r.Width/2, u)
	hv := r2.Scale(r.Height/2, v)

	return [4]r2.Vec{
		r2.Sub(r2.Sub(r.Center, hu), hv),
		r2.Sub(r2.Add(r.Center, hu), hv),
		r2.Add(r2.Add(r.Center, hu), hv),
		r2.Add(r2.Sub(r.Center, hu), hv),
	}
}

// ConvexHull returns the convex hull of pts in counterclockwise order
// (in the mathematical sense) using Andrew's monotone chain. Collinear
// points on the hull edges are dropped.
func ConvexHull(pts []image.Point) []r2.Vec {
	if len(pts) == 0 {
		return nil
	}

	sorted := make([]r2.Vec, len(pts))
	for i, p := range pts {
		sorted[i] = r2.Vec{X: float64(p.X), Y: float64(p.Y)}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	// Deduplicate
	uniq := sorted[:1]
	for _, p := range sorted[1:] {
		if p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return uniq
	}

	hull := make([]r2.Vec, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// cross is the z component of (b-a) × (c-a).
func cross(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// hullMinAreaRect is the rotating calipers search behind MinAreaRect. One
// edge of the optimal rectangle is collinear with a hull edge, so each hull
// edge direction is tried in turn.
func hullMinAreaRect(pts []image.Point) RotatedRect {
	hull := ConvexHull(pts)
	switch len(hull) {
	case 0:
		return RotatedRect{}
	case 1:
		return RotatedRect{Center: hull[0]}
	case 2:
		return segmentRect(hull[0], hull[1])
	}

	best := RotatedRect{}
	bestArea := math.Inf(1)

	n := len(hull)
	for i := 0; i < n; i++ {
		edge := r2.Sub(hull[(i+1)%n], hull[i])
		length := r2.Norm(edge)
		if length == 0 {
			continue
		}
		u := r2.Scale(1/length, edge)
		v := r2.Vec{X: -u.Y, Y: u.X}

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			pu := r2.Dot(p, u)
			pv := r2.Dot(p, v)
			minU = math.Min(minU, pu)
			maxU = math.Max(maxU, pu)
			minV = math.Min(minV, pv)
			maxV = math.Max(maxV, pv)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			center := r2.Add(
				r2.Scale((minU+maxU)/2, u),
				r2.Scale((minV+maxV)/2, v),
			)
			best = orient(center, maxU-minU, maxV-minV, math.Atan2(u.Y, u.X)*180/math.Pi)
		}
	}

	return best
}

// segmentRect is the zero-height rectangle covering the segment a-b.
func segmentRect(a, b r2.Vec) RotatedRect {
	d := r2.Sub(b, a)
	center := r2.Scale(0.5, r2.Add(a, b))
	return orient(center, r2.Norm(d), 0, math.Atan2(d.Y, d.X)*180/math.Pi)
}

// orient expresses a rectangle whose width edge points along angle degrees
// so that the reported angle falls in [-90, 0). Turning the reference edge
// by a quarter swaps which side is the width.
func orient(center r2.Vec, width, height, angle float64) RotatedRect {
	// Reduce to [-90, 90): a rectangle is symmetric under half turns.
	angle -= 180 * math.Floor((angle+90)/180)
	if angle >= 0 {
		angle -= 90
		width, height = height, width
	}
	return RotatedRect{Center: center, Width: width, Height: height, Angle: angle}
}
