//go:build gocv

package geometry

import (
	"encoding/binary"
	"image"
	"runtime"
	"sort"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/spatial/r2"
)

// Backend names the implementation of FindContours, ComputeMoments and
// MinAreaRect compiled into this binary.
const Backend = "opencv"

// FindContours traces every border in a binary mask with OpenCV's
// findContours in tree mode and simple chain approximation.
//
// Any non-zero pixel counts as foreground. Nesting is taken from the
// OpenCV hierarchy; a contour at odd depth bounds a hole. Contours are
// reordered into row-major order of their first pixel so indices match the
// native build.
//
// If the mask cannot be handed to OpenCV the native tracer is used.
func FindContours(mask *image.Gray) []Contour {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	data := make([]byte, width*height)
	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x, v := range row {
			if v != 0 {
				data[y*width+x] = 255
			}
		}
	}

	src, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC1, data)
	if err != nil {
		return traceContours(mask)
	}
	defer src.Close()

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	found := gocv.FindContoursWithParams(src, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer found.Close()
	runtime.KeepAlive(data)

	n := found.Size()
	if n == 0 {
		return []Contour{}
	}

	parents := make([]int, n)
	for i := range parents {
		parents[i] = int(hierarchy.GetVeciAt(0, i)[3])
	}

	raw := make([]Contour, n)
	for i := 0; i < n; i++ {
		pts := found.At(i).ToPoints()
		for j := range pts {
			pts[j] = pts[j].Add(bounds.Min)
		}

		depth := 0
		for p := parents[i]; p >= 0; p = parents[p] {
			depth++
		}
		raw[i] = Contour{Points: pts, Parent: parents[i], IsHole: depth%2 == 1}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := raw[order[a]].Points[0], raw[order[b]].Points[0]
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		return pa.X < pb.X
	})

	rank := make([]int, n)
	for newIdx, oldIdx := range order {
		rank[oldIdx] = newIdx
	}

	contours := make([]Contour, n)
	for newIdx, oldIdx := range order {
		c := raw[oldIdx]
		if c.Parent >= 0 {
			c.Parent = rank[c.Parent]
		}
		contours[newIdx] = c
	}
	return contours
}

// ComputeMoments returns the moments of the closed polygon through pts
// using OpenCV's contour moments.
//
// Orientation does not matter: M00 is always the non-negative enclosed
// area. Fewer than three points, or collinear points, give all zeros.
func ComputeMoments(pts []image.Point) Moments {
	if len(pts) < 3 {
		return Moments{}
	}

	buf := make([]byte, 8*len(pts))
	for i, p := range pts {
		binary.LittleEndian.PutUint32(buf[8*i:], uint32(int32(p.X)))
		binary.LittleEndian.PutUint32(buf[8*i+4:], uint32(int32(p.Y)))
	}

	contour, err := gocv.NewMatFromBytes(len(pts), 1, gocv.MatTypeCV32SC2, buf)
	if err != nil {
		return polygonMoments(pts)
	}
	defer contour.Close()

	mm := gocv.Moments(contour, false)
	runtime.KeepAlive(buf)

	if mm["m00"] == 0 {
		return Moments{}
	}
	return Moments{
		M00: mm["m00"], M10: mm["m10"], M01: mm["m01"],
		M20: mm["m20"], M11: mm["m11"], M02: mm["m02"],
		M30: mm["m30"], M21: mm["m21"], M12: mm["m12"], M03: mm["m03"],

		Mu20: mm["mu20"], Mu11: mm["mu11"], Mu02: mm["mu02"],
		Mu30: mm["mu30"], Mu21: mm["mu21"], Mu12: mm["mu12"], Mu03: mm["mu03"],

		Nu20: mm["nu20"], Nu11: mm["nu11"], Nu02: mm["nu02"],
		Nu30: mm["nu30"], Nu21: mm["nu21"], Nu12: mm["nu12"], Nu03: mm["nu03"],
	}
}

// MinAreaRect finds the smallest-area rectangle enclosing pts with OpenCV's
// minAreaRect, re-expressed so Angle lies in [-90, 0).
//
// Degenerate input:
//   - no points: the zero rectangle
//   - one distinct point: zero size centred on it
//   - collinear points: zero height, width along the segment
func MinAreaRect(pts []image.Point) RotatedRect {
	if len(pts) == 0 {
		return RotatedRect{}
	}

	pv := gocv.NewPointVectorFromPoints(pts)
	defer pv.Close()

	r := gocv.MinAreaRect2f(pv)
	center := r2.Vec{X: float64(r.Center.X), Y: float64(r.Center.Y)}
	return orient(center, float64(r.Width), float64(r.Height), r.Angle)
}
