package geometry

import "image"

// Contour is the boundary of one connected foreground region or one hole
// inside such a region.
type Contour struct {
	// Points are boundary pixel coordinates in tracing order. Straight runs
	// (horizontal, vertical and diagonal) are compressed to their endpoints.
	Points []image.Point

	// Parent is the index of the enclosing contour, or -1 at the top level.
	Parent int

	// IsHole is true when the contour bounds a background hole.
	IsHole bool
}

// Neighbour offsets around a pixel. Increasing index turns counterclockwise
// on screen, starting east.
var (
	dirDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	dirDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

const (
	dirEast = 0
	dirWest = 4
)

// traceContours is the pure Go border follower behind FindContours. It
// implements the Suzuki-Abe scheme with 8-connectivity.
func traceContours(mask *image.Gray) []Contour {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Pad by one pixel so tracing never needs bounds checks.
	t := &tracer{stride: width + 2}
	t.f = make([]int32, t.stride*(height+2))
	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x, v := range row {
			if v != 0 {
				t.f[(y+1)*t.stride+x+1] = 1
			}
		}
	}

	contours := make([]Contour, 0)
	nbd := int32(1) // the frame
	offset := bounds.Min.Sub(image.Pt(1, 1))

	for y := 1; y <= height; y++ {
		lnbd := int32(1)
		for x := 1; x <= width; x++ {
			idx := y*t.stride + x
			v := t.f[idx]
			if v == 0 {
				continue
			}

			from := -1
			isHole := false
			if v == 1 && t.f[idx-1] == 0 {
				from = dirWest
			} else if v >= 1 && t.f[idx+1] == 0 {
				from = dirEast
				isHole = true
				if v > 1 {
					lnbd = v
				}
			}

			if from >= 0 {
				nbd++
				parent := parentOf(contours, lnbd, isHole)
				pts := t.follow(image.Pt(x, y), from, nbd)
				for i := range pts {
					pts[i] = pts[i].Add(offset)
				}
				contours = append(contours, Contour{
					Points: compressChain(pts),
					Parent: parent,
					IsHole: isHole,
				})
			}

			if f := t.f[idx]; f != 1 {
				if f < 0 {
					f = -f
				}
				lnbd = f
			}
		}
	}

	return contours
}

// parentOf resolves the parent of a newly found border from the last border
// met on the current row. The frame (lnbd 1) behaves as a hole border with
// no parent.
func parentOf(contours []Contour, lnbd int32, isHole bool) int {
	if lnbd <= 1 {
		return -1
	}
	ref := int(lnbd) - 2
	if contours[ref].IsHole == isHole {
		return contours[ref].Parent
	}
	return ref
}

// tracer holds the padded label image during border following.
// Values: 0 background, 1 unvisited foreground, ±n pixels of border n.
type tracer struct {
	f      []int32
	stride int
}

func (t *tracer) at(p image.Point) int32 {
	return t.f[p.Y*t.stride+p.X]
}

func (t *tracer) set(p image.Point, v int32) {
	t.f[p.Y*t.stride+p.X] = v
}

// follow traces one border starting at start, whose background neighbour
// lies in direction from. Pixels on the border are relabelled with nbd.
func (t *tracer) follow(start image.Point, from int, nbd int32) []image.Point {
	// Clockwise search for the first foreground neighbour.
	first := -1
	for k := 0; k < 8; k++ {
		d := (from - k + 8) % 8
		if t.at(neighbour(start, d)) != 0 {
			first = d
			break
		}
	}
	if first < 0 {
		t.set(start, -nbd)
		return []image.Point{start}
	}

	p1 := neighbour(start, first)
	p2, p3 := p1, start
	pts := []image.Point{start}

	for {
		back := direction(p3, p2)
		eastZero := false
		var p4 image.Point
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			q := neighbour(p3, d)
			if t.at(q) != 0 {
				p4 = q
				break
			}
			if d == dirEast {
				eastZero = true
			}
		}

		if eastZero {
			t.set(p3, -nbd)
		} else if t.at(p3) == 1 {
			t.set(p3, nbd)
		}

		if p4 == start && p3 == p1 {
			break
		}
		p2, p3 = p3, p4
		pts = append(pts, p3)
	}

	return pts
}

func neighbour(p image.Point, d int) image.Point {
	return image.Pt(p.X+dirDX[d], p.Y+dirDY[d])
}

// direction returns the neighbour index of q as seen from p.
// p and q must be 8-adjacent.
func direction(p, q image.Point) int {
	dx, dy := q.X-p.X, q.Y-p.Y
	for d := 0; d < 8; d++ {
		if dirDX[d] == dx && dirDY[d] == dy {
			return d
		}
	}
	return dirEast
}

// compressChain drops every point whose incoming and outgoing steps are
// equal, leaving only the endpoints of straight runs. The sequence is
// treated as closed.
func compressChain(pts []image.Point) []image.Point {
	n := len(pts)
	if n < 3 {
		return pts
	}
	out := make([]image.Point, 0, n)
	for i, p := range pts {
		prev := pts[(i-1+n)%n]
		next := pts[(i+1)%n]
		if p.Sub(prev) != next.Sub(p) {
			out = append(out, p)
		}
	}
	return out
}
