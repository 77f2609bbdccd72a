package geometry

import (
	"image"
	"testing"
)

// maskWith returns a w×h mask with the given rectangles set to 255.
func maskWith(w, h int, rects ...image.Rectangle) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for _, r := range rects {
		fill(m, r, 255)
	}
	return m
}

func fill(m *image.Gray, r image.Rectangle, v uint8) {
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[m.PixOffset(x, y)] = v
		}
	}
}

func samePoints(a, b []image.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindContours_Block(t *testing.T) {
	mask := maskWith(100, 100, image.Rect(10, 20, 30, 60))

	contours := FindContours(mask)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}

	c := contours[0]
	want := []image.Point{{10, 20}, {10, 59}, {29, 59}, {29, 20}}
	if !samePoints(c.Points, want) {
		t.Errorf("Points: got %v, want %v", c.Points, want)
	}
	if c.Parent != -1 {
		t.Errorf("Parent: got %d, want -1", c.Parent)
	}
	if c.IsHole {
		t.Error("outer border reported as hole")
	}
}

func TestFindContours_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
		want []image.Point
	}{
		{"single pixel", image.Rect(7, 3, 8, 4), []image.Point{{7, 3}}},
		{"horizontal line", image.Rect(5, 5, 10, 6), []image.Point{{5, 5}, {9, 5}}},
		{"vertical line", image.Rect(5, 5, 6, 10), []image.Point{{5, 5}, {5, 9}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contours := FindContours(maskWith(20, 20, tt.rect))
			if len(contours) != 1 {
				t.Fatalf("got %d contours, want 1", len(contours))
			}
			if !samePoints(contours[0].Points, tt.want) {
				t.Errorf("Points: got %v, want %v", contours[0].Points, tt.want)
			}
			if area := ComputeMoments(contours[0].Points).M00; area != 0 {
				t.Errorf("area: got %g, want 0", area)
			}
		})
	}
}

func TestFindContours_Empty(t *testing.T) {
	if got := FindContours(maskWith(30, 30)); len(got) != 0 {
		t.Errorf("got %d contours on an empty mask", len(got))
	}
	if got := FindContours(image.NewGray(image.Rect(0, 0, 0, 0))); len(got) != 0 {
		t.Errorf("got %d contours on a zero-size mask", len(got))
	}
}

func TestFindContours_FullFrame(t *testing.T) {
	contours := FindContours(maskWith(8, 6, image.Rect(0, 0, 8, 6)))
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	want := []image.Point{{0, 0}, {0, 5}, {7, 5}, {7, 0}}
	if !samePoints(contours[0].Points, want) {
		t.Errorf("Points: got %v, want %v", contours[0].Points, want)
	}
}

func TestFindContours_ScanOrder(t *testing.T) {
	// The right block starts higher, so it is met first.
	mask := maskWith(100, 100,
		image.Rect(10, 40, 20, 60),
		image.Rect(60, 10, 70, 30),
	)

	contours := FindContours(mask)
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}
	if contours[0].Points[0] != image.Pt(60, 10) {
		t.Errorf("first contour starts at %v, want (60,10)", contours[0].Points[0])
	}
	if contours[1].Points[0] != image.Pt(10, 40) {
		t.Errorf("second contour starts at %v, want (10,40)", contours[1].Points[0])
	}
	for i, c := range contours {
		if c.Parent != -1 || c.IsHole {
			t.Errorf("contour %d: Parent %d IsHole %v, want top-level outer", i, c.Parent, c.IsHole)
		}
	}
}

func TestFindContours_Hierarchy(t *testing.T) {
	// A ring with an island inside its hole.
	mask := maskWith(100, 100, image.Rect(10, 10, 70, 70))
	fill(mask, image.Rect(20, 20, 60, 60), 0)
	fill(mask, image.Rect(35, 35, 45, 45), 255)

	contours := FindContours(mask)
	if len(contours) != 3 {
		t.Fatalf("got %d contours, want 3", len(contours))
	}

	want := []struct {
		parent int
		isHole bool
	}{
		{-1, false},
		{0, true},
		{1, false},
	}
	for i, w := range want {
		if contours[i].Parent != w.parent || contours[i].IsHole != w.isHole {
			t.Errorf("contour %d: got Parent %d IsHole %v, want Parent %d IsHole %v",
				i, contours[i].Parent, contours[i].IsHole, w.parent, w.isHole)
		}
	}

	outer := ComputeMoments(contours[0].Points).M00
	hole := ComputeMoments(contours[1].Points).M00
	if hole <= 0 || hole >= outer {
		t.Errorf("hole area %g should be positive and below outer area %g", hole, outer)
	}
}

func TestFindContours_DiagonalConnectivity(t *testing.T) {
	// Two pixels touching only at a corner form one 8-connected region.
	mask := maskWith(10, 10, image.Rect(2, 2, 3, 3), image.Rect(3, 3, 4, 4))

	contours := FindContours(mask)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	want := []image.Point{{2, 2}, {3, 3}}
	if !samePoints(contours[0].Points, want) {
		t.Errorf("Points: got %v, want %v", contours[0].Points, want)
	}
}

func TestFindContours_OffsetBounds(t *testing.T) {
	mask := image.NewGray(image.Rect(50, 40, 90, 80))
	fill(mask, image.Rect(60, 50, 70, 55), 255)

	contours := FindContours(mask)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	want := []image.Point{{60, 50}, {60, 54}, {69, 54}, {69, 50}}
	if !samePoints(contours[0].Points, want) {
		t.Errorf("Points: got %v, want %v", contours[0].Points, want)
	}
}

func TestCompressChain(t *testing.T) {
	pts := []image.Point{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}, {2, 1}, {2, 0}, {1, 0}}
	want := []image.Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}}

	if got := compressChain(pts); !samePoints(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
