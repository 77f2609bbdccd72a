package geometry

import (
	"image"
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestComputeMoments_Rectangle(t *testing.T) {
	// 4×2 rectangle with its corner at the origin.
	pts := []image.Point{{0, 0}, {4, 0}, {4, 2}, {0, 2}}
	m := ComputeMoments(pts)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"M00", m.M00, 8},
		{"M10", m.M10, 16},
		{"M01", m.M01, 8},
		{"Mu20", m.Mu20, 2 * 64.0 / 12},
		{"Mu02", m.Mu02, 4 * 8.0 / 12},
		{"Mu11", m.Mu11, 0},
		{"Mu30", m.Mu30, 0},
		{"Mu03", m.Mu03, 0},
	}
	for _, tt := range tests {
		if !approxEqual(tt.got, tt.want, 1e-9) {
			t.Errorf("%s: got %g, want %g", tt.name, tt.got, tt.want)
		}
	}

	cx, cy := m.Centroid()
	if !approxEqual(cx, 2, 1e-12) || !approxEqual(cy, 1, 1e-12) {
		t.Errorf("Centroid: got (%g,%g), want (2,1)", cx, cy)
	}
}

func TestComputeMoments_OrientationIndependent(t *testing.T) {
	pts := []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	rev := []image.Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}

	a := ComputeMoments(pts)
	b := ComputeMoments(rev)

	if a.M00 != 100 || b.M00 != 100 {
		t.Errorf("M00: got %g and %g, want 100 for both orientations", a.M00, b.M00)
	}
	if a != b {
		t.Errorf("moments differ by orientation:\n%+v\n%+v", a, b)
	}
}

func TestComputeMoments_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []image.Point
	}{
		{"empty", nil},
		{"one point", []image.Point{{3, 3}}},
		{"two points", []image.Point{{0, 0}, {5, 5}}},
		{"collinear", []image.Point{{0, 0}, {5, 0}, {9, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMoments(tt.pts)
			if m != (Moments{}) {
				t.Errorf("expected zero moments, got %+v", m)
			}
			if hu := m.Hu(); hu != [7]float64{} {
				t.Errorf("expected zero Hu moments, got %v", hu)
			}
		})
	}
}

func TestHu_Invariance(t *testing.T) {
	// An L shape has no symmetry that would zero out the higher invariants.
	base := []image.Point{{0, 0}, {8, 0}, {8, 3}, {3, 3}, {3, 9}, {0, 9}}
	want := ComputeMoments(base).Hu()

	transforms := []struct {
		name string
		fn   func(image.Point) image.Point
	}{
		{"translate", func(p image.Point) image.Point { return p.Add(image.Pt(17, -4)) }},
		{"scale", func(p image.Point) image.Point { return p.Mul(3) }},
		{"rotate 90", func(p image.Point) image.Point { return image.Pt(-p.Y, p.X) }},
		{"rotate 180", func(p image.Point) image.Point { return image.Pt(-p.X, -p.Y) }},
	}

	for _, tr := range transforms {
		t.Run(tr.name, func(t *testing.T) {
			pts := make([]image.Point, len(base))
			for i, p := range base {
				pts[i] = tr.fn(p)
			}
			got := ComputeMoments(pts).Hu()
			for i := range got {
				tol := 1e-6*math.Abs(want[i]) + 1e-12
				if !approxEqual(got[i], want[i], tol) {
					t.Errorf("hu[%d]: got %g, want %g", i, got[i], want[i])
				}
			}
		})
	}
}

func TestHu_ReflectionFlipsSeventh(t *testing.T) {
	base := []image.Point{{0, 0}, {8, 0}, {8, 3}, {3, 3}, {3, 9}, {0, 9}}
	mirrored := make([]image.Point, len(base))
	for i, p := range base {
		mirrored[i] = image.Pt(-p.X, p.Y)
	}

	a := ComputeMoments(base).Hu()
	b := ComputeMoments(mirrored).Hu()

	if a[6] == 0 {
		t.Fatal("seventh invariant of the L shape should be non-zero")
	}
	if !approxEqual(a[6], -b[6], 1e-6*math.Abs(a[6])) {
		t.Errorf("hu[6]: got %g and %g, want opposite signs", a[6], b[6])
	}
	if !approxEqual(a[0], b[0], 1e-12) {
		t.Errorf("hu[0] should survive reflection: %g vs %g", a[0], b[0])
	}
}
