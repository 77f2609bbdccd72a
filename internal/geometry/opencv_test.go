//go:build gocv

package geometry

import (
	"image"
	"math"
	"testing"
)

func TestBackend_OpenCV(t *testing.T) {
	if Backend != "opencv" {
		t.Errorf("Backend: got %q, want opencv", Backend)
	}
}

func TestFindContours_MatchesNativeHierarchy(t *testing.T) {
	// A ring with an island inside its hole, plus a separate block.
	mask := maskWith(60, 60, image.Rect(5, 5, 35, 35), image.Rect(45, 10, 55, 20))
	fill(mask, image.Rect(10, 10, 30, 30), 0)
	fill(mask, image.Rect(15, 15, 25, 25), 255)

	got, want := FindContours(mask), traceContours(mask)
	if len(got) != len(want) {
		t.Fatalf("got %d contours, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Points[0] != want[i].Points[0] {
			t.Errorf("contour %d starts at %v, want %v", i, got[i].Points[0], want[i].Points[0])
		}
		if got[i].Parent != want[i].Parent || got[i].IsHole != want[i].IsHole {
			t.Errorf("contour %d: parent %d hole %v, want parent %d hole %v",
				i, got[i].Parent, got[i].IsHole, want[i].Parent, want[i].IsHole)
		}
	}
}

func TestComputeMoments_MatchesNative(t *testing.T) {
	poly := []image.Point{{10, 10}, {50, 14}, {46, 40}, {8, 30}}

	got, want := ComputeMoments(poly), polygonMoments(poly)
	checks := []struct {
		name      string
		got, want float64
	}{
		{"M00", got.M00, want.M00},
		{"M10", got.M10, want.M10},
		{"M01", got.M01, want.M01},
		{"Mu20", got.Mu20, want.Mu20},
		{"Mu11", got.Mu11, want.Mu11},
		{"Mu02", got.Mu02, want.Mu02},
		{"Nu20", got.Nu20, want.Nu20},
	}
	for _, c := range checks {
		if !approxEqual(c.got, c.want, 1e-6*(1+math.Abs(c.want))) {
			t.Errorf("%s: got %g, want %g", c.name, c.got, c.want)
		}
	}

	if m := ComputeMoments(poly[:2]); m != (Moments{}) {
		t.Errorf("two points: got %+v, want zero moments", m)
	}
}

func TestMinAreaRect_MatchesNative(t *testing.T) {
	// A 40×10 rectangle rotated by roughly 30 degrees.
	poly := []image.Point{{20, 20}, {55, 40}, {50, 49}, {15, 29}}

	got, want := MinAreaRect(poly), hullMinAreaRect(poly)
	if got.Angle < -90 || got.Angle >= 0 {
		t.Errorf("Angle %g outside [-90, 0)", got.Angle)
	}
	if !approxEqual(got.Width*got.Height, want.Width*want.Height, 0.5) {
		t.Errorf("area: got %g, want %g", got.Width*got.Height, want.Width*want.Height)
	}
	if !approxEqual(got.Center.X, want.Center.X, 0.05) || !approxEqual(got.Center.Y, want.Center.Y, 0.05) {
		t.Errorf("Center: got %v, want %v", got.Center, want.Center)
	}

	if r := MinAreaRect(nil); r != (RotatedRect{}) {
		t.Errorf("no points: got %+v, want zero rect", r)
	}
}
