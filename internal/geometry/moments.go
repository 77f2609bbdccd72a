package geometry

import (
	"image"
	"math"
)

// Moments holds the spatial moments of a polygon up to third order.
//
// Spatial moments (M) are taken about the origin, central moments (Mu) about
// the centroid, and normalized central moments (Nu) are scale invariant.
type Moments struct {
	M00, M10, M01, M20, M11, M02, M30, M21, M12, M03 float64

	Mu20, Mu11, Mu02, Mu30, Mu21, Mu12, Mu03 float64

	Nu20, Nu11, Nu02, Nu30, Nu21, Nu12, Nu03 float64
}

// polygonMoments integrates the moments of the closed polygon through pts
// using Green's theorem. If the traced area comes out negative every moment
// is negated.
func polygonMoments(pts []image.Point) Moments {
	var m Moments
	n := len(pts)
	if n < 3 {
		return m
	}

	var a00, a10, a01, a20, a11, a02, a30, a21, a12, a03 float64

	prev := pts[n-1]
	xp, yp := float64(prev.X), float64(prev.Y)
	for _, p := range pts {
		x, y := float64(p.X), float64(p.Y)

		xp2, yp2 := xp*xp, yp*yp
		x2, y2 := x*x, y*y

		a := xp*y - x*yp

		a00 += a
		a10 += a * (xp + x)
		a01 += a * (yp + y)
		a20 += a * (xp2 + xp*x + x2)
		a11 += a * (xp*(2*yp+y) + x*(yp+2*y))
		a02 += a * (yp2 + yp*y + y2)
		a30 += a * (xp + x) * (xp2 + x2)
		a03 += a * (yp + y) * (yp2 + y2)
		a21 += a * (xp2*(3*yp+y) + 2*xp*x*(yp+y) + x2*(yp+3*y))
		a12 += a * (yp2*(3*xp+x) + 2*yp*y*(xp+x) + y2*(xp+3*x))

		xp, yp = x, y
	}

	if math.Abs(a00) <= math.SmallestNonzeroFloat32 {
		return m
	}

	sign := 1.0
	if a00 < 0 {
		sign = -1.0
	}

	m.M00 = sign * a00 / 2
	m.M10 = sign * a10 / 6
	m.M01 = sign * a01 / 6
	m.M20 = sign * a20 / 12
	m.M11 = sign * a11 / 24
	m.M02 = sign * a02 / 12
	m.M30 = sign * a30 / 20
	m.M21 = sign * a21 / 60
	m.M12 = sign * a12 / 60
	m.M03 = sign * a03 / 20

	m.completeCentral()
	return m
}

// Centroid returns the centre of mass. It is (0, 0) for a zero area.
func (m Moments) Centroid() (float64, float64) {
	if m.M00 == 0 {
		return 0, 0
	}
	return m.M10 / m.M00, m.M01 / m.M00
}

func (m *Moments) completeCentral() {
	cx, cy := m.Centroid()

	m.Mu20 = m.M20 - cx*m.M10
	m.Mu11 = m.M11 - cx*m.M01
	m.Mu02 = m.M02 - cy*m.M01
	m.Mu30 = m.M30 - cx*(3*m.M20-2*cx*m.M10)
	m.Mu21 = m.M21 - cx*(2*m.M11-2*cx*m.M01) - cy*m.M20
	m.Mu12 = m.M12 - cy*(2*m.M11-2*cy*m.M10) - cx*m.M02
	m.Mu03 = m.M03 - cy*(3*m.M02-2*cy*m.M01)

	s2 := 1 / (m.M00 * m.M00)
	s3 := s2 / math.Sqrt(m.M00)

	m.Nu20 = m.Mu20 * s2
	m.Nu11 = m.Mu11 * s2
	m.Nu02 = m.Mu02 * s2
	m.Nu30 = m.Mu30 * s3
	m.Nu21 = m.Mu21 * s3
	m.Nu12 = m.Mu12 * s3
	m.Nu03 = m.Mu03 * s3
}

// Hu returns the seven Hu moment invariants. They are unchanged by
// translation, scale and rotation; the seventh changes sign under reflection.
func (m Moments) Hu() [7]float64 {
	var hu [7]float64
	if m.M00 == 0 {
		return hu
	}

	t0 := m.Nu30 + m.Nu12
	t1 := m.Nu21 + m.Nu03
	q0 := t0 * t0
	q1 := t1 * t1
	n4 := 4 * m.Nu11
	s := m.Nu20 + m.Nu02
	d := m.Nu20 - m.Nu02

	hu[0] = s
	hu[1] = d*d + n4*m.Nu11
	hu[3] = q0 + q1
	hu[5] = d*(q0-q1) + n4*t0*t1

	t0 *= q0 - 3*q1
	t1 *= 3*q0 - q1

	q0 = m.Nu30 - 3*m.Nu12
	q1 = 3*m.Nu21 - m.Nu03

	hu[2] = q0*q0 + q1*q1
	hu[4] = q0*t0 + q1*t1
	hu[6] = q1*t0 - q0*t1

	return hu
}
