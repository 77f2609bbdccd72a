package detection

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay colors. Boxes leaning right are pink, all others yellow.
var (
	colorLeanRight = color.NRGBA{255, 0, 255, 255}
	colorLeanLeft  = color.NRGBA{255, 255, 0, 255}
	colorPair      = color.NRGBA{0, 255, 0, 255}
)

// RenderOverlay draws a detection on a copy of img.
//
// Every shape's oriented box is outlined, pink when it leans right
// (Angle > 0) and yellow otherwise. The best pair, if any, is framed by its
// spanning bounds in green and labelled with its score.
func RenderOverlay(img image.Image, det *Detection) *image.NRGBA {
	out := imaging.Clone(img)
	if det == nil {
		return out
	}

	for _, s := range det.Shapes {
		c := colorLeanLeft
		if s.Box.Angle > 0 {
			c = colorLeanRight
		}
		corners := s.Box.Corners()
		for i := range corners {
			a := corners[i]
			b := corners[(i+1)%len(corners)]
			drawLine(out, a, b, c)
		}
	}

	if det.Pair != nil {
		b := det.Pair.Bounds
		tl := Point2f{X: float64(b.X1), Y: float64(b.Y1)}
		tr := Point2f{X: float64(b.X2), Y: float64(b.Y1)}
		br := Point2f{X: float64(b.X2), Y: float64(b.Y2)}
		bl := Point2f{X: float64(b.X1), Y: float64(b.Y2)}
		drawLine(out, tl, tr, colorPair)
		drawLine(out, tr, br, colorPair)
		drawLine(out, br, bl, colorPair)
		drawLine(out, bl, tl, colorPair)

		drawLabel(out, b.X1, b.Y1-3, fmt.Sprintf("%.3f", det.Pair.Score), colorPair)
	}

	return out
}

// drawLine draws a two-pixel wide segment using Bresenham's algorithm.
// Pixels outside the image are skipped.
func drawLine(img *image.NRGBA, a, b Point2f, c color.NRGBA) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	bounds := img.Bounds()
	plot := func(x, y int) {
		if image.Pt(x, y).In(bounds) {
			img.SetNRGBA(x, y, c)
		}
	}

	for {
		plot(x0, y0)
		plot(x0+1, y0)
		plot(x0, y0+1)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawLabel writes text with its baseline at (x, y), clamped so the label
// stays inside the image.
func drawLabel(img *image.NRGBA, x, y int, text string, c color.NRGBA) {
	face := basicfont.Face7x13
	bounds := img.Bounds()
	ascent := face.Metrics().Ascent.Ceil()

	if y < bounds.Min.Y+ascent {
		y = bounds.Min.Y + ascent
	}
	if x < bounds.Min.X {
		x = bounds.Min.X
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
