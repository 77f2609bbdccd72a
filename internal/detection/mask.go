package detection

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ThresholdHSV builds a binary mask of the pixels whose color falls inside
// [lo, hi] on every HSV channel.
//
// Colors are converted with go-colorful and rescaled to the 8-bit convention
// of HSV: hue 0-179 (degrees halved), saturation and value 0-255, each
// rounded to the nearest integer. Matching pixels are 255, all others 0.
// Fully transparent pixels are always 0.
//
// The mask's bounds start at (0, 0) regardless of img's origin.
func ThresholdHSV(img image.Image, lo, hi HSV) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	mask := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x := 0; x < width; x++ {
			c, ok := colorful.MakeColor(img.At(x+bounds.Min.X, y+bounds.Min.Y))
			if !ok {
				continue
			}
			if toHSV8(c).within(lo, hi) {
				row[x] = 255
			}
		}
	}

	return mask
}

// toHSV8 rescales a color to 8-bit HSV. Hue is halved to fit 0..179; a
// hue within half a step of 360 degrees rounds to 180 and wraps to 0, since
// hue is circular and both name the same red.
func toHSV8(c colorful.Color) HSV {
	h, s, v := c.Hsv()
	return HSV{
		H: int(math.Round(h/2)) % 180,
		S: int(math.Round(s * 255)),
		V: int(math.Round(v * 255)),
	}
}

// PrepareMask runs the whole thresholding stage: optional blur, HSV
// threshold, optional morphological opening.
func PrepareMask(img image.Image, cfg ThresholdConfig) *image.Gray {
	src := img
	if cfg.BlurRadius > 0 {
		src = blur.Gaussian(img, cfg.BlurRadius)
	}

	mask := ThresholdHSV(src, cfg.Min, cfg.Max)

	if cfg.MorphRadius > 0 {
		opened := effect.Dilate(effect.Erode(mask, cfg.MorphRadius), cfg.MorphRadius)
		mask = binarize(opened)
	}

	return mask
}

// binarize turns any image back into a 0/255 mask at mid-gray.
func binarize(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			g := color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray)
			if g.Y >= 128 {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// ApplyMask keeps the pixels of img where mask is set and blacks out the
// rest. It previews what a threshold range selects.
func ApplyMask(img image.Image, mask *image.Gray) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			if mask.GrayAt(x, y).Y != 0 {
				continue
			}
			i := out.PixOffset(x, y)
			out.Pix[i+0] = 0
			out.Pix[i+1] = 0
			out.Pix[i+2] = 0
			out.Pix[i+3] = 255
		}
	}
	return out
}

// ForegroundCount returns the number of set pixels in a mask.
func ForegroundCount(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}
