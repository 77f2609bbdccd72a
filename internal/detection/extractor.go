package detection

import (
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/target-vision/internal/geometry"
)

// Shape is a contour that passed the area filter, with its fitted box.
type Shape struct {
	// Contour is the index of the source contour in tracing order.
	Contour int `json:"contour"`

	// Area is the contour's zeroth moment.
	Area float64 `json:"area"`

	// HuMoments are the seven Hu invariants of the contour.
	HuMoments [7]float64 `json:"hu_moments"`

	// Box is the normalized minimal-area rectangle around the contour.
	Box OrientedBox `json:"box"`

	// IsHole is true when the contour bounds a hole in a larger region.
	IsHole bool `json:"is_hole,omitempty"`
}

// AreaBounds returns the inclusive area band for a frame of the given size.
func AreaBounds(width, height int, cfg ExtractConfig) (minArea, maxArea float64) {
	frameArea := float64(width) * float64(height)
	return frameArea / cfg.MinAreaDivisor, frameArea / cfg.MaxAreaDivisor
}

// Extractor turns a binary mask into normalized oriented boxes.
type Extractor struct {
	cfg    ExtractConfig
	logger *zap.Logger
}

// NewExtractor creates an Extractor. A nil logger disables logging.
func NewExtractor(cfg ExtractConfig, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract traces the mask and returns one Shape per contour whose area lies
// within AreaBounds for a width × height frame.
//
// Parameters:
//   - mask: A binary mask; any non-zero pixel is foreground. Outer and hole
//     borders are both traced.
//   - width, height: The frame size the area band is derived from. This can
//     differ from the mask bounds when the mask was cropped.
//
// Returns:
//   - []Shape: Qualifying shapes in contour order (row-major by first
//     pixel), each with its area, centroid, Hu moments and a normalized
//     oriented box.
//
// An empty result means nothing qualified; it is not an error.
func (e *Extractor) Extract(mask *image.Gray, width, height int) []Shape {
	return e.FromContours(geometry.FindContours(mask), width, height)
}

// FromContours applies the area filter and box fitting to contours that
// were already traced.
func (e *Extractor) FromContours(contours []geometry.Contour, width, height int) []Shape {
	minArea, maxArea := AreaBounds(width, height, e.cfg)

	shapes := make([]Shape, 0)
	for i, c := range contours {
		moments := geometry.ComputeMoments(c.Points)
		area := moments.M00
		if area < minArea || area > maxArea {
			e.logger.Debug("contour out of range",
				zap.Int("contour", i),
				zap.Float64("area", area),
				zap.Float64("min_area", minArea),
				zap.Float64("max_area", maxArea))
			continue
		}

		box := NormalizeBox(boxFromRect(geometry.MinAreaRect(c.Points)))
		shapes = append(shapes, Shape{
			Contour:   i,
			Area:      area,
			HuMoments: moments.Hu(),
			Box:       box,
			IsHole:    c.IsHole,
		})
	}

	e.logger.Debug("shapes extracted",
		zap.String("backend", geometry.Backend),
		zap.Int("contours", len(contours)),
		zap.Int("shapes", len(shapes)))

	return shapes
}

// Boxes returns the boxes of shapes in order.
func Boxes(shapes []Shape) []OrientedBox {
	boxes := make([]OrientedBox, len(shapes))
	for i, s := range shapes {
		boxes[i] = s.Box
	}
	return boxes
}
