package detection

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/target-vision/internal/geometry"
)

// PairResult is the selected pair together with the bounds spanning both
// of its boxes.
type PairResult struct {
	PairCandidate
	Bounds Bounds `json:"bounds"`
}

// Detection is the outcome of running the pipeline on one image.
type Detection struct {
	// Width and Height are the frame dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// MinArea and MaxArea are the inclusive area band used for filtering.
	MinArea float64 `json:"min_area"`
	MaxArea float64 `json:"max_area"`

	// AimReference is the midpoint the aim term was scored against.
	AimReference float64 `json:"aim_reference"`

	// Foreground is the number of mask pixels inside the color range.
	Foreground int `json:"foreground_pixels"`

	// Contours is the number of contours traced before filtering.
	Contours int `json:"contours"`

	// Shapes are the contours that passed the area filter, in contour order.
	// PairResult indices refer to this slice.
	Shapes []Shape `json:"shapes"`

	// PairsEvaluated is the number of ordered pairs scored.
	PairsEvaluated int `json:"pairs_evaluated"`

	// Pair is the best pair, or nil when fewer than two shapes qualified.
	Pair *PairResult `json:"pair,omitempty"`
}

// Detector runs the target detection pipeline.
type Detector struct {
	cfg    Config
	logger *zap.Logger
}

// NewDetector creates a Detector. A nil cfg uses DefaultConfig and a nil
// logger disables logging.
func NewDetector(cfg *Config, logger *zap.Logger) *Detector {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{cfg: *cfg, logger: logger}
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect thresholds img and runs shape extraction and pairing on the mask.
//
// Parameters:
//   - ctx: Checked between pipeline stages; a cancelled context stops the
//     run before pairing.
//   - img: The frame to search. Any image.Image works; pixels with zero
//     alpha never enter the mask.
//
// Returns:
//   - *Detection: The mask foreground count, every shape that passed the
//     area filter, and the best pair if at least two boxes were found.
//   - error: Non-nil if the input or configuration is unusable.
//
// Finding no pair is not an error: Pair is nil and Shapes may be empty.
//
// # Errors
//
//   - ErrNilImage if img is nil
//   - ErrEmptyImage if img has no pixels
//   - ErrInvalidRange or ErrInvalidConfig if the detector configuration
//     fails Validate
//   - ctx.Err() if the context is done
func (d *Detector) Detect(ctx context.Context, img image.Image) (*Detection, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	start := time.Now()
	mask := PrepareMask(img, d.cfg.Threshold)
	d.logger.Debug("mask prepared",
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
		zap.Duration("elapsed", time.Since(start)))

	return d.DetectMask(ctx, mask, bounds.Dx(), bounds.Dy())
}

// DetectMask runs shape extraction and pairing on an existing 0/255 mask
// belonging to a width × height frame.
func (d *Detector) DetectMask(ctx context.Context, mask *image.Gray, width, height int) (*Detection, error) {
	if mask == nil {
		return nil, ErrNilImage
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: frame %dx%d", ErrEmptyImage, width, height)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	contours := geometry.FindContours(mask)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extractor := NewExtractor(d.cfg.Extract, d.logger)
	shapes := extractor.FromContours(contours, width, height)
	minArea, maxArea := AreaBounds(width, height, d.cfg.Extract)

	mid := AimReference(width, height, d.cfg.Pairing.AimAxis)
	scorer := NewPairScorer(d.cfg.Pairing, mid)
	boxes := Boxes(shapes)

	det := &Detection{
		Width:          width,
		Height:         height,
		MinArea:        minArea,
		MaxArea:        maxArea,
		AimReference:   mid,
		Foreground:     ForegroundCount(mask),
		Contours:       len(contours),
		Shapes:         shapes,
		PairsEvaluated: len(boxes) * (len(boxes) - 1),
	}

	if best, ok := scorer.Best(boxes); ok {
		det.Pair = &PairResult{
			PairCandidate: best,
			Bounds:        SpanBounds(boxes[best.Left], boxes[best.Right]),
		}
	}

	fields := []zap.Field{
		zap.Int("contours", det.Contours),
		zap.Int("shapes", len(shapes)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if det.Pair != nil {
		fields = append(fields,
			zap.Int("left", det.Pair.Left),
			zap.Int("right", det.Pair.Right),
			zap.Float64("score", det.Pair.Score))
	}
	d.logger.Debug("detection complete", fields...)

	return det, nil
}
