package detection

import "fmt"

// HSV is a color in the 8-bit convention used by common vision tooling:
// hue 0-179 (degrees halved), saturation and value 0-255.
type HSV struct {
	H int `mapstructure:"h" json:"h"`
	S int `mapstructure:"s" json:"s"`
	V int `mapstructure:"v" json:"v"`
}

// within reports whether c lies inside [lo, hi] on every channel.
func (c HSV) within(lo, hi HSV) bool {
	return c.H >= lo.H && c.H <= hi.H &&
		c.S >= lo.S && c.S <= hi.S &&
		c.V >= lo.V && c.V <= hi.V
}

// ThresholdConfig controls how an image becomes a binary mask.
type ThresholdConfig struct {
	// Min and Max bound the accepted color, inclusive on every channel.
	Min HSV `mapstructure:"hsv_min" json:"hsv_min"`
	Max HSV `mapstructure:"hsv_max" json:"hsv_max"`

	// BlurRadius applies a Gaussian blur before thresholding. 0 disables it.
	BlurRadius float64 `mapstructure:"blur_radius" json:"blur_radius"`

	// MorphRadius applies a morphological opening (erode then dilate) to the
	// mask to remove speckle. 0 disables it.
	MorphRadius float64 `mapstructure:"morph_radius" json:"morph_radius"`
}

// ExtractConfig controls which contours become shapes.
type ExtractConfig struct {
	// MinAreaDivisor sets the smallest accepted area as frame_area / divisor.
	MinAreaDivisor float64 `mapstructure:"min_area_divisor" json:"min_area_divisor"`

	// MaxAreaDivisor sets the largest accepted area as frame_area / divisor.
	MaxAreaDivisor float64 `mapstructure:"max_area_divisor" json:"max_area_divisor"`
}

// Aim axes for PairConfig.AimAxis.
const (
	AimAxisHeight = "height"
	AimAxisWidth  = "width"
)

// PairConfig holds the tuned constants of the pair score.
type PairConfig struct {
	// TargetTilt is the ideal tilt in degrees: +TargetTilt for the left box
	// and -TargetTilt for the right box.
	TargetTilt float64 `mapstructure:"target_tilt" json:"target_tilt"`

	// TiltScale divides the tilt error before squaring.
	TiltScale float64 `mapstructure:"tilt_scale" json:"tilt_scale"`

	// WidthRatio is the expected mean box width over center distance.
	WidthRatio float64 `mapstructure:"width_ratio" json:"width_ratio"`

	// AimAxis selects the frame dimension halved for the aim reference.
	AimAxis string `mapstructure:"aim_axis" json:"aim_axis"`
}

// Config is the full detector configuration.
type Config struct {
	Threshold ThresholdConfig `mapstructure:"threshold" json:"threshold"`
	Extract   ExtractConfig   `mapstructure:"extract" json:"extract"`
	Pairing   PairConfig      `mapstructure:"pairing" json:"pairing"`
}

// DefaultConfig returns the values the detector was tuned with.
func DefaultConfig() Config {
	return Config{
		Threshold: ThresholdConfig{
			Min: HSV{H: 67, S: 150, V: 113},
			Max: HSV{H: 81, S: 255, V: 255},
		},
		Extract: ExtractConfig{
			MinAreaDivisor: 2500,
			MaxAreaDivisor: 100,
		},
		Pairing: DefaultPairConfig(),
	}
}

// DefaultPairConfig returns the tuned scoring constants.
func DefaultPairConfig() PairConfig {
	return PairConfig{
		TargetTilt: 14.5,
		TiltScale:  15,
		WidthRatio: 0.2,
		AimAxis:    AimAxisHeight,
	}
}

// Validate checks that every value can be used by the pipeline.
func (c Config) Validate() error {
	if err := validateRange(c.Threshold.Min, c.Threshold.Max); err != nil {
		return err
	}
	if c.Threshold.BlurRadius < 0 || c.Threshold.MorphRadius < 0 {
		return fmt.Errorf("%w: negative filter radius", ErrInvalidConfig)
	}
	if c.Extract.MinAreaDivisor <= 0 || c.Extract.MaxAreaDivisor <= 0 {
		return fmt.Errorf("%w: area divisors must be positive", ErrInvalidConfig)
	}
	if c.Pairing.TiltScale == 0 {
		return fmt.Errorf("%w: tilt scale must be non-zero", ErrInvalidConfig)
	}
	switch c.Pairing.AimAxis {
	case AimAxisHeight, AimAxisWidth:
	default:
		return fmt.Errorf("%w: unknown aim axis %q", ErrInvalidConfig, c.Pairing.AimAxis)
	}
	return nil
}

func validateRange(lo, hi HSV) error {
	for _, c := range []HSV{lo, hi} {
		if c.H < 0 || c.H > 179 || c.S < 0 || c.S > 255 || c.V < 0 || c.V > 255 {
			return fmt.Errorf("%w: (%d,%d,%d) outside 0-179/0-255/0-255", ErrInvalidRange, c.H, c.S, c.V)
		}
	}
	if lo.H > hi.H || lo.S > hi.S || lo.V > hi.V {
		return fmt.Errorf("%w: min (%d,%d,%d) exceeds max (%d,%d,%d)",
			ErrInvalidRange, lo.H, lo.S, lo.V, hi.H, hi.S, hi.V)
	}
	return nil
}
