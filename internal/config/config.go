package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ironsheep/target-vision/internal/detection"
)

// EnvPrefix prefixes environment overrides, e.g. TARGET_VISION_LOG_LEVEL or
// TARGET_VISION_DETECTION_PAIRING_AIM_AXIS.
const EnvPrefix = "TARGET_VISION"

// Config is the full runtime configuration shared by the CLI, the MCP
// server and the REST API. Each section maps to a top-level YAML key.
type Config struct {
	Log       LogConfig        `mapstructure:"log"`
	Image     ImageConfig      `mapstructure:"image"`
	HTTP      HTTPConfig       `mapstructure:"http"`
	Detection detection.Config `mapstructure:"detection"`
}

// LogConfig selects the zap logger. Level is a zap level name; Mode
// "release" gives JSON output and anything else the console encoder.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"`
}

// ImageConfig sets an optional working resolution. Frames are resized to it
// before detection; 0 keeps the source size.
type ImageConfig struct {
	ResizeWidth  int `mapstructure:"resize_width"`
	ResizeHeight int `mapstructure:"resize_height"`
}

// HTTPConfig configures the REST surface started by the http command.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode           string `mapstructure:"mode"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// Load reads configuration from a YAML file, falling back to defaults for
// anything the file leaves out. An empty path skips the file. Environment
// variables override both.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Image.ResizeWidth < 0 || c.Image.ResizeHeight < 0 {
		return errors.New("image resize dimensions must not be negative")
	}
	switch c.HTTP.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: unknown http mode %q", detection.ErrInvalidConfig, c.HTTP.Mode)
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: http max_upload_bytes must be positive", detection.ErrInvalidConfig)
	}
	if err := c.Detection.Validate(); err != nil {
		return fmt.Errorf("detection: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			Mode:  "debug",
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			Mode:           "release",
			MaxUploadBytes: 10 << 20,
		},
		Detection: detection.DefaultConfig(),
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.mode", d.Log.Mode)

	v.SetDefault("image.resize_width", d.Image.ResizeWidth)
	v.SetDefault("image.resize_height", d.Image.ResizeHeight)

	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.mode", d.HTTP.Mode)
	v.SetDefault("http.max_upload_bytes", d.HTTP.MaxUploadBytes)

	t := d.Detection.Threshold
	v.SetDefault("detection.threshold.hsv_min.h", t.Min.H)
	v.SetDefault("detection.threshold.hsv_min.s", t.Min.S)
	v.SetDefault("detection.threshold.hsv_min.v", t.Min.V)
	v.SetDefault("detection.threshold.hsv_max.h", t.Max.H)
	v.SetDefault("detection.threshold.hsv_max.s", t.Max.S)
	v.SetDefault("detection.threshold.hsv_max.v", t.Max.V)
	v.SetDefault("detection.threshold.blur_radius", t.BlurRadius)
	v.SetDefault("detection.threshold.morph_radius", t.MorphRadius)

	e := d.Detection.Extract
	v.SetDefault("detection.extract.min_area_divisor", e.MinAreaDivisor)
	v.SetDefault("detection.extract.max_area_divisor", e.MaxAreaDivisor)

	p := d.Detection.Pairing
	v.SetDefault("detection.pairing.target_tilt", p.TargetTilt)
	v.SetDefault("detection.pairing.tilt_scale", p.TiltScale)
	v.SetDefault("detection.pairing.width_ratio", p.WidthRatio)
	v.SetDefault("detection.pairing.aim_axis", p.AimAxis)
}
