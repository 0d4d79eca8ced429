// Package config loads image-segment settings from a TOML file and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the TOML file,
// IMAGE_SEGMENT_* environment variables, then command-line flags applied by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/ironsheep/image-segment-mcp/internal/imaging"
)

// Environment variables recognized by FromEnv.
const (
	EnvLogLevel    = "IMAGE_SEGMENT_LOG_LEVEL"
	EnvK           = "IMAGE_SEGMENT_K"
	EnvBlurRadius  = "IMAGE_SEGMENT_BLUR_RADIUS"
	EnvResizeWidth = "IMAGE_SEGMENT_RESIZE_WIDTH"
	EnvSeed        = "IMAGE_SEGMENT_SEED"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Segment holds segmentation and pre-processing defaults.
type Segment struct {
	// K is the merge sensitivity.
	K float64 `toml:"k" json:"k"`
	// BlurRadius is the Gaussian pre-smoothing radius; 0 disables it.
	BlurRadius float64 `toml:"blur-radius" json:"blur-radius"`
	// ResizeWidth scales images to this width before segmenting; 0 keeps
	// the source size.
	ResizeWidth int `toml:"resize-width" json:"resize-width"`
}

// Render holds output defaults.
type Render struct {
	// Seed selects the region palette.
	Seed int64 `toml:"seed" json:"seed"`
	// Outline draws region boundaries in black.
	Outline bool `toml:"outline" json:"outline"`
	// Workers bounds rendering goroutines; 0 means GOMAXPROCS.
	Workers int `toml:"workers" json:"workers"`
}

// Log holds logger settings.
type Log struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level"`
	// Format is "console" or "json".
	Format string `toml:"format" json:"format"`
}

// Config is the full configuration.
type Config struct {
	Segment Segment `toml:"segment" json:"segment"`
	Render  Render  `toml:"render" json:"render"`
	Log     Log     `toml:"log" json:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Segment: Segment{
			K:           imaging.DefaultK,
			BlurRadius:  imaging.DefaultBlurRadius,
			ResizeWidth: imaging.DefaultResizeWidth,
		},
		Render: Render{
			Seed: 1,
		},
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads confFile over the current values of c. Keys the file does not
// know about are reported as errors so that typos do not go unnoticed.
func (c *Config) Load(confFile string) error {
	meta, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", confFile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, confFile, strings.Join(keys, ", "))
	}
	return nil
}

// FromEnv overlays IMAGE_SEGMENT_* environment variables onto c.
func (c *Config) FromEnv() error {
	return c.fromLookup(os.LookupEnv)
}

func (c *Config) fromLookup(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvK); ok && v != "" {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvK, v, err)
		}
		c.Segment.K = k
	}
	if v, ok := lookup(EnvBlurRadius); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvBlurRadius, v, err)
		}
		c.Segment.BlurRadius = r
	}
	if v, ok := lookup(EnvResizeWidth); ok && v != "" {
		w, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvResizeWidth, v, err)
		}
		c.Segment.ResizeWidth = w
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvSeed, v, err)
		}
		c.Render.Seed = s
	}
	return nil
}

// Validate checks value ranges. Every problem is reported, not just the
// first.
func (c *Config) Validate() error {
	var errs error
	if c.Segment.K < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: segment.k must not be negative, got %g", ErrInvalidConfig, c.Segment.K))
	}
	if c.Segment.BlurRadius < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: segment.blur-radius must not be negative, got %g", ErrInvalidConfig, c.Segment.BlurRadius))
	}
	if c.Segment.ResizeWidth < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: segment.resize-width must not be negative, got %d", ErrInvalidConfig, c.Segment.ResizeWidth))
	}
	if c.Render.Workers < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: render.workers must not be negative, got %d", ErrInvalidConfig, c.Render.Workers))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = multierr.Append(errs, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = multierr.Append(errs, fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format))
	}
	return errs
}

// SegmentOptions converts the segment section into pipeline options.
func (c *Config) SegmentOptions() imaging.SegmentOptions {
	return imaging.SegmentOptions{
		PreprocessOptions: imaging.PreprocessOptions{
			ResizeWidth: c.Segment.ResizeWidth,
			BlurRadius:  c.Segment.BlurRadius,
		},
		K: c.Segment.K,
	}
}

// RenderOptions converts the render section into rendering options.
func (c *Config) RenderOptions() imaging.RenderOptions {
	return imaging.RenderOptions{
		Seed:    c.Render.Seed,
		Outline: c.Render.Outline,
		Workers: c.Render.Workers,
	}
}

// Resolve builds the effective configuration: defaults, then confFile when
// non-empty, then the environment. The result is validated.
func Resolve(confFile string) (*Config, error) {
	cfg := Default()
	if confFile != "" {
		if err := cfg.Load(confFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.FromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
