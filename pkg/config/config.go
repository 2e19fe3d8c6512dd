// Package config loads defaults for the editor and converter. Values come
// from a .formatflip.yaml file in the working directory, overridden by
// FORMATFLIP_* environment variables (a .env file is honored if present).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the per-directory config file.
const FileName = ".formatflip.yaml"

// CropPreset constrains the interactive crop step.
type CropPreset string

const (
	CropFree     CropPreset = "free"
	CropSquare   CropPreset = "square"
	CropDocument CropPreset = "document" // A4 portrait, 1:1.414
)

// Config holds the conversion and editing defaults.
type Config struct {
	Format     string     `yaml:"format"`       // default export format name
	Quality    int        `yaml:"quality"`      // 0..100, lossy encoders only
	Tolerance  int        `yaml:"tolerance"`    // 0..100, background removal
	CropPreset CropPreset `yaml:"crop_preset"`  // free, square, document
	Rotation   float64    `yaml:"rotation"`     // degrees, clockwise
	Resize     Resize     `yaml:"resize"`
}

// Resize carries default target dimensions for the resize step.
type Resize struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	LockAspect bool `yaml:"lock_aspect"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Format:     "png",
		Quality:    90,
		Tolerance:  50,
		CropPreset: CropFree,
		Rotation:   90,
		Resize:     Resize{Width: 640, Height: 480, LockAspect: true},
	}
}

// Load reads the config file at path (missing file is not an error),
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FORMATFLIP_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("FORMATFLIP_QUALITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Quality = n
		}
	}
	if v := os.Getenv("FORMATFLIP_TOLERANCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Tolerance = n
		}
	}
	if v := os.Getenv("FORMATFLIP_CROP_PRESET"); v != "" {
		c.CropPreset = CropPreset(strings.ToLower(v))
	}
}

// Validate reports the first out-of-range field.
func (c *Config) Validate() error {
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality %d out of range 0..100", c.Quality)
	}
	if c.Tolerance < 0 || c.Tolerance > 100 {
		return fmt.Errorf("tolerance %d out of range 0..100", c.Tolerance)
	}
	switch c.CropPreset {
	case CropFree, CropSquare, CropDocument:
	default:
		return fmt.Errorf("unknown crop preset %q", c.CropPreset)
	}
	if c.Resize.Width <= 0 || c.Resize.Height <= 0 {
		return fmt.Errorf("resize defaults must be positive, got %dx%d", c.Resize.Width, c.Resize.Height)
	}
	return nil
}

// QualityFraction maps the 0..100 config scale onto the 0..1 scale the
// encoders take.
func (c *Config) QualityFraction() float64 {
	return float64(c.Quality) / 100
}

// AspectRatio returns the width/height ratio a preset enforces, or 0 for
// freeform cropping.
func (p CropPreset) AspectRatio() float64 {
	switch p {
	case CropSquare:
		return 1
	case CropDocument:
		return 1.0 / 1.414
	}
	return 0
}
