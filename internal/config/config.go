// Package config loads default extraction settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/threecolours/internal/colour"
	"github.com/jmylchreest/threecolours/internal/image"
)

// Formats lists the accepted output formats.
var Formats = []string{"json", "xml", "txt", "hex", "rgb", "table"}

// Config represents the threecolours config.yaml file.
type Config struct {
	Size                  int             `yaml:"size"`
	Frame                 int             `yaml:"frame"`
	BucketThreshold       float64         `yaml:"bucket_threshold"`
	ForegroundThreshold   float64         `yaml:"foreground_threshold"`
	MiddlegroundThreshold float64         `yaml:"middleground_threshold"`
	Format                string          `yaml:"format"`
	Preview               PreviewConfig   `yaml:"preview"`
	Smoothing             SmoothingConfig `yaml:"smoothing"`
}

// PreviewConfig controls terminal swatches.
type PreviewConfig struct {
	Width int `yaml:"width"` // Swatch width in cells
}

// SmoothingConfig controls the bilateral filter applied before extraction.
type SmoothingConfig struct {
	Diameter    int     `yaml:"diameter"` // 0 disables smoothing
	SigmaColour float64 `yaml:"sigma_colour"`
	SigmaSpace  float64 `yaml:"sigma_space"`
}

// Default returns the built-in configuration.
func Default() *Config {
	ec := colour.DefaultExtractorConfig()
	so := image.DefaultSmoothingOptions()
	return &Config{
		Size:                  ec.Size,
		Frame:                 ec.Frame,
		BucketThreshold:       ec.BucketThreshold,
		ForegroundThreshold:   ec.ForegroundThreshold,
		MiddlegroundThreshold: ec.MiddlegroundThreshold,
		Format:                "xml",
		Preview:               PreviewConfig{Width: 8},
		Smoothing: SmoothingConfig{
			Diameter:    so.Diameter,
			SigmaColour: so.SigmaColour,
			SigmaSpace:  so.SigmaSpace,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/threecolours/config.yaml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "threecolours", "config.yaml"), nil
}

// Validate performs strict validation on the configuration.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(c.Format)
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unsupported format: %q (expected one of: %s)", c.Format, strings.Join(Formats, ", "))
	}
	if c.Preview.Width < 1 {
		return fmt.Errorf("preview.width must be at least 1, got %d", c.Preview.Width)
	}
	if c.Smoothing.Diameter < 0 {
		return fmt.Errorf("smoothing.diameter must not be negative, got %d", c.Smoothing.Diameter)
	}
	if err := c.ExtractorConfig().Validate(); err != nil {
		return err
	}
	if err := c.PreprocessOptions().Validate(); err != nil {
		return err
	}
	return nil
}

// ExtractorConfig returns the extraction parameters held by c.
func (c *Config) ExtractorConfig() colour.ExtractorConfig {
	ec := colour.DefaultExtractorConfig()
	ec.Size = c.Size
	ec.Frame = c.Frame
	ec.BucketThreshold = c.BucketThreshold
	ec.ForegroundThreshold = c.ForegroundThreshold
	ec.MiddlegroundThreshold = c.MiddlegroundThreshold
	return ec
}

// PreprocessOptions returns the preprocessing parameters held by c.
func (c *Config) PreprocessOptions() image.PreprocessOptions {
	return image.PreprocessOptions{
		Size: c.Size,
		Smoothing: image.SmoothingOptions{
			Diameter:    c.Smoothing.Diameter,
			SigmaColour: c.Smoothing.SigmaColour,
			SigmaSpace:  c.Smoothing.SigmaSpace,
		},
	}
}

// Load reads the config at path. Keys missing from the file keep their
// built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadOrDefault loads path if given, otherwise the file at DefaultPath when
// it exists, otherwise the built-in defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}
