package colour

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ErrInsufficientData is the root of every error caused by an input grid
// that cannot yield the three roles.
var ErrInsufficientData = errors.New("insufficient data")

var (
	// ErrEmptyGrid is returned for a grid with no pixels.
	ErrEmptyGrid = fmt.Errorf("%w: empty grid", ErrInsufficientData)

	// ErrFrameTooLarge is returned when the border band leaves no interior region.
	ErrFrameTooLarge = fmt.Errorf("%w: frame leaves no interior region", ErrInsufficientData)

	// ErrNoBackgroundCandidate is returned when no frame bucket survives filtering.
	ErrNoBackgroundCandidate = fmt.Errorf("%w: no background candidate", ErrInsufficientData)

	// ErrNoForegroundCandidate is returned when no interior bucket survives filtering.
	ErrNoForegroundCandidate = fmt.Errorf("%w: no foreground candidate", ErrInsufficientData)
)

// ExtractorConfig holds configuration for three-colour extraction.
type ExtractorConfig struct {
	Size                  int
	Frame                 int
	BucketThreshold       float64
	ForegroundThreshold   float64
	MiddlegroundThreshold float64
	Weights               Weights

	// Logger receives debug and trace output. Nil means no logging.
	Logger hclog.Logger
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Size:                  100,
		Frame:                 10,
		BucketThreshold:       15,
		ForegroundThreshold:   80,
		MiddlegroundThreshold: 45,
		Weights:               DefaultWeights,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("size must be at least 1, got %d", c.Size)
	}
	if c.Frame < 0 {
		return fmt.Errorf("frame must not be negative, got %d", c.Frame)
	}
	if 2*c.Frame >= c.Size {
		return fmt.Errorf("%w (frame %d, size %d)", ErrFrameTooLarge, c.Frame, c.Size)
	}
	if c.BucketThreshold <= 0 {
		return fmt.Errorf("bucket threshold must be positive, got %g", c.BucketThreshold)
	}
	if c.ForegroundThreshold < 0 {
		return fmt.Errorf("foreground threshold must not be negative, got %g", c.ForegroundThreshold)
	}
	if c.MiddlegroundThreshold < 0 {
		return fmt.Errorf("middleground threshold must not be negative, got %g", c.MiddlegroundThreshold)
	}
	for i, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weight %d must not be negative, got %g", i, w)
		}
	}
	return nil
}

// Extractor runs bucketing and role selection over a preprocessed grid.
type Extractor struct {
	config ExtractorConfig
	logger hclog.Logger
}

// NewExtractor creates an Extractor after validating cfg.
func NewExtractor(cfg ExtractorConfig) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Extractor{
		config: cfg,
		logger: logger.Named("extractor"),
	}, nil
}

// Config returns the configuration the extractor was built with.
func (e *Extractor) Config() ExtractorConfig {
	return e.config
}

// Extract returns the foreground, middleground and background colours of grid.
func (e *Extractor) Extract(grid *Grid) (Roles, error) {
	if grid == nil || grid.Len() == 0 {
		return Roles{}, ErrEmptyGrid
	}

	frameBuckets, buckets := Bucketize(grid, BucketConfig{
		Size:      e.config.Size,
		Frame:     e.config.Frame,
		Threshold: e.config.BucketThreshold,
		Weights:   e.config.Weights,
	})
	e.logger.Debug("bucketized grid",
		"pixels", grid.Len(),
		"frame_buckets", len(frameBuckets),
		"buckets", len(buckets))

	roles, err := SelectRoles(frameBuckets, buckets, SelectorConfig{
		ForegroundThreshold:   e.config.ForegroundThreshold,
		MiddlegroundThreshold: e.config.MiddlegroundThreshold,
		Weights:               e.config.Weights,
		Logger:                e.logger,
	})
	if err != nil {
		return Roles{}, err
	}

	return roles, nil
}

// Extract is a convenience wrapper that builds an Extractor from cfg and runs it on grid.
func Extract(grid *Grid, cfg ExtractorConfig) (Roles, error) {
	e, err := NewExtractor(cfg)
	if err != nil {
		return Roles{}, err
	}
	return e.Extract(grid)
}
