// Package shr3d derives a bare-earth digital terrain model and a per-pixel
// object mask from a digital surface model rasterized off an airborne lidar
// point cloud. The approach follows the multi-scale segmentation described in
// "Shareable High Resolution 3D" (Brown et al.): iterative gradient-based
// boundary labeling, height-constrained region growing, topological
// containment fills, and pyramid void filling.
package shr3d

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Config enumerates the engine parameters. Height thresholds are in the same
// unsigned 16-bit units as the input rasters (typically centimeters or
// decimeters); areas are in square meters.
type Config struct {
	// EdgeResolution is the stride, in pixels, of the boundary-labeling
	// stencil. It governs the scale of detectable height steps.
	EdgeResolution int
	// MinHeightDiff is the minimum above-ground height step to call an edge.
	MinHeightDiff uint16
	// MinAGL is the minimum height above terrain for a pixel to survive as
	// non-ground.
	MinAGL uint16
	// MinAreaMeters is the minimum component footprint area.
	MinAreaMeters float64
	// MaxAreaMeters is a soft cap on ground-pass component size, bounding
	// region-grow time.
	MaxAreaMeters float64
	// GroundIterations is the number of label-and-remove passes over the
	// working terrain model.
	GroundIterations int
}

// DefaultConfig returns the standard parameters for a raster with the given
// ground sample distance (meters per pixel) and height quantization (units
// per meter).
func DefaultConfig(gsd, unitsPerMeter float64) Config {
	edge := int(math.Round(3.0 / gsd))
	if edge < 1 {
		edge = 1
	}
	return Config{
		EdgeResolution:   edge,
		MinHeightDiff:    uint16(math.Round(unitsPerMeter)),
		MinAGL:           uint16(math.Round(2 * unitsPerMeter)),
		MinAreaMeters:    50,
		MaxAreaMeters:    10000,
		GroundIterations: 5,
	}
}

// Validate surfaces every out-of-range parameter before any work begins.
func (c Config) Validate() error {
	var err error
	if c.EdgeResolution < 1 {
		err = multierr.Combine(err, errors.New("edge resolution must be at least one pixel"))
	}
	if c.MinHeightDiff == 0 {
		err = multierr.Combine(err, errors.New("minimum height difference must be positive"))
	}
	if c.MinAreaMeters <= 0 {
		err = multierr.Combine(err, errors.New("minimum area must be positive"))
	}
	if c.MaxAreaMeters <= 0 {
		err = multierr.Combine(err, errors.New("maximum area must be positive"))
	}
	if c.GroundIterations < 1 {
		err = multierr.Combine(err, errors.New("must run at least one ground iteration"))
	}
	return err
}

// Shr3dder runs the classification passes. All methods run to completion
// synchronously; progress reporting through the logger is advisory only.
type Shr3dder struct {
	conf   Config
	logger golog.Logger
}

// NewShr3dder validates the configuration and returns an engine. A nil logger
// is replaced with a default one.
func NewShr3dder(conf Config, logger golog.Logger) (*Shr3dder, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "bad shr3d configuration")
	}
	if logger == nil {
		logger = golog.NewLogger("shr3d")
	}
	return &Shr3dder{conf: conf, logger: logger}, nil
}
