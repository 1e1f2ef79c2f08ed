package screen

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTuning is returned by Tuning.Validate.
var ErrInvalidTuning = errors.New("screen: invalid tuning")

// ZLayers are the depths of the screen layers in front of the frame.
type ZLayers struct {
	Glow   float32 `yaml:"glow"`
	Main   float32 `yaml:"main"`
	Corner float32 `yaml:"corner"`
}

// Tuning holds the visual constants that fit the screen layers onto the
// panel geometry. They were matched by eye to the monitor models.
type Tuning struct {
	// Scale enlarges the panel geometry for the screen layers.
	Scale float32 `yaml:"scale"`

	// YAdjustment shifts all screen layers vertically.
	YAdjustment float32 `yaml:"yAdjustment"`

	// CornerOffset moves the corner pieces inward from the panel edges.
	CornerOffset float32 `yaml:"cornerOffset"`

	// CornerScale is the radius of a corner piece.
	CornerScale float32 `yaml:"cornerScale"`

	// GlowDepth is the z scale of the glow layer.
	GlowDepth float32 `yaml:"glowDepth"`

	// ScanlineLift places the scanline overlay just in front of the
	// main layer.
	ScanlineLift float32 `yaml:"scanlineLift"`

	Z ZLayers `yaml:"z"`
}

// DefaultTuning returns the tuning of the stock monitor models.
func DefaultTuning() Tuning {
	return Tuning{
		Scale:        1.3,
		YAdjustment:  -0.02,
		CornerOffset: 0.021,
		CornerScale:  0.028,
		GlowDepth:    1.3,
		ScanlineLift: 0.001,
		Z:            ZLayers{Glow: 0.48, Main: 0.5, Corner: 0.515},
	}
}

// Validate checks that scales are positive and every value is finite.
func (t Tuning) Validate() error {
	values := []float32{
		t.Scale, t.YAdjustment, t.CornerOffset, t.CornerScale,
		t.GlowDepth, t.ScanlineLift, t.Z.Glow, t.Z.Main, t.Z.Corner,
	}
	for _, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidTuning)
		}
	}
	if t.Scale <= 0 || t.CornerScale <= 0 || t.GlowDepth <= 0 {
		return fmt.Errorf("%w: scale=%v cornerScale=%v glowDepth=%v",
			ErrInvalidTuning, t.Scale, t.CornerScale, t.GlowDepth)
	}
	return nil
}
