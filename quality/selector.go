package quality

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/image/math/f32"
)

// ErrInvalidThresholds is returned when thresholds are negative or
// not increasing.
var ErrInvalidThresholds = errors.New("quality: thresholds must satisfy 0 <= medium < low")

// Thresholds are the distances at which the Medium and Low tiers begin.
type Thresholds struct {
	Medium float64 `yaml:"medium"`
	Low    float64 `yaml:"low"`
}

// DefaultThresholds returns the stock band edges: [0,5) High,
// [5,10) Medium, [10,inf) Low.
func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 5, Low: 10}
}

// Validate checks the thresholds.
func (th Thresholds) Validate() error {
	if th.Medium < 0 || th.Low <= th.Medium {
		return fmt.Errorf("%w: medium=%v low=%v", ErrInvalidThresholds, th.Medium, th.Low)
	}
	return nil
}

// Tier returns the tier for distance d.
// Negative or NaN distances are treated as zero.
func (th Thresholds) Tier(d float64) Tier {
	if d != d || d < 0 {
		d = 0
	}
	switch {
	case d >= th.Low:
		return Low
	case d >= th.Medium:
		return Medium
	default:
		return High
	}
}

// SelectTier returns the tier for distance d with the default thresholds.
func SelectTier(d float64) Tier {
	return DefaultThresholds().Tier(d)
}

// Distance returns the Euclidean distance from p to the origin.
func Distance(p f32.Vec3) float64 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	return math.Sqrt(x*x + y*y + z*z)
}

// Selector tracks the current tier from camera positions.
//
// Thresholds and profiles are fixed at construction. Update must be called
// from the frame loop; Current and Profile are safe for concurrent use.
type Selector struct {
	thresholds Thresholds
	profiles   Profiles
	current    atomic.Int32
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithThresholds overrides the band edges.
func WithThresholds(th Thresholds) SelectorOption {
	return func(s *Selector) {
		s.thresholds = th
	}
}

// WithProfiles overrides the per-tier profiles.
func WithProfiles(p Profiles) SelectorOption {
	return func(s *Selector) {
		s.profiles = p
	}
}

// NewSelector creates a selector starting at High.
func NewSelector(opts ...SelectorOption) (*Selector, error) {
	s := &Selector{
		thresholds: DefaultThresholds(),
		profiles:   DefaultProfiles(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.thresholds.Validate(); err != nil {
		return nil, err
	}
	for _, t := range Tiers {
		if err := s.profiles[t].Validate(); err != nil {
			return nil, fmt.Errorf("%w: tier %s", err, t)
		}
	}
	s.current.Store(int32(High))
	return s, nil
}

// Update selects the tier for a camera at position camera, looking at
// the origin. It returns the tier and whether it changed.
func (s *Selector) Update(camera f32.Vec3) (Tier, bool) {
	t := s.thresholds.Tier(Distance(camera))
	prev := Tier(s.current.Swap(int32(t)))
	return t, prev != t
}

// Current returns the latest selected tier.
func (s *Selector) Current() Tier {
	return Tier(s.current.Load())
}

// Profile returns the profile of the current tier.
func (s *Selector) Profile() Profile {
	return s.profiles[s.Current()]
}

// ProfileOf returns the configured profile of t.
func (s *Selector) ProfileOf(t Tier) Profile {
	if !t.Valid() {
		return s.profiles[High]
	}
	return s.profiles[t]
}

// Thresholds returns the configured band edges.
func (s *Selector) Thresholds() Thresholds {
	return s.thresholds
}
