// Package anim decides, per animated element and per frame, whether the
// element's animation phase should advance.
//
// Elements register with a priority class. Priority 1 runs every frame;
// higher classes are thinned when the device is below the headroom frame
// rate. Element state is never skipped for priority 1 and never throttled
// while the smoothed frame rate stays at or above HeadroomFPS.
package anim

import (
	"math"
	"sync"

	"github.com/gogpu/retrodesk/perf"
)

// Priority classes used by the scene.
const (
	PriorityText     = 1
	PriorityLED      = 2
	PriorityScanline = 3
)

// Priorities assigns a priority class to each animated element kind.
type Priorities struct {
	Text     int `yaml:"text"`
	LED      int `yaml:"led"`
	Scanline int `yaml:"scanline"`
}

// DefaultPriorities returns PriorityText, PriorityLED and PriorityScanline.
func DefaultPriorities() Priorities {
	return Priorities{Text: PriorityText, LED: PriorityLED, Scanline: PriorityScanline}
}

// WithDefaults returns p with unset classes taken from DefaultPriorities.
func (p Priorities) WithDefaults() Priorities {
	d := DefaultPriorities()
	if p.Text <= 0 {
		p.Text = d.Text
	}
	if p.LED <= 0 {
		p.LED = d.LED
	}
	if p.Scanline <= 0 {
		p.Scanline = d.Scanline
	}
	return p
}

// HeadroomFPS is the smoothed frame rate at or above which every element
// updates every frame.
const HeadroomFPS = 55.0

// maxStride is the update stride applied to priorities of 4 and above.
const maxStride = 4

// Registration is the scheduling state of one element.
type Registration struct {
	ID       string
	Priority int

	// LastUpdatedFrame is the frame count at the latest frame ShouldUpdate
	// returned true for this element. Zero until then.
	LastUpdatedFrame uint64

	// lastUpdatedMs is the timestamp of the latest accepted Elapsed call.
	lastUpdatedMs float64
	timed         bool
}

// Due reports whether an element of the given priority should update at
// frameCount when the smoothed frame rate is fps.
func Due(priority int, frameCount uint64, fps float64) bool {
	if priority <= 1 {
		return true
	}
	if fps >= HeadroomFPS {
		return true
	}
	stride := uint64(min(priority, maxStride))
	return frameCount%stride == 0
}

// Scheduler holds the registrations of animated elements.
//
// A Scheduler is safe for concurrent use.
type Scheduler struct {
	metrics perf.Source

	mu   sync.Mutex
	regs map[string]*Registration
}

// NewScheduler creates a scheduler reading frame metrics from src.
func NewScheduler(src perf.Source) *Scheduler {
	return &Scheduler{
		metrics: src,
		regs:    make(map[string]*Registration),
	}
}

// Register adds or replaces the registration for id.
// Priorities below 1 are treated as 1.
func (s *Scheduler) Register(id string, priority int) {
	if priority < 1 {
		priority = 1
	}
	s.mu.Lock()
	s.regs[id] = &Registration{ID: id, Priority: priority}
	s.mu.Unlock()
}

// Unregister removes id. Unknown ids are ignored.
func (s *Scheduler) Unregister(id string) {
	s.mu.Lock()
	delete(s.regs, id)
	s.mu.Unlock()
}

// ShouldUpdate reports whether id should advance this frame.
//
// Unknown ids always update. When the answer is true the registration's
// LastUpdatedFrame is set to the current frame count.
func (s *Scheduler) ShouldUpdate(id string) bool {
	m := s.metrics.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[id]
	if !ok {
		return true
	}
	if !Due(reg.Priority, m.FrameCount, m.SmoothedFPS) {
		return false
	}
	reg.LastUpdatedFrame = m.FrameCount
	return true
}

// Elapsed is a time-based throttle for id at nowMs.
//
// It returns the milliseconds since the element's previous accepted call
// once at least max(FrameBudgetMs, frameTime*priority) has passed, and 0
// otherwise. The first call for an element is always accepted and returns
// 0. Unknown ids return 0.
func (s *Scheduler) Elapsed(id string, nowMs float64) float64 {
	m := s.metrics.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[id]
	if !ok {
		return 0
	}
	if !reg.timed {
		reg.timed = true
		reg.lastUpdatedMs = nowMs
		return 0
	}
	interval := math.Max(perf.FrameBudgetMs, m.FrameTimeMs*float64(reg.Priority))
	elapsed := nowMs - reg.lastUpdatedMs
	if elapsed < interval {
		return 0
	}
	reg.lastUpdatedMs = nowMs
	return elapsed
}

// Lookup returns a copy of the registration for id.
func (s *Scheduler) Lookup(id string) (Registration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[id]
	if !ok {
		return Registration{}, false
	}
	return *reg, true
}

// Len returns the number of registrations.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regs)
}

// Reset removes all registrations.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	clear(s.regs)
	s.mu.Unlock()
}
