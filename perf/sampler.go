package perf

import (
	"sync/atomic"
)

const (
	// InitialFPS is the estimate reported before any frame time is known.
	InitialFPS = 60.0

	// Smoothing is the weight of a new sample in the moving average.
	Smoothing = 0.1

	// FrameBudgetMs is the frame time of a 60 Hz display.
	FrameBudgetMs = 1000.0 / 60.0

	// LowPerformanceFPS is the estimate below which a device is treated
	// as struggling.
	LowPerformanceFPS = 40.0
)

// FrameMetrics is a snapshot of frame pacing at the end of a tick.
type FrameMetrics struct {
	// FrameCount is the number of ticks observed. It only grows.
	FrameCount uint64

	// LastTimestamp is the timestamp of the latest tick in milliseconds.
	LastTimestamp float64

	// FrameTimeMs is the time between the two latest ticks.
	// Zero until the second tick.
	FrameTimeMs float64

	// SmoothedFPS is the exponential moving average of 1000/FrameTimeMs.
	SmoothedFPS float64
}

// IsLowPerformance reports whether the smoothed estimate is below
// LowPerformanceFPS.
func (m FrameMetrics) IsLowPerformance() bool {
	return m.SmoothedFPS < LowPerformanceFPS
}

// Source provides the latest frame metrics.
type Source interface {
	Snapshot() FrameMetrics
}

// Sampler maintains FrameMetrics across ticks.
//
// Tick must be called from a single goroutine (the frame loop).
// Snapshot is safe for concurrent use.
type Sampler struct {
	current FrameMetrics
	started bool

	published atomic.Pointer[FrameMetrics]
}

// NewSampler creates a sampler reporting InitialFPS until frame times
// are observed.
func NewSampler() *Sampler {
	s := &Sampler{
		current: FrameMetrics{SmoothedFPS: InitialFPS},
	}
	s.publish()
	return s
}

// Tick records a frame at nowMs (a monotonic millisecond clock) and
// returns the new snapshot.
//
// The first tick only records the timestamp. Later ticks derive the frame
// time and fold it into the moving average. A tick whose timestamp does not
// advance updates FrameTimeMs but leaves the average untouched.
func (s *Sampler) Tick(nowMs float64) FrameMetrics {
	m := &s.current
	m.FrameCount++

	if !s.started {
		s.started = true
		m.LastTimestamp = nowMs
		s.publish()
		return *m
	}

	m.FrameTimeMs = nowMs - m.LastTimestamp
	m.LastTimestamp = nowMs
	if m.FrameTimeMs > 0 {
		m.SmoothedFPS = (1-Smoothing)*m.SmoothedFPS + Smoothing*(1000/m.FrameTimeMs)
	}

	s.publish()
	return *m
}

// Snapshot returns the metrics published by the latest tick.
func (s *Sampler) Snapshot() FrameMetrics {
	return *s.published.Load()
}

// Reset returns the sampler to its initial state.
// Like Tick, it must be called from the frame loop.
func (s *Sampler) Reset() {
	s.current = FrameMetrics{SmoothedFPS: InitialFPS}
	s.started = false
	s.publish()
}

func (s *Sampler) publish() {
	snap := s.current
	s.published.Store(&snap)
}

// Fixed is a Source that always reports the same metrics.
type Fixed FrameMetrics

// Snapshot returns f as FrameMetrics.
func (f Fixed) Snapshot() FrameMetrics {
	return FrameMetrics(f)
}

var (
	_ Source = (*Sampler)(nil)
	_ Source = Fixed{}
)
