package retrodesk

import (
	"github.com/gogpu/retrodesk/cache"
	"github.com/gogpu/retrodesk/compute"
	"github.com/gogpu/retrodesk/perf"
	"github.com/gogpu/retrodesk/quality"
)

// Stats is a snapshot of the scene's pacing and resource state.
type Stats struct {
	Metrics perf.FrameMetrics
	Tier    quality.Tier
	Profile quality.Profile

	// LowPerformance reports whether the smoothed frame rate is below
	// perf.LowPerformanceFPS.
	LowPerformance bool

	// Elapsed is the scene time of the latest frame in seconds.
	Elapsed float64

	// Registrations is the number of animated elements.
	Registrations int

	Targets   cache.Stats
	TextDrift compute.Stats
	LEDBlink  compute.Stats

	// Uploads is the total number of screen uploads since mount.
	Uploads int

	// Active is the id of the most recently clicked screen.
	Active string
}

var _ perf.Source = (*Scene)(nil)

// Snapshot returns the latest frame metrics, so a Scene can drive an
// anim.Scheduler of its own.
func (s *Scene) Snapshot() perf.FrameMetrics { return s.sampler.Snapshot() }

// Stats returns a snapshot of the scene.
func (s *Scene) Stats() Stats {
	st := Stats{
		Metrics:       s.sampler.Snapshot(),
		Tier:          s.selector.Current(),
		Profile:       s.selector.Profile(),
		Elapsed:       s.last.Elapsed,
		Registrations: s.scheduler.Len(),
		Targets:       s.targets.Stats(),
		TextDrift:     s.textDrift.Stats(),
		LEDBlink:      s.ledBlink.Stats(),
		Active:        s.active,
	}
	st.LowPerformance = st.Metrics.IsLowPerformance()
	for _, surf := range s.screens {
		st.Uploads += surf.Uploads()
	}
	return st
}
