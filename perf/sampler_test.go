package perf

import (
	"math"
	"sync"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewSampler(t *testing.T) {
	s := NewSampler()
	m := s.Snapshot()
	if m.FrameCount != 0 {
		t.Errorf("FrameCount = %d, want 0", m.FrameCount)
	}
	if m.SmoothedFPS != InitialFPS {
		t.Errorf("SmoothedFPS = %v, want %v", m.SmoothedFPS, InitialFPS)
	}
}

func TestSamplerFirstTick(t *testing.T) {
	s := NewSampler()
	m := s.Tick(1234)
	if m.FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", m.FrameCount)
	}
	if m.LastTimestamp != 1234 {
		t.Errorf("LastTimestamp = %v, want 1234", m.LastTimestamp)
	}
	if m.FrameTimeMs != 0 {
		t.Errorf("FrameTimeMs = %v, want 0", m.FrameTimeMs)
	}
	if m.SmoothedFPS != InitialFPS {
		t.Errorf("SmoothedFPS = %v, want %v", m.SmoothedFPS, InitialFPS)
	}
}

func TestSamplerSmoothing(t *testing.T) {
	s := NewSampler()
	s.Tick(0)
	m := s.Tick(20) // 50 fps sample

	if m.FrameTimeMs != 20 {
		t.Errorf("FrameTimeMs = %v, want 20", m.FrameTimeMs)
	}
	if want := 0.9*60 + 0.1*50; !almostEqual(m.SmoothedFPS, want) {
		t.Errorf("SmoothedFPS = %v, want %v", m.SmoothedFPS, want)
	}
}

func TestSamplerSingleSpike(t *testing.T) {
	s := NewSampler()
	now := 0.0
	s.Tick(now)
	for range 30 {
		now += 1000.0 / 60
		s.Tick(now)
	}
	now += 100 // one 10 fps frame
	m := s.Tick(now)

	// 0.9*60 + 0.1*10 = 55: a single spike stays above the 40 fps floor.
	if m.SmoothedFPS < 54.9 || m.SmoothedFPS > 55.1 {
		t.Errorf("SmoothedFPS after spike = %v, want ~55", m.SmoothedFPS)
	}
	if m.IsLowPerformance() {
		t.Error("single spike should not mark the device as low performance")
	}
}

func TestSamplerConverges(t *testing.T) {
	s := NewSampler()
	now := 0.0
	s.Tick(now)
	for range 200 {
		now += 40 // 25 fps
		s.Tick(now)
	}
	m := s.Snapshot()
	if math.Abs(m.SmoothedFPS-25) > 0.01 {
		t.Errorf("SmoothedFPS = %v, want ~25", m.SmoothedFPS)
	}
	if !m.IsLowPerformance() {
		t.Error("25 fps should be low performance")
	}
	if m.FrameCount != 201 {
		t.Errorf("FrameCount = %d, want 201", m.FrameCount)
	}
}

func TestSamplerNonAdvancingTimestamp(t *testing.T) {
	tests := []struct {
		name string
		next float64
	}{
		{"duplicate", 100},
		{"backwards", 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler()
			s.Tick(0)
			before := s.Tick(100)
			m := s.Tick(tt.next)

			if math.IsInf(m.SmoothedFPS, 0) || math.IsNaN(m.SmoothedFPS) {
				t.Fatalf("SmoothedFPS = %v, want finite", m.SmoothedFPS)
			}
			if m.SmoothedFPS != before.SmoothedFPS {
				t.Errorf("SmoothedFPS = %v, want unchanged %v", m.SmoothedFPS, before.SmoothedFPS)
			}
			if m.FrameCount != 3 {
				t.Errorf("FrameCount = %d, want 3", m.FrameCount)
			}
		})
	}
}

func TestSamplerReset(t *testing.T) {
	s := NewSampler()
	s.Tick(0)
	s.Tick(50)
	s.Reset()

	m := s.Snapshot()
	if m.FrameCount != 0 || m.SmoothedFPS != InitialFPS {
		t.Errorf("after Reset = %+v, want initial metrics", m)
	}
	if got := s.Tick(500); got.FrameTimeMs != 0 {
		t.Errorf("first tick after Reset FrameTimeMs = %v, want 0", got.FrameTimeMs)
	}
}

func TestSamplerConcurrentReaders(t *testing.T) {
	s := NewSampler()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last uint64
			for {
				select {
				case <-stop:
					return
				default:
				}
				m := s.Snapshot()
				if m.FrameCount < last {
					t.Errorf("FrameCount went backwards: %d < %d", m.FrameCount, last)
					return
				}
				last = m.FrameCount
			}
		}()
	}

	for i := range 1000 {
		s.Tick(float64(i) * 16)
	}
	close(stop)
	wg.Wait()
}

func TestFixed(t *testing.T) {
	src := Fixed{FrameCount: 7, SmoothedFPS: 30}
	m := src.Snapshot()
	if m.FrameCount != 7 || m.SmoothedFPS != 30 {
		t.Errorf("Fixed.Snapshot() = %+v", m)
	}
}
