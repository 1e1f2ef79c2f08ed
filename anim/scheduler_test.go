package anim

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/gogpu/retrodesk/perf"
)

// metricsBox is a mutable perf.Source for tests.
type metricsBox struct {
	mu sync.Mutex
	m  perf.FrameMetrics
}

func (b *metricsBox) Snapshot() perf.FrameMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m
}

func (b *metricsBox) set(frame uint64, fps float64) {
	b.mu.Lock()
	b.m.FrameCount = frame
	b.m.SmoothedFPS = fps
	b.mu.Unlock()
}

func TestDue(t *testing.T) {
	tests := []struct {
		priority int
		frame    uint64
		fps      float64
		want     bool
	}{
		{1, 7, 10, true},
		{1, 1, 60, true},
		{2, 7, 60, true},
		{2, 7, 55, true},
		{2, 7, 54.9, false},
		{2, 8, 30, true},
		{3, 9, 30, true},
		{3, 10, 30, false},
		{4, 12, 30, true},
		{4, 10, 30, false},
		{9, 12, 30, true},
		{9, 9, 30, false},
		{0, 3, 10, true},
		{-5, 3, 10, true},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("p%d_f%d_fps%v", tt.priority, tt.frame, tt.fps)
		t.Run(name, func(t *testing.T) {
			if got := Due(tt.priority, tt.frame, tt.fps); got != tt.want {
				t.Errorf("Due(%d, %d, %v) = %v, want %v", tt.priority, tt.frame, tt.fps, got, tt.want)
			}
		})
	}
}

func TestShouldUpdateUnknownID(t *testing.T) {
	s := NewScheduler(perf.Fixed{FrameCount: 3, SmoothedFPS: 10})
	if !s.ShouldUpdate("ghost") {
		t.Error("ShouldUpdate(unknown) = false, want true")
	}
}

func TestShouldUpdateWithHeadroom(t *testing.T) {
	box := &metricsBox{}
	s := NewScheduler(box)
	s.Register("scanline", PriorityScanline)

	for frame := uint64(1); frame <= 12; frame++ {
		box.set(frame, 60)
		if !s.ShouldUpdate("scanline") {
			t.Errorf("frame %d: ShouldUpdate = false at 60 fps", frame)
		}
	}
}

func TestShouldUpdateUnderLoad(t *testing.T) {
	box := &metricsBox{}
	s := NewScheduler(box)
	s.Register("text", PriorityText)
	s.Register("led", PriorityLED)
	s.Register("scanline", PriorityScanline)
	s.Register("ambient", 7)

	counts := map[string]int{}
	for frame := uint64(1); frame <= 12; frame++ {
		box.set(frame, 30)
		for _, id := range []string{"text", "led", "scanline", "ambient"} {
			if s.ShouldUpdate(id) {
				counts[id]++
			}
		}
	}

	want := map[string]int{"text": 12, "led": 6, "scanline": 4, "ambient": 3}
	for id, n := range want {
		if counts[id] != n {
			t.Errorf("%s updated %d times in 12 frames, want %d", id, counts[id], n)
		}
	}
}

func TestShouldUpdateFrameSequence(t *testing.T) {
	box := &metricsBox{}
	s := NewScheduler(box)
	s.Register("a", 1)
	s.Register("b", 3)

	var updatesA int
	var framesB []uint64
	for frame := uint64(0); frame <= 11; frame++ {
		box.set(frame, 40)
		if s.ShouldUpdate("a") {
			updatesA++
		}
		if s.ShouldUpdate("b") {
			framesB = append(framesB, frame)
		}
	}

	if updatesA != 12 {
		t.Errorf("a updated %d times, want 12", updatesA)
	}
	if want := []uint64{0, 3, 6, 9}; !slices.Equal(framesB, want) {
		t.Errorf("b updated at %v, want %v", framesB, want)
	}
}

func TestShouldUpdateEveryOtherFrame(t *testing.T) {
	box := &metricsBox{}
	s := NewScheduler(box)
	s.Register("led", 2)

	for _, start := range []uint64{0, 1, 17} {
		n := 0
		for frame := start; frame < start+10; frame++ {
			box.set(frame, 30)
			if s.ShouldUpdate("led") {
				n++
			}
		}
		if n != 5 {
			t.Errorf("frames %d..%d: %d updates, want 5", start, start+9, n)
		}
	}
}

func TestShouldUpdateStampsFrame(t *testing.T) {
	box := &metricsBox{}
	s := NewScheduler(box)
	s.Register("led", PriorityLED)

	box.set(4, 30)
	s.ShouldUpdate("led")
	box.set(5, 30)
	s.ShouldUpdate("led")

	reg, ok := s.Lookup("led")
	if !ok {
		t.Fatal("Lookup(led) not found")
	}
	if reg.LastUpdatedFrame != 4 {
		t.Errorf("LastUpdatedFrame = %d, want 4", reg.LastUpdatedFrame)
	}
}

func TestRegisterClampsPriority(t *testing.T) {
	s := NewScheduler(perf.Fixed{FrameCount: 3, SmoothedFPS: 10})
	s.Register("x", 0)
	reg, _ := s.Lookup("x")
	if reg.Priority != 1 {
		t.Errorf("Priority = %d, want 1", reg.Priority)
	}
	if !s.ShouldUpdate("x") {
		t.Error("clamped priority should update every frame")
	}
}

func TestUnregister(t *testing.T) {
	s := NewScheduler(perf.Fixed{FrameCount: 3, SmoothedFPS: 10})
	s.Register("led", PriorityLED)
	if s.ShouldUpdate("led") {
		t.Fatal("led at odd frame under load should not update")
	}
	s.Unregister("led")
	s.Unregister("led")
	if !s.ShouldUpdate("led") {
		t.Error("unregistered id should fail open")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestElapsed(t *testing.T) {
	box := &metricsBox{}
	s := NewScheduler(box)
	s.Register("scanline", PriorityScanline)
	box.mu.Lock()
	box.m.FrameTimeMs = 20 // interval = max(16.67, 60)
	box.mu.Unlock()

	if got := s.Elapsed("scanline", 1000); got != 0 {
		t.Errorf("first Elapsed = %v, want 0", got)
	}
	if got := s.Elapsed("scanline", 1040); got != 0 {
		t.Errorf("Elapsed before interval = %v, want 0", got)
	}
	if got := s.Elapsed("scanline", 1070); got != 70 {
		t.Errorf("Elapsed after interval = %v, want 70", got)
	}
	if got := s.Elapsed("unknown", 5000); got != 0 {
		t.Errorf("Elapsed(unknown) = %v, want 0", got)
	}
}

func TestReset(t *testing.T) {
	s := NewScheduler(perf.Fixed{})
	s.Register("a", 1)
	s.Register("b", 2)
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", s.Len())
	}
}

func TestSchedulerConcurrent(t *testing.T) {
	s := NewScheduler(perf.Fixed{FrameCount: 2, SmoothedFPS: 30})
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("el-%d", i)
			for range 100 {
				s.Register(id, i%4+1)
				s.ShouldUpdate(id)
				s.Unregister(id)
			}
		}()
	}
	wg.Wait()
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestPrioritiesWithDefaults(t *testing.T) {
	got := Priorities{LED: 4}.WithDefaults()
	want := Priorities{Text: PriorityText, LED: 4, Scanline: PriorityScanline}
	if got != want {
		t.Errorf("WithDefaults() = %+v, want %+v", got, want)
	}
	if DefaultPriorities().WithDefaults() != DefaultPriorities() {
		t.Error("WithDefaults changed a complete set")
	}
}
