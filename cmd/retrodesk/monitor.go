package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk"
	"github.com/gogpu/retrodesk/anim"
	"github.com/gogpu/retrodesk/internal/host"
	"github.com/gogpu/retrodesk/perf"
	"github.com/gogpu/retrodesk/render"
)

var (
	labelStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	valueStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	titleStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

const redrawID = "monitor"

// redrawThrottle paces terminal repaints like a scanline phase: every
// frame while frames are fast, less often as frame times grow.
type redrawThrottle struct {
	sched *anim.Scheduler
	drawn bool
}

func newRedrawThrottle(src perf.Source) *redrawThrottle {
	sched := anim.NewScheduler(src)
	sched.Register(redrawID, anim.PriorityScanline)
	return &redrawThrottle{sched: sched}
}

// due reports whether the terminal should be repainted at nowMs.
func (t *redrawThrottle) due(nowMs float64) bool {
	if t.sched.Elapsed(redrawID, nowMs) > 0 {
		return true
	}
	if !t.drawn {
		t.drawn = true
		return true
	}
	return false
}

// Monitor drives a headless scene in real time and shows its statistics in
// the terminal. Up and Down move the camera; q or Escape quits.
func Monitor(ctx *cli.Context) error {
	fps := ctx.Float64("fps")
	if fps <= 0 {
		return errors.New("fps must be positive")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// Log records would tear the terminal UI.
	setupLoggingTo(ctx, io.Discard)

	s, err := newScene(ctx, render.PixmapAllocator{})
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Mount(); err != nil {
		return err
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	distance := ctx.Float64("distance")
	redraw := newRedrawThrottle(s)
	start := time.Now()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
					ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					return nil
				case ev.Key() == tcell.KeyUp:
					distance = host.Zoom(distance, 1)
				case ev.Key() == tcell.KeyDown:
					distance = host.Zoom(distance, -1)
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			nowMs := float64(time.Since(start).Microseconds()) / 1000
			s.Frame(nowMs, f32.Vec3{0, 0, float32(distance)})
			s.Render()
			if redraw.due(nowMs) {
				drawStats(screen, s.Stats(), distance)
			}
		}
	}
}

func drawStats(screen tcell.Screen, st retrodesk.Stats, distance float64) {
	screen.Clear()
	drawText(screen, 1, 0, titleStyle, "retrodesk monitor  (up/down: camera, q: quit)")

	rows := [][2]string{
		{"frames", fmt.Sprintf("%d", st.Metrics.FrameCount)},
		{"fps", fmt.Sprintf("%.1f", st.Metrics.SmoothedFPS)},
		{"frame time", fmt.Sprintf("%.2f ms", st.Metrics.FrameTimeMs)},
		{"camera", fmt.Sprintf("%.1f", distance)},
		{"tier", tierRow(st)},
		{"texture", fmt.Sprintf("%dx%d a%d", st.Profile.TextureWidth, st.Profile.TextureHeight, st.Profile.Anisotropy)},
		{"animations", fmt.Sprintf("%d", st.Registrations)},
		{"uploads", fmt.Sprintf("%d", st.Uploads)},
		{"targets", fmt.Sprintf("%d live, %d pending disposal", st.Targets.Entries, st.Targets.PendingDisposal)},
		{"allocations", fmt.Sprintf("%d (hit rate %.0f%%)", st.Targets.Allocations, st.Targets.HitRate()*100)},
		{"text drift", computeRow(st.TextDrift.Submitted, st.TextDrift.Completed, st.TextDrift.Dropped)},
		{"led blink", computeRow(st.LEDBlink.Submitted, st.LEDBlink.Completed, st.LEDBlink.Dropped)},
		{"active", st.Active},
	}
	for i, r := range rows {
		drawText(screen, 1, i+2, labelStyle, r[0])
		drawText(screen, 16, i+2, valueStyle, r[1])
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
