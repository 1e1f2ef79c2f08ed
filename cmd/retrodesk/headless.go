package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk"
	"github.com/gogpu/retrodesk/internal/host"
	"github.com/gogpu/retrodesk/quality"
	"github.com/gogpu/retrodesk/render"
)

// simulation is one headless run.
type simulation struct {
	Frames   int
	FPS      float64
	Distance float64
	Sweep    bool
}

// distanceAt returns the camera distance of frame i. A sweep goes from
// host.MinDistance to host.MaxDistance and back over the run.
func (p simulation) distanceAt(i int) float64 {
	if !p.Sweep || p.Frames < 2 {
		return p.Distance
	}
	phase := float64(i) / float64(p.Frames-1)
	tri := 1 - math.Abs(2*phase-1)
	return host.MinDistance + tri*(host.MaxDistance-host.MinDistance)
}

// summary is what a headless run reports.
type summary struct {
	Final       retrodesk.Stats
	TierFrames  [len(quality.Tiers)]int
	TierChanges int
	Rendered    int
}

// simulate mounts s and runs p.Frames frames on a simulated clock.
func simulate(s *retrodesk.Scene, p simulation) (summary, error) {
	var sum summary
	if p.Frames <= 0 || p.FPS <= 0 {
		return sum, errors.New("frames and fps must be positive")
	}
	if err := s.Mount(); err != nil {
		return sum, err
	}
	defer s.Unmount()

	step := 1000 / p.FPS
	prev := s.Stats().Tier
	for i := range p.Frames {
		s.Frame(float64(i)*step, f32.Vec3{0, 0, float32(p.distanceAt(i))})
		dl := s.Render()
		sum.Rendered += len(dl.Screens)

		tier := s.Stats().Tier
		sum.TierFrames[tier]++
		if tier != prev {
			sum.TierChanges++
			prev = tier
		}
	}
	sum.Final = s.Stats()
	return sum, nil
}

// Headless runs the scene without a window and prints a report.
func Headless(ctx *cli.Context) error {
	log := setupLogging(ctx)

	var alloc render.Allocator = render.PixmapAllocator{}
	if ctx.Bool("gpu") {
		dev, err := render.OpenNoop()
		if err != nil {
			return err
		}
		defer dev.Close()
		a, err := render.NewHALAllocatorFrom(dev, log)
		if err != nil {
			return err
		}
		alloc = a
		log.Info("headless gpu device", "adapter", dev.AdapterInfo().Name)
	}

	s, err := newScene(ctx, alloc)
	if err != nil {
		return err
	}
	defer s.Close()

	sum, err := simulate(s, simulation{
		Frames:   ctx.Int("frames"),
		FPS:      ctx.Float64("fps"),
		Distance: ctx.Float64("distance"),
		Sweep:    ctx.Bool("sweep"),
	})
	if err != nil {
		return err
	}
	writeReport(os.Stdout, sum)
	return nil
}

func writeReport(w io.Writer, sum summary) {
	st := sum.Final

	tiers := tablewriter.NewWriter(w)
	tiers.SetAutoFormatHeaders(false)
	tiers.SetHeader([]string{"Tier", "Frames", "Texture", "Anisotropy", "Corner segments"})
	profiles := quality.DefaultProfiles()
	for _, t := range quality.Tiers {
		p := profiles[t]
		tiers.Append([]string{
			t.String(),
			fmt.Sprintf("%d", sum.TierFrames[t]),
			fmt.Sprintf("%dx%d", p.TextureWidth, p.TextureHeight),
			fmt.Sprintf("%d", p.Anisotropy),
			fmt.Sprintf("%d", p.CornerSegments),
		})
	}
	tiers.SetFooter([]string{"changes", fmt.Sprintf("%d", sum.TierChanges), "", "", ""})
	tiers.Render()

	stats := tablewriter.NewWriter(w)
	stats.SetAutoFormatHeaders(false)
	stats.SetAutoWrapText(false)
	stats.SetHeader([]string{"Statistic", "Value"})
	stats.AppendBulk([][]string{
		{"frames", fmt.Sprintf("%d", st.Metrics.FrameCount)},
		{"smoothed fps", fmt.Sprintf("%.1f", st.Metrics.SmoothedFPS)},
		{"frame time", fmt.Sprintf("%.2f ms", st.Metrics.FrameTimeMs)},
		{"elapsed", fmt.Sprintf("%.2f s", st.Elapsed)},
		{"final tier", tierRow(st)},
		{"animations", fmt.Sprintf("%d", st.Registrations)},
		{"screens drawn", fmt.Sprintf("%d", sum.Rendered)},
		{"uploads", fmt.Sprintf("%d", st.Uploads)},
		{"targets live", fmt.Sprintf("%d", st.Targets.Entries)},
		{"targets allocated", fmt.Sprintf("%d", st.Targets.Allocations)},
		{"targets disposed", fmt.Sprintf("%d", st.Targets.Disposals)},
		{"target hit rate", fmt.Sprintf("%.0f %%", st.Targets.HitRate()*100)},
		{"text drift jobs", computeRow(st.TextDrift.Submitted, st.TextDrift.Completed, st.TextDrift.Dropped)},
		{"led blink jobs", computeRow(st.LEDBlink.Submitted, st.LEDBlink.Completed, st.LEDBlink.Dropped)},
	})
	stats.Render()
}

func computeRow(submitted, completed, dropped uint64) string {
	return fmt.Sprintf("%d sent / %d done / %d dropped", submitted, completed, dropped)
}

func tierRow(st retrodesk.Stats) string {
	if st.LowPerformance {
		return st.Tier.String() + " (low performance)"
	}
	return st.Tier.String()
}
