package screen

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk/anim"
	"github.com/gogpu/retrodesk/cache"
	"github.com/gogpu/retrodesk/compute"
	"github.com/gogpu/retrodesk/kernel"
	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/perf"
	"github.com/gogpu/retrodesk/quality"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/scene"
	"github.com/gogpu/retrodesk/text"
)

// metrics is a settable perf.Source.
type metrics struct {
	m perf.FrameMetrics
}

func (s *metrics) Snapshot() perf.FrameMetrics { return s.m }

func (s *metrics) set(frame uint64, fps float64) {
	s.m.FrameCount = frame
	s.m.SmoothedFPS = fps
}

// manualClock runs scheduled callbacks only from fire.
type manualClock struct {
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) Now() time.Time { return time.Time{} }

func (c *manualClock) AfterFunc(_ time.Duration, f func()) cache.Timer {
	t := &manualTimer{f: f}
	c.pending = append(c.pending, t)
	return t
}

func (c *manualClock) fire() {
	due := c.pending
	c.pending = nil
	for _, t := range due {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

type fixture struct {
	env     *scene.Env
	metrics *metrics
	targets *cache.TargetCache
	active  []string
	opened  []string
}

var panelBounds = mesh.Box3{Min: f32.Vec3{-0.5, -0.25, 0}, Max: f32.Vec3{0.5, 0.25, 0.01}}

func newFixture(t *testing.T, alloc render.Allocator, isolated bool) *fixture {
	t.Helper()

	lib, err := mesh.NewLibrary(
		mesh.Template{Name: "Object_206", Bounds: panelBounds},
		mesh.Template{Name: "Object_207", Bounds: panelBounds},
		mesh.Template{Name: "Object_209", Bounds: panelBounds},
		mesh.Template{Name: "Object_210", Bounds: panelBounds},
	)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	sel, err := quality.NewSelector()
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	font, err := text.DefaultFont()
	if err != nil {
		t.Fatalf("DefaultFont: %v", err)
	}

	f := &fixture{metrics: &metrics{m: perf.FrameMetrics{SmoothedFPS: 60}}}
	f.targets = cache.New(alloc)
	t.Cleanup(f.targets.Close)

	drift := compute.New(kernel.TextOffset, compute.WithIsolation(isolated))
	blink := compute.New(kernel.LEDColors, compute.WithIsolation(isolated))
	t.Cleanup(drift.Close)
	t.Cleanup(blink.Close)

	f.env = &scene.Env{
		Metrics:      f.metrics,
		Quality:      sel,
		Scheduler:    anim.NewScheduler(f.metrics),
		Targets:      f.targets,
		Meshes:       lib,
		Materials:    render.NewMaterials(render.Glow),
		Text:         text.NewLayouter(font, 0),
		TextDrift:    drift,
		LEDBlink:     blink,
		CacheTargets: true,
		OpenLink: func(url string) error {
			f.opened = append(f.opened, url)
			return nil
		},
		Activate: func(id string) { f.active = append(f.active, id) },
	}
	return f
}

func high() quality.Profile { return quality.ProfileFor(quality.High) }

func frameAt(elapsed float64, p quality.Profile) scene.FrameTime {
	return scene.FrameTime{NowMs: elapsed * 1000, Elapsed: elapsed, Profile: p}
}

func newSurface(t *testing.T, panel string, effect bool, c Content) *Surface {
	t.Helper()
	s, err := New(Def{
		Frame:        "Object_206",
		Panel:        panel,
		CustomEffect: effect,
		Tuning:       DefaultTuning(),
		Content:      c,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func mount(t *testing.T, f *fixture, s *Surface) {
	t.Helper()
	if err := s.Mount(f.env); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(s.Unmount)
}

// =============================================================================
// Tuning and Layout
// =============================================================================

func TestTuningValidate(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Errorf("DefaultTuning().Validate() = %v", err)
	}
	bad := DefaultTuning()
	bad.Scale = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTuning) {
		t.Errorf("zero scale: err = %v, want ErrInvalidTuning", err)
	}
	bad = DefaultTuning()
	bad.Z.Main = float32(math.NaN())
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTuning) {
		t.Errorf("NaN depth: err = %v, want ErrInvalidTuning", err)
	}
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(panelBounds, DefaultTuning())

	near := func(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }
	if !near(l.Width, 1.3) || !near(l.Height, 0.65) {
		t.Errorf("size = %vx%v, want 1.3x0.65", l.Width, l.Height)
	}

	want := map[Corner]f32.Vec3{
		TopLeft:     {-0.629, 0.284, 0.515},
		TopRight:    {0.629, 0.284, 0.515},
		BottomLeft:  {-0.629, -0.324, 0.515},
		BottomRight: {0.629, -0.324, 0.515},
	}
	rot := map[Corner]float32{TopLeft: 0, TopRight: math.Pi / 2, BottomLeft: -math.Pi / 2, BottomRight: math.Pi}
	for _, c := range l.Corners {
		w := want[c.Corner]
		for i := range 3 {
			if !near(c.Position[i], w[i]) {
				t.Errorf("%v position = %v, want %v", c.Corner, c.Position, w)
				break
			}
		}
		if c.RotationZ != rot[c.Corner] {
			t.Errorf("%v rotation = %v, want %v", c.Corner, c.RotationZ, rot[c.Corner])
		}
	}
}

func TestCornerSegments(t *testing.T) {
	tests := []struct{ in, want int }{
		{16, 24},
		{12, 18},
		{8, 16},
		{4, 16},
	}
	for _, tt := range tests {
		if got := CornerSegments(tt.in); got != tt.want {
			t.Errorf("CornerSegments(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if TopLeft.String() != "top-left" || Corner(9).String() != "unknown" {
		t.Error("Corner.String mismatch")
	}
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestNewRejects(t *testing.T) {
	tests := []struct {
		name string
		def  Def
	}{
		{"no frame", Def{Panel: "p", Tuning: DefaultTuning(), Content: Interactive{}}},
		{"no panel", Def{Frame: "f", Tuning: DefaultTuning(), Content: Interactive{}}},
		{"no content", Def{Frame: "f", Panel: "p", Tuning: DefaultTuning()}},
		{"bad tuning", Def{Frame: "f", Panel: "p", Content: Interactive{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.def); !errors.Is(err, ErrInvalidDef) {
				t.Errorf("New() error = %v, want ErrInvalidDef", err)
			}
		})
	}
}

func TestMountAcquiresTarget(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", true, Interactive{})
	mount(t, f, s)

	if s.ID() != "screen-Object_207" {
		t.Errorf("ID = %q", s.ID())
	}
	lease := s.Lease()
	if lease.Key != "764x400-a16" {
		t.Errorf("target key = %q, want 764x400-a16", lease.Key)
	}
	if w, h := lease.Target.Width(), lease.Target.Height(); w != 764 || h != 400 {
		t.Errorf("target = %dx%d, want 764x400", w, h)
	}
	if _, ok := f.env.Scheduler.Lookup(s.AnimationID()); !ok {
		t.Error("scanline phase not registered")
	}
	reg, _ := f.env.Scheduler.Lookup(s.AnimationID())
	if reg.Priority != anim.PriorityScanline {
		t.Errorf("priority = %d, want %d", reg.Priority, anim.PriorityScanline)
	}
	if err := s.Mount(f.env); !errors.Is(err, ErrMounted) {
		t.Errorf("second Mount = %v, want ErrMounted", err)
	}
}

func TestMountWithoutEffectSkipsRegistration(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", false, Interactive{})
	mount(t, f, s)
	if f.env.Scheduler.Len() != 0 {
		t.Errorf("scheduler has %d registrations, want 0", f.env.Scheduler.Len())
	}
}

func TestScreensShareTarget(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	a := newSurface(t, "Object_207", false, Interactive{})
	b := newSurface(t, "Object_210", false, Interactive{})
	mount(t, f, a)
	mount(t, f, b)

	if a.Lease().Target != b.Lease().Target {
		t.Error("screens with equal profiles should share one target")
	}
	if users := f.targets.Users("764x400-a16"); len(users) != 2 {
		t.Errorf("users = %v, want 2", users)
	}
}

func TestSamePanelSurfacesLeaseSeparately(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	clock := &manualClock{}
	f.targets = cache.New(render.PixmapAllocator{}, cache.WithClock(clock))
	t.Cleanup(f.targets.Close)
	f.env.Targets = f.targets

	a := newSurface(t, "Object_207", false, Interactive{})
	b := newSurface(t, "Object_207", false, Interactive{})
	if a.ID() != b.ID() {
		t.Errorf("ID() = %q and %q, want one panel name", a.ID(), b.ID())
	}
	if a.Owner() == b.Owner() {
		t.Fatalf("Owner() = %q for both surfaces, want distinct owners", a.Owner())
	}
	mount(t, f, a)
	mount(t, f, b)

	if users := f.targets.Users("764x400-a16"); len(users) != 2 {
		t.Fatalf("users = %v, want 2", users)
	}
	target := b.Lease().Target.(*render.PixmapTarget)

	a.Unmount()
	clock.fire()

	if target.Disposed() {
		t.Fatal("unmounting one surface disposed the target of the other")
	}
	if users := f.targets.Users("764x400-a16"); len(users) != 1 || users[0] != b.Owner() {
		t.Errorf("users = %v, want [%s]", users, b.Owner())
	}
	b.Frame(frameAt(0, high()))
	if _, err := b.Present(); err != nil {
		t.Errorf("Present() = %v, want nil", err)
	}
}

func TestUnmountReleases(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", true, DefaultText())
	if err := s.Mount(f.env); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	target := s.Lease().Target.(*render.PixmapTarget)

	s.Unmount()
	s.Unmount()

	if s.Mounted() || s.Lease() != nil {
		t.Error("surface still mounted")
	}
	if target.Disposed() {
		t.Error("Unmount disposed the shared target; it must only release it")
	}
	if users := f.targets.Users("764x400-a16"); len(users) != 0 {
		t.Errorf("users = %v, want none", users)
	}
	if f.env.Scheduler.Len() != 0 {
		t.Errorf("scheduler has %d registrations after unmount, want 0", f.env.Scheduler.Len())
	}
	if s.DrawList() != nil {
		t.Error("DrawList of an unmounted surface should be nil")
	}
	if _, err := s.Present(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Present after unmount = %v, want ErrNotMounted", err)
	}
}

func TestMountMissingTemplate(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_999", true, Interactive{})
	if err := s.Mount(f.env); !errors.Is(err, mesh.ErrTemplateNotFound) {
		t.Errorf("Mount = %v, want ErrTemplateNotFound", err)
	}
	if f.env.Scheduler.Len() != 0 {
		t.Error("failed mount left a registration")
	}
}

func TestMountAllocationFailure(t *testing.T) {
	errBoom := errors.New("out of video memory")
	f := newFixture(t, render.AllocatorFunc(func(render.TargetDesc) (render.Target, error) {
		return nil, errBoom
	}), false)

	s := newSurface(t, "Object_207", true, Interactive{})
	err := s.Mount(f.env)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Mount = %v, want allocation error", err)
	}
	if s.Mounted() || f.env.Scheduler.Len() != 0 {
		t.Error("failed mount left state behind")
	}
}

// =============================================================================
// Frames
// =============================================================================

func scanTime(t *testing.T, s *Surface) float64 {
	t.Helper()
	for _, it := range s.DrawList() {
		if it.Layer == LayerScanline {
			return it.Time
		}
	}
	t.Fatal("no scanline layer")
	return 0
}

func TestScanlineFollowsScheduler(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", true, Interactive{})
	mount(t, f, s)

	f.metrics.set(1, 40)
	s.Frame(frameAt(5, high()))
	if got := scanTime(t, s); got != 0 {
		t.Errorf("scan time after skipped frame = %v, want 0", got)
	}

	f.metrics.set(3, 40)
	s.Frame(frameAt(6, high()))
	if got := scanTime(t, s); got != 12 {
		t.Errorf("scan time = %v, want 12", got)
	}

	f.metrics.set(4, 60)
	s.Frame(frameAt(7, high()))
	if got := scanTime(t, s); got != 14 {
		t.Errorf("scan time with headroom = %v, want 14", got)
	}
}

func TestRetargetOnProfileChange(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", false, Interactive{})
	mount(t, f, s)

	medium := quality.ProfileFor(quality.Medium)
	s.Frame(frameAt(1, medium))

	if s.Lease().Key != "512x256-a8" {
		t.Errorf("key = %q, want 512x256-a8", s.Lease().Key)
	}
	if s.Profile() != medium {
		t.Errorf("profile = %+v, want medium", s.Profile())
	}
	if users := f.targets.Users("764x400-a16"); len(users) != 0 {
		t.Errorf("old target users = %v, want none", users)
	}
	if img := s.Image(); img.Bounds().Dx() != 512 {
		t.Errorf("canvas width = %d, want 512", img.Bounds().Dx())
	}
}

func TestRetargetFailureKeepsTarget(t *testing.T) {
	fail := false
	alloc := render.AllocatorFunc(func(d render.TargetDesc) (render.Target, error) {
		if fail {
			return nil, errors.New("no memory")
		}
		return render.PixmapAllocator{}.Allocate(d)
	})
	f := newFixture(t, alloc, false)
	s := newSurface(t, "Object_207", false, Interactive{})
	mount(t, f, s)

	fail = true
	s.Frame(frameAt(1, quality.ProfileFor(quality.Low)))
	if s.Lease().Key != "764x400-a16" {
		t.Errorf("key = %q, want the original target", s.Lease().Key)
	}
}

func TestDrawList(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", true, Interactive{})
	mount(t, f, s)

	items := s.DrawList()
	want := []Layer{LayerFrame, LayerGlow, LayerMain, LayerScanline, LayerCorner, LayerCorner, LayerCorner, LayerCorner}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.Layer != want[i] {
			t.Errorf("item %d layer = %v, want %v", i, it.Layer, want[i])
		}
	}

	main := items[2]
	if main.Target != s.Lease().Target {
		t.Error("main layer does not use the leased target")
	}
	if main.Placement.Position != (f32.Vec3{0, -0.02, 0.5}) {
		t.Errorf("main position = %v", main.Placement.Position)
	}
	glow := items[1]
	if glow.Placement.Scale != (f32.Vec3{1.3, 1.3, 1.3}) || glow.Material.Name != "glow" {
		t.Errorf("glow = %+v", glow)
	}
	if z := items[3].Placement.Position[2]; math.Abs(float64(z)-0.501) > 1e-6 {
		t.Errorf("scanline z = %v, want 0.501", z)
	}
	corner := items[4]
	if corner.Segments != 24 || corner.Material.Name != "corner" || corner.Template != "" {
		t.Errorf("corner = %+v", corner)
	}
	if corner.Placement.Scale != mesh.Uniform(0.028) {
		t.Errorf("corner scale = %v", corner.Placement.Scale)
	}
}

// =============================================================================
// Present
// =============================================================================

func TestPresentUploads(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	f.env.CacheTargets = false
	s := newSurface(t, "Object_207", false, Image{Background: render.Blue})
	f.env.LoadImage = func(string) (image.Image, error) { return nil, errors.New("missing") }
	mount(t, f, s)

	s.Frame(frameAt(0, high()))
	target, err := s.Present()
	if err != nil {
		t.Fatalf("Present: %v", err)
	}
	if _, err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if s.Uploads() != 1 {
		t.Errorf("uploads = %d, want 1 for unchanged private content", s.Uploads())
	}

	px := target.(*render.PixmapTarget).Image().RGBAAt(10, 10)
	if px != render.Blue.RGBA8() {
		t.Errorf("uploaded pixel = %v, want %v", px, render.Blue.RGBA8())
	}
}

func TestPresentSharedAlwaysUploads(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	f.env.LoadImage = func(string) (image.Image, error) { return nil, errors.New("missing") }
	s := newSurface(t, "Object_207", false, Image{})
	mount(t, f, s)

	s.Frame(frameAt(0, high()))
	for range 3 {
		if _, err := s.Present(); err != nil {
			t.Fatalf("Present: %v", err)
		}
	}
	if s.Uploads() != 3 {
		t.Errorf("uploads = %d, want 3 for a shared target", s.Uploads())
	}
}

func TestPresentAppliesScanline(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	f.env.LoadImage = func(string) (image.Image, error) { return nil, errors.New("missing") }
	s := newSurface(t, "Object_207", true, Image{Background: render.White})
	mount(t, f, s)

	s.Frame(frameAt(1, high()))
	if _, err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	// The vignette darkens the corners.
	if c := s.Image().RGBAAt(0, 0); c.R >= 250 {
		t.Errorf("corner pixel = %v, want vignetted", c)
	}
}

// =============================================================================
// Content
// =============================================================================

func TestTextContent(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", false, DefaultText())
	mount(t, f, s)

	if f.env.Scheduler.Len() != 1 {
		t.Fatalf("registrations = %d, want 1 text phase", f.env.Scheduler.Len())
	}
	r := s.content.(*textRenderer)
	reg, ok := f.env.Scheduler.Lookup(r.animID)
	if !ok || reg.Priority != anim.PriorityText {
		t.Errorf("text registration = %+v, %v", reg, ok)
	}

	s.Frame(frameAt(0, high()))
	x0 := r.x
	want := r.cfg.X + math.Sin(r.seed)*kernel.TextDriftAmplitude
	if math.Abs(x0-want) > 1e-9 {
		t.Errorf("x = %v, want %v", x0, want)
	}
	s.Frame(frameAt(2, high()))
	if r.x == x0 {
		t.Error("text did not drift")
	}

	if c := s.Image().RGBAAt(0, 0); c != render.Glow.RGBA8() {
		t.Errorf("background = %v, want glow", c)
	}
}

func TestTextInverted(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	c := DefaultText()
	c.Invert = true
	c.Animated = false
	s := newSurface(t, "Object_207", false, c)
	mount(t, f, s)

	if f.env.Scheduler.Len() != 0 {
		t.Error("static text should not register a phase")
	}
	s.Frame(frameAt(0, high()))
	if got := s.Image().RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("background = %v, want black", got)
	}
	if r := s.content.(*textRenderer); r.x != 0 {
		t.Errorf("static text moved to %v", r.x)
	}
}

func TestTextDriftThroughWorker(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, true)
	s := newSurface(t, "Object_207", false, DefaultText())
	mount(t, f, s)
	r := s.content.(*textRenderer)

	s.Frame(frameAt(3, high()))
	if r.pending != nil {
		if _, err := r.pending.Await(t.Context()); err != nil {
			t.Fatalf("Await: %v", err)
		}
	}
	s.Frame(frameAt(3, high()))

	want := math.Sin(r.seed+3.0/4) * kernel.TextDriftAmplitude
	if math.Abs(r.x-want) > 1e-9 {
		t.Errorf("x = %v, want %v", r.x, want)
	}
}

func TestTextDriftKeepsOneRequestInFlight(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, true)
	release := make(chan struct{})
	var once sync.Once
	drift := compute.New(func(in kernel.TextInput) (kernel.TextOutput, error) {
		<-release
		return kernel.TextOffset(in)
	})
	t.Cleanup(drift.Close)
	t.Cleanup(func() { once.Do(func() { close(release) }) })
	f.env.TextDrift = drift

	s := newSurface(t, "Object_207", false, DefaultText())
	mount(t, f, s)
	r := s.content.(*textRenderer)

	s.Frame(frameAt(1, high()))
	first := r.pending
	if first == nil {
		t.Fatal("no drift request in flight")
	}
	for _, at := range []float64{2, 3, 4} {
		s.Frame(frameAt(at, high()))
	}
	if got := drift.Stats().Submitted; got != 1 {
		t.Errorf("submitted = %d while a request was in flight, want 1", got)
	}
	if r.pending != first {
		t.Error("the in-flight request was replaced")
	}

	once.Do(func() { close(release) })
	if _, err := first.Await(t.Context()); err != nil {
		t.Fatalf("Await: %v", err)
	}
	s.Frame(frameAt(5, high()))

	want, _ := kernel.TextOffset(kernel.TextInput{BaseX: r.cfg.X, Seed: r.seed, Time: 1})
	if math.Abs(r.x-want.X) > 1e-9 {
		t.Errorf("x = %v, want %v from the first request", r.x, want.X)
	}
	if got := drift.Stats().Submitted; got != 2 {
		t.Errorf("submitted = %d after the reply, want 2", got)
	}
}

func TestTextDropsReplyAfterUnmount(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, true)
	s := newSurface(t, "Object_207", false, DefaultText())
	if err := s.Mount(f.env); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	r := s.content.(*textRenderer)
	s.Frame(frameAt(1, high()))
	s.Unmount()

	if r.pending != nil {
		t.Error("pending drift survived unmount")
	}
	s.Frame(frameAt(2, high()))
}

func TestInteractivePointer(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", false, Interactive{})
	mount(t, f, s)
	s.Frame(frameAt(0, high()))

	r := s.content.(*interactiveRenderer)
	if r.hit.Empty() {
		t.Fatal("box not painted")
	}
	if c := s.Image().RGBAAt(s.Image().Bounds().Dx()-1, 0); c != render.Orange.RGBA8() {
		t.Errorf("background = %v, want orange", c)
	}

	size := r.size
	center := r.hit.Min.Add(r.hit.Size().Div(2))
	on := scene.PointerEvent{
		Kind: scene.PointerMove,
		X:    (float64(center.X) + 0.5) / float64(size.X),
		Y:    (float64(center.Y) + 0.5) / float64(size.Y),
	}
	off := scene.PointerEvent{Kind: scene.PointerMove, X: 0.99, Y: 0.99}

	if s.HandlePointer(off) {
		t.Error("pointer away from the box was consumed")
	}
	if !s.HandlePointer(on) || s.Cursor() != scene.CursorPointer {
		t.Error("hovering the box should be consumed and show a pointer")
	}

	before := r.hit.Dx()
	on.Kind = scene.PointerClick
	if !s.HandlePointer(on) {
		t.Error("click not consumed")
	}
	if !r.clicked {
		t.Error("click did not toggle the box")
	}
	s.Frame(frameAt(0, high()))
	if r.hit.Dx() != before {
		t.Errorf("box width %d on the click frame, want %d", r.hit.Dx(), before)
	}
	s.Frame(frameAt(1, high()))
	if r.scale != boxClickedScale {
		t.Errorf("scale = %v after the transition, want %v", r.scale, boxClickedScale)
	}
	if len(f.active) != 1 || f.active[0] != "screen-Object_207" {
		t.Errorf("activated = %v", f.active)
	}

	s.HandlePointer(scene.PointerEvent{Kind: scene.PointerOut})
	if s.Cursor() != scene.CursorDefault {
		t.Error("cursor not reset on pointer out")
	}

	off.Kind = scene.PointerClick
	if !s.HandlePointer(off) {
		t.Error("a click anywhere on the screen stops at the screen")
	}
	if !r.clicked {
		t.Error("a click beside the box toggled it")
	}
}

func TestInteractiveScaleTransition(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	s := newSurface(t, "Object_207", false, Interactive{})
	mount(t, f, s)
	r := s.content.(*interactiveRenderer)
	s.Frame(frameAt(2, high()))

	center := r.hit.Min.Add(r.hit.Size().Div(2))
	click := scene.PointerEvent{
		Kind: scene.PointerClick,
		X:    (float64(center.X) + 0.5) / float64(r.size.X),
		Y:    (float64(center.Y) + 0.5) / float64(r.size.Y),
	}
	s.HandlePointer(click)

	steps := []struct {
		at   float64
		want float64
	}{
		{2, boxIdleScale},
		// Halfway through, ease-out has covered three quarters.
		{2 + boxScaleSeconds/2, boxIdleScale + (boxClickedScale-boxIdleScale)*0.75},
		{2 + boxScaleSeconds, boxClickedScale},
		{3, boxClickedScale},
	}
	for _, st := range steps {
		s.Frame(frameAt(st.at, high()))
		if math.Abs(r.scale-st.want) > 1e-9 {
			t.Errorf("scale at %vs = %v, want %v", st.at, r.scale, st.want)
		}
	}
	if r.scaling {
		t.Error("transition still running after it finished")
	}

	// A click during a transition eases on from the current scale.
	s.HandlePointer(click)
	s.Frame(frameAt(4, high()))
	s.Frame(frameAt(4+boxScaleSeconds/2, high()))
	from := r.scale
	if from <= boxIdleScale || from >= boxClickedScale {
		t.Fatalf("scale halfway back = %v, want between %v and %v", from, boxIdleScale, boxClickedScale)
	}
	s.HandlePointer(click)
	s.Frame(frameAt(4.5, high()))
	if r.scale != from {
		t.Errorf("scale on the reversing frame = %v, want %v", r.scale, from)
	}
	s.Frame(frameAt(4.5+boxScaleSeconds/2, high()))
	if r.scale <= from || r.scale >= boxClickedScale {
		t.Errorf("scale after reversing = %v, want between %v and %v", r.scale, from, boxClickedScale)
	}
	s.Frame(frameAt(5, high()))
	if r.scale != boxClickedScale {
		t.Errorf("scale = %v, want %v", r.scale, boxClickedScale)
	}
}

func TestImageContent(t *testing.T) {
	f := newFixture(t, render.PixmapAllocator{}, false)
	red := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := 0; i < len(red.Pix); i += 4 {
		red.Pix[i], red.Pix[i+3] = 255, 255
	}
	var loaded string
	f.env.LoadImage = func(src string) (image.Image, error) {
		loaded = src
		return red, nil
	}

	s := newSurface(t, "Object_207", false, Image{Source: "demo.png", Link: "https://example.com"})
	mount(t, f, s)
	s.Frame(frameAt(0, high()))

	if loaded != "demo.png" {
		t.Errorf("loaded %q, want demo.png", loaded)
	}
	img := s.Image()
	if c := img.RGBAAt(0, 0); c != render.Glow.RGBA8() {
		t.Errorf("background = %v, want glow", c)
	}
	if c := img.RGBAAt(382, 200); c.R < 240 || c.G > 20 {
		t.Errorf("center = %v, want red", c)
	}

	if !s.HandlePointer(scene.PointerEvent{Kind: scene.PointerOver, X: 0.5, Y: 0.5}) {
		t.Error("hover not consumed")
	}
	if s.Cursor() != scene.CursorPointer {
		t.Error("cursor should be a pointer over an image screen")
	}
	s.HandlePointer(scene.PointerEvent{Kind: scene.PointerClick, X: 0.5, Y: 0.5})
	if len(f.opened) != 1 || f.opened[0] != "https://example.com" {
		t.Errorf("opened = %v", f.opened)
	}
	s.HandlePointer(scene.PointerEvent{Kind: scene.PointerOut})
	if s.Cursor() != scene.CursorDefault {
		t.Error("cursor not reset")
	}
}

func TestPictureRect(t *testing.T) {
	canvas := image.Rect(0, 0, 764, 400)
	ppu := text.DefaultCamera().PixelsPerUnit(400)

	wide := pictureRect(image.Rect(0, 0, 200, 100), canvas, 1)
	if math.Abs(float64(wide.Dy())-8*0.66*ppu) > 1 {
		t.Errorf("wide height = %d, want ~%.1f", wide.Dy(), 8*0.66*ppu)
	}
	if wide.Dx() < 2*wide.Dy()-1 || wide.Dx() > 2*wide.Dy()+1 {
		t.Errorf("wide = %v, want 2:1", wide)
	}

	tall := pictureRect(image.Rect(0, 0, 100, 200), canvas, 1)
	if math.Abs(float64(tall.Dx())-8*0.66*ppu) > 1 {
		t.Errorf("tall width = %d, want ~%.1f", tall.Dx(), 8*0.66*ppu)
	}
	c := tall.Min.Add(tall.Size().Div(2))
	if c.X < 381 || c.X > 382 || c.Y < 199 || c.Y > 200 {
		t.Errorf("tall center = %v, want canvas center", c)
	}

	if !pictureRect(image.Rectangle{}, canvas, 1).Empty() {
		t.Error("empty picture should give an empty rect")
	}
}

func TestLoadImageFileMissing(t *testing.T) {
	if _, err := LoadImageFile("does-not-exist.png"); err == nil {
		t.Error("LoadImageFile(missing) = nil error")
	}
}
