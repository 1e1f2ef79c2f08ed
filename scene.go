package retrodesk

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk/anim"
	"github.com/gogpu/retrodesk/cache"
	"github.com/gogpu/retrodesk/compute"
	"github.com/gogpu/retrodesk/config"
	"github.com/gogpu/retrodesk/kernel"
	"github.com/gogpu/retrodesk/led"
	"github.com/gogpu/retrodesk/perf"
	"github.com/gogpu/retrodesk/quality"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/scene"
	"github.com/gogpu/retrodesk/screen"
	"github.com/gogpu/retrodesk/text"
)

var (
	// ErrMounted is returned by Mount on a mounted scene.
	ErrMounted = errors.New("retrodesk: scene already mounted")

	// ErrClosed is returned by Mount after Close.
	ErrClosed = errors.New("retrodesk: scene closed")

	// ErrUnknownScreen is returned by HandlePointer for an id that names
	// no screen.
	ErrUnknownScreen = errors.New("retrodesk: unknown screen")
)

// Scene is the desk: its screens, its status lights and the shared
// machinery that paces them.
//
// Every method must be called from the host's frame loop.
type Scene struct {
	log *slog.Logger

	sampler   *perf.Sampler
	selector  *quality.Selector
	scheduler *anim.Scheduler
	targets   *cache.TargetCache
	textDrift *compute.Bridge[kernel.TextInput, kernel.TextOutput]
	ledBlink  *compute.Bridge[kernel.LEDInput, kernel.LEDOutput]
	env       *scene.Env

	screens  []*screen.Surface
	byID     map[string]*screen.Surface
	leds     *led.Field
	elements []scene.Element

	mounted bool
	closed  bool
	started bool
	startMs float64

	last    scene.FrameTime
	active  string
	hovered *screen.Surface
}

// New builds a scene from cfg, allocating render targets with alloc.
// A nil cfg means config.Default().
func New(cfg *config.Config, alloc render.Allocator, opts ...Option) (*Scene, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	meshes := o.meshes
	if meshes == nil {
		lib, err := cfg.Library()
		if err != nil {
			return nil, err
		}
		meshes = lib
	}
	font := o.font
	if font == nil {
		f, err := text.DefaultFont()
		if err != nil {
			return nil, err
		}
		font = f
	}
	selector, err := cfg.Selector()
	if err != nil {
		return nil, err
	}

	s := &Scene{
		log:      log,
		sampler:  perf.NewSampler(),
		selector: selector,
		byID:     make(map[string]*screen.Surface, len(cfg.Screens)),
	}
	s.scheduler = anim.NewScheduler(s.sampler)

	cacheOpts := []cache.Option{
		cache.WithGracePeriod(cfg.Performance.GracePeriod),
		cache.WithLogger(log.With("component", "cache")),
	}
	if o.clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(o.clock))
	}
	s.targets = cache.New(alloc, cacheOpts...)

	isolated := cfg.Performance.Isolation
	if o.isolation != nil {
		isolated = *o.isolation
	}
	s.textDrift = compute.New(kernel.TextOffset,
		compute.WithIsolation(isolated),
		compute.WithName("text-drift"),
		compute.WithLogger(log))
	s.ledBlink = compute.New(kernel.LEDColors,
		compute.WithIsolation(isolated),
		compute.WithName("led-blink"),
		compute.WithLogger(log))

	s.env = &scene.Env{
		Metrics:      s.sampler,
		Quality:      selector,
		Scheduler:    s.scheduler,
		Targets:      s.targets,
		Meshes:       meshes,
		Materials:    render.NewMaterials(cfg.Glow),
		Text:         text.NewLayouter(font, 0),
		TextDrift:    s.textDrift,
		LEDBlink:     s.ledBlink,
		Priorities:   cfg.Performance.Priorities,
		CacheTargets: cfg.Performance.CacheScreens,
		LoadImage:    o.loadImage,
		OpenLink:     o.openLink,
		Activate:     s.activate,
		Logger:       log,
	}

	for _, sc := range cfg.Screens {
		def, err := sc.Def(cfg.Tuning)
		if err != nil {
			s.shutdown()
			return nil, err
		}
		surf, err := screen.New(def)
		if err != nil {
			s.shutdown()
			return nil, err
		}
		s.screens = append(s.screens, surf)
		s.byID[surf.ID()] = surf
		s.elements = append(s.elements, surf)
	}

	leds, err := cfg.LEDs.Field()
	if err != nil {
		s.shutdown()
		return nil, err
	}
	s.leds = leds
	s.elements = append(s.elements, leds)
	return s, nil
}

// Mount mounts every element. When one fails, the elements mounted
// before it are unmounted again and the error is returned.
func (s *Scene) Mount() error {
	switch {
	case s.closed:
		return ErrClosed
	case s.mounted:
		return ErrMounted
	}
	if err := s.env.Validate(); err != nil {
		return err
	}

	for i, el := range s.elements {
		if err := el.Mount(s.env); err != nil {
			for j := i - 1; j >= 0; j-- {
				s.elements[j].Unmount()
			}
			return fmt.Errorf("retrodesk: mount: %w", err)
		}
	}
	s.mounted = true
	s.started = false
	s.log.Info("scene mounted",
		"screens", len(s.screens),
		"lights", s.leds.Len(),
		"tier", s.selector.Current(),
		"isolated", s.textDrift.IsAvailable())
	return nil
}

// Frame runs one update pass at nowMs with the camera at camera: the
// sampler ticks first, then the quality tier is selected, then every
// element advances.
func (s *Scene) Frame(nowMs float64, camera f32.Vec3) {
	if !s.mounted {
		return
	}
	if !s.started {
		s.started = true
		s.startMs = nowMs
	}

	metrics := s.sampler.Tick(nowMs)
	tier, changed := s.selector.Update(camera)
	if changed {
		s.log.Debug("quality tier changed", "tier", tier, "distance", quality.Distance(camera))
	}

	ft := scene.FrameTime{
		NowMs:   nowMs,
		Elapsed: (nowMs - s.startMs) / 1000,
		Metrics: metrics,
		Tier:    tier,
		Profile: s.selector.Profile(),
	}
	for _, el := range s.elements {
		el.Frame(ft)
	}
	s.last = ft
}

// ScreenDraw is the draw list of one screen.
type ScreenDraw struct {
	ID    string
	Items []screen.DrawItem
}

// DrawList is everything to draw for one frame.
type DrawList struct {
	Screens []ScreenDraw
	LEDs    []led.Instance
}

// Render uploads the screen contents that changed and returns the draw
// list. A screen whose upload fails is left out of the list.
func (s *Scene) Render() DrawList {
	var dl DrawList
	if !s.mounted {
		return dl
	}
	dl.Screens = make([]ScreenDraw, 0, len(s.screens))
	for _, surf := range s.screens {
		if _, err := surf.Present(); err != nil {
			s.log.Warn("screen skipped", "screen", surf.ID(), "error", err)
			continue
		}
		dl.Screens = append(dl.Screens, ScreenDraw{ID: surf.ID(), Items: surf.DrawList()})
	}
	dl.LEDs = s.leds.Instances()
	return dl
}

// HandlePointer routes a pointer event that hit the screen id. Leaving a
// screen delivers PointerOut to the screen that was under the pointer.
// It reports whether the screen consumed the event.
func (s *Scene) HandlePointer(id string, ev scene.PointerEvent) (bool, error) {
	surf, ok := s.byID[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownScreen, id)
	}
	if s.hovered != nil && s.hovered != surf {
		s.hovered.HandlePointer(scene.PointerEvent{Kind: scene.PointerOut})
	}
	s.hovered = surf
	if ev.Kind == scene.PointerOut {
		s.hovered = nil
	}
	return surf.HandlePointer(ev), nil
}

// PointerLeft tells the scene that the pointer is over no screen.
func (s *Scene) PointerLeft() {
	if s.hovered != nil {
		s.hovered.HandlePointer(scene.PointerEvent{Kind: scene.PointerOut})
		s.hovered = nil
	}
}

// Cursor returns the cursor the hovered screen asks for.
func (s *Scene) Cursor() scene.Cursor {
	if s.hovered == nil {
		return scene.CursorDefault
	}
	return s.hovered.Cursor()
}

// Active returns the id of the most recently clicked screen.
func (s *Scene) Active() string {
	return s.active
}

func (s *Scene) activate(id string) {
	if id != s.active {
		s.log.Debug("screen activated", "screen", id)
	}
	s.active = id
}

// Screens returns the screens in configuration order.
func (s *Scene) Screens() []*screen.Surface {
	return s.screens
}

// Screen returns the screen with owner id id.
func (s *Scene) Screen(id string) (*screen.Surface, bool) {
	surf, ok := s.byID[id]
	return surf, ok
}

// LEDs returns the status lights.
func (s *Scene) LEDs() *led.Field {
	return s.leds
}

// Mounted reports whether the scene is mounted.
func (s *Scene) Mounted() bool {
	return s.mounted
}

// Unmount unmounts every element in reverse order and clears the
// scheduler. Render targets stay in the cache for their grace period,
// so a quick remount reuses them.
func (s *Scene) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	for i := len(s.elements) - 1; i >= 0; i-- {
		s.elements[i].Unmount()
	}
	s.scheduler.Reset()
	s.hovered = nil
	s.log.Info("scene unmounted", "frames", s.sampler.Snapshot().FrameCount)
}

// Close unmounts the scene, stops the compute workers and disposes every
// render target. Close is idempotent.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.Unmount()
	s.shutdown()
	s.closed = true
}

func (s *Scene) shutdown() {
	s.textDrift.Close()
	s.ledBlink.Close()
	s.targets.Close()
}
