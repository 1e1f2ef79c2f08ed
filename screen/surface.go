package screen

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gogpu/retrodesk/cache"
	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/quality"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/scene"
)

var (
	// ErrInvalidDef is returned by New for an incomplete definition.
	ErrInvalidDef = errors.New("screen: invalid definition")

	// ErrMounted is returned by Mount on a mounted surface.
	ErrMounted = errors.New("screen: already mounted")

	// ErrNotMounted is returned by Present on an unmounted surface.
	ErrNotMounted = errors.New("screen: not mounted")
)

// Def describes one screen.
type Def struct {
	// Frame and Panel name the mesh templates of the monitor.
	Frame string
	Panel string

	Placement mesh.Placement

	// CustomEffect adds the animated scanline overlay.
	CustomEffect bool

	Tuning  Tuning
	Content Content
}

// Surface is a mounted monitor screen.
type Surface struct {
	def    Def
	id     string
	owner  string
	animID string

	env *scene.Env
	log *slog.Logger

	frame   mesh.Template
	layout  Layout
	lease   *cache.Lease
	profile quality.Profile

	// canvas holds the painted content, out the content with the
	// scanline applied.
	canvas *image.RGBA
	out    *image.RGBA

	content  renderer
	scanTime float64

	// rejected is a profile whose target could not be allocated.
	rejected quality.Profile

	mounted bool
	dirty   bool
	stale   bool
	uploads int
}

var _ scene.Element = (*Surface)(nil)
var _ scene.PointerHandler = (*Surface)(nil)

// New validates def and returns an unmounted surface.
func New(def Def) (*Surface, error) {
	if def.Frame == "" || def.Panel == "" {
		return nil, fmt.Errorf("%w: frame and panel are required", ErrInvalidDef)
	}
	if def.Content == nil {
		return nil, fmt.Errorf("%w: no content", ErrInvalidDef)
	}
	if err := def.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDef, err)
	}
	if def.Placement.Scale == (mesh.Placement{}).Scale {
		def.Placement.Scale = mesh.Uniform(1)
	}
	instance := uuid.NewString()
	return &Surface{
		def:    def,
		id:     "screen-" + def.Panel,
		owner:  "screen-" + def.Panel + "-" + instance,
		animID: "scanline-" + def.Panel + "-" + instance,
	}, nil
}

// ID returns the name of the surface, derived from its panel. Surfaces
// built from the same panel share it.
func (s *Surface) ID() string { return s.id }

// Owner returns the id the surface leases its render target under. It is
// unique per surface.
func (s *Surface) Owner() string { return s.owner }

// AnimationID returns the scheduler id of the scanline phase.
func (s *Surface) AnimationID() string { return s.animID }

// Def returns the definition the surface was created from.
func (s *Surface) Def() Def { return s.def }

// Layout returns the measured screen geometry. It is zero until mounted.
func (s *Surface) Layout() Layout { return s.layout }

// Profile returns the quality profile of the current target.
func (s *Surface) Profile() quality.Profile { return s.profile }

// Mounted reports whether the surface is mounted.
func (s *Surface) Mounted() bool { return s.mounted }

// Lease returns the current render-target lease, or nil when unmounted.
func (s *Surface) Lease() *cache.Lease { return s.lease }

// Uploads returns the number of target uploads since mount.
func (s *Surface) Uploads() int { return s.uploads }

// Mount checks the mesh templates, leases a render target at the current
// profile's resolution and registers the scanline phase.
// A failed target allocation is returned as is; the scene cannot render
// without it.
func (s *Surface) Mount(env *scene.Env) error {
	if s.mounted {
		return ErrMounted
	}
	if err := env.Meshes.Require(s.def.Frame, s.def.Panel); err != nil {
		return fmt.Errorf("%s: %w", s.id, err)
	}
	frame, _ := env.Meshes.Template(s.def.Frame)
	panel, _ := env.Meshes.Template(s.def.Panel)

	s.env = env
	s.log = env.Log().With("screen", s.id)
	s.frame = frame
	s.layout = NewLayout(panel.Bounds, s.def.Tuning)

	profile := env.Quality.Profile()
	lease, err := s.acquire(profile)
	if err != nil {
		return fmt.Errorf("%s: acquire render target: %w", s.id, err)
	}
	s.setTarget(lease, profile)

	if s.def.CustomEffect {
		env.Scheduler.Register(s.animID, env.Priority().Scanline)
	}

	s.content = s.def.Content.newRenderer()
	if err := s.content.mount(s); err != nil {
		if s.def.CustomEffect {
			env.Scheduler.Unregister(s.animID)
		}
		s.lease.Release()
		s.lease = nil
		return fmt.Errorf("%s: %w", s.id, err)
	}

	s.mounted = true
	s.uploads = 0
	s.log.Debug("screen mounted", "target", lease.Key, "shared", lease.Shared())
	return nil
}

// Frame advances the surface by one frame.
func (s *Surface) Frame(ft scene.FrameTime) {
	if !s.mounted {
		return
	}

	force := false
	if ft.Profile != s.profile && ft.Profile != s.rejected && ft.Profile.Validate() == nil {
		force = s.retarget(ft.Profile)
	}

	if s.def.CustomEffect && s.env.Scheduler.ShouldUpdate(s.animID) {
		s.scanTime = ft.Elapsed * 2
		s.dirty = true
	}

	if s.content.frame(s, ft, s.canvas, force) || force {
		s.dirty = true
	}
}

// Present uploads the latest content to the render target and returns the
// target. Shared targets are uploaded on every call, since another screen
// may have written to the target since.
func (s *Surface) Present() (render.Target, error) {
	if !s.mounted {
		return nil, ErrNotMounted
	}

	if s.dirty {
		if s.def.CustomEffect {
			intensity := float64(s.env.Materials.Scanline.EmissiveIntensity)
			render.ApplyScanline(s.out, s.canvas, s.scanTime, intensity)
		}
		s.dirty = false
		s.stale = true
	}

	target := s.lease.Target
	if s.stale || s.lease.Shared() {
		if err := target.Upload(s.output()); err != nil {
			return nil, fmt.Errorf("%s: upload: %w", s.id, err)
		}
		s.stale = false
		s.uploads++
	}
	return target, nil
}

// Image returns the image Present uploads.
func (s *Surface) Image() *image.RGBA {
	if !s.mounted {
		return nil
	}
	return s.output()
}

// Unmount unregisters the scanline phase and releases the target. The
// target itself stays in the cache for other screens or a later mount.
func (s *Surface) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false

	s.content.unmount(s)
	if s.def.CustomEffect {
		s.env.Scheduler.Unregister(s.animID)
	}
	s.lease.Release()
	s.lease = nil
	s.canvas, s.out = nil, nil
	s.log.Debug("screen unmounted")
}

// HandlePointer forwards ev to the content. Clicks always stop at the
// screen and mark it active.
func (s *Surface) HandlePointer(ev scene.PointerEvent) bool {
	if !s.mounted {
		return false
	}
	consumed := s.content.pointer(s, ev)
	if ev.Kind == scene.PointerClick {
		if s.env.Activate != nil {
			s.env.Activate(s.id)
		}
		return true
	}
	return consumed
}

// Cursor returns the cursor the content asks for.
func (s *Surface) Cursor() scene.Cursor {
	if !s.mounted {
		return scene.CursorDefault
	}
	return s.content.cursor()
}

func (s *Surface) acquire(p quality.Profile) (*cache.Lease, error) {
	spec := cache.Spec{Width: p.TextureWidth, Height: p.TextureHeight, Anisotropy: p.Anisotropy}
	return s.env.Targets.Acquire(spec, s.owner, s.env.CacheTargets)
}

func (s *Surface) setTarget(lease *cache.Lease, p quality.Profile) {
	s.lease = lease
	s.profile = p
	s.canvas = image.NewRGBA(image.Rect(0, 0, p.TextureWidth, p.TextureHeight))
	if s.def.CustomEffect {
		s.out = image.NewRGBA(s.canvas.Rect)
	}
	s.dirty = true
}

// retarget moves the surface to a target for p. The new target is leased
// before the old one is released. On failure the old target is kept.
func (s *Surface) retarget(p quality.Profile) bool {
	if cache.Key(p.TextureWidth, p.TextureHeight, p.Anisotropy) == s.lease.Key {
		s.profile = p
		return false
	}
	lease, err := s.acquire(p)
	if err != nil {
		s.log.Warn("keeping render target after failed reallocation",
			"from", s.lease.Key, "error", err)
		s.rejected = p
		return false
	}
	old := s.lease
	s.setTarget(lease, p)
	old.Release()
	s.log.Debug("screen retargeted", "from", old.Key, "to", lease.Key)
	return true
}

func (s *Surface) output() *image.RGBA {
	if s.def.CustomEffect {
		return s.out
	}
	return s.canvas
}
