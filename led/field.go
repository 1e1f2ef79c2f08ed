package led

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk/compute"
	"github.com/gogpu/retrodesk/kernel"
	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/scene"
)

const (
	// DefaultTemplate is the mesh template instanced for every light.
	DefaultTemplate = "Sphere"

	// DefaultScale is the uniform scale of a light.
	DefaultScale = 0.005
)

var (
	// DefaultBase is the blink color. Only its green and blue channels
	// reach a lit LED.
	DefaultBase = f32.Vec3{1, 1.1, 1}

	// initialColor is shown until the first blink update.
	initialColor = render.Color{R: 1, G: 2, B: 1, A: 1}
)

var (
	// ErrInvalidField is returned by New for a bad option.
	ErrInvalidField = errors.New("led: invalid field")

	// ErrMounted is returned by Mount on a mounted field.
	ErrMounted = errors.New("led: already mounted")
)

// Option configures a Field.
type Option func(*Field)

// WithBase sets the blink color.
func WithBase(base f32.Vec3) Option {
	return func(f *Field) {
		f.base = base
	}
}

// WithTemplate sets the mesh template instanced for every light.
func WithTemplate(name string) Option {
	return func(f *Field) {
		f.template = name
	}
}

// WithScale sets the uniform scale of a light.
func WithScale(s float32) Option {
	return func(f *Field) {
		f.scale = s
	}
}

// Instance is one light ready to draw.
type Instance struct {
	Template  string
	Placement mesh.Placement
	Material  render.Material
}

// Field is a set of blinking lights.
//
// Mount, Frame, Unmount and Instances must be called from the frame loop.
type Field struct {
	positions []f32.Vec3
	base      f32.Vec3
	template  string
	scale     float32

	env    *scene.Env
	log    *slog.Logger
	animID string

	colors  []render.Color
	mounted bool
	updates int

	pending   *compute.Future[kernel.LEDOutput]
	pendingIn kernel.LEDInput
}

var _ scene.Element = (*Field)(nil)

// New creates a field with a light at each position.
func New(positions []f32.Vec3, opts ...Option) (*Field, error) {
	f := &Field{
		positions: slices.Clone(positions),
		base:      DefaultBase,
		template:  DefaultTemplate,
		scale:     DefaultScale,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.template == "" {
		return nil, fmt.Errorf("%w: no template", ErrInvalidField)
	}
	if !(f.scale > 0) {
		return nil, fmt.Errorf("%w: scale %v", ErrInvalidField, f.scale)
	}
	return f, nil
}

// Len returns the number of lights.
func (f *Field) Len() int { return len(f.positions) }

// AnimationID returns the scheduler id of the field.
func (f *Field) AnimationID() string { return f.animID }

// Mounted reports whether the field is mounted.
func (f *Field) Mounted() bool { return f.mounted }

// Updates returns how many blink updates were applied since Mount.
func (f *Field) Updates() int { return f.updates }

// Mount checks the light template and registers the blink phase.
func (f *Field) Mount(env *scene.Env) error {
	if f.mounted {
		return ErrMounted
	}
	if err := env.Meshes.Require(f.template); err != nil {
		return fmt.Errorf("led: %w", err)
	}

	f.env = env
	f.animID = "leds-" + uuid.NewString()
	f.log = env.Log().With("element", f.animID)
	f.colors = make([]render.Color, len(f.positions))
	for i := range f.colors {
		f.colors[i] = initialColor
	}
	f.updates = 0

	env.Scheduler.Register(f.animID, env.Priority().LED)
	f.mounted = true
	f.log.Debug("led field mounted", "lights", len(f.positions))
	return nil
}

// Frame applies a finished blink update and, when the scheduler allows,
// starts the next one.
func (f *Field) Frame(ft scene.FrameTime) {
	if !f.mounted {
		return
	}

	if f.pending != nil && f.pending.Ready() {
		f.settle(f.pending, f.pendingIn)
		f.pending = nil
	}

	if !f.env.Scheduler.ShouldUpdate(f.animID) {
		return
	}

	in := kernel.LEDInput{Positions: f.positions, Time: ft.Elapsed, Base: f.base}
	if !f.env.LEDBlink.IsAvailable() {
		out, _ := kernel.LEDColors(in)
		f.apply(out)
		return
	}
	// One request in flight at a time; a slow worker skips updates
	// rather than queueing them.
	if f.pending != nil {
		return
	}
	fut := f.env.LEDBlink.Submit(in)
	if fut.Ready() {
		f.settle(fut, in)
		return
	}
	f.pending, f.pendingIn = fut, in
}

func (f *Field) settle(fut *compute.Future[kernel.LEDOutput], in kernel.LEDInput) {
	out, err := fut.Result()
	if err != nil {
		f.log.Warn("led colors fell back to local computation", "error", err)
		out, _ = kernel.LEDColors(in)
	}
	f.apply(out)
}

func (f *Field) apply(out kernel.LEDOutput) {
	for i, c := range out.Colors {
		if i >= len(f.colors) {
			break
		}
		f.colors[i] = render.Color{R: c[0], G: c[1], B: c[2], A: 1}
	}
	f.updates++
}

// Colors returns a copy of the current light colors.
func (f *Field) Colors() []render.Color {
	return slices.Clone(f.colors)
}

// Instances returns the lights to draw, nil when unmounted.
func (f *Field) Instances() []Instance {
	if !f.mounted {
		return nil
	}
	base := f.env.Materials.LED
	out := make([]Instance, len(f.positions))
	for i, p := range f.positions {
		m := base
		m.Color = f.colors[i]
		out[i] = Instance{
			Template: f.template,
			Placement: mesh.Placement{
				Position: p,
				Scale:    mesh.Uniform(f.scale),
			},
			Material: m,
		}
	}
	return out
}

// Unmount unregisters the blink phase. A reply still in flight is dropped.
func (f *Field) Unmount() {
	if !f.mounted {
		return
	}
	f.mounted = false
	f.env.Scheduler.Unregister(f.animID)
	f.pending = nil
	f.log.Debug("led field unmounted", "updates", f.updates)
}
