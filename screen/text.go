package screen

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/gogpu/retrodesk/compute"
	"github.com/gogpu/retrodesk/kernel"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/scene"
	"github.com/gogpu/retrodesk/text"
)

// Text layout of the screens, in content units.
const (
	textLetterSpacing = -0.1
	textMaxWidth      = 30
)

type textRenderer struct {
	cfg    Text
	animID string

	block text.Block
	fg    color.RGBA
	bg    color.RGBA

	seed    float64
	x       float64
	painted bool

	// pending is the drift request in flight on the bridge.
	pending   *compute.Future[kernel.TextOutput]
	pendingIn kernel.TextInput
}

func (r *textRenderer) mount(s *Surface) error {
	r.block = s.env.Text.Layout(r.cfg.Content, text.Style{
		Size:          r.cfg.FontSize,
		LetterSpacing: textLetterSpacing,
		MaxWidth:      textMaxWidth,
	})

	r.fg, r.bg = render.Black.RGBA8(), render.Glow.RGBA8()
	if r.cfg.Invert {
		r.fg, r.bg = r.bg, r.fg
	}

	r.x = r.cfg.X
	r.seed = rand.Float64() * 10000
	r.painted = false

	if r.cfg.Animated {
		r.animID = "text-" + uuid.NewString()
		s.env.Scheduler.Register(r.animID, s.env.Priority().Text)
	}
	return nil
}

func (r *textRenderer) unmount(s *Surface) {
	if r.cfg.Animated {
		s.env.Scheduler.Unregister(r.animID)
	}
	// A reply still in flight belongs to a screen that is gone.
	r.pending = nil
}

func (r *textRenderer) frame(s *Surface, ft scene.FrameTime, dst *image.RGBA, force bool) bool {
	moved := false

	if r.pending != nil && r.pending.Ready() {
		moved = r.settle(s, r.pending, r.pendingIn)
		r.pending = nil
	}

	if r.cfg.Animated && s.env.Scheduler.ShouldUpdate(r.animID) {
		in := kernel.TextInput{BaseX: r.cfg.X, Seed: r.seed, Time: ft.Elapsed}
		switch {
		case !s.env.TextDrift.IsAvailable():
			out, _ := kernel.TextOffset(in)
			moved = r.setX(out.X) || moved
		case r.pending != nil:
			// One request in flight; updates are skipped, not queued.
		default:
			fut := s.env.TextDrift.Submit(in)
			if fut.Ready() {
				moved = r.settle(s, fut, in) || moved
			} else {
				r.pending, r.pendingIn = fut, in
			}
		}
	}

	if !moved && !force && r.painted {
		return false
	}
	r.paint(s, dst)
	return true
}

// settle applies a finished drift result, recomputing locally if the
// bridge rejected it.
func (r *textRenderer) settle(s *Surface, fut *compute.Future[kernel.TextOutput], in kernel.TextInput) bool {
	out, err := fut.Result()
	if err != nil {
		s.log.Warn("text drift fell back to local computation", "error", err)
		out, _ = kernel.TextOffset(in)
	}
	return r.setX(out.X)
}

func (r *textRenderer) setX(x float64) bool {
	if x == r.x {
		return false
	}
	r.x = x
	return true
}

func (r *textRenderer) paint(s *Surface, dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.bg), image.Point{}, draw.Src)
	s.env.Text.Font().Draw(dst, r.block, r.x, r.cfg.Y, text.DefaultCamera(), r.fg)
	r.painted = true
}

func (r *textRenderer) pointer(*Surface, scene.PointerEvent) bool { return false }
func (r *textRenderer) cursor() scene.Cursor                      { return scene.CursorDefault }
