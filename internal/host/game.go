//go:build cgo

package host

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk"
	"github.com/gogpu/retrodesk/quality"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/scene"
	"github.com/gogpu/retrodesk/screen"
)

var background = color.RGBA{0x10, 0x12, 0x14, 0xff}

// Game adapts a scene to ebiten.Game.
type Game struct {
	scene *retrodesk.Scene
	log   *slog.Logger
	grid  Grid

	ids   []string
	index map[string]int

	start    time.Time
	distance float64
	hovered  int
	shape    ebiten.CursorShapeType
}

// NewGame wraps s. The scene is mounted on the first update.
func NewGame(s *retrodesk.Scene, opts Options) *Game {
	opts = opts.withDefaults()
	g := &Game{
		scene:    s,
		log:      opts.Logger,
		distance: opts.Distance,
		hovered:  -1,
		index:    make(map[string]int),
	}
	for i, surf := range s.Screens() {
		g.ids = append(g.ids, surf.ID())
		g.index[surf.ID()] = i
	}
	g.grid = Grid{
		Width:  opts.Width,
		Height: opts.Height,
		Cols:   3,
		Count:  len(g.ids),
		Margin: 16,
		Band:   40,
		Aspect: quality.ProfileFor(quality.High).AspectRatio(),
	}
	return g
}

// Update advances the scene by one frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !g.scene.Mounted() {
		if err := g.scene.Mount(); err != nil {
			return err
		}
		g.start = time.Now()
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.distance = Zoom(g.distance, wy)
	}
	g.pointer()

	nowMs := float64(time.Since(g.start).Microseconds()) / 1000
	g.scene.Frame(nowMs, f32.Vec3{0, 0, float32(g.distance)})
	return nil
}

func (g *Game) pointer() {
	x, y := ebiten.CursorPosition()
	i, u, v, ok := g.grid.Hit(x, y)
	if !ok {
		if g.hovered >= 0 {
			g.scene.PointerLeft()
			g.hovered = -1
		}
		g.setCursor(scene.CursorDefault)
		return
	}

	id := g.ids[i]
	kind := scene.PointerMove
	if i != g.hovered {
		kind = scene.PointerOver
		g.hovered = i
	}
	g.send(id, scene.PointerEvent{Kind: kind, X: u, Y: v})
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.send(id, scene.PointerEvent{Kind: scene.PointerClick, X: u, Y: v})
	}
	g.setCursor(g.scene.Cursor())
}

func (g *Game) send(id string, ev scene.PointerEvent) {
	if _, err := g.scene.HandlePointer(id, ev); err != nil {
		g.log.Warn("pointer event dropped", "screen", id, "kind", ev.Kind, "error", err)
	}
}

func (g *Game) setCursor(c scene.Cursor) {
	shape := ebiten.CursorShapeDefault
	if c == scene.CursorPointer {
		shape = ebiten.CursorShapePointer
	}
	if shape != g.shape {
		ebiten.SetCursorShape(shape)
		g.shape = shape
	}
}

// Draw renders the scene's draw list flat on the grid.
func (g *Game) Draw(dst *ebiten.Image) {
	dst.Fill(background)

	dl := g.scene.Render()
	for _, sd := range dl.Screens {
		i, ok := g.index[sd.ID]
		if !ok {
			continue
		}
		g.drawScreen(dst, g.grid.Panel(i), sd.Items)
	}

	pts := g.grid.Lights(len(dl.LEDs))
	for i, inst := range dl.LEDs {
		p := pts[i]
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), 6, nrgba(inst.Material.Color, 1), true)
	}

	st := g.scene.Stats()
	ebitenutil.DebugPrint(dst, fmt.Sprintf("fps %.0f  tier %s  distance %.1f  targets %d  active %s",
		st.Metrics.SmoothedFPS, st.Tier, g.distance, st.Targets.Entries, st.Active))
}

func (g *Game) drawScreen(dst *ebiten.Image, r image.Rectangle, items []screen.DrawItem) {
	x, y := float32(r.Min.X), float32(r.Min.Y)
	w, h := float32(r.Dx()), float32(r.Dy())
	corner := 0
	for _, it := range items {
		switch it.Layer {
		case screen.LayerFrame:
			vector.DrawFilledRect(dst, x-10, y-10, w+20, h+20, nrgba(it.Material.Color, it.Material.Opacity), false)
		case screen.LayerGlow:
			vector.DrawFilledRect(dst, x-4, y-4, w+8, h+8, nrgba(it.Material.Color, it.Material.Opacity), true)
		case screen.LayerMain:
			t, ok := it.Target.(*ImageTarget)
			if !ok {
				continue
			}
			img := t.Image()
			if img == nil {
				continue
			}
			op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
			op.GeoM.Scale(float64(w)/float64(t.Width()), float64(h)/float64(t.Height()))
			op.GeoM.Translate(float64(x), float64(y))
			dst.DrawImage(img, op)
		case screen.LayerCorner:
			cx, cy := x, y
			if corner%2 == 1 {
				cx += w
			}
			if corner >= 2 {
				cy += h
			}
			vector.DrawFilledCircle(dst, cx, cy, 5, nrgba(it.Material.Color, it.Material.Opacity), true)
			corner++
		}
	}
}

// Layout reports the configured window size as the logical screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.grid.Width, g.grid.Height
}

func nrgba(c render.Color, opacity float32) color.NRGBA {
	v := c.RGBA8()
	a := c.A * opacity
	return color.NRGBA{R: v.R, G: v.G, B: v.B, A: uint8(min(max(a, 0), 1)*255 + 0.5)}
}

var _ ebiten.Game = (*Game)(nil)
