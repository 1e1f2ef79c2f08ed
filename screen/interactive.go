package screen

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"github.com/gogpu/retrodesk/kernel"
	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/scene"
)

// Spinning box of the interactive screen.
const (
	boxScale        = 0.5
	boxIdleScale    = 1.2
	boxClickedScale = 1.4

	// boxScaleSeconds is the length of the scale change after a click.
	boxScaleSeconds = 0.25

	interactiveCameraZ = 10
	interactiveFOV     = 75 * math.Pi / 180
)

var (
	boxPosition = f32.Vec3{-3.15, 0.75, 0}

	boxColor      = render.MustParseColor("indianred")
	boxHoverColor = render.MustParseColor("hotpink")

	// lightDir points from the box toward the key light.
	lightDir = f32.Vec3{0.57735, 0.57735, 0.57735}
)

var cubeCorners = []f32.Vec3{
	{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
	{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
}

// cubeFaces are wound counter-clockwise seen from outside.
var cubeFaces = [6]struct {
	corners [4]int
	normal  f32.Vec3
}{
	{[4]int{4, 5, 6, 7}, f32.Vec3{0, 0, 1}},
	{[4]int{1, 0, 3, 2}, f32.Vec3{0, 0, -1}},
	{[4]int{5, 1, 2, 6}, f32.Vec3{1, 0, 0}},
	{[4]int{0, 4, 7, 3}, f32.Vec3{-1, 0, 0}},
	{[4]int{7, 6, 2, 3}, f32.Vec3{0, 1, 0}},
	{[4]int{0, 1, 5, 4}, f32.Vec3{0, -1, 0}},
}

type interactiveRenderer struct {
	background color.RGBA

	angle   float64
	last    float64
	started bool

	hovered bool
	clicked bool

	// scale eases from scaleFrom to scaleTo, starting at the first frame
	// after a click.
	scale     float64
	scaleFrom float64
	scaleTo   float64
	scaleAt   float64
	scaling   bool
	rescale   bool

	// hit bounds the box in canvas pixels as of the last paint.
	hit  image.Rectangle
	size image.Point

	raster vector.Rasterizer
}

func (r *interactiveRenderer) mount(*Surface) error {
	r.scale = boxIdleScale
	return nil
}

func (r *interactiveRenderer) unmount(*Surface) {}

// frame spins the box by the time since the previous frame. The box
// moves every frame, so the canvas is always repainted.
func (r *interactiveRenderer) frame(_ *Surface, ft scene.FrameTime, dst *image.RGBA, _ bool) bool {
	if r.started {
		r.angle += ft.Elapsed - r.last
	}
	r.last = ft.Elapsed
	r.started = true

	if r.scaling {
		if r.rescale {
			r.scaleAt = ft.Elapsed
			r.rescale = false
		}
		r.scale = r.scaleSince(ft.Elapsed - r.scaleAt)
	}

	r.paint(dst)
	return true
}

// scaleSince samples the click transition t seconds after it started.
func (r *interactiveRenderer) scaleSince(t float64) float64 {
	if t >= boxScaleSeconds {
		r.scaling = false
		return r.scaleTo
	}
	out, err := kernel.Interpolate(kernel.InterpolateInput{
		Keyframes: []kernel.Keyframe{
			{Time: 0, Values: map[string]float64{"scale": r.scaleFrom}},
			{Time: 1, Values: map[string]float64{"scale": r.scaleTo}},
		},
		Time:     max(t, 0),
		Duration: boxScaleSeconds,
		Easing:   kernel.EaseOutQuad,
	})
	if err != nil {
		r.scaling = false
		return r.scaleTo
	}
	return out.Values["scale"]
}

func (r *interactiveRenderer) paint(dst *image.RGBA) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(r.background), image.Point{}, draw.Src)
	r.size = b.Size()
	w, h := float32(b.Dx()), float32(b.Dy())
	if w == 0 || h == 0 {
		return
	}

	scale := float32(boxScale * r.scale)
	a := float32(r.angle)
	model := mesh.Placement{
		Position: boxPosition,
		Rotation: f32.Vec3{a, a, 0},
		Scale:    mesh.Uniform(scale),
	}
	view := mesh.Translation(f32.Vec3{0, 0, -interactiveCameraZ})
	proj := mesh.Perspective(interactiveFOV, w/h, 0.1, 1000)
	mvp := mesh.Mul(proj, mesh.Mul(view, model.Matrix()))

	ndc, _ := kernel.VertexTransform(kernel.VertexInput{Matrix: mvp, Points: cubeCorners})
	normals, _ := kernel.VertexTransform(kernel.VertexInput{Matrix: model.RotationMatrix(), Points: faceNormals()})

	px := make([]f32.Vec2, len(ndc.Points))
	r.hit = image.Rectangle{}
	for i, p := range ndc.Points {
		px[i] = f32.Vec2{(p[0] + 1) / 2 * w, (1 - p[1]) / 2 * h}
		pt := image.Rect(int(px[i][0]), int(px[i][1]), int(px[i][0])+1, int(px[i][1])+1)
		if i == 0 {
			r.hit = pt
		} else {
			r.hit = r.hit.Union(pt)
		}
	}

	base := boxColor
	if r.hovered {
		base = boxHoverColor
	}

	for i, face := range cubeFaces {
		if signedArea(ndc.Points, face.corners) <= 0 {
			continue
		}
		n := normals.Points[i]
		light := max(0, n[0]*lightDir[0]+n[1]*lightDir[1]+n[2]*lightDir[2])
		shade := base.Scale(0.55 + 0.45*light)
		shade.A = 1

		r.raster.Reset(b.Dx(), b.Dy())
		r.raster.DrawOp = draw.Over
		c := face.corners
		r.raster.MoveTo(px[c[0]][0], px[c[0]][1])
		for _, k := range c[1:] {
			r.raster.LineTo(px[k][0], px[k][1])
		}
		r.raster.ClosePath()
		r.raster.Draw(dst, b, image.NewUniform(shade.RGBA8()), image.Point{})
	}
}

// signedArea is twice the area of the projected face, positive when the
// face is wound counter-clockwise in y-up device coordinates.
func signedArea(pts []f32.Vec3, idx [4]int) float32 {
	var a float32
	for i := range idx {
		p, q := pts[idx[i]], pts[idx[(i+1)%len(idx)]]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a
}

func faceNormals() []f32.Vec3 {
	n := make([]f32.Vec3, len(cubeFaces))
	for i, f := range cubeFaces {
		n[i] = f.normal
	}
	return n
}

func (r *interactiveRenderer) inside(ev scene.PointerEvent) bool {
	p := image.Pt(int(ev.X*float64(r.size.X)), int(ev.Y*float64(r.size.Y)))
	return p.In(r.hit)
}

func (r *interactiveRenderer) pointer(_ *Surface, ev scene.PointerEvent) bool {
	switch ev.Kind {
	case scene.PointerOut:
		r.hovered = false
		return false
	case scene.PointerClick:
		if !r.inside(ev) {
			return false
		}
		r.clicked = !r.clicked
		r.scaleFrom, r.scaleTo = r.scale, boxIdleScale
		if r.clicked {
			r.scaleTo = boxClickedScale
		}
		r.scaling, r.rescale = true, true
		return true
	default:
		r.hovered = r.inside(ev)
		return r.hovered
	}
}

func (r *interactiveRenderer) cursor() scene.Cursor {
	if r.hovered {
		return scene.CursorPointer
	}
	return scene.CursorDefault
}
