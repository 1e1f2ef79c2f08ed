package screen

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/render"
)

// Layer is the role of a draw item.
type Layer int

const (
	LayerFrame Layer = iota
	LayerGlow
	LayerMain
	LayerScanline
	LayerCorner
)

var layerNames = [...]string{"frame", "glow", "main", "scanline", "corner"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return "unknown"
	}
	return layerNames[l]
}

// DrawItem is one mesh of a screen, in the screen's local space.
type DrawItem struct {
	Layer Layer

	// Template names the mesh template. Corner pieces are generated
	// quarter spheres and leave it empty.
	Template string

	Placement mesh.Placement
	Material  render.Material

	// Target is the content texture of the main layer.
	Target render.Target

	// Time drives the scanline shader.
	Time float64

	// Segments and Arc describe a corner sphere.
	Segments int
	Arc      float32
}

// screenMaterial is the unlit material of the main layer.
var screenMaterial = render.Material{
	Name:    "screen",
	Shader:  render.ShaderUnlit,
	Color:   render.White,
	Opacity: 1,
}

// DrawList returns the meshes of the screen in draw order. The list is
// empty while the surface is unmounted.
func (s *Surface) DrawList() []DrawItem {
	if !s.mounted {
		return nil
	}

	t := s.layout.Tuning
	y := t.YAdjustment
	sc := t.Scale
	mats := s.env.Materials

	items := make([]DrawItem, 0, 8)
	items = append(items,
		DrawItem{
			Layer:     LayerFrame,
			Template:  s.def.Frame,
			Placement: mesh.At(f32.Vec3{}),
			Material:  s.frame.Material,
		},
		DrawItem{
			Layer:    LayerGlow,
			Template: s.def.Panel,
			Placement: mesh.Placement{
				Position: f32.Vec3{0, y, t.Z.Glow},
				Scale:    f32.Vec3{sc, sc, t.GlowDepth},
			},
			Material: mats.Glow,
		},
		DrawItem{
			Layer:    LayerMain,
			Template: s.def.Panel,
			Placement: mesh.Placement{
				Position: f32.Vec3{0, y, t.Z.Main},
				Scale:    mesh.Uniform(sc),
			},
			Material: screenMaterial,
			Target:   s.lease.Target,
		},
	)

	if s.def.CustomEffect {
		items = append(items, DrawItem{
			Layer:    LayerScanline,
			Template: s.def.Panel,
			Placement: mesh.Placement{
				Position: f32.Vec3{0, y, t.Z.Main + t.ScanlineLift},
				Scale:    mesh.Uniform(sc),
			},
			Material: mats.Scanline,
			Time:     s.scanTime,
		})
	}

	segments := CornerSegments(s.profile.CornerSegments)
	for _, c := range s.layout.Corners {
		items = append(items, DrawItem{
			Layer: LayerCorner,
			Placement: mesh.Placement{
				Position: c.Position,
				Rotation: f32.Vec3{0, 0, c.RotationZ},
				Scale:    mesh.Uniform(t.CornerScale),
			},
			Material: mats.Corner,
			Segments: segments,
			Arc:      CornerArc,
		})
	}
	return items
}
