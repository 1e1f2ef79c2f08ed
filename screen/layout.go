package screen

import (
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk/mesh"
)

// Corner names a screen corner.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

var cornerNames = [...]string{"top-left", "top-right", "bottom-left", "bottom-right"}

func (c Corner) String() string {
	if c < 0 || int(c) >= len(cornerNames) {
		return "unknown"
	}
	return cornerNames[c]
}

// cornerRotation turns the quarter-sphere piece to face its corner.
var cornerRotation = [...]float32{
	TopLeft:     0,
	TopRight:    math.Pi / 2,
	BottomLeft:  -math.Pi / 2,
	BottomRight: math.Pi,
}

// CornerArc is the angular extent of a corner piece in both directions,
// a little more than a quarter turn so the pieces overlap the edges.
const CornerArc = math.Pi / 2 * 1.05

// minCornerSegments is the tessellation floor of a corner piece.
const minCornerSegments = 16

// CornerSegments returns the sphere tessellation of a corner piece for a
// profile's corner segment count.
func CornerSegments(profileSegments int) int {
	return max(profileSegments*3/2, minCornerSegments)
}

// CornerPiece is the placement of one corner decoration.
type CornerPiece struct {
	Corner    Corner
	Position  f32.Vec3
	RotationZ float32
}

// Layout is the screen geometry derived from a panel's bounding box.
type Layout struct {
	// Size is the extent of the panel geometry.
	Size f32.Vec3

	// Width and Height are the scaled screen size.
	Width  float32
	Height float32

	Tuning  Tuning
	Corners [4]CornerPiece
}

// NewLayout measures the panel and places the corners inside the scaled
// screen rectangle.
func NewLayout(panel mesh.Box3, t Tuning) Layout {
	size := panel.Size()
	l := Layout{
		Size:   size,
		Width:  size[0] * t.Scale,
		Height: size[1] * t.Scale,
		Tuning: t,
	}

	x := l.Width/2 - t.CornerOffset
	top := l.Height/2 - t.CornerOffset + t.YAdjustment
	bottom := -l.Height/2 + t.CornerOffset + t.YAdjustment
	positions := [4]f32.Vec3{
		TopLeft:     {-x, top, t.Z.Corner},
		TopRight:    {x, top, t.Z.Corner},
		BottomLeft:  {-x, bottom, t.Z.Corner},
		BottomRight: {x, bottom, t.Z.Corner},
	}
	for c := range l.Corners {
		l.Corners[c] = CornerPiece{
			Corner:    Corner(c),
			Position:  positions[c],
			RotationZ: cornerRotation[c],
		}
	}
	return l
}
