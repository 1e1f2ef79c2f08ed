package screen

import (
	"image"

	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/scene"
)

// Content is what a screen shows: Interactive, Text or Image.
// The set of variants is closed.
type Content interface {
	newRenderer() renderer
}

// renderer paints one kind of content into the surface canvas.
type renderer interface {
	mount(s *Surface) error

	// frame advances the content and repaints dst when needed. force is
	// set when dst was replaced. frame reports whether dst changed.
	frame(s *Surface, ft scene.FrameTime, dst *image.RGBA, force bool) bool

	pointer(s *Surface, ev scene.PointerEvent) bool
	cursor() scene.Cursor
	unmount(s *Surface)
}

// Interactive shows a spinning box that grows when clicked and changes
// color under the pointer.
type Interactive struct {
	// Background defaults to orange.
	Background render.Color
}

func (c Interactive) newRenderer() renderer {
	bg := c.Background
	if bg.A == 0 {
		bg = render.Orange
	}
	return &interactiveRenderer{background: bg.RGBA8()}
}

// Text shows a line of text that drifts slowly from side to side.
type Text struct {
	Content string

	// X and Y place the text center in content units.
	X, Y float64

	FontSize float64

	// Animated enables the horizontal drift.
	Animated bool

	// Invert swaps to glow text on black.
	Invert bool
}

// DefaultText returns the text content defaults.
func DefaultText() Text {
	return Text{
		Content:  "Poimandres.",
		Y:        1.2,
		FontSize: 4,
		Animated: true,
	}
}

func (c Text) newRenderer() renderer {
	if c.FontSize <= 0 {
		c.FontSize = DefaultText().FontSize
	}
	return &textRenderer{cfg: c}
}

// Image shows a picture that opens a link when clicked.
type Image struct {
	// Source is passed to the environment's image loader.
	Source string

	// Link is opened on click.
	Link string

	// Scale sizes the picture; zero means 1.
	Scale float64

	// Background defaults to the glow color.
	Background render.Color
}

func (c Image) newRenderer() renderer {
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Background.A == 0 {
		c.Background = render.Glow
	}
	return &imageRenderer{cfg: c}
}

var (
	_ Content = Interactive{}
	_ Content = Text{}
	_ Content = Image{}
)
