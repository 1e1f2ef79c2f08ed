package config

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/screen"
)

// Screen content kinds.
const (
	KindInteractive = "interactive"
	KindText        = "text"
	KindImage       = "image"
)

// Screen describes one monitor. Which content fields apply depends on
// Kind; unset optional fields take the content defaults.
type Screen struct {
	Kind  string `yaml:"kind"`
	Frame string `yaml:"frame"`
	Panel string `yaml:"panel"`

	Position f32.Vec3 `yaml:"position"`
	Rotation f32.Vec3 `yaml:"rotation"`
	Scale    float32  `yaml:"scale,omitempty"`

	CustomEffect bool `yaml:"customEffect"`

	// Background applies to interactive and image screens.
	Background *render.Color `yaml:"background,omitempty"`

	// Text screens.
	Content  string   `yaml:"content,omitempty"`
	X        *float64 `yaml:"x,omitempty"`
	Y        *float64 `yaml:"y,omitempty"`
	FontSize float64  `yaml:"fontSize,omitempty"`
	Animated *bool    `yaml:"animated,omitempty"`
	Invert   bool     `yaml:"invert,omitempty"`

	// Image screens.
	Source     string  `yaml:"source,omitempty"`
	Link       string  `yaml:"link,omitempty"`
	ImageScale float64 `yaml:"imageScale,omitempty"`
}

// Def builds the surface definition of s with the shared tuning.
func (s Screen) Def(tuning screen.Tuning) (screen.Def, error) {
	content, err := s.content()
	if err != nil {
		return screen.Def{}, err
	}
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	if !(scale > 0) {
		return screen.Def{}, fmt.Errorf("screen %s: scale %v", s.Panel, s.Scale)
	}
	def := screen.Def{
		Frame: s.Frame,
		Panel: s.Panel,
		Placement: mesh.Placement{
			Position: s.Position,
			Rotation: s.Rotation,
			Scale:    mesh.Uniform(scale),
		},
		CustomEffect: s.CustomEffect,
		Tuning:       tuning,
		Content:      content,
	}
	if _, err := screen.New(def); err != nil {
		return screen.Def{}, err
	}
	return def, nil
}

func (s Screen) content() (screen.Content, error) {
	var bg render.Color
	if s.Background != nil {
		bg = *s.Background
	}

	switch s.Kind {
	case KindInteractive:
		return screen.Interactive{Background: bg}, nil
	case KindText:
		c := screen.DefaultText()
		if s.Content != "" {
			c.Content = s.Content
		}
		if s.X != nil {
			c.X = *s.X
		}
		if s.Y != nil {
			c.Y = *s.Y
		}
		if s.FontSize != 0 {
			c.FontSize = s.FontSize
		}
		if s.Animated != nil {
			c.Animated = *s.Animated
		}
		c.Invert = s.Invert
		if !(c.FontSize > 0) {
			return nil, fmt.Errorf("screen %s: font size %v", s.Panel, c.FontSize)
		}
		return c, nil
	case KindImage:
		if s.Source == "" {
			return nil, fmt.Errorf("screen %s: image without source", s.Panel)
		}
		return screen.Image{Source: s.Source, Link: s.Link, Scale: s.ImageScale, Background: bg}, nil
	default:
		return nil, fmt.Errorf("screen %s: unknown kind %q", s.Panel, s.Kind)
	}
}

func ptr[T any](v T) *T { return &v }

func defaultScreens() []Screen {
	return []Screen{
		{
			Kind: KindInteractive, Frame: "Object_206", Panel: "Object_207",
			Position:     f32.Vec3{0.27, 1.53, -2.61},
			Background:   ptr(render.Blue),
			CustomEffect: true,
		},
		{
			Kind: KindText, Frame: "Object_209", Panel: "Object_210",
			Y:            ptr(5.0),
			Position:     f32.Vec3{-1.43, 2.5, -1.8},
			Rotation:     f32.Vec3{0, 1, 0},
			Content:      "System online.",
			CustomEffect: true,
		},
		{
			Kind: KindText, Frame: "Object_212", Panel: "Object_213",
			X:        ptr(-5.0),
			Y:        ptr(5.0),
			Position: f32.Vec3{-2.73, 0.63, -0.52},
			Rotation: f32.Vec3{0, 1.09, 0},
			Invert:   true,
			Content:  "Initializing...",
		},
		{
			Kind: KindText, Frame: "Object_215", Panel: "Object_216",
			Position:     f32.Vec3{1.84, 0.38, -1.77},
			Rotation:     f32.Vec3{0, -math.Pi / 9, 0},
			Invert:       true,
			Content:      "Poimandres.",
			Animated:     ptr(false),
			CustomEffect: true,
		},
		{
			Kind: KindText, Frame: "Object_218", Panel: "Object_219",
			X:            ptr(-5.0),
			Position:     f32.Vec3{3.11, 2.15, -0.18},
			Rotation:     f32.Vec3{0, -0.79, 0},
			Scale:        0.81,
			Invert:       true,
			Content:      "Loading...",
			FontSize:     3.5,
			CustomEffect: true,
		},
		{
			Kind: KindText, Frame: "Object_221", Panel: "Object_222",
			Y:        ptr(5.0),
			Position: f32.Vec3{-3.42, 3.06, 1.3},
			Rotation: f32.Vec3{0, 1.22, 0},
			Scale:    0.9,
			Content:  "Ready",
		},
		{
			Kind: KindText, Frame: "Object_224", Panel: "Object_225",
			Position:     f32.Vec3{-3.9, 4.29, -2.64},
			Rotation:     f32.Vec3{0, 0.54, 0},
			Invert:       true,
			Content:      "System check",
			FontSize:     3,
			CustomEffect: true,
		},
		{
			Kind: KindText, Frame: "Object_227", Panel: "Object_228",
			Position: f32.Vec3{0.96, 4.28, -4.2},
			Rotation: f32.Vec3{0, -0.65, 0},
			Content:  "Standby",
		},
		{
			Kind: KindText, Frame: "Object_230", Panel: "Object_231",
			Position:     f32.Vec3{4.68, 4.29, -1.56},
			Rotation:     f32.Vec3{0, -math.Pi / 3, 0},
			Content:      "Processing",
			Animated:     ptr(true),
			CustomEffect: true,
		},
	}
}
