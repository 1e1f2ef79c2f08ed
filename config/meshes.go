package config

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/render"
)

// Mesh is one entry of the mesh manifest.
type Mesh struct {
	Name   string    `yaml:"name"`
	Bounds mesh.Box3 `yaml:"bounds"`

	// Material names one of the scene materials. Empty means none.
	Material string `yaml:"material,omitempty"`
}

func (m Mesh) validate(mats render.Materials) error {
	if m.Name == "" {
		return errors.New("unnamed template")
	}
	if !m.Bounds.Valid() {
		return fmt.Errorf("template %q: invalid bounds %v", m.Name, m.Bounds)
	}
	if m.Material != "" {
		if _, ok := mats.Lookup(m.Material); !ok {
			return fmt.Errorf("template %q: unknown material %q", m.Name, m.Material)
		}
	}
	return nil
}

// Library builds the mesh library of the manifest.
func (c *Config) Library() (*mesh.Library, error) {
	mats := render.NewMaterials(c.Glow)
	templates := make([]mesh.Template, 0, len(c.Meshes))
	for _, m := range c.Meshes {
		if err := m.validate(mats); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		mat, _ := mats.Lookup(m.Material)
		templates = append(templates, mesh.Template{Name: m.Name, Bounds: m.Bounds, Material: mat})
	}
	return mesh.NewLibrary(templates...)
}

// Placeholder bounds of the stock manifest, in model units.
var (
	framePlaceholder = mesh.Box3{Min: f32.Vec3{-0.55, -0.45, -0.5}, Max: f32.Vec3{0.55, 0.45, 0.5}}
	panelPlaceholder = mesh.Box3{Min: f32.Vec3{-0.45, -0.35, 0}, Max: f32.Vec3{0.45, 0.35, 0.02}}
	ledPlaceholder   = mesh.Box3{Min: f32.Vec3{-1, -1, -1}, Max: f32.Vec3{1, 1, 1}}
)

func defaultMeshes() []Mesh {
	var out []Mesh
	for _, s := range defaultScreens() {
		out = append(out,
			Mesh{Name: s.Frame, Bounds: framePlaceholder, Material: "frame"},
			Mesh{Name: s.Panel, Bounds: panelPlaceholder},
		)
	}
	return append(out, Mesh{Name: defaultLEDs().Template, Bounds: ledPlaceholder, Material: "led"})
}
