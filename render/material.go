// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Shader identifies the program a material is drawn with.
type Shader int

const (
	// ShaderStandard is the lit mesh program.
	ShaderStandard Shader = iota
	// ShaderUnlit ignores lighting and tone mapping.
	ShaderUnlit
	// ShaderGlow is GlowShaderWGSL.
	ShaderGlow
	// ShaderScanline is ScanlineShaderWGSL.
	ShaderScanline
)

// Material is a finished surface description. Materials are values: once
// built by NewMaterials they are shared by copy and never modified.
type Material struct {
	Name   string
	Shader Shader

	Color             Color
	Emissive          Color
	EmissiveIntensity float32

	Roughness float32
	Metalness float32

	Opacity     float32
	Transparent bool
	ToneMapped  bool
}

// ScanlineIntensity is the default strength of the scanline effect.
const ScanlineIntensity = 0.15

// Materials is the set of screen materials built from one glow color.
type Materials struct {
	Frame    Material
	Glow     Material
	Corner   Material
	LED      Material
	Scanline Material
}

// NewMaterials builds the screen materials around glow.
func NewMaterials(glow Color) Materials {
	return Materials{
		Frame: Material{
			Name:       "frame",
			Shader:     ShaderStandard,
			Color:      Color{0.78, 0.75, 0.68, 1},
			Roughness:  0.6,
			Opacity:    1,
			ToneMapped: true,
		},
		Glow: Material{
			Name:              "glow",
			Shader:            ShaderGlow,
			Color:             glow,
			Emissive:          glow.Scale(0.12),
			EmissiveIntensity: 1,
			Roughness:         0.25,
			Opacity:           0.55,
			Transparent:       true,
			ToneMapped:        true,
		},
		Corner: Material{
			Name:              "corner",
			Shader:            ShaderStandard,
			Color:             glow.Lerp(White, 0.15),
			Emissive:          glow,
			EmissiveIntensity: 0.9,
			Roughness:         0.15,
			Metalness:         0.5,
			Opacity:           0.95,
			Transparent:       true,
			ToneMapped:        true,
		},
		LED: Material{
			Name:              "led",
			Shader:            ShaderUnlit,
			Color:             White,
			EmissiveIntensity: 1,
			Opacity:           1,
		},
		Scanline: Material{
			Name:              "scanline",
			Shader:            ShaderScanline,
			Color:             White,
			EmissiveIntensity: ScanlineIntensity,
			Opacity:           1,
			Transparent:       true,
			ToneMapped:        true,
		},
	}
}

// Lookup returns the material called name.
func (m Materials) Lookup(name string) (Material, bool) {
	for _, mat := range [...]Material{m.Frame, m.Glow, m.Corner, m.LED, m.Scanline} {
		if mat.Name == name {
			return mat, true
		}
	}
	return Material{}, false
}
