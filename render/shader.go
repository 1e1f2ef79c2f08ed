// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// ScanlineShaderWGSL textures a screen with its content and adds a faint
// scanline ripple, vignette and noise. uTime advances with the effect phase.
const ScanlineShaderWGSL = `
struct Uniforms {
    mvp: mat4x4<f32>,
    time: f32,
    intensity: f32,
    _pad0: f32,
    _pad1: f32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var t_map: texture_2d<f32>;
@group(0) @binding(2) var s_map: sampler;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) uv: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.position = u.mvp * vec4<f32>(position, 1.0);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let color = textureSample(t_map, s_map, in.uv);
    let scanline = sin(in.uv.y * 100.0 + u.time) * 0.04 * u.intensity;
    let vignette = 1.0 - length(in.uv - vec2<f32>(0.5, 0.5)) * 0.7;
    let seed = dot(in.uv, vec2<f32>(12.9898, 78.233) * u.time * 0.1);
    let noise = fract(sin(seed) * 43758.5453) * 0.03 * u.intensity;
    return vec4<f32>(color.rgb * (1.0 + scanline + noise) * vignette, color.a);
}
`

// GlowShaderWGSL draws the translucent emissive layer behind a screen.
const GlowShaderWGSL = `
struct Uniforms {
    mvp: mat4x4<f32>,
    color: vec4<f32>,
    emissive: vec4<f32>,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return u.mvp * vec4<f32>(position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(u.color.rgb + u.emissive.rgb, u.color.a);
}
`

// CompileShaderToSPIRV compiles WGSL source to SPIR-V words.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// ShaderSet holds the compiled screen shaders on one device.
type ShaderSet struct {
	device hal.Device

	Scanline hal.ShaderModule
	Glow     hal.ShaderModule
}

// ShaderSources maps shader labels to WGSL source.
func ShaderSources() map[string]string {
	return map[string]string{
		"scanline": ScanlineShaderWGSL,
		"glow":     GlowShaderWGSL,
	}
}

// NewShaderSet compiles the screen shaders and creates their modules.
func NewShaderSet(device hal.Device) (*ShaderSet, error) {
	s := &ShaderSet{device: device}

	var err error
	if s.Scanline, err = createModule(device, "scanline", ScanlineShaderWGSL); err != nil {
		return nil, err
	}
	if s.Glow, err = createModule(device, "glow", GlowShaderWGSL); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// Destroy releases the shader modules.
func (s *ShaderSet) Destroy() {
	if s.Scanline != nil {
		s.device.DestroyShaderModule(s.Scanline)
		s.Scanline = nil
	}
	if s.Glow != nil {
		s.device.DestroyShaderModule(s.Glow)
		s.Glow = nil
	}
}

func createModule(device hal.Device, label, source string) (hal.ShaderModule, error) {
	code, err := CompileShaderToSPIRV(source)
	if err != nil {
		return nil, fmt.Errorf("render: %s shader: %w", label, err)
	}
	mod, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("render: %s shader module: %w", label, err)
	}
	return mod, nil
}
