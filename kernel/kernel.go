// Package kernel contains the pure per-frame computations that scene
// elements offload to a compute bridge.
//
// Every kernel takes a plain input struct and returns a plain output
// struct with no references into caller state, so inputs and outputs can
// be msgpack-encoded across an isolation boundary. The same functions serve
// as the in-process fallback when no worker is available.
package kernel

import (
	"errors"
	"math"

	"golang.org/x/image/math/f32"
)

// ErrNoKeyframes is returned by Interpolate for empty input.
var ErrNoKeyframes = errors.New("kernel: no keyframes")

// ErrInvalidDuration is returned by Interpolate for a non-positive duration.
var ErrInvalidDuration = errors.New("kernel: duration must be positive")

// LEDInput describes one LED frame.
type LEDInput struct {
	Positions []f32.Vec3 `msgpack:"positions"`
	Time      float64    `msgpack:"time"`
	Base      f32.Vec3   `msgpack:"base"`
}

// LEDOutput holds one color per input position.
type LEDOutput struct {
	Colors []f32.Vec3 `msgpack:"colors"`
}

// LEDColors blinks each LED on or off. The blink rate of an LED depends
// on its x position; a lit LED takes the green and blue channels of Base.
func LEDColors(in LEDInput) (LEDOutput, error) {
	out := LEDOutput{Colors: make([]f32.Vec3, len(in.Positions))}
	for i, p := range in.Positions {
		r := math.Abs(2 + float64(p[0]))
		on := float32(math.Round((1 + math.Sin(r*10000+in.Time*r)) / 2))
		out.Colors[i] = f32.Vec3{0, on * in.Base[1], on * in.Base[2]}
	}
	return out, nil
}

// TextInput describes the drift of one screen text block.
type TextInput struct {
	BaseX float64 `msgpack:"baseX"`
	Seed  float64 `msgpack:"seed"`
	Time  float64 `msgpack:"time"`
}

// TextOutput is the horizontal text position.
type TextOutput struct {
	X float64 `msgpack:"x"`
}

// TextDriftAmplitude is the maximum horizontal drift in text units.
const TextDriftAmplitude = 8

// TextOffset sways the text horizontally around BaseX.
func TextOffset(in TextInput) (TextOutput, error) {
	return TextOutput{X: in.BaseX + math.Sin(in.Seed+in.Time/4)*TextDriftAmplitude}, nil
}

// VertexInput is a batch of points and a transform.
type VertexInput struct {
	Matrix f32.Mat4   `msgpack:"matrix"`
	Points []f32.Vec3 `msgpack:"points"`
}

// VertexOutput holds the transformed points.
type VertexOutput struct {
	Points []f32.Vec3 `msgpack:"points"`
}

// VertexTransform applies Matrix to every point as a homogeneous
// coordinate and divides by w. Points with w == 0 are returned without
// the divide.
func VertexTransform(in VertexInput) (VertexOutput, error) {
	m := in.Matrix
	out := VertexOutput{Points: make([]f32.Vec3, len(in.Points))}
	for i, p := range in.Points {
		x := m[0]*p[0] + m[1]*p[1] + m[2]*p[2] + m[3]
		y := m[4]*p[0] + m[5]*p[1] + m[6]*p[2] + m[7]
		z := m[8]*p[0] + m[9]*p[1] + m[10]*p[2] + m[11]
		w := m[12]*p[0] + m[13]*p[1] + m[14]*p[2] + m[15]
		if w != 0 && w != 1 {
			x, y, z = x/w, y/w, z/w
		}
		out.Points[i] = f32.Vec3{x, y, z}
	}
	return out, nil
}

// Identity returns the 4x4 identity matrix.
func Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
