package mesh

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Placement positions one instance of a template. Rotation holds Euler
// angles in radians, applied in X, Y, Z order.
type Placement struct {
	Position f32.Vec3 `yaml:"position"`
	Rotation f32.Vec3 `yaml:"rotation"`
	Scale    f32.Vec3 `yaml:"scale"`
}

// Uniform returns a scale vector with all components s.
func Uniform(s float32) f32.Vec3 {
	return f32.Vec3{s, s, s}
}

// At returns a placement at position with no rotation and unit scale.
func At(position f32.Vec3) Placement {
	return Placement{Position: position, Scale: Uniform(1)}
}

// Matrix returns the row-major model matrix T * R * S.
func (p Placement) Matrix() f32.Mat4 {
	m := p.RotationMatrix()
	for r := range 3 {
		for c := range 3 {
			m[r*4+c] *= p.Scale[c]
		}
		m[r*4+3] = p.Position[r]
	}
	return m
}

// RotationMatrix returns Rx * Ry * Rz.
func (p Placement) RotationMatrix() f32.Mat4 {
	sx, cx := sincos(p.Rotation[0])
	sy, cy := sincos(p.Rotation[1])
	sz, cz := sincos(p.Rotation[2])
	return f32.Mat4{
		cy * cz, -cy * sz, sy, 0,
		cx*sz + sx*sy*cz, cx*cz - sx*sy*sz, -sx * cy, 0,
		sx*sz - cx*sy*cz, sx*cz + cx*sy*sz, cx * cy, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the row-major product a * b.
func Mul(a, b f32.Mat4) f32.Mat4 {
	var m f32.Mat4
	for r := range 4 {
		for c := range 4 {
			var s float32
			for k := range 4 {
				s += a[r*4+k] * b[k*4+c]
			}
			m[r*4+c] = s
		}
	}
	return m
}

// Translation returns a row-major translation matrix.
func Translation(v f32.Vec3) f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, v[0],
		0, 1, 0, v[1],
		0, 0, 1, v[2],
		0, 0, 0, 1,
	}
}

// Perspective returns a row-major projection matrix for a camera looking
// down -z. fovY is in radians.
func Perspective(fovY, aspect, near, far float32) f32.Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	nf := 1 / (near - far)
	return f32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}
