package mesh

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min f32.Vec3 `yaml:"min"`
	Max f32.Vec3 `yaml:"max"`
}

// BoxFromPoints returns the smallest box containing all points.
// The box of no points is empty.
func BoxFromPoints(points []f32.Vec3) Box3 {
	if len(points) == 0 {
		return Box3{}
	}
	b := Box3{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for i := range 3 {
			b.Min[i] = min(b.Min[i], p[i])
			b.Max[i] = max(b.Max[i], p[i])
		}
	}
	return b
}

// Size returns the extent of the box along each axis.
func (b Box3) Size() f32.Vec3 {
	return f32.Vec3{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint of the box.
func (b Box3) Center() f32.Vec3 {
	return f32.Vec3{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Empty reports whether the box has no area in the XY plane.
func (b Box3) Empty() bool {
	s := b.Size()
	return s[0] <= 0 || s[1] <= 0
}

// Valid reports whether every coordinate is finite and Min <= Max.
func (b Box3) Valid() bool {
	for i := range 3 {
		if !finite(b.Min[i]) || !finite(b.Max[i]) || b.Min[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
