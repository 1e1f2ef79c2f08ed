// Package led animates the status lights on the desk's machines.
//
// A Field is a fixed set of small emissive spheres. Each light blinks at a
// rate derived from its x position; the blink colors are computed through
// the scene's compute bridge at the LED priority.
package led
