// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"math"
)

// ApplyScanline runs ScanlineShaderWGSL's fragment stage on the CPU,
// writing the effect of src into dst. dst and src must have equal bounds
// and may be the same image.
func ApplyScanline(dst, src *image.RGBA, time, intensity float64) {
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		// Texture v runs bottom to top.
		v := 1 - (float64(y-b.Min.Y)+0.5)/h
		scan := math.Sin(v*100+time) * 0.04 * intensity

		for x := b.Min.X; x < b.Max.X; x++ {
			u := (float64(x-b.Min.X) + 0.5) / w
			vignette := 1 - math.Hypot(u-0.5, v-0.5)*0.7

			seed := (u*12.9898 + v*78.233) * time * 0.1
			_, frac := math.Modf(math.Sin(seed) * 43758.5453)
			if frac < 0 {
				frac++
			}
			noise := frac * 0.03 * intensity

			k := (1 + scan + noise) * vignette
			si := src.PixOffset(x, y)
			di := dst.PixOffset(x, y)
			dst.Pix[di+0] = scale8(src.Pix[si+0], k)
			dst.Pix[di+1] = scale8(src.Pix[si+1], k)
			dst.Pix[di+2] = scale8(src.Pix[si+2], k)
			dst.Pix[di+3] = src.Pix[si+3]
		}
	}
}

func scale8(c uint8, k float64) uint8 {
	v := float64(c) * k
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
