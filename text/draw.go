package text

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Camera is a perspective camera on the z axis looking at the z = 0 plane,
// where screen text lives.
type Camera struct {
	// Distance from the camera to the text plane.
	Distance float64

	// FOV is the vertical field of view in degrees.
	FOV float64
}

// DefaultCamera matches the content camera of the text screens.
func DefaultCamera() Camera {
	return Camera{Distance: 15, FOV: 75}
}

// VisibleHeight returns the height of the text plane the camera sees.
func (c Camera) VisibleHeight() float64 {
	return 2 * c.Distance * math.Tan(c.FOV*math.Pi/360)
}

// PixelsPerUnit returns the projection scale for an image of the given
// pixel height.
func (c Camera) PixelsPerUnit(height int) float64 {
	vh := c.VisibleHeight()
	if vh <= 0 || height <= 0 {
		return 0
	}
	return float64(height) / vh
}

// Draw paints b onto dst with the block centered at (x, y) in scene units.
// The origin is the middle of dst and y grows upward.
func (f *Font) Draw(dst *image.RGBA, b Block, x, y float64, cam Camera, fg color.Color) {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	ppu := cam.PixelsPerUnit(h)
	ppem := fixed.Int26_6(b.Size * ppu * 64)
	if ppem <= 0 || b.Empty() {
		return
	}

	cx := float64(w)/2 + x*ppu
	cy := float64(h)/2 - y*ppu
	top := cy - b.Height*ppu/2
	left := cx - b.Width*ppu/2

	var (
		buf sfnt.Buffer
		r   vector.Rasterizer
	)
	r.Reset(w, h)
	r.DrawOp = draw.Over

	for i, line := range b.Lines {
		baseline := float32(top + (b.Ascent+float64(i)*b.LineHeight)*ppu)
		start := left + b.Align.offset(b.Width-line.Width)*ppu
		for _, g := range line.Glyphs {
			segs, err := f.outline.LoadGlyph(&buf, sfnt.GlyphIndex(g.ID), ppem, nil)
			if err != nil {
				continue
			}
			trace(&r, segs, float32(start+g.X*ppu), baseline)
		}
	}

	r.Draw(dst, bounds, image.NewUniform(fg), image.Point{})
}

// trace adds glyph segments at origin (ox, oy) to the rasterizer.
// Segment coordinates are pixels with y pointing down.
func trace(r *vector.Rasterizer, segs sfnt.Segments, ox, oy float32) {
	pt := func(p fixed.Point26_6) (float32, float32) {
		return ox + float32(p.X)/64, oy + float32(p.Y)/64
	}

	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.ClosePath()
			}
			r.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		r.ClosePath()
	}
}
