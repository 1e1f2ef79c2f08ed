// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

var (
	// ErrInvalidTarget is returned for non-positive target dimensions.
	ErrInvalidTarget = errors.New("render: invalid target descriptor")

	// ErrDisposed is returned by operations on a disposed target.
	ErrDisposed = errors.New("render: target disposed")
)

// MaxAnisotropy is the highest anisotropic filtering level requested from
// a device.
const MaxAnisotropy = 16

// TargetDesc describes an offscreen target.
type TargetDesc struct {
	// Label is an optional debug label.
	Label string

	Width      int
	Height     int
	Anisotropy int
}

// Validate checks the descriptor.
func (d TargetDesc) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTarget, d.Width, d.Height)
	}
	if d.Anisotropy < 1 {
		return fmt.Errorf("%w: anisotropy %d", ErrInvalidTarget, d.Anisotropy)
	}
	return nil
}

// Target is an offscreen surface that receives screen content.
//
// Targets are owned by whoever allocated them; in the scene that is the
// render-target cache, which calls Dispose exactly once.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Anisotropy returns the filtering level the target samples with.
	Anisotropy() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Upload replaces the target contents with img, scaling it to the
	// target size when the sizes differ.
	Upload(img *image.RGBA) error

	// Dispose releases the target's resources. Further uploads fail with
	// ErrDisposed.
	Dispose()
}

// Allocator creates targets.
type Allocator interface {
	Allocate(desc TargetDesc) (Target, error)
}

// AllocatorFunc adapts a function to Allocator.
type AllocatorFunc func(desc TargetDesc) (Target, error)

// Allocate calls f(desc).
func (f AllocatorFunc) Allocate(desc TargetDesc) (Target, error) {
	return f(desc)
}

// FitRGBA returns img when it already has the given size, or a scaled
// copy written into scratch (reallocated when too small).
func FitRGBA(img *image.RGBA, width, height int, scratch *image.RGBA) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height && b.Min == (image.Point{}) {
		return img
	}
	if scratch == nil || scratch.Bounds().Dx() != width || scratch.Bounds().Dy() != height {
		scratch = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	xdraw.BiLinear.Scale(scratch, scratch.Bounds(), img, b, xdraw.Src, nil)
	return scratch
}

// PixmapTarget is a CPU-backed target using *image.RGBA.
//
// Example:
//
//	alloc := render.PixmapAllocator{}
//	target, _ := alloc.Allocate(render.TargetDesc{Width: 512, Height: 256, Anisotropy: 8})
//	_ = target.Upload(content)
type PixmapTarget struct {
	mu         sync.Mutex
	img        *image.RGBA
	anisotropy int
	uploads    int
}

// NewPixmapTarget creates a CPU target.
func NewPixmapTarget(width, height, anisotropy int) *PixmapTarget {
	return &PixmapTarget{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		anisotropy: anisotropy,
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dy()
}

// Anisotropy returns the filtering level.
func (t *PixmapTarget) Anisotropy() int {
	return t.anisotropy
}

// Format returns RGBA8.
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Upload copies img into the target.
func (t *PixmapTarget) Upload(img *image.RGBA) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.img == nil {
		return ErrDisposed
	}
	b := t.img.Bounds()
	src := FitRGBA(img, b.Dx(), b.Dy(), nil)
	if src == img {
		copy(t.img.Pix, img.Pix)
	} else {
		t.img = src
	}
	t.uploads++
	return nil
}

// Image returns the current contents. The returned image must not be
// modified. Nil after Dispose.
func (t *PixmapTarget) Image() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.img
}

// Uploads returns the number of successful uploads.
func (t *PixmapTarget) Uploads() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.uploads
}

// Disposed reports whether Dispose has been called.
func (t *PixmapTarget) Disposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.img == nil
}

// Dispose drops the pixel buffer.
func (t *PixmapTarget) Dispose() {
	t.mu.Lock()
	t.img = nil
	t.mu.Unlock()
}

// PixmapAllocator allocates PixmapTargets.
type PixmapAllocator struct{}

// Allocate creates a PixmapTarget for desc.
func (PixmapAllocator) Allocate(desc TargetDesc) (Target, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return NewPixmapTarget(desc.Width, desc.Height, desc.Anisotropy), nil
}

var (
	_ Target    = (*PixmapTarget)(nil)
	_ Allocator = PixmapAllocator{}
	_ Allocator = AllocatorFunc(nil)
)
