// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// TargetFormat is the texture format of screen targets. Screen content is
// authored in sRGB.
const TargetFormat = gputypes.TextureFormatRGBA8UnormSrgb

// TextureTarget is a GPU texture-backed target with its own view and
// sampler.
type TextureTarget struct {
	device hal.Device
	queue  hal.Queue

	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	width      int
	height     int
	anisotropy int

	mu       sync.Mutex
	scratch  *image.RGBA
	disposed atomic.Bool
}

// Width returns the texture width in pixels.
func (t *TextureTarget) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *TextureTarget) Height() int { return t.height }

// Anisotropy returns the sampler's anisotropy.
func (t *TextureTarget) Anisotropy() int { return t.anisotropy }

// Format returns TargetFormat.
func (t *TextureTarget) Format() gputypes.TextureFormat { return TargetFormat }

// View returns the texture view, or nil after Dispose.
func (t *TextureTarget) View() hal.TextureView {
	if t.disposed.Load() {
		return nil
	}
	return t.view
}

// Sampler returns the texture sampler, or nil after Dispose.
func (t *TextureTarget) Sampler() hal.Sampler {
	if t.disposed.Load() {
		return nil
	}
	return t.sampler
}

// Upload writes img into mip level 0 through the device queue.
func (t *TextureTarget) Upload(img *image.RGBA) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed.Load() {
		return ErrDisposed
	}

	src := FitRGBA(img, t.width, t.height, t.scratch)
	if src != img {
		t.scratch = src
	}

	//nolint:gosec // G115: dimensions validated positive at allocation
	err := t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: t.texture,
			Aspect:  gputypes.TextureAspectAll,
		},
		src.Pix,
		&hal.ImageDataLayout{
			BytesPerRow:  uint32(src.Stride),
			RowsPerImage: uint32(t.height),
		},
		&hal.Extent3D{Width: uint32(t.width), Height: uint32(t.height), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("render: upload %dx%d: %w", t.width, t.height, err)
	}
	return nil
}

// Dispose destroys the sampler, view and texture. Safe to call twice.
func (t *TextureTarget) Dispose() {
	if !t.disposed.CompareAndSwap(false, true) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.device.DestroySampler(t.sampler)
	t.device.DestroyTextureView(t.view)
	t.device.DestroyTexture(t.texture)
	t.scratch = nil
}

// HALAllocator creates TextureTargets on a wgpu HAL device.
type HALAllocator struct {
	device hal.Device
	queue  hal.Queue
	log    *slog.Logger

	allocated atomic.Uint64
}

// NewHALAllocator creates an allocator on device and queue. A nil logger
// discards output.
func NewHALAllocator(device hal.Device, queue hal.Queue, log *slog.Logger) *HALAllocator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &HALAllocator{device: device, queue: queue, log: log}
}

// NewHALAllocatorFrom creates an allocator on a host-provided device.
func NewHALAllocatorFrom(h DeviceHandle, log *slog.Logger) (*HALAllocator, error) {
	dev, q, err := halObjects(h)
	if err != nil {
		return nil, err
	}
	return NewHALAllocator(dev, q, log), nil
}

// Allocated returns the number of targets created.
func (a *HALAllocator) Allocated() uint64 {
	return a.allocated.Load()
}

// Allocate creates a texture, a view and a linear sampler with the
// requested anisotropy.
func (a *HALAllocator) Allocate(desc TargetDesc) (Target, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	label := desc.Label
	if label == "" {
		label = fmt.Sprintf("screen-%dx%d-a%d", desc.Width, desc.Height, desc.Anisotropy)
	}

	//nolint:gosec // G115: dimensions validated positive above
	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        TargetFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create texture %s: %w", label, err)
	}

	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label + "-view",
		Format:          TargetFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		a.device.DestroyTexture(tex)
		return nil, fmt.Errorf("render: create view %s: %w", label, err)
	}

	aniso := min(desc.Anisotropy, MaxAnisotropy)
	//nolint:gosec // G115: clamped to [1,16]
	sampler, err := a.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label + "-sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
		LodMaxClamp:  32,
		Anisotropy:   uint16(aniso),
	})
	if err != nil {
		a.device.DestroyTextureView(view)
		a.device.DestroyTexture(tex)
		return nil, fmt.Errorf("render: create sampler %s: %w", label, err)
	}

	a.allocated.Add(1)
	a.log.Debug("render target allocated", "label", label)

	return &TextureTarget{
		device:     a.device,
		queue:      a.queue,
		texture:    tex,
		view:       view,
		sampler:    sampler,
		width:      desc.Width,
		height:     desc.Height,
		anisotropy: aniso,
	}, nil
}

var (
	_ Target    = (*TextureTarget)(nil)
	_ Allocator = (*HALAllocator)(nil)
)
