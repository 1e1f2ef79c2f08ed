//go:build cgo

package host

import (
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/retrodesk/render"
)

// ImageTarget is a render target backed by an ebiten image.
type ImageTarget struct {
	mu         sync.Mutex
	img        *ebiten.Image
	width      int
	height     int
	anisotropy int
	scratch    *image.RGBA
}

// Width returns the image width in pixels.
func (t *ImageTarget) Width() int { return t.width }

// Height returns the image height in pixels.
func (t *ImageTarget) Height() int { return t.height }

// Anisotropy returns the requested filtering level. Ebiten samples
// linearly regardless.
func (t *ImageTarget) Anisotropy() int { return t.anisotropy }

// Format returns RGBA8.
func (t *ImageTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Upload writes img into the ebiten image.
func (t *ImageTarget) Upload(img *image.RGBA) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.img == nil {
		return render.ErrDisposed
	}
	src := render.FitRGBA(img, t.width, t.height, t.scratch)
	if src.Stride != 4*t.width {
		packed := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
		for y := range t.height {
			copy(packed.Pix[y*packed.Stride:(y+1)*packed.Stride], src.Pix[y*src.Stride:])
		}
		src = packed
	}
	if src != img {
		t.scratch = src
	}
	t.img.WritePixels(src.Pix[:4*t.width*t.height])
	return nil
}

// Image returns the ebiten image, or nil after Dispose.
func (t *ImageTarget) Image() *ebiten.Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.img
}

// Dispose deallocates the ebiten image.
func (t *ImageTarget) Dispose() {
	t.mu.Lock()
	img := t.img
	t.img = nil
	t.scratch = nil
	t.mu.Unlock()
	if img != nil {
		img.Deallocate()
	}
}

// Allocator creates ImageTargets.
type Allocator struct{}

// Allocate creates an ebiten image of the described size.
func (Allocator) Allocate(desc render.TargetDesc) (render.Target, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &ImageTarget{
		img:        ebiten.NewImage(desc.Width, desc.Height),
		width:      desc.Width,
		height:     desc.Height,
		anisotropy: desc.Anisotropy,
	}, nil
}

var (
	_ render.Target    = (*ImageTarget)(nil)
	_ render.Allocator = Allocator{}
)
