package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"

	_ "golang.org/x/image/bmp" // register BMP
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP

	"github.com/gogpu/retrodesk/scene"
	"github.com/gogpu/retrodesk/text"
)

// Image screen layout, in content units.
const (
	// imageExtent is the shorter side of the picture at scale 1.
	imageExtent = 8

	// imageShrink scales the picture down to leave a border.
	imageShrink = 0.66

	// imageAlpha is the picture opacity.
	imageAlpha = 250
)

// LoadImageFile decodes a PNG, JPEG, BMP or WebP file.
func LoadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("screen: load image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("screen: decode %s: %w", path, err)
	}
	return img, nil
}

type imageRenderer struct {
	cfg     Image
	picture image.Image
	hovered bool
	painted bool
}

// mount loads the picture. A picture that cannot be loaded leaves the
// screen showing its background.
func (r *imageRenderer) mount(s *Surface) error {
	load := s.env.LoadImage
	if load == nil {
		load = LoadImageFile
	}
	img, err := load(r.cfg.Source)
	if err != nil {
		s.log.Warn("screen image unavailable", "source", r.cfg.Source, "error", err)
	}
	r.picture = img
	r.painted = false
	return nil
}

func (r *imageRenderer) unmount(*Surface) {
	r.hovered = false
}

func (r *imageRenderer) frame(_ *Surface, _ scene.FrameTime, dst *image.RGBA, force bool) bool {
	if r.painted && !force {
		return false
	}
	r.paint(dst)
	return true
}

func (r *imageRenderer) paint(dst *image.RGBA) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(r.cfg.Background.RGBA8()), image.Point{}, draw.Src)
	r.painted = true
	if r.picture == nil {
		return
	}

	rect := pictureRect(r.picture.Bounds(), b, r.cfg.Scale)
	mask := image.NewUniform(color.Alpha{A: imageAlpha})
	xdraw.BiLinear.Scale(dst, rect, r.picture, r.picture.Bounds(), xdraw.Over, &xdraw.Options{SrcMask: mask})
}

// pictureRect centers a picture of the given pixel bounds on the canvas.
// The shorter side of the picture spans imageExtent * imageShrink * scale
// content units.
func pictureRect(pic, canvas image.Rectangle, scale float64) image.Rectangle {
	if pic.Empty() {
		return image.Rectangle{}
	}
	ppu := text.DefaultCamera().PixelsPerUnit(canvas.Dy())
	size := imageExtent * imageShrink * scale
	w, h := size, size
	if aspect := float64(pic.Dx()) / float64(pic.Dy()); aspect < 1 {
		h = size / aspect
	} else {
		w = size * aspect
	}
	pw, ph := int(w*ppu+0.5), int(h*ppu+0.5)
	c := canvas.Min.Add(canvas.Size().Div(2))
	return image.Rect(c.X-pw/2, c.Y-ph/2, c.X-pw/2+pw, c.Y-ph/2+ph)
}

func (r *imageRenderer) pointer(s *Surface, ev scene.PointerEvent) bool {
	switch ev.Kind {
	case scene.PointerOut:
		r.hovered = false
		return false
	case scene.PointerClick:
		if s.env.OpenLink != nil && r.cfg.Link != "" {
			if err := s.env.OpenLink(r.cfg.Link); err != nil {
				s.log.Warn("open link failed", "link", r.cfg.Link, "error", err)
			}
		}
		return true
	default:
		r.hovered = true
		return true
	}
}

func (r *imageRenderer) cursor() scene.Cursor {
	if r.hovered {
		return scene.CursorPointer
	}
	return scene.CursorDefault
}
