package retrodesk

import (
	"log/slog"

	"github.com/gogpu/retrodesk/cache"
	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/scene"
	"github.com/gogpu/retrodesk/text"
)

// Option configures a Scene during creation.
//
// Example:
//
//	// Stock scene on the CPU allocator
//	s, err := retrodesk.New(config.Default(), render.PixmapAllocator{})
//
//	// Measured mesh bounds and a browser for image links
//	s, err := retrodesk.New(cfg, alloc,
//		retrodesk.WithMeshes(lib),
//		retrodesk.WithLinkOpener(openBrowser))
type Option func(*options)

// options holds optional configuration for Scene creation.
type options struct {
	logger    *slog.Logger
	clock     cache.Clock
	meshes    *mesh.Library
	font      *text.Font
	isolation *bool
	loadImage scene.ImageLoader
	openLink  scene.LinkOpener
}

// WithLogger sets the scene logger. The default is Logger() at the time
// New is called.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock sets the clock of the render-target cache.
func WithClock(c cache.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithMeshes replaces the library built from the configuration's mesh
// manifest, typically with one measured from the loaded model.
func WithMeshes(lib *mesh.Library) Option {
	return func(o *options) {
		o.meshes = lib
	}
}

// WithFont sets the screen font. The default is text.DefaultFont.
func WithFont(f *text.Font) Option {
	return func(o *options) {
		o.font = f
	}
}

// WithIsolation overrides the configuration's compute isolation switch.
func WithIsolation(enabled bool) Option {
	return func(o *options) {
		o.isolation = &enabled
	}
}

// WithImageLoader sets how image screens load their pictures.
// The default reads files with screen.LoadImageFile.
func WithImageLoader(fn scene.ImageLoader) Option {
	return func(o *options) {
		o.loadImage = fn
	}
}

// WithLinkOpener sets how image screens open their links.
// Without one, clicks on image screens only activate the screen.
func WithLinkOpener(fn scene.LinkOpener) Option {
	return func(o *options) {
		o.openLink = fn
	}
}
