package scene

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/gogpu/retrodesk/anim"
	"github.com/gogpu/retrodesk/cache"
	"github.com/gogpu/retrodesk/compute"
	"github.com/gogpu/retrodesk/kernel"
	"github.com/gogpu/retrodesk/mesh"
	"github.com/gogpu/retrodesk/perf"
	"github.com/gogpu/retrodesk/quality"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/text"
)

// ErrIncompleteEnv is returned by Env.Validate when a required field is nil.
var ErrIncompleteEnv = errors.New("scene: incomplete environment")

// ImageLoader decodes the image named by src.
type ImageLoader func(src string) (image.Image, error)

// LinkOpener opens url outside the scene, typically in a browser.
type LinkOpener func(url string) error

// Env is the context every element is mounted with.
//
// The metrics source has a single writer, the scene's frame loop; elements
// only read it. Fields are set once before the first mount.
type Env struct {
	Metrics   perf.Source
	Quality   *quality.Selector
	Scheduler *anim.Scheduler
	Targets   *cache.TargetCache
	Meshes    *mesh.Library
	Materials render.Materials
	Text      *text.Layouter

	// One bridge per kernel, shared by all elements.
	TextDrift *compute.Bridge[kernel.TextInput, kernel.TextOutput]
	LEDBlink  *compute.Bridge[kernel.LEDInput, kernel.LEDOutput]

	// Priorities are the scheduler classes of the element kinds. Unset
	// classes fall back to anim.DefaultPriorities.
	Priorities anim.Priorities

	// CacheTargets lets elements share render targets of equal size.
	CacheTargets bool

	LoadImage ImageLoader
	OpenLink  LinkOpener

	// Activate is called with the owner id of a clicked screen.
	Activate func(id string)

	Logger *slog.Logger
}

// Validate reports the required fields that are missing.
func (e *Env) Validate() error {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("Metrics", e.Metrics != nil)
	check("Quality", e.Quality != nil)
	check("Scheduler", e.Scheduler != nil)
	check("Targets", e.Targets != nil)
	check("Meshes", e.Meshes != nil)
	check("Text", e.Text != nil)
	check("TextDrift", e.TextDrift != nil)
	check("LEDBlink", e.LEDBlink != nil)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteEnv, strings.Join(missing, ", "))
	}
	return nil
}

// Priority returns the scheduler classes with defaults filled in.
func (e *Env) Priority() anim.Priorities {
	return e.Priorities.WithDefaults()
}

// Log returns the environment logger, or a discarding logger if none is set.
func (e *Env) Log() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// FrameTime is what an element sees of the current frame.
type FrameTime struct {
	NowMs float64

	// Elapsed is the time in seconds since the scene was mounted.
	Elapsed float64

	Metrics perf.FrameMetrics
	Tier    quality.Tier
	Profile quality.Profile
}

// Element is a mountable part of the scene.
type Element interface {
	Mount(env *Env) error
	Frame(ft FrameTime)
	Unmount()
}
