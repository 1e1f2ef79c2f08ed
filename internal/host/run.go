//go:build cgo

package host

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/retrodesk"
	"github.com/gogpu/retrodesk/render"
)

// Run builds a scene on window-backed targets and shows it until the
// window closes or Escape is pressed. The scene is closed on return.
func Run(build func(render.Allocator) (*retrodesk.Scene, error), opts Options) error {
	opts = opts.withDefaults()
	s, err := build(Allocator{})
	if err != nil {
		return err
	}
	defer s.Close()

	g := NewGame(s, opts)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.TPS)
	opts.Logger.Info("window opened", "width", opts.Width, "height", opts.Height, "screens", len(g.ids))
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
