//go:build !cgo

package host

import (
	"github.com/gogpu/retrodesk"
	"github.com/gogpu/retrodesk/render"
)

// Run returns ErrNoWindow.
func Run(_ func(render.Allocator) (*retrodesk.Scene, error), _ Options) error {
	return ErrNoWindow
}
