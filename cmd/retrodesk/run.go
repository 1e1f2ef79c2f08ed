package main

import (
	"github.com/urfave/cli"

	"github.com/gogpu/retrodesk"
	"github.com/gogpu/retrodesk/internal/host"
	"github.com/gogpu/retrodesk/render"
)

// Run shows the scene in a window.
func Run(ctx *cli.Context) error {
	log := setupLogging(ctx)
	return host.Run(func(alloc render.Allocator) (*retrodesk.Scene, error) {
		return newScene(ctx, alloc)
	}, host.Options{
		Width:    ctx.Int("width"),
		Height:   ctx.Int("height"),
		TPS:      ctx.Int("tps"),
		Distance: ctx.Float64("distance"),
		Logger:   log,
	})
}
