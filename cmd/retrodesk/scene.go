package main

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/urfave/cli"

	"github.com/gogpu/retrodesk"
	"github.com/gogpu/retrodesk/config"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/screen"
)

// loadConfig reads the --config file, or returns the defaults.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.GlobalString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newScene builds a scene from the command line configuration.
func newScene(ctx *cli.Context, alloc render.Allocator) (*retrodesk.Scene, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return retrodesk.New(cfg, alloc,
		retrodesk.WithImageLoader(screen.LoadImageFile),
		retrodesk.WithLinkOpener(openBrowser),
	)
}

// openBrowser opens url with the platform's default handler.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
