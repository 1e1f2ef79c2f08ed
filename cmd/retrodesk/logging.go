package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/gogpu/retrodesk"
)

// setupLogging installs a text logger on stderr when -v or -vv is set.
func setupLogging(ctx *cli.Context) *slog.Logger {
	return setupLoggingTo(ctx, os.Stderr)
}

func setupLoggingTo(ctx *cli.Context, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if ctx.GlobalBool("v") {
		level = slog.LevelInfo
	}
	if ctx.GlobalBool("vv") {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	retrodesk.SetLogger(l)
	return l
}
