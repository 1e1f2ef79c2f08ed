package main

import (
	"os"

	"github.com/urfave/cli"
)

// PrintConfig writes the effective configuration as yaml. Without
// --config that is the default scene.
func PrintConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
