// Command retrodesk runs the retro desk scene in a window, headless, or
// under a terminal monitor.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "retrodesk"
	app.Usage = "performance-adaptive retro computer desk"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "scene configuration file (yaml)",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "show the scene in a window",
			Description: `
Open a window with every screen of the scene on a grid. The mouse wheel moves
the camera, which switches quality tiers; clicking a screen activates it.
Press Escape to quit.`,
			Flags: []cli.Flag{
				cli.IntFlag{Name: "width", Value: 1280, Usage: "window width"},
				cli.IntFlag{Name: "height", Value: 760, Usage: "window height"},
				cli.IntFlag{Name: "tps", Value: 60, Usage: "updates per second"},
				cli.Float64Flag{Name: "distance", Value: 3, Usage: "initial camera distance"},
			},
			Action: Run,
		},
		{
			Name:  "headless",
			Usage: "run frames without a window and report statistics",
			Description: `
Drive the scene with a simulated clock. With --sweep the camera moves from
near to far and back so every quality tier is visited.`,
			Flags: []cli.Flag{
				cli.IntFlag{Name: "frames", Value: 600, Usage: "number of frames"},
				cli.Float64Flag{Name: "fps", Value: 60, Usage: "simulated frame rate"},
				cli.Float64Flag{Name: "distance", Value: 3, Usage: "camera distance"},
				cli.BoolFlag{Name: "sweep", Usage: "sweep the camera distance"},
				cli.BoolFlag{Name: "gpu", Usage: "allocate targets on the noop GPU device"},
			},
			Action: Headless,
		},
		{
			Name:  "monitor",
			Usage: "run headless with live statistics in the terminal",
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "fps", Value: 60, Usage: "target frame rate"},
				cli.Float64Flag{Name: "distance", Value: 3, Usage: "initial camera distance"},
			},
			Action: Monitor,
		},
		{
			Name:   "shaders",
			Usage:  "compile the screen shaders and report their sizes",
			Action: Shaders,
		},
		{
			Name:   "config",
			Usage:  "print the default configuration",
			Action: PrintConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "retrodesk:", err)
		os.Exit(1)
	}
}
