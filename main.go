package main

import (
	"os"

	"github.com/prism-engine/prism/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "prism"
	app.Usage = "deferred path tracer with an interactive viewport"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
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
			Name:  "render",
			Usage: "render an interactive view of a model",
			Description: `
Rasterize the model into a position/normal/material-index g-buffer and
shade every pixel with a compute-driven path tracer. The traced image
is presented in a window; WASDQE moves the camera and dragging with
the left mouse button orbits it.`,
			ArgsUsage: "model.obj",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1000,
					Usage: "render target width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 1000,
					Usage: "render target height",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: 45.0,
					Usage: "vertical field of view in degrees",
				},
				cli.StringFlag{
					Name:  "env, e",
					Usage: "equirectangular EXR environment map",
				},
			},
			Action: cmd.RenderInteractive,
		},
		{
			Name:      "info",
			Usage:     "print submesh and material tables for a model",
			ArgsUsage: "model.obj",
			Action:    cmd.ModelInfo,
		},
	}

	app.Run(os.Args)
}
