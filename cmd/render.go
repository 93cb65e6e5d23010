package cmd

import (
	"errors"

	"github.com/urfave/cli"

	"github.com/prism-engine/prism/renderer"
	"github.com/prism-engine/prism/scene"
)

// Render an interactive view of a model.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing model file argument")
	}

	model, err := scene.LoadModel(ctx.Args().First())
	if err != nil {
		return err
	}
	logger.Noticef(
		"loaded model: %d submeshes, %d triangles, %d materials (%d emissive submeshes)",
		len(model.Meshes), model.TriangleCount(), len(model.Materials), model.EmissiveMeshCount(),
	)

	opts := renderer.Options{
		FrameW:     uint32(ctx.Int("width")),
		FrameH:     uint32(ctx.Int("height")),
		FOV:        float32(ctx.Float64("fov")),
		EnvMapPath: ctx.String("env"),
		Title:      "prism",
	}

	r, err := renderer.NewInteractive(model, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		return err
	}

	stats := r.Stats()
	logger.Noticef(
		"rendered %d frames, last frame time %s (%.1f fps)",
		stats.Frames, stats.FrameTime, stats.FPS,
	)
	return nil
}
