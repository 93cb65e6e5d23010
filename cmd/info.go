package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/prism-engine/prism/scene"
)

// Print submesh and material tables for a model.
func ModelInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing model file argument")
	}

	model, err := scene.LoadModel(ctx.Args().First())
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Submesh", "Vertices", "Triangles", "Material"})
	for i, mesh := range model.Meshes {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", len(mesh.Vertices)),
			fmt.Sprintf("%d", len(mesh.Indices)/3),
			model.Materials[mesh.MaterialIndex].Name,
		})
	}
	table.Render()

	buf.WriteString("\n")

	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Material", "Diffuse", "Specular", "Emission", "Roughness"})
	for _, mat := range model.Materials {
		table.Append([]string{
			mat.Name,
			fmtVec3(mat.Diffuse),
			fmtVec3(mat.Specular),
			fmtVec3(mat.Emission),
			fmt.Sprintf("%.3f", mat.Roughness),
		})
	}
	table.Render()

	logger.Noticef("model contents\n%s", buf.String())
	return nil
}

func fmtVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("%.3f %.3f %.3f", v.X(), v.Y(), v.Z())
}
