package cmd

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// RenderFlags are the options of the render command. Sampling flags left
// unset keep the values chosen by the scene.
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "default",
		Usage: "built-in scene to render",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "spp",
		Usage: "samples per pixel",
	},
	cli.IntFlag{
		Name:  "depth",
		Usage: "maximum recursion depth",
	},
	cli.IntFlag{
		Name:  "max-rays",
		Usage: "glossy reflection rays for primary hits",
	},
	cli.IntFlag{
		Name:  "occlusion-depth",
		Usage: "cast shadow rays only below this depth",
	},
	cli.Int64Flag{
		Name:  "seed",
		Usage: "seed for pixel order and sampling",
	},
	cli.StringFlag{
		Name:  "accel",
		Value: accel.KindKdTree,
		Usage: fmt.Sprintf("acceleration structure, one of %v", accel.Kinds),
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "number of render workers, 0 uses every logical core",
	},
	cli.IntFlag{
		Name:  "chunk",
		Value: renderer.DefaultConfig().ChunkSize,
		Usage: "pixels per worker task",
	},
	cli.StringFlag{
		Name:  "mesh",
		Usage: "PLY triangle mesh to add to the scene",
	},
	cli.Float64Flag{
		Name:  "mesh-scale",
		Value: 1.0,
		Usage: "uniform scale applied to the mesh",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "frame.png",
		Usage: "image filename for the rendered frame",
	},
}

// Render a built-in scene to a PNG file.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	s, err := scene.NewByName(ctx.String("scene"))
	if err != nil {
		return err
	}
	applySamplingFlags(ctx, &s.SamplingConfig)
	s.Accelerator = ctx.String("accel")

	if path := ctx.String("mesh"); path != "" {
		mesh, err := loaders.LoadPLY(path)
		if err != nil {
			return err
		}
		scale := ctx.Float64("mesh-scale")
		mat := material.NewPhysical(core.NewVec3(0.8, 0.8, 0.8), 0.3, 0)
		added := s.AddMesh(mesh, core.Scale(core.NewVec3(scale, scale, scale)), mat)
		logger.Infof("added %d mesh triangles from %s", added, path)
	}

	if err := s.Preprocess(); err != nil {
		return err
	}

	config := renderer.DefaultConfig()
	config.ChunkSize = ctx.Int("chunk")
	config.NumWorkers = ctx.Int("workers")
	model, cores := hostInfo()
	if config.NumWorkers <= 0 {
		config.NumWorkers = cores
	}
	logger.Infof("host: %s, %d logical cores", model, cores)

	r := renderer.NewRenderer(s, config)
	lastReport := time.Now()
	r.SetProgress(func(done, total int, rays int64) {
		if time.Since(lastReport) < time.Second && done < total {
			return
		}
		lastReport = time.Now()
		logger.Infof("%5.1f%% done, %d rays", 100*float64(done)/float64(total), rays)
	})

	img, stats := r.Render()

	out := ctx.String("out")
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}

	displayRenderStats(stats)
	displayAcceleratorStats(stats.Accelerator)
	logger.Noticef("frame saved to %s", out)
	return nil
}

// applySamplingFlags overrides the scene sampling settings with the flags
// given on the command line
func applySamplingFlags(ctx *cli.Context, config *scene.SamplingConfig) {
	ints := []struct {
		flag   string
		target *int
	}{
		{"width", &config.Width},
		{"height", &config.Height},
		{"spp", &config.SamplesPerPixel},
		{"depth", &config.MaxDepth},
		{"max-rays", &config.MaxReflectedRays},
		{"occlusion-depth", &config.MaxOcclusionDepth},
	}
	for _, opt := range ints {
		if ctx.IsSet(opt.flag) {
			*opt.target = ctx.Int(opt.flag)
		}
	}
	if ctx.IsSet("seed") {
		config.Seed = ctx.Int64("seed")
	}
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Resolution", "Spp", "Workers", "Chunks", "Coverage", "Rays", "Rays/pixel", "Rays/sec"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d", stats.SamplesPerPixel),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d", stats.Chunks),
		fmt.Sprintf("%02.1f %%", 100*float64(stats.CoveredPixels)/float64(max(stats.TotalPixels, 1))),
		fmt.Sprintf("%d", stats.Rays),
		fmt.Sprintf("%.1f", stats.RaysPerPixel()),
		fmt.Sprintf("%.0f", stats.RaysPerSecond()),
	})
	table.SetFooter([]string{"", "", "", "", "", "", "TOTAL", stats.Elapsed.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}

func displayAcceleratorStats(stats accel.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Accelerator", "Primitives", "Unbounded", "Nodes", "Leaves", "Max depth", "References", "Build time"})
	table.Append([]string{
		stats.Kind,
		fmt.Sprintf("%d", stats.Primitives),
		fmt.Sprintf("%d", stats.Unbounded),
		fmt.Sprintf("%d", stats.Nodes),
		fmt.Sprintf("%d", stats.Leaves),
		fmt.Sprintf("%d", stats.MaxDepth),
		fmt.Sprintf("%d", stats.References),
		stats.BuildTime.String(),
	})

	table.Render()
	logger.Noticef("accelerator statistics\n%s", buf.String())
}
