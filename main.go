package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, renderer.NewDefaultLogger()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run renders one image as described by the .env file, the environment and args
func run(args []string, stdout io.Writer, logger core.Logger) error {
	flags := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	flags.SetOutput(stdout)

	envFile := flags.String("env", ".env", "Settings file; environment variables and flags override it")
	sceneID := flags.String("scene", "", "Scene ID, e.g. 'random', 'showcase' or 'mesh:scenes/bunny.obj'")
	meshPath := flags.String("mesh", "", "Mesh file for the 'mesh' scene")
	scenesDir := flags.String("scenes-dir", "", "Directory scanned for mesh scenes")
	texturePath := flags.String("texture", "", "Image for the 'textures' scene")
	width := flags.Int("width", 0, "Image width in pixels")
	height := flags.Int("height", 0, "Image height in pixels")
	samples := flags.Int("samples", 0, "Samples per pixel")
	depth := flags.Int("depth", 0, "Maximum bounce depth")
	workers := flags.Int("workers", 0, "Worker goroutines (0 = all CPUs)")
	seed := flags.Int64("seed", 0, "Random seed for scene generation and sampling")
	outputPath := flags.String("output", "", "Output file; the extension picks the format")
	thumbnail := flags.Int("thumbnail", -1, "Also write a thumbnail with this longest side")
	publish := flags.Bool("publish", false, "Upload the render to the configured S3 bucket")
	list := flags.Bool("list", false, "List available scenes and exit")

	flags.Usage = func() {
		fmt.Fprintln(stdout, "Monte Carlo Path Tracer")
		fmt.Fprintln(stdout, "Usage: pathtracer [options]")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		flags.PrintDefaults()
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Settings are read from .env (PT_WIDTH, PT_SCENE, S3_BUCKET, ...) first.")
		fmt.Fprintln(stdout, "Output defaults to output/<scene>/render_<timestamp>.png")
	}

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	// Only flags given on the command line override the loaded settings
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneID
		case "mesh":
			cfg.MeshPath = *meshPath
		case "scenes-dir":
			cfg.ScenesDir = *scenesDir
		case "texture":
			cfg.TexturePath = *texturePath
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "samples":
			cfg.Samples = *samples
		case "depth":
			cfg.MaxDepth = *depth
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "output":
			cfg.Output = *outputPath
		case "thumbnail":
			cfg.ThumbnailSize = *thumbnail
		}
	})

	if *list {
		return listScenes(stdout, cfg.ScenesDir)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return render(cfg, *publish, logger)
}

func listScenes(w io.Writer, scenesDir string) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-24s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

func render(cfg config.Config, publish bool, logger core.Logger) error {
	logger.Printf("Starting path tracer...\n")

	sceneObj, err := scene.Create(cfg.Scene, scene.Options{
		AspectRatio: float64(cfg.Width) / float64(cfg.Height),
		Seed:        cfg.Seed,
		MeshPath:    cfg.MeshPath,
		TexturePath: cfg.TexturePath,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	logger.Printf("Scene %s: %d shapes, BVH depth %d\n", sceneObj.Name, sceneObj.Shapes, sceneObj.BVHStats.MaxDepth)

	raytracer := renderer.NewRaytracer(renderer.SamplingConfig{
		SamplesPerPixel: cfg.Samples,
		MaxDepth:        cfg.MaxDepth,
		NumWorkers:      cfg.Workers,
		Seed:            cfg.Seed,
	}, logger)

	reporter := renderer.NewProgressReporter(raytracer.Progress(), logger, 2*time.Second)
	reporter.Start()
	buf, stats, err := raytracer.RenderWithStats(cfg.Width, cfg.Height, sceneObj.Camera, sceneObj.World)
	reporter.Stop()
	if err != nil {
		return err
	}

	logger.Printf("Render completed in %v (%d workers, %.0f samples/s)\n",
		stats.Duration.Round(time.Millisecond), stats.Workers, stats.SamplesPerSecond())

	img, err := renderer.ToImage(buf, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	path := cfg.Output
	if path == "" {
		path = filepath.Join(createOutputDir(cfg.Scene), fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}
	if err := output.WriteFile(path, img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", path)

	files := []string{path}
	if cfg.ThumbnailSize > 0 {
		thumbPath := thumbnailPath(path)
		if err := output.WriteFile(thumbPath, output.Thumbnail(img, cfg.ThumbnailSize)); err != nil {
			return err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbPath)
		files = append(files, thumbPath)
	}

	if !publish {
		return nil
	}
	if !cfg.PublishEnabled() {
		return output.ErrNoBucket
	}
	return publishFiles(cfg.S3, files, logger)
}

func publishFiles(s3Config output.S3Config, files []string, logger core.Logger) error {
	publisher, err := output.NewS3Publisher(s3Config, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range files {
		format, err := output.FormatFromPath(path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		key := publisher.Key(filepath.ToSlash(filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path))))
		if err := publisher.Publish(ctx, key, data, output.ContentType(format)); err != nil {
			return err
		}
	}
	return nil
}

// createOutputDir returns output/<name> for a scene ID, naming mesh scenes after their file
func createOutputDir(sceneID string) string {
	name := sceneID
	if path, ok := strings.CutPrefix(sceneID, "mesh:"); ok {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if name == "" || name == "." {
		name = "scene"
	}
	return filepath.Join("output", name)
}

// thumbnailPath inserts "_thumb" before the extension
func thumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}
