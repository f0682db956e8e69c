package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneName string
	Width     int
	Samples   int
	MaxDepth  int
	Seed      int64
	Workers   int
	VFov      float64
	Aperture  float64
	Out       string
	Format    string
}

func main() {
	// Parse command line flags
	var cfg Config
	flag.StringVar(&cfg.SceneName, "scene", "default", "Scene: built-in name, name of a file in scenes/, or path to a .json scene")
	flag.IntVar(&cfg.Width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&cfg.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&cfg.MaxDepth, "depth", 0, "Maximum ray bounces (0 = scene default)")
	flag.Int64Var(&cfg.Seed, "seed", 0, "Random seed (0 = scene default)")
	flag.IntVar(&cfg.Workers, "workers", 0, "Number of parallel row workers (0 = number of CPUs)")
	flag.Float64Var(&cfg.VFov, "vfov", 0, "Vertical field of view in degrees (0 = scene default)")
	flag.Float64Var(&cfg.Aperture, "aperture", 0, "Lens aperture (0 = scene default)")
	flag.StringVar(&cfg.Out, "out", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	flag.StringVar(&cfg.Format, "format", "", "Output format: 'png' or 'ppm' (default from -out, else png)")
	list := flag.Bool("list", false, "List available scenes")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Weekend Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		if err := printScenes(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
		return
	}

	if *list {
		if err := printScenes(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printScenes lists every scene accepted by -scene
func printScenes() error {
	scenes, err := scene.ListScenes()
	if err != nil {
		return err
	}
	fmt.Println("Available scenes:")
	for _, info := range scenes {
		fmt.Printf("  %-16s %s\n", info.ID, info.Description)
	}
	return nil
}

// createScene resolves the scene name given on the command line
func createScene(sceneName string) (*scene.Scene, error) {
	if sceneName == "" {
		return nil, errors.New("no scene given")
	}
	return scene.Create(sceneName)
}

// sceneBaseName returns the name used for the scene's output directory
func sceneBaseName(sceneName string) string {
	if strings.HasSuffix(sceneName, ".json") {
		base := filepath.Base(sceneName)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return sceneName
}

// createOutputDir returns the output directory for a scene
func createOutputDir(sceneName string) string {
	return filepath.Join("output", sceneBaseName(sceneName))
}

// resolveOutput picks the output path and format from the flags
func resolveOutput(cfg Config, now time.Time) (path, format string, err error) {
	format = cfg.Format
	if cfg.Out != "" && format == "" {
		if format, err = output.FormatFromPath(cfg.Out); err != nil {
			return "", "", err
		}
	}
	if format == "" {
		format = output.FormatPNG
	}
	if format != output.FormatPNG && format != output.FormatPPM {
		return "", "", fmt.Errorf("unsupported output format %q", format)
	}

	path = cfg.Out
	if path == "" {
		timestamp := now.Format("20060102_150405")
		path = filepath.Join(createOutputDir(cfg.SceneName), fmt.Sprintf("render_%s.%s", timestamp, format))
	}
	return path, format, nil
}

// applyOverrides applies the command line options on top of the scene defaults
func applyOverrides(s *scene.Scene, cfg Config) (*scene.Scene, renderer.SamplingConfig, error) {
	if cfg.VFov != 0 || cfg.Aperture != 0 {
		var err error
		s, err = s.WithCamera(renderer.MergeCameraConfig(s.CameraConfig, renderer.CameraConfig{
			VFov:     cfg.VFov,
			Aperture: cfg.Aperture,
		}))
		if err != nil {
			return nil, renderer.SamplingConfig{}, err
		}
	}

	sampling := renderer.MergeSamplingConfig(s.SamplingConfig, renderer.SamplingConfig{
		Width:           cfg.Width,
		SamplesPerPixel: cfg.Samples,
		MaxDepth:        cfg.MaxDepth,
		Seed:            cfg.Seed,
		NumWorkers:      cfg.Workers,
	})
	if sampling.Width < 1 || sampling.SamplesPerPixel < 1 || sampling.MaxDepth < 1 {
		return nil, renderer.SamplingConfig{}, fmt.Errorf("width, samples and depth must be positive (got %d, %d, %d)",
			sampling.Width, sampling.SamplesPerPixel, sampling.MaxDepth)
	}
	return s, sampling, nil
}

// run renders the selected scene and saves the image
func run(cfg Config, logger core.Logger) error {
	logger.Printf("Starting Weekend Raytracer...\n")

	selectedScene, err := createScene(cfg.SceneName)
	if err != nil {
		return err
	}
	selectedScene, sampling, err := applyOverrides(selectedScene, cfg)
	if err != nil {
		return err
	}

	path, format, err := resolveOutput(cfg, time.Now())
	if err != nil {
		return err
	}

	width := sampling.Width
	height := selectedScene.ImageHeight(width)
	logger.Printf("Using scene %q (%d spheres)\n", selectedScene.Name, selectedScene.GetPrimitiveCount())

	raytracer := renderer.NewRaytracer(selectedScene, sampling, logger)
	frame, stats, err := raytracer.RenderContext(context.Background(), width, height, sampling.SamplesPerPixel,
		renderer.RenderOptions{NumWorkers: sampling.NumWorkers})
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Printf("Render completed in %v\n", stats.Elapsed)
	logger.Printf("Samples: %d (%d per pixel, %.0f samples/s on %d workers)\n",
		stats.TotalSamples, stats.SamplesPerPixel, stats.SamplesPerSecond(), stats.Workers)

	if err := output.Save(path, frame, format); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", path)
	return nil
}
