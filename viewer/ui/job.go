package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Job is one render requested from the viewer
type Job struct {
	Scene   string
	Width   int
	Samples int
	Depth   int
	Seed    int64

	AspectRatio float64 // 0 keeps the scene camera's aspect ratio
}

// ParseJob reads a job from the text of the viewer's input fields.
// Empty fields keep the scene defaults.
func ParseJob(sceneName, width, samples, depth, seed string) (Job, error) {
	job := Job{Scene: sceneName}
	if job.Scene == "" {
		return Job{}, fmt.Errorf("no scene selected")
	}

	fields := []struct {
		name  string
		text  string
		value *int
	}{
		{"width", width, &job.Width},
		{"samples", samples, &job.Samples},
		{"depth", depth, &job.Depth},
	}
	for _, f := range fields {
		text := strings.TrimSpace(f.text)
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil || v < 1 {
			return Job{}, fmt.Errorf("%s must be a positive integer, got %q", f.name, f.text)
		}
		*f.value = v
	}

	if text := strings.TrimSpace(seed); text != "" {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Job{}, fmt.Errorf("seed must be an integer, got %q", seed)
		}
		job.Seed = v
	}
	return job, nil
}

// Prepare resolves the job's scene and sampling configuration
func (j Job) Prepare() (*scene.Scene, renderer.SamplingConfig, error) {
	s, err := scene.Create(j.Scene)
	if err != nil {
		return nil, renderer.SamplingConfig{}, err
	}
	if j.AspectRatio > 0 {
		if s, err = s.WithAspectRatio(j.AspectRatio); err != nil {
			return nil, renderer.SamplingConfig{}, err
		}
	}
	sampling := renderer.MergeSamplingConfig(s.GetSamplingConfig(), renderer.SamplingConfig{
		Width:           j.Width,
		SamplesPerPixel: j.Samples,
		MaxDepth:        j.Depth,
		Seed:            j.Seed,
	})
	return s, sampling, nil
}

// Render runs the job on the row worker pool. onProgress receives the fraction of
// rows done and may be nil.
func (j Job) Render(ctx context.Context, logger core.Logger, onProgress func(float64)) (*renderer.Frame, renderer.RenderStats, error) {
	s, sampling, err := j.Prepare()
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	height := s.ImageHeight(sampling.Width)
	rt := renderer.NewRaytracer(s, sampling, logger)
	opts := renderer.RenderOptions{NumWorkers: sampling.NumWorkers}
	if onProgress != nil {
		opts.OnRow = func(p renderer.RowProgress) {
			onProgress(float64(p.RowsDone) / float64(p.TotalRows))
		}
	}
	return rt.RenderContext(ctx, sampling.Width, height, sampling.SamplesPerPixel, opts)
}

// StatusLine summarizes a finished render for the status bar
func StatusLine(frame *renderer.Frame, stats renderer.RenderStats) string {
	return fmt.Sprintf("%dx%d, %d spp in %v (%.0f samples/s, %d workers)",
		frame.Width, frame.Height, stats.SamplesPerPixel,
		stats.Elapsed.Round(time.Millisecond), stats.SamplesPerSecond(), stats.Workers)
}
