package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

func TestParseJob(t *testing.T) {
	tests := []struct {
		name     string
		fields   [5]string
		expected Job
		wantErr  string
	}{
		{"all set", [5]string{"default", "64", "4", "8", "7"}, Job{Scene: "default", Width: 64, Samples: 4, Depth: 8, Seed: 7}, ""},
		{"blank keeps defaults", [5]string{"hollow-glass", "", " ", "", ""}, Job{Scene: "hollow-glass"}, ""},
		{"trims spaces", [5]string{"default", " 32 ", "2", "3", " 9"}, Job{Scene: "default", Width: 32, Samples: 2, Depth: 3, Seed: 9}, ""},
		{"no scene", [5]string{"", "64", "4", "8", "7"}, Job{}, "no scene selected"},
		{"zero width", [5]string{"default", "0", "", "", ""}, Job{}, "width must be a positive integer"},
		{"bad samples", [5]string{"default", "", "many", "", ""}, Job{}, "samples must be a positive integer"},
		{"negative depth", [5]string{"default", "", "", "-1", ""}, Job{}, "depth must be a positive integer"},
		{"bad seed", [5]string{"default", "", "", "", "x"}, Job{}, "seed must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := ParseJob(tt.fields[0], tt.fields[1], tt.fields[2], tt.fields[3], tt.fields[4])
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if job != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, job)
			}
		})
	}
}

func TestJobPrepare_MergesOverScene(t *testing.T) {
	_, sampling, err := Job{Scene: "default", Samples: 3}.Prepare()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sampling.SamplesPerPixel != 3 {
		t.Errorf("Expected 3 spp, got %d", sampling.SamplesPerPixel)
	}
	if sampling.Width != 400 || sampling.MaxDepth != 50 || sampling.Seed != 42 {
		t.Errorf("Expected scene defaults for width, depth and seed, got %+v", sampling)
	}

	if _, _, err := (Job{Scene: "no-such-scene"}).Prepare(); err == nil {
		t.Error("Expected an error for an unknown scene")
	}
}

func TestJobPrepare_AspectRatio(t *testing.T) {
	s, sampling, err := Job{Scene: "default", Width: 100, AspectRatio: 2}.Prepare()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := s.ImageHeight(sampling.Width); got != 50 {
		t.Errorf("Expected height 50 for aspect 2, got %d", got)
	}
	if s.Camera.GetConfig().AspectRatio != 2 {
		t.Errorf("Expected the camera to be rebuilt with aspect 2, got %v", s.Camera.GetConfig().AspectRatio)
	}
}

func TestCanvasAspect(t *testing.T) {
	tests := []struct {
		size     fyne.Size
		expected float64
	}{
		{fyne.NewSize(600, 300), 2},
		{fyne.NewSize(300, 600), 0.5},
		{fyne.NewSize(0, 0), 0},
		{fyne.NewSize(100, 0), 0},
	}
	for _, tt := range tests {
		if got := canvasAspect(tt.size); got != tt.expected {
			t.Errorf("canvasAspect(%v) = %v, expected %v", tt.size, got, tt.expected)
		}
	}
}

func TestJobRender_ReportsProgress(t *testing.T) {
	job := Job{Scene: "hollow-glass", Width: 32, Samples: 1, Depth: 4, Seed: 3}

	var fractions []float64
	frame, stats, err := job.Render(context.Background(), renderer.NopLogger{}, func(f float64) {
		fractions = append(fractions, f)
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if frame.Width != 32 || frame.Height != 18 {
		t.Errorf("Expected 32x18 frame, got %dx%d", frame.Width, frame.Height)
	}
	if stats.RowsRendered != 18 {
		t.Errorf("Expected 18 rows, got %d", stats.RowsRendered)
	}
	if len(fractions) != 18 || fractions[len(fractions)-1] != 1 {
		t.Errorf("Expected one progress report per row ending at 1, got %v", fractions)
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Errorf("Progress went backwards: %v", fractions)
			break
		}
	}
}

func TestJobRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Job{Scene: "default", Width: 32, Samples: 1}.Render(ctx, renderer.NopLogger{}, nil)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestStatusLine(t *testing.T) {
	frame := renderer.NewFrame(40, 20)
	stats := renderer.RenderStats{
		TotalSamples:    8000,
		SamplesPerPixel: 10,
		Workers:         4,
		Elapsed:         2 * time.Second,
	}

	expected := "40x20, 10 spp in 2s (4000 samples/s, 4 workers)"
	if got := StatusLine(frame, stats); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}
