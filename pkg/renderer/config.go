package renderer

import "runtime"

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   `json:"width,omitempty"`           // Image width; height follows from the camera aspect ratio
	SamplesPerPixel int   `json:"samplesPerPixel,omitempty"` // Number of rays per pixel
	MaxDepth        int   `json:"maxDepth,omitempty"`        // Maximum ray bounce depth
	Seed            int64 `json:"seed,omitempty"`            // Base seed; each row derives its own stream from it
	NumWorkers      int   `json:"-"`                         // Parallel row workers (0 = runtime.NumCPU())
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
		NumWorkers:      runtime.NumCPU(),
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	if override.Width != 0 {
		base.Width = override.Width
	}
	if override.SamplesPerPixel != 0 {
		base.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		base.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		base.Seed = override.Seed
	}
	if override.NumWorkers != 0 {
		base.NumWorkers = override.NumWorkers
	}
	return base
}

// ImageHeight returns the frame height for a width and aspect ratio, never less than 1
func ImageHeight(width int, aspectRatio float64) int {
	if aspectRatio <= 0 {
		return max(1, width)
	}
	return max(1, int(float64(width)/aspectRatio))
}
