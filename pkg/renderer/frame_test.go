package renderer

import (
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestFrame_SetAndAt(t *testing.T) {
	frame := NewFrame(3, 2)
	if len(frame.Pixels) != 6 {
		t.Fatalf("Expected 6 pixels, got %d", len(frame.Pixels))
	}

	c := core.NewVec3(0.1, 0.2, 0.3)
	frame.Set(2, 1, c)
	if frame.At(2, 1) != c {
		t.Errorf("Expected %v, got %v", c, frame.At(2, 1))
	}
	if frame.Pixels[5] != c {
		t.Error("Pixels should be row-major")
	}

	row := frame.Row(1)
	row[0] = core.NewVec3(1, 1, 1)
	if frame.At(0, 1) != row[0] {
		t.Error("Row should share storage with the frame")
	}
}

func TestFrame_RGB8(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected uint8
	}{
		{"black", 0.0, 0},
		{"half", 0.5, 128},
		{"clamped max", 0.999, 255},
		{"above range", 1.5, 255},
		{"below range", -0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := NewFrame(1, 1)
			frame.Set(0, 0, core.NewVec3(tt.value, tt.value, tt.value))
			r, g, b := frame.RGB8(0, 0)
			if r != tt.expected || g != tt.expected || b != tt.expected {
				t.Errorf("Expected %d, got (%d, %d, %d)", tt.expected, r, g, b)
			}
		})
	}
}

func TestFrame_ToRGBAFlipsRows(t *testing.T) {
	frame := NewFrame(2, 2)
	frame.Set(0, 0, core.NewVec3(0.999, 0, 0)) // bottom-left red
	frame.Set(1, 1, core.NewVec3(0, 0, 0.999)) // top-right blue

	img := frame.ToRGBA()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("Unexpected image bounds %v", img.Bounds())
	}

	if c := img.RGBAAt(0, 1); c.R != 255 || c.B != 0 || c.A != 255 {
		t.Errorf("Expected red at image bottom-left, got %v", c)
	}
	if c := img.RGBAAt(1, 0); c.B != 255 || c.R != 0 {
		t.Errorf("Expected blue at image top-right, got %v", c)
	}
}

func TestImageHeight(t *testing.T) {
	tests := []struct {
		width    int
		aspect   float64
		expected int
	}{
		{400, 16.0 / 9.0, 225},
		{1200, 3.0 / 2.0, 800},
		{1, 16.0 / 9.0, 1},
		{100, 0, 100},
	}

	for _, tt := range tests {
		if got := ImageHeight(tt.width, tt.aspect); got != tt.expected {
			t.Errorf("ImageHeight(%d, %f) = %d, expected %d", tt.width, tt.aspect, got, tt.expected)
		}
	}
}

func TestMergeSamplingConfig(t *testing.T) {
	base := DefaultSamplingConfig()
	merged := MergeSamplingConfig(base, SamplingConfig{SamplesPerPixel: 8, Seed: 99})

	if merged.SamplesPerPixel != 8 || merged.Seed != 99 {
		t.Errorf("Override fields not applied: %+v", merged)
	}
	if merged.Width != base.Width || merged.MaxDepth != 50 {
		t.Errorf("Zero override fields should keep the base value: %+v", merged)
	}
}
