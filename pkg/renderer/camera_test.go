package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestCameraGetCameraForward(t *testing.T) {
	config := CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		ViewUp:      core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        45.0,
	}
	camera := NewCamera(config)

	forward := camera.GetCameraForward()
	expected := core.NewVec3(0, 0, -1)
	if !forward.ApproxEquals(expected, 1e-9) {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCamera_PinholeViewport(t *testing.T) {
	// 90 degree fov, aspect 2: viewport is 4 wide and 2 tall at distance 1
	config := CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		ViewUp:      core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2.0,
	}
	camera := NewCamera(config)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	tests := []struct {
		name     string
		s, t     float64
		expected core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1)},
		{"upper left", 0, 1, core.NewVec3(-2, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, sampler)
			if !ray.Origin.Equals(config.LookFrom) {
				t.Errorf("Pinhole ray should start at the camera, got %v", ray.Origin)
			}
			if !ray.Direction.ApproxEquals(tt.expected, 1e-9) {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCamera_DefocusBlur(t *testing.T) {
	config := CameraConfig{
		LookFrom:      core.NewVec3(3, 3, 2),
		LookAt:        core.NewVec3(0, 0, -1),
		ViewUp:        core.NewVec3(0, 1, 0),
		VFov:          20,
		AspectRatio:   16.0 / 9.0,
		Aperture:      2.0,
		FocusDistance: 0, // distance to LookAt
	}
	camera := NewCamera(config)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	if camera.LensRadius() != 1.0 {
		t.Fatalf("Expected lens radius 1.0, got %f", camera.LensRadius())
	}

	origins := make(map[core.Vec3]bool)
	for i := 0; i < 100; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)

		// Origins stay on the lens disk
		offset := ray.Origin.Subtract(config.LookFrom)
		if offset.Length() >= camera.LensRadius() {
			t.Fatalf("Ray origin %v is outside the lens", ray.Origin)
		}
		if math.Abs(offset.Dot(camera.GetCameraForward())) > 1e-9 {
			t.Fatalf("Lens offset %v should be perpendicular to the view direction", offset)
		}

		// Every center ray converges on the focus point
		focusPoint := ray.At(1.0)
		if !focusPoint.ApproxEquals(config.LookAt, 1e-9) {
			t.Fatalf("Expected center ray to pass through %v, got %v", config.LookAt, focusPoint)
		}
		origins[ray.Origin] = true
	}

	if len(origins) < 2 {
		t.Error("Expected lens sampling to vary ray origins")
	}
}

func TestCameraConfig_Validate(t *testing.T) {
	valid := DefaultCameraConfig()

	tests := []struct {
		name    string
		modify  func(c *CameraConfig)
		wantErr bool
	}{
		{"default is valid", func(c *CameraConfig) {}, false},
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }, true},
		{"fov 180", func(c *CameraConfig) { c.VFov = 180 }, true},
		{"negative aspect", func(c *CameraConfig) { c.AspectRatio = -1 }, true},
		{"negative aperture", func(c *CameraConfig) { c.Aperture = -0.1 }, true},
		{"negative focus distance", func(c *CameraConfig) { c.FocusDistance = -1 }, true},
		{"look at self", func(c *CameraConfig) { c.LookAt = c.LookFrom }, true},
		{"up parallel to view", func(c *CameraConfig) { c.ViewUp = core.NewVec3(0, 0, 1) }, true},
		{"zero up", func(c *CameraConfig) { c.ViewUp = core.Vec3{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.modify(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{VFov: 30, Aperture: 0.5})

	if merged.VFov != 30 || merged.Aperture != 0.5 {
		t.Errorf("Override fields not applied: %+v", merged)
	}
	if merged.LookAt != base.LookAt || merged.AspectRatio != base.AspectRatio {
		t.Errorf("Zero override fields should keep the base value: %+v", merged)
	}
	if got := NewCamera(merged).GetConfig(); got != merged {
		t.Errorf("GetConfig should return the build configuration, got %+v", got)
	}
}
