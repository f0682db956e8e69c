package scene

import (
	"slices"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// threeSpheres returns the ground plus glass, diffuse and metal spheres in a row
func threeSpheres(ground core.Vec3) ([]MaterialSpec, []SphereSpec) {
	materials := []MaterialSpec{
		{ID: "ground", Type: MaterialLambertian, Albedo: ground},
		{ID: "glass", Type: MaterialDielectric, IOR: 1.5},
		{ID: "center", Type: MaterialLambertian, Albedo: core.NewVec3(0.7, 0.3, 0.3)},
		{ID: "gold", Type: MaterialMetal, Albedo: core.NewVec3(0.8, 0.6, 0.2), Fuzz: 1.0},
	}
	spheres := []SphereSpec{
		{Center: core.NewVec3(0, -100.5, -1), Radius: 100, Material: "ground"},
		{Center: core.NewVec3(-1, 0, -1), Radius: 0.5, Material: "glass"},
		{Center: core.NewVec3(0, 0, -1), Radius: 0.5, Material: "center"},
		{Center: core.NewVec3(1, 0, -1), Radius: 0.5, Material: "gold"},
	}
	return materials, spheres
}

// NewDefaultScene creates the three-sphere scene viewed through a wide, shallow-focus lens
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	lookFrom := core.NewVec3(3, 3, 2)
	lookAt := core.NewVec3(0, 0, -1)

	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:      lookFrom,
		LookAt:        lookAt,
		ViewUp:        core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      2.0,
		FocusDistance: lookFrom.Subtract(lookAt).Length(), // Center sphere in focus
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	materials, spheres := threeSpheres(core.NewVec3(0.8, 0.8, 0.8))
	return mustBuild(Document{
		Name:        "Default Scene",
		Description: "Glass, diffuse and fuzzy gold spheres with strong defocus blur",
		Camera:      cameraConfig,
		Sampling: renderer.SamplingConfig{
			Width:           400,
			SamplesPerPixel: 100,
			MaxDepth:        50,
		},
		Materials: materials,
		Spheres:   spheres,
	})
}

// NewHollowGlassScene replaces the glass sphere with a hollow shell: a negative-radius
// inner sphere turns the glass inside out so the shell refracts like a bubble
func NewHollowGlassScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:    core.NewVec3(-2, 2, 1),
		LookAt:      core.NewVec3(0, 0, -1),
		ViewUp:      core.NewVec3(0, 1, 0),
		VFov:        20.0,
		AspectRatio: 16.0 / 9.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	materials, spheres := threeSpheres(core.NewVec3(0.8, 0.8, 0.0))
	shell := SphereSpec{Center: core.NewVec3(-1, 0, -1), Radius: -0.45, Material: "glass"}
	spheres = slices.Insert(spheres, 2, shell)

	return mustBuild(Document{
		Name:        "Hollow Glass",
		Description: "Three spheres with a hollow glass shell on the left",
		Camera:      cameraConfig,
		Sampling: renderer.SamplingConfig{
			Width:           400,
			SamplesPerPixel: 100,
			MaxDepth:        50,
		},
		Materials: materials,
		Spheres:   spheres,
	})
}
