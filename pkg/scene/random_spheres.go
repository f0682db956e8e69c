package scene

import (
	"fmt"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// DefaultLayoutSeed is the seed used for the random sphere layout when none is given
const DefaultLayoutSeed int64 = 42

// NewRandomSpheresScene creates the cover scene: a field of small random spheres around
// three large ones. The same seed always produces the same layout.
func NewRandomSpheresScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		ViewUp:        core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	sampler := core.NewSeededSampler(seed)

	materials := []MaterialSpec{
		{ID: "ground", Type: MaterialLambertian, Albedo: core.NewVec3(0.5, 0.5, 0.5)},
		{ID: "glass", Type: MaterialDielectric, IOR: 1.5},
		{ID: "brown", Type: MaterialLambertian, Albedo: core.NewVec3(0.4, 0.2, 0.1)},
		{ID: "mirror", Type: MaterialMetal, Albedo: core.NewVec3(0.4, 0.2, 0.1), Fuzz: 0.0},
	}
	spheres := []SphereSpec{
		{Center: core.NewVec3(0, -1000, 0), Radius: 1000, Material: "ground"},
	}

	// Keep the small spheres clear of the big metal one
	clearing := core.NewVec3(4, 0.2, 0)

	for i := -11; i < 11; i++ {
		for j := -11; j < 11; j++ {
			// The material is drawn before the position, even for skipped cells
			spec := randomMaterial(sampler)
			center := core.NewVec3(
				float64(i)+0.9*sampler.Get1D(),
				0.2,
				float64(j)+0.9*sampler.Get1D(),
			)
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			if spec.Type == MaterialDielectric {
				spheres = append(spheres, SphereSpec{Center: center, Radius: 0.2, Material: "glass"})
				continue
			}
			spec.ID = fmt.Sprintf("small-%d-%d", i+11, j+11)
			materials = append(materials, spec)
			spheres = append(spheres, SphereSpec{Center: center, Radius: 0.2, Material: spec.ID})
		}
	}

	spheres = append(spheres,
		SphereSpec{Center: core.NewVec3(0, 1, 0), Radius: 1.0, Material: "glass"},
		SphereSpec{Center: core.NewVec3(-4, 1, 0), Radius: 1.0, Material: "brown"},
		SphereSpec{Center: core.NewVec3(4, 1, 0), Radius: 1.0, Material: "mirror"},
	)

	return mustBuild(Document{
		Name:        "Random Spheres",
		Description: fmt.Sprintf("Field of random small spheres around three large ones (layout seed %d)", seed),
		Camera:      cameraConfig,
		Sampling: renderer.SamplingConfig{
			Width:           1200,
			SamplesPerPixel: 500,
			MaxDepth:        50,
		},
		Materials: materials,
		Spheres:   spheres,
	})
}

// randomMaterial picks diffuse 80%, metal 15% and glass 5% of the time
func randomMaterial(sampler core.Sampler) MaterialSpec {
	choice := sampler.Get1D()
	switch {
	case choice < 0.8:
		albedo := core.RandomVec3(sampler).MultiplyVec(core.RandomVec3(sampler))
		return MaterialSpec{Type: MaterialLambertian, Albedo: albedo}
	case choice < 0.95:
		return MaterialSpec{
			Type:   MaterialMetal,
			Albedo: core.RandomVec3InRange(sampler, 0.5, 1),
			Fuzz:   core.RandomFloat(sampler, 0, 0.5),
		}
	default:
		return MaterialSpec{Type: MaterialDielectric, IOR: 1.5}
	}
}
