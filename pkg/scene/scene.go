package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Material type names used in scene documents
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Scene contains all the elements needed for rendering.
// It is built once and read concurrently by every render worker.
type Scene struct {
	Name           string
	Description    string
	Camera         *renderer.Camera
	World          *geometry.Collection
	Materials      map[string]material.Material // Scene-owned material table, shared by spheres
	SamplingConfig renderer.SamplingConfig
	CameraConfig   renderer.CameraConfig

	doc Document
}

// Document is the serializable description of a scene
type Document struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Camera      renderer.CameraConfig   `json:"camera"`
	Sampling    renderer.SamplingConfig `json:"sampling"`
	Materials   []MaterialSpec          `json:"materials"`
	Spheres     []SphereSpec            `json:"spheres"`
}

// MaterialSpec describes one entry of the material table
type MaterialSpec struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Albedo core.Vec3 `json:"albedo"`
	Fuzz   float64   `json:"fuzz,omitempty"`
	IOR    float64   `json:"ior,omitempty"`
}

// SphereSpec places a sphere that references a material by id
type SphereSpec struct {
	Center   core.Vec3 `json:"center"`
	Radius   float64   `json:"radius"`
	Material string    `json:"material"`
}

// Build validates a document and constructs the scene it describes
func Build(doc Document) (*Scene, error) {
	cameraConfig := withCameraDefaults(doc.Camera)
	if err := cameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: invalid camera: %w", doc.Name, err)
	}

	s := &Scene{
		Name:           doc.Name,
		Description:    doc.Description,
		Camera:         renderer.NewCamera(cameraConfig),
		World:          geometry.NewCollection(),
		Materials:      make(map[string]material.Material, len(doc.Materials)),
		SamplingConfig: renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), doc.Sampling),
		CameraConfig:   cameraConfig,
	}

	for i, spec := range doc.Materials {
		if spec.ID == "" {
			return nil, fmt.Errorf("scene %q: material %d has no id", doc.Name, i)
		}
		if _, exists := s.Materials[spec.ID]; exists {
			return nil, fmt.Errorf("scene %q: duplicate material id %q", doc.Name, spec.ID)
		}
		mat, err := NewMaterial(spec)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", doc.Name, err)
		}
		s.Materials[spec.ID] = mat
	}

	for i, spec := range doc.Spheres {
		mat, ok := s.Materials[spec.Material]
		if !ok {
			return nil, fmt.Errorf("scene %q: sphere %d references unknown material %q", doc.Name, i, spec.Material)
		}
		if spec.Radius == 0 {
			return nil, fmt.Errorf("scene %q: sphere %d has zero radius", doc.Name, i)
		}
		if !spec.Center.IsFinite() {
			return nil, fmt.Errorf("scene %q: sphere %d has a non-finite center", doc.Name, i)
		}
		s.World.Add(geometry.NewSphere(spec.Center, spec.Radius, mat))
	}

	doc.Camera = cameraConfig
	doc.Sampling = s.SamplingConfig
	s.doc = doc
	return s, nil
}

// mustBuild is for built-in scenes whose documents are known to be valid
func mustBuild(doc Document) *Scene {
	s, err := Build(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// NewMaterial creates the material described by spec
func NewMaterial(spec MaterialSpec) (material.Material, error) {
	switch spec.Type {
	case MaterialLambertian:
		return material.NewLambertian(spec.Albedo), nil
	case MaterialMetal:
		return material.NewMetal(spec.Albedo, spec.Fuzz), nil
	case MaterialDielectric:
		if spec.IOR <= 0 {
			return nil, fmt.Errorf("material %q: index of refraction must be positive, got %g", spec.ID, spec.IOR)
		}
		return material.NewDielectric(spec.IOR), nil
	case "":
		return nil, fmt.Errorf("material %q: %w", spec.ID, errMissingType)
	default:
		return nil, fmt.Errorf("material %q: unknown type %q", spec.ID, spec.Type)
	}
}

var errMissingType = errors.New("missing material type")

// withCameraDefaults fills the fields a scene file may leave out
func withCameraDefaults(config renderer.CameraConfig) renderer.CameraConfig {
	defaults := renderer.DefaultCameraConfig()
	if config.ViewUp == (core.Vec3{}) {
		config.ViewUp = defaults.ViewUp
	}
	if config.VFov == 0 {
		config.VFov = defaults.VFov
	}
	if config.AspectRatio == 0 {
		config.AspectRatio = defaults.AspectRatio
	}
	return config
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns the shape every ray is tested against
func (s *Scene) GetWorld() geometry.Shape {
	return s.World
}

// GetSamplingConfig returns the recommended sampling configuration
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// Document returns the serializable form of the scene
func (s *Scene) Document() Document {
	doc := s.doc
	doc.Materials = append([]MaterialSpec(nil), s.doc.Materials...)
	doc.Spheres = append([]SphereSpec(nil), s.doc.Spheres...)
	return doc
}

// WithCamera returns a copy of the scene viewed through a different camera.
// The world and material table are shared.
func (s *Scene) WithCamera(config renderer.CameraConfig) (*Scene, error) {
	config = withCameraDefaults(config)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: invalid camera: %w", s.Name, err)
	}
	c := *s
	c.CameraConfig = config
	c.Camera = renderer.NewCamera(config)
	c.doc.Camera = config
	return &c, nil
}

// WithAspectRatio returns a copy of the scene whose camera matches a frame of the given shape
func (s *Scene) WithAspectRatio(aspectRatio float64) (*Scene, error) {
	config := s.CameraConfig
	config.AspectRatio = aspectRatio
	return s.WithCamera(config)
}

// ImageHeight returns the frame height for the given width under the scene's aspect ratio
func (s *Scene) ImageHeight(width int) int {
	return renderer.ImageHeight(width, s.CameraConfig.AspectRatio)
}
