package renderer

import (
	"context"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

const (
	// shadowAcneEpsilon is the lower t bound for world queries, so a scattered ray
	// does not re-hit the surface it starts on
	shadowAcneEpsilon = 0.001
)

var (
	white   = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Shape
}

// Raytracer handles the rendering process. The scene is read-only while rendering,
// so one Raytracer can serve any number of workers.
type Raytracer struct {
	scene  Scene
	config SamplingConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, config SamplingConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Raytracer{
		scene:  scene,
		config: MergeSamplingConfig(DefaultSamplingConfig(), config),
		logger: logger,
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// MergeSamplingConfig applies the non-zero fields of override to the current configuration
func (rt *Raytracer) MergeSamplingConfig(override SamplingConfig) {
	rt.config = MergeSamplingConfig(rt.config, override)
}

// GetSamplingConfig returns the active sampling configuration
func (rt *Raytracer) GetSamplingConfig() SamplingConfig {
	return rt.config
}

// BackgroundColor returns the sky gradient for a ray that hit nothing
func BackgroundColor(r core.Ray) core.Vec3 {
	unitDirection := r.UnitDirection()

	// Map y from [-1,1] to [0,1]: white at the horizon below, sky blue overhead
	t := 0.5 * (unitDirection.Y + 1.0)
	return white.Lerp(skyBlue, t)
}

// RayColor returns the color carried back along a ray after at most depth bounces
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.scene.GetWorld().Hit(r, shadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return BackgroundColor(r)
	}

	scatter, didScatter := hit.Material.Scatter(r, hit, sampler)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, sampler))
}

// RenderPixel averages samplesPerPixel jittered rays through pixel (x, y) and
// returns the gamma corrected, clamped color. Fewer than one sample counts as one.
func (rt *Raytracer) RenderPixel(x, y, width, height, samplesPerPixel int, sampler core.Sampler) core.Vec3 {
	camera := rt.scene.GetCamera()
	samplesPerPixel = max(samplesPerPixel, 1)

	// Single-pixel dimensions would divide by zero
	sDenom := float64(max(width-1, 1))
	tDenom := float64(max(height-1, 1))

	colorAccum := core.Vec3{}
	for sample := 0; sample < samplesPerPixel; sample++ {
		s := (float64(x) + sampler.Get1D()) / sDenom
		t := (float64(y) + sampler.Get1D()) / tDenom

		ray := camera.GetRay(s, t, sampler)
		colorAccum = colorAccum.Add(rt.RayColor(ray, rt.config.MaxDepth, sampler))
	}

	return finalizeColor(x, y, colorAccum.Divide(float64(samplesPerPixel)))
}

// finalizeColor applies gamma 2 and clamps so the byte mapping stays below 256
func finalizeColor(x, y int, linear core.Vec3) core.Vec3 {
	corrected := linear.Sqrt()
	assertPixelRange(x, y, corrected)
	return corrected.Clamp(0.0, 0.999)
}

// renderRow fills scanline y of the frame
func (rt *Raytracer) renderRow(frame *Frame, y, samplesPerPixel int, sampler core.Sampler) {
	row := frame.Row(y)
	for x := range row {
		row[x] = rt.RenderPixel(x, y, frame.Width, frame.Height, samplesPerPixel, sampler)
	}
}

// Render renders every pixel with the configured worker count and returns the frame
func (rt *Raytracer) Render(width, height, samplesPerPixel int) *Frame {
	frame, _, _ := rt.RenderContext(context.Background(), width, height, samplesPerPixel, RenderOptions{
		NumWorkers: rt.config.NumWorkers,
	})
	return frame
}

// RenderSerial renders every row on the calling goroutine, bottom to top
func (rt *Raytracer) RenderSerial(width, height, samplesPerPixel int) *Frame {
	frame := NewFrame(width, height)
	samplesPerPixel = max(samplesPerPixel, 1)
	for y := 0; y < height; y++ {
		rt.renderRow(frame, y, samplesPerPixel, rowSampler(rt.config.Seed, y))
	}
	return frame
}

// rowSampler derives an independent random stream for scanline y from the base seed
func rowSampler(seed int64, y int) core.Sampler {
	// Golden-ratio increment (splitmix64 style) spreads neighbouring rows apart
	mixed := uint64(seed) + uint64(y+1)*0x9E3779B97F4A7C15
	return core.NewSeededSampler(int64(mixed))
}
