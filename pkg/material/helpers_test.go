package material

import "github.com/df07/go-weekend-raytracer/pkg/core"

// fixedSampler returns scripted values so scatter directions can be checked exactly
type fixedSampler struct {
	oneD   float64
	twoD   core.Vec2
	threeD core.Vec3
}

func (f fixedSampler) Get1D() float64   { return f.oneD }
func (f fixedSampler) Get2D() core.Vec2 { return f.twoD }
func (f fixedSampler) Get3D() core.Vec3 { return f.threeD }
