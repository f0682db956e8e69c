//go:build debug

package material

import (
	"log"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Sphere normals are divided by the radius rather than normalized, so allow some drift
const acceptableNormalDelta = 1e-6

func assertUnitNormal(normal core.Vec3) {
	length := normal.Length()
	if math.Abs(length-1) > acceptableNormalDelta {
		log.Panicf("normal %v must be a unit vector, but has length %v (acceptable delta is +-%v)",
			normal, length, acceptableNormalDelta)
	}
}
