//go:build debug

package renderer

import (
	"log"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// assertPixelRange panics if a gamma corrected pixel left [0, 1]
func assertPixelRange(x, y int, c core.Vec3) {
	for _, v := range [...]float64{c.X, c.Y, c.Z} {
		if !(v >= 0 && v <= 1) {
			log.Panicf("pixel (%d, %d) out of range after gamma correction: %v", x, y, c)
		}
	}
}
