//go:build !debug

package material

import "github.com/df07/go-weekend-raytracer/pkg/core"

func assertUnitNormal(core.Vec3) {}
