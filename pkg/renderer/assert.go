//go:build !debug

package renderer

import "github.com/df07/go-weekend-raytracer/pkg/core"

func assertPixelRange(x, y int, c core.Vec3) {}
