//go:build debug

package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestFinalizeColor_PanicsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		linear core.Vec3
	}{
		{"above one", core.NewVec3(1.5, 0.2, 0.2)},
		{"infinite", core.NewVec3(0.2, 0.2, math.Inf(1))},
		{"nan", core.NewVec3(0.2, math.NaN(), 0.2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected a panic for %v", tt.linear)
				}
			}()
			finalizeColor(3, 4, tt.linear)
		})
	}
}

func TestFinalizeColor_InRangeDoesNotPanic(t *testing.T) {
	for _, v := range []float64{0, 0.25, 1} {
		c := finalizeColor(0, 0, core.NewVec3(v, v, v))
		if c.X > 0.999 {
			t.Errorf("Expected clamped value, got %v", c)
		}
	}
}
