package output

import (
	"fmt"
	"image/png"
	"io"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// WritePNG encodes the frame as a PNG with a top-left origin
func WritePNG(w io.Writer, frame *renderer.Frame) error {
	if err := png.Encode(w, frame.ToRGBA()); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
