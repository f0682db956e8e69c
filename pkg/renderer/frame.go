package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Frame is a rendered image. Pixels are row-major with y = 0 at the bottom of the viewport.
// Stored colors are gamma corrected and clamped to [0, 0.999].
type Frame struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color at (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Set stores the color at (x, y)
func (f *Frame) Set(x, y int, c core.Vec3) {
	f.Pixels[y*f.Width+x] = c
}

// Row returns the pixels of scanline y. Writes through the slice update the frame.
func (f *Frame) Row(y int) []core.Vec3 {
	return f.Pixels[y*f.Width : (y+1)*f.Width]
}

// RGB8 returns the 0-255 channel values for (x, y)
func (f *Frame) RGB8(x, y int) (r, g, b uint8) {
	c := f.At(x, y)
	return toByte(c.X), toByte(c.Y), toByte(c.Z)
}

// ToRGBA converts the frame to an image with a top-left origin for display
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGB8(x, y)
			img.SetRGBA(x, f.Height-1-y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// toByte maps [0, 1) to 0..255
func toByte(v float64) uint8 {
	return uint8(256 * max(0, min(v, 0.999)))
}
