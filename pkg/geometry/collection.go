package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Collection is a linear list of shapes resolved to the closest hit.
// It is filled during scene construction and read-only while rendering.
type Collection struct {
	shapes []Shape
}

// NewCollection creates a collection holding the given shapes
func NewCollection(shapes ...Shape) *Collection {
	c := &Collection{}
	c.Add(shapes...)
	return c
}

// Add appends shapes to the collection
func (c *Collection) Add(shapes ...Shape) {
	c.shapes = append(c.shapes, shapes...)
}

// Len returns the number of shapes
func (c *Collection) Len() int {
	return len(c.shapes)
}

// Shapes returns the shapes in insertion order
func (c *Collection) Shapes() []Shape {
	return c.shapes
}

// Hit returns the closest intersection among all shapes in (tMin, tMax].
// Each shape is queried with tMax narrowed to the best hit so far.
func (c *Collection) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closest material.HitRecord
	hitAnything := false
	closestSoFar := tMax

	for _, shape := range c.shapes {
		rec, ok := shape.Hit(ray, tMin, closestSoFar)
		if !ok {
			continue
		}
		// A shape at exactly the current distance does not replace the earlier one
		if !hitAnything || rec.T < closestSoFar {
			closest = rec
			closestSoFar = rec.T
			hitAnything = true
		}
	}

	return closest, hitAnything
}
