// Package gmarch implements a compact signed distance field scene engine.
//
// A scene is an ordered list of fixed width records, each pairing a primitive
// shape with a rigid placement, a combining operation and surface material
// data. Evaluating the scene folds the records left to right into a single
// signed distance and surface attribution which feeds the sphere tracing,
// normal estimation and depth conversion routines in this package. Scenes
// serialize to a flat buffer of 32-bit words so the same data can drive both
// CPU evaluation and GPU compute kernels (see the geval package).
package gmarch

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

const (
	// largenum is the far field seed of the record fold. Any real surface
	// candidate folds in front of it.
	largenum = 1e20
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization.
	epstol = 6e-7
)

// Builder accumulates scene records and dimensioning errors. The zero value
// is ready for use. Shape constructors validate their arguments and panic on
// bad dimensions unless [Builder.NoDimensionPanic] is set, in which case
// errors accumulate and surface through [Builder.Err] and [Builder.Scene].
type Builder struct {
	// NoDimensionPanic disables panicking on invalid shape dimensions.
	NoDimensionPanic bool

	records   []Record
	accumErrs []error
}

// Err returns errors accumulated during scene construction, or nil if none.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) > 0 {
		return errors.Join(bld.accumErrs...)
	}
	return nil
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	err := fmt.Errorf(msg, args...)
	if !bld.NoDimensionPanic {
		panic(err.Error())
	}
	bld.accumErrs = append(bld.accumErrs, err)
}

func absf(a float32) float32 {
	return math32.Abs(a)
}

func minf(a, b float32) float32 {
	return math32.Min(a, b)
}

func maxf(a, b float32) float32 {
	return math32.Max(a, b)
}

func hypotf(p, q float32) float32 {
	return math32.Hypot(p, q)
}

func clampf(v, lo, hi float32) float32 {
	return minf(maxf(v, lo), hi)
}

// mixf performs linear interpolation between x and y. t=0 returns x.
func mixf(x, y, t float32) float32 {
	return x + t*(y-x)
}

func isfinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
