//go:build tinygo || !cgo

package geval

import (
	"errors"

	"github.com/gmarch/gmarch"
	"github.com/soypat/geometry/ms3"
)

var errNoCGO = errors.New("GPU evaluation requires CGo and is not supported on TinyGo")

// Init1x1GLFW starts a 1x1 sized GLFW so that user can start working with GPU.
func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

// ComputeConfig bounds a GPU compute dispatch.
type ComputeConfig struct {
	// InvocX is the invocation count per workgroup along X compiled into the
	// kernel. 32 works on all conformant GL implementations.
	InvocX int
}

// SceneCompute evaluates an encoded record stream on the GPU.
type SceneCompute struct {
	bb ms3.Box
}

// NewSceneCompute compiles the scene evaluation kernel and binds it to the
// encoded records of s.
func NewSceneCompute(s *gmarch.Scene, cfg ComputeConfig) (*SceneCompute, error) {
	return nil, errNoCGO
}

// Bounds returns the bounds of the compiled scene.
func (sdf *SceneCompute) Bounds() ms3.Box {
	return sdf.bb
}

// Evaluations returns total evaluations performed succesfully during the
// evaluator's lifetime.
func (sdf *SceneCompute) Evaluations() uint64 {
	return 0
}

// Delete releases the GPU program.
func (sdf *SceneCompute) Delete() {}

// Evaluate implements the [SDF3] interface on the GPU.
func (sdf *SceneCompute) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	return errNoCGO
}
