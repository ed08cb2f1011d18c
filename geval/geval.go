// Package geval evaluates signed distance fields in bulk on the CPU and GPU.
// The batch interface trades the convenience of point queries for layouts
// that vectorize well and map directly onto GPU compute dispatches.
package geval

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms3"
)

// SDF3 implements a 3D signed distance field in vectorized
// form suitable for running on GPU.
type SDF3 interface {
	// Evaluate evaluates the signed distance field over pos positions.
	// dist and pos must be of same length. Resulting distances are stored
	// in dist.
	//
	// userData facilitates getting data to the evaluators for use in processing, such as [VecPool].
	Evaluate(pos []ms3.Vec, dist []float32, userData any) error
	// Bounds returns the SDF's bounding box such that all of the shape is contained within.
	Bounds() ms3.Box
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and distance buffer length mismatch")
)

// VecPool pools scratch buffers for evaluator pipelines. Pass a *VecPool as
// the userData argument to evaluators that need auxiliary storage so repeated
// batches reuse allocations. Not safe for concurrent use.
type VecPool struct {
	Float bufPool[float32]
	V3    bufPool[ms3.Vec]
}

// GetVecPool returns the [VecPool] carried by userData, either directly or
// through a VecPool method on the value.
func GetVecPool(userData any) (*VecPool, error) {
	vp, ok := userData.(*VecPool)
	if !ok {
		vper, ok := userData.(interface{ VecPool() *VecPool })
		if !ok {
			return nil, fmt.Errorf("expected userData to be *VecPool or have VecPool method, got %T", userData)
		}
		vp = vper.VecPool()
	}
	if vp == nil {
		return nil, errors.New("nil VecPool")
	}
	return vp, nil
}

// AssertAllReleased checks all buffers were returned to the pool and returns
// an error if any are still held. Call after a pipeline finishes to catch
// buffer leaks.
func (vp *VecPool) AssertAllReleased() error {
	if err := vp.Float.assertAllReleased(); err != nil {
		return err
	}
	return vp.V3.assertAllReleased()
}

type bufPool[T any] struct {
	bufs  [][]T
	taken []bool
}

// Acquire returns a buffer of length n for exclusive use until released.
// Previously released buffers of sufficient capacity are reused.
func (bp *bufPool[T]) Acquire(n int) []T {
	for i, got := range bp.bufs {
		if !bp.taken[i] && cap(got) >= n {
			bp.taken[i] = true
			return got[:n]
		}
	}
	buf := make([]T, n)
	bp.bufs = append(bp.bufs, buf)
	bp.taken = append(bp.taken, true)
	return buf
}

// Release returns an acquired buffer to the pool.
func (bp *bufPool[T]) Release(buf []T) error {
	if cap(buf) == 0 {
		return errors.New("release of zero capacity buffer")
	}
	for i, got := range bp.bufs {
		if cap(got) > 0 && &got[:1][0] == &buf[:1][0] {
			if !bp.taken[i] {
				return errors.New("double release of pooled buffer")
			}
			bp.taken[i] = false
			return nil
		}
	}
	return errors.New("release of buffer not acquired from this pool")
}

func (bp *bufPool[T]) assertAllReleased() error {
	for _, taken := range bp.taken {
		if taken {
			return fmt.Errorf("%d of %d pooled buffers still acquired", countTrue(bp.taken), len(bp.taken))
		}
	}
	return nil
}

func countTrue(b []bool) (n int) {
	for _, v := range b {
		if v {
			n++
		}
	}
	return n
}

// Tetrahedral central difference directions. Four field evaluations recover
// the gradient instead of the six of an axis-wise difference.
var tetraDirs = [4]ms3.Vec{
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: 1},
}

// NormalsTetrahedral estimates the field gradient at each position using four
// batched evaluations at tetrahedral offsets of eps, storing the result in
// normals. The returned normals are not normalized (converted to unit length).
func NormalsTetrahedral(s SDF3, pos, normals []ms3.Vec, eps float32, userData any) error {
	if eps <= 0 {
		return errors.New("invalid tetrahedral step")
	} else if len(pos) != len(normals) {
		return errors.New("length of position must match length of normals")
	} else if s == nil {
		return errors.New("nil SDF3")
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	vp, err := GetVecPool(userData)
	if err != nil {
		return fmt.Errorf("VecPool required in both GPU and CPU situations for normal calculation: %s", err)
	}
	dist := vp.Float.Acquire(len(pos))
	auxPos := vp.V3.Acquire(len(pos))
	defer vp.Float.Release(dist)
	defer vp.V3.Release(auxPos)
	for i := range normals {
		normals[i] = ms3.Vec{}
	}
	for _, dir := range tetraDirs {
		h := ms3.Scale(eps, dir)
		for i, p := range pos {
			auxPos[i] = ms3.Add(p, h)
		}
		err = s.Evaluate(auxPos, dist, userData)
		if err != nil {
			return err
		}
		for i, d := range dist {
			normals[i] = ms3.Add(normals[i], ms3.Scale(d, dir))
		}
	}
	return nil
}
