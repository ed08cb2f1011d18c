package gmarch

import (
	"fmt"

	"github.com/soypat/geometry/ms3"
)

// Op selects how a record folds into the running scene result.
type Op uint32

const (
	// OpNop leaves the running result untouched.
	OpNop Op = iota
	// OpUnion keeps the closer of the running result and the candidate.
	OpUnion
	// OpIntersection keeps the farther of the two.
	OpIntersection
	// OpSubtraction carves the candidate out of the running result.
	OpSubtraction
)

func (op Op) valid() bool {
	return op <= OpSubtraction
}

func (op Op) String() (s string) {
	switch op {
	case OpNop:
		s = "nop"
	case OpUnion:
		s = "union"
	case OpIntersection:
		s = "intersection"
	case OpSubtraction:
		s = "subtraction"
	default:
		s = "Op(" + fmt.Sprint(uint32(op)) + ")"
	}
	return s
}

// Result is one evaluation of a scene field at a point: the signed distance
// to the nearest surface along with that surface's id and material.
type Result struct {
	// Distance is the signed distance to the surface. Negative inside.
	Distance float32
	// ID attributes the result to a surface. See [SurfaceID].
	ID SurfaceID
	// Albedo is the RGB base color of the attributed surface.
	Albedo ms3.Vec
	// Specular is the specular reflectance of the attributed surface.
	Specular float32
}

// background returns the fold seed: a far distance belonging to no surface.
func background() Result {
	return Result{Distance: largenum, ID: IDBackground}
}

// combine folds the candidate rhs into the running result lhs. A zero blend,
// or operands separated by at least the blend radius, takes the hard path
// which keeps one operand intact. Subtraction negates the candidate distance
// and reduces to intersection, preserving the candidate id and material.
func combine(op Op, blend float32, lhs, rhs Result) Result {
	switch op {
	case OpUnion:
		if blend > 0 {
			return smoothUnion(blend, lhs, rhs)
		}
		return hardUnion(lhs, rhs)
	case OpIntersection, OpSubtraction:
		if op == OpSubtraction {
			rhs.Distance = -rhs.Distance
		}
		if blend > 0 {
			return smoothIntersect(blend, lhs, rhs)
		}
		return hardIntersect(lhs, rhs)
	}
	return lhs
}

// hardUnion keeps the closer operand. Ties keep lhs so record order breaks
// them deterministically.
func hardUnion(lhs, rhs Result) Result {
	if rhs.Distance < lhs.Distance {
		return rhs
	}
	return lhs
}

func hardIntersect(lhs, rhs Result) Result {
	if rhs.Distance > lhs.Distance {
		return rhs
	}
	return lhs
}

func smoothUnion(k float32, lhs, rhs Result) Result {
	delta := rhs.Distance - lhs.Distance
	if absf(delta) >= k {
		return hardUnion(lhs, rhs)
	}
	h := clampf(0.5+0.5*delta/k, 0, 1)
	dist := mixf(rhs.Distance, lhs.Distance, h) - k*h*(1-h)
	return blended(h, dist, lhs, rhs)
}

func smoothIntersect(k float32, lhs, rhs Result) Result {
	delta := rhs.Distance - lhs.Distance
	if absf(delta) >= k {
		return hardIntersect(lhs, rhs)
	}
	h := clampf(0.5-0.5*delta/k, 0, 1)
	dist := mixf(rhs.Distance, lhs.Distance, h) + k*h*(1-h)
	return blended(h, dist, lhs, rhs)
}

// blended interpolates material between the operands of a smooth combine.
// h=1 weighs fully toward lhs. The seam belongs to no single record so the
// id becomes the blend sentinel of the candidate's object.
func blended(h, dist float32, lhs, rhs Result) Result {
	t := ms3.Vec{X: h, Y: h, Z: h}
	return Result{
		Distance: dist,
		ID:       BlendID(rhs.ID.Object()),
		Albedo:   ms3.InterpElem(rhs.Albedo, lhs.Albedo, t),
		Specular: mixf(rhs.Specular, lhs.Specular, h),
	}
}
