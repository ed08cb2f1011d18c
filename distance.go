package gmarch

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Exact signed distance kernels for the primitive kinds. All receive the
// sample point already taken into the shape local frame.

func (s sphere) distance(p ms3.Vec) float32 {
	return ms3.Norm(p) - s.r
}

func (b box) distance(p ms3.Vec) float32 {
	q := ms3.Sub(ms3.AbsElem(p), b.core)
	return ms3.Norm(ms3.MaxElem(q, ms3.Vec{})) + minf(maxf(q.X, maxf(q.Y, q.Z)), 0) - b.round
}

func (b boxframe) distance(p ms3.Vec) float32 {
	e := b.e
	var z3 ms3.Vec
	p = ms3.Sub(ms3.AbsElem(p), b.half)
	q := ms3.AddScalar(-e, ms3.AbsElem(ms3.AddScalar(e, p)))

	s1 := minf(0, maxf(p.X, maxf(q.Y, q.Z)))                              // min(max(p.x,max(q.y,q.z)),0.0)
	n1 := ms3.Norm(ms3.MaxElem(ms3.Vec{X: p.X, Y: q.Y, Z: q.Z}, z3)) + s1 // length(max(vec3(p.x,q.y,q.z),0.0))+s1

	s2 := minf(0, maxf(q.X, maxf(p.Y, q.Z)))                              // min(max(q.x,max(p.y,q.z)),0.0)
	n2 := ms3.Norm(ms3.MaxElem(ms3.Vec{X: q.X, Y: p.Y, Z: q.Z}, z3)) + s2 // length(max(vec3(q.x,p.y,q.z),0.0))+s2

	s3 := minf(0, maxf(q.X, maxf(q.Y, p.Z)))                              // min(max(q.x,max(q.y,p.z)),0.0)
	n3 := ms3.Norm(ms3.MaxElem(ms3.Vec{X: q.X, Y: q.Y, Z: p.Z}, z3)) + s3 // length(max(vec3(q.x,q.y,p.z),0.0))+s3

	return minf(n1, minf(n2, n3))
}

func (t torus) distance(p ms3.Vec) float32 {
	q := ms2.Vec{X: hypotf(p.X, p.Y) - t.ring, Y: p.Z}
	return ms2.Norm(q) - t.tube
}

func (t cappedTorus) distance(p ms3.Vec) float32 {
	sc := ms2.Vec{X: math32.Sin(t.cap), Y: math32.Cos(t.cap)}
	p.X = absf(p.X)
	var k float32
	if sc.Y*p.X > sc.X*p.Y {
		k = p.X*sc.X + p.Y*sc.Y
	} else {
		k = hypotf(p.X, p.Y)
	}
	return math32.Sqrt(ms3.Dot(p, p)+t.ring*t.ring-2*t.ring*k) - t.tube
}

func (u uber) distance(p ms3.Vec) float32 {
	q := ms3.Sub(ms3.AbsElem(p), u.core)
	d := ms3.Norm(ms3.MaxElem(q, ms3.Vec{})) + minf(maxf(q.X, maxf(q.Y, q.Z)), 0) - u.round
	return absf(d) - u.hollow
}
