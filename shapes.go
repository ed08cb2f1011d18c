package gmarch

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Shape is a primitive distance field expressed in its local frame, centered
// at the origin. Shapes are created through [Builder] constructors or
// recovered from wire payloads by [DecodeWords]; the set of kinds is closed
// and fixed by the record format.
type Shape interface {
	// bounds returns the local axis aligned box enclosing the surface.
	bounds() ms3.Box
	// payload returns the canonical shape parameter words of the record
	// wire format.
	payload() (v4 [4]float32, v2 [2]float32)
	// distance evaluates the exact signed distance at p in the local frame.
	distance(p ms3.Vec) float32
}

type sphere struct {
	r float32
}

// NewSphere returns a sphere shape of the argument radius.
func (bld *Builder) NewSphere(radius float32) Shape {
	if radius <= 0 || !isfinite(radius) {
		bld.shapeErrorf("zero or negative sphere radius")
	}
	return sphere{r: radius}
}

func (s sphere) bounds() ms3.Box {
	d := 2 * s.r
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Vec{X: d, Y: d, Z: d})
}

func (s sphere) payload() (v4 [4]float32, v2 [2]float32) {
	v2[0] = s.r
	return v4, v2
}

// box stores the inner core half extents so that the rounded surface sits at
// core+round and a zero core degenerates exactly into a sphere.
type box struct {
	core  ms3.Vec
	round float32
}

// NewBox returns a box shape of the argument full dimensions with rounded
// edges. round=0 yields a sharp box. round must not exceed half the smallest
// dimension.
func (bld *Builder) NewBox(dimX, dimY, dimZ, round float32) Shape {
	if dimX <= 0 || dimY <= 0 || dimZ <= 0 {
		bld.shapeErrorf("zero or negative box dimension")
	}
	minHalf := 0.5 * minf(dimX, minf(dimY, dimZ))
	if round < 0 || round > minHalf {
		bld.shapeErrorf("invalid box rounding value")
	}
	half := ms3.Vec{X: 0.5 * dimX, Y: 0.5 * dimY, Z: 0.5 * dimZ}
	return box{core: ms3.AddScalar(-round, half), round: round}
}

func (b box) bounds() ms3.Box {
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Scale(2, ms3.AddScalar(b.round, b.core)))
}

func (b box) payload() (v4 [4]float32, v2 [2]float32) {
	v4[0], v4[1], v4[2] = b.core.X, b.core.Y, b.core.Z
	v2[0] = b.round
	return v4, v2
}

// boxframe stores e as the half thickness of the square beams, which span
// inward from the exterior surface by twice that.
type boxframe struct {
	half ms3.Vec
	e    float32
}

// NewBoxFrame returns a wireframe box shape of the argument full dimensions
// whose edges are square beams of thickness e growing inward from the
// exterior surface.
func (bld *Builder) NewBoxFrame(dimX, dimY, dimZ, e float32) Shape {
	e /= 2
	if dimX <= 0 || dimY <= 0 || dimZ <= 0 {
		bld.shapeErrorf("zero or negative box frame dimension")
	}
	half := ms3.Vec{X: 0.5 * dimX, Y: 0.5 * dimY, Z: 0.5 * dimZ}
	if e <= 0 {
		bld.shapeErrorf("zero or negative box frame thickness")
	} else if 2*e > half.Min() {
		bld.shapeErrorf("box frame beam thickness too large")
	}
	return boxframe{half: half, e: e}
}

func (b boxframe) bounds() ms3.Box {
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Scale(2, b.half))
}

func (b boxframe) payload() (v4 [4]float32, v2 [2]float32) {
	v4[0], v4[1], v4[2], v4[3] = b.half.X, b.half.Y, b.half.Z, b.e
	return v4, v2
}

// torus ring lies in the local XY plane so the revolution axis is Z.
type torus struct {
	ring float32
	tube float32
}

// NewTorus returns a torus shape given the radius of the ring traced by the
// tube center and the radius of the tube itself. The torus axis is the
// local Z axis.
func (bld *Builder) NewTorus(ringRadius, tubeRadius float32) Shape {
	bld.validateTorusRadii(ringRadius, tubeRadius)
	return torus{ring: ringRadius, tube: tubeRadius}
}

func (bld *Builder) validateTorusRadii(ring, tube float32) {
	if tube <= 0 {
		bld.shapeErrorf("zero or negative torus tube radius")
	} else if ring <= tube {
		bld.shapeErrorf("torus ring radius must exceed tube radius")
	}
}

func (t torus) bounds() ms3.Box {
	d := 2 * (t.ring + t.tube)
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Vec{X: d, Y: d, Z: 2 * t.tube})
}

func (t torus) payload() (v4 [4]float32, v2 [2]float32) {
	v4[3] = t.ring
	v2[0] = t.tube
	return v4, v2
}

type cappedTorus struct {
	ring float32
	tube float32
	cap  float32
}

// NewCappedTorus returns a torus arc shape spanning the cap half-angle in
// radians to either side of the local +Y direction, capped with spherical
// ends. cap must lie in (0,pi); pi closes the full torus.
func (bld *Builder) NewCappedTorus(ringRadius, tubeRadius, cap float32) Shape {
	bld.validateTorusRadii(ringRadius, tubeRadius)
	if cap <= 0 || cap >= math32.Pi {
		bld.shapeErrorf("capped torus angle must be in (0,pi)")
	}
	return cappedTorus{ring: ringRadius, tube: tubeRadius, cap: cap}
}

func (t cappedTorus) bounds() ms3.Box {
	d := 2 * (t.ring + t.tube)
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Vec{X: d, Y: d, Z: 2 * t.tube})
}

func (t cappedTorus) payload() (v4 [4]float32, v2 [2]float32) {
	v4[3] = t.ring
	v2[0], v2[1] = t.tube, t.cap
	return v4, v2
}

// uber is the rounded hollow box family: a box core grown by a rounding
// radius and carved into a shell of the hollow half-thickness.
type uber struct {
	core   ms3.Vec
	round  float32
	hollow float32
}

// NewUber returns a rounded box shape of the argument full dimensions carved
// into a hollow shell of the given half-thickness. hollow=0 yields a solid
// rounded box, identical to [Builder.NewBox].
func (bld *Builder) NewUber(dimX, dimY, dimZ, round, hollow float32) Shape {
	if hollow < 0 {
		bld.shapeErrorf("negative uber hollow thickness")
		hollow = 0
	}
	if hollow == 0 {
		return bld.NewBox(dimX, dimY, dimZ, round)
	}
	b := bld.NewBox(dimX, dimY, dimZ, round)
	bx, ok := b.(box)
	if !ok {
		return b
	}
	return uber{core: bx.core, round: bx.round, hollow: hollow}
}

func (u uber) bounds() ms3.Box {
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Scale(2, ms3.AddScalar(u.round+u.hollow, u.core)))
}

func (u uber) payload() (v4 [4]float32, v2 [2]float32) {
	v4[0], v4[1], v4[2] = u.core.X, u.core.Y, u.core.Z
	v2[0], v2[1] = u.round, u.hollow
	return v4, v2
}

// classifyShape recovers the shape kind from wire payload words. The kind is
// implied by the parameter structure: the ring word selects the torus and
// frame families, extents select box over sphere and the second vec2 word
// selects capping or hollowing. Payloads that fit no kind are rejected.
func classifyShape(v4 [4]float32, v2 [2]float32) (Shape, error) {
	for _, v := range v4 {
		if v < 0 || !isfinite(v) {
			return nil, configErrorf("negative or non-finite shape parameter %v", v)
		}
	}
	for _, v := range v2 {
		if v < 0 || !isfinite(v) {
			return nil, configErrorf("negative or non-finite shape parameter %v", v)
		}
	}
	ext := ms3.Vec{X: v4[0], Y: v4[1], Z: v4[2]}
	w, r1, r2 := v4[3], v2[0], v2[1]
	extZero := ext == (ms3.Vec{})
	switch {
	case w == 0 && r2 == 0 && extZero:
		if r1 == 0 {
			return nil, configErrorf("degenerate point shape")
		}
		return sphere{r: r1}, nil
	case w == 0 && r2 == 0:
		return box{core: ext, round: r1}, nil
	case w == 0:
		if ext == (ms3.Vec{}) && r1 == 0 {
			return nil, configErrorf("degenerate hollow shape with no core surface")
		}
		return uber{core: ext, round: r1, hollow: r2}, nil
	case extZero && r2 == 0:
		if r1 == 0 || w <= r1 {
			return nil, configErrorf("torus ring radius %v not greater than tube radius %v", w, r1)
		}
		return torus{ring: w, tube: r1}, nil
	case extZero:
		if r1 == 0 || w <= r1 {
			return nil, configErrorf("torus ring radius %v not greater than tube radius %v", w, r1)
		} else if r2 >= math32.Pi {
			return nil, configErrorf("capped torus angle %v not below pi", r2)
		}
		return cappedTorus{ring: w, tube: r1, cap: r2}, nil
	case r1 == 0 && r2 == 0:
		if 2*w > ext.Min() {
			return nil, configErrorf("box frame beam thickness %v exceeds half extents", w)
		}
		return boxframe{half: ext, e: w}, nil
	}
	return nil, configErrorf("shape parameters fit no primitive kind")
}
