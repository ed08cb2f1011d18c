package gmarch

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

func randVec(rng *rand.Rand, scale float32) ms3.Vec {
	return ms3.Vec{
		X: (rng.Float32()*2 - 1) * scale,
		Y: (rng.Float32()*2 - 1) * scale,
		Z: (rng.Float32()*2 - 1) * scale,
	}
}

func vecNear(a, b ms3.Vec, tol float32) bool {
	d := ms3.Sub(a, b)
	return absf(d.X) <= tol && absf(d.Y) <= tol && absf(d.Z) <= tol
}

func TestDistanceExactness(t *testing.T) {
	var bld Builder
	const tol = 1e-6
	cases := []struct {
		name string
		s    Shape
		p    ms3.Vec
		want float32
	}{
		{"sphere center", bld.NewSphere(1), ms3.Vec{}, -1},
		{"sphere outside", bld.NewSphere(1), ms3.Vec{Y: 3, Z: 4}, 4},
		{"box face", bld.NewBox(2, 4, 6, 0), ms3.Vec{X: 2}, 1},
		{"box center", bld.NewBox(2, 4, 6, 0), ms3.Vec{}, -1},
		{"box corner", bld.NewBox(2, 4, 6, 0), ms3.Vec{X: 2, Y: 3, Z: 4}, math32.Sqrt(3)},
		{"rounded box face", bld.NewBox(2, 2, 2, 0.5), ms3.Vec{X: 1.5}, 0.5},
		{"rounded box center", bld.NewBox(2, 2, 2, 0.5), ms3.Vec{}, -1},
		{"box frame corner", bld.NewBoxFrame(2, 2, 2, 0.5), ms3.Vec{X: 1, Y: 1, Z: 1}, 0},
		{"box frame past corner", bld.NewBoxFrame(2, 2, 2, 0.5), ms3.Vec{X: 2, Y: 1, Z: 1}, 1},
		{"box frame center", bld.NewBoxFrame(2, 2, 2, 0.5), ms3.Vec{}, math32.Sqrt(0.5)},
		{"torus tube center", bld.NewTorus(1, 0.25), ms3.Vec{X: 1}, -0.25},
		{"torus axis", bld.NewTorus(1, 0.25), ms3.Vec{}, 0.75},
		{"torus above tube", bld.NewTorus(1, 0.25), ms3.Vec{X: 1, Z: 0.5}, 0.25},
		{"capped torus arc middle", bld.NewCappedTorus(1, 0.25, math32.Pi/2), ms3.Vec{Y: 1}, -0.25},
		{"capped torus behind caps", bld.NewCappedTorus(1, 0.25, math32.Pi/2), ms3.Vec{Y: -1}, math32.Sqrt2 - 0.25},
		{"uber shell middle", bld.NewUber(2, 2, 2, 0, 0.25), ms3.Vec{X: 1}, -0.25},
		{"uber outer surface", bld.NewUber(2, 2, 2, 0, 0.25), ms3.Vec{X: 1.25}, 0},
		{"uber inner surface", bld.NewUber(2, 2, 2, 0, 0.25), ms3.Vec{X: 0.75}, 0},
		{"uber center", bld.NewUber(2, 2, 2, 0, 0.25), ms3.Vec{}, 0.75},
	}
	for _, tc := range cases {
		if got := tc.s.distance(tc.p); absf(got-tc.want) > tol {
			t.Errorf("%s: distance %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSphereBoxDegeneracy(t *testing.T) {
	// A rounded box with a zero core is exactly a sphere of the rounding
	// radius, which is what lets the payload encode spheres in the box
	// family without a kind tag.
	s := sphere{r: 0.8}
	b := box{round: 0.8}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		p := randVec(rng, 2)
		if sd, bd := s.distance(p), b.distance(p); sd != bd {
			t.Fatalf("sphere %v and zero-core box %v disagree at %v", sd, bd, p)
		}
	}
}

func TestShapePayloadClassification(t *testing.T) {
	var bld Builder
	shapes := []Shape{
		bld.NewSphere(0.5),
		bld.NewBox(1, 2, 3, 0),
		bld.NewBox(1, 1, 1, 0.2),
		bld.NewBoxFrame(2, 2, 2, 0.5),
		bld.NewTorus(1, 0.25),
		bld.NewCappedTorus(1, 0.25, math32.Pi/3),
		bld.NewUber(2, 2, 2, 0.2, 0.1),
	}
	if err := bld.Err(); err != nil {
		t.Fatal(err)
	}
	for i, s := range shapes {
		v4, v2 := s.payload()
		got, err := classifyShape(v4, v2)
		if err != nil {
			t.Fatalf("shape %d: classify: %v", i, err)
		}
		if got != s {
			t.Fatalf("shape %d: payload %v %v decoded to %#v, want %#v", i, v4, v2, got, s)
		}
	}
}

func TestClassifyRejects(t *testing.T) {
	cases := []struct {
		name string
		v4   [4]float32
		v2   [2]float32
	}{
		{"degenerate point", [4]float32{}, [2]float32{}},
		{"negative parameter", [4]float32{-1, 0, 0, 0}, [2]float32{1, 0}},
		{"nan parameter", [4]float32{math32.NaN(), 0, 0, 0}, [2]float32{1, 0}},
		{"torus tube at ring", [4]float32{0, 0, 0, 1}, [2]float32{1, 0}},
		{"torus zero tube", [4]float32{0, 0, 0, 1}, [2]float32{0, 0}},
		{"cap angle at pi", [4]float32{0, 0, 0, 1}, [2]float32{0.25, math32.Pi}},
		{"frame beams too thick", [4]float32{1, 1, 1, 0.75}, [2]float32{0, 0}},
		{"frame with rounding", [4]float32{1, 1, 1, 0.25}, [2]float32{0.1, 0}},
		{"hollow with no core", [4]float32{0, 0, 0, 0}, [2]float32{0, 0.25}},
	}
	for _, tc := range cases {
		if _, err := classifyShape(tc.v4, tc.v2); err == nil {
			t.Errorf("%s: payload %v %v classified without error", tc.name, tc.v4, tc.v2)
		}
	}
}

func TestShapeBounds(t *testing.T) {
	var bld Builder
	const tol = 1e-6
	cases := []struct {
		name string
		s    Shape
		size ms3.Vec
	}{
		{"sphere", bld.NewSphere(1), ms3.Vec{X: 2, Y: 2, Z: 2}},
		{"box", bld.NewBox(2, 4, 6, 0), ms3.Vec{X: 2, Y: 4, Z: 6}},
		{"rounded box", bld.NewBox(2, 2, 2, 0.5), ms3.Vec{X: 2, Y: 2, Z: 2}},
		{"box frame", bld.NewBoxFrame(2, 3, 4, 0.5), ms3.Vec{X: 2, Y: 3, Z: 4}},
		{"torus", bld.NewTorus(1, 0.25), ms3.Vec{X: 2.5, Y: 2.5, Z: 0.5}},
		{"capped torus", bld.NewCappedTorus(1, 0.25, math32.Pi/2), ms3.Vec{X: 2.5, Y: 2.5, Z: 0.5}},
		{"uber", bld.NewUber(2, 2, 2, 0, 0.25), ms3.Vec{X: 2.5, Y: 2.5, Z: 2.5}},
	}
	for _, tc := range cases {
		bb := tc.s.bounds()
		if !vecNear(bb.Size(), tc.size, tol) {
			t.Errorf("%s: bounds size %v, want %v", tc.name, bb.Size(), tc.size)
		}
		if !vecNear(bb.Center(), ms3.Vec{}, tol) {
			t.Errorf("%s: bounds center %v, want origin", tc.name, bb.Center())
		}
	}
}

func TestShapeValidation(t *testing.T) {
	bld := Builder{NoDimensionPanic: true}
	bld.NewSphere(0)
	bld.NewSphere(-1)
	bld.NewBox(0, 1, 1, 0)
	bld.NewBox(1, 1, 1, 0.6)
	bld.NewBoxFrame(1, 1, 1, 0)
	bld.NewBoxFrame(1, 1, 1, 0.6)
	bld.NewTorus(0.25, 0.25)
	bld.NewTorus(1, 0)
	bld.NewCappedTorus(1, 0.25, 0)
	bld.NewCappedTorus(1, 0.25, 4)
	bld.NewUber(1, 1, 1, 0, -0.1)
	err := bld.Err()
	if err == nil {
		t.Fatal("expected accumulated dimension errors")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("accumulated error %T does not unwrap", err)
	}
	if n := len(joined.Unwrap()); n != 11 {
		t.Errorf("accumulated %d errors, want 11:\n%v", n, err)
	}
	if bld.Err() == nil {
		t.Error("errors cleared before Scene call")
	}
}

func TestShapePanicsWithoutOptIn(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invalid dimension")
		}
	}()
	var bld Builder
	bld.NewSphere(-1)
}

func TestUberZeroHollowCanonicalizes(t *testing.T) {
	var bld Builder
	if _, ok := bld.NewUber(1, 1, 1, 0.1, 0).(box); !ok {
		t.Error("uber with zero hollow should canonicalize to the box kind")
	}
}
