package gmarch_test

import (
	"testing"

	"github.com/gmarch/gmarch"
	"github.com/soypat/geometry/ms3"
)

func offsetSphereScene(t *testing.T, center ms3.Vec, radius float32, object uint16) *gmarch.Scene {
	t.Helper()
	var bld gmarch.Builder
	bld.Append(gmarch.Record{Shape: bld.NewSphere(radius), Center: center, Op: gmarch.OpUnion})
	s, err := bld.Scene(object)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCollectionNearest(t *testing.T) {
	a := offsetSphereScene(t, ms3.Vec{X: -2}, 0.5, 1)
	b := offsetSphereScene(t, ms3.Vec{X: 2}, 0.5, 2)
	c, err := gmarch.NewCollection(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 || c.Scene(0) != a || c.Scene(1) != b {
		t.Fatal("collection does not expose its composed scenes")
	}
	if got := c.At(ms3.Vec{X: -2}).ID.Object(); got != 1 {
		t.Errorf("left query object %d, want 1", got)
	}
	if got := c.At(ms3.Vec{X: 2}).ID.Object(); got != 2 {
		t.Errorf("right query object %d, want 2", got)
	}
	// An exactly equidistant query keeps the earlier scene.
	if got := c.At(ms3.Vec{}).ID.Object(); got != 1 {
		t.Errorf("equidistant query object %d, want 1", got)
	}
	if sz := c.Bounds().Size(); !approxVec(sz, ms3.Vec{X: 5, Y: 1, Z: 1}, 1e-5) {
		t.Errorf("collection bounds size %v, want (5,1,1)", sz)
	}
	// A collection is marchable like any field.
	ray := gmarch.Ray{Origin: ms3.Vec{X: -5}, Direction: ms3.Vec{X: 1}}
	tr := gmarch.March(c, ray, gmarch.MarchConfig{})
	if !tr.Hit() || tr.ID.Object() != 1 {
		t.Errorf("collection march got %+v, want hit on object 1", tr)
	}
}

func TestCollectionRejects(t *testing.T) {
	a := offsetSphereScene(t, ms3.Vec{}, 1, 5)
	b := offsetSphereScene(t, ms3.Vec{X: 3}, 1, 5)
	if _, err := gmarch.NewCollection(a, b); err == nil {
		t.Error("duplicate object indices composed without error")
	}
	if _, err := gmarch.NewCollection(a, nil); err == nil {
		t.Error("nil scene composed without error")
	}
}

func TestCollectionEmpty(t *testing.T) {
	c, err := gmarch.NewCollection()
	if err != nil {
		t.Fatal(err)
	}
	res := c.At(ms3.Vec{X: 1})
	if res.ID != gmarch.IDBackground {
		t.Errorf("empty collection id %v, want background", res.ID)
	}
	if res.Distance < 1e19 {
		t.Errorf("empty collection distance %v, want far background", res.Distance)
	}
}

func TestCollectionEvaluate(t *testing.T) {
	a := offsetSphereScene(t, ms3.Vec{X: -2}, 0.5, 1)
	b := offsetSphereScene(t, ms3.Vec{X: 2}, 0.5, 2)
	c, err := gmarch.NewCollection(a, b)
	if err != nil {
		t.Fatal(err)
	}
	pos := ms3.AppendGrid(nil, c.Bounds(), 4, 4, 4)
	dist := make([]float32, len(pos))
	if err := c.Evaluate(pos, dist, nil); err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		if want := c.At(p).Distance; dist[i] != want {
			t.Fatalf("batch distance %v at %v, want %v", dist[i], p, want)
		}
	}
	if err := c.Evaluate(pos[:1], dist, nil); err == nil {
		t.Error("mismatched buffers evaluated without error")
	}
}
