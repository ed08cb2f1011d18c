package geval_test

import (
	"testing"

	"github.com/gmarch/gmarch"
	"github.com/gmarch/gmarch/geval"
	"github.com/soypat/geometry/ms3"
)

func testScene(t *testing.T) *gmarch.Scene {
	t.Helper()
	var bld gmarch.Builder
	bld.Append(gmarch.Record{Shape: bld.NewBox(1.5, 1, 2, 0.1), Op: gmarch.OpUnion})
	bld.Append(gmarch.Record{Shape: bld.NewSphere(0.7), Center: ms3.Vec{X: 0.8}, Op: gmarch.OpUnion, Blend: 0.2})
	bld.Append(gmarch.Record{Shape: bld.NewSphere(0.4), Center: ms3.Vec{Y: 0.5}, Op: gmarch.OpSubtraction})
	s, err := bld.Scene(0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func gridPositions(t *testing.T, s geval.SDF3, n int) []ms3.Vec {
	t.Helper()
	bb := s.Bounds()
	bb.Min = ms3.AddScalar(-0.3, bb.Min)
	bb.Max = ms3.AddScalar(0.3, bb.Max)
	return ms3.AppendGrid(nil, bb, n, n, n)
}

func TestVecPool(t *testing.T) {
	var vp geval.VecPool
	f := vp.Float.Acquire(128)
	if len(f) != 128 {
		t.Fatalf("acquired length %d, want 128", len(f))
	}
	if err := vp.AssertAllReleased(); err == nil {
		t.Error("outstanding buffer not reported")
	}
	if err := vp.Float.Release(f); err != nil {
		t.Fatal(err)
	}
	if err := vp.AssertAllReleased(); err != nil {
		t.Fatal(err)
	}
	// Released buffers are reused by acquisitions that fit.
	f2 := vp.Float.Acquire(64)
	if &f[0] != &f2[0] {
		t.Error("pool did not reuse released buffer")
	}
	if err := vp.Float.Release(f2); err != nil {
		t.Fatal(err)
	}
	if err := vp.Float.Release(f2); err == nil {
		t.Error("double release not reported")
	}
	foreign := make([]float32, 8)
	if err := vp.Float.Release(foreign); err == nil {
		t.Error("foreign buffer release not reported")
	}
}

type poolCarrier struct{ vp *geval.VecPool }

func (c poolCarrier) VecPool() *geval.VecPool { return c.vp }

func TestGetVecPool(t *testing.T) {
	var vp geval.VecPool
	got, err := geval.GetVecPool(&vp)
	if err != nil || got != &vp {
		t.Fatalf("direct pool lookup: %v", err)
	}
	got, err = geval.GetVecPool(poolCarrier{vp: &vp})
	if err != nil || got != &vp {
		t.Fatalf("method pool lookup: %v", err)
	}
	if _, err = geval.GetVecPool(42); err == nil {
		t.Error("non-pool userData accepted")
	}
	if _, err = geval.GetVecPool(nil); err == nil {
		t.Error("nil userData accepted")
	}
}

func TestNormalsTetrahedral(t *testing.T) {
	s := testScene(t)
	var vp geval.VecPool
	pos := gridPositions(t, s, 6)
	normals := make([]ms3.Vec, len(pos))
	const eps = 1e-3
	if err := geval.NormalsTetrahedral(s, pos, normals, eps, &vp); err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		want := gmarch.Normal(s, p, eps)
		if want == (ms3.Vec{}) {
			continue // Degenerate gradient.
		}
		got := ms3.Unit(normals[i])
		if angle := ms3.Cos(got, want); angle < 0.9999 {
			t.Errorf("batch normal %v at %v, want %v (cos=%v)", got, p, want, angle)
		}
	}
	if err := vp.AssertAllReleased(); err != nil {
		t.Error(err)
	}
	if err := geval.NormalsTetrahedral(s, pos, normals[:1], eps, &vp); err == nil {
		t.Error("mismatched buffers accepted")
	}
	if err := geval.NormalsTetrahedral(nil, pos, normals, eps, &vp); err == nil {
		t.Error("nil field accepted")
	}
	if err := geval.NormalsTetrahedral(s, pos, normals, 0, &vp); err == nil {
		t.Error("zero step accepted")
	}
	if err := geval.NormalsTetrahedral(s, pos, normals, eps, nil); err == nil {
		t.Error("missing pool accepted")
	}
}

func TestParallelSDF3(t *testing.T) {
	s := testScene(t)
	par, err := geval.NewParallelSDF3(s, 4)
	if err != nil {
		t.Fatal(err)
	}
	if par.Bounds() != s.Bounds() {
		t.Error("parallel bounds differ from wrapped field")
	}
	pos := gridPositions(t, s, 16)
	want := make([]float32, len(pos))
	got := make([]float32, len(pos))
	if err := s.Evaluate(pos, want, nil); err != nil {
		t.Fatal(err)
	}
	if err := par.Evaluate(pos, got, nil); err != nil {
		t.Fatal(err)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("parallel distance %v at index %d, want %v", got[i], i, want[i])
		}
	}
	if err := par.Evaluate(pos, got[:1], nil); err == nil {
		t.Error("mismatched buffers accepted")
	}
	if err := par.Evaluate(nil, nil, nil); err == nil {
		t.Error("empty buffers accepted")
	}
	if _, err := geval.NewParallelSDF3(nil, 1); err == nil {
		t.Error("nil field accepted")
	}
}
