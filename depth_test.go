package gmarch_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/gmarch/gmarch"
)

func TestDepthDistanceRoundTrip(t *testing.T) {
	ranges := []gmarch.DepthRange{
		gmarch.DefaultDepthRange(),
		{Near: 0.1, Far: 10},
		{Near: 1, Far: 2},
		{Near: 0.5, Far: 1000},
	}
	for _, rng := range ranges {
		if err := rng.Validate(); err != nil {
			t.Fatalf("range %+v failed validation: %v", rng, err)
		}
		for dist := rng.Near; dist <= rng.Far; dist += (rng.Far - rng.Near) / 64 {
			depth := rng.DistanceToDepth(dist)
			if depth < 0 || depth > 1 {
				t.Errorf("range %+v distance %v mapped outside [0,1]: %v", rng, dist, depth)
			}
			back := rng.DepthToDistance(depth)
			tol := 1e-3 * dist
			if math32.Abs(back-dist) > tol {
				t.Errorf("range %+v round trip %v -> %v -> %v", rng, dist, depth, back)
			}
		}
	}
}

func TestDepthEndpoints(t *testing.T) {
	rng := gmarch.DefaultDepthRange()
	if d := rng.DistanceToDepth(rng.Near); math32.Abs(d-1) > 1e-5 {
		t.Errorf("depth at near plane is %v, want 1", d)
	}
	if d := rng.DistanceToDepth(rng.Far); math32.Abs(d) > 1e-5 {
		t.Errorf("depth at far plane is %v, want 0", d)
	}
	// Depth decreases monotonically with distance.
	prev := rng.DistanceToDepth(rng.Near)
	for dist := rng.Near * 2; dist < rng.Far; dist *= 2 {
		d := rng.DistanceToDepth(dist)
		if d >= prev {
			t.Errorf("depth %v at distance %v did not decrease from %v", d, dist, prev)
		}
		prev = d
	}
}

func TestDepthRangeValidate(t *testing.T) {
	bad := []gmarch.DepthRange{
		{},
		{Near: 0, Far: 10},
		{Near: -1, Far: 10},
		{Near: 5, Far: 5},
		{Near: 10, Far: 1},
		{Near: math32.Inf(1), Far: math32.Inf(1)},
	}
	for _, rng := range bad {
		if err := rng.Validate(); err == nil {
			t.Errorf("range %+v passed validation", rng)
		}
	}
}
