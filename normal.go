package gmarch

import "github.com/soypat/geometry/ms3"

// defaultNormalEps is the tetrahedral sampling offset used when none is given.
const defaultNormalEps = 1e-3

// Tetrahedral central difference directions. Summing the four field samples
// weighted by these recovers the gradient with four evaluations instead of
// the six of an axis-wise difference.
var tetrahedralDirs = [4]ms3.Vec{
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: 1},
}

// Normal estimates the unit surface normal of f at p by sampling the field
// at four tetrahedral offsets of eps. eps<=0 selects a default suited to
// unit-scale scenes. A degenerate gradient returns the zero vector.
func Normal(f Field, p ms3.Vec, eps float32) ms3.Vec {
	if eps <= 0 {
		eps = defaultNormalEps
	}
	var n ms3.Vec
	for _, dir := range tetrahedralDirs {
		d := f.At(ms3.Add(p, ms3.Scale(eps, dir))).Distance
		n = ms3.Add(n, ms3.Scale(d, dir))
	}
	mag := ms3.Norm(n)
	if mag < epstol {
		return ms3.Vec{}
	}
	return ms3.Scale(1/mag, n)
}
