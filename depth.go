package gmarch

// DepthRange holds the near and far clip distances parameterizing the
// reversed hyperbolic depth mapping used by depth buffers: depth is 1 at
// Near, 0 at Far and falls off as the reciprocal of distance in between.
type DepthRange struct {
	Near float32
	Far  float32
}

// DefaultDepthRange is a clip window suited to scenes of roughly unit scale.
func DefaultDepthRange() DepthRange {
	return DepthRange{Near: 0.01, Far: 100}
}

// Validate returns a non-nil error if the range cannot parameterize the
// depth mapping.
func (d DepthRange) Validate() error {
	if !isfinite(d.Near) || !isfinite(d.Far) {
		return configErrorf("non-finite depth range [%v, %v]", d.Near, d.Far)
	} else if d.Near <= 0 {
		return configErrorf("depth range near %v must be positive", d.Near)
	} else if d.Far <= d.Near {
		return configErrorf("depth range far %v must exceed near %v", d.Far, d.Near)
	}
	return nil
}

func (d DepthRange) coeffs() (a, b float32) {
	b = d.Near / (d.Far - d.Near)
	return d.Far * b, b
}

// DistanceToDepth converts a travel distance along a ray to reversed depth.
func (d DepthRange) DistanceToDepth(dist float32) float32 {
	a, b := d.coeffs()
	return a/dist - b
}

// DepthToDistance converts a reversed depth value back to travel distance.
// It inverts [DepthRange.DistanceToDepth].
func (d DepthRange) DepthToDistance(depth float32) float32 {
	a, b := d.coeffs()
	return a / (depth + b)
}
