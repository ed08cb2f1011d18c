package grender

import (
	"github.com/gmarch/gmarch"
	"github.com/soypat/geometry/ms3"
)

// Camera generates the view rays marched through a scene. It points from
// Position toward Target with a pinhole projection of the given focal length:
// larger focal lengths narrow the field of view. The zero value is not usable,
// construct with [NewCamera] or fill Position and Target and call
// [Camera.Validate].
type Camera struct {
	// Position is the camera location in world space.
	Position ms3.Vec
	// Target is the point the camera looks at. Must differ from Position.
	Target ms3.Vec
	// Up breaks the roll ambiguity of the view basis. The zero value
	// selects world +Y. Must not be parallel to the view direction.
	Up ms3.Vec
	// FocalLength scales the view plane distance in units of half the
	// vertical image extent. Zero selects 1.5, about a 37 degree half
	// angle of vertical view.
	FocalLength float32
}

// NewCamera returns a camera at position looking at target with the default
// up direction and focal length.
func NewCamera(position, target ms3.Vec) Camera {
	return Camera{Position: position, Target: target}
}

// LookAtField returns a camera framing the bounds of f from the argument
// view direction, backed far enough away that the whole field fits the view.
func LookAtField(f gmarch.Field, viewDir ms3.Vec) Camera {
	bb := f.Bounds()
	center := bb.Center()
	diag := ms3.Norm(bb.Size())
	if diag == 0 {
		diag = 1
	}
	if viewDir == (ms3.Vec{}) {
		viewDir = ms3.Vec{X: 0, Y: 0, Z: -1}
	}
	dir := ms3.Unit(viewDir)
	return Camera{
		Position: ms3.Add(center, ms3.Scale(-diag, dir)),
		Target:   center,
	}
}

func (c Camera) withDefaults() Camera {
	if c.Up == (ms3.Vec{}) {
		c.Up = ms3.Vec{Y: 1}
	}
	if c.FocalLength == 0 {
		c.FocalLength = 1.5
	}
	return c
}

// Validate returns a non-nil error if the camera cannot produce a view basis.
func (c Camera) Validate() error {
	c = c.withDefaults()
	if c.Position == c.Target {
		return errCamDegenerate
	} else if c.FocalLength < 0 {
		return errCamFocal
	}
	fwd := ms3.Unit(ms3.Sub(c.Target, c.Position))
	if ms3.Norm(ms3.Cross(fwd, ms3.Unit(c.Up))) < 1e-6 {
		return errCamUpParallel
	}
	return nil
}

// basis returns the right, up and forward unit vectors of the view frame.
func (c Camera) basis() (uu, vv, ww ms3.Vec) {
	ww = ms3.Unit(ms3.Sub(c.Target, c.Position))
	uu = ms3.Unit(ms3.Cross(ww, c.Up))
	vv = ms3.Cross(uu, ww)
	return uu, vv, ww
}

// ray returns the world ray through normalized view plane coordinates
// (px, py), where py spans [-1,1] bottom to top and px the same scaled by
// aspect ratio. The travel window comes from the depth range.
func (c Camera) ray(px, py float32, depth gmarch.DepthRange) gmarch.Ray {
	uu, vv, ww := c.basis()
	d := ms3.Add(ms3.Scale(px, uu), ms3.Scale(py, vv))
	d = ms3.Add(d, ms3.Scale(c.FocalLength, ww))
	return gmarch.Ray{
		Origin:    c.Position,
		Direction: ms3.Unit(d),
		TravelMin: depth.Near,
		TravelMax: depth.Far,
	}
}
