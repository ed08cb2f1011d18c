package gmarch

import (
	"errors"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Record is one primitive operation unit of a scene: a shape, its rigid
// placement, the operation folding it into the running result and the
// surface material it carries.
type Record struct {
	// Shape is the primitive the record evaluates. Must be non-nil.
	Shape Shape
	// Center positions the shape in world space.
	Center ms3.Vec
	// Rotation orients the shape about its center. The zero value is
	// normalized to identity when the scene is built.
	Rotation Rotation
	// Op folds the shape distance into the running result.
	Op Op
	// Blend smooths the operation seam over the given radius when positive.
	// Zero keeps the operation hard.
	Blend float32
	// Albedo is the RGB base color of the record surface.
	Albedo ms3.Vec
	// Specular is the specular reflectance of the record surface.
	Specular float32
}

// Rotation is a rigid orientation stored as the inverse (world to local)
// rotation matrix, ready to take sample points into a shape's local frame.
type Rotation struct {
	c0, c1, c2 ms3.Vec
}

// RotationAbout returns the orientation produced by rotating radians about
// the axis direction. The axis must be a non-null vector.
func (bld *Builder) RotationAbout(radians float32, axis ms3.Vec) Rotation {
	if axis == (ms3.Vec{}) {
		bld.shapeErrorf("null rotation axis")
		return Rotation{}
	}
	u := ms3.Unit(axis)
	s, c := math32.Sincos(-radians)
	m := 1 - c
	return Rotation{
		c0: ms3.Vec{X: c + m*u.X*u.X, Y: m*u.X*u.Y + s*u.Z, Z: m*u.X*u.Z - s*u.Y},
		c1: ms3.Vec{X: m*u.X*u.Y - s*u.Z, Y: c + m*u.Y*u.Y, Z: m*u.Y*u.Z + s*u.X},
		c2: ms3.Vec{X: m*u.X*u.Z + s*u.Y, Y: m*u.Y*u.Z - s*u.X, Z: c + m*u.Z*u.Z},
	}
}

func identityRotation() Rotation {
	return Rotation{
		c0: ms3.Vec{X: 1},
		c1: ms3.Vec{Y: 1},
		c2: ms3.Vec{Z: 1},
	}
}

// toLocal takes a world frame vector into the local frame.
func (r Rotation) toLocal(p ms3.Vec) ms3.Vec {
	v := ms3.Scale(p.X, r.c0)
	v = ms3.Add(v, ms3.Scale(p.Y, r.c1))
	return ms3.Add(v, ms3.Scale(p.Z, r.c2))
}

// toWorld inverts toLocal. The stored matrix is orthonormal so the forward
// rotation is its transpose.
func (r Rotation) toWorld(p ms3.Vec) ms3.Vec {
	return ms3.Vec{X: ms3.Dot(r.c0, p), Y: ms3.Dot(r.c1, p), Z: ms3.Dot(r.c2, p)}
}

// Field is a queryable distance field with surface attribution.
// *Scene and *Collection implement it.
type Field interface {
	// At returns the field result at world point p.
	At(p ms3.Vec) Result
	// Bounds returns a box enclosing every surface of the field.
	Bounds() ms3.Box
}

// Scene is an immutable ordered record list together with the object index
// its packed surface ids carry. Evaluation folds the records left to right,
// so a record combines only against the accumulated result of the records
// before it. Scenes are built by [Builder.Scene] or decoded by [DecodeWords].
type Scene struct {
	records []Record
	object  uint16
	bb      ms3.Box
}

// Append adds a record to the scene under construction. Field errors
// accumulate in the builder like shape dimension errors do.
func (bld *Builder) Append(r Record) {
	if r.Shape == nil {
		bld.shapeErrorf("record with nil shape")
	} else if !r.Op.valid() {
		bld.shapeErrorf("record op code %d out of range", uint32(r.Op))
	} else if r.Blend < 0 || !isfinite(r.Blend) {
		bld.shapeErrorf("negative or non-finite record blend radius")
	}
	bld.records = append(bld.records, r)
}

// Scene validates the accumulated records and returns them as a scene tagged
// with the argument object index. The builder is reset regardless of error.
func (bld *Builder) Scene(object uint16) (*Scene, error) {
	recs := bld.records
	bld.records = nil
	err := bld.Err()
	bld.accumErrs = nil
	if err != nil {
		return nil, err
	}
	return newScene(recs, object)
}

func newScene(recs []Record, object uint16) (*Scene, error) {
	if err := validateRecords(recs); err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].Rotation == (Rotation{}) {
			recs[i].Rotation = identityRotation()
		}
	}
	return &Scene{records: recs, object: object, bb: sceneBounds(recs)}, nil
}

func validateRecords(recs []Record) error {
	if len(recs) > maxSceneRecords {
		return configErrorf("scene record count %d exceeds maximum %d", len(recs), maxSceneRecords)
	}
	for i := range recs {
		r := &recs[i]
		if r.Shape == nil {
			return configErrorf("record %d has nil shape", i)
		} else if !r.Op.valid() {
			return configErrorf("record %d op code %d out of range", i, uint32(r.Op))
		} else if r.Blend < 0 || !isfinite(r.Blend) {
			return configErrorf("record %d has negative or non-finite blend radius", i)
		}
	}
	return nil
}

// Object returns the object index carried by surface ids packed during
// evaluation of this scene.
func (s *Scene) Object() uint16 { return s.object }

// Len returns the number of records in the scene.
func (s *Scene) Len() int { return len(s.records) }

// Record returns a copy of record i.
func (s *Scene) Record(i int) Record { return s.records[i] }

// Bounds returns the world axis aligned box enclosing every record surface.
// Subtractive and intersecting records widen the box conservatively.
func (s *Scene) Bounds() ms3.Box { return s.bb }

// At folds the scene records left to right at world point p starting from
// the background accumulator. An empty scene returns background everywhere.
func (s *Scene) At(p ms3.Vec) Result {
	acc := background()
	for i := range s.records {
		r := &s.records[i]
		q := r.Rotation.toLocal(ms3.Sub(p, r.Center))
		cand := Result{
			Distance: r.Shape.distance(q),
			ID:       PackID(s.object, uint16(i)),
			Albedo:   r.Albedo,
			Specular: r.Specular,
		}
		acc = combine(r.Op, r.Blend, acc, cand)
	}
	return acc
}

// Evaluate computes the signed distance at each position into dist. It
// implements the geval.SDF3 batch contract; userData is ignored and the
// method is safe for concurrent use.
func (s *Scene) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errors.New("position and distance buffers not equal in length")
	}
	for i, p := range pos {
		dist[i] = s.At(p).Distance
	}
	return nil
}

func sceneBounds(recs []Record) (bb ms3.Box) {
	for i := range recs {
		rb := recordBounds(&recs[i])
		if i == 0 {
			bb = rb
		} else {
			bb = bb.Union(rb)
		}
	}
	return bb
}

// recordBounds rotates the local box corners into world space and takes
// their extrema.
func recordBounds(r *Record) (bb ms3.Box) {
	lb := r.Shape.bounds()
	for i := 0; i < 8; i++ {
		c := lb.Min
		if i&1 != 0 {
			c.X = lb.Max.X
		}
		if i&2 != 0 {
			c.Y = lb.Max.Y
		}
		if i&4 != 0 {
			c.Z = lb.Max.Z
		}
		w := ms3.Add(r.Center, r.Rotation.toWorld(c))
		if i == 0 {
			bb = ms3.Box{Min: w, Max: w}
		} else {
			bb.Min = ms3.MinElem(bb.Min, w)
			bb.Max = ms3.MaxElem(bb.Max, w)
		}
	}
	return bb
}

// SceneVar publishes a scene to concurrent readers. Publish validates and
// atomically replaces the current scene while readers keep evaluating the
// previous one; Load never blocks. The zero value holds no scene.
type SceneVar struct {
	cur atomic.Pointer[Scene]
}

// Publish re-validates s and makes it the scene returned by [SceneVar.Load].
func (sv *SceneVar) Publish(s *Scene) error {
	if s == nil {
		return configErrorf("cannot publish nil scene")
	}
	if err := validateRecords(s.records); err != nil {
		return err
	}
	sv.cur.Store(s)
	Logger().Debug("scene published", "object", s.object, "records", s.Len())
	return nil
}

// Load returns the currently published scene, or nil if none was published.
func (sv *SceneVar) Load() *Scene { return sv.cur.Load() }
