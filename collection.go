package gmarch

import (
	"errors"

	"github.com/soypat/geometry/ms3"
)

// Collection composes the fields of multiple scenes, typically one per
// editable object, by hard union. Surface attribution survives composition
// since each scene packs its own object index into the ids it emits.
type Collection struct {
	scenes []*Scene
	bb     ms3.Box
}

// NewCollection returns a collection over the argument scenes. Scenes must
// be non-nil and carry distinct object indices so ids stay unambiguous.
func NewCollection(scenes ...*Scene) (*Collection, error) {
	seen := make(map[uint16]bool, len(scenes))
	c := &Collection{scenes: scenes}
	for i, s := range scenes {
		if s == nil {
			return nil, configErrorf("collection scene %d is nil", i)
		}
		if seen[s.object] {
			return nil, configErrorf("duplicate object index %d in collection", s.object)
		}
		seen[s.object] = true
		if i == 0 {
			c.bb = s.bb
		} else {
			c.bb = c.bb.Union(s.bb)
		}
	}
	return c, nil
}

// Len returns the number of composed scenes.
func (c *Collection) Len() int { return len(c.scenes) }

// Scene returns the i-th composed scene.
func (c *Collection) Scene(i int) *Scene { return c.scenes[i] }

// At evaluates every composed scene at p and keeps the nearest surface.
// Ties keep the earlier scene.
func (c *Collection) At(p ms3.Vec) Result {
	acc := background()
	for _, s := range c.scenes {
		acc = hardUnion(acc, s.At(p))
	}
	return acc
}

// Bounds returns the union of the composed scene bounds.
func (c *Collection) Bounds() ms3.Box { return c.bb }

// Evaluate computes the signed distance of the composed field at each
// position into dist, implementing the geval.SDF3 batch contract.
func (c *Collection) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errors.New("position and distance buffers not equal in length")
	}
	for i, p := range pos {
		dist[i] = c.At(p).Distance
	}
	return nil
}
