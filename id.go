package gmarch

import "fmt"

// SurfaceID identifies the surface a field sample or ray hit belongs to.
// It packs an object index in the high 16 bits and a record index in the
// low 16 bits, or carries one of the reserved sentinel values below.
type SurfaceID uint32

// Reserved record-index values. An id holding one of these in its low half is
// a sentinel, never a reference to a real record.
const (
	recordIndexGizmo   = 0xFFFD
	recordIndexBlend   = 0xFFFE
	recordIndexInvalid = 0xFFFF
)

const (
	// IDBackground marks samples beyond every surface of the scene.
	IDBackground SurfaceID = 0xFFFF_FFFF
	// IDInvalid marks results not attributed to any surface yet.
	IDInvalid SurfaceID = recordIndexInvalid
	// MaxRecordIndex is the largest record index [PackID] can encode without
	// colliding with a reserved sentinel value.
	MaxRecordIndex = recordIndexGizmo - 1
)

// IDClass discriminates the meaning of a [SurfaceID].
type IDClass uint8

const (
	// ClassSurface ids reference a concrete scene record.
	ClassSurface IDClass = iota
	// ClassBackground ids mark empty space.
	ClassBackground
	// ClassBlend ids mark the seam region of a smooth union, where the
	// surface belongs to no single record.
	ClassBlend
	// ClassGizmo ids mark overlay geometry that is not part of the scene.
	ClassGizmo
	// ClassInvalid ids mark unattributed results.
	ClassInvalid
)

func (c IDClass) String() (s string) {
	switch c {
	case ClassSurface:
		s = "surface"
	case ClassBackground:
		s = "background"
	case ClassBlend:
		s = "blend"
	case ClassGizmo:
		s = "gizmo"
	case ClassInvalid:
		s = "invalid"
	default:
		s = "IDClass(" + fmt.Sprint(uint8(c)) + ")"
	}
	return s
}

// PackID packs an object index and a record index into a surface id.
// record must not exceed [MaxRecordIndex]; the values above it alias the
// reserved sentinels. [Builder.Scene] and [DecodeWords] enforce the record
// count limit so ids packed during evaluation are always valid.
func PackID(object, record uint16) SurfaceID {
	return SurfaceID(object)<<16 | SurfaceID(record)
}

// BlendID returns the sentinel id marking a smooth union seam within the
// scene of the given object index.
func BlendID(object uint16) SurfaceID {
	return SurfaceID(object)<<16 | recordIndexBlend
}

// GizmoID returns the sentinel id marking overlay geometry drawn over the
// scene of the given object index.
func GizmoID(object uint16) SurfaceID {
	return SurfaceID(object)<<16 | recordIndexGizmo
}

// Class returns the interpretation of the id. The full-width background
// sentinel is distinguished before the low-half sentinels since its low half
// aliases the invalid record index.
func (id SurfaceID) Class() IDClass {
	if id == IDBackground {
		return ClassBackground
	}
	switch uint16(id) {
	case recordIndexInvalid:
		return ClassInvalid
	case recordIndexBlend:
		return ClassBlend
	case recordIndexGizmo:
		return ClassGizmo
	}
	return ClassSurface
}

// Object returns the object index half of the id. It is meaningful for
// surface, blend and gizmo class ids.
func (id SurfaceID) Object() uint16 {
	return uint16(id >> 16)
}

// Indices unpacks a surface class id into its object and record indices.
// ok is false for sentinel ids, whose indices carry no meaning.
func (id SurfaceID) Indices() (object, record uint16, ok bool) {
	if id.Class() != ClassSurface {
		return 0, 0, false
	}
	return uint16(id >> 16), uint16(id), true
}

func (id SurfaceID) String() string {
	c := id.Class()
	if c == ClassSurface {
		return fmt.Sprintf("surface(%d:%d)", id.Object(), uint16(id))
	} else if c == ClassBackground {
		return "background"
	}
	return fmt.Sprintf("%s(%d)", c.String(), id.Object())
}
