package gmarch

import (
	"fmt"
	"math"

	"github.com/soypat/geometry/ms3"
)

// RecordWords is the fixed wire width of one record in 32-bit words:
//
//	[0:3)   center xyz
//	[3:12)  inverse rotation matrix, column major
//	[12:16) shape parameter vec4 (extents xyz, ring radius or beam half thickness)
//	[16:18) shape parameter vec2 (radius or rounding, cap angle or hollow)
//	[18:21) albedo rgb
//	[21]    specular
//	[22]    op code
//	[23]    blend radius
//
// Float words hold IEEE 754 binary32 bit patterns. The op word is a plain
// unsigned integer.
const RecordWords = 24

// Word offsets within a record.
const (
	wordCenter   = 0
	wordRotation = 3
	wordShape4   = 12
	wordShape2   = 16
	wordAlbedo   = 18
	wordSpecular = 21
	wordOp       = 22
	wordBlend    = 23
)

// maxSceneRecords keeps every record index packable by [PackID] without
// aliasing the reserved sentinel indices.
const maxSceneRecords = MaxRecordIndex + 1

// ConfigError reports a scene, record or buffer that violates the scene
// format contract.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return "scene config: " + e.msg }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// AppendWords appends the wire encoding of every scene record to dst and
// returns the extended slice.
func (s *Scene) AppendWords(dst []uint32) []uint32 {
	for i := range s.records {
		dst = appendRecordWords(dst, &s.records[i])
	}
	return dst
}

// Words returns the wire encoding of the scene as a fresh buffer.
func (s *Scene) Words() []uint32 {
	return s.AppendWords(make([]uint32, 0, len(s.records)*RecordWords))
}

func appendRecordWords(dst []uint32, r *Record) []uint32 {
	dst = appendVecWords(dst, r.Center)
	dst = appendVecWords(dst, r.Rotation.c0)
	dst = appendVecWords(dst, r.Rotation.c1)
	dst = appendVecWords(dst, r.Rotation.c2)
	v4, v2 := r.Shape.payload()
	for _, v := range v4 {
		dst = append(dst, math.Float32bits(v))
	}
	for _, v := range v2 {
		dst = append(dst, math.Float32bits(v))
	}
	dst = appendVecWords(dst, r.Albedo)
	dst = append(dst, math.Float32bits(r.Specular))
	dst = append(dst, uint32(r.Op))
	dst = append(dst, math.Float32bits(r.Blend))
	return dst
}

func appendVecWords(dst []uint32, v ms3.Vec) []uint32 {
	return append(dst, math.Float32bits(v.X), math.Float32bits(v.Y), math.Float32bits(v.Z))
}

// DecodeWords parses a record buffer previously produced by
// [Scene.AppendWords] into a scene tagged with the argument object index.
// Malformed buffers are rejected with a [*ConfigError].
func DecodeWords(words []uint32, object uint16) (*Scene, error) {
	if len(words)%RecordWords != 0 {
		return nil, configErrorf("buffer length %d is not a multiple of record width %d", len(words), RecordWords)
	}
	n := len(words) / RecordWords
	if n > maxSceneRecords {
		return nil, configErrorf("buffer record count %d exceeds maximum %d", n, maxSceneRecords)
	}
	recs := make([]Record, n)
	for i := range recs {
		if err := decodeRecord(&recs[i], i, words[i*RecordWords:(i+1)*RecordWords]); err != nil {
			return nil, err
		}
	}
	return newScene(recs, object)
}

func decodeRecord(r *Record, idx int, w []uint32) error {
	for j, word := range w {
		if j == wordOp {
			continue
		}
		if !isfinite(math.Float32frombits(word)) {
			return configErrorf("record %d word %d is not a finite float", idx, j)
		}
	}
	r.Center = decodeVecWords(w[wordCenter:])
	r.Rotation = Rotation{
		c0: decodeVecWords(w[wordRotation:]),
		c1: decodeVecWords(w[wordRotation+3:]),
		c2: decodeVecWords(w[wordRotation+6:]),
	}
	var v4 [4]float32
	var v2 [2]float32
	for j := range v4 {
		v4[j] = math.Float32frombits(w[wordShape4+j])
	}
	v2[0] = math.Float32frombits(w[wordShape2])
	v2[1] = math.Float32frombits(w[wordShape2+1])
	shape, err := classifyShape(v4, v2)
	if err != nil {
		return fmt.Errorf("record %d: %w", idx, err)
	}
	r.Shape = shape
	r.Albedo = decodeVecWords(w[wordAlbedo:])
	r.Specular = math.Float32frombits(w[wordSpecular])
	op := Op(w[wordOp])
	if !op.valid() {
		return configErrorf("record %d op code %d out of range", idx, w[wordOp])
	}
	r.Op = op
	r.Blend = math.Float32frombits(w[wordBlend])
	if r.Blend < 0 {
		return configErrorf("record %d has negative blend radius", idx)
	}
	return nil
}

func decodeVecWords(w []uint32) ms3.Vec {
	return ms3.Vec{
		X: math.Float32frombits(w[0]),
		Y: math.Float32frombits(w[1]),
		Z: math.Float32frombits(w[2]),
	}
}
