//go:build !tinygo && cgo

package geval

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/gmarch/gmarch"
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// Init1x1GLFW starts a 1x1 sized GLFW so that user can start working with GPU.
// It returns a termination function that should be called when user is done running loads on GPU.
func Init1x1GLFW() (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "compute",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	return terminate, err
}

// ComputeConfig bounds a GPU compute dispatch.
type ComputeConfig struct {
	// InvocX is the invocation count per workgroup along X compiled into the
	// kernel. 32 works on all conformant GL implementations.
	InvocX int
}

var errZeroInvoc = errors.New("zero or negative invocation size")

// SceneCompute evaluates an encoded record stream on the GPU. The records are
// uploaded to an SSBO on every batch so a republished scene only needs a new
// SceneCompute when its record count grows past the compiled stream.
type SceneCompute struct {
	prog        glgl.Program
	words       []uint32
	bb          ms3.Box
	invocX      int
	evaluations uint64
}

// NewSceneCompute compiles the scene evaluation kernel and binds it to the
// encoded records of s. Requires a current GL context, see [Init1x1GLFW].
func NewSceneCompute(s *gmarch.Scene, cfg ComputeConfig) (*SceneCompute, error) {
	if s == nil {
		return nil, errors.New("nil scene")
	} else if s.Len() == 0 {
		return nil, errors.New("cannot compile empty scene")
	} else if cfg.InvocX < 1 {
		return nil, errZeroInvoc
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{Compute: sceneKernel(cfg.InvocX)})
	if err != nil {
		return nil, fmt.Errorf("compiling scene kernel: %w", err)
	}
	sdf := SceneCompute{
		prog:   prog,
		words:  s.Words(),
		bb:     s.Bounds(),
		invocX: cfg.InvocX,
	}
	return &sdf, nil
}

// Bounds returns the bounds of the compiled scene.
func (sdf *SceneCompute) Bounds() ms3.Box {
	return sdf.bb
}

// Evaluations returns total evaluations performed succesfully during the
// evaluator's lifetime.
func (sdf *SceneCompute) Evaluations() uint64 {
	return sdf.evaluations
}

// Delete releases the GPU program. The evaluator must not be used after.
func (sdf *SceneCompute) Delete() {
	sdf.prog.Delete()
}

// Evaluate implements the [SDF3] interface on the GPU. userData is unused.
func (sdf *SceneCompute) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(dist) == 0 {
		return errEmptyBuffers
	} else if sdf.prog.ID() == 0 {
		return errors.New("program id is 0, was SceneCompute initialized or deleted?")
	}
	sdf.prog.Bind()
	defer sdf.prog.Unbind()
	err := glgl.Err()
	if err != nil {
		return fmt.Errorf("binding scene compute program: %w", err)
	}
	var p runtime.Pinner
	sceneSSBO := loadSSBO(sdf.words, 2, gl.STATIC_DRAW)
	if sceneSSBO == 0 {
		return glErrOrMessage("loading scene records SSBO got zero id")
	}
	p.Pin(&sceneSSBO)
	defer p.Unpin()
	defer gl.DeleteBuffers(1, &sceneSSBO)

	err = computeEvaluate(pos, dist, sdf.invocX)
	if err != nil {
		return err
	}
	sdf.evaluations += uint64(len(dist))
	return nil
}

func computeEvaluate(pos []ms3.Vec, dist []float32, invocX int) (err error) {
	if len(pos) != len(dist) {
		return errors.New("positional and distance buffers not equal in length")
	} else if len(dist) == 0 {
		return errors.New("zero length buffers")
	} else if invocX < 1 {
		return errZeroInvoc
	}
	var p runtime.Pinner
	var posSSBO, distSSBO uint32
	p.Pin(&posSSBO)
	p.Pin(&distSSBO)
	defer p.Unpin()

	posSSBO = loadSSBO(pos, 0, gl.STATIC_DRAW)
	if posSSBO == 0 {
		return glErrOrMessage("zero SSBO id set by GL during compute loading")
	}
	defer gl.DeleteBuffers(1, &posSSBO)

	distSSBO = createSSBO(elemSize[float32]()*len(dist), 1, gl.DYNAMIC_READ)
	if distSSBO == 0 {
		return glErrOrMessage("zero id SSBO creating distance buffer")
	}
	defer gl.DeleteBuffers(1, &distSSBO)

	nWorkX := (len(dist) + invocX - 1) / invocX
	gl.DispatchCompute(uint32(nWorkX), 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)
	err = copySSBO(dist, distSSBO)
	if err != nil {
		return err
	}
	return glgl.Err()
}

func elemSize[T any]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

func loadSSBO[T any](slice []T, base, usage uint32) (ssbo uint32) {
	var p runtime.Pinner
	p.Pin(&ssbo)
	gl.GenBuffers(1, &ssbo)
	p.Unpin()
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	size := len(slice) * elemSize[T]()
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, unsafe.Pointer(&slice[0]), usage)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, base, ssbo)
	return ssbo
}

func createSSBO(size int, base, usage uint32) (ssbo uint32) {
	gl.GenBuffers(1, &ssbo)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, nil, usage)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, base, ssbo)
	return ssbo
}

func copySSBO[T any](dst []T, ssbo uint32) error {
	singleSize := elemSize[T]()
	bufSize := singleSize * len(dst)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	ptr := gl.MapBufferRange(gl.SHADER_STORAGE_BUFFER, 0, bufSize, gl.MAP_READ_BIT)
	if ptr == nil {
		return glErrOrMessage("failed to map SSBO buffer during copy")
	}
	defer gl.UnmapBuffer(gl.SHADER_STORAGE_BUFFER)
	gpuBytes := unsafe.Slice((*byte)(ptr), bufSize)
	bufBytes := unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), bufSize)
	copy(bufBytes, gpuBytes)
	return nil
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}
