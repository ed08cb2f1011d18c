// Package grender rasterizes sphere traced scenes into images: per pixel it
// generates a camera ray, marches it through the field and stores the trace,
// from which color, normal, depth and picking id rasters are extracted.
package grender

import (
	"errors"
	"runtime"
	"sync"

	"github.com/gmarch/gmarch"
)

var (
	errCamDegenerate = errors.New("camera position and target coincide")
	errCamFocal      = errors.New("negative camera focal length")
	errCamUpParallel = errors.New("camera up direction parallel to view direction")
	errFrameSize     = errors.New("zero or negative frame dimensions")
)

// RenderConfig parameterizes one rendered frame. Zero valued fields other
// than Width, Height and Camera select defaults.
type RenderConfig struct {
	// Camera generates the per pixel view rays.
	Camera Camera
	// Width and Height are the output raster dimensions in pixels.
	Width, Height int
	// March bounds the sphere tracing loop of every pixel.
	March gmarch.MarchConfig
	// Depth is the clip window applied to rays and depth extraction.
	// The zero value selects [gmarch.DefaultDepthRange].
	Depth gmarch.DepthRange
	// Supersample renders at an integer multiple of the output resolution.
	// The color raster is downsampled back; trace rasters keep full
	// supersampled resolution. Values below 2 disable supersampling.
	Supersample int
	// Workers caps the goroutines marching scanlines. Zero selects
	// [runtime.GOMAXPROCS].
	Workers int
}

// Validate returns a non-nil error if the configuration cannot render.
func (cfg RenderConfig) Validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errFrameSize
	}
	if err := cfg.Camera.Validate(); err != nil {
		return err
	}
	if err := cfg.March.Validate(); err != nil {
		return err
	}
	if cfg.Depth != (gmarch.DepthRange{}) {
		if err := cfg.Depth.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (cfg RenderConfig) withDefaults() RenderConfig {
	if cfg.Depth == (gmarch.DepthRange{}) {
		cfg.Depth = gmarch.DefaultDepthRange()
	}
	if cfg.Supersample < 2 {
		cfg.Supersample = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg
}

// Frame holds the per pixel traces of one rendered image along with the
// depth range they were rendered under.
type Frame struct {
	width  int
	height int
	scale  int
	depth  gmarch.DepthRange
	traces []gmarch.Trace
}

// Width returns the trace raster width in pixels.
func (fr *Frame) Width() int { return fr.width }

// Height returns the trace raster height in pixels.
func (fr *Frame) Height() int { return fr.height }

// At returns the trace of the pixel at column x and row y, row 0 topmost.
func (fr *Frame) At(x, y int) gmarch.Trace {
	return fr.traces[y*fr.width+x]
}

// Render marches a camera ray for every pixel of the configured frame
// through f. Scanlines are distributed over a worker pool since every trace
// is an independent evaluation of the field.
func Render(f gmarch.Field, cfg RenderConfig) (*Frame, error) {
	if f == nil {
		return nil, errors.New("nil field")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	fr := &Frame{
		width:  cfg.Width * cfg.Supersample,
		height: cfg.Height * cfg.Supersample,
		scale:  cfg.Supersample,
		depth:  cfg.Depth,
		traces: make([]gmarch.Trace, cfg.Width*cfg.Height*cfg.Supersample*cfg.Supersample),
	}
	cam := cfg.Camera.withDefaults()
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				fr.renderRow(f, cam, cfg, y)
			}
		}()
	}
	for y := 0; y < fr.height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
	gmarch.Logger().Debug("frame rendered",
		"width", fr.width, "height", fr.height, "supersample", cfg.Supersample)
	return fr, nil
}

func (fr *Frame) renderRow(f gmarch.Field, cam Camera, cfg RenderConfig, y int) {
	w := float32(fr.width)
	h := float32(fr.height)
	// Pixel centers in view plane coordinates, y up.
	py := (h - 2*(float32(y)+0.5)) / h
	for x := 0; x < fr.width; x++ {
		px := (2*(float32(x)+0.5) - w) / h
		ray := cam.ray(px, py, cfg.Depth)
		fr.traces[y*fr.width+x] = gmarch.March(f, ray, cfg.March)
	}
}
