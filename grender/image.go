package grender

import (
	"image"
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/gmarch/gmarch"
	"github.com/soypat/geometry/ms1"
	"golang.org/x/image/draw"
)

// Portions of the HSV manipulation logic in this file taken from Esme Lamb's
// (@dedelala) color work presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

// Background is the color painted where a trace missed every surface.
var Background = color.RGBA{R: 24, G: 24, B: 28, A: 255}

// ColorImage converts the frame's traces to an RGB raster of the hit surface
// albedos, with missed pixels painted [Background]. Lighting is consumed
// downstream from the normal raster, not applied here. Supersampled frames
// are downsampled to the configured output resolution with a Catmull-Rom
// kernel.
func (fr *Frame) ColorImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fr.width, fr.height))
	for y := 0; y < fr.height; y++ {
		for x := 0; x < fr.width; x++ {
			img.SetRGBA(x, y, albedoColor(fr.At(x, y)))
		}
	}
	return fr.downsample(img)
}

func albedoColor(t gmarch.Trace) color.RGBA {
	if !t.Hit() {
		return Background
	}
	return color.RGBA{
		R: uint8(ms1.Clamp(t.Albedo.X, 0, 1) * 255),
		G: uint8(ms1.Clamp(t.Albedo.Y, 0, 1) * 255),
		B: uint8(ms1.Clamp(t.Albedo.Z, 0, 1) * 255),
		A: 255,
	}
}

// NormalImage maps unit hit normals to RGB with the usual 0.5+0.5n encoding.
// Missed pixels are black.
func (fr *Frame) NormalImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fr.width, fr.height))
	for y := 0; y < fr.height; y++ {
		for x := 0; x < fr.width; x++ {
			t := fr.At(x, y)
			if !t.Hit() {
				img.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((0.5 + 0.5*ms1.Clamp(t.Normal.X, -1, 1)) * 255),
				G: uint8((0.5 + 0.5*ms1.Clamp(t.Normal.Y, -1, 1)) * 255),
				B: uint8((0.5 + 0.5*ms1.Clamp(t.Normal.Z, -1, 1)) * 255),
				A: 255,
			})
		}
	}
	return fr.downsample(img)
}

// DepthImage converts hit travel distances to the reversed depth mapping of
// the frame's depth range, quantized over the 16 bit gray scale. Background
// pixels store zero depth, the far plane value of the reversed mapping.
func (fr *Frame) DepthImage() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, fr.width, fr.height))
	for y := 0; y < fr.height; y++ {
		for x := 0; x < fr.width; x++ {
			t := fr.At(x, y)
			if !t.Hit() {
				continue
			}
			d := ms1.Clamp(fr.depth.DistanceToDepth(t.Distance), 0, 1)
			img.SetGray16(x, y, color.Gray16{Y: uint16(d * 65535)})
		}
	}
	return img
}

// PickImage returns the raw picking raster: the surface id of every pixel's
// trace, indexed like [Frame.At]. Callers classify entries with
// [gmarch.SurfaceID.Class] to tell objects, blend seams and background apart.
func (fr *Frame) PickImage() []gmarch.SurfaceID {
	ids := make([]gmarch.SurfaceID, len(fr.traces))
	for i := range fr.traces {
		ids[i] = fr.traces[i].ID
	}
	return ids
}

// IDImage false-colors the picking raster so every record surface gets a
// stable distinguishable hue. Blend seams render white, gizmos yellow and
// background black.
func (fr *Frame) IDImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fr.width, fr.height))
	for y := 0; y < fr.height; y++ {
		for x := 0; x < fr.width; x++ {
			img.SetRGBA(x, y, idColor(fr.At(x, y).ID))
		}
	}
	return img
}

func idColor(id gmarch.SurfaceID) color.RGBA {
	switch id.Class() {
	case gmarch.ClassBackground, gmarch.ClassInvalid:
		return color.RGBA{A: 255}
	case gmarch.ClassBlend:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	case gmarch.ClassGizmo:
		return color.RGBA{R: 255, G: 220, A: 255}
	}
	object, record, _ := id.Indices()
	// Low-discrepancy hue walk keeps neighboring record indices apart.
	h := math.Mod(float32(record)*0.6180339887+float32(object)*0.339, 1)
	r, g, b := hsvToRGB(h, 0.85, 0.95)
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}

func (fr *Frame) downsample(img *image.RGBA) *image.RGBA {
	if fr.scale <= 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, fr.width/fr.scale, fr.height/fr.scale))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// hsvToRGB converts hue, saturation and brightness values on the range of 0.0
// to 1.0 to RGB floating point values on the range of 0.0 to 1.0
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)
	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}
	r, g, b = r+m, g+m, b+m
	return r, g, b
}
