// Package mandelbrot holds the complex-plane types shared by the renderer
// and the interactive front ends: the viewport rectangle, the pixel to
// complex-plane mapping and the click-to-zoom derivation.
package mandelbrot

import (
	"fmt"
	"math"
)

// Viewport is the rectangular region of the complex plane currently mapped
// onto the pixel buffer. It is an immutable value; zooming produces a new
// Viewport rather than mutating the old one.
type Viewport struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Dx returns the width of the viewport on the real axis.
func (v Viewport) Dx() float64 { return v.Xmax - v.Xmin }

// Dy returns the height of the viewport on the imaginary axis.
func (v Viewport) Dy() float64 { return v.Ymax - v.Ymin }

// Validate reports whether the viewport bounds are finite and ordered.
func (v Viewport) Validate() error {
	for _, b := range [...]float64{v.Xmin, v.Xmax, v.Ymin, v.Ymax} {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return &ConfigError{Field: "viewport", Reason: "bounds must be finite"}
		}
	}
	if v.Xmin >= v.Xmax {
		return &ConfigError{Field: "viewport", Reason: fmt.Sprintf("xmin (%g) must be less than xmax (%g)", v.Xmin, v.Xmax)}
	}
	if v.Ymin >= v.Ymax {
		return &ConfigError{Field: "viewport", Reason: fmt.Sprintf("ymin (%g) must be less than ymax (%g)", v.Ymin, v.Ymax)}
	}
	return nil
}

// PixelToComplex maps pixel (px, py) of a w×h buffer onto the complex plane
// by linear interpolation across the viewport. Pixel (0, 0) maps exactly to
// (Xmin, Ymin). Out-of-range pixels extrapolate; callers own the pixel
// range, so that is not an error.
func (v Viewport) PixelToComplex(px, py, w, h int) complex128 {
	re := v.Xmin + (float64(px)/float64(w))*v.Dx()
	im := v.Ymin + (float64(py)/float64(h))*v.Dy()
	return complex(re, im)
}

// ZoomAt returns the viewport scaled by factor and centered on the complex
// point under pixel (px, py) of a w×h buffer. Factor below 1 zooms in,
// above 1 zooms out. The clicked point maps to the same pixel in the new
// viewport as it did in the old one.
func (v Viewport) ZoomAt(px, py, w, h int, factor float64) Viewport {
	c := v.PixelToComplex(px, py, w, h)
	dx := v.Dx() * factor
	dy := v.Dy() * factor

	// Anchor the new bounds so pixel (px, py) still maps to c. Solving the
	// forward mapping for Xmin/Ymin gives the offsets below.
	xmin := real(c) - (float64(px)/float64(w))*dx
	ymin := imag(c) - (float64(py)/float64(h))*dy
	return Viewport{
		Xmin: xmin,
		Xmax: xmin + dx,
		Ymin: ymin,
		Ymax: ymin + dy,
	}
}

// CorrectAspect widens the shorter complex axis around its center so that a
// pixel of a w×h buffer covers the same distance on both axes. The longer
// axis is never shrunk, so the original region stays fully visible.
func (v Viewport) CorrectAspect(w, h int) Viewport {
	px := v.Dx() / float64(w)
	py := v.Dy() / float64(h)
	switch {
	case px > py:
		cy := (v.Ymin + v.Ymax) / 2
		half := px * float64(h) / 2
		v.Ymin, v.Ymax = cy-half, cy+half
	case py > px:
		cx := (v.Xmin + v.Xmax) / 2
		half := py * float64(w) / 2
		v.Xmin, v.Xmax = cx-half, cx+half
	}
	return v
}

// String renders the viewport bounds for logs.
func (v Viewport) String() string {
	return fmt.Sprintf("re [%g, %g] im [%g, %g]", v.Xmin, v.Xmax, v.Ymin, v.Ymax)
}
