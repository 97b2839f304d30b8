package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/themetalleg/mandelbrot"
)

// Palette maps an escape count to a display color. Implementations must be
// pure functions of (n, maxIter) so identical requests produce identical
// buffers. n == maxIter means the point is inside the set and always maps
// to opaque black.
type Palette func(n, maxIter int) color.RGBA

// inSet is the fixed color for points that never escape.
var inSet = color.RGBA{A: 255}

// Classic is a modular gradient: channel intensities cycle at different
// rates as the escape count grows.
func Classic(n, maxIter int) color.RGBA {
	if n >= maxIter {
		return inSet
	}
	return color.RGBA{R: uint8(n % 256), G: uint8(n % 128), B: uint8(n % 64), A: 255}
}

// Gradient sweeps the HSV hue circle once from n = 0 to n = maxIter.
func Gradient(n, maxIter int) color.RGBA {
	if n >= maxIter {
		return inSet
	}
	return hsv(float64(n)/float64(maxIter), 1, 1)
}

// Grayscale is a linear ramp from black to white.
func Grayscale(n, maxIter int) color.RGBA {
	if n >= maxIter {
		return inSet
	}
	v := uint8(255 * n / maxIter)
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// Smooth mixes phase-shifted sine waves over the escape count, which reads
// as a continuous gradient without the banding of the modular palettes.
func Smooth(n, maxIter int) color.RGBA {
	if n >= maxIter {
		return inSet
	}
	mu := float64(n)
	r := uint8(127.5 * (1 + math.Sin(0.1*mu)))
	g := uint8(127.5 * (1 + math.Sin(0.1*mu+2.094)))
	b := uint8(127.5 * (1 + math.Sin(0.1*mu+4.188)))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// hsv converts a color from HSV space (all components in [0, 1]) to RGBA.
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}

var palettes = map[string]Palette{
	"classic":   Classic,
	"gradient":  Gradient,
	"grayscale": Grayscale,
	"smooth":    Smooth,
}

// PaletteByName returns the palette registered under name.
func PaletteByName(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, &mandelbrot.ConfigError{Field: "palette", Reason: "unknown palette " + name}
	}
	return p, nil
}

// PaletteNames lists the registered palette names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
