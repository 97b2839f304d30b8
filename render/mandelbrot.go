// Package render computes Mandelbrot escape times and turns them into
// pixel buffers. The image is split into tiles which a fixed pool of
// workers renders into disjoint regions of one shared buffer, so the
// output is identical for any worker count or tile size.
package render

// Escape performs the Mandelbrot iteration z = z²+c from z = 0 and returns
// the iteration at which |z| exceeds the bail-out radius 2, or maxIter if
// it never does (the point is presumed inside the set). The bail-out is
// tested on the squared modulus to avoid a square root.
func Escape(c complex128, maxIter int) int {
	var z complex128
	for n := 0; n < maxIter; n++ {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) > 4 {
			return n
		}
	}
	return maxIter
}
