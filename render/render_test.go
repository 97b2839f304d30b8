package render

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/themetalleg/mandelbrot"
)

var testViewport = mandelbrot.Viewport{Xmin: -2, Xmax: 1, Ymin: -1.5, Ymax: 1.5}

func TestEscapeKnownPoints(t *testing.T) {
	const maxIter = 50

	// The origin is in the set and never escapes.
	if n := Escape(complex(0, 0), maxIter); n != maxIter {
		t.Errorf("Escape(0) = %d, want %d", n, maxIter)
	}

	// c = 2 escapes immediately.
	if n := Escape(complex(2, 0), maxIter); n > 1 {
		t.Errorf("Escape(2) = %d, want 0 or 1", n)
	}

	// -1 cycles between -1 and 0 forever.
	if n := Escape(complex(-1, 0), maxIter); n != maxIter {
		t.Errorf("Escape(-1) = %d, want %d", n, maxIter)
	}
}

func TestEscapeRange(t *testing.T) {
	const maxIter = 40
	for py := 0; py < 32; py++ {
		for px := 0; px < 32; px++ {
			c := testViewport.PixelToComplex(px, py, 32, 32)
			if n := Escape(c, maxIter); n < 0 || n > maxIter {
				t.Fatalf("Escape(%v) = %d, out of [0, %d]", c, n, maxIter)
			}
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	req := Request{Viewport: testViewport, Width: 100, Height: 100, MaxIter: 50}

	reference, err := New(WithWorkers(1), WithTileSize(64)).Render(context.Background(), req)
	if err != nil {
		t.Fatalf("reference render: %v", err)
	}

	tests := []struct {
		name     string
		workers  int
		tileSize int
	}{
		{"two workers", 2, 64},
		{"many workers", 8, 64},
		{"tiny tiles", 3, 1},
		{"odd tiles", 4, 7},
		{"oversized tiles", 2, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := New(WithWorkers(tt.workers), WithTileSize(tt.tileSize)).Render(context.Background(), req)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !bytes.Equal(img.Pix, reference.Pix) {
				t.Error("pixel buffer differs from single-worker reference")
			}
		})
	}
}

func TestRenderEndToEnd(t *testing.T) {
	req := Request{Viewport: testViewport, Width: 100, Height: 100, MaxIter: 50}
	img, err := New(WithPalette(Gradient)).Render(context.Background(), req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := img.Bounds(); got.Dx() != 100 || got.Dy() != 100 {
		t.Fatalf("buffer is %dx%d, want 100x100", got.Dx(), got.Dy())
	}

	// The center pixel maps to (-0.5, 0), inside the set: fixed black.
	black := color.RGBA{A: 255}
	if got := img.RGBAAt(50, 50); got != black {
		t.Errorf("center pixel = %v, want %v", got, black)
	}

	// The corner maps to (-2, -1.5), which escapes in a few iterations and
	// takes a gradient color, not the in-set color.
	if got := img.RGBAAt(0, 0); got == black {
		t.Error("corner pixel is in-set black, want a gradient color")
	}
}

func TestRenderValidation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"zero max iter", Request{Viewport: testViewport, Width: 10, Height: 10}},
		{"negative max iter", Request{Viewport: testViewport, Width: 10, Height: 10, MaxIter: -5}},
		{"zero width", Request{Viewport: testViewport, Height: 10, MaxIter: 10}},
		{"negative height", Request{Viewport: testViewport, Width: 10, Height: -1, MaxIter: 10}},
		{"degenerate viewport", Request{Viewport: mandelbrot.Viewport{Xmin: 1, Xmax: 1, Ymin: 0, Ymax: 1}, Width: 10, Height: 10, MaxIter: 10}},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Render(context.Background(), tt.req)
			if err == nil {
				t.Fatal("Render() succeeded, want error")
			}
			if !mandelbrot.IsConfigError(err) {
				t.Errorf("Render() error = %T, want *ConfigError", err)
			}
			if img != nil {
				t.Error("Render() produced a buffer alongside the error")
			}
		})
	}
}

func TestRenderCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := Request{Viewport: testViewport, Width: 200, Height: 200, MaxIter: 500}
	img, err := New(WithWorkers(2), WithTileSize(8)).Render(ctx, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
	if img != nil {
		t.Error("canceled render produced a buffer")
	}
}

func TestRenderProgress(t *testing.T) {
	var calls, lastDone, total int
	r := New(WithWorkers(3), WithTileSize(16), WithProgress(func(done, tot int) {
		calls++
		lastDone = done
		total = tot
	}))

	req := Request{Viewport: testViewport, Width: 50, Height: 50, MaxIter: 20}
	if _, err := r.Render(context.Background(), req); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// 50x50 with 16px tiles is a 4x4 grid.
	if total != 16 {
		t.Errorf("total tiles = %d, want 16", total)
	}
	if calls != total || lastDone != total {
		t.Errorf("progress calls = %d, last done = %d, want %d", calls, lastDone, total)
	}
}
