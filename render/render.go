package render

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/themetalleg/mandelbrot"
)

// Request describes one render call: the viewport, the pixel buffer
// dimensions and the iteration cap. Immutable; build a new one per call.
type Request struct {
	Viewport mandelbrot.Viewport
	Width    int
	Height   int
	MaxIter  int
}

// Validate rejects non-positive dimensions or iteration caps and degenerate
// viewports before any pixel is computed.
func (r Request) Validate() error {
	if r.Width <= 0 {
		return &mandelbrot.ConfigError{Field: "width", Reason: "must be positive"}
	}
	if r.Height <= 0 {
		return &mandelbrot.ConfigError{Field: "height", Reason: "must be positive"}
	}
	if r.MaxIter <= 0 {
		return &mandelbrot.ConfigError{Field: "max_iter", Reason: "must be positive"}
	}
	return r.Viewport.Validate()
}

// Renderer renders escape-time images of the Mandelbrot set. It is safe for
// concurrent use; all per-render state lives on the Render stack.
type Renderer struct {
	workers  int
	tileSize int
	palette  Palette
	onTile   func(done, total int)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers sets the number of parallel worker goroutines. Values below 1
// keep the default of GOMAXPROCS. The rendered output does not depend on
// the worker count.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithTileSize sets the edge length of the square tiles the image is split
// into. Values below 1 keep the default of 64.
func WithTileSize(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.tileSize = n
		}
	}
}

// WithPalette sets the color mapping. The default is Classic.
func WithPalette(p Palette) Option {
	return func(r *Renderer) { r.palette = p }
}

// WithProgress registers fn to be called after each finished tile with the
// number of tiles done so far and the total. Calls are serialized but may
// come from any worker goroutine.
func WithProgress(fn func(done, total int)) Option {
	return func(r *Renderer) { r.onTile = fn }
}

// New creates a Renderer with the given options.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		workers:  runtime.GOMAXPROCS(0),
		tileSize: 64,
		palette:  Classic,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render computes the full pixel buffer for req. The image is split into
// tiles fed to a pool of workers; each tile is written into its own
// disjoint region of the shared buffer, so workers need no locking.
//
// Cancellation is cooperative with tile granularity: once ctx is done no
// further tiles are started, the in-flight ones finish, and Render returns
// ctx.Err() with no buffer.
func (r *Renderer) Render(ctx context.Context, req Request) (*image.RGBA, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	tiles := splitRect(img.Bounds(), r.tileSize, r.tileSize)

	work := make(chan image.Rectangle)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tile := range work {
				r.renderTile(img, tile, req)
				if r.onTile != nil {
					mu.Lock()
					done++
					r.onTile(done, len(tiles))
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for _, tile := range tiles {
		if ctx.Err() != nil {
			break
		}
		select {
		case work <- tile:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// renderTile computes the escape time and color of every pixel in tile.
func (r *Renderer) renderTile(img *image.RGBA, tile image.Rectangle, req Request) {
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		for px := tile.Min.X; px < tile.Max.X; px++ {
			c := req.Viewport.PixelToComplex(px, py, req.Width, req.Height)
			n := Escape(c, req.MaxIter)
			img.SetRGBA(px, py, r.palette(n, req.MaxIter))
		}
	}
}
