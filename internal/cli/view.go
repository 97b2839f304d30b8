package cli

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/themetalleg/mandelbrot"
	"github.com/themetalleg/mandelbrot/config"
	"github.com/themetalleg/mandelbrot/render"
)

func newViewCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open a native window with click-to-zoom",
		Long: "View renders the Mandelbrot set in a native window. Left click zooms in " +
			"on the clicked point, right click zooms out, Home resets the view, Escape quits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), cfg)
		},
	}
}

// game drives the interactive window. Rendering happens off the game loop;
// Update only reads input, swaps in finished frames and kicks off new
// renders. A click during a render supersedes it: the old context is
// canceled and its result, if any, is discarded by the generation check.
type game struct {
	cfg      config.Config
	logger   *charmlog.Logger
	renderer *render.Renderer
	baseCtx  context.Context
	home     mandelbrot.Viewport

	frame *ebiten.Image

	mu       sync.Mutex
	viewport mandelbrot.Viewport
	pending  *image.RGBA
	cancel   context.CancelFunc
	gen      int
}

func runViewer(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)

	g := &game{
		cfg:      cfg,
		logger:   logger,
		baseCtx:  ctx,
		home:     cfg.Viewport(),
		viewport: cfg.Viewport(),
		frame:    ebiten.NewImage(cfg.Width, cfg.Height),
	}
	g.renderer = cfg.Renderer(func(done, total int) {
		logger.Debug("tile finished", "done", done, "total", total)
	})

	logger.Info("starting viewer", "size", cfg.Width, "max_iter", cfg.MaxIter, "viewport", g.home)
	g.startRender()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Mandelbrot")
	return ebiten.RunGame(g)
}

// Update handles input and frame swapping. Part of ebiten.Game.
func (g *game) Update() error {
	if g.baseCtx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.mu.Lock()
		g.viewport = g.home
		g.mu.Unlock()
		g.logger.Info("view reset", "viewport", g.home)
		g.startRender()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.zoomAtCursor(g.cfg.ZoomInFactor)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.zoomAtCursor(g.cfg.ZoomOutFactor)
	}

	g.mu.Lock()
	if g.pending != nil {
		g.frame.WritePixels(g.pending.Pix)
		g.pending = nil
	}
	g.mu.Unlock()
	return nil
}

// Draw blits the latest completed frame. Part of ebiten.Game.
func (g *game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.frame, nil)
}

// Layout fixes the logical screen size to the buffer size. Part of ebiten.Game.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// zoomAtCursor derives the new viewport from the clicked pixel and starts
// a render of it. Clicks outside the buffer are ignored.
func (g *game) zoomAtCursor(factor float64) {
	px, py := ebiten.CursorPosition()
	if px < 0 || py < 0 || px >= g.cfg.Width || py >= g.cfg.Height {
		return
	}

	g.mu.Lock()
	g.viewport = g.viewport.ZoomAt(px, py, g.cfg.Width, g.cfg.Height, factor)
	vp := g.viewport
	g.mu.Unlock()

	g.logger.Info("zoom", "factor", factor, "viewport", vp)
	g.startRender()
}

// startRender cancels any in-flight render and launches one for the
// current viewport. The finished buffer is parked in g.pending for Update
// to upload; stale results are dropped via the generation counter.
func (g *game) startRender() {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(g.baseCtx)
	g.cancel = cancel
	g.gen++
	gen := g.gen
	req := render.Request{
		Viewport: g.viewport,
		Width:    g.cfg.Width,
		Height:   g.cfg.Height,
		MaxIter:  g.cfg.MaxIter,
	}
	g.mu.Unlock()

	go func() {
		defer cancel()
		start := time.Now()
		img, err := g.renderer.Render(ctx, req)

		g.mu.Lock()
		defer g.mu.Unlock()
		if gen != g.gen {
			return // superseded by a newer render
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				g.logger.Error("render failed", "err", err)
			}
			return
		}
		g.pending = img
		g.logger.Debug("render complete", "elapsed", time.Since(start).Round(time.Millisecond))
	}()
}
