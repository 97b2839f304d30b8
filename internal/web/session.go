package web

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/themetalleg/mandelbrot"
	"github.com/themetalleg/mandelbrot/config"
	"github.com/themetalleg/mandelbrot/render"
)

// session is one browser tab: a websocket connection, its own viewport and
// a renderer. Clicks that arrive while a frame is being rendered coalesce
// into the next frame, so a stale viewport is never rendered twice and a
// click burst costs one render, not one per click.
type session struct {
	id       string
	conn     *websocket.Conn
	cfg      config.Config
	logger   *charmlog.Logger
	renderer *render.Renderer

	home     mandelbrot.Viewport
	viewport mandelbrot.Viewport
}

func newSession(id string, conn *websocket.Conn, cfg config.Config, logger *charmlog.Logger) *session {
	logger = logger.With("session", id)
	return &session{
		id:       id,
		conn:     conn,
		cfg:      cfg,
		logger:   logger,
		renderer: cfg.Renderer(nil),
		home:     cfg.Viewport(),
		viewport: cfg.Viewport(),
	}
}

// run drives the session: an initial frame, then one frame per batch of
// clicks, until the connection or ctx closes.
func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close(websocket.StatusNormalClosure, "")

	s.logger.Info("session started", "viewport", s.viewport)

	clicks := make(chan click, 16)
	readErr := make(chan error, 1)
	go s.readLoop(ctx, clicks, readErr)

	if err := s.renderAndSend(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case c := <-clicks:
			s.apply(c)
			// Coalesce clicks queued behind this one before rendering.
		drain:
			for {
				select {
				case c := <-clicks:
					s.apply(c)
				default:
					break drain
				}
			}
			if err := s.renderAndSend(ctx); err != nil {
				return err
			}
		}
	}
}

// readLoop decodes incoming text messages into clicks. Malformed messages
// are logged and dropped, not fatal; a closed connection ends the session.
func (s *session) readLoop(ctx context.Context, clicks chan<- click, readErr chan<- error) {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			readErr <- err
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		c, err := decodeClick(data)
		if err != nil {
			s.logger.Warn("dropping message", "err", err)
			continue
		}
		select {
		case clicks <- c:
		case <-ctx.Done():
			return
		}
	}
}

// apply folds one click into the session viewport.
func (s *session) apply(c click) {
	switch c.Button {
	case buttonLeft:
		s.viewport = s.viewport.ZoomAt(c.Px, c.Py, s.cfg.Width, s.cfg.Height, s.cfg.ZoomInFactor)
	case buttonRight:
		s.viewport = s.viewport.ZoomAt(c.Px, c.Py, s.cfg.Width, s.cfg.Height, s.cfg.ZoomOutFactor)
	case buttonReset:
		s.viewport = s.home
	}
	s.logger.Debug("click", "button", c.Button, "viewport", s.viewport)
}

// renderAndSend renders the current viewport and pushes it to the browser
// as one binary PNG message.
func (s *session) renderAndSend(ctx context.Context) error {
	start := time.Now()
	img, err := s.renderer.Render(ctx, render.Request{
		Viewport: s.viewport,
		Width:    s.cfg.Width,
		Height:   s.cfg.Height,
		MaxIter:  s.cfg.MaxIter,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := s.conn.Write(ctx, websocket.MessageBinary, buf.Bytes()); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}

	s.logger.Info("frame sent", "bytes", buf.Len(), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
