// Package web serves the browser front end: an embedded canvas page plus a
// websocket endpoint. Every connection gets its own session with its own
// viewport; clicks come in as JSON text messages and completed frames go
// out as PNG-encoded binary messages.
package web

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/themetalleg/mandelbrot/config"
)

//go:embed index.html
var indexHTML []byte

// Server is the http front of the browser viewer.
type Server struct {
	cfg    config.Config
	logger *charmlog.Logger
}

// New creates a Server for the given configuration.
func New(cfg config.Config, logger *charmlog.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// ListenAndServe serves the viewer until ctx is done, then shuts the http
// server down and returns ctx's cause.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.websocketHandler(ctx))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})

	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("listening", "addr", s.cfg.ListenAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// websocketHandler upgrades the connection and runs a viewer session on it.
// ctx is the server context; closing it ends every session.
func (s *Server) websocketHandler(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: tighten in prod
		})
		if err != nil {
			s.logger.Error("websocket accept failed", "err", err)
			return
		}

		sess := newSession(uuid.NewString(), conn, s.cfg, s.logger)
		if err := sess.run(ctx); err != nil {
			s.logger.Debug("session ended", "session", sess.id, "err", err)
		}
	}
}
