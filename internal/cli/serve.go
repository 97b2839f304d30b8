package cli

import (
	"github.com/spf13/cobra"

	"github.com/themetalleg/mandelbrot/internal/web"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the viewer in the browser",
		Long: "Serve exposes the same click-to-zoom viewer over HTTP: a canvas page " +
			"talks to the renderer through a websocket, each browser tab gets its own viewport.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			srv := web.New(cfg, loggerFromContext(cmd.Context()))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "listen", "l", "", "listen address (overrides config, default :8080)")
	return cmd
}
