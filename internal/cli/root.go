// Package cli implements the mandelbrot command-line interface.
//
// Two front ends share the same renderer and configuration: "view" opens a
// native window with click-to-zoom, "serve" exposes the same interaction
// in the browser over a websocket. Both read an optional TOML config file
// (--config) and support --verbose debug logging.
package cli

import (
	"context"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/themetalleg/mandelbrot/config"
	"github.com/themetalleg/mandelbrot/render"
)

// Execute runs the mandelbrot CLI. The logger is attached to the command
// context and accessible to all subcommands via loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "mandelbrot",
		Short: "Interactive Mandelbrot set viewer",
		Long: "Mandelbrot renders the Mandelbrot set and lets you zoom in and out " +
			"with mouse clicks, either in a native window (view) or in the browser (serve).\n\n" +
			"Palettes: " + strings.Join(render.PaletteNames(), ", "),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	root.AddCommand(newViewCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))

	return root.ExecuteContext(ctx)
}

// loadConfig returns the defaults, overlaid by the file at path when one
// was given on the command line.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
