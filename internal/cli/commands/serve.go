package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbench/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     string
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the browser workbench",
		Long: `Start a local web server hosting the SQL workbench.

The workbench provides:
- A SQL editor (Ctrl/Cmd+Enter runs the query)
- A paged results grid
- Drag-and-drop import of CSV, Parquet and Arrow files
- Memory and storage statistics`,
		Example: `  # Start on the default port
  leapbench serve

  # Start on a custom port with a persistent database
  leapbench serve --port 3000 --database bench.duckdb

  # Import files dropped into a folder
  leapbench serve --watch ./inbox`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().StringVar(&opts.Watch, "watch", "", "Import files that appear in this folder")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Serve assets from disk and enable live reload")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg, logger := cmdCtx.Cfg, cmdCtx.Logger

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watchDir := cfg.UI.WatchDir
	if opts.Watch != "" {
		watchDir = opts.Watch
	}
	autoOpen := cfg.UI.AutoOpen && !opts.NoBrowser

	model, err := loadLayout(cfg)
	if err != nil {
		return err
	}
	gridOpts, err := gridOptions(cfg, logger)
	if err != nil {
		return err
	}

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer func() { _ = eng.Close() }()

	server := ui.NewServer(ui.Config{
		Engine:        eng,
		Layout:        model,
		Port:          port,
		WatchDir:      watchDir,
		SessionSecret: cfg.UI.SessionSecret,
		PageSize:      cfg.UI.PageSize,
		GridOptions:   gridOpts,
		Dev:           opts.Dev,
		Logger:        logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if autoOpen {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Printf("Starting LeapBench on %s\n", url)
	if watchDir != "" {
		r.Muted("Watching " + watchDir + " for files to import")
	}
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
