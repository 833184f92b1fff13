// Package ui provides the browser workbench for LeapBench.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/grid"
	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/layout"
	"github.com/leapstack-labs/leapbench/internal/ui/router"
)

// DefaultPort is the port used when none is configured.
const DefaultPort = 8765

// watchDebounce is how long a dropped file must stay quiet before import.
const watchDebounce = 250 * time.Millisecond

// Server is the main UI server.
type Server struct {
	engine       *engine.Engine
	layout       layout.Model
	sessionStore *sessions.CookieStore
	port         int
	watchDir     string
	pageSize     int
	gridOpts     []grid.Option
	dev          bool
	logger       *slog.Logger

	handler http.Handler
}

// Config holds configuration for the UI server.
type Config struct {
	Engine *engine.Engine
	// Layout defaults to layout.Default().
	Layout *layout.Model
	Port   int
	// WatchDir, when set, is watched for files to import automatically.
	WatchDir string
	// SessionSecret signs the session cookie. A random secret is used if empty,
	// so sessions do not survive a restart.
	SessionSecret string
	PageSize      int
	GridOptions   []grid.Option
	Dev           bool
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	sessionStore := sessions.NewCookieStore([]byte(secret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	model := layout.Default()
	if cfg.Layout != nil {
		model = *cfg.Layout
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Server{
		engine:       cfg.Engine,
		layout:       model,
		sessionStore: sessionStore,
		port:         port,
		watchDir:     cfg.WatchDir,
		pageSize:     cfg.PageSize,
		gridOpts:     cfg.GridOptions,
		dev:          cfg.Dev,
		logger:       logger,
	}
}

// Handler builds the router once and returns it.
func (s *Server) Handler() (http.Handler, error) {
	if s.handler != nil {
		return s.handler, nil
	}

	r := chi.NewMux()
	r.Use(
		middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug), NoColor: true}),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, s.engine, router.Options{
		Layout:       s.layout,
		SessionStore: s.sessionStore,
		PageSize:     s.pageSize,
		GridOptions:  s.gridOpts,
		IsDev:        s.IsDev(),
		Logger:       s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	s.handler = r
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
// The database is opened in the background; requests that arrive first see
// an empty workbench and queries are refused with a warning.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Open the database
	eg.Go(func() error {
		if err := s.engine.Open(egctx); err != nil {
			return err
		}
		s.logger.Debug("database ready", "path", s.engine.DatabasePath())
		return nil
	})

	// Start the import watcher if enabled
	if s.watchDir != "" {
		eg.Go(func() error {
			return s.watchImports(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true if running in development mode.
func (s *Server) IsDev() bool {
	return s.dev
}

// watchImports imports supported files created in or written to the watch
// directory. Each file is imported once it has been quiet for watchDebounce.
func (s *Server) watchImports(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.watchDir); err != nil {
		s.logger.Error("failed to watch import directory", "dir", s.watchDir, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}
	s.logger.Info("watching for imports", "dir", s.watchDir)

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, supported := imports.Detect(event.Name); !supported {
				continue
			}

			name := event.Name
			mu.Lock()
			if t, exists := timers[name]; exists {
				t.Stop()
			}
			timers[name] = time.AfterFunc(watchDebounce, func() {
				mu.Lock()
				delete(timers, name)
				mu.Unlock()
				s.importFile(ctx, name)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) importFile(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	f, err := imports.FromPath(path)
	if err != nil {
		s.logger.Warn("watched file disappeared", "file", path, "error", err)
		return
	}
	outcomes, err := s.engine.Import(ctx, []imports.File{f})
	if err != nil {
		s.logger.Warn("auto-import skipped", "file", path, "error", err)
		return
	}
	for _, o := range outcomes {
		s.logger.Info("auto-import", "file", o.File, "status", o.Status, "table", o.Table)
	}
}
