// Package api serves menus, saved hotspot sets and layout generation over
// HTTP.
//
// Every JSON response carries an "ok" flag. Failures look like
//
//	{"ok": false, "error": "Dish not found", "code": "DISH_NOT_FOUND"}
//
// with the status code taken from [errors.HTTPStatus].
//
// # Routes
//
//	GET  /api/health
//	GET  /api/brand
//	GET  /api/menus/{menu}?lang=
//	GET  /api/ingredients/catalog
//	GET  /api/media/layouts
//	GET  /api/media/{menu}?stage=
//	POST /api/media/upsert        admin
//	POST /api/media/autogen       admin
//	POST /api/hotspots/preview    editor or admin
//	GET  /media/*                 photo files
//	GET  /*                       web client, index.html fallback
//
// Callers authenticate with "Authorization: Bearer <token>". Reads are
// public. Every client is rate limited per IP address with separate budgets
// for general traffic, writes and web client files.
package api

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/platemap/pkg/auth"
	"github.com/matzehuels/platemap/pkg/config"
	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
	"github.com/matzehuels/platemap/pkg/media"
	"github.com/matzehuels/platemap/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds JSON request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 2 << 20

// shutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
const shutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	// Runner generates layouts. Its Menus and Media must be set.
	Runner *pipeline.Runner

	// Auth resolves bearer tokens. Nil means every caller is anonymous.
	Auth *auth.Authenticator

	Logger *log.Logger

	// Limits holds per-IP budgets. Zero budgets disable a limiter.
	Limits config.RateLimitConfig

	// MediaDir is served under /media/. Empty disables it.
	MediaDir string

	// StaticDir holds a built web client. Empty disables the fallback.
	StaticDir string

	MaxBodyBytes int64

	// DefaultStage is used by GET /api/media/{menu} without ?stage.
	DefaultStage string

	// DefaultStrategy and DefaultSeed fill in generation requests.
	DefaultStrategy string
	DefaultSeed     int64
}

// Server is the HTTP API.
type Server struct {
	runner *pipeline.Runner
	auth   *auth.Authenticator
	logger *log.Logger
	opts   Options

	general *limiter
	write   *limiter
	static  *limiter

	router chi.Router
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Runner == nil || opts.Runner.Menus == nil || opts.Runner.Media == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "api server requires a runner with menus and media")
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Auth == nil {
		opts.Auth = &auth.Authenticator{}
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.DefaultStage == "" {
		opts.DefaultStage = media.DefaultStage
	}
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = string(hotspot.Auto)
	}
	if opts.DefaultSeed == 0 {
		opts.DefaultSeed = hotspot.DefaultSeed
	}

	s := &Server{
		runner: opts.Runner,
		auth:   opts.Auth,
		logger: opts.Logger,
		opts:   opts,
		general: newLimiter("general", opts.Limits.General, opts.Limits.GeneralWindow.Duration,
			"Too many requests, please try again later."),
		write: newLimiter("write", opts.Limits.Write, opts.Limits.WriteWindow.Duration,
			"Too many API write requests, please try again later."),
		static: newLimiter("static", opts.Limits.Static, opts.Limits.StaticWindow.Duration,
			"Too many requests, please try again later."),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)
	r.Use(s.accessLog)
	r.Use(cors)
	r.Use(s.rateLimit(s.general))
	r.Use(s.auth.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/brand", s.handleBrand)
		r.Get("/menus/{menu}", s.handleMenu)
		r.Get("/ingredients/catalog", s.handleCatalog)
		r.Get("/media/layouts", s.handleLayouts)
		r.Get("/media/{menu}", s.handleMedia)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit(s.write))
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/media/upsert", s.handleUpsert)
			r.Post("/media/autogen", s.handleAutogen)
		})
		r.With(middleware.AllowContentType("application/json")).
			Post("/hotspots/preview", s.handlePreview)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, errors.New(errors.ErrCodeNotFound, "Not found: %s", r.URL.Path))
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed", Code: string(errors.ErrCodeInvalidInput)})
		})
	})

	if s.opts.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", fileServer(s.opts.MediaDir)))
	}
	if s.opts.StaticDir != "" {
		r.With(s.rateLimit(s.static)).NotFound(spaHandler(s.opts.StaticDir))
	}
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
