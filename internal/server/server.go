// Package server serves a read-only HTTP preview of the compiled models and
// optionally recompiles whenever the document changes on disk.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/koustreak/ezschema/internal/compiler"
	"github.com/koustreak/ezschema/internal/logger"
	"github.com/koustreak/ezschema/internal/modelspec"
)

const shutdownTimeout = 5 * time.Second

// Config holds what the server needs.
type Config struct {
	Addr     string
	Location string
	Reader   compiler.Reader
	Logger   *logger.Logger
	Watch    bool
}

// Server holds the most recently compiled spec. Handlers read it while the
// watcher replaces it, so every access goes through mu.
type Server struct {
	addr     string
	location string
	watch    bool
	log      *logger.Logger

	mu      sync.RWMutex
	c       *compiler.Compiler
	lastErr error
}

// New builds a Server. Call Reload before serving to compile the document.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	opts := []compiler.Option{compiler.WithLogger(log)}
	if cfg.Reader != nil {
		opts = append(opts, compiler.WithReader(cfg.Reader))
	}
	return &Server{
		addr:     cfg.Addr,
		location: cfg.Location,
		watch:    cfg.Watch,
		log:      log,
		c:        compiler.New(opts...),
	}
}

// Reload recompiles the document. A failure leaves an empty spec behind and
// is reported by /healthz until the next successful reload.
func (s *Server) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = s.c.Load(ctx, s.location)
	if s.lastErr == nil {
		s.log.With().Str("location", s.location).Int("models", s.c.Spec().Len()).Logger().Info("models compiled")
	}
	return s.lastErr
}

// Spec returns the current spec and the error of the last reload.
func (s *Server) Spec() (*modelspec.Spec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Spec(), s.lastErr
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, requestLogger(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Get("/models", s.handleModels)
	r.Get("/models/{model}", s.handleModel)
	r.Post("/compile", s.handleCompile)
	return r
}

// Serve runs the HTTP server, and the watcher when enabled, until ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		BaseContext:       func(net.Listener) context.Context { return egctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error { return s.Watch(egctx) })
	}

	eg.Go(func() error {
		s.log.Infof("serving models on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		zl := log.Zerolog()
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			zl.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
