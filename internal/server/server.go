// Package server exposes table metadata over a read-only HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/koustreak/colmeta/internal/typemeta"
)

// Pinger reports whether the catalog database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes a Server. Zero values are usable.
type Options struct {
	SystemFields typemeta.FieldSet
	QueryTimeout time.Duration
	Logger       *logger.Logger
}

// Server serves metadata endpoints backed by an Inspector.
type Server struct {
	insp         *schema.Inspector
	db           Pinger
	systemFields typemeta.FieldSet
	log          *logger.Logger
	router       chi.Router
}

// New builds the server and its routes.
func New(insp *schema.Inspector, db Pinger, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		insp:         insp,
		db:           db,
		systemFields: opts.SystemFields,
		log:          log,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	if opts.QueryTimeout > 0 {
		r.Use(chimw.Timeout(opts.QueryTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/tables", s.handleListTables)
	r.Route("/tables/{table}", func(r chi.Router) {
		r.Get("/", s.handleTable)
		r.Get("/columns", s.handleColumns)
	})
	r.Get("/keys/{prefix}", s.handleKeys)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down within
// shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.With().Str("addr", addr).Logger().Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.log.RequestEvent(r.Method, r.URL.Path, status, time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}
