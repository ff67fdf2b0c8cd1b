// Package server exposes the resolver over HTTP.
//
// Routes:
//
//	GET /healthz                                 build information
//	GET /v1/resolve?requirement=<spec>[&format=]  resolved map (json by default)
//
// Every request gets an X-Request-ID (a UUID, or the caller's own valid UUID)
// and its own resolution run. Errors are JSON objects {code, message}.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/reqresolve/pkg/buildinfo"
	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/export"
	"github.com/matzehuels/reqresolve/pkg/requirement"
	"github.com/matzehuels/reqresolve/pkg/resolve"
)

const (
	// RequestIDHeader carries the per-request UUID.
	RequestIDHeader = "X-Request-ID"

	requestTimeout  = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var contentTypes = map[export.Format]string{
	export.FormatJSON: "application/json",
	export.FormatTOML: "application/toml",
	export.FormatDOT:  "text/vnd.graphviz",
	export.FormatSVG:  "image/svg+xml",
}

// Server serves resolution requests with a shared resolver.
type Server struct {
	resolver *resolve.Resolver
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. A nil logger falls back to the resolver's logger.
func New(resolver *resolve.Resolver, logger *log.Logger) *Server {
	if logger == nil {
		logger = resolver.Options().Logger
	}
	s := &Server{resolver: resolver, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/resolve", s.handleResolve)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errors.ErrCodeInvalidInput, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.ErrCodeInvalidInput, r.Method+" not allowed")
	})

	s.router = r
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      requestTimeout + 10*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return ctx.Err()
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := export.FormatJSON
	if f := q.Get("format"); f != "" {
		parsed, err := export.ParseFormat(f)
		if err == nil && parsed == export.FormatText {
			err = errors.New(errors.ErrCodeInvalidFormat, "format text is not served over HTTP")
		}
		if err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		format = parsed
	}

	raw := q.Get("requirement")
	if err := errors.ValidateRequirement(raw); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	spec, err := requirement.Parse(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.resolver.Resolve(r.Context(), spec)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, errors.ErrCodeInvalidSpec):
			status = http.StatusBadRequest
		case r.Context().Err() != nil:
			status = http.StatusGatewayTimeout
		}
		writeErr(w, status, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if err := export.Write(r.Context(), w, res, format); err != nil {
		s.logger.Error("write response", "request_id", RequestID(r.Context()), "err", err)
	}
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errors.Code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeErr(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeError(w, status, code, errors.UserMessage(err))
}
