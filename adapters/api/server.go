package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"curvefit/app"
	"curvefit/internal"
	"curvefit/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes caps request bodies; samples are plain text so 4 MiB is generous
const maxBodyBytes = 4 << 20

// Server exposes the fit service over HTTP
type Server struct {
	service *app.FitService
	router  chi.Router
	metrics *serverMetrics
	logger  *internal.Logger
}

// NewServer wires routes and middleware around service
func NewServer(service *app.FitService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		service: service,
		router:  chi.NewRouter(),
		metrics: newServerMetrics(),
		logger:  logger.With("component", "api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.metrics.instrument)
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Get("/solvers", s.handleSolvers)

		r.Post("/fit", s.handleFit)
		r.Post("/fit/report", s.handleFitReport)
		r.Post("/fit/curve", s.handleFitCurve)

		r.Get("/samples", s.handleSearchSamples)
		r.Post("/samples", s.handleCreateSample)
		r.Post("/samples/fit", s.handleBatchFit)
		r.Get("/samples/{id}", s.handleGetSample)
		r.Put("/samples/{id}", s.handleUpdateSample)
		r.Delete("/samples/{id}", s.handleDeleteSample)
		r.Post("/samples/{id}/fit", s.handleFitSample)
	})
}

// ListenAndServe serves on addr until ctx is canceled, then drains in-flight requests
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down (timeout %s)", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, errors.InvalidInput(fmt.Sprintf("malformed request body: %v", err)))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	body := errorBody(err)
	status := statusFor(body.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected: %v", err)
	}
	s.writeJSON(w, status, body)
}

func errorBody(err error) *ErrorResponse {
	if !errors.IsAppError(err) {
		err = errors.InternalError("unexpected error").WithCause(err)
	}
	return &ErrorResponse{Code: errors.GetCode(err), Error: err.Error()}
}

func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeValidationError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
