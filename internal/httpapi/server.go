// Package httpapi is the HTTP presentation adapter. It owns request
// decoding, query-parameter parsing, and error-to-status mapping; all
// business rules live in the usecase layer.
package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urjaconsultants/lead-pipeline/internal/usecase"
	"github.com/urjaconsultants/lead-pipeline/pkg/logger"
)

// Server is the REST API server for the lead pipeline.
type Server struct {
	httpServer   *http.Server
	service      *usecase.LeadService
	maxFileBytes int64
	logger       *zap.Logger
}

// NewServer wires the router and returns an unstarted server.
func NewServer(port int, service *usecase.LeadService, maxFileBytes int64, baseLogger *zap.Logger) *Server {
	s := &Server{
		service:      service,
		maxFileBytes: maxFileBytes,
		logger:       baseLogger.Named("httpapi"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/leads", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)

		r.Route("/views", func(r chi.Router) {
			r.Get("/{name}", s.handleLoadView)
			r.Put("/{name}", s.handleSaveView)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Post("/restore", s.handleRestore)
			r.Delete("/purge", s.handlePurge)
			r.Post("/activities", s.handleAddActivity)
		})
	})

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Starting API server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("API server error", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.httpServer.Shutdown(ctx)
}

// requestID stamps each request with an ID and a request-scoped logger.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		ctx := logger.WithRequestID(r.Context(), id)
		ctx = logger.WithLogger(ctx, s.logger.With(zap.String("request_id", id)))
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
