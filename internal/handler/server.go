// Package handler implements the HTTP handlers for the Trails API.
// All handlers are methods on Server. Methods are split into resource files
// (trail.go, cover.go, export.go, health.go) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trails-api/internal/domain"
	"github.com/pkordes/trails-api/internal/middleware"
)

// TrailServicer defines the business operations the trail handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type TrailServicer interface {
	Create(ctx context.Context, fields domain.TrailFields) (domain.Trail, error)
	GetByID(ctx context.Context, id int64) (domain.Trail, error)
	List(ctx context.Context, q domain.ListQuery) ([]domain.Trail, error)
	Update(ctx context.Context, id int64, fields domain.TrailFields) (domain.Trail, error)
	Delete(ctx context.Context, id int64) error
	BatchDelete(ctx context.Context, difficulty *string) (int64, error)
}

// CoverServicer defines the cover photo operations.
type CoverServicer interface {
	Upload(ctx context.Context, id int64, body io.Reader) (domain.Trail, error)
	Open(ctx context.Context, id int64) (io.ReadCloser, string, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trails     TrailServicer
	covers     CoverServicer
	adminToken string
	log        *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// adminToken is the shared secret required by the batch delete route.
func NewServer(trails TrailServicer, covers CoverServicer, adminToken string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trails: trails, covers: covers, adminToken: adminToken, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, "", nil)
}

// Routes returns the API router. main.go mounts it behind the global
// middleware stack; tests serve it directly.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trails", func(r chi.Router) {
		r.Get("/", s.ListTrails)
		r.Post("/", s.CreateTrail)
		r.With(middleware.RequireAdminToken(s.adminToken)).Delete("/", s.BatchDeleteTrails)
		r.Get("/export", s.ExportTrails)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrail)
			r.Put("/", s.UpdateTrail)
			r.Delete("/", s.DeleteTrail)
			r.Get("/cover", s.GetCover)
			r.Put("/cover", s.UploadCover)
		})
	})
	return r
}
