package httpd

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/identity"
	"github.com/ymayank97/EduGenix/internal/metrics"
	"github.com/ymayank97/EduGenix/internal/service"
)

type Handler struct {
	assignmentService service.AssignmentService
	submissionService service.SubmissionService
	identityService   identity.Service
	db                *sql.DB
	sink              metrics.Sink
	logger            zerolog.Logger
}

func NewHandler(
	assignmentService service.AssignmentService,
	submissionService service.SubmissionService,
	identityService identity.Service,
	db *sql.DB,
	sink metrics.Sink,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		assignmentService: assignmentService,
		submissionService: submissionService,
		identityService:   identityService,
		db:                db,
		sink:              sink,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/healthz", h.HealthCheck)

	router.Route("/v1/assignments", func(r chi.Router) {
		r.Use(h.BasicAuth)

		r.Post("/", h.CreateAssignment)
		r.Get("/", h.GetAllAssignments)
		r.Get("/{id}", h.GetAssignmentByID)
		r.Put("/{id}", h.UpdateAssignment)
		r.Delete("/{id}", h.DeleteAssignment)

		r.Post("/{id}/submission", h.CreateSubmission)
		r.Get("/{id}/submission", h.ListSubmissions)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeNoContent(w http.ResponseWriter, status int) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
}

// hasPayload reports whether the request carries a body or query parameters.
// Read-only and health endpoints reject both.
func hasPayload(r *http.Request) bool {
	if r.ContentLength > 0 {
		return true
	}
	return len(r.URL.RawQuery) > 0
}
