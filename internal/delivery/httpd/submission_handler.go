package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ymayank97/EduGenix/internal/models"
	"github.com/ymayank97/EduGenix/internal/service"
)

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	h.sink.APIRequest("create_submission")

	user := userFromContext(r.Context())
	assignmentID := chi.URLParam(r, "id")

	var req models.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	submission, err := h.submissionService.Submit(r.Context(), assignmentID, user, req.SubmissionURL)
	if err != nil {
		h.handleSubmissionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSubmissionResponse(submission))
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	h.sink.APIRequest("list_submissions")

	assignmentID := chi.URLParam(r, "id")

	submissions, err := h.submissionService.ListSubmissions(r.Context(), assignmentID)
	if err != nil {
		h.handleSubmissionError(w, err)
		return
	}

	responses := make([]*models.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		responses = append(responses, models.NewSubmissionResponse(&submissions[i]))
	}

	writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) handleSubmissionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		writeError(w, http.StatusNotFound, "Assignment not found")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDeadlinePassed):
		writeError(w, http.StatusBadRequest, service.ErrDeadlinePassed.Error())
	case errors.Is(err, service.ErrNoAttemptsLeft):
		writeError(w, http.StatusBadRequest, service.ErrNoAttemptsLeft.Error())
	default:
		h.logger.Error().Err(err).Msg("Submission service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
