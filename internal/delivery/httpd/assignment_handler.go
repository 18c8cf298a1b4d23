package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ymayank97/EduGenix/internal/models"
	"github.com/ymayank97/EduGenix/internal/service"
)

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	h.sink.APIRequest("create_assignment")

	user := userFromContext(r.Context())

	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(r.Context(), user.ID, &req)
	if err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) GetAssignmentByID(w http.ResponseWriter, r *http.Request) {
	h.sink.APIRequest("get_assignment")

	assignmentID := chi.URLParam(r, "id")

	assignment, err := h.assignmentService.GetAssignmentByID(r.Context(), assignmentID)
	if err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

func (h *Handler) GetAllAssignments(w http.ResponseWriter, r *http.Request) {
	h.sink.APIRequest("list_assignments")

	if hasPayload(r) {
		writeError(w, http.StatusBadRequest, "Request must not carry a body or query parameters")
		return
	}

	assignments, err := h.assignmentService.GetAllAssignments(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list assignments")
		writeError(w, http.StatusInternalServerError, "Failed to list assignments")
		return
	}

	if assignments == nil {
		assignments = []models.Assignment{}
	}

	writeJSON(w, http.StatusOK, assignments)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	h.sink.APIRequest("update_assignment")

	user := userFromContext(r.Context())
	assignmentID := chi.URLParam(r, "id")

	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.assignmentService.UpdateAssignment(r.Context(), assignmentID, user.ID, &req); err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeNoContent(w, http.StatusNoContent)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	h.sink.APIRequest("delete_assignment")

	if hasPayload(r) {
		writeError(w, http.StatusBadRequest, "Request must not carry a body or query parameters")
		return
	}

	user := userFromContext(r.Context())
	assignmentID := chi.URLParam(r, "id")

	if err := h.assignmentService.DeleteAssignment(r.Context(), assignmentID, user.ID); err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeNoContent(w, http.StatusNoContent)
}

func (h *Handler) handleAssignmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		writeError(w, http.StatusNotFound, "Assignment not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "You do not own this assignment")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Assignment service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
