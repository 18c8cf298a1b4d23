package httpd

import (
	"net/http"
)

// HealthCheck reports database reachability. The endpoint takes no input at
// all: any body or query parameter is a client error.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.sink.APIRequest("healthz")

	if hasPayload(r) {
		writeNoContent(w, http.StatusBadRequest)
		return
	}

	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Health check database ping failed")
		writeNoContent(w, http.StatusServiceUnavailable)
		return
	}

	writeNoContent(w, http.StatusOK)
}
