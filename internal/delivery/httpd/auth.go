package httpd

import (
	"context"
	"errors"
	"net/http"

	"github.com/ymayank97/EduGenix/internal/identity"
	"github.com/ymayank97/EduGenix/internal/models"
)

type contextKey string

const userContextKey contextKey = "authenticated_user"

// BasicAuth authenticates every request against the seeded accounts.
// Malformed credentials are a client error, wrong credentials are 401.
func (h *Handler) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		if !identity.IsValidEmail(email) {
			writeError(w, http.StatusBadRequest, "Invalid email format")
			return
		}

		if !identity.IsValidPassword(password) {
			writeError(w, http.StatusBadRequest, "Invalid password format")
			return
		}

		user, err := h.identityService.Authenticate(r.Context(), email, password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
				writeError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}

			h.logger.Error().Err(err).Msg("Authentication lookup failed")
			writeError(w, http.StatusServiceUnavailable, "Service unavailable")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
