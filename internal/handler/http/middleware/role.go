package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
)

// RequireAdmin requires admin role. Must run after AuthRequired.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity.IsZero() {
			response.HandleError(w, auth.ErrUnauthorized)
			return
		}

		if !identity.IsAdmin() {
			response.HandleError(w, auth.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
