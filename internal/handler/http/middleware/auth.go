package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthRequired accepts verified, unrevoked access tokens and stores the
// caller's auth.Identity on the request context. It expects jwtauth.Verifier
// to run first.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			identity := identityFromClaims(claims)
			if identity.IsZero() || !identity.Role.IsValid() {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		}
		return http.HandlerFunc(hfn)
	}
}

func identityFromClaims(claims map[string]interface{}) auth.Identity {
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return auth.Identity{
		EmployeeID: employeeID,
		Role:       employee.Role(role),
		Email:      email,
		Name:       name,
	}
}

func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the zero Identity on unauthenticated requests.
func IdentityFromContext(ctx context.Context) auth.Identity {
	identity, _ := ctx.Value(identityKey).(auth.Identity)
	return identity
}
