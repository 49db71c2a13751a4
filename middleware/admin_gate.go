package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/edsa-freetown/gridwatch/pkg/guard"
)

// AdminGate is the session guard for protected routes. It runs after
// JWTMiddleware and re-checks, on every request, that the presented session
// row is still active and that an admin account with the token's identity
// exists. Any failure denies access; no partial result leaks to the caller.
func AdminGate(svc *guard.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			sessionID, err := uuid.Parse(claims.RegisteredClaims.ID)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			adminID, err := uuid.Parse(claims.AdminID)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if _, err := svc.Authorize(sessionID, adminID); err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
