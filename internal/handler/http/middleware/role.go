package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/auth"
	"github.com/shiftlink/shiftlink-backend-go/internal/handler/http/response"
)

// RequireWorker allows only callers holding the worker role.
func RequireWorker(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrWorkerRoleRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok || auth.Role(roleStr) != auth.RoleWorker {
			response.HandleError(w, auth.ErrWorkerRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireBusiness allows business or admin callers.
func RequireBusiness(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrBusinessRoleRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, auth.ErrBusinessRoleRequired)
			return
		}

		role := auth.Role(roleStr)
		if role != auth.RoleBusiness && role != auth.RoleAdmin {
			response.HandleError(w, auth.ErrBusinessRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
