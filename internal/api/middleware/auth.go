package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hackportal/internal/common"
	"hackportal/internal/common/security"
	"hackportal/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// Auth carries the profile store so the caller's role is resolved fresh
// on every request instead of trusted from the token.
type Auth struct {
	userRepo repository.UserRepository
}

func NewAuth(userRepo repository.UserRepository) *Auth {
	return &Auth{userRepo: userRepo}
}

// Authenticator verifies the bearer token and resolves the caller's
// profile. An account without a profile gets an empty role, which can
// never match an allow-list (fail-closed).
func (a *Auth) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}
		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		role := ""
		profile, err := a.userRepo.FindProfileByUserID(r.Context(), userID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			common.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve caller profile")
			return
		}
		if profile != nil {
			role = profile.Role
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserRoleCtxKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticator populates identity when a valid token is present
// and passes the request through anonymously otherwise. Used on public
// routes whose responses vary for the resource owner.
func (a *Auth) OptionalAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		role := ""
		if profile, err := a.userRepo.FindProfileByUserID(r.Context(), userID); err == nil {
			role = profile.Role
		}
		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserRoleCtxKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles is the role allow-list gate. It runs before any handler
// side effect and answers with a generic forbidden message that does not
// reveal whether the requested resource exists.
func RequireRoles(allowed ...string) func(http.Handler) http.Handler {
	allowSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowSet[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(UserRoleCtxKey).(string)
			if !ok || role == "" {
				common.RespondWithError(w, http.StatusForbidden, "Access denied")
				return
			}
			if _, allowed := allowSet[role]; !allowed {
				common.RespondWithError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// Helper to get user role from context
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	userRole, ok := ctx.Value(UserRoleCtxKey).(string)
	return userRole, ok
}
