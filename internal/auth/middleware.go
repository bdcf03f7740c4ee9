package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/everyonewrite/writeguide/internal/models"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

type contextKey string

const userContextKey contextKey = "user"

// UserResolver maps a verified plugin identity to a live local account.
type UserResolver interface {
	GetByUtoolID(ctx context.Context, utoolID string) (*models.User, error)
}

// Middleware validates the bearer credential and attaches the resolved
// user to the request context. Soft-deleted or unknown identities are
// rejected the same way as bad tokens.
func Middleware(verifier Verifier, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get(authorizationHeader)
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeJSONError(w, http.StatusUnauthorized, "missing bearer credential")
				return
			}

			utoolID, err := verifier.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := users.GetByUtoolID(r.Context(), utoolID)
			if err != nil || user.IsDeleted() {
				writeJSONError(w, http.StatusUnauthorized, "unknown user")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func GetUserFromRequest(r *http.Request) (*models.User, bool) {
	return GetUserFromContext(r.Context())
}
