package api

import (
	"context"
	"net/http"
	"strings"

	"PokerClubBooks/api/auth"
	"PokerClubBooks/api/constants"
)

type contextKey string

const CurrentUserKey contextKey = "currentUser"

// GetUserFromCtx returns the authenticated caller placed by AuthMiddleware.
func GetUserFromCtx(ctx context.Context) *auth.User {
	if u, ok := ctx.Value(CurrentUserKey).(*auth.User); ok {
		return u
	}
	return nil
}

// AuthMiddleware verifies the bearer token on every request and injects the
// resulting user into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		svc := auth.GetGlobalAuthService()
		if svc == nil {
			RespondWithError(w, http.StatusInternalServerError, "Auth service unavailable")
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			RespondWithError(w, http.StatusUnauthorized, constants.ErrMissingToken)
			return
		}

		user, err := svc.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidToken+": "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), CurrentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
