package auth

import (
	"context"
	"net/http"
)

// HeaderUserID carries the authenticated user id, set by the upstream
// session provider. Token verification happens there; this service
// trusts the header.
const HeaderUserID = "X-User-Id"

type ctxKey struct{}

// NewAuthMiddleware copies the user identity header into the request
// context. It does not reject: handlers decide whether an endpoint
// requires identity, so request validation can run first.
func NewAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get(HeaderUserID); userID != "" {
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID))
		}

		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated user id, or an empty string for an
// unauthenticated request.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(ctxKey{}).(string)

	return userID
}
