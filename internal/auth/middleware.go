package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

// contextKey is unexported so only this package can read or write the
// authenticated identity in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// Messages returned by the auth gate. A missing cookie and a bad token are
// distinguishable; why a token was rejected is not.
const (
	MsgNoToken      = "Unauthorized - No token provided"
	MsgInvalidToken = "Unauthorized - Invalid token"
)

// RequireAuth is the auth gate applied to every protected route.
//
// Contract:
//   - no "token" cookie, or an empty one  → 401 MsgNoToken, chain stops
//   - token fails signature/expiry checks → 401 MsgInvalidToken, chain stops
//   - otherwise the user id is stored in the request context and the next
//     handler runs
//
// The gate has no side effects beyond the context value.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeUnauthorized(w, MsgNoToken)
				return
			}

			userID, err := tokens.Validate(cookie.Value)
			if err != nil {
				writeUnauthorized(w, MsgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user's ID.
// Returns ("", false) when the request did not pass RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
