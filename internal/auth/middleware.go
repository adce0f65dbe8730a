package auth

import (
	"context"
	"net/http"
)

// contextKey scopes this package's context entries. context.WithValue matches
// keys by type and value both, so a private key type keeps other packages
// from reading or shadowing the identity entry.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth gates a route on a valid session.
//
// The token rides in an HttpOnly cookie rather than localStorage or a
// header: HttpOnly keeps it out of reach of injected JavaScript. A request
// without a validating cookie is answered 401 and never reaches the handler.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractUserID(r, tokens)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
		})
	}
}

// OptionalAuth attaches the caller's identity when a valid session cookie is
// present and otherwise lets the request through untouched.
//
// Execution stays open to anonymous users; a signed-in user on the same
// route additionally gets review results synced to their profile. Handlers
// tell the two apart with UserIDFromContext.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractUserID(r, tokens)
			if err == nil && id != "" {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID.
// Returns ("", false) when the request is anonymous.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID pulls the user ID out of the session cookie. No cookie and a
// token that fails validation both come back as errors; the middleware above
// decides whether that blocks the request.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err // http.ErrNoCookie for an anonymous request
	}

	return tokens.Validate(cookie.Value)
}

// unauthorized writes the 401 envelope in the same shape the API handlers
// use, without importing them.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"sign in to continue"}`))
}
