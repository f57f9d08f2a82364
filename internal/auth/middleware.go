package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/sakif/snippetvault/internal/session"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "session"

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// identity values in a request context — no collisions with other packages.
type contextKey string

const (
	userIDKey    contextKey = "userID"
	sessionIDKey contextKey = "sessionID"
)

// RequireAuth enforces authentication on protected routes.
//
// It reads the session cookie, verifies the token signature, and then —
// the part a signature can't do — requires the session to still exist and
// be unexpired in the store. Missing cookie, bad token, or dead session all
// yield 401 before the wrapped handler runs.
func RequireAuth(tokens *TokenService, sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := authenticate(r, tokens, sessions)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthenticated","message":"a valid session is required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
			ctx = context.WithValue(ctx, sessionIDKey, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) on anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// SessionIDFromContext retrieves the current session's ID, for handlers that
// act on the session itself (logout).
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// SetSessionCookie writes the session cookie on a response.
// HttpOnly keeps the token away from page scripts; SameSite=Lax keeps it off
// cross-site POSTs. Secure should be enabled behind HTTPS in production.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// authenticate reads the cookie, validates the token, and resolves the
// session in the store. Both checks must pass.
func authenticate(r *http.Request, tokens *TokenService, sessions session.Store) (*session.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}

	sessionID, userID, err := tokens.Validate(cookie.Value)
	if err != nil {
		return nil, err
	}

	sess, ok := sessions.Get(sessionID)
	if !ok || sess.UserID != userID {
		return nil, http.ErrNoCookie
	}
	return sess, nil
}
