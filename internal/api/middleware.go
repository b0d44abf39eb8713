package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/projecthelena/tictactoe/internal/config"
	"github.com/projecthelena/tictactoe/internal/logging"
)

const (
	requestIDHeader   = "X-Request-ID"
	sessionName       = "tictactoe"
	sessionMaxAgeDays = 7
)

var (
	errMissingSecret = errors.New("session secret is required outside debug mode")
	errRandomSecret  = errors.New("failed to generate random session secret")
)

// RequestID tags each request with a correlation id. A well-formed id sent
// by the client is kept; anything else is replaced.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// NewSessionStore builds the cookie store signed with the configured secret.
// In debug mode without SECRET_KEY a random per-process key is used, so
// sessions do not survive restarts.
func NewSessionStore(cfg *config.Config) (*sessions.CookieStore, error) {
	secret := []byte(cfg.SecretKey)
	if len(secret) == 0 {
		if !cfg.Debug {
			return nil, errMissingSecret
		}
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errRandomSecret
		}
		slog.Warn("SECRET_KEY not set, using a random development key")
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * sessionMaxAgeDays,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}

type sessionKey struct{}

// SessionMiddleware decodes the session cookie, if any, and exposes it via
// sessionFromRequest. Cookies that fail verification are replaced by an
// empty session. Nothing is written back unless a handler saves it.
func SessionMiddleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Get(r, sessionName)
			if err != nil {
				slog.DebugContext(r.Context(), "discarding invalid session cookie", "error", err)
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromRequest returns the session loaded by SessionMiddleware, or nil.
func sessionFromRequest(r *http.Request) *sessions.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*sessions.Session)
	return sess
}
