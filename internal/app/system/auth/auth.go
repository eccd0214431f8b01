// Package auth manages the cookie session and the signed-in-user guard.
//
// The session stores the backend bearer token plus the cached identity.
// LoadSessionUser verifies the token against the backend on every request
// (GET /users/me); a token the backend no longer accepts simply renders the
// request anonymous. There is no token refresh: when the backend expires a
// token the next request lands on the login page.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/timeouts"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

const (
	tokenKey    = "access_token"
	userIDKey   = "user_id"
	userNameKey = "user_name"
)

// SessionUser is the verified identity injected into r.Context().
type SessionUser struct {
	UserID string
	Name   string
	Token  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user and a "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithUser injects u into the request context. Exported for tests.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// APIContext derives a context for a backend call on behalf of the current
// user: the session's bearer token plus the given timeout.
func APIContext(r *http.Request, timeout func() time.Duration) (context.Context, context.CancelFunc) {
	ctx := r.Context()
	if u, ok := CurrentUser(r); ok {
		ctx = bookcrew.WithToken(ctx, u.Token)
	}
	return context.WithTimeout(ctx, timeout())
}

// NewCookieStore builds the cookie session store.
//
// In production (secure=true) cookies are Secure + SameSite=Lax; in local
// dev over http://localhost, secure=false so cookies are accepted.
func NewCookieStore(sessionKey, domain string, secure bool, logger *zap.Logger) (*sessions.CookieStore, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}

// SessionManager owns session reads/writes and the auth middleware.
type SessionManager struct {
	store         *sessions.CookieStore
	name          string
	api           bookcrew.API
	log           *zap.Logger
	autoLoginDays int
}

// NewSessionManager wires the store to the backend client used for token
// verification. autoLoginDays controls the "keep me signed in" cookie
// lifetime; 0 falls back to 30 days.
func NewSessionManager(store *sessions.CookieStore, name string, autoLoginDays int, api bookcrew.API, logger *zap.Logger) *SessionManager {
	if autoLoginDays <= 0 {
		autoLoginDays = 30
	}
	return &SessionManager{
		store:         store,
		name:          name,
		api:           api,
		log:           logger,
		autoLoginDays: autoLoginDays,
	}
}

// Store exposes the underlying cookie store (the flash helper shares it).
func (m *SessionManager) Store() *sessions.CookieStore { return m.store }

// GetSession returns the current session, creating a fresh one if the
// cookie is absent or undecodable.
func (m *SessionManager) GetSession(r *http.Request) *sessions.Session {
	sess, _ := m.store.Get(r, m.name)
	return sess
}

// SignIn persists the bearer token and identity. autoLogin extends the
// cookie to the configured day count; otherwise the cookie lives for the
// browser session only.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, token string, user bookcrew.User, autoLogin bool) error {
	sess := m.GetSession(r)
	sess.Values[tokenKey] = token
	sess.Values[userIDKey] = user.UserID
	sess.Values[userNameKey] = user.Name

	opts := *m.store.Options
	if autoLogin {
		opts.MaxAge = m.autoLoginDays * 24 * 60 * 60
	} else {
		opts.MaxAge = 0
	}
	sess.Options = &opts

	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := m.GetSession(r)
	opts := *m.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	sess.Values = map[any]any{}
	return sess.Save(r, w)
}

// LoadSessionUser verifies the session token (if any) against the backend
// and injects the user into context. Any verification failure, including an
// unreachable backend, leaves the request anonymous.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.GetSession(r)
		token, _ := sess.Values[tokenKey].(string)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(bookcrew.WithToken(r.Context(), token), timeouts.Short())
		defer cancel()

		user, err := m.api.Me(ctx)
		if err != nil {
			m.log.Debug("session token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		r = WithUser(r, &SessionUser{UserID: user.UserID, Name: user.Name, Token: token})
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		ret := url.QueryEscape(r.URL.RequestURI())

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", "/login?return="+ret)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

func wantsHTML(r *http.Request) bool {
	// Light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
