package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/membership"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// SignedIn injects a session user into the request context, bypassing the
// session middleware.
func SignedIn(r *http.Request, userID, name, token string) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{UserID: userID, Name: name, Token: token})
}

// WithMembership injects a resolved membership into the request context,
// bypassing the membership middleware.
func WithMembership(r *http.Request, workspaceID string, m *bookcrew.Member) *http.Request {
	return membership.WithInfo(r, &membership.Info{WorkspaceID: workspaceID, Member: m})
}

// NewFormRequest builds a POST request with form-encoded values, the way a
// browser submits our pages.
func NewFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AsHTMX marks the request as an HTMX partial request.
func AsHTMX(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}
