// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/timeouts"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

type Handler struct {
	API        bookcrew.API
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(api bookcrew.API, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{API: api, SessionMgr: sessionMgr, Log: logger}
}

// ServeLogout handles GET /logout. The backend logout is best effort: even
// when it fails the local session is cleared and the user lands on /login.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		ctx, cancel := auth.APIContext(r, timeouts.Short)
		if err := h.API.Logout(ctx); err != nil {
			h.Log.Debug("backend logout failed", zap.Error(err))
		}
		cancel()
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
