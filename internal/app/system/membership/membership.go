// Package membership resolves the caller's member record for the workspace
// named in the URL.
//
// The record is refetched on every request, so a display-name edit is
// observed on the next render without any cache invalidation.
package membership

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/app/system/timeouts"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

type ctxKey string

const membershipKey ctxKey = "membership"

// Info holds the membership lookup result for the current request.
// Member is nil when the caller is not a member or the lookup failed;
// Err then carries the cause.
type Info struct {
	WorkspaceID string
	Member      *bookcrew.Member
	Err         error
}

// FromRequest returns the membership info placed by Middleware, or nil when
// the request never passed through it.
func FromRequest(r *http.Request) *Info {
	info, _ := r.Context().Value(membershipKey).(*Info)
	return info
}

// WithInfo injects info into the request context. Exported for tests.
func WithInfo(r *http.Request, info *Info) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), membershipKey, info))
}

// Middleware fetches the caller's member record for the {workspaceID} URL
// param and stores it in context. It never blocks the request itself;
// gating is Require's job.
func Middleware(api bookcrew.API, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wsID := chi.URLParam(r, "workspaceID")
			if wsID == "" {
				next.ServeHTTP(w, r)
				return
			}

			info := &Info{WorkspaceID: wsID}

			ctx, cancel := auth.APIContext(r, timeouts.Short)
			member, err := api.MyMember(ctx, wsID)
			cancel()
			if err != nil {
				logger.Debug("membership lookup failed",
					zap.String("workspace_id", wsID),
					zap.Error(err))
				info.Err = err
			} else {
				info.Member = &member
			}

			next.ServeHTTP(w, WithInfo(r, info))
		})
	}
}

// Require turns a failed membership lookup into a toast plus a redirect to
// the workspace list. 403 means the caller is not a member, 404 means the
// workspace is gone; anything else gets the generic failure text.
func Require(toasts *flash.Flash) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := FromRequest(r)
			if info != nil && info.Member != nil {
				next.ServeHTTP(w, r)
				return
			}

			msg := "워크스페이스 정보를 불러오지 못했습니다."
			if info != nil {
				switch {
				case bookcrew.IsForbidden(info.Err):
					msg = "워크스페이스에 접근할 권한이 없습니다."
				case bookcrew.IsNotFound(info.Err):
					msg = "존재하지 않는 워크스페이스입니다."
				case bookcrew.IsUnreachable(info.Err):
					msg = "네트워크 연결을 확인해주세요."
				}
			}
			toasts.Error(w, r, msg)

			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/workspaces")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			http.Redirect(w, r, "/workspaces", http.StatusSeeOther)
		})
	}
}
