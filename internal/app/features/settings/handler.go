// internal/app/features/settings/handler.go
package settings

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/app/system/inputval"
	"github.com/bookcrew/bookcrew/internal/app/system/membership"
	"github.com/bookcrew/bookcrew/internal/app/system/timeouts"
	"github.com/bookcrew/bookcrew/internal/app/system/viewdata"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

type Handler struct {
	API   bookcrew.API
	Flash *flash.Flash
	Log   *zap.Logger
}

func NewHandler(api bookcrew.API, fl *flash.Flash, logger *zap.Logger) *Handler {
	return &Handler{API: api, Flash: fl, Log: logger}
}

type pageData struct {
	viewdata.BaseVM
	Workspace bookcrew.Workspace
	LoadError string
}

// ServePage handles GET /workspace/{workspaceID}/settings.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)

	data := pageData{
		BaseVM: viewdata.NewBaseVM(w, r, h.Flash, "설정", "/workspace/"+info.WorkspaceID),
	}

	ctx, cancel := auth.APIContext(r, timeouts.Short)
	defer cancel()

	ws, err := h.API.Workspace(ctx, info.WorkspaceID)
	if err != nil {
		h.Log.Warn("workspace fetch failed", zap.String("workspace_id", info.WorkspaceID), zap.Error(err))
		data.LoadError = errorText(err, "워크스페이스 정보를 불러오지 못했습니다.")
	}
	data.Workspace = ws
	templates.Render(w, r, "settings_page", data)
}

// HandleProfile handles POST .../settings/profile: the caller's own
// workspace display name. The membership provider refetches per request,
// so the new name shows on the next render.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	settingsURL := "/workspace/" + info.WorkspaceID + "/settings"

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))

	if msg := inputval.ValidateDisplayName(name); msg != "" {
		h.Flash.Error(w, r, msg)
		http.Redirect(w, r, settingsURL, http.StatusSeeOther)
		return
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	if err := h.API.UpdateMyProfile(ctx, info.WorkspaceID, name); err != nil {
		h.Flash.Error(w, r, errorText(err, "프로필 변경에 실패했습니다."))
		http.Redirect(w, r, settingsURL, http.StatusSeeOther)
		return
	}

	h.Flash.Success(w, r, "프로필이 변경되었습니다.")
	http.Redirect(w, r, settingsURL, http.StatusSeeOther)
}

// HandleWorkspace handles POST .../settings/workspace: rename and cover
// image, admin only. The backend enforces the role; UI gating only hides
// the form.
func (h *Handler) HandleWorkspace(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	settingsURL := "/workspace/" + info.WorkspaceID + "/settings"

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	cover := strings.TrimSpace(r.PostFormValue("cover_image"))

	if name != "" {
		if msg := inputval.ValidateWorkspaceName(name); msg != "" {
			h.Flash.Error(w, r, msg)
			http.Redirect(w, r, settingsURL, http.StatusSeeOther)
			return
		}
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	err := h.API.UpdateWorkspace(ctx, info.WorkspaceID, bookcrew.UpdateWorkspaceRequest{
		Name:       name,
		CoverImage: cover,
	})
	if err != nil {
		h.Flash.Error(w, r, errorText(err, "워크스페이스 설정 변경에 실패했습니다."))
		http.Redirect(w, r, settingsURL, http.StatusSeeOther)
		return
	}

	h.Flash.Success(w, r, "워크스페이스 설정이 변경되었습니다.")
	http.Redirect(w, r, settingsURL, http.StatusSeeOther)
}

// HandleDelete handles POST .../settings/delete behind the confirm modal.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)

	ctx, cancel := auth.APIContext(r, timeouts.Long)
	defer cancel()

	if err := h.API.DeleteWorkspace(ctx, info.WorkspaceID); err != nil {
		h.Flash.Error(w, r, errorText(err, "워크스페이스 삭제에 실패했습니다."))
		http.Redirect(w, r, "/workspace/"+info.WorkspaceID+"/settings", http.StatusSeeOther)
		return
	}

	h.Flash.Success(w, r, "워크스페이스가 삭제되었습니다.")
	http.Redirect(w, r, "/workspaces", http.StatusSeeOther)
}

func errorText(err error, fallback string) string {
	if bookcrew.IsUnreachable(err) {
		return "네트워크 연결을 확인해주세요."
	}
	return bookcrew.Message(err, fallback)
}
