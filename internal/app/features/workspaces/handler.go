// internal/app/features/workspaces/handler.go
package workspaces

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/app/system/inputval"
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

type listData struct {
	viewdata.BaseVM
	Workspaces []bookcrew.Workspace
	LoadError  string
}

type searchData struct {
	Query   string
	Results []bookcrew.Workspace
	Error   string
}

// ServeList handles GET /workspaces: the joined-workspace grid plus the
// create and join modals.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	data := listData{
		BaseVM: viewdata.NewBaseVM(w, r, h.Flash, "내 워크스페이스", "/workspaces"),
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	list, err := h.API.Workspaces(ctx)
	if err != nil {
		h.Log.Warn("workspace list failed", zap.Error(err))
		data.LoadError = loadErrorText(err)
	}
	data.Workspaces = list
	templates.Render(w, r, "workspaces_page", data)
}

// HandleCreate handles POST /workspaces from the create modal.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	description := strings.TrimSpace(r.PostFormValue("description"))

	if msg := inputval.ValidateWorkspaceName(name); msg != "" {
		h.Flash.Error(w, r, msg)
		http.Redirect(w, r, "/workspaces", http.StatusSeeOther)
		return
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	ws, err := h.API.CreateWorkspace(ctx, bookcrew.CreateWorkspaceRequest{
		WorkspaceName: name,
		Description:   description,
	})
	if err != nil {
		h.Flash.Error(w, r, actionErrorText(err, "워크스페이스 생성에 실패했습니다."))
		http.Redirect(w, r, "/workspaces", http.StatusSeeOther)
		return
	}

	h.Flash.Success(w, r, "워크스페이스가 생성되었습니다.")
	http.Redirect(w, r, "/workspace/"+ws.ID, http.StatusSeeOther)
}

// ServeSearch handles GET /workspaces/search (HTMX partial inside the join
// modal). The input debounces in the template; an empty query clears the
// result panel.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("search"))
	data := searchData{Query: query}

	if query == "" {
		templates.Render(w, r, "workspaces_search_results", data)
		return
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	results, err := h.API.SearchWorkspaces(ctx, query)
	if err != nil {
		data.Error = loadErrorText(err)
	}
	data.Results = results
	templates.Render(w, r, "workspaces_search_results", data)
}

// HandleJoin handles POST /workspaces/join from the join modal.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	wsID := r.PostFormValue("workspace_id")
	code := r.PostFormValue("join_code")

	if wsID == "" || code == "" {
		h.Flash.Error(w, r, "워크스페이스와 참여 코드를 입력해주세요.")
		http.Redirect(w, r, "/workspaces", http.StatusSeeOther)
		return
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	err := h.API.JoinWorkspace(ctx, bookcrew.JoinWorkspaceRequest{
		WorkspaceID:       wsID,
		WorkspacePassword: code,
	})
	if err != nil {
		h.Flash.Error(w, r, actionErrorText(err, "워크스페이스 참여에 실패했습니다."))
		http.Redirect(w, r, "/workspaces", http.StatusSeeOther)
		return
	}

	h.Flash.Success(w, r, "워크스페이스에 참여했습니다.")
	http.Redirect(w, r, "/workspace/"+wsID, http.StatusSeeOther)
}

func loadErrorText(err error) string {
	if bookcrew.IsUnreachable(err) {
		return "네트워크 연결을 확인해주세요."
	}
	return bookcrew.Message(err, "목록을 불러오지 못했습니다.")
}

func actionErrorText(err error, fallback string) string {
	if bookcrew.IsUnreachable(err) {
		return "네트워크 연결을 확인해주세요."
	}
	return bookcrew.Message(err, fallback)
}
