// internal/app/features/members/handler.go
package members

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/app/system/membership"
	"github.com/bookcrew/bookcrew/internal/app/system/optimistic"
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

type memberVM struct {
	bookcrew.Member
	IsSelf bool // the signed-in caller's own row: badge, no controls
}

// memberList is the optimistic-mutation state. Mutations replace the slice
// rather than editing in place so a copy is a true snapshot.
type memberList struct {
	Members []memberVM
}

type listData struct {
	viewdata.BaseVM
	Panel listPanelData
}

type listPanelData struct {
	WorkspaceID string
	Keyword     string
	Members     []memberVM
	CallerAdmin bool
	Error       string
}

// ServeList handles GET /workspace/{workspaceID}/members with substring
// search over name and handle. HTMX requests get just the list panel.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	panel := h.loadPanel(ctx, r, info, keyword)

	if r.Header.Get("HX-Request") == "true" {
		templates.Render(w, r, "members_list_panel", panel)
		return
	}
	templates.Render(w, r, "members_page", listData{
		BaseVM: viewdata.NewBaseVM(w, r, h.Flash, "멤버", "/workspace/"+info.WorkspaceID),
		Panel:  panel,
	})
}

func (h *Handler) loadPanel(ctx context.Context, r *http.Request, info *membership.Info, keyword string) listPanelData {
	panel := listPanelData{
		WorkspaceID: info.WorkspaceID,
		Keyword:     keyword,
		CallerAdmin: info.Member != nil && info.Member.IsAdmin(),
	}

	list, err := h.API.SearchMembers(ctx, bookcrew.SearchMembersRequest{
		WorkspaceID: info.WorkspaceID,
		Keyword:     keyword,
	})
	if err != nil {
		h.Log.Warn("member list failed", zap.String("workspace_id", info.WorkspaceID), zap.Error(err))
		panel.Error = errorText(err, "멤버 목록을 불러오지 못했습니다.")
		return panel
	}

	viewerID := ""
	if u, ok := auth.CurrentUser(r); ok {
		viewerID = u.UserID
	}
	for _, m := range list {
		panel.Members = append(panel.Members, memberVM{
			Member: m,
			IsSelf: viewerID != "" && m.UserID == viewerID,
		})
	}
	return panel
}

// HandleChangeRole handles POST .../members/role. The new role is applied
// to the rendered list before the backend call; a rejected call rolls the
// row back and shows the server's message verbatim.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	memberID := r.PostFormValue("member_id")
	role := r.PostFormValue("role")

	if role != bookcrew.RoleAdmin && role != bookcrew.RoleMember {
		http.Error(w, "bad role", http.StatusBadRequest)
		return
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	panel := h.loadPanel(ctx, r, info, "")
	if panel.Error != "" {
		h.renderPanel(w, r, info, panel)
		return
	}

	state := memberList{Members: panel.Members}
	err := optimistic.Apply(&state,
		func(s *memberList) {
			next := make([]memberVM, len(s.Members))
			copy(next, s.Members)
			for i := range next {
				if next[i].ID == memberID {
					next[i].Role = role
				}
			}
			s.Members = next
		},
		func() error {
			return h.API.ChangeMemberRole(ctx, bookcrew.ChangeRoleRequest{
				WorkspaceID: info.WorkspaceID,
				MemberID:    memberID,
				Role:        role,
			})
		})
	panel.Members = state.Members
	if err != nil {
		panel.Error = errorText(err, "역할 변경에 실패했습니다.")
	}

	h.renderPanel(w, r, info, panel)
}

// HandleRemove handles POST .../members/remove. The confirm step is the
// modal in the template; by the time this runs the caller has confirmed.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	memberID := r.PostFormValue("member_id")

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	panel := h.loadPanel(ctx, r, info, "")
	if panel.Error != "" {
		h.renderPanel(w, r, info, panel)
		return
	}

	state := memberList{Members: panel.Members}
	err := optimistic.Apply(&state,
		func(s *memberList) {
			next := make([]memberVM, 0, len(s.Members))
			for _, m := range s.Members {
				if m.ID != memberID {
					next = append(next, m)
				}
			}
			s.Members = next
		},
		func() error {
			return h.API.RemoveMember(ctx, bookcrew.RemoveMemberRequest{
				WorkspaceID: info.WorkspaceID,
				MemberID:    memberID,
			})
		})
	panel.Members = state.Members
	if err != nil {
		panel.Error = errorText(err, "멤버 내보내기에 실패했습니다.")
	}

	h.renderPanel(w, r, info, panel)
}

func (h *Handler) renderPanel(w http.ResponseWriter, r *http.Request, info *membership.Info, panel listPanelData) {
	if r.Header.Get("HX-Request") == "true" {
		templates.Render(w, r, "members_list_panel", panel)
		return
	}
	templates.Render(w, r, "members_page", listData{
		BaseVM: viewdata.NewBaseVM(w, r, h.Flash, "멤버", "/workspace/"+info.WorkspaceID),
		Panel:  panel,
	})
}

func errorText(err error, fallback string) string {
	if bookcrew.IsUnreachable(err) {
		return "네트워크 연결을 확인해주세요."
	}
	return bookcrew.Message(err, fallback)
}
