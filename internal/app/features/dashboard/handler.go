// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/app/system/membership"
	"github.com/bookcrew/bookcrew/internal/app/system/timeouts"
	"github.com/bookcrew/bookcrew/internal/app/system/viewdata"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

// RecentBookLimit caps the bookshelf strip on the workspace home; the full
// list lives in the bookshelf modal.
const RecentBookLimit = 15

type Handler struct {
	API   bookcrew.API
	Flash *flash.Flash
	Log   *zap.Logger
}

func NewHandler(api bookcrew.API, fl *flash.Flash, logger *zap.Logger) *Handler {
	return &Handler{API: api, Flash: fl, Log: logger}
}

type homeData struct {
	viewdata.BaseVM
	Workspace      bookcrew.Workspace
	NextMeeting    *bookcrew.MeetingSummary
	LatestMeetings []bookcrew.MeetingSummary
	RecentBooks    []bookcrew.Book
	LoadError      string
}

type bookshelfData struct {
	WorkspaceID string
	Books       []bookcrew.Book
	Error       string
}

// ServeHome handles GET /workspace/{workspaceID}: next meeting, the latest
// meetings, and the recent slice of the bookshelf.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	wsID := info.WorkspaceID

	data := homeData{}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	ws, err := h.API.Workspace(ctx, wsID)
	if err != nil {
		h.Log.Warn("workspace fetch failed", zap.String("workspace_id", wsID), zap.Error(err))
		data.LoadError = errorText(err, "워크스페이스 정보를 불러오지 못했습니다.")
	}
	data.Workspace = ws

	// A 404 from /meetings/next just means nothing is scheduled.
	if next, err := h.API.NextMeeting(ctx, wsID); err == nil {
		data.NextMeeting = &next
	} else if !bookcrew.IsNotFound(err) {
		h.Log.Debug("next meeting fetch failed", zap.Error(err))
	}

	if latest, err := h.API.LatestMeetings(ctx, wsID); err == nil {
		data.LatestMeetings = latest
	} else {
		h.Log.Debug("latest meetings fetch failed", zap.Error(err))
	}

	if books, err := h.API.Books(ctx, bookcrew.ListBooksRequest{WorkspaceID: wsID, Limit: RecentBookLimit}); err == nil {
		data.RecentBooks = books
	} else {
		h.Log.Debug("recent books fetch failed", zap.Error(err))
	}

	data.BaseVM = viewdata.NewBaseVM(w, r, h.Flash, ws.Name, "/workspaces")
	templates.Render(w, r, "dashboard_page", data)
}

// ServeBookshelf handles GET /workspace/{workspaceID}/bookshelf (HTMX
// partial): the full book list for the bookshelf modal.
func (h *Handler) ServeBookshelf(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)

	data := bookshelfData{WorkspaceID: info.WorkspaceID}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	books, err := h.API.Books(ctx, bookcrew.ListBooksRequest{WorkspaceID: info.WorkspaceID})
	if err != nil {
		data.Error = errorText(err, "책장을 불러오지 못했습니다.")
	}
	data.Books = books
	templates.Render(w, r, "dashboard_bookshelf", data)
}

func errorText(err error, fallback string) string {
	if bookcrew.IsUnreachable(err) {
		return "네트워크 연결을 확인해주세요."
	}
	return bookcrew.Message(err, fallback)
}
