// internal/app/features/meetings/list.go
package meetings

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/membership"
	"github.com/bookcrew/bookcrew/internal/app/system/paging"
	"github.com/bookcrew/bookcrew/internal/app/system/timeouts"
	"github.com/bookcrew/bookcrew/internal/app/system/viewdata"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

type listData struct {
	viewdata.BaseVM
	Panel      listPanelData
	BookSelect bookSelectData // the create modal's book select
}

// bookSelectData feeds the book select partial, re-rendered over HTMX when
// a book is created inline.
type bookSelectData struct {
	Books      []bookcrew.Book
	SelectedID string
	Error      string
}

type listPanelData struct {
	WorkspaceID string
	Meetings    []bookcrew.MeetingSummary
	TotalCount  int
	Keyword     string
	StartDate   string
	EndDate     string
	Pages       pagesVM
	Error       string
}

// pagesVM is the pagination partial's view: page window plus the filter
// query string every page link must carry.
type pagesVM struct {
	Current int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
	Window  []int
	Query   string
}

type memberSearchData struct {
	Results []bookcrew.Member
	Keyword string
	Error   string
}

// ServeList handles GET /workspace/{workspaceID}/meetings. Filter inputs
// resubmit the form over HTMX with page pinned to 1; pagination links carry
// the current filters. HTMX requests get just the list panel.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	wsID := info.WorkspaceID

	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	page := paging.ParsePage(r)

	panel := listPanelData{
		WorkspaceID: wsID,
		Keyword:     keyword,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	res, err := h.API.Meetings(ctx, page, bookcrew.MeetingFilter{
		WorkspaceID: wsID,
		Keyword:     keyword,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		h.Log.Warn("meeting list failed", zap.String("workspace_id", wsID), zap.Error(err))
		panel.Error = errorText(err, "모임 목록을 불러오지 못했습니다.")
	} else {
		panel.Meetings = res.Meetings
		panel.TotalCount = res.TotalCount
		panel.Pages = pagesFor(page, res.TotalPage, keyword, startDate, endDate)
	}

	if r.Header.Get("HX-Request") == "true" {
		templates.Render(w, r, "meetings_list_panel", panel)
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(w, r, h.Flash, "모임", "/workspace/"+wsID),
		Panel:  panel,
	}
	if books, err := h.API.Books(ctx, bookcrew.ListBooksRequest{WorkspaceID: wsID}); err == nil {
		data.BookSelect.Books = books
	} else {
		h.Log.Debug("book list for create modal failed", zap.Error(err))
	}
	templates.Render(w, r, "meetings_page", data)
}

func pagesFor(page, totalPage int, keyword, startDate, endDate string) pagesVM {
	p := paging.Compute(page, totalPage)

	q := url.Values{}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}
	query := ""
	if enc := q.Encode(); enc != "" {
		query = "&" + enc
	}

	return pagesVM{
		Current: p.Current,
		HasPrev: p.HasPrev,
		HasNext: p.HasNext,
		Prev:    p.Prev,
		Next:    p.Next,
		Window:  p.Window,
		Query:   query,
	}
}

// HandleCreate handles POST /workspace/{workspaceID}/meetings from the
// create modal. Client-side constraint failures become toasts; everything
// else defers to the server message.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	wsID := info.WorkspaceID
	listURL := "/workspace/" + wsID + "/meetings"

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.PostFormValue("title"))
	date := r.PostFormValue("meeting_date")
	bookID := r.PostFormValue("book_id")
	attendees := r.PostForm["attendees"]

	switch {
	case title == "":
		h.Flash.Error(w, r, "모임 제목을 입력해주세요.")
	case date == "":
		h.Flash.Error(w, r, "모임 날짜를 선택해주세요.")
	case bookID == "":
		h.Flash.Error(w, r, "책을 선택해주세요.")
	case len(attendees) == 0:
		h.Flash.Error(w, r, "참석자를 한 명 이상 선택해주세요.")
	}
	if len(attendees) == 0 || title == "" || date == "" || bookID == "" {
		http.Redirect(w, r, listURL, http.StatusSeeOther)
		return
	}

	ctx, cancel := auth.APIContext(r, timeouts.Long)
	defer cancel()

	created, err := h.API.CreateMeeting(ctx, bookcrew.CreateMeetingRequest{
		WorkspaceID: wsID,
		Title:       title,
		MeetingDate: date,
		BookID:      bookID,
		Attendees:   attendees,
	})
	if err != nil {
		h.Flash.Error(w, r, errorText(err, "모임 생성에 실패했습니다."))
		http.Redirect(w, r, listURL, http.StatusSeeOther)
		return
	}

	h.Flash.Success(w, r, "모임이 생성되었습니다.")
	http.Redirect(w, r, listURL+"/"+created.ID, http.StatusSeeOther)
}

// ServeMemberSearch handles GET .../meetings/member-search (HTMX partial):
// the debounced attendee typeahead inside the create modal.
func (h *Handler) ServeMemberSearch(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))

	data := memberSearchData{Keyword: keyword}
	if keyword == "" {
		templates.Render(w, r, "meetings_member_search", data)
		return
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	results, err := h.API.SearchMembers(ctx, bookcrew.SearchMembersRequest{
		WorkspaceID: info.WorkspaceID,
		Keyword:     keyword,
	})
	if err != nil {
		data.Error = errorText(err, "멤버 검색에 실패했습니다.")
	}
	data.Results = results
	templates.Render(w, r, "meetings_member_search", data)
}

// HandleCreateBook handles POST .../meetings/books (HTMX): inline book
// creation from the create modal. Renders the refreshed book select with
// the new book chosen.
func (h *Handler) HandleCreateBook(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	wsID := info.WorkspaceID

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.PostFormValue("book_title"))

	data := bookSelectData{}

	if title == "" {
		data.Error = "책 제목을 입력해주세요."
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	if data.Error == "" {
		created, err := h.API.CreateBook(ctx, bookcrew.CreateBookRequest{WorkspaceID: wsID, Title: title})
		if err != nil {
			data.Error = errorText(err, "책 등록에 실패했습니다.")
		} else {
			data.SelectedID = created.ID
		}
	}

	if books, err := h.API.Books(ctx, bookcrew.ListBooksRequest{WorkspaceID: wsID}); err == nil {
		data.Books = books
	}
	templates.Render(w, r, "meetings_book_select", data)
}
