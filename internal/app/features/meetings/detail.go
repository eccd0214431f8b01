// internal/app/features/meetings/detail.go
package meetings

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/htmlsanitize"
	"github.com/bookcrew/bookcrew/internal/app/system/membership"
	"github.com/bookcrew/bookcrew/internal/app/system/timeouts"
	"github.com/bookcrew/bookcrew/internal/app/system/viewdata"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

type attendeeVM struct {
	bookcrew.Attendee
	Editable bool          // this row belongs to the signed-in viewer
	NoteHTML template.HTML // sanitized note with line breaks kept
	HasNote  bool
}

type detailData struct {
	viewdata.BaseVM
	Meeting   bookcrew.MeetingDetail
	Attendees []attendeeVM
	Members   []bookcrew.Member // for the info-edit attendee picker
	Books     []bookcrew.Book   // for the info-edit book select

	// Info edit state. EditMode with a FormError means a save failed and
	// the form re-renders with the entered values instead of the canonical
	// record.
	EditMode      bool
	FormError     string
	FormTitle     string
	FormDate      string
	FormBookID    string
	FormAttendees map[string]bool // member id -> selected
}

// ServeDetail handles GET /workspace/{workspaceID}/meetings/{meetingID}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	meetingID := chi.URLParam(r, "meetingID")

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	detail, err := h.API.MeetingDetail(ctx, info.WorkspaceID, meetingID)
	if err != nil {
		h.Flash.Error(w, r, errorText(err, "모임 정보를 불러오지 못했습니다."))
		http.Redirect(w, r, "/workspace/"+info.WorkspaceID+"/meetings", http.StatusSeeOther)
		return
	}

	data := h.detailView(w, r, info, detail)
	data.EditMode = r.URL.Query().Get("edit") == "1"
	if data.EditMode {
		h.fillEditLists(ctx, &data, info.WorkspaceID)
	}
	templates.Render(w, r, "meeting_detail_page", data)
}

func (h *Handler) detailView(w http.ResponseWriter, r *http.Request, info *membership.Info, detail bookcrew.MeetingDetail) detailData {
	data := detailData{
		BaseVM:        viewdata.NewBaseVM(w, r, h.Flash, detail.Title, "/workspace/"+info.WorkspaceID+"/meetings"),
		Meeting:       detail,
		FormTitle:     detail.Title,
		FormDate:      detail.MeetingDate,
		FormBookID:    detail.BookID,
		FormAttendees: map[string]bool{},
	}

	viewerID := ""
	if u, ok := auth.CurrentUser(r); ok {
		viewerID = u.UserID
	}
	for _, a := range detail.Attendees {
		vm := attendeeVM{
			Attendee: a,
			Editable: viewerID != "" && a.UserID == viewerID,
		}
		if a.Note != nil {
			vm.HasNote = true
			vm.NoteHTML = htmlsanitize.NoteHTML(*a.Note)
		}
		data.Attendees = append(data.Attendees, vm)
		data.FormAttendees[a.MemberID] = true
	}
	return data
}

func (h *Handler) fillEditLists(ctx context.Context, data *detailData, wsID string) {
	if members, err := h.API.SearchMembers(ctx, bookcrew.SearchMembersRequest{WorkspaceID: wsID}); err == nil {
		data.Members = members
	} else {
		h.Log.Debug("member list for edit form failed", zap.Error(err))
	}
	if books, err := h.API.Books(ctx, bookcrew.ListBooksRequest{WorkspaceID: wsID}); err == nil {
		data.Books = books
	} else {
		h.Log.Debug("book list for edit form failed", zap.Error(err))
	}
}

// HandleUpdateInfo handles POST .../meetings/{meetingID}/info: the bulk
// metadata-and-attendees edit. A failed save keeps the form in edit mode
// with the entered values; success redirects to the canonical record.
func (h *Handler) HandleUpdateInfo(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	meetingID := chi.URLParam(r, "meetingID")
	detailURL := "/workspace/" + info.WorkspaceID + "/meetings/" + meetingID

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.PostFormValue("title"))
	date := r.PostFormValue("meeting_date")
	bookID := r.PostFormValue("book_id")
	attendees := r.PostForm["attendees"]

	formError := ""
	switch {
	case title == "":
		formError = "모임 제목을 입력해주세요."
	case date == "":
		formError = "모임 날짜를 선택해주세요."
	case bookID == "":
		formError = "책을 선택해주세요."
	case len(attendees) == 0:
		formError = "참석자를 한 명 이상 선택해주세요."
	}

	ctx, cancel := auth.APIContext(r, timeouts.Long)
	defer cancel()

	if formError == "" {
		err := h.API.UpdateMeeting(ctx, bookcrew.UpdateMeetingRequest{
			WorkspaceID: info.WorkspaceID,
			MeetingID:   meetingID,
			Title:       title,
			MeetingDate: date,
			BookID:      bookID,
			Attendees:   attendees,
		})
		if err == nil {
			h.Flash.Success(w, r, "모임 정보가 저장되었습니다.")
			http.Redirect(w, r, detailURL, http.StatusSeeOther)
			return
		}
		formError = errorText(err, "모임 정보 저장에 실패했습니다.")
	}

	// Re-render in edit mode with the entered values.
	detail, err := h.API.MeetingDetail(ctx, info.WorkspaceID, meetingID)
	if err != nil {
		h.Flash.Error(w, r, formError)
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	data := h.detailView(w, r, info, detail)
	data.EditMode = true
	data.FormError = formError
	data.FormTitle = title
	data.FormDate = date
	data.FormBookID = bookID
	data.FormAttendees = map[string]bool{}
	for _, id := range attendees {
		data.FormAttendees[id] = true
	}
	h.fillEditLists(ctx, &data, info.WorkspaceID)
	templates.Render(w, r, "meeting_detail_page", data)
}

// HandleSaveNote handles POST .../meetings/{meetingID}/note: one attendee's
// note, never bundled with the info edit.
func (h *Handler) HandleSaveNote(w http.ResponseWriter, r *http.Request) {
	info := membership.FromRequest(r)
	meetingID := chi.URLParam(r, "meetingID")
	detailURL := "/workspace/" + info.WorkspaceID + "/meetings/" + meetingID

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	attendeeID := r.PostFormValue("attendee_id")
	note := r.PostFormValue("note")

	if attendeeID == "" {
		// The viewer participates but their attendee row doesn't exist yet
		// (an unsaved info edit added them client-side).
		h.Flash.Error(w, r, "모임 정보를 먼저 저장해주세요.")
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	ctx, cancel := auth.APIContext(r, timeouts.Medium)
	defer cancel()

	err := h.API.SaveNote(ctx, bookcrew.SaveNoteRequest{
		WorkspaceID: info.WorkspaceID,
		MeetingID:   meetingID,
		AttendeeID:  attendeeID,
		Note:        note,
	})
	if err != nil {
		if bookcrew.IsNotFound(err) {
			h.Flash.Error(w, r, "모임 정보를 먼저 저장해주세요.")
		} else {
			h.Flash.Error(w, r, errorText(err, "기록 저장에 실패했습니다."))
		}
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	h.Flash.Success(w, r, "기록이 저장되었습니다.")
	http.Redirect(w, r, detailURL, http.StatusSeeOther)
}
