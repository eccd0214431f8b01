package meetings_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/features/meetings"
	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
	"github.com/bookcrew/bookcrew/internal/testutil"
)

type fixture struct {
	handler *meetings.Handler
	backend *testutil.FakeBackend
	toasts  *flash.Flash

	wsID          string
	aliceToken    string
	aliceMemberID string
	bobMemberID   string
	carolMemberID string
	bookID        string
}

// newFixture seeds a workspace with alice (the caller), bob and carol, and
// one book.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	testutil.BootTemplates(t)

	backend := testutil.NewFakeBackend(t)
	api := bookcrew.New(backend.URL(), zap.NewNop())

	store, err := auth.NewCookieStore("test-session-key-for-testing-only!!", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCookieStore failed: %v", err)
	}
	fl := flash.New(store, "test-session", zap.NewNop())

	f := &fixture{
		handler: meetings.NewHandler(api, fl, zap.NewNop()),
		backend: backend,
		toasts:  fl,
	}
	f.aliceToken = backend.AddUser("alice", "secret1", "앨리스")
	backend.AddUser("bob", "secret1", "밥")
	backend.AddUser("carol", "secret1", "캐럴")
	f.wsID = backend.AddWorkspace("주말 독서모임", "code1")
	f.aliceMemberID = backend.AddMember(f.wsID, "alice", "앨리스", bookcrew.RoleAdmin)
	f.bobMemberID = backend.AddMember(f.wsID, "bob", "밥", bookcrew.RoleMember)
	f.carolMemberID = backend.AddMember(f.wsID, "carol", "캐럴", bookcrew.RoleMember)
	f.bookID = backend.AddBook(f.wsID, "사피엔스").ID
	return f
}

func (f *fixture) asAlice(r *http.Request) *http.Request {
	r = testutil.SignedIn(r, "alice", "앨리스", f.aliceToken)
	return testutil.WithMembership(r, f.wsID, &bookcrew.Member{
		ID:     f.aliceMemberID,
		Name:   "앨리스",
		Role:   bookcrew.RoleAdmin,
		UserID: "alice",
	})
}

func (f *fixture) popToasts(t *testing.T, rec *httptest.ResponseRecorder) []flash.Toast {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return f.toasts.Pop(httptest.NewRecorder(), req)
}

func TestServeList_FiltersByTitle(t *testing.T) {
	f := newFixture(t)
	f.backend.AddMeeting(f.wsID, "사피엔스 1부", "2026-09-05", f.bookID, []string{f.aliceMemberID})
	f.backend.AddMeeting(f.wsID, "총균쇠 토론", "2026-09-12", f.bookID, []string{f.bobMemberID})

	req := f.asAlice(testutil.AsHTMX(httptest.NewRequest("GET",
		"/workspace/"+f.wsID+"/meetings?keyword="+url.QueryEscape("사피엔스"), nil)))
	rec := httptest.NewRecorder()
	f.handler.ServeList(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "사피엔스 1부") {
		t.Error("expected the matching meeting")
	}
	if strings.Contains(body, "총균쇠 토론") {
		t.Error("non-matching meeting must be filtered out")
	}
	if !strings.Contains(body, "전체 1개") {
		t.Error("expected the filtered total count")
	}
}

func TestServeList_DateRange(t *testing.T) {
	f := newFixture(t)
	f.backend.AddMeeting(f.wsID, "팔월 모임", "2026-08-20", f.bookID, nil)
	f.backend.AddMeeting(f.wsID, "구월 모임", "2026-09-20", f.bookID, nil)

	req := f.asAlice(testutil.AsHTMX(httptest.NewRequest("GET",
		"/workspace/"+f.wsID+"/meetings?start_date=2026-09-01&end_date=2026-09-30", nil)))
	rec := httptest.NewRecorder()
	f.handler.ServeList(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "구월 모임") {
		t.Error("expected the meeting inside the range")
	}
	if strings.Contains(body, "팔월 모임") {
		t.Error("meeting outside the range must be filtered out")
	}
}

func TestServeList_SecondPage(t *testing.T) {
	f := newFixture(t)
	// One more meeting than a page holds.
	for i := 0; i <= testutil.FakePageSize; i++ {
		f.backend.AddMeeting(f.wsID, "모임 "+strconv.Itoa(i), "2026-09-01", f.bookID, nil)
	}

	req := f.asAlice(testutil.AsHTMX(httptest.NewRequest("GET",
		"/workspace/"+f.wsID+"/meetings?page=2", nil)))
	rec := httptest.NewRecorder()
	f.handler.ServeList(rec, req)

	body := rec.Body.String()
	if got := strings.Count(body, "<li>"); got != 1 {
		t.Errorf("rows on page 2 = %d, want the single overflow row", got)
	}
	if !strings.Contains(body, "전체 11개") {
		t.Error("expected the full total count on every page")
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{
			name:    "missing title",
			form:    url.Values{"meeting_date": {"2026-09-05"}, "book_id": {"b"}, "attendees": {"m"}},
			wantMsg: "모임 제목을 입력해주세요.",
		},
		{
			name:    "missing date",
			form:    url.Values{"title": {"모임"}, "book_id": {"b"}, "attendees": {"m"}},
			wantMsg: "모임 날짜를 선택해주세요.",
		},
		{
			name:    "missing book",
			form:    url.Values{"title": {"모임"}, "meeting_date": {"2026-09-05"}, "attendees": {"m"}},
			wantMsg: "책을 선택해주세요.",
		},
		{
			name:    "no attendees",
			form:    url.Values{"title": {"모임"}, "meeting_date": {"2026-09-05"}, "book_id": {"b"}},
			wantMsg: "참석자를 한 명 이상 선택해주세요.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := f.asAlice(testutil.NewFormRequest("/workspace/"+f.wsID+"/meetings", tt.form))
			rec := httptest.NewRecorder()
			f.handler.HandleCreate(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303 back to the list", rec.Code)
			}
			toasts := f.popToasts(t, rec)
			if len(toasts) != 1 || toasts[0].Text != tt.wantMsg {
				t.Errorf("toasts = %+v, want %q", toasts, tt.wantMsg)
			}
		})
	}
}

func TestHandleCreate_Success(t *testing.T) {
	f := newFixture(t)

	form := url.Values{
		"title":        {"사피엔스 1부"},
		"meeting_date": {"2026-09-05"},
		"book_id":      {f.bookID},
		"attendees":    {f.aliceMemberID, f.bobMemberID},
	}
	req := f.asAlice(testutil.NewFormRequest("/workspace/"+f.wsID+"/meetings", form))
	rec := httptest.NewRecorder()
	f.handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	prefix := "/workspace/" + f.wsID + "/meetings/"
	if !strings.HasPrefix(loc, prefix) || loc == prefix {
		t.Fatalf("Location = %q, want the new meeting's detail page", loc)
	}

	meetingID := strings.TrimPrefix(loc, prefix)
	detail, ok := f.backend.Meeting(meetingID)
	if !ok {
		t.Fatal("meeting not stored in the backend")
	}
	if len(detail.Attendees) != 2 {
		t.Errorf("attendees = %d, want 2", len(detail.Attendees))
	}
	for _, a := range detail.Attendees {
		if a.Note != nil {
			t.Errorf("new attendee %s has a note, want empty", a.Name)
		}
	}
}

func TestServeDetail_ExactlyOneEditableRegion(t *testing.T) {
	f := newFixture(t)
	meetingID := f.backend.AddMeeting(f.wsID, "사피엔스 1부", "2026-09-05", f.bookID,
		[]string{f.aliceMemberID, f.bobMemberID})

	req := f.asAlice(httptest.NewRequest("GET", "/workspace/"+f.wsID+"/meetings/"+meetingID, nil))
	req = testutil.WithChiURLParam(req, "meetingID", meetingID)
	rec := httptest.NewRecorder()
	f.handler.ServeDetail(rec, req)

	body := rec.Body.String()
	if got := strings.Count(body, `<textarea name="note"`); got != 1 {
		t.Errorf("editable note regions = %d, want exactly 1 (the viewer's own row)", got)
	}
	if got := strings.Count(body, "본인"); got != 1 {
		t.Errorf("본인 badge count = %d, want 1", got)
	}
	// bob has no note yet; his row shows the empty placeholder.
	if !strings.Contains(body, "아직 작성된 기록이 없습니다.") {
		t.Error("expected the empty-note placeholder for the other attendee")
	}
}

func TestServeDetail_RendersSanitizedNote(t *testing.T) {
	f := newFixture(t)
	meetingID := f.backend.AddMeeting(f.wsID, "사피엔스 1부", "2026-09-05", f.bookID,
		[]string{f.aliceMemberID, f.bobMemberID})

	// bob saved a note with markup and a line break.
	detail, _ := f.backend.Meeting(meetingID)
	var bobAttendeeID string
	for _, a := range detail.Attendees {
		if a.MemberID == f.bobMemberID {
			bobAttendeeID = a.ID
		}
	}
	api := bookcrew.New(f.backend.URL(), zap.NewNop())
	err := api.SaveNote(bookcrew.WithToken(t.Context(), f.aliceToken), bookcrew.SaveNoteRequest{
		WorkspaceID: f.wsID,
		MeetingID:   meetingID,
		AttendeeID:  bobAttendeeID,
		Note:        "<script>alert(1)</script>첫 줄\n둘째 줄",
	})
	if err != nil {
		t.Fatalf("seeding note failed: %v", err)
	}

	req := f.asAlice(httptest.NewRequest("GET", "/workspace/"+f.wsID+"/meetings/"+meetingID, nil))
	req = testutil.WithChiURLParam(req, "meetingID", meetingID)
	rec := httptest.NewRecorder()
	f.handler.ServeDetail(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("note markup must be stripped")
	}
	if !strings.Contains(body, "첫 줄<br>둘째 줄") {
		t.Error("expected the note text with its line break kept")
	}
}

func TestHandleSaveNote_Idempotent(t *testing.T) {
	f := newFixture(t)
	meetingID := f.backend.AddMeeting(f.wsID, "사피엔스 1부", "2026-09-05", f.bookID,
		[]string{f.aliceMemberID})

	detail, _ := f.backend.Meeting(meetingID)
	attendeeID := detail.Attendees[0].ID

	save := func(note string) *httptest.ResponseRecorder {
		form := url.Values{"attendee_id": {attendeeID}, "note": {note}}
		req := f.asAlice(testutil.NewFormRequest("/workspace/"+f.wsID+"/meetings/"+meetingID+"/note", form))
		req = testutil.WithChiURLParam(req, "meetingID", meetingID)
		rec := httptest.NewRecorder()
		f.handler.HandleSaveNote(rec, req)
		return rec
	}

	save("첫 번째 기록")
	rec := save("고친 기록")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	toasts := f.popToasts(t, rec)
	if len(toasts) != 1 || toasts[0].Text != "기록이 저장되었습니다." {
		t.Errorf("toasts = %+v, want the save confirmation", toasts)
	}

	after, _ := f.backend.Meeting(meetingID)
	if len(after.Attendees) != 1 {
		t.Fatalf("attendees = %d, want the single row intact", len(after.Attendees))
	}
	if after.Attendees[0].Note == nil || *after.Attendees[0].Note != "고친 기록" {
		t.Errorf("note = %v, want the last save", after.Attendees[0].Note)
	}
}

func TestHandleSaveNote_MissingRow(t *testing.T) {
	f := newFixture(t)
	meetingID := f.backend.AddMeeting(f.wsID, "사피엔스 1부", "2026-09-05", f.bookID,
		[]string{f.aliceMemberID})

	tests := []struct {
		name       string
		attendeeID string
	}{
		{name: "no attendee row yet", attendeeID: ""},
		{name: "row gone server-side", attendeeID: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"attendee_id": {tt.attendeeID}, "note": {"기록"}}
			req := f.asAlice(testutil.NewFormRequest("/workspace/"+f.wsID+"/meetings/"+meetingID+"/note", form))
			req = testutil.WithChiURLParam(req, "meetingID", meetingID)
			rec := httptest.NewRecorder()
			f.handler.HandleSaveNote(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			toasts := f.popToasts(t, rec)
			if len(toasts) != 1 || toasts[0].Text != "모임 정보를 먼저 저장해주세요." {
				t.Errorf("toasts = %+v, want the save-info-first message", toasts)
			}
		})
	}
}

func TestHandleUpdateInfo_ReplacesAttendeesWholesale(t *testing.T) {
	f := newFixture(t)
	meetingID := f.backend.AddMeeting(f.wsID, "사피엔스 1부", "2026-09-05", f.bookID,
		[]string{f.aliceMemberID, f.bobMemberID})

	// alice already wrote a note; she stays in the new set.
	detail, _ := f.backend.Meeting(meetingID)
	var aliceAttendeeID string
	for _, a := range detail.Attendees {
		if a.MemberID == f.aliceMemberID {
			aliceAttendeeID = a.ID
		}
	}
	api := bookcrew.New(f.backend.URL(), zap.NewNop())
	err := api.SaveNote(bookcrew.WithToken(t.Context(), f.aliceToken), bookcrew.SaveNoteRequest{
		WorkspaceID: f.wsID,
		MeetingID:   meetingID,
		AttendeeID:  aliceAttendeeID,
		Note:        "남는 기록",
	})
	if err != nil {
		t.Fatalf("seeding note failed: %v", err)
	}

	form := url.Values{
		"title":        {"사피엔스 2부"},
		"meeting_date": {"2026-09-12"},
		"book_id":      {f.bookID},
		"attendees":    {f.aliceMemberID, f.carolMemberID}, // bob out, carol in
	}
	req := f.asAlice(testutil.NewFormRequest("/workspace/"+f.wsID+"/meetings/"+meetingID+"/info", form))
	req = testutil.WithChiURLParam(req, "meetingID", meetingID)
	rec := httptest.NewRecorder()
	f.handler.HandleUpdateInfo(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	after, _ := f.backend.Meeting(meetingID)
	if after.Title != "사피엔스 2부" {
		t.Errorf("Title = %q, want the update applied", after.Title)
	}
	if len(after.Attendees) != 2 {
		t.Fatalf("attendees = %d, want exactly the submitted set", len(after.Attendees))
	}
	got := map[string]*string{}
	for _, a := range after.Attendees {
		got[a.MemberID] = a.Note
	}
	if _, stays := got[f.aliceMemberID]; !stays {
		t.Error("kept attendee missing")
	}
	if _, added := got[f.carolMemberID]; !added {
		t.Error("new attendee missing")
	}
	if _, gone := got[f.bobMemberID]; gone {
		t.Error("removed attendee still present")
	}
	if note := got[f.aliceMemberID]; note == nil || *note != "남는 기록" {
		t.Error("kept attendee's note must survive the replacement")
	}
	if note := got[f.carolMemberID]; note != nil {
		t.Error("new attendee must start with an empty note")
	}
}

func TestHandleUpdateInfo_FailureKeepsEnteredValues(t *testing.T) {
	f := newFixture(t)
	meetingID := f.backend.AddMeeting(f.wsID, "사피엔스 1부", "2026-09-05", f.bookID,
		[]string{f.aliceMemberID})
	f.backend.FailNext("PATCH", "/meetings/detail", http.StatusForbidden, "권한이 없습니다.")

	form := url.Values{
		"title":        {"고친 제목"},
		"meeting_date": {"2026-09-12"},
		"book_id":      {f.bookID},
		"attendees":    {f.aliceMemberID},
	}
	req := f.asAlice(testutil.NewFormRequest("/workspace/"+f.wsID+"/meetings/"+meetingID+"/info", form))
	req = testutil.WithChiURLParam(req, "meetingID", meetingID)
	rec := httptest.NewRecorder()
	f.handler.HandleUpdateInfo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want the edit form re-rendered", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "권한이 없습니다.") {
		t.Error("expected the backend message verbatim")
	}
	if !strings.Contains(body, `value="고친 제목"`) {
		t.Error("expected the entered title kept in the form")
	}

	after, _ := f.backend.Meeting(meetingID)
	if after.Title != "사피엔스 1부" {
		t.Errorf("backend title = %q, want unchanged", after.Title)
	}
}

func TestServeMemberSearch_EmptyKeywordRendersNothing(t *testing.T) {
	f := newFixture(t)

	req := f.asAlice(testutil.AsHTMX(httptest.NewRequest("GET",
		"/workspace/"+f.wsID+"/meetings/member-search", nil)))
	rec := httptest.NewRecorder()
	f.handler.ServeMemberSearch(rec, req)

	if strings.Contains(rec.Body.String(), "pickAttendee") {
		t.Error("empty keyword must render an empty panel")
	}
}

func TestServeMemberSearch_FindsMembers(t *testing.T) {
	f := newFixture(t)

	req := f.asAlice(testutil.AsHTMX(httptest.NewRequest("GET",
		"/workspace/"+f.wsID+"/meetings/member-search?keyword="+url.QueryEscape("밥"), nil)))
	rec := httptest.NewRecorder()
	f.handler.ServeMemberSearch(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "밥") {
		t.Error("expected the matching member")
	}
	if strings.Contains(body, "캐럴") {
		t.Error("non-matching member must be filtered out")
	}
}

func TestHandleCreateBook_SelectsNewBook(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"book_title": {"총균쇠"}}
	req := f.asAlice(testutil.AsHTMX(testutil.NewFormRequest("/workspace/"+f.wsID+"/meetings/books", form)))
	rec := httptest.NewRecorder()
	f.handler.HandleCreateBook(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "총균쇠") {
		t.Error("expected the new book in the select")
	}
	if !strings.Contains(body, "selected") {
		t.Error("expected the new book preselected")
	}
	if !strings.Contains(body, "사피엔스") {
		t.Error("expected the existing book still listed")
	}
}
