// Package testutil provides a fake BookCrew backend and request helpers for
// handler tests. The fake is an httptest server speaking the real envelope
// protocol, so tests exercise a real client end to end.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

// FakePageSize is the meeting-list page size the fake backend uses.
const FakePageSize = 10

type fakeUser struct {
	Password string
	Name     string
}

type fakeWorkspace struct {
	ws       bookcrew.Workspace
	joinCode string
}

type fakeMeeting struct {
	detail    bookcrew.MeetingDetail
	workspace string
	createdAt string
}

type failure struct {
	Status  int
	Message string
}

// FakeBackend is an in-memory BookCrew backend behind an httptest server.
// Seed state with the Add* helpers, then point a bookcrew.Client at URL().
type FakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	users      map[string]fakeUser // userID -> account
	tokens     map[string]string   // token -> userID
	workspaces map[string]*fakeWorkspace
	members    map[string][]bookcrew.Member // workspaceID -> members
	meetings   map[string]*fakeMeeting      // meetingID -> meeting
	books      map[string][]bookcrew.Book   // workspaceID -> books
	fail       map[string]failure           // "METHOD /path" -> one-shot failure

	// Today is the date the fake treats as "now" for /meetings/next,
	// as yyyy-MM-dd. Defaults to the real current date.
	Today string

	// LastLoginBody is the raw body of the most recent POST /users/login,
	// for asserting the exact wire shape.
	LastLoginBody []byte
}

// NewFakeBackend starts the fake server. It is shut down with the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		t:          t,
		users:      map[string]fakeUser{},
		tokens:     map[string]string{},
		workspaces: map[string]*fakeWorkspace{},
		members:    map[string][]bookcrew.Member{},
		meetings:   map[string]*fakeMeeting{},
		books:      map[string][]bookcrew.Book{},
		fail:       map[string]failure{},
		Today:      time.Now().Format("2006-01-02"),
	}
	f.srv = httptest.NewServer(f.routes())
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the fake backend origin.
func (f *FakeBackend) URL() string { return f.srv.URL }

// FailNext makes the next request matching "METHOD /path" fail with the
// given status and message. The failure is consumed by one request.
func (f *FakeBackend) FailNext(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method+" "+path] = failure{Status: status, Message: message}
}

// AddUser registers an account and returns a valid token for it.
func (f *FakeBackend) AddUser(userID, password, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID] = fakeUser{Password: password, Name: name}
	token := uuid.NewString()
	f.tokens[token] = userID
	return token
}

// AddWorkspace seeds a workspace with the given join code and returns its id.
func (f *FakeBackend) AddWorkspace(name, joinCode string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	f.workspaces[id] = &fakeWorkspace{
		ws: bookcrew.Workspace{
			ID:        id,
			Name:      name,
			CreatedAt: f.Today,
		},
		joinCode: joinCode,
	}
	return id
}

// AddMember seeds a membership and returns the member id.
func (f *FakeBackend) AddMember(workspaceID, userID, name, role string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := bookcrew.Member{
		ID:       uuid.NewString(),
		Name:     name,
		Role:     role,
		UserID:   userID,
		Handle:   userID,
		JoinDate: f.Today,
	}
	f.members[workspaceID] = append(f.members[workspaceID], m)
	return m.ID
}

// AddBook seeds a book and returns it.
func (f *FakeBackend) AddBook(workspaceID, title string) bookcrew.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := bookcrew.Book{ID: uuid.NewString(), Title: title, CreatedAt: f.Today}
	f.books[workspaceID] = append([]bookcrew.Book{b}, f.books[workspaceID]...)
	return b
}

// AddMeeting seeds a meeting with attendee rows for the given member ids.
func (f *FakeBackend) AddMeeting(workspaceID, title, date, bookID string, memberIDs []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addMeetingLocked(workspaceID, title, date, bookID, memberIDs)
}

func (f *FakeBackend) addMeetingLocked(workspaceID, title, date, bookID string, memberIDs []string) string {
	id := uuid.NewString()
	detail := bookcrew.MeetingDetail{
		ID:          id,
		Title:       title,
		MeetingDate: date,
		BookID:      bookID,
	}
	if b, ok := f.bookByIDLocked(workspaceID, bookID); ok {
		detail.BookTitle = b.Title
	}
	for _, memberID := range memberIDs {
		if m, ok := f.memberByIDLocked(workspaceID, memberID); ok {
			detail.Attendees = append(detail.Attendees, bookcrew.Attendee{
				ID:       uuid.NewString(),
				MemberID: m.ID,
				Name:     m.Name,
				Role:     m.Role,
				UserID:   m.UserID,
			})
		}
	}
	f.meetings[id] = &fakeMeeting{detail: detail, workspace: workspaceID, createdAt: time.Now().Format(time.RFC3339Nano)}
	return id
}

// Meeting returns a copy of the stored meeting detail for assertions.
func (f *FakeBackend) Meeting(id string) (bookcrew.MeetingDetail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		return bookcrew.MeetingDetail{}, false
	}
	return m.detail, true
}

// Members returns a copy of the member list for assertions.
func (f *FakeBackend) Members(workspaceID string) []bookcrew.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bookcrew.Member, len(f.members[workspaceID]))
	copy(out, f.members[workspaceID])
	return out
}

/* envelope writers */

func writeOK(w http.ResponseWriter, data any, meta *bookcrew.Meta) {
	w.Header().Set("Content-Type", "application/json")
	env := map[string]any{"success": true}
	if data != nil {
		env["data"] = data
	}
	if meta != nil {
		env["meta"] = meta
	}
	_ = json.NewEncoder(w).Encode(env)
}

func writeErr(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	env := map[string]any{"success": false}
	if message != "" {
		env["message"] = message
	}
	_ = json.NewEncoder(w).Encode(env)
}

/* routing */

func (f *FakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(f.injectFailures)

	r.Post("/users/login", f.login)
	r.Post("/users/signup", f.signup)
	r.Post("/users/check-userid", f.checkUserID)
	r.Get("/users/me", f.me)
	r.Post("/users/logout", f.logout)

	r.Get("/workspaces", f.listWorkspaces)
	r.Post("/workspaces", f.createWorkspace)
	r.Get("/workspaces/search", f.searchWorkspaces)
	r.Post("/workspaces/join", f.joinWorkspace)
	r.Get("/workspaces/{id}", f.getWorkspace)
	r.Patch("/workspaces/{id}", f.updateWorkspace)
	r.Delete("/workspaces/{id}", f.deleteWorkspace)
	r.Patch("/workspaces/{id}/me", f.updateMyProfile)

	r.Post("/members/search", f.searchMembers)
	r.Post("/members", f.createMember)
	r.Post("/members/me", f.myMember)
	r.Patch("/members/role", f.changeRole)
	r.Delete("/members", f.removeMember)

	r.Post("/meetings", f.listMeetings)
	r.Post("/meetings/detail", f.meetingDetail)
	r.Post("/meetings/create", f.createMeeting)
	r.Patch("/meetings/detail", f.updateMeeting)
	r.Put("/meetings/detail/note", f.saveNote)
	r.Post("/meetings/next", f.nextMeeting)
	r.Post("/meetings/latest", f.latestMeetings)

	r.Post("/books", f.listBooks)
	r.Post("/books/create", f.createBook)

	return r
}

func (f *FakeBackend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		spec, ok := f.fail[key]
		if ok {
			delete(f.fail, key)
		}
		f.mu.Unlock()
		if ok {
			writeErr(w, spec.Status, spec.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// caller resolves the bearer token to a user id. Empty means unauthorized.
func (f *FakeBackend) caller(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[strings.TrimPrefix(h, "Bearer ")]
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

/* users */

func (f *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID      string `json:"userId"`
		Password    string `json:"password"`
		IsAutoLogin bool   `json:"isAutoLogin"`
	}
	raw, _ := readAll(r)
	f.mu.Lock()
	f.LastLoginBody = raw
	f.mu.Unlock()
	if err := json.Unmarshal(raw, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[body.UserID]
	if !ok || u.Password != body.Password {
		writeErr(w, http.StatusUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다.")
		return
	}
	token := uuid.NewString()
	f.tokens[token] = body.UserID
	writeOK(w, map[string]any{
		"accessToken": token,
		"user":        bookcrew.User{UserID: body.UserID, Name: u.Name},
	}, nil)
}

func (f *FakeBackend) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string `json:"userId"`
		Password string `json:"password"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[body.UserID]; exists {
		writeErr(w, http.StatusConflict, "이미 사용 중인 아이디입니다.")
		return
	}
	f.users[body.UserID] = fakeUser{Password: body.Password, Name: body.UserID}
	writeOK(w, nil, nil)
}

func (f *FakeBackend) checkUserID(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[body.UserID]; exists {
		writeErr(w, http.StatusConflict, "이미 사용 중인 아이디입니다.")
		return
	}
	writeOK(w, nil, nil)
}

func (f *FakeBackend) me(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	writeOK(w, bookcrew.User{UserID: userID, Name: f.users[userID].Name}, nil)
}

func (f *FakeBackend) logout(w http.ResponseWriter, r *http.Request) {
	h := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	delete(f.tokens, h)
	f.mu.Unlock()
	writeOK(w, nil, nil)
}

/* workspaces */

func (f *FakeBackend) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []bookcrew.Workspace{}
	for wsID, fw := range f.workspaces {
		if m, ok := f.memberOfLocked(wsID, userID); ok {
			ws := fw.ws
			ws.Role = m.Role
			out = append(out, ws)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeOK(w, out, nil)
}

func (f *FakeBackend) createWorkspace(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "")
		return
	}
	var body struct {
		WorkspaceName string `json:"workspaceName"`
		Description   string `json:"description"`
	}
	if err := decode(r, &body); err != nil || body.WorkspaceName == "" {
		writeErr(w, http.StatusBadRequest, "워크스페이스 이름이 필요합니다.")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	ws := bookcrew.Workspace{ID: id, Name: body.WorkspaceName, CreatedAt: f.Today, Role: bookcrew.RoleOwner}
	if body.Description != "" {
		ws.Description = &body.Description
	}
	f.workspaces[id] = &fakeWorkspace{ws: ws}
	f.members[id] = append(f.members[id], bookcrew.Member{
		ID:       uuid.NewString(),
		Name:     f.users[userID].Name,
		Role:     bookcrew.RoleOwner,
		UserID:   userID,
		Handle:   userID,
		JoinDate: f.Today,
	})
	writeOK(w, ws, nil)
}

func (f *FakeBackend) searchWorkspaces(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "")
		return
	}
	q := r.URL.Query().Get("search")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []bookcrew.Workspace{}
	for wsID, fw := range f.workspaces {
		if q != "" && !strings.Contains(fw.ws.Name, q) {
			continue
		}
		ws := fw.ws
		_, joined := f.memberOfLocked(wsID, userID)
		ws.IsJoined = joined
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeOK(w, out, nil)
}

func (f *FakeBackend) joinWorkspace(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "")
		return
	}
	var body struct {
		WorkspaceID       string `json:"workspaceId"`
		WorkspacePassword string `json:"workspacePassword"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fw, ok := f.workspaces[body.WorkspaceID]
	if !ok {
		writeErr(w, http.StatusNotFound, "존재하지 않는 워크스페이스입니다.")
		return
	}
	if _, joined := f.memberOfLocked(body.WorkspaceID, userID); joined {
		writeErr(w, http.StatusConflict, "이미 참여한 워크스페이스입니다.")
		return
	}
	if fw.joinCode != body.WorkspacePassword {
		writeErr(w, http.StatusBadRequest, "참여 코드가 올바르지 않습니다.")
		return
	}
	f.members[body.WorkspaceID] = append(f.members[body.WorkspaceID], bookcrew.Member{
		ID:       uuid.NewString(),
		Name:     f.users[userID].Name,
		Role:     bookcrew.RoleMember,
		UserID:   userID,
		Handle:   userID,
		JoinDate: f.Today,
	})
	writeOK(w, nil, nil)
}

func (f *FakeBackend) getWorkspace(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "")
		return
	}
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	fw, ok := f.workspaces[id]
	if !ok {
		writeErr(w, http.StatusNotFound, "존재하지 않는 워크스페이스입니다.")
		return
	}
	m, joined := f.memberOfLocked(id, userID)
	if !joined {
		writeErr(w, http.StatusForbidden, "권한이 없습니다.")
		return
	}
	ws := fw.ws
	ws.Role = m.Role
	writeOK(w, ws, nil)
}

func (f *FakeBackend) updateWorkspace(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	id := chi.URLParam(r, "id")
	var body struct {
		Name       string `json:"name"`
		CoverImage string `json:"coverImage"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fw, ok := f.workspaces[id]
	if !ok {
		writeErr(w, http.StatusNotFound, "존재하지 않는 워크스페이스입니다.")
		return
	}
	m, joined := f.memberOfLocked(id, userID)
	if !joined || !m.IsAdmin() {
		writeErr(w, http.StatusForbidden, "권한이 없습니다.")
		return
	}
	if body.Name != "" {
		fw.ws.Name = body.Name
	}
	if body.CoverImage != "" {
		cover := body.CoverImage
		fw.ws.CoverImage = &cover
	}
	writeOK(w, nil, nil)
}

func (f *FakeBackend) deleteWorkspace(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workspaces[id]; !ok {
		writeErr(w, http.StatusNotFound, "존재하지 않는 워크스페이스입니다.")
		return
	}
	m, joined := f.memberOfLocked(id, userID)
	if !joined || !m.IsAdmin() {
		writeErr(w, http.StatusForbidden, "권한이 없습니다.")
		return
	}
	delete(f.workspaces, id)
	delete(f.members, id)
	writeOK(w, nil, nil)
}

func (f *FakeBackend) updateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	id := chi.URLParam(r, "id")
	var body struct {
		Name string `json:"name"`
	}
	if err := decode(r, &body); err != nil || body.Name == "" {
		writeErr(w, http.StatusBadRequest, "이름이 필요합니다.")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.members[id]
	for i := range list {
		if list[i].UserID == userID {
			list[i].Name = body.Name
			writeOK(w, nil, nil)
			return
		}
	}
	writeErr(w, http.StatusForbidden, "권한이 없습니다.")
}

/* members */

func (f *FakeBackend) searchMembers(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string `json:"workspaceId"`
		Keyword     string `json:"keyword"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []bookcrew.Member{}
	for _, m := range f.members[body.WorkspaceID] {
		if body.Keyword == "" ||
			strings.Contains(m.Name, body.Keyword) ||
			strings.Contains(m.Handle, body.Keyword) {
			out = append(out, m)
		}
	}
	writeOK(w, out, nil)
}

func (f *FakeBackend) createMember(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string `json:"workspaceId"`
		UserID      string `json:"userId"`
		Name        string `json:"name"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m := bookcrew.Member{
		ID:       uuid.NewString(),
		Name:     body.Name,
		Role:     bookcrew.RoleMember,
		UserID:   body.UserID,
		Handle:   body.UserID,
		JoinDate: f.Today,
	}
	f.members[body.WorkspaceID] = append(f.members[body.WorkspaceID], m)
	writeOK(w, m, nil)
}

func (f *FakeBackend) myMember(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "")
		return
	}
	var body struct {
		WorkspaceID string `json:"workspaceId"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workspaces[body.WorkspaceID]; !ok {
		writeErr(w, http.StatusNotFound, "존재하지 않는 워크스페이스입니다.")
		return
	}
	if m, ok := f.memberOfLocked(body.WorkspaceID, userID); ok {
		writeOK(w, m, nil)
		return
	}
	writeErr(w, http.StatusForbidden, "워크스페이스에 접근할 권한이 없습니다.")
}

func (f *FakeBackend) changeRole(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	var body struct {
		WorkspaceID string `json:"workspaceId"`
		MemberID    string `json:"memberId"`
		Role        string `json:"role"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, ok := f.memberOfLocked(body.WorkspaceID, userID)
	if !ok || !caller.IsAdmin() || caller.ID == body.MemberID {
		writeErr(w, http.StatusForbidden, "권한이 없습니다.")
		return
	}
	list := f.members[body.WorkspaceID]
	for i := range list {
		if list[i].ID == body.MemberID {
			list[i].Role = body.Role
			writeOK(w, nil, nil)
			return
		}
	}
	writeErr(w, http.StatusNotFound, "존재하지 않는 멤버입니다.")
}

func (f *FakeBackend) removeMember(w http.ResponseWriter, r *http.Request) {
	userID := f.caller(r)
	var body struct {
		WorkspaceID string `json:"workspaceId"`
		MemberID    string `json:"memberId"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, ok := f.memberOfLocked(body.WorkspaceID, userID)
	if !ok || !caller.IsAdmin() || caller.ID == body.MemberID {
		writeErr(w, http.StatusForbidden, "권한이 없습니다.")
		return
	}
	list := f.members[body.WorkspaceID]
	for i := range list {
		if list[i].ID == body.MemberID {
			f.members[body.WorkspaceID] = append(list[:i:i], list[i+1:]...)
			writeOK(w, nil, nil)
			return
		}
	}
	writeErr(w, http.StatusNotFound, "존재하지 않는 멤버입니다.")
}

/* meetings */

func (f *FakeBackend) listMeetings(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	var body struct {
		WorkspaceID string `json:"workspaceId"`
		Keyword     string `json:"keyword"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := []bookcrew.MeetingSummary{}
	for _, m := range f.meetings {
		if m.workspace != body.WorkspaceID {
			continue
		}
		if body.Keyword != "" && !strings.Contains(m.detail.Title, body.Keyword) {
			continue
		}
		if body.StartDate != "" && m.detail.MeetingDate < body.StartDate {
			continue
		}
		if body.EndDate != "" && m.detail.MeetingDate > body.EndDate {
			continue
		}
		matched = append(matched, summaryOf(m))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].MeetingDate > matched[j].MeetingDate })

	total := len(matched)
	totalPage := (total + FakePageSize - 1) / FakePageSize
	if totalPage < 1 {
		totalPage = 1
	}
	start := (page - 1) * FakePageSize
	if start > total {
		start = total
	}
	end := start + FakePageSize
	if end > total {
		end = total
	}
	writeOK(w, matched[start:end], &bookcrew.Meta{TotalPage: totalPage, TotalCount: total})
}

func summaryOf(m *fakeMeeting) bookcrew.MeetingSummary {
	s := bookcrew.MeetingSummary{
		ID:            m.detail.ID,
		Title:         m.detail.Title,
		MeetingDate:   m.detail.MeetingDate,
		AttendeeCount: len(m.detail.Attendees),
		CreatedAt:     m.createdAt,
	}
	if m.detail.BookTitle != "" {
		title := m.detail.BookTitle
		s.BookTitle = &title
	}
	return s
}

func (f *FakeBackend) meetingDetail(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		writeErr(w, http.StatusNotFound, "존재하지 않는 모임입니다.")
		return
	}
	writeOK(w, m.detail, nil)
}

func (f *FakeBackend) createMeeting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string   `json:"workspaceId"`
		Title       string   `json:"title"`
		MeetingDate string   `json:"meetingDate"`
		BookID      string   `json:"bookId"`
		Attendees   []string `json:"attendees"`
	}
	if err := decode(r, &body); err != nil || body.Title == "" {
		writeErr(w, http.StatusBadRequest, "제목이 필요합니다.")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.addMeetingLocked(body.WorkspaceID, body.Title, body.MeetingDate, body.BookID, body.Attendees)
	writeOK(w, summaryOf(f.meetings[id]), nil)
}

func (f *FakeBackend) updateMeeting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string   `json:"workspaceId"`
		MeetingID   string   `json:"meetingId"`
		Title       string   `json:"title"`
		MeetingDate string   `json:"meetingDate"`
		BookID      string   `json:"bookId"`
		Attendees   []string `json:"attendees"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[body.MeetingID]
	if !ok {
		writeErr(w, http.StatusNotFound, "존재하지 않는 모임입니다.")
		return
	}
	m.detail.Title = body.Title
	m.detail.MeetingDate = body.MeetingDate
	m.detail.BookID = body.BookID
	m.detail.BookTitle = ""
	if b, found := f.bookByIDLocked(m.workspace, body.BookID); found {
		m.detail.BookTitle = b.Title
	}

	// Replace the attendee set wholesale, keeping rows (and their notes)
	// for member ids that remain.
	existing := map[string]bookcrew.Attendee{}
	for _, a := range m.detail.Attendees {
		existing[a.MemberID] = a
	}
	var next []bookcrew.Attendee
	for _, memberID := range body.Attendees {
		if a, kept := existing[memberID]; kept {
			next = append(next, a)
			continue
		}
		if mem, found := f.memberByIDLocked(m.workspace, memberID); found {
			next = append(next, bookcrew.Attendee{
				ID:       uuid.NewString(),
				MemberID: mem.ID,
				Name:     mem.Name,
				Role:     mem.Role,
				UserID:   mem.UserID,
			})
		}
	}
	m.detail.Attendees = next
	writeOK(w, nil, nil)
}

func (f *FakeBackend) saveNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string `json:"workspaceId"`
		MeetingID   string `json:"meetingId"`
		AttendeeID  string `json:"attendeeId"`
		Note        string `json:"note"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[body.MeetingID]
	if !ok {
		writeErr(w, http.StatusNotFound, "존재하지 않는 모임입니다.")
		return
	}
	for i := range m.detail.Attendees {
		if m.detail.Attendees[i].ID == body.AttendeeID {
			note := body.Note
			m.detail.Attendees[i].Note = &note
			writeOK(w, nil, nil)
			return
		}
	}
	writeErr(w, http.StatusNotFound, "존재하지 않는 참석자입니다.")
}

func (f *FakeBackend) nextMeeting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string `json:"workspaceId"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var next *fakeMeeting
	for _, m := range f.meetings {
		if m.workspace != body.WorkspaceID || m.detail.MeetingDate < f.Today {
			continue
		}
		if next == nil || m.detail.MeetingDate < next.detail.MeetingDate {
			next = m
		}
	}
	if next == nil {
		writeErr(w, http.StatusNotFound, "예정된 모임이 없습니다.")
		return
	}
	writeOK(w, summaryOf(next), nil)
}

func (f *FakeBackend) latestMeetings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string `json:"workspaceId"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []bookcrew.MeetingSummary{}
	for _, m := range f.meetings {
		if m.workspace == body.WorkspaceID {
			out = append(out, summaryOf(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeetingDate > out[j].MeetingDate })
	if len(out) > 3 {
		out = out[:3]
	}
	writeOK(w, out, nil)
}

/* books */

func (f *FakeBackend) listBooks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string `json:"workspaceId"`
		Limit       int    `json:"limit"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.books[body.WorkspaceID]
	if body.Limit > 0 && len(out) > body.Limit {
		out = out[:body.Limit]
	}
	if out == nil {
		out = []bookcrew.Book{}
	}
	writeOK(w, out, nil)
}

func (f *FakeBackend) createBook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID string `json:"workspaceId"`
		Title       string `json:"title"`
	}
	if err := decode(r, &body); err != nil || body.Title == "" {
		writeErr(w, http.StatusBadRequest, "책 제목이 필요합니다.")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := bookcrew.Book{ID: uuid.NewString(), Title: body.Title, CreatedAt: f.Today}
	f.books[body.WorkspaceID] = append([]bookcrew.Book{b}, f.books[body.WorkspaceID]...)
	writeOK(w, b, nil)
}

/* lookups */

func (f *FakeBackend) memberOfLocked(workspaceID, userID string) (bookcrew.Member, bool) {
	for _, m := range f.members[workspaceID] {
		if m.UserID == userID {
			return m, true
		}
	}
	return bookcrew.Member{}, false
}

func (f *FakeBackend) memberByIDLocked(workspaceID, memberID string) (bookcrew.Member, bool) {
	for _, m := range f.members[workspaceID] {
		if m.ID == memberID {
			return m, true
		}
	}
	return bookcrew.Member{}, false
}

func (f *FakeBackend) bookByIDLocked(workspaceID, bookID string) (bookcrew.Book, bool) {
	for _, b := range f.books[workspaceID] {
		if b.ID == bookID {
			return b, true
		}
	}
	return bookcrew.Book{}, false
}

func readAll(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
