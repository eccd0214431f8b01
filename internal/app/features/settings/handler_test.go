package settings_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/features/settings"
	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
	"github.com/bookcrew/bookcrew/internal/testutil"
)

type fixture struct {
	handler *settings.Handler
	backend *testutil.FakeBackend
	toasts  *flash.Flash

	wsID          string
	aliceToken    string
	aliceMemberID string
	bobToken      string
	bobMemberID   string
}

// newFixture seeds a workspace with alice (ADMIN) and bob (MEMBER).
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
		handler: settings.NewHandler(api, fl, zap.NewNop()),
		backend: backend,
		toasts:  fl,
	}
	f.aliceToken = backend.AddUser("alice", "secret1", "앨리스")
	f.bobToken = backend.AddUser("bob", "secret1", "밥")
	f.wsID = backend.AddWorkspace("주말 독서모임", "code1")
	f.aliceMemberID = backend.AddMember(f.wsID, "alice", "앨리스", bookcrew.RoleAdmin)
	f.bobMemberID = backend.AddMember(f.wsID, "bob", "밥", bookcrew.RoleMember)
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

func (f *fixture) asBob(r *http.Request) *http.Request {
	r = testutil.SignedIn(r, "bob", "밥", f.bobToken)
	return testutil.WithMembership(r, f.wsID, &bookcrew.Member{
		ID:     f.bobMemberID,
		Name:   "밥",
		Role:   bookcrew.RoleMember,
		UserID: "bob",
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

func (f *fixture) memberName(t *testing.T, memberID string) string {
	t.Helper()
	for _, m := range f.backend.Members(f.wsID) {
		if m.ID == memberID {
			return m.Name
		}
	}
	t.Fatalf("member %s not found", memberID)
	return ""
}

func TestServePage_RendersWorkspace(t *testing.T) {
	f := newFixture(t)

	req := f.asAlice(httptest.NewRequest("GET", "/workspace/"+f.wsID+"/settings", nil))
	rec := httptest.NewRecorder()
	f.handler.ServePage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "주말 독서모임") {
		t.Error("expected the workspace name in the settings form")
	}
}

func TestHandleProfile_UpdatesDisplayName(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"name": {"새이름"}}
	req := f.asBob(testutil.NewFormRequest("/workspace/"+f.wsID+"/settings/profile", form))
	rec := httptest.NewRecorder()
	f.handler.HandleProfile(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := f.memberName(t, f.bobMemberID); got != "새이름" {
		t.Errorf("display name = %q, want 새이름", got)
	}
	toasts := f.popToasts(t, rec)
	if len(toasts) != 1 || toasts[0].Text != "프로필이 변경되었습니다." {
		t.Errorf("toasts = %+v, want the profile confirmation", toasts)
	}
}

func TestHandleProfile_EmptyNameRejectedLocally(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"name": {"   "}}
	req := f.asBob(testutil.NewFormRequest("/workspace/"+f.wsID+"/settings/profile", form))
	rec := httptest.NewRecorder()
	f.handler.HandleProfile(rec, req)

	if got := f.memberName(t, f.bobMemberID); got != "밥" {
		t.Errorf("display name = %q, want unchanged 밥", got)
	}
	toasts := f.popToasts(t, rec)
	if len(toasts) != 1 || toasts[0].Text != "이름을 입력해주세요." {
		t.Errorf("toasts = %+v, want the empty-name message", toasts)
	}
}

func TestHandleWorkspace_AdminRenames(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"name": {"평일 독서모임"}}
	req := f.asAlice(testutil.NewFormRequest("/workspace/"+f.wsID+"/settings/workspace", form))
	rec := httptest.NewRecorder()
	f.handler.HandleWorkspace(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	toasts := f.popToasts(t, rec)
	if len(toasts) != 1 || toasts[0].Text != "워크스페이스 설정이 변경되었습니다." {
		t.Errorf("toasts = %+v, want the settings confirmation", toasts)
	}

	// The rename is visible on the next settings render.
	rec2 := httptest.NewRecorder()
	f.handler.ServePage(rec2, f.asAlice(httptest.NewRequest("GET", "/workspace/"+f.wsID+"/settings", nil)))
	if !strings.Contains(rec2.Body.String(), "평일 독서모임") {
		t.Error("expected the new workspace name")
	}
}

func TestHandleWorkspace_NonAdminShowsServerMessage(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"name": {"평일 독서모임"}}
	req := f.asBob(testutil.NewFormRequest("/workspace/"+f.wsID+"/settings/workspace", form))
	rec := httptest.NewRecorder()
	f.handler.HandleWorkspace(rec, req)

	toasts := f.popToasts(t, rec)
	if len(toasts) != 1 || toasts[0].Text != "권한이 없습니다." {
		t.Errorf("toasts = %+v, want the backend message verbatim", toasts)
	}
}

func TestHandleDelete_AdminDeletes(t *testing.T) {
	f := newFixture(t)

	req := f.asAlice(httptest.NewRequest("POST", "/workspace/"+f.wsID+"/settings/delete", nil))
	rec := httptest.NewRecorder()
	f.handler.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/workspaces" {
		t.Errorf("Location = %q, want /workspaces", loc)
	}
	toasts := f.popToasts(t, rec)
	if len(toasts) != 1 || toasts[0].Text != "워크스페이스가 삭제되었습니다." {
		t.Errorf("toasts = %+v, want the delete confirmation", toasts)
	}
	if got := len(f.backend.Members(f.wsID)); got != 0 {
		t.Errorf("members after delete = %d, want 0", got)
	}
}

func TestHandleDelete_NonAdminShowsServerMessage(t *testing.T) {
	f := newFixture(t)

	req := f.asBob(httptest.NewRequest("POST", "/workspace/"+f.wsID+"/settings/delete", nil))
	rec := httptest.NewRecorder()
	f.handler.HandleDelete(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/workspace/"+f.wsID+"/settings" {
		t.Errorf("Location = %q, want back to settings", loc)
	}
	toasts := f.popToasts(t, rec)
	if len(toasts) != 1 || toasts[0].Text != "권한이 없습니다." {
		t.Errorf("toasts = %+v, want the backend message verbatim", toasts)
	}
	if got := len(f.backend.Members(f.wsID)); got != 2 {
		t.Errorf("members after rejected delete = %d, want 2", got)
	}
}
