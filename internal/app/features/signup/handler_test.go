package signup_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/features/signup"
	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
	"github.com/bookcrew/bookcrew/internal/testutil"
)

func newTestHandler(t *testing.T) (*signup.Handler, *testutil.FakeBackend, *bookcrew.Client) {
	t.Helper()
	testutil.BootTemplates(t)

	backend := testutil.NewFakeBackend(t)
	api := bookcrew.New(backend.URL(), zap.NewNop())

	store, err := auth.NewCookieStore("test-session-key-for-testing-only!!", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCookieStore failed: %v", err)
	}
	fl := flash.New(store, "test-session", zap.NewNop())

	return signup.NewHandler(api, fl, zap.NewNop()), backend, api
}

func TestHandleCheckUserID_Available(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := testutil.AsHTMX(testutil.NewFormRequest("/signup/check-userid", url.Values{"userid": {"reader1"}}))
	handler.HandleCheckUserID(rec, req)

	if !strings.Contains(rec.Body.String(), "사용 가능한 아이디입니다.") {
		t.Error("expected the availability message")
	}
}

func TestHandleCheckUserID_Taken(t *testing.T) {
	handler, backend, _ := newTestHandler(t)
	backend.AddUser("reader1", "secret1", "독서가")

	rec := httptest.NewRecorder()
	req := testutil.AsHTMX(testutil.NewFormRequest("/signup/check-userid", url.Values{"userid": {"reader1"}}))
	handler.HandleCheckUserID(rec, req)

	if !strings.Contains(rec.Body.String(), "이미 사용 중인 아이디입니다.") {
		t.Error("expected the backend conflict message verbatim")
	}
}

func TestHandleCheckUserID_LocalValidationFirst(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := testutil.AsHTMX(testutil.NewFormRequest("/signup/check-userid", url.Values{"userid": {"Reader1"}}))
	handler.HandleCheckUserID(rec, req)

	if !strings.Contains(rec.Body.String(), "아이디는 영문 소문자와 숫자만 사용할 수 있습니다.") {
		t.Error("expected the local format message")
	}
	if strings.Contains(rec.Body.String(), "사용 가능한 아이디입니다.") {
		t.Error("invalid handle must not be reported available")
	}
}

func TestHandleSignupPost_RequiresCheckedHandle(t *testing.T) {
	handler, _, api := newTestHandler(t)

	form := url.Values{
		"userid":           {"reader1"},
		"password":         {"secret1"},
		"password_confirm": {"secret1"},
		// userid_checked missing: the user never ran the availability check
	}
	rec := httptest.NewRecorder()
	handler.HandleSignupPost(rec, testutil.NewFormRequest("/signup", form))

	if !strings.Contains(rec.Body.String(), "아이디 중복확인을 해주세요.") {
		t.Error("expected the check-first message")
	}

	// No account must have been created.
	_, err := api.Login(context.Background(), bookcrew.LoginRequest{UserID: "reader1", Password: "secret1"})
	if err == nil {
		t.Error("signup must not have reached the backend")
	}
}

func TestHandleSignupPost_StaleCheckRejected(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	// The hidden field holds the handle that was checked, which no longer
	// matches the submitted one.
	form := url.Values{
		"userid":           {"reader2"},
		"userid_checked":   {"reader1"},
		"password":         {"secret1"},
		"password_confirm": {"secret1"},
	}
	rec := httptest.NewRecorder()
	handler.HandleSignupPost(rec, testutil.NewFormRequest("/signup", form))

	if !strings.Contains(rec.Body.String(), "아이디 중복확인을 해주세요.") {
		t.Error("expected the check-first message for an edited handle")
	}
}

func TestHandleSignupPost_PasswordRules(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantMsg  string
	}{
		{name: "too short", password: "12345", confirm: "12345", wantMsg: "비밀번호는 6자 이상이어야 합니다."},
		{name: "mismatch", password: "secret1", confirm: "secret2", wantMsg: "비밀번호가 일치하지 않습니다."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, _ := newTestHandler(t)

			form := url.Values{
				"userid":           {"reader1"},
				"userid_checked":   {"reader1"},
				"password":         {tt.password},
				"password_confirm": {tt.confirm},
			}
			rec := httptest.NewRecorder()
			handler.HandleSignupPost(rec, testutil.NewFormRequest("/signup", form))

			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("expected %q in response", tt.wantMsg)
			}
		})
	}
}

func TestHandleSignupPost_Success(t *testing.T) {
	handler, _, api := newTestHandler(t)

	form := url.Values{
		"userid":           {"reader1"},
		"userid_checked":   {"reader1"},
		"password":         {"secret1"},
		"password_confirm": {"secret1"},
	}
	rec := httptest.NewRecorder()
	handler.HandleSignupPost(rec, testutil.NewFormRequest("/signup", form))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "회원가입") {
		t.Error("expected the success page")
	}

	// The new account can log in.
	res, err := api.Login(context.Background(), bookcrew.LoginRequest{UserID: "reader1", Password: "secret1"})
	if err != nil {
		t.Fatalf("login after signup failed: %v", err)
	}
	if res.AccessToken == "" {
		t.Error("expected a token for the new account")
	}
}

func TestHandleSignupPost_DuplicateShowsServerMessage(t *testing.T) {
	handler, backend, _ := newTestHandler(t)
	backend.AddUser("reader1", "secret1", "독서가")

	form := url.Values{
		"userid":           {"reader1"},
		"userid_checked":   {"reader1"},
		"password":         {"secret1"},
		"password_confirm": {"secret1"},
	}
	rec := httptest.NewRecorder()
	handler.HandleSignupPost(rec, testutil.NewFormRequest("/signup", form))

	if !strings.Contains(rec.Body.String(), "이미 사용 중인 아이디입니다.") {
		t.Error("expected the backend conflict message verbatim")
	}
}
