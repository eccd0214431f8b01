package bookcrew_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *bookcrew.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return bookcrew.New(srv.URL, zap.NewNop())
}

func TestMe_DecodesEnvelopeData(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Errorf("path = %q, want /users/me", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"userId":"reader1","name":"독서가"}}`))
	})

	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if user.UserID != "reader1" {
		t.Errorf("UserID = %q, want %q", user.UserID, "reader1")
	}
	if user.Name != "독서가" {
		t.Errorf("Name = %q, want %q", user.Name, "독서가")
	}
}

func TestWithToken_SendsBearerHeader(t *testing.T) {
	var gotAuth string
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	ctx := bookcrew.WithToken(context.Background(), "token-abc")
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer token-abc")
	}
}

func TestWithoutToken_NoAuthorizationHeader(t *testing.T) {
	var gotAuth string
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestSuccessFalseOver200_IsAPIError(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// HTTP 200 but application-level failure.
		_, _ = w.Write([]byte(`{"success":false,"message":"이미 사용 중인 아이디입니다."}`))
	})

	err := client.CheckUserID(context.Background(), "reader1")
	if err == nil {
		t.Fatal("expected error for success:false response")
	}
	if got := bookcrew.Message(err, "fallback"); got != "이미 사용 중인 아이디입니다." {
		t.Errorf("Message = %q, want the server text verbatim", got)
	}
	if bookcrew.IsUnreachable(err) {
		t.Error("application failure must not look like a network failure")
	}
}

func TestErrorStatus_MappedByHelpers(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "forbidden", status: http.StatusForbidden, check: bookcrew.IsForbidden},
		{name: "not found", status: http.StatusNotFound, check: bookcrew.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"success":false,"message":"권한이 없습니다."}`))
			})

			err := client.Logout(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("status %d not recognized by helper", tt.status)
			}
			if bookcrew.StatusOf(err) != tt.status {
				t.Errorf("StatusOf = %d, want %d", bookcrew.StatusOf(err), tt.status)
			}
		})
	}
}

func TestUnreachableBackend_WrapsErrUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	client := bookcrew.New(srv.URL, zap.NewNop())
	err := client.Logout(context.Background())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !bookcrew.IsUnreachable(err) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
	if bookcrew.StatusOf(err) != 0 {
		t.Errorf("StatusOf = %d, want 0 for network failure", bookcrew.StatusOf(err))
	}
}

func TestNonEnvelopeBody_IsAPIError(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	})

	err := client.Logout(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if bookcrew.StatusOf(err) != http.StatusBadGateway {
		t.Errorf("StatusOf = %d, want 502", bookcrew.StatusOf(err))
	}
}

func TestLogin_SendsExactWireShape(t *testing.T) {
	var body map[string]any
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"accessToken":"tok","user":{"userId":"reader1","name":"독서가"}}}`))
	})

	res, err := client.Login(context.Background(), bookcrew.LoginRequest{
		UserID:      "reader1",
		Password:    "secret1",
		IsAutoLogin: true,
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if body["userId"] != "reader1" || body["password"] != "secret1" || body["isAutoLogin"] != true {
		t.Errorf("request body = %v, want userId/password/isAutoLogin keys", body)
	}
	if _, extra := body["username"]; extra {
		t.Error("unexpected key in login body")
	}
	if res.AccessToken != "tok" {
		t.Errorf("AccessToken = %q, want %q", res.AccessToken, "tok")
	}
	if res.User.UserID != "reader1" {
		t.Errorf("User.UserID = %q, want %q", res.User.UserID, "reader1")
	}
}

func TestMeetings_ReadsPaginationMeta(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page query = %q, want 2", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"m1","title":"사피엔스 1부","meetingDate":"2026-09-01"}],"meta":{"totalPage":4,"totalCount":38}}`))
	})

	page, err := client.Meetings(context.Background(), 2, bookcrew.MeetingFilter{WorkspaceID: "ws1"})
	if err != nil {
		t.Fatalf("Meetings failed: %v", err)
	}
	if page.TotalPage != 4 || page.TotalCount != 38 {
		t.Errorf("meta = %d/%d, want 4/38", page.TotalPage, page.TotalCount)
	}
	if len(page.Meetings) != 1 || page.Meetings[0].Title != "사피엔스 1부" {
		t.Errorf("Meetings = %+v, want the decoded row", page.Meetings)
	}
}

func TestMeetings_MissingMetaDefaultsToOnePage(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	})

	page, err := client.Meetings(context.Background(), 1, bookcrew.MeetingFilter{WorkspaceID: "ws1"})
	if err != nil {
		t.Fatalf("Meetings failed: %v", err)
	}
	if page.TotalPage != 1 {
		t.Errorf("TotalPage = %d, want 1 when meta is absent", page.TotalPage)
	}
}
