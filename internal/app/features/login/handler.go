// internal/app/features/login/handler.go
package login

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
	API        bookcrew.API
	SessionMgr *auth.SessionManager
	Flash      *flash.Flash
	Log        *zap.Logger
}

func NewHandler(api bookcrew.API, sessionMgr *auth.SessionManager, fl *flash.Flash, logger *zap.Logger) *Handler {
	return &Handler{API: api, SessionMgr: sessionMgr, Flash: fl, Log: logger}
}

type loginFormData struct {
	viewdata.BaseVM
	Error       string
	UserID      string
	IsAutoLogin bool
	ReturnURL   string
}

type loginSuccessData struct {
	viewdata.BaseVM
	RedirectURL string
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in: skip the form.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/workspaces", http.StatusSeeOther)
		return
	}
	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(w, r, h.Flash, "로그인", "/login"),
		ReturnURL: safeReturn(r.URL.Query().Get("return")),
	}
	templates.Render(w, r, "login_page", data)
}

// HandleLoginPost handles POST /login. Client-side constraint failures
// re-render the form without touching the network; backend failures show
// the server's own message when it sent one.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	userID := strings.TrimSpace(r.PostFormValue("userid"))
	password := r.PostFormValue("password")
	autoLogin := r.PostFormValue("auto_login") == "on"
	returnURL := safeReturn(r.PostFormValue("return"))

	data := loginFormData{
		BaseVM:      viewdata.NewBaseVM(w, r, h.Flash, "로그인", "/login"),
		UserID:      userID,
		IsAutoLogin: autoLogin,
		ReturnURL:   returnURL,
	}

	if msg := inputval.ValidateUserID(userID); msg != "" {
		data.Error = msg
		templates.Render(w, r, "login_page", data)
		return
	}
	if password == "" {
		data.Error = "비밀번호를 입력해주세요."
		templates.Render(w, r, "login_page", data)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	res, err := h.API.Login(ctx, bookcrew.LoginRequest{
		UserID:      userID,
		Password:    password,
		IsAutoLogin: autoLogin,
	})
	if err != nil {
		data.Error = loginErrorText(err)
		templates.Render(w, r, "login_page", data)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, res.AccessToken, res.User, autoLogin); err != nil {
		h.Log.Error("login: save session", zap.Error(err))
		data.Error = "로그인에 실패했습니다. 다시 시도해주세요."
		templates.Render(w, r, "login_page", data)
		return
	}

	// Success state: toast plus a short meta refresh to the workspace list
	// (or the return URL the guard preserved).
	dest := "/workspaces"
	if returnURL != "" {
		dest = returnURL
	}
	templates.Render(w, r, "login_success", loginSuccessData{
		BaseVM:      viewdata.NewBaseVM(w, r, h.Flash, "로그인", "/login"),
		RedirectURL: dest,
	})
}

func loginErrorText(err error) string {
	if bookcrew.IsUnreachable(err) {
		return "네트워크 연결을 확인해주세요."
	}
	return bookcrew.Message(err, "로그인에 실패했습니다. 다시 시도해주세요.")
}

// safeReturn allows only same-origin paths as a post-login destination.
func safeReturn(v string) string {
	if v == "" || v[0] != '/' || strings.HasPrefix(v, "//") {
		return ""
	}
	return v
}
