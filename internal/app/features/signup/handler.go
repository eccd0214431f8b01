// internal/app/features/signup/handler.go
package signup

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/app/system/inputval"
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

type signupFormData struct {
	viewdata.BaseVM
	Error   string
	UserID  string
	Checked bool // handle availability verified this render
}

type checkResultData struct {
	UserID    string
	Available bool
	Message   string
}

// ServeSignup handles GET /signup.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	data := signupFormData{
		BaseVM: viewdata.NewBaseVM(w, r, h.Flash, "회원가입", "/login"),
	}
	templates.Render(w, r, "signup_page", data)
}

// HandleCheckUserID handles POST /signup/check-userid (HTMX partial).
// Renders the availability badge next to the handle field.
func (h *Handler) HandleCheckUserID(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	userID := strings.TrimSpace(r.PostFormValue("userid"))

	data := checkResultData{UserID: userID}
	if msg := inputval.ValidateUserID(userID); msg != "" {
		data.Message = msg
		templates.Render(w, r, "signup_check_result", data)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.API.CheckUserID(ctx, userID); err != nil {
		if bookcrew.IsUnreachable(err) {
			data.Message = "네트워크 연결을 확인해주세요."
		} else {
			data.Message = bookcrew.Message(err, "이미 사용 중인 아이디입니다.")
		}
		templates.Render(w, r, "signup_check_result", data)
		return
	}

	data.Available = true
	data.Message = "사용 가능한 아이디입니다."
	templates.Render(w, r, "signup_check_result", data)
}

// HandleSignupPost handles POST /signup. Submission requires a handle the
// user has verified with the 중복확인 button (checked form flag).
func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	userID := strings.TrimSpace(r.PostFormValue("userid"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("password_confirm")
	checked := r.PostFormValue("userid_checked") == userID && userID != ""

	data := signupFormData{
		BaseVM:  viewdata.NewBaseVM(w, r, h.Flash, "회원가입", "/login"),
		UserID:  userID,
		Checked: checked,
	}

	switch {
	case inputval.ValidateUserID(userID) != "":
		data.Error = inputval.ValidateUserID(userID)
	case !checked:
		data.Error = "아이디 중복확인을 해주세요."
	case inputval.ValidatePassword(password) != "":
		data.Error = inputval.ValidatePassword(password)
	case password != confirm:
		data.Error = "비밀번호가 일치하지 않습니다."
	}
	if data.Error != "" {
		templates.Render(w, r, "signup_page", data)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.API.Signup(ctx, bookcrew.SignupRequest{UserID: userID, Password: password}); err != nil {
		if bookcrew.IsUnreachable(err) {
			data.Error = "네트워크 연결을 확인해주세요."
		} else {
			data.Error = bookcrew.Message(err, "회원가입에 실패했습니다. 다시 시도해주세요.")
		}
		templates.Render(w, r, "signup_page", data)
		return
	}

	templates.Render(w, r, "signup_success", viewdata.NewBaseVM(w, r, h.Flash, "회원가입", "/login"))
}
