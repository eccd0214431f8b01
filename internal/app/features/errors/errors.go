// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	UserName   string
	Message    string
	BackURL    string
}

// Handler renders the error pages. No backend access needed.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	name, signedIn := userName(r)
	templates.Render(w, r, "error_page", pageData{
		Title:      "접근 권한 없음",
		IsLoggedIn: signedIn,
		UserName:   name,
		Message:    "이 페이지를 볼 수 있는 권한이 없습니다.",
		BackURL:    "/workspaces",
	})
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	name, signedIn := userName(r)
	templates.Render(w, r, "error_page", pageData{
		Title:      "로그인 필요",
		IsLoggedIn: signedIn,
		UserName:   name,
		Message:    "계속하려면 로그인해주세요.",
		BackURL:    "/login",
	})
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	name, signedIn := userName(r)
	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_page", pageData{
		Title:      "페이지를 찾을 수 없음",
		IsLoggedIn: signedIn,
		UserName:   name,
		Message:    "요청하신 페이지가 존재하지 않습니다.",
		BackURL:    "/workspaces",
	})
}

func userName(r *http.Request) (string, bool) {
	if u, ok := auth.CurrentUser(r); ok {
		return u.Name, true
	}
	return "", false
}
