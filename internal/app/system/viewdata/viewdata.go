// Package viewdata holds the BaseVM every page view model embeds.
package viewdata

import (
	"net/http"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/app/system/membership"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	// User context (from auth middleware)
	IsLoggedIn bool
	UserID     string
	UserName   string

	// Workspace context (from membership middleware; empty outside a
	// workspace)
	WorkspaceID string
	MemberName  string
	Role        string
	IsAdmin     bool

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// One-shot toast messages popped from the session
	Toasts []flash.Toast
}

// NewBaseVM builds a populated BaseVM for a page render. Popping the flash
// queue writes the session cookie, so call it before the body is written.
func NewBaseVM(w http.ResponseWriter, r *http.Request, toasts *flash.Flash, title, backDefault string) BaseVM {
	vm := BaseVM{
		Title:       title,
		BackURL:     backDefault,
		CurrentPath: r.URL.Path,
	}
	if ret := r.URL.Query().Get("return"); ret != "" && ret[0] == '/' {
		vm.BackURL = ret
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserID = u.UserID
		vm.UserName = u.Name
	}

	if info := membership.FromRequest(r); info != nil {
		vm.WorkspaceID = info.WorkspaceID
		if info.Member != nil {
			vm.MemberName = info.Member.Name
			vm.Role = info.Member.Role
			vm.IsAdmin = info.Member.IsAdmin()
		}
	}

	if toasts != nil {
		vm.Toasts = toasts.Pop(w, r)
	}
	return vm
}
