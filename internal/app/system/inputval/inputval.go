// Package inputval validates user-entered form values before any network
// call is made. Messages are the Korean strings the pages show as toasts or
// inline errors; the backend remains the authority and its own messages win
// on submit.
package inputval

import (
	"regexp"
	"strings"
)

// Login handles are lowercase letters and digits only, at least 3 chars.
var handleRe = regexp.MustCompile(`^[a-z0-9]+$`)

const (
	MinHandleLen        = 3
	MinPasswordLen      = 6
	MinWorkspaceNameLen = 2
)

// ValidateUserID checks a login handle. Returns "" when valid, otherwise
// the message to show.
func ValidateUserID(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "아이디를 입력해주세요."
	}
	if len(userID) < MinHandleLen {
		return "아이디는 3자 이상이어야 합니다."
	}
	if !handleRe.MatchString(userID) {
		return "아이디는 영문 소문자와 숫자만 사용할 수 있습니다."
	}
	return ""
}

// ValidatePassword checks a password. Returns "" when valid.
func ValidatePassword(password string) string {
	if password == "" {
		return "비밀번호를 입력해주세요."
	}
	if len(password) < MinPasswordLen {
		return "비밀번호는 6자 이상이어야 합니다."
	}
	return ""
}

// ValidateWorkspaceName checks a club name. Returns "" when valid.
func ValidateWorkspaceName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "워크스페이스 이름을 입력해주세요."
	}
	if len([]rune(name)) < MinWorkspaceNameLen {
		return "워크스페이스 이름은 2자 이상이어야 합니다."
	}
	return ""
}

// ValidateDisplayName checks a workspace-scoped member display name.
func ValidateDisplayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "이름을 입력해주세요."
	}
	return ""
}
