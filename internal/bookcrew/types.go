package bookcrew

// User is the account identity resolved by GET /users/me.
type User struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Workspace is a reading-club tenant. Role and IsJoined are present only on
// responses scoped to the caller (joined list, search results).
type Workspace struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	CreatedAt   string  `json:"createdAt"`
	Role        string  `json:"role,omitempty"`
	IsJoined    bool    `json:"isJoined,omitempty"`
}

// Workspace roles as the backend reports them.
const (
	RoleAdmin  = "ADMIN"
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// Member is the join record between a user account and a workspace.
// Name is the workspace-scoped display name and may differ from the
// account name; UserID is the back-reference to the account.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	UserID   string `json:"userId"`
	Handle   string `json:"username,omitempty"`
	JoinDate string `json:"joinDate,omitempty"`
}

// IsAdmin reports whether the member may use admin-only affordances.
func (m Member) IsAdmin() bool { return m.Role == RoleAdmin || m.Role == RoleOwner }

// Book is a workspace-scoped book record.
type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// MeetingSummary is the list/dashboard shape of a meeting document.
type MeetingSummary struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	MeetingDate   string  `json:"meetingDate"`
	BookTitle     *string `json:"bookTitle"`
	AttendeeCount int     `json:"attendeeCount"`
	CreatedAt     string  `json:"createdAt,omitempty"`
}

// Attendee is the join record between a meeting and a workspace member,
// holding that member's note for that meeting. Note is nil until the member
// first saves one.
type Attendee struct {
	ID       string  `json:"id"`
	MemberID string  `json:"memberId"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	UserID   string  `json:"userId"`
	Note     *string `json:"note"`
}

// MeetingDetail is the full document: metadata plus the ordered attendee set.
type MeetingDetail struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	MeetingDate string     `json:"meetingDate"`
	BookID      string     `json:"bookId,omitempty"`
	BookTitle   string     `json:"bookTitle,omitempty"`
	Attendees   []Attendee `json:"attendees"`
}
