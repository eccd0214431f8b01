package bookcrew

import "context"

// API is the full backend surface the web app consumes. Handlers depend on
// this interface rather than *Client so tests can point a real Client at a
// fake backend or substitute the interface outright.
type API interface {
	// Identity
	Me(ctx context.Context) (User, error)
	Login(ctx context.Context, req LoginRequest) (LoginResult, error)
	Signup(ctx context.Context, req SignupRequest) error
	CheckUserID(ctx context.Context, userID string) error
	Logout(ctx context.Context) error

	// Workspaces
	Workspaces(ctx context.Context) ([]Workspace, error)
	CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (Workspace, error)
	SearchWorkspaces(ctx context.Context, query string) ([]Workspace, error)
	JoinWorkspace(ctx context.Context, req JoinWorkspaceRequest) error
	Workspace(ctx context.Context, id string) (Workspace, error)
	UpdateWorkspace(ctx context.Context, id string, req UpdateWorkspaceRequest) error
	DeleteWorkspace(ctx context.Context, id string) error
	UpdateMyProfile(ctx context.Context, workspaceID, name string) error

	// Members
	SearchMembers(ctx context.Context, req SearchMembersRequest) ([]Member, error)
	CreateMember(ctx context.Context, req CreateMemberRequest) (Member, error)
	MyMember(ctx context.Context, workspaceID string) (Member, error)
	ChangeMemberRole(ctx context.Context, req ChangeRoleRequest) error
	RemoveMember(ctx context.Context, req RemoveMemberRequest) error

	// Meetings
	Meetings(ctx context.Context, page int, filter MeetingFilter) (MeetingPage, error)
	MeetingDetail(ctx context.Context, workspaceID, meetingID string) (MeetingDetail, error)
	CreateMeeting(ctx context.Context, req CreateMeetingRequest) (MeetingSummary, error)
	UpdateMeeting(ctx context.Context, req UpdateMeetingRequest) error
	SaveNote(ctx context.Context, req SaveNoteRequest) error
	NextMeeting(ctx context.Context, workspaceID string) (MeetingSummary, error)
	LatestMeetings(ctx context.Context, workspaceID string) ([]MeetingSummary, error)

	// Books
	Books(ctx context.Context, req ListBooksRequest) ([]Book, error)
	CreateBook(ctx context.Context, req CreateBookRequest) (Book, error)
}

var _ API = (*Client)(nil)
