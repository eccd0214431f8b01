package bookcrew

import (
	"context"
	"net/http"
	"strconv"
)

// MeetingFilter narrows the meeting list. Keyword matches titles; the date
// bounds are inclusive yyyy-MM-dd strings.
type MeetingFilter struct {
	WorkspaceID string `json:"workspaceId"`
	Keyword     string `json:"keyword,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// MeetingPage is one page of the meeting list plus the pagination meta the
// backend returns alongside it.
type MeetingPage struct {
	Meetings   []MeetingSummary
	TotalPage  int
	TotalCount int
}

// CreateMeetingRequest is the POST /meetings/create body. Attendees holds
// member ids.
type CreateMeetingRequest struct {
	WorkspaceID string   `json:"workspaceId"`
	Title       string   `json:"title"`
	MeetingDate string   `json:"meetingDate"`
	BookID      string   `json:"bookId"`
	Attendees   []string `json:"attendees"`
}

// UpdateMeetingRequest is the PATCH /meetings/detail body. Attendees replaces
// the attendee set wholesale by member id; whether notes survive a
// remove-and-re-add is the backend's contract.
type UpdateMeetingRequest struct {
	WorkspaceID string   `json:"workspaceId"`
	MeetingID   string   `json:"meetingId"`
	Title       string   `json:"title"`
	MeetingDate string   `json:"meetingDate"`
	BookID      string   `json:"bookId"`
	Attendees   []string `json:"attendees"`
}

// SaveNoteRequest is the PUT /meetings/detail/note body. It touches exactly
// one attendee row and must stay separate from UpdateMeeting so a note save
// never clobbers a concurrent metadata edit.
type SaveNoteRequest struct {
	WorkspaceID string `json:"workspaceId"`
	MeetingID   string `json:"meetingId"`
	AttendeeID  string `json:"attendeeId"`
	Note        string `json:"note"`
}

// Meetings fetches one page of the filtered meeting list.
func (c *Client) Meetings(ctx context.Context, page int, filter MeetingFilter) (MeetingPage, error) {
	var list []MeetingSummary
	path := "/meetings?page=" + strconv.Itoa(page)
	env, err := c.callMeta(ctx, http.MethodPost, path, filter, &list)
	if err != nil {
		return MeetingPage{}, err
	}
	res := MeetingPage{Meetings: list, TotalPage: 1}
	if env != nil && env.Meta != nil {
		res.TotalPage = env.Meta.TotalPage
		res.TotalCount = env.Meta.TotalCount
	}
	return res, nil
}

// MeetingDetail fetches one meeting with its attendee rows.
func (c *Client) MeetingDetail(ctx context.Context, workspaceID, meetingID string) (MeetingDetail, error) {
	var d MeetingDetail
	body := map[string]string{"workspaceId": workspaceID}
	err := c.call(ctx, http.MethodPost, "/meetings/detail?id="+meetingID, body, &d)
	return d, err
}

// CreateMeeting creates a meeting with its initial attendee set.
func (c *Client) CreateMeeting(ctx context.Context, req CreateMeetingRequest) (MeetingSummary, error) {
	var m MeetingSummary
	err := c.call(ctx, http.MethodPost, "/meetings/create", req, &m)
	return m, err
}

// UpdateMeeting edits a meeting's metadata and attendee set.
func (c *Client) UpdateMeeting(ctx context.Context, req UpdateMeetingRequest) error {
	return c.call(ctx, http.MethodPatch, "/meetings/detail", req, nil)
}

// SaveNote writes one attendee's note.
func (c *Client) SaveNote(ctx context.Context, req SaveNoteRequest) error {
	return c.call(ctx, http.MethodPut, "/meetings/detail/note", req, nil)
}

// NextMeeting fetches the nearest upcoming meeting. 404 means none scheduled.
func (c *Client) NextMeeting(ctx context.Context, workspaceID string) (MeetingSummary, error) {
	var m MeetingSummary
	body := map[string]string{"workspaceId": workspaceID}
	err := c.call(ctx, http.MethodPost, "/meetings/next", body, &m)
	return m, err
}

// LatestMeetings fetches the most recent meetings for the workspace home.
func (c *Client) LatestMeetings(ctx context.Context, workspaceID string) ([]MeetingSummary, error) {
	var list []MeetingSummary
	body := map[string]string{"workspaceId": workspaceID}
	err := c.call(ctx, http.MethodPost, "/meetings/latest", body, &list)
	return list, err
}
