package bookcrew

import (
	"context"
	"net/http"
)

// SearchMembersRequest is the POST /members/search body. An empty keyword
// returns the full member list for the workspace.
type SearchMembersRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Keyword     string `json:"keyword,omitempty"`
}

// CreateMemberRequest is the POST /members body.
type CreateMemberRequest struct {
	WorkspaceID string `json:"workspaceId"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
}

// ChangeRoleRequest is the PATCH /members/role body.
type ChangeRoleRequest struct {
	WorkspaceID string `json:"workspaceId"`
	MemberID    string `json:"memberId"`
	Role        string `json:"role"`
}

// RemoveMemberRequest is the DELETE /members body.
type RemoveMemberRequest struct {
	WorkspaceID string `json:"workspaceId"`
	MemberID    string `json:"memberId"`
}

// SearchMembers finds workspace members by name/handle substring.
func (c *Client) SearchMembers(ctx context.Context, req SearchMembersRequest) ([]Member, error) {
	var list []Member
	err := c.call(ctx, http.MethodPost, "/members/search", req, &list)
	return list, err
}

// CreateMember adds a user to a workspace.
func (c *Client) CreateMember(ctx context.Context, req CreateMemberRequest) (Member, error) {
	var m Member
	err := c.call(ctx, http.MethodPost, "/members", req, &m)
	return m, err
}

// MyMember fetches the caller's own membership record in a workspace.
func (c *Client) MyMember(ctx context.Context, workspaceID string) (Member, error) {
	var m Member
	body := map[string]string{"workspaceId": workspaceID}
	err := c.call(ctx, http.MethodPost, "/members/me", body, &m)
	return m, err
}

// ChangeMemberRole sets another member's role. The backend rejects
// self-changes and non-admin callers with 403.
func (c *Client) ChangeMemberRole(ctx context.Context, req ChangeRoleRequest) error {
	return c.call(ctx, http.MethodPatch, "/members/role", req, nil)
}

// RemoveMember removes another member from the workspace.
func (c *Client) RemoveMember(ctx context.Context, req RemoveMemberRequest) error {
	return c.call(ctx, http.MethodDelete, "/members", req, nil)
}
