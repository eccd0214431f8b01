package bookcrew

import (
	"context"
	"net/http"
	"net/url"
)

// CreateWorkspaceRequest is the POST /workspaces body.
type CreateWorkspaceRequest struct {
	WorkspaceName string `json:"workspaceName"`
	Description   string `json:"description,omitempty"`
}

// JoinWorkspaceRequest is the POST /workspaces/join body. The password is
// the join code the workspace owner hands out.
type JoinWorkspaceRequest struct {
	WorkspaceID       string `json:"workspaceId"`
	WorkspacePassword string `json:"workspacePassword"`
}

// UpdateWorkspaceRequest is the PATCH /workspaces/:id body. Zero-value
// fields are omitted so partial edits don't clear the rest.
type UpdateWorkspaceRequest struct {
	Name       string `json:"name,omitempty"`
	CoverImage string `json:"coverImage,omitempty"`
}

// Workspaces lists the clubs the caller has joined.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	var list []Workspace
	err := c.call(ctx, http.MethodGet, "/workspaces", nil, &list)
	return list, err
}

// CreateWorkspace creates a club and returns it with the caller as OWNER.
func (c *Client) CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (Workspace, error) {
	var ws Workspace
	err := c.call(ctx, http.MethodPost, "/workspaces", req, &ws)
	return ws, err
}

// SearchWorkspaces finds joinable clubs by name substring.
func (c *Client) SearchWorkspaces(ctx context.Context, query string) ([]Workspace, error) {
	var list []Workspace
	path := "/workspaces/search?search=" + url.QueryEscape(query)
	err := c.call(ctx, http.MethodGet, path, nil, &list)
	return list, err
}

// JoinWorkspace joins a club with its join code.
func (c *Client) JoinWorkspace(ctx context.Context, req JoinWorkspaceRequest) error {
	return c.call(ctx, http.MethodPost, "/workspaces/join", req, nil)
}

// Workspace fetches one club. The backend answers 403 for non-members,
// which doubles as the membership gate for workspace pages.
func (c *Client) Workspace(ctx context.Context, id string) (Workspace, error) {
	var ws Workspace
	err := c.call(ctx, http.MethodGet, "/workspaces/"+id, nil, &ws)
	return ws, err
}

// UpdateWorkspace edits club settings (admin only, enforced server-side).
func (c *Client) UpdateWorkspace(ctx context.Context, id string, req UpdateWorkspaceRequest) error {
	return c.call(ctx, http.MethodPatch, "/workspaces/"+id, req, nil)
}

// DeleteWorkspace removes a club outright.
func (c *Client) DeleteWorkspace(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/workspaces/"+id, nil, nil)
}

// UpdateMyProfile edits the caller's workspace-scoped display name.
func (c *Client) UpdateMyProfile(ctx context.Context, workspaceID, name string) error {
	body := map[string]string{"name": name}
	return c.call(ctx, http.MethodPatch, "/workspaces/"+workspaceID+"/me", body, nil)
}
