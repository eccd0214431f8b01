package bookcrew

import (
	"context"
	"net/http"
)

// LoginRequest is the POST /users/login body.
type LoginRequest struct {
	UserID      string `json:"userId"`
	Password    string `json:"password"`
	IsAutoLogin bool   `json:"isAutoLogin"`
}

// LoginResult carries the bearer token the backend issues on login.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// SignupRequest is the POST /users/signup body.
type SignupRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// Me resolves the identity behind the token in ctx ("who am I").
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.call(ctx, http.MethodGet, "/users/me", nil, &u)
	return u, err
}

// Login authenticates and returns the issued token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	var res LoginResult
	err := c.call(ctx, http.MethodPost, "/users/login", req, &res)
	return res, err
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.call(ctx, http.MethodPost, "/users/signup", req, nil)
}

// CheckUserID asks whether a login handle is still available.
func (c *Client) CheckUserID(ctx context.Context, userID string) error {
	body := map[string]string{"userId": userID}
	return c.call(ctx, http.MethodPost, "/users/check-userid", body, nil)
}

// Logout invalidates the session token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/users/logout", nil, nil)
}
