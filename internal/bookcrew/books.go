package bookcrew

import (
	"context"
	"net/http"
)

// ListBooksRequest is the POST /books body. Limit 0 means no cap.
type ListBooksRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Limit       int    `json:"limit,omitempty"`
}

// CreateBookRequest is the POST /books/create body.
type CreateBookRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Title       string `json:"title"`
}

// Books lists the workspace bookshelf, newest first.
func (c *Client) Books(ctx context.Context, req ListBooksRequest) ([]Book, error) {
	var list []Book
	err := c.call(ctx, http.MethodPost, "/books", req, &list)
	return list, err
}

// CreateBook registers a book so meetings can reference it.
func (c *Client) CreateBook(ctx context.Context, req CreateBookRequest) (Book, error) {
	var b Book
	err := c.call(ctx, http.MethodPost, "/books/create", req, &b)
	return b, err
}
