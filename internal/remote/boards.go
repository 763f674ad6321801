package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/existflow/taskbreeze/internal/model"
)

// BoardInput holds the editable fields of a board
type BoardInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Color       string  `json:"color,omitempty"`
	IsDefault   bool    `json:"is_default"`
}

func (c *Client) ListBoards(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	err := c.do(ctx, http.MethodGet, "/api/v1/boards", nil, &boards)
	return boards, err
}

func (c *Client) GetBoard(ctx context.Context, id string) (model.Board, error) {
	var b model.Board
	err := c.do(ctx, http.MethodGet, "/api/v1/boards/"+url.PathEscape(id), nil, &b)
	return b, err
}

func (c *Client) CreateBoard(ctx context.Context, in BoardInput) (model.Board, error) {
	var b model.Board
	err := c.do(ctx, http.MethodPost, "/api/v1/boards", in, &b)
	return b, err
}

func (c *Client) UpdateBoard(ctx context.Context, id string, in BoardInput) (model.Board, error) {
	var b model.Board
	err := c.do(ctx, http.MethodPut, "/api/v1/boards/"+url.PathEscape(id), in, &b)
	return b, err
}

// DeleteBoard removes a board and, on the server, all of its tasks
func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/boards/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	if c.config.BoardID == id {
		return c.SetBoard("")
	}
	return nil
}
