package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/existflow/taskbreeze/internal/model"
)

// taskRequest is the create/import payload. The archive fields are only
// honoured on create, which is how archived tasks are imported.
type taskRequest struct {
	model.TaskInput
	Archived   bool       `json:"archived,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func taskPath(id string) string {
	return "/api/v1/tasks/" + url.PathEscape(id)
}

// ListTasks returns the active tasks of a board, or its archived tasks when archived is set
func (c *Client) ListTasks(ctx context.Context, boardID string, archived bool) ([]model.Task, error) {
	path := "/api/v1/boards/" + url.PathEscape(boardID) + "/tasks"
	if archived {
		path += "?archived=true"
	}
	var tasks []model.Task
	err := c.do(ctx, http.MethodGet, path, nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, boardID string, in model.TaskInput) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, "/api/v1/boards/"+url.PathEscape(boardID)+"/tasks", taskRequest{TaskInput: in}, &t)
	return t, err
}

// ImportTask creates a copy of t on the board, keeping its archive state
func (c *Client) ImportTask(ctx context.Context, boardID string, t model.Task) (model.Task, error) {
	var created model.Task
	req := taskRequest{TaskInput: t.Input(), Archived: t.Archived, ArchivedAt: t.ArchivedAt}
	err := c.do(ctx, http.MethodPost, "/api/v1/boards/"+url.PathEscape(boardID)+"/tasks", req, &created)
	return created, err
}

func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t)
	return t, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPut, taskPath(id), in, &t)
	return t, err
}

func (c *Client) MoveTask(ctx context.Context, id string, column model.ColumnID) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, taskPath(id)+"/move", map[string]model.ColumnID{"column_id": column}, &t)
	return t, err
}

func (c *Client) ArchiveTask(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, taskPath(id)+"/archive", nil, &t)
	return t, err
}

func (c *Client) UnarchiveTask(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, taskPath(id)+"/unarchive", nil, &t)
	return t, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}
