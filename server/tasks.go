package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/existflow/taskbreeze/internal/model"
)

type taskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     *time.Time     `json:"due_date"`
	Priority    model.Priority `json:"priority"`
	ColumnID    model.ColumnID `json:"column_id"`

	// Create only: lets the first-login import carry archived tasks over
	Archived   bool       `json:"archived"`
	ArchivedAt *time.Time `json:"archived_at"`
}

func (r *taskRequest) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "title required"
	}
	if r.Priority == "" {
		r.Priority = model.PriorityMedium
	}
	if !r.Priority.Valid() {
		return "invalid priority"
	}
	if !r.ColumnID.Valid() {
		return "invalid column"
	}
	return ""
}

func (r taskRequest) input() model.TaskInput {
	return model.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		ColumnID:    r.ColumnID,
	}
}

func (s *Server) handleListTasks(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUser(c)
	boardID := c.Param("id")
	if _, err := s.store.Board(ctx, userID, boardID); err != nil {
		return s.boardError(c, err)
	}

	archived := c.QueryParam("archived") == "true"
	tasks, err := s.store.ListTasks(ctx, userID, boardID, archived)
	if err != nil {
		return internalError(c, "list tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request")
	}
	if msg := req.validate(); msg != "" {
		return jsonError(c, http.StatusBadRequest, msg)
	}

	ctx := c.Request().Context()
	boardID := c.Param("id")
	if _, err := s.store.Board(ctx, currentUser(c), boardID); err != nil {
		return s.boardError(c, err)
	}

	now := s.now()
	t := model.Task{ID: uuid.NewString(), BoardID: boardID, CreatedAt: now, UpdatedAt: now}.Apply(req.input())
	if req.Archived {
		t.Archived = true
		t.ArchivedAt = req.ArchivedAt
		if t.ArchivedAt == nil {
			t.ArchivedAt = &now
		}
	} else {
		order, err := s.store.NextOrder(ctx, boardID, t.ColumnID)
		if err != nil {
			return internalError(c, "next order", err)
		}
		t.Order = order
	}

	if err := s.store.CreateTask(ctx, t); err != nil {
		return internalError(c, "create task", err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) handleGetTask(c echo.Context) error {
	t, err := s.store.Task(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return s.taskError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// handleUpdateTask replaces the editable fields. A column change on an
// active task appends it to the new column.
func (s *Server) handleUpdateTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request")
	}
	if msg := req.validate(); msg != "" {
		return jsonError(c, http.StatusBadRequest, msg)
	}

	ctx := c.Request().Context()
	t, err := s.store.Task(ctx, currentUser(c), c.Param("id"))
	if err != nil {
		return s.taskError(c, err)
	}

	moved := req.ColumnID != t.ColumnID
	t = t.Apply(req.input())
	if moved && !t.Archived {
		if t.Order, err = s.store.NextOrder(ctx, t.BoardID, t.ColumnID); err != nil {
			return internalError(c, "next order", err)
		}
	}
	return s.saveTask(c, t)
}

type moveRequest struct {
	ColumnID model.ColumnID `json:"column_id"`
}

func (s *Server) handleMoveTask(c echo.Context) error {
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request")
	}
	if !req.ColumnID.Valid() {
		return jsonError(c, http.StatusBadRequest, "invalid column")
	}

	ctx := c.Request().Context()
	t, err := s.store.Task(ctx, currentUser(c), c.Param("id"))
	if err != nil {
		return s.taskError(c, err)
	}
	if t.Archived {
		return jsonError(c, http.StatusConflict, "task is archived")
	}
	if t.ColumnID == req.ColumnID {
		return c.JSON(http.StatusOK, t)
	}

	t.ColumnID = req.ColumnID
	if t.Order, err = s.store.NextOrder(ctx, t.BoardID, t.ColumnID); err != nil {
		return internalError(c, "next order", err)
	}
	return s.saveTask(c, t)
}

func (s *Server) handleArchiveTask(c echo.Context) error {
	t, err := s.store.Task(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return s.taskError(c, err)
	}
	if t.Archived {
		return c.JSON(http.StatusOK, t)
	}
	now := s.now()
	t.Archived = true
	t.ArchivedAt = &now
	return s.saveTask(c, t)
}

func (s *Server) handleUnarchiveTask(c echo.Context) error {
	ctx := c.Request().Context()
	t, err := s.store.Task(ctx, currentUser(c), c.Param("id"))
	if err != nil {
		return s.taskError(c, err)
	}
	if !t.Archived {
		return c.JSON(http.StatusOK, t)
	}
	t.Archived = false
	t.ArchivedAt = nil
	if t.Order, err = s.store.NextOrder(ctx, t.BoardID, t.ColumnID); err != nil {
		return internalError(c, "next order", err)
	}
	return s.saveTask(c, t)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.store.DeleteTask(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return s.taskError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) saveTask(c echo.Context, t model.Task) error {
	t.UpdatedAt = s.now()
	if err := s.store.UpdateTask(c.Request().Context(), currentUser(c), t); err != nil {
		return s.taskError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) boardError(c echo.Context, err error) error {
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "board not found")
	}
	return internalError(c, "get board", err)
}

func (s *Server) taskError(c echo.Context, err error) error {
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "task not found")
	}
	return internalError(c, "task", err)
}
