package server

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/existflow/taskbreeze/internal/model"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type boardRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	IsDefault   bool    `json:"is_default"`
}

// validate normalizes the request and returns a client error message
func (r *boardRequest) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "title required"
	}
	if r.Color == "" {
		r.Color = model.DefaultBoardColor
	}
	if !colorPattern.MatchString(r.Color) {
		return "color must look like #rrggbb"
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		r.Description = nil
	}
	return ""
}

func (s *Server) handleListBoards(c echo.Context) error {
	boards, err := s.store.ListBoards(c.Request().Context(), currentUser(c))
	if err != nil {
		return internalError(c, "list boards", err)
	}
	return c.JSON(http.StatusOK, boards)
}

func (s *Server) handleGetBoard(c echo.Context) error {
	b, err := s.store.Board(c.Request().Context(), currentUser(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "board not found")
	}
	if err != nil {
		return internalError(c, "get board", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (s *Server) handleCreateBoard(c echo.Context) error {
	var req boardRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request")
	}
	if msg := req.validate(); msg != "" {
		return jsonError(c, http.StatusBadRequest, msg)
	}

	ctx := c.Request().Context()
	userID := currentUser(c)
	if req.IsDefault {
		if err := s.store.ClearDefaultBoard(ctx, userID); err != nil {
			return internalError(c, "clear default board", err)
		}
	}

	now := s.now()
	b := model.Board{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		IsDefault:   req.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateBoard(ctx, b); err != nil {
		return internalError(c, "create board", err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (s *Server) handleUpdateBoard(c echo.Context) error {
	var req boardRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request")
	}
	if msg := req.validate(); msg != "" {
		return jsonError(c, http.StatusBadRequest, msg)
	}

	ctx := c.Request().Context()
	userID := currentUser(c)
	b, err := s.store.Board(ctx, userID, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "board not found")
	}
	if err != nil {
		return internalError(c, "get board", err)
	}

	if req.IsDefault && !b.IsDefault {
		if err := s.store.ClearDefaultBoard(ctx, userID); err != nil {
			return internalError(c, "clear default board", err)
		}
	}
	b.Title = req.Title
	b.Description = req.Description
	b.Color = req.Color
	b.IsDefault = req.IsDefault
	b.UpdatedAt = s.now()
	if err := s.store.UpdateBoard(ctx, b); err != nil {
		return internalError(c, "update board", err)
	}
	return c.JSON(http.StatusOK, b)
}

// handleDeleteBoard removes a board; its tasks go with it
func (s *Server) handleDeleteBoard(c echo.Context) error {
	err := s.store.DeleteBoard(c.Request().Context(), currentUser(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "board not found")
	}
	if err != nil {
		return internalError(c, "delete board", err)
	}
	return c.NoContent(http.StatusNoContent)
}
