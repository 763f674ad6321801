package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
)

// MagicLinkTTL is how long a magic link can be used
const MagicLinkTTL = 15 * time.Minute

const magicLinkMessage = "if email exists, a magic link will be sent"

type magicLinkRequest struct {
	Email string `json:"email"`
}

// handleMagicLink creates a magic link for passwordless login and hands the
// token to the mailer. The response is the same whether or not the email
// exists.
func (s *Server) handleMagicLink(c echo.Context) error {
	var req magicLinkRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request")
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return jsonError(c, http.StatusBadRequest, "email required")
	}

	ctx := c.Request().Context()
	if _, err := s.store.UserByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Don't reveal if email exists
			return c.JSON(http.StatusOK, map[string]string{"message": magicLinkMessage})
		}
		return internalError(c, "find user", err)
	}

	token, err := newToken()
	if err != nil {
		return internalError(c, "generate token", err)
	}
	link := model.MagicLink{Email: email, Token: token, ExpiresAt: s.now().Add(MagicLinkTTL)}
	if err := s.store.CreateMagicLink(ctx, link); err != nil {
		return internalError(c, "create magic link", err)
	}

	if err := s.mailer.SendMagicLink(ctx, email, token); err != nil {
		return internalError(c, "send magic link", err)
	}

	logger.Info("Magic link created", logger.F("email", email))
	res := map[string]string{"message": magicLinkMessage}
	if s.echoMagicLink {
		res["token"] = token
	}
	return c.JSON(http.StatusOK, res)
}

// handleMagicLinkVerify verifies a magic link and creates a session
func (s *Server) handleMagicLinkVerify(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return jsonError(c, http.StatusBadRequest, "token required")
	}

	ctx := c.Request().Context()
	link, err := s.store.MagicLink(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusBadRequest, "invalid token")
	}
	if err != nil {
		return internalError(c, "find magic link", err)
	}
	if link.Used {
		return jsonError(c, http.StatusBadRequest, "token already used")
	}
	if link.IsExpired(s.now()) {
		return jsonError(c, http.StatusBadRequest, "token expired")
	}

	if err := s.store.MarkMagicLinkUsed(ctx, token); err != nil {
		return internalError(c, "use magic link", err)
	}

	user, err := s.store.UserByEmail(ctx, link.Email)
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return internalError(c, "find user", err)
	}

	logger.Info("Magic link login", logger.F("email", link.Email))
	return s.startSession(c, user.ID)
}
