package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
)

// SessionTTL is how long a login stays valid
const SessionTTL = 30 * 24 * time.Hour

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// handleRegister handles user registration
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "username, email, and password required")
	}
	if len(req.Password) < 8 {
		return jsonError(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, "hash password", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	err = s.store.CreateUser(c.Request().Context(), user)
	if errors.Is(err, ErrConflict) {
		return jsonError(c, http.StatusConflict, "username or email already exists")
	}
	if err != nil {
		return internalError(c, "create user", err)
	}

	logger.Info("User registered", logger.F("username", user.Username))
	return s.startSession(c, user.ID)
}

// handleLogin handles user login
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request")
	}

	user, err := s.store.UserByUsername(c.Request().Context(), strings.TrimSpace(req.Username))
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return internalError(c, "find user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid credentials")
	}

	logger.Info("User logged in", logger.F("username", user.Username))
	return s.startSession(c, user.ID)
}

// handleMe returns current user info
func (s *Server) handleMe(c echo.Context) error {
	user, err := s.store.UserByID(c.Request().Context(), currentUser(c))
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return internalError(c, "find user", err)
	}
	return c.JSON(http.StatusOK, user)
}

// handleLogout ends the calling session
func (s *Server) handleLogout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if err := s.store.DeleteSession(c.Request().Context(), token); err != nil {
		return internalError(c, "delete session", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) startSession(c echo.Context, userID string) error {
	token, err := newToken()
	if err != nil {
		return internalError(c, "generate token", err)
	}
	now := s.now()
	sess := model.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}
	if err := s.store.CreateSession(c.Request().Context(), sess); err != nil {
		return internalError(c, "create session", err)
	}
	return c.JSON(http.StatusOK, authResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
		UserID:    userID,
	})
}

// newToken returns 32 random bytes as hex
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
