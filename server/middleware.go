package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/existflow/taskbreeze/internal/logger"
)

// requestLogger logs one line per request once the response is written
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		res := c.Response()
		fields := []logger.Field{
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()),
			logger.F("remote", c.RealIP()),
		}
		if res.Status >= http.StatusInternalServerError {
			logger.Warn("HTTP Response", fields...)
		} else {
			logger.Info("HTTP Response", fields...)
		}
		return nil
	}
}

// authMiddleware checks for valid session token
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return jsonError(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return jsonError(c, http.StatusUnauthorized, "invalid authorization format")
		}

		session, err := s.store.Session(c.Request().Context(), token)
		if errors.Is(err, ErrNotFound) {
			return jsonError(c, http.StatusUnauthorized, "invalid token")
		}
		if err != nil {
			return internalError(c, "session lookup", err)
		}
		if session.IsExpired(s.now()) {
			return jsonError(c, http.StatusUnauthorized, "token expired")
		}

		c.Set("user_id", session.UserID)
		c.Set("token", token)
		return next(c)
	}
}

// validID answers 404 for :id path params that cannot be a row id
func validID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if id == "" {
			return next(c)
		}
		if _, err := uuid.Parse(id); err != nil {
			if strings.HasPrefix(c.Path(), "/api/v1/tasks/") {
				return jsonError(c, http.StatusNotFound, "task not found")
			}
			return jsonError(c, http.StatusNotFound, "board not found")
		}
		return next(c)
	}
}
