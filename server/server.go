// Package server is the hosted board backend: accounts, boards, tasks and
// the quote proxy over PostgreSQL.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/existflow/taskbreeze/internal/config"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/quote"
)

// Server is the board backend
type Server struct {
	db     *sql.DB
	redis  *redis.Client
	store  Store
	quotes *quote.Provider
	echo   *echo.Echo
	now    func() time.Time

	mailer        Mailer
	echoMagicLink bool
}

// New connects to PostgreSQL (and Redis when configured), runs migrations
// and builds the router
func New(cfg config.ServerConfig) (*Server, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var src quote.Source = quote.NewUpstream(cfg.QuoteURL)
	var rc *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rc = redis.NewClient(opts)
		if err := rc.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unavailable, quotes will not be cached", logger.Err(err))
		}
		src = quote.NewRedisCache(src, rc, cfg.QuoteCacheTTL)
	}

	s := NewWithStore(NewPGStore(db), quote.NewProvider(src), WithMagicLinkEcho(cfg.MagicLinkEcho))
	s.db = db
	s.redis = rc
	return s, nil
}

// NewWithStore builds a server over an existing store
func NewWithStore(store Store, quotes *quote.Provider, opts ...Option) *Server {
	s := &Server{
		store:  store,
		quotes: quotes,
		now:    func() time.Time { return time.Now().UTC() },
		mailer: logMailer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)
	e.GET("/api/quote", s.handleQuote)

	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	api.POST("/magic-link", s.handleMagicLink)
	api.GET("/magic-link/:token", s.handleMagicLinkVerify)

	protected := api.Group("")
	protected.Use(s.authMiddleware, validID)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)

	protected.GET("/boards", s.handleListBoards)
	protected.POST("/boards", s.handleCreateBoard)
	protected.GET("/boards/:id", s.handleGetBoard)
	protected.PUT("/boards/:id", s.handleUpdateBoard)
	protected.DELETE("/boards/:id", s.handleDeleteBoard)

	protected.GET("/boards/:id/tasks", s.handleListTasks)
	protected.POST("/boards/:id/tasks", s.handleCreateTask)
	protected.GET("/tasks/:id", s.handleGetTask)
	protected.PUT("/tasks/:id", s.handleUpdateTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)
	protected.POST("/tasks/:id/move", s.handleMoveTask)
	protected.POST("/tasks/:id/archive", s.handleArchiveTask)
	protected.POST("/tasks/:id/unarchive", s.handleUnarchiveTask)

	s.echo = e
}

// Close releases the database and cache connections
func (s *Server) Close() error {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleQuote always answers 200, with a fallback quote when upstream fails
func (s *Server) handleQuote(c echo.Context) error {
	return c.JSON(http.StatusOK, s.quotes.Get(c.Request().Context()))
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func internalError(c echo.Context, what string, err error) error {
	logger.Error("Request failed",
		logger.F("op", what),
		logger.F("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		logger.Err(err))
	return jsonError(c, http.StatusInternalServerError, "internal error")
}

func currentUser(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}
