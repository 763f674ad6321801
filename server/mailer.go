package server

import (
	"context"

	"github.com/existflow/taskbreeze/internal/logger"
)

// Mailer delivers magic link tokens to their owners
type Mailer interface {
	SendMagicLink(ctx context.Context, email, token string) error
}

// logMailer writes the token to the server log for the operator to pass on
type logMailer struct{}

func (logMailer) SendMagicLink(_ context.Context, email, token string) error {
	logger.Info("Magic link ready",
		logger.F("email", email),
		logger.F("path", "/api/v1/magic-link/"+token))
	return nil
}

// Option configures a Server
type Option func(*Server)

// WithMailer replaces the default log mailer
func WithMailer(m Mailer) Option {
	return func(s *Server) { s.mailer = m }
}

// WithMagicLinkEcho returns magic link tokens in the request response.
// Only for local development.
func WithMagicLinkEcho(on bool) Option {
	return func(s *Server) { s.echoMagicLink = on }
}
