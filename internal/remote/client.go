// Package remote is the persistence adapter for a breeze-server account.
// Every operation is a single HTTP round trip; nothing is batched or retried.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/existflow/taskbreeze/internal/config"
	"github.com/existflow/taskbreeze/internal/model"
)

// DefaultServerURL is used until the user points the client elsewhere
const DefaultServerURL = "http://localhost:8080"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNotLoggedIn  = errors.New("not logged in, run 'breeze auth login' first")
)

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the package sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Config holds the remote session
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	BoardID   string `json:"board_id,omitempty"` // Board opened by the terminal board and task commands
}

// Client talks to breeze-server
type Client struct {
	config     *Config
	configPath string
	httpClient *http.Client
}

// NewClient loads the session from ~/.taskbreeze/remote.json
func NewClient() (*Client, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return NewClientWithPath(filepath.Join(dir, "remote.json")), nil
}

// NewClientWithPath loads the session from path
func NewClientWithPath(path string) *Client {
	c := &Client{
		configPath: path,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	c.loadConfig()
	return c
}

func (c *Client) loadConfig() {
	c.config = &Config{ServerURL: DefaultServerURL}
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, c.config); err != nil {
		c.config = &Config{ServerURL: DefaultServerURL}
	}
	if c.config.ServerURL == "" {
		c.config.ServerURL = DefaultServerURL
	}
}

func (c *Client) saveConfig() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0600)
}

// Config returns a copy of the current session
func (c *Client) Config() Config {
	return *c.config
}

// SetServer sets the server URL
func (c *Client) SetServer(url string) error {
	c.config.ServerURL = strings.TrimRight(url, "/")
	return c.saveConfig()
}

// SetBoard selects the board used by the terminal board and task commands
func (c *Client) SetBoard(boardID string) error {
	c.config.BoardID = boardID
	return c.saveConfig()
}

// IsLoggedIn returns true if a session token is stored
func (c *Client) IsLoggedIn() bool {
	return c.config.Token != ""
}

// do sends one request and decodes the JSON response into out when non-nil
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		respBody, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(respBody, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

func (c *Client) storeSession(res authResponse) error {
	c.config.Token = res.Token
	c.config.UserID = res.UserID
	c.config.BoardID = ""
	return c.saveConfig()
}

// Register creates a new account and stores its session
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	var res authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	return c.storeSession(res)
}

// Login authenticates with username and password
func (c *Client) Login(ctx context.Context, username, password string) error {
	var res authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	}, &res)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return c.storeSession(res)
}

// RequestMagicLink asks the server for a passwordless login link. The token
// is empty unless the server runs with MAGIC_LINK_ECHO enabled.
func (c *Client) RequestMagicLink(ctx context.Context, email string) (string, error) {
	var res struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/magic-link", map[string]string{"email": email}, &res); err != nil {
		return "", fmt.Errorf("magic link request failed: %w", err)
	}
	return res.Token, nil
}

// VerifyMagicLink exchanges a magic link token for a session
func (c *Client) VerifyMagicLink(ctx context.Context, token string) error {
	var res authResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/magic-link/"+token, nil, &res); err != nil {
		return fmt.Errorf("magic link login failed: %w", err)
	}
	return c.storeSession(res)
}

// Logout ends the server session and clears it locally. The local session is
// cleared even if the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	var remoteErr error
	if c.IsLoggedIn() {
		remoteErr = c.do(ctx, http.MethodPost, "/api/v1/logout", nil, nil)
	}
	c.config.Token = ""
	c.config.UserID = ""
	c.config.BoardID = ""
	if err := c.saveConfig(); err != nil {
		return err
	}
	return remoteErr
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (model.User, error) {
	if !c.IsLoggedIn() {
		return model.User{}, ErrNotLoggedIn
	}
	var u model.User
	err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &u)
	return u, err
}

// Quote fetches a quote through the server's proxy
func (c *Client) Quote(ctx context.Context) (model.Quote, error) {
	var q model.Quote
	err := c.do(ctx, http.MethodGet, "/api/quote", nil, &q)
	return q, err
}
