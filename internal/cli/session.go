package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/existflow/taskbreeze/internal/app"
	"github.com/existflow/taskbreeze/internal/config"
	"github.com/existflow/taskbreeze/internal/db"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
	"github.com/existflow/taskbreeze/internal/quote"
	"github.com/existflow/taskbreeze/internal/remote"
	"github.com/existflow/taskbreeze/internal/storage"
)

// cfg is loaded once per invocation by the root command
var cfg = config.DefaultConfig()

// session is the board a command works on, local or remote
type session struct {
	board  *app.Board
	local  *storage.Local // nil in remote mode
	client *remote.Client
	dbConn *db.DB
}

// openSession picks remote mode when signed in with a selected board and
// the local snapshot otherwise
func openSession(ctx context.Context) (*session, error) {
	client, err := remote.NewClient()
	if err != nil {
		return nil, err
	}

	if rc := client.Config(); client.IsLoggedIn() && rc.BoardID != "" {
		b := app.NewRemote(client, rc.BoardID)
		if err := b.Load(ctx); err != nil {
			return nil, err
		}
		logger.Debug("Opened remote board", logger.F("board", rc.BoardID))
		return &session{board: b, client: client}, nil
	}

	dbConn, err := db.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	local := storage.NewLocal(dbConn, storage.WithQuota(cfg.StorageQuota))
	b := app.NewLocal(local)
	if err := b.Load(ctx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	return &session{board: b, local: local, client: client, dbConn: dbConn}, nil
}

func (s *session) Close() {
	if s.dbConn != nil {
		_ = s.dbConn.Close()
	}
}

// quoteSource prefers the server's cached quote when signed in
func (s *session) quoteSource() quote.Source {
	if s.client.IsLoggedIn() {
		return s.client
	}
	return quote.NewUpstream(cfg.QuoteURL)
}

// requireLocal fails commands that only make sense for the local board
func (s *session) requireLocal() error {
	if s.local == nil {
		return fmt.Errorf("%w (run 'breeze board use --local' first)", app.ErrLocalOnly)
	}
	return nil
}

var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) string {
	fmt.Print(label)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks a yes/no question; anything but y means no
func confirm(question string) bool {
	answer := prompt(question + " [y/N]: ")
	return answer == "y" || answer == "Y"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printTask(t model.Task) {
	priority := "  "
	switch t.Priority {
	case model.PriorityHigh:
		priority = "▲ "
	case model.PriorityLow:
		priority = "▽ "
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if t.IsOverdue(timeNow()) {
			due += " !"
		}
	}

	title := t.Title
	if len([]rune(title)) > 40 {
		title = string([]rune(title)[:37]) + "..."
	}

	fmt.Printf("  %-8s  %s%-40s  %-8s  %s\n", shortID(t.ID), priority, title, due, t.Priority)
}
