package app

import (
	"context"
	"fmt"

	"github.com/existflow/taskbreeze/internal/board"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
	"github.com/existflow/taskbreeze/internal/remote"
)

// Imported board defaults
const (
	ImportBoardTitle       = "My Board"
	ImportBoardDescription = "Imported from local storage"
)

// ImportSource is the local side of the first-login import
type ImportSource interface {
	Load(ctx context.Context) (model.BoardState, bool, error)
	HasImported(ctx context.Context) (bool, error)
	MarkImported(ctx context.Context) error
}

// ImportTarget is the remote side of the first-login import
type ImportTarget interface {
	ListBoards(ctx context.Context) ([]model.Board, error)
	CreateBoard(ctx context.Context, in remote.BoardInput) (model.Board, error)
	ImportTask(ctx context.Context, boardID string, t model.Task) (model.Task, error)
}

// ImportResult describes one import pass
type ImportResult struct {
	Skipped  string // Non-empty when nothing was done, says why
	Board    model.Board
	Imported int
	Failed   int
}

// Importer copies the local snapshot into a new default remote board the
// first time a user signs in. It makes one best-effort pass and never
// reconciles conflicts.
type Importer struct {
	src ImportSource
	dst ImportTarget
}

func NewImporter(src ImportSource, dst ImportTarget) *Importer {
	return &Importer{src: src, dst: dst}
}

// Run performs the import unless it already ran, there is nothing to import
// or the account already has boards
func (im *Importer) Run(ctx context.Context) (ImportResult, error) {
	done, err := im.src.HasImported(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	if done {
		return ImportResult{Skipped: "already imported"}, nil
	}

	state, ok, err := im.src.Load(ctx)
	if err != nil {
		logger.Warn("Local board is unreadable, skipping import", logger.Err(err))
		return ImportResult{Skipped: "local board unreadable"}, nil
	}
	if !ok || len(state.Tasks) == 0 {
		return ImportResult{Skipped: "no local tasks"}, nil
	}

	boards, err := im.dst.ListBoards(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to list boards: %w", err)
	}
	if len(boards) > 0 {
		return ImportResult{Skipped: "account already has boards"}, nil
	}

	desc := ImportBoardDescription
	b, err := im.dst.CreateBoard(ctx, remote.BoardInput{
		Title:       ImportBoardTitle,
		Description: &desc,
		Color:       model.DefaultBoardColor,
		IsDefault:   true,
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to create board: %w", err)
	}

	res := ImportResult{Board: b}
	for _, t := range importOrder(state) {
		if _, err := im.dst.ImportTask(ctx, b.ID, t); err != nil {
			res.Failed++
			logger.Warn("Failed to import task", logger.F("task", t.ID), logger.Err(err))
			continue
		}
		res.Imported++
	}

	if err := im.src.MarkImported(ctx); err != nil {
		return res, fmt.Errorf("failed to record import: %w", err)
	}
	logger.Info("Imported local board",
		logger.F("board", b.ID), logger.F("imported", res.Imported), logger.F("failed", res.Failed))
	return res, nil
}

// importOrder lists active tasks column by column in display order, then the
// archived ones oldest first, so the server assigns the same relative order
func importOrder(s model.BoardState) []model.Task {
	var out []model.Task
	for _, col := range s.ColumnOrder {
		out = append(out, board.ColumnTasks(s, col, "")...)
	}
	archived := board.Archived(s, "")
	for i := len(archived) - 1; i >= 0; i-- {
		out = append(out, archived[i])
	}
	return out
}
