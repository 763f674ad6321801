package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/taskbreeze/internal/board"
	"github.com/existflow/taskbreeze/internal/model"
)

// ExportFileName returns the date-stamped name of an export taken at now
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("taskbreeze-backup-%s.json", now.Format("2006-01-02"))
}

// Export writes the state as indented JSON
func Export(w io.Writer, s model.BoardState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// ExportFile writes the state to a date-stamped file in dir and returns its path
func ExportFile(dir string, s model.BoardState, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, ExportFileName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Export(f, s); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// Import reads an exported state and validates it
func Import(r io.Reader) (model.BoardState, error) {
	var s model.BoardState
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return model.BoardState{}, &DecodeError{Err: err}
	}
	if err := board.Validate(s); err != nil {
		return model.BoardState{}, err
	}
	return s, nil
}
