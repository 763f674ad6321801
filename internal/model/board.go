package model

import (
	"fmt"
	"strings"
	"time"
)

// ColumnID identifies one of the fixed workflow stages
type ColumnID string

const (
	ColumnTodo       ColumnID = "todo"
	ColumnInProgress ColumnID = "inprogress"
	ColumnOnHold     ColumnID = "onhold"
	ColumnDone       ColumnID = "done"
)

// DefaultColumnOrder is the left-to-right order of the board columns
var DefaultColumnOrder = []ColumnID{ColumnTodo, ColumnInProgress, ColumnOnHold, ColumnDone}

var columnTitles = map[ColumnID]string{
	ColumnTodo:       "To Do",
	ColumnInProgress: "In Progress",
	ColumnOnHold:     "On Hold",
	ColumnDone:       "Done",
}

// Valid reports whether c is one of the known columns
func (c ColumnID) Valid() bool {
	_, ok := columnTitles[c]
	return ok
}

// Title returns the display title of the column
func (c ColumnID) Title() string {
	if t, ok := columnTitles[c]; ok {
		return t
	}
	return string(c)
}

// ParseColumnID accepts column ids and a few common spellings ("in-progress", "on hold")
func ParseColumnID(s string) (ColumnID, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "todo":
		return ColumnTodo, nil
	case "inprogress", "doing", "wip":
		return ColumnInProgress, nil
	case "onhold", "hold", "blocked":
		return ColumnOnHold, nil
	case "done":
		return ColumnDone, nil
	}
	return "", fmt.Errorf("invalid column %q (want todo, inprogress, onhold or done)", s)
}

// Column is a workflow stage holding an ordered list of task ids
type Column struct {
	ID      ColumnID `json:"id"`
	Title   string   `json:"title"`
	TaskIDs []string `json:"taskIds"`
}

// BoardState is the normalized in-memory board: tasks by id, columns by id
// and the column display order
type BoardState struct {
	Tasks       map[string]Task     `json:"tasks"`
	Columns     map[ColumnID]Column `json:"columns"`
	ColumnOrder []ColumnID          `json:"columnOrder"`
}

// Board is a named collection of tasks owned by one user (remote mode)
type Board struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultBoardColor is used when a board is created without a color
const DefaultBoardColor = "#3b82f6"

// Quote is a motivational quote shown above the board
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}
