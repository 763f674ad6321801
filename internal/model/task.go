package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts low/medium/high (any case) and the l/m/h shorthands
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m", "":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q (want low, medium or high)", s)
}

// DateLayout is the layout used for due dates on the command line and in forms
const DateLayout = "2006-01-02"

// Task represents a single card on the board
type Task struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"board_id,omitempty"` // Set in remote mode only
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    Priority   `json:"priority"`
	ColumnID    ColumnID   `json:"column_id"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Archived    bool       `json:"archived"`
	ArchivedAt  *time.Time `json:"archived_at"`
}

// TaskInput holds the user-editable fields of a task
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    Priority   `json:"priority"`
	ColumnID    ColumnID   `json:"column_id"`
}

// Input returns the editable fields of t
func (t Task) Input() TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		ColumnID:    t.ColumnID,
	}
}

// Apply copies the editable fields of in onto t
func (t Task) Apply(in TaskInput) Task {
	t.Title = in.Title
	t.Description = in.Description
	t.DueDate = in.DueDate
	t.Priority = in.Priority
	t.ColumnID = in.ColumnID
	return t
}

// Matches reports whether query is a case-insensitive substring of the title or description
func (t Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// IsOverdue returns true if the task is past its due date
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.DueDate.Before(today)
}

// IsDueToday returns true if the task is due on the same calendar day as now
func (t Task) IsDueToday(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ParseDueDate parses a YYYY-MM-DD date; empty input means no due date
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", s)
	}
	return &d, nil
}

// FormatDueDate renders a due date as YYYY-MM-DD, or "" when unset
func FormatDueDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}
