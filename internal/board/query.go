package board

import (
	"sort"

	"github.com/existflow/taskbreeze/internal/model"
)

// ColumnTasks returns the active tasks of a column in list order, keeping
// only those matching query
func ColumnTasks(s model.BoardState, column model.ColumnID, query string) []model.Task {
	col, ok := s.Columns[column]
	if !ok {
		return nil
	}
	out := make([]model.Task, 0, len(col.TaskIDs))
	for _, id := range col.TaskIDs {
		t, ok := s.Tasks[id]
		if !ok || !t.Matches(query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Search returns active tasks matching query, in board order
func Search(s model.BoardState, query string) []model.Task {
	var out []model.Task
	for _, c := range s.ColumnOrder {
		out = append(out, ColumnTasks(s, c, query)...)
	}
	return out
}

// Archived returns archived tasks matching query, most recently archived first
func Archived(s model.BoardState, query string) []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if t.Archived && t.Matches(query) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].ArchivedAt, out[j].ArchivedAt
		switch {
		case ai == nil && aj == nil:
			return out[i].ID < out[j].ID
		case ai == nil:
			return false
		case aj == nil:
			return true
		case !ai.Equal(*aj):
			return ai.After(*aj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Counts summarises a board
type Counts struct {
	Active   int
	Archived int
	ByColumn map[model.ColumnID]int
}

// Count tallies active tasks per column and archived tasks
func Count(s model.BoardState) Counts {
	c := Counts{ByColumn: make(map[model.ColumnID]int, len(s.Columns))}
	for id, col := range s.Columns {
		c.ByColumn[id] = len(col.TaskIDs)
		c.Active += len(col.TaskIDs)
	}
	for _, t := range s.Tasks {
		if t.Archived {
			c.Archived++
		}
	}
	return c
}

// Tasks returns every task (active and archived) ordered by creation time
func Tasks(s model.BoardState) []model.Task {
	out := make([]model.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
