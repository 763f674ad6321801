// Package board holds the pure transitions over a BoardState.
//
// Every function takes a state value and returns a new one; inputs are never
// modified. The two mappings (tasks by id and columns by id) are kept
// consistent: an active task appears exactly once, in the task-id list of the
// column it names, and an archived task appears in no list at all.
package board

import (
	"errors"
	"sort"

	"github.com/existflow/taskbreeze/internal/model"
)

var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrTaskNotFound  = errors.New("task not found")
	ErrDuplicateTask = errors.New("task already exists")
	ErrTaskArchived  = errors.New("task is archived")
	// ErrOrphanedTask means the task names a column the state does not have
	ErrOrphanedTask = errors.New("task references a missing column")
)

// NewState returns the default board: four empty columns in default order
func NewState() model.BoardState {
	s := model.BoardState{
		Tasks:       map[string]model.Task{},
		Columns:     make(map[model.ColumnID]model.Column, len(model.DefaultColumnOrder)),
		ColumnOrder: append([]model.ColumnID{}, model.DefaultColumnOrder...),
	}
	for _, id := range model.DefaultColumnOrder {
		s.Columns[id] = model.Column{ID: id, Title: id.Title(), TaskIDs: []string{}}
	}
	return s
}

// Clone returns a deep copy of s
func Clone(s model.BoardState) model.BoardState {
	out := model.BoardState{
		Tasks:       make(map[string]model.Task, len(s.Tasks)),
		Columns:     make(map[model.ColumnID]model.Column, len(s.Columns)),
		ColumnOrder: append([]model.ColumnID{}, s.ColumnOrder...),
	}
	for id, t := range s.Tasks {
		out.Tasks[id] = t
	}
	for id, c := range s.Columns {
		c.TaskIDs = append([]string{}, c.TaskIDs...)
		out.Columns[id] = c
	}
	return out
}

// FromTasks builds a state from flat task rows. Active tasks are listed in
// their column sorted by order hint, then creation time. Tasks naming an
// unknown column are dropped.
func FromTasks(tasks []model.Task) model.BoardState {
	s := NewState()
	sorted := append([]model.Task{}, tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	for _, t := range sorted {
		col, ok := s.Columns[t.ColumnID]
		if !ok {
			continue
		}
		s.Tasks[t.ID] = t
		if !t.Archived {
			col.TaskIDs = append(col.TaskIDs, t.ID)
			s.Columns[t.ColumnID] = col
		}
	}
	return s
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
