package board

import (
	"fmt"
	"strings"

	"github.com/existflow/taskbreeze/internal/model"
)

// ValidationError lists every structural problem found in a state
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid board state: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Validate checks the invariants of a decoded state. It returns nil or a
// *ValidationError.
func Validate(s model.BoardState) error {
	v := &ValidationError{}

	if s.Tasks == nil {
		v.add("tasks missing")
	}
	if s.Columns == nil {
		v.add("columns missing")
	}
	if len(s.ColumnOrder) == 0 {
		v.add("columnOrder empty")
	}

	ordered := make(map[model.ColumnID]bool, len(s.ColumnOrder))
	for _, id := range s.ColumnOrder {
		if ordered[id] {
			v.add("column %q repeated in columnOrder", id)
		}
		ordered[id] = true
		if _, ok := s.Columns[id]; !ok {
			v.add("columnOrder names unknown column %q", id)
		}
	}

	listed := make(map[string]model.ColumnID)
	for key, col := range s.Columns {
		if !key.Valid() {
			v.add("unknown column id %q", key)
		}
		if col.ID != key {
			v.add("column %q has id %q", key, col.ID)
		}
		if !ordered[key] {
			v.add("column %q missing from columnOrder", key)
		}
		for _, id := range col.TaskIDs {
			if prev, dup := listed[id]; dup {
				v.add("task %s listed in both %q and %q", id, prev, key)
				continue
			}
			listed[id] = key
			t, ok := s.Tasks[id]
			switch {
			case !ok:
				v.add("column %q lists unknown task %s", key, id)
			case t.ColumnID != key:
				v.add("task %s listed in %q but belongs to %q", id, key, t.ColumnID)
			case t.Archived:
				v.add("archived task %s listed in %q", id, key)
			}
		}
	}

	for key, t := range s.Tasks {
		if t.ID != key {
			v.add("task %q has id %q", key, t.ID)
		}
		if !t.Priority.Valid() {
			v.add("task %s has invalid priority %q", key, t.Priority)
		}
		if _, ok := s.Columns[t.ColumnID]; !ok {
			v.add("task %s references unknown column %q", key, t.ColumnID)
			continue
		}
		if !t.Archived {
			if _, ok := listed[key]; !ok {
				v.add("active task %s not listed in %q", key, t.ColumnID)
			}
		}
	}

	if len(v.Problems) > 0 {
		return v
	}
	return nil
}
