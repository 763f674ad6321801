package board

import (
	"errors"
	"fmt"
	"time"

	"github.com/existflow/taskbreeze/internal/model"
)

var ErrInvalidPriority = errors.New("invalid priority")

func checkPriority(p model.Priority) (model.Priority, error) {
	if p == "" {
		return model.PriorityMedium, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}
	return p, nil
}

// Add creates a task from in with the given id and appends it to the end of
// its column. The order hint is the column length before insertion.
func Add(s model.BoardState, id string, in model.TaskInput, now time.Time) (model.BoardState, error) {
	col, ok := s.Columns[in.ColumnID]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrInvalidColumn, in.ColumnID)
	}
	t := model.Task{ID: id}.Apply(in)
	t.Order = len(col.TaskIDs)
	t.CreatedAt = now
	t.UpdatedAt = now
	return Insert(s, t)
}

// Insert places a complete task record in the state. Active tasks are
// appended to their column list; archived ones are only recorded.
func Insert(s model.BoardState, t model.Task) (model.BoardState, error) {
	if _, exists := s.Tasks[t.ID]; exists {
		return s, fmt.Errorf("%w: %s", ErrDuplicateTask, t.ID)
	}
	col, ok := s.Columns[t.ColumnID]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrInvalidColumn, t.ColumnID)
	}
	p, err := checkPriority(t.Priority)
	if err != nil {
		return s, err
	}
	t.Priority = p

	next := Clone(s)
	if !t.Archived {
		col.TaskIDs = append(append([]string{}, col.TaskIDs...), t.ID)
		next.Columns[t.ColumnID] = col
	}
	next.Tasks[t.ID] = t
	return next, nil
}

// Edit replaces the editable fields of an existing task with those of t.
// When the column changes the id moves from the old list to the end of the
// new one. Identity, creation time and archive state stay with the stored
// record.
func Edit(s model.BoardState, t model.Task, now time.Time) (model.BoardState, error) {
	old, ok := s.Tasks[t.ID]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrTaskNotFound, t.ID)
	}
	if _, ok := s.Columns[t.ColumnID]; !ok {
		return s, fmt.Errorf("%w: %q", ErrInvalidColumn, t.ColumnID)
	}
	p, err := checkPriority(t.Priority)
	if err != nil {
		return s, err
	}

	updated := old.Apply(t.Input())
	updated.Priority = p
	updated.UpdatedAt = now

	next := Clone(s)
	if !old.Archived && updated.ColumnID != old.ColumnID {
		if from, ok := next.Columns[old.ColumnID]; ok {
			from.TaskIDs = without(from.TaskIDs, old.ID)
			next.Columns[old.ColumnID] = from
		}
		to := next.Columns[updated.ColumnID]
		updated.Order = len(to.TaskIDs)
		to.TaskIDs = append(to.TaskIDs, updated.ID)
		next.Columns[updated.ColumnID] = to
	}
	next.Tasks[updated.ID] = updated
	return next, nil
}

// Move relocates an active task to the end of another column. Moving a task
// onto its own column returns an unchanged copy.
func Move(s model.BoardState, id string, column model.ColumnID, now time.Time) (model.BoardState, error) {
	t, err := activeTask(s, id)
	if err != nil {
		return s, err
	}
	to, ok := s.Columns[column]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	if t.ColumnID == column {
		return Clone(s), nil
	}
	return place(s, t, column, len(to.TaskIDs), now)
}

// Reinsert puts an active task back into column at index, clamped to the
// list bounds. It undoes a Move that took the task from that position.
func Reinsert(s model.BoardState, id string, column model.ColumnID, index int, now time.Time) (model.BoardState, error) {
	t, err := activeTask(s, id)
	if err != nil {
		return s, err
	}
	if _, ok := s.Columns[column]; !ok {
		return s, fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	return place(s, t, column, index, now)
}

func activeTask(s model.BoardState, id string) (model.Task, error) {
	t, ok := s.Tasks[id]
	if !ok {
		return t, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if t.Archived {
		return t, fmt.Errorf("%w: %s", ErrTaskArchived, id)
	}
	if _, ok := s.Columns[t.ColumnID]; !ok {
		return t, fmt.Errorf("%w: %s (%q)", ErrOrphanedTask, id, t.ColumnID)
	}
	return t, nil
}

func place(s model.BoardState, t model.Task, column model.ColumnID, index int, now time.Time) (model.BoardState, error) {
	next := Clone(s)

	from := next.Columns[t.ColumnID]
	from.TaskIDs = without(from.TaskIDs, t.ID)
	next.Columns[t.ColumnID] = from

	to := next.Columns[column]
	if index < 0 {
		index = 0
	}
	if index > len(to.TaskIDs) {
		index = len(to.TaskIDs)
	}
	ids := make([]string, 0, len(to.TaskIDs)+1)
	ids = append(ids, to.TaskIDs[:index]...)
	ids = append(ids, t.ID)
	ids = append(ids, to.TaskIDs[index:]...)
	to.TaskIDs = ids
	next.Columns[column] = to

	t.ColumnID = column
	t.Order = index
	t.UpdatedAt = now
	next.Tasks[t.ID] = t
	return next, nil
}

// Archive soft-deletes a task: it is flagged, stamped and removed from its
// column list but kept in the task mapping. Archiving an archived task is a no-op.
func Archive(s model.BoardState, id string, now time.Time) (model.BoardState, error) {
	t, ok := s.Tasks[id]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if t.Archived {
		return Clone(s), nil
	}
	if _, ok := s.Columns[t.ColumnID]; !ok {
		return s, fmt.Errorf("%w: %s (%q)", ErrOrphanedTask, id, t.ColumnID)
	}

	next := Clone(s)
	col := next.Columns[t.ColumnID]
	col.TaskIDs = without(col.TaskIDs, id)
	next.Columns[t.ColumnID] = col

	at := now
	t.Archived = true
	t.ArchivedAt = &at
	t.UpdatedAt = now
	next.Tasks[id] = t
	return next, nil
}

// Unarchive reverses Archive and appends the task to its original column
func Unarchive(s model.BoardState, id string, now time.Time) (model.BoardState, error) {
	t, ok := s.Tasks[id]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if !t.Archived {
		return Clone(s), nil
	}
	if _, ok := s.Columns[t.ColumnID]; !ok {
		return s, fmt.Errorf("%w: %s (%q)", ErrOrphanedTask, id, t.ColumnID)
	}

	next := Clone(s)
	col := next.Columns[t.ColumnID]
	if indexOf(col.TaskIDs, id) < 0 {
		t.Order = len(col.TaskIDs)
		col.TaskIDs = append(col.TaskIDs, id)
		next.Columns[t.ColumnID] = col
	}

	t.Archived = false
	t.ArchivedAt = nil
	t.UpdatedAt = now
	next.Tasks[id] = t
	return next, nil
}

// Delete removes a task from the mapping and from its column list. Deleting
// an unknown id returns an unchanged copy.
func Delete(s model.BoardState, id string) (model.BoardState, error) {
	t, ok := s.Tasks[id]
	if !ok {
		return Clone(s), nil
	}
	if _, ok := s.Columns[t.ColumnID]; !ok && !t.Archived {
		return s, fmt.Errorf("%w: %s (%q)", ErrOrphanedTask, id, t.ColumnID)
	}

	next := Clone(s)
	if col, ok := next.Columns[t.ColumnID]; ok {
		col.TaskIDs = without(col.TaskIDs, id)
		next.Columns[t.ColumnID] = col
	}
	delete(next.Tasks, id)
	return next, nil
}
