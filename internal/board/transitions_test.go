package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskbreeze/internal/model"
)

var (
	t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

func input(title string, col model.ColumnID) model.TaskInput {
	return model.TaskInput{Title: title, Priority: model.PriorityMedium, ColumnID: col}
}

func mustAdd(t *testing.T, s model.BoardState, id string, in model.TaskInput) model.BoardState {
	t.Helper()
	next, err := Add(s, id, in, t0)
	require.NoError(t, err)
	return next
}

func TestScenario_AddMoveArchiveDelete(t *testing.T) {
	s := NewState()
	require.Len(t, s.Columns, 4)

	in := input("Write report", model.ColumnTodo)
	in.Priority = model.PriorityHigh
	s = mustAdd(t, s, "T1", in)
	assert.Equal(t, []string{"T1"}, s.Columns[model.ColumnTodo].TaskIDs)
	assert.Equal(t, model.PriorityHigh, s.Tasks["T1"].Priority)

	s, err := Move(s, "T1", model.ColumnDone, t1)
	require.NoError(t, err)
	assert.Empty(t, s.Columns[model.ColumnTodo].TaskIDs)
	assert.Equal(t, []string{"T1"}, s.Columns[model.ColumnDone].TaskIDs)

	s, err = Archive(s, "T1", t2)
	require.NoError(t, err)
	assert.Empty(t, s.Columns[model.ColumnDone].TaskIDs)
	assert.True(t, s.Tasks["T1"].Archived)

	s, err = Delete(s, "T1")
	require.NoError(t, err)
	assert.NotContains(t, s.Tasks, "T1")
	require.NoError(t, Validate(s))
}

func TestAdd_AppendsExactlyOnce(t *testing.T) {
	s := NewState()
	for i, id := range []string{"a", "b", "c"} {
		before := len(s.Columns[model.ColumnInProgress].TaskIDs)
		s = mustAdd(t, s, id, input(id, model.ColumnInProgress))
		ids := s.Columns[model.ColumnInProgress].TaskIDs
		require.Len(t, ids, before+1)
		assert.Equal(t, id, ids[len(ids)-1])
		assert.Equal(t, i, s.Tasks[id].Order)
		assert.Equal(t, t0, s.Tasks[id].CreatedAt)
	}
	require.NoError(t, Validate(s))
}

func TestAdd_InvalidColumn(t *testing.T) {
	s := NewState()
	_, err := Add(s, "x", input("x", "backlog"), t0)
	require.ErrorIs(t, err, ErrInvalidColumn)
	assert.Empty(t, s.Tasks)
}

func TestAdd_DuplicateAndPriority(t *testing.T) {
	s := mustAdd(t, NewState(), "a", input("a", model.ColumnTodo))
	_, err := Add(s, "a", input("again", model.ColumnTodo), t0)
	require.ErrorIs(t, err, ErrDuplicateTask)

	in := input("b", model.ColumnTodo)
	in.Priority = "urgent"
	_, err = Add(s, "b", in, t0)
	require.ErrorIs(t, err, ErrInvalidPriority)

	in.Priority = ""
	s, err = Add(s, "b", in, t0)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, s.Tasks["b"].Priority)
}

func TestTransitions_DoNotMutateInput(t *testing.T) {
	s := mustAdd(t, NewState(), "a", input("a", model.ColumnTodo))
	snapshot := Clone(s)

	_, err := Move(s, "a", model.ColumnDone, t1)
	require.NoError(t, err)
	_, err = Archive(s, "a", t1)
	require.NoError(t, err)
	_, err = Delete(s, "a")
	require.NoError(t, err)
	_, err = Add(s, "b", input("b", model.ColumnTodo), t1)
	require.NoError(t, err)

	assert.Equal(t, snapshot, s)
}

func TestEdit_ColumnChangeMovesIDOnce(t *testing.T) {
	s := NewState()
	s = mustAdd(t, s, "a", input("a", model.ColumnTodo))
	s = mustAdd(t, s, "b", input("b", model.ColumnTodo))
	s = mustAdd(t, s, "c", input("c", model.ColumnOnHold))

	edited := s.Tasks["a"]
	edited.Title = "a2"
	edited.ColumnID = model.ColumnOnHold
	s, err := Edit(s, edited, t1)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, s.Columns[model.ColumnTodo].TaskIDs)
	assert.Equal(t, []string{"c", "a"}, s.Columns[model.ColumnOnHold].TaskIDs)
	assert.Equal(t, "a2", s.Tasks["a"].Title)
	assert.Equal(t, 1, s.Tasks["a"].Order)
	assert.Equal(t, t0, s.Tasks["a"].CreatedAt)
	assert.Equal(t, t1, s.Tasks["a"].UpdatedAt)
	require.NoError(t, Validate(s))
}

func TestEdit_InPlace(t *testing.T) {
	s := NewState()
	s = mustAdd(t, s, "a", input("a", model.ColumnTodo))
	s = mustAdd(t, s, "b", input("b", model.ColumnTodo))

	edited := s.Tasks["a"]
	edited.Description = "details"
	s, err := Edit(s, edited, t1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, s.Columns[model.ColumnTodo].TaskIDs)
	assert.Equal(t, "details", s.Tasks["a"].Description)
}

func TestEdit_Errors(t *testing.T) {
	s := mustAdd(t, NewState(), "a", input("a", model.ColumnTodo))

	_, err := Edit(s, model.Task{ID: "nope", ColumnID: model.ColumnTodo}, t1)
	require.ErrorIs(t, err, ErrTaskNotFound)

	bad := s.Tasks["a"]
	bad.ColumnID = "later"
	_, err = Edit(s, bad, t1)
	require.ErrorIs(t, err, ErrInvalidColumn)
}

func TestMove_SameColumnAndInvalidTarget(t *testing.T) {
	s := mustAdd(t, NewState(), "a", input("a", model.ColumnTodo))

	same, err := Move(s, "a", model.ColumnTodo, t1)
	require.NoError(t, err)
	assert.Equal(t, s, same)

	_, err = Move(s, "a", "nowhere", t1)
	require.ErrorIs(t, err, ErrInvalidColumn)

	_, err = Move(s, "missing", model.ColumnDone, t1)
	require.ErrorIs(t, err, ErrTaskNotFound)

	archived, err := Archive(s, "a", t1)
	require.NoError(t, err)
	_, err = Move(archived, "a", model.ColumnDone, t1)
	require.ErrorIs(t, err, ErrTaskArchived)
}

func TestReinsert_UndoesMove(t *testing.T) {
	s := NewState()
	s = mustAdd(t, s, "a", input("a", model.ColumnTodo))
	s = mustAdd(t, s, "b", input("b", model.ColumnTodo))
	s = mustAdd(t, s, "c", input("c", model.ColumnTodo))

	moved, err := Move(s, "b", model.ColumnDone, t1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, moved.Columns[model.ColumnTodo].TaskIDs)

	back, err := Reinsert(moved, "b", model.ColumnTodo, 1, t2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, back.Columns[model.ColumnTodo].TaskIDs)
	assert.Empty(t, back.Columns[model.ColumnDone].TaskIDs)
	assert.Equal(t, model.ColumnTodo, back.Tasks["b"].ColumnID)

	clamped, err := Reinsert(moved, "b", model.ColumnTodo, 99, t2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, clamped.Columns[model.ColumnTodo].TaskIDs)
}

func TestArchiveUnarchive_RoundTrip(t *testing.T) {
	s := NewState()
	s = mustAdd(t, s, "a", input("a", model.ColumnInProgress))
	s = mustAdd(t, s, "b", input("b", model.ColumnInProgress))

	archived, err := Archive(s, "a", t1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, archived.Columns[model.ColumnInProgress].TaskIDs)
	require.Contains(t, archived.Tasks, "a")
	assert.True(t, archived.Tasks["a"].Archived)
	require.NotNil(t, archived.Tasks["a"].ArchivedAt)
	assert.Equal(t, t1, *archived.Tasks["a"].ArchivedAt)
	require.NoError(t, Validate(archived))

	again, err := Archive(archived, "a", t2)
	require.NoError(t, err)
	assert.Equal(t, archived, again)

	restored, err := Unarchive(archived, "a", t2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, restored.Columns[model.ColumnInProgress].TaskIDs)
	assert.False(t, restored.Tasks["a"].Archived)
	assert.Nil(t, restored.Tasks["a"].ArchivedAt)
	require.NoError(t, Validate(restored))
}

func TestOrphanedTaskIsRejected(t *testing.T) {
	s := mustAdd(t, NewState(), "a", input("a", model.ColumnOnHold))
	delete(s.Columns, model.ColumnOnHold)

	_, err := Archive(s, "a", t1)
	require.ErrorIs(t, err, ErrOrphanedTask)
	_, err = Delete(s, "a")
	require.ErrorIs(t, err, ErrOrphanedTask)
	_, err = Move(s, "a", model.ColumnDone, t1)
	require.ErrorIs(t, err, ErrOrphanedTask)
}

func TestDelete(t *testing.T) {
	s := NewState()
	s = mustAdd(t, s, "a", input("a", model.ColumnTodo))
	s = mustAdd(t, s, "b", input("b", model.ColumnTodo))

	next, err := Delete(s, "a")
	require.NoError(t, err)
	assert.NotContains(t, next.Tasks, "a")
	assert.Equal(t, []string{"b"}, next.Columns[model.ColumnTodo].TaskIDs)

	same, err := Delete(next, "ghost")
	require.NoError(t, err)
	assert.Equal(t, next, same)

	archived, err := Archive(next, "b", t1)
	require.NoError(t, err)
	gone, err := Delete(archived, "b")
	require.NoError(t, err)
	assert.Empty(t, gone.Tasks)
}

func TestFromTasks(t *testing.T) {
	arch := t1
	tasks := []model.Task{
		{ID: "late", ColumnID: model.ColumnTodo, Priority: model.PriorityLow, Order: 1, CreatedAt: t0},
		{ID: "early", ColumnID: model.ColumnTodo, Priority: model.PriorityLow, Order: 0, CreatedAt: t1},
		{ID: "old", ColumnID: model.ColumnDone, Priority: model.PriorityLow, Archived: true, ArchivedAt: &arch},
		{ID: "lost", ColumnID: "icebox", Priority: model.PriorityLow},
	}
	s := FromTasks(tasks)
	assert.Equal(t, []string{"early", "late"}, s.Columns[model.ColumnTodo].TaskIDs)
	assert.Empty(t, s.Columns[model.ColumnDone].TaskIDs)
	assert.Contains(t, s.Tasks, "old")
	assert.NotContains(t, s.Tasks, "lost")
	require.NoError(t, Validate(s))
}
