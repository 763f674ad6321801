package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskbreeze/internal/model"
)

func sampleBoard(t *testing.T) model.BoardState {
	t.Helper()
	s := NewState()
	s = mustAdd(t, s, "1", model.TaskInput{Title: "Plan sprint", Description: "Backlog grooming", ColumnID: model.ColumnTodo})
	s = mustAdd(t, s, "2", model.TaskInput{Title: "Fix login", Description: "OAuth redirect", ColumnID: model.ColumnInProgress})
	s = mustAdd(t, s, "3", model.TaskInput{Title: "Release notes", Description: "", ColumnID: model.ColumnDone})
	s = mustAdd(t, s, "4", model.TaskInput{Title: "Old spike", Description: "login research", ColumnID: model.ColumnDone})
	s, err := Archive(s, "4", t1)
	require.NoError(t, err)
	return s
}

func TestSearch_CaseInsensitiveTitleOrDescription(t *testing.T) {
	s := sampleBoard(t)

	got := Search(s, "LOGIN")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got = Search(s, "backlog")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	assert.Len(t, Search(s, ""), 3)
	assert.Empty(t, Search(s, "zzz"))
}

func TestColumnTasks(t *testing.T) {
	s := sampleBoard(t)
	done := ColumnTasks(s, model.ColumnDone, "")
	require.Len(t, done, 1)
	assert.Equal(t, "Release notes", done[0].Title)
	assert.Nil(t, ColumnTasks(s, "missing", ""))
}

func TestArchived_MostRecentFirst(t *testing.T) {
	s := sampleBoard(t)
	s, err := Archive(s, "1", t2)
	require.NoError(t, err)

	got := Archived(s, "")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "4", got[1].ID)

	got = Archived(s, "research")
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)
}

func TestCount(t *testing.T) {
	c := Count(sampleBoard(t))
	assert.Equal(t, 3, c.Active)
	assert.Equal(t, 1, c.Archived)
	assert.Equal(t, 1, c.ByColumn[model.ColumnDone])
	assert.Equal(t, 0, c.ByColumn[model.ColumnOnHold])
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(NewState()))
	require.NoError(t, Validate(sampleBoard(t)))

	broken := sampleBoard(t)
	col := broken.Columns[model.ColumnTodo]
	col.TaskIDs = append(col.TaskIDs, "2", "ghost")
	broken.Columns[model.ColumnTodo] = col

	err := Validate(broken)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Problems), 2)
	assert.Contains(t, err.Error(), "ghost")

	assert.Error(t, Validate(model.BoardState{}))
}
