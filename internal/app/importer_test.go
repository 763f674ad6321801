package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskbreeze/internal/board"
	"github.com/existflow/taskbreeze/internal/model"
	"github.com/existflow/taskbreeze/internal/remote"
)

type fakeSource struct {
	fakeLocal
	marked bool
}

func (f *fakeSource) HasImported(context.Context) (bool, error) { return f.marked, nil }

func (f *fakeSource) MarkImported(context.Context) error {
	f.marked = true
	return nil
}

type fakeTarget struct {
	boards   []model.Board
	created  []remote.BoardInput
	imported []model.Task
	failIDs  map[string]bool
}

func (f *fakeTarget) ListBoards(context.Context) ([]model.Board, error) { return f.boards, nil }

func (f *fakeTarget) CreateBoard(_ context.Context, in remote.BoardInput) (model.Board, error) {
	f.created = append(f.created, in)
	return model.Board{ID: "b-new", Title: in.Title, Color: in.Color, IsDefault: in.IsDefault}, nil
}

func (f *fakeTarget) ImportTask(_ context.Context, boardID string, t model.Task) (model.Task, error) {
	if f.failIDs[t.ID] {
		return model.Task{}, errors.New("rejected")
	}
	t.BoardID = boardID
	f.imported = append(f.imported, t)
	return t, nil
}

func localSnapshot(t *testing.T) *model.BoardState {
	t.Helper()
	s := board.NewState()
	var err error
	s, err = board.Add(s, "a", model.TaskInput{Title: "a", ColumnID: model.ColumnDone}, clock)
	require.NoError(t, err)
	s, err = board.Add(s, "b", model.TaskInput{Title: "b", ColumnID: model.ColumnTodo}, clock)
	require.NoError(t, err)
	s, err = board.Add(s, "c", model.TaskInput{Title: "c", ColumnID: model.ColumnTodo}, clock)
	require.NoError(t, err)
	s, err = board.Archive(s, "c", clock)
	require.NoError(t, err)
	return &s
}

func TestImporter_FirstLogin(t *testing.T) {
	src := &fakeSource{fakeLocal: fakeLocal{state: localSnapshot(t)}}
	dst := &fakeTarget{failIDs: map[string]bool{}}

	res, err := NewImporter(src, dst).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 3, res.Imported)
	assert.True(t, src.marked)

	require.Len(t, dst.created, 1)
	assert.Equal(t, ImportBoardTitle, dst.created[0].Title)
	assert.Equal(t, ImportBoardDescription, *dst.created[0].Description)
	assert.Equal(t, "#3b82f6", dst.created[0].Color)
	assert.True(t, dst.created[0].IsDefault)

	assert.Equal(t, []string{"b", "a", "c"}, ids(dst.imported))
	assert.True(t, dst.imported[2].Archived)
	assert.Equal(t, "b-new", dst.imported[0].BoardID)
}

func TestImporter_Skips(t *testing.T) {
	ctx := context.Background()

	marked := &fakeSource{fakeLocal: fakeLocal{state: localSnapshot(t)}, marked: true}
	res, err := NewImporter(marked, &fakeTarget{}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "already imported", res.Skipped)

	empty := &fakeSource{}
	res, err = NewImporter(empty, &fakeTarget{}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "no local tasks", res.Skipped)
	assert.False(t, empty.marked)

	withBoards := &fakeSource{fakeLocal: fakeLocal{state: localSnapshot(t)}}
	dst := &fakeTarget{boards: []model.Board{{ID: "existing"}}}
	res, err = NewImporter(withBoards, dst).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "account already has boards", res.Skipped)
	assert.Empty(t, dst.created)
}

func TestImporter_BestEffort(t *testing.T) {
	src := &fakeSource{fakeLocal: fakeLocal{state: localSnapshot(t)}}
	dst := &fakeTarget{failIDs: map[string]bool{"a": true}}

	res, err := NewImporter(src, dst).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Failed)
	assert.True(t, src.marked)
}
