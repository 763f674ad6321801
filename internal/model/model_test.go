package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{
		"low": PriorityLow, "L": PriorityLow,
		"": PriorityMedium, "Med": PriorityMedium,
		" high ": PriorityHigh, "h": PriorityHigh,
	} {
		got, err := ParsePriority(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePriority("urgent")
	assert.Error(t, err)
}

func TestParseColumnID(t *testing.T) {
	for in, want := range map[string]ColumnID{
		"todo": ColumnTodo, "To-Do": ColumnTodo,
		"in-progress": ColumnInProgress, "wip": ColumnInProgress,
		"On Hold": ColumnOnHold, "blocked": ColumnOnHold,
		"DONE": ColumnDone,
	} {
		got, err := ParseColumnID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseColumnID("backlog")
	assert.Error(t, err)
	assert.False(t, ColumnID("backlog").Valid())
	assert.Equal(t, "backlog", ColumnID("backlog").Title())
	assert.Equal(t, "In Progress", ColumnInProgress.Title())
}

func TestTaskMatches(t *testing.T) {
	task := Task{Title: "Buy Milk", Description: "from the corner shop"}
	assert.True(t, task.Matches(""))
	assert.True(t, task.Matches("milk"))
	assert.True(t, task.Matches("CORNER"))
	assert.False(t, task.Matches("bread"))
}

func TestDueDates(t *testing.T) {
	due, err := ParseDueDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", FormatDueDate(due))

	none, err := ParseDueDate("  ")
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.Empty(t, FormatDueDate(none))

	_, err = ParseDueDate("19/10/2026")
	assert.Error(t, err)

	task := Task{DueDate: due}
	morning := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	assert.False(t, task.IsOverdue(morning))
	assert.True(t, task.IsDueToday(morning))

	nextDay := morning.Add(24 * time.Hour)
	assert.True(t, task.IsOverdue(nextDay))
	assert.False(t, task.IsDueToday(nextDay))

	assert.False(t, Task{}.IsOverdue(nextDay))
}

func TestApplyKeepsIdentity(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	task := Task{ID: "t1", CreatedAt: created, Order: 3}
	in := TaskInput{Title: "new", Priority: PriorityHigh, ColumnID: ColumnDone}

	got := task.Apply(in)
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, 3, got.Order)
	assert.Equal(t, in, got.Input())
}

func TestExpiry(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(time.Hour)))

	l := MagicLink{ExpiresAt: now.Add(-time.Second)}
	assert.True(t, l.IsExpired(now))
}
