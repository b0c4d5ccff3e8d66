package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-manage/internal/model"
)

func ids(tasks []model.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestTaskLogTabsFilterByStatus(t *testing.T) {
	ctx := context.Background()
	svc := mountedTaskLog(t, 1)

	assert.Equal(t, model.TaskPending, svc.Tab(1))
	pending, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(pending))

	require.NoError(t, svc.SetTab(1, model.TaskCompleted))
	completed, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(completed))

	require.NoError(t, svc.SetTab(1, model.TaskApproved))
	approved, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, ids(approved))

	assert.ErrorIs(t, svc.SetTab(1, model.TaskStatus("Archived")), ErrValidation)
}

func TestConfirmCompletionCompletesStagedTask(t *testing.T) {
	ctx := context.Background()
	svc := mountedTaskLog(t, 1)
	now := time.Date(2025, 10, 3, 15, 30, 0, 0, time.UTC)

	before, err := svc.ListStatus(ctx, 1, model.TaskPending)
	require.NoError(t, err)
	other := before[1]

	staged, err := svc.OpenCompleteModal(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), staged.ID)
	id, ok := svc.Staged(1)
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	done, err := svc.ConfirmCompletion(ctx, 1, now)
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, done.Status)
	require.NotNil(t, done.CompletedDate)
	assert.Equal(t, "2025-10-03", done.CompletedDate.Format("2006-01-02"))

	_, ok = svc.Staged(1)
	assert.False(t, ok, "dialog closes after confirmation")

	completed, err := svc.ListStatus(ctx, 1, model.TaskCompleted)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(completed))

	after, err := svc.ListStatus(ctx, 1, model.TaskPending)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, other, after[0], "untargeted task is unchanged")
}

func TestCompletionOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	svc := mountedTaskLog(t, 1)

	_, err := svc.OpenCompleteModal(ctx, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.OpenCompleteModal(ctx, 1, 4)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.OpenCompleteModal(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ConfirmCompletion(ctx, 1, time.Now())
	assert.ErrorIs(t, err, ErrNothingStaged)
}

func TestConfirmTwiceDoesNotRecomplete(t *testing.T) {
	ctx := context.Background()
	svc := mountedTaskLog(t, 1)

	_, err := svc.OpenCompleteModal(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.ConfirmCompletion(ctx, 1, time.Now())
	require.NoError(t, err)

	_, err = svc.ConfirmCompletion(ctx, 1, time.Now())
	assert.ErrorIs(t, err, ErrNothingStaged)
}

func TestCloseModalLeavesTaskPending(t *testing.T) {
	ctx := context.Background()
	svc := mountedTaskLog(t, 1)

	_, err := svc.OpenCompleteModal(ctx, 1, 1)
	require.NoError(t, err)
	svc.CloseModal(1)

	_, err = svc.ConfirmCompletion(ctx, 1, time.Now())
	assert.ErrorIs(t, err, ErrNothingStaged)

	pending, err := svc.ListStatus(ctx, 1, model.TaskPending)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(pending))
}

func TestTaskLogStoresAreIndependent(t *testing.T) {
	ctx := context.Background()
	svc := mountedTaskLog(t, 1, 2)

	_, err := svc.OpenCompleteModal(ctx, 1, 1)
	require.NoError(t, err)
	_, err = svc.ConfirmCompletion(ctx, 1, time.Now())
	require.NoError(t, err)

	pending, err := svc.ListStatus(ctx, 2, model.TaskPending)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(pending))

	require.NoError(t, svc.Mount(ctx, 1))
	pending, err = svc.ListStatus(ctx, 1, model.TaskPending)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(pending), "mount restores seed data")
}
