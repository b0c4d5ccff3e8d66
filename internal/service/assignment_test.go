package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-manage/internal/model"
	"perf-manage/internal/repository"
)

func newAssignment(t *testing.T) *Assignment {
	t.Helper()
	svc := NewAssignment(repository.NewAssignmentRepository(newTestDB(t)))
	require.NoError(t, svc.Mount(context.Background(), 1))
	return svc
}

func TestSeedAssignmentsResolveMembers(t *testing.T) {
	svc := newAssignment(t)

	tasks, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(101), tasks[0].ID)
	require.Len(t, tasks[0].AssignedTo, 1)
	assert.Equal(t, "Jane Smith", tasks[0].AssignedTo[0].Name)
	assert.Len(t, tasks[1].AssignedTo, 2)

	members, err := svc.Members(context.Background())
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestSubmitWithoutMembersIsRejected(t *testing.T) {
	ctx := context.Background()
	svc := newAssignment(t)

	form := NewAssignForm()
	form.Title = "X"
	_, _, err := svc.Submit(ctx, 1, form, time.Now())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please provide a title and select a team member.", verr.Message)

	form = NewAssignForm()
	form.Toggle(1)
	_, _, err = svc.Submit(ctx, 1, form, time.Now())
	assert.ErrorIs(t, err, ErrValidation)

	tasks, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestSubmitPrependsPendingTask(t *testing.T) {
	ctx := context.Background()
	svc := newAssignment(t)
	now := time.Date(2025, 10, 4, 8, 0, 0, 0, time.UTC)

	form := NewAssignForm()
	form.Title = "  Inspect embankment  "
	form.Priority = model.PriorityHigh
	form.Toggle(1)
	form.Toggle(3)

	task, notice, err := svc.Submit(ctx, 1, form, now)
	require.NoError(t, err)
	assert.Equal(t, NoticeSuccess, notice.Level)
	assert.Equal(t, now.UnixMilli(), task.ID)
	assert.Equal(t, model.TaskPending, task.Status)
	assert.Equal(t, "Inspect embankment", task.Title)

	tasks, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Len(t, tasks[0].AssignedTo, 2)

	again, _, err := svc.Submit(ctx, 1, form, now)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli()+1, again.ID, "colliding timestamp id is bumped")
}

func TestAssignFormToggleAndReset(t *testing.T) {
	form := NewAssignForm()
	form.Toggle(2)
	form.Toggle(3)
	form.Toggle(2)
	assert.Equal(t, []int64{3}, form.MemberIDs)
	assert.True(t, form.Selected(3))
	assert.False(t, form.Selected(2))

	form.Title = "T"
	form.Priority = model.PriorityLow
	form.Reset()
	assert.Equal(t, NewAssignForm(), form)
}
