package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-manage/internal/model"
	"perf-manage/internal/repository"
	"perf-manage/internal/session"
)

func TestDigestPerRole(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskLog(repository.NewTaskRepository(db))
	approval := NewApproval(repository.NewSubmissionRepository(db))
	catalog := NewCatalog(repository.NewKPIRepository(db))
	require.NoError(t, tasks.Mount(ctx, 1))
	require.NoError(t, approval.Mount(ctx, 2))
	require.NoError(t, catalog.Mount(ctx, 3))

	digest := NewDigestService(tasks, approval, catalog)
	now := time.Date(2025, 10, 4, 9, 0, 0, 0, time.UTC)

	text, err := digest.Summary(ctx, session.Session{UserID: 1, Role: model.RoleEmployee}, now)
	require.NoError(t, err)
	assert.Contains(t, text, "Prepare Weekly Progress Report")
	assert.Contains(t, text, "Awaiting approval: 1")

	text, err = digest.Summary(ctx, session.Session{UserID: 2, Role: model.RoleHead}, now)
	require.NoError(t, err)
	assert.Contains(t, text, "Submissions to review: 2")

	text, err = digest.Summary(ctx, session.Session{UserID: 3, Role: model.RoleAdmin}, now)
	require.NoError(t, err)
	assert.Contains(t, text, "Active KPIs: <b>3</b>")

	_, err = digest.Summary(ctx, session.Session{UserID: 3, Role: "guest"}, now)
	assert.Error(t, err)
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("09:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 9 * * *", spec)

	for _, bad := range []string{"9", "24:00", "12:60", "aa:bb"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestSchedulerRejectsNonPositiveInterval(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	_, err := s.Schedule("", 0, func() {})
	assert.Error(t, err)

	id, err := s.Schedule("07:15", 0, func() {})
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestDigestOverdueAfterDueDay(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskLog(repository.NewTaskRepository(db))
	require.NoError(t, tasks.Mount(ctx, 1))
	digest := NewDigestService(tasks, NewApproval(repository.NewSubmissionRepository(db)), NewCatalog(repository.NewKPIRepository(db)))
	sess := session.Session{UserID: 1, Role: model.RoleEmployee}

	text, err := digest.Summary(ctx, sess, time.Date(2025, 10, 5, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, text, "⏳ Prepare Weekly Progress Report")
	assert.NotContains(t, text, "⚠️")

	text, err = digest.Summary(ctx, sess, time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, text, "⚠️ Prepare Weekly Progress Report")
}
