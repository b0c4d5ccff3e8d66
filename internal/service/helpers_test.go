package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"perf-manage/internal/repository"
)

// newTestDB opens a private in-memory database for one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func mountedTaskLog(t *testing.T, owners ...uint) *TaskLog {
	t.Helper()
	svc := NewTaskLog(repository.NewTaskRepository(newTestDB(t)))
	for _, o := range owners {
		require.NoError(t, svc.Mount(context.Background(), o))
	}
	return svc
}
