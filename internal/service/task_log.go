package service

import (
	"context"
	"sync"
	"time"

	"perf-manage/internal/model"
	"perf-manage/internal/repository"
)

// TaskLog is the employee's task log: tabs by status and a
// mark-as-complete dialog that stages one task until confirmed.
type TaskLog struct {
	repo   *repository.TaskRepository
	mu     sync.Mutex
	tabs   map[uint]model.TaskStatus
	staged map[uint]int64
}

func NewTaskLog(repo *repository.TaskRepository) *TaskLog {
	return &TaskLog{
		repo:   repo,
		tabs:   make(map[uint]model.TaskStatus),
		staged: make(map[uint]int64),
	}
}

// Mount resets the owner's log to the seed tasks and the Pending tab.
func (s *TaskLog) Mount(ctx context.Context, ownerID uint) error {
	if err := s.repo.Reset(ctx, ownerID, repository.SeedTasks(ownerID)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[ownerID] = model.TaskPending
	delete(s.staged, ownerID)
	return nil
}

func (s *TaskLog) Tab(ownerID uint) model.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tab, ok := s.tabs[ownerID]; ok {
		return tab
	}
	return model.TaskPending
}

func (s *TaskLog) SetTab(ownerID uint, tab model.TaskStatus) error {
	if !tab.Valid() {
		return invalid("Unknown tab %q.", tab)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[ownerID] = tab
	return nil
}

// List returns the tasks shown under the active tab.
func (s *TaskLog) List(ctx context.Context, ownerID uint) ([]model.Task, error) {
	return s.ListStatus(ctx, ownerID, s.Tab(ownerID))
}

func (s *TaskLog) ListStatus(ctx context.Context, ownerID uint, status model.TaskStatus) ([]model.Task, error) {
	return s.repo.ListByStatus(ctx, ownerID, status)
}

func (s *TaskLog) Count(ctx context.Context, ownerID uint, status model.TaskStatus) (int64, error) {
	return s.repo.CountByStatus(ctx, ownerID, status)
}

// OpenCompleteModal stages a pending task for completion.
func (s *TaskLog) OpenCompleteModal(ctx context.Context, ownerID uint, taskID int64) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFound(err, "find task")
	}
	if task.Status != model.TaskPending {
		return nil, ErrInvalidTransition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[ownerID] = task.ID
	return task, nil
}

// Staged reports the task waiting in the completion dialog.
func (s *TaskLog) Staged(ownerID uint) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.staged[ownerID]
	return id, ok
}

// CloseModal drops the staged task without touching it.
func (s *TaskLog) CloseModal(ownerID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staged, ownerID)
}

// ConfirmCompletion completes the staged task, stamping the date of now, and
// closes the dialog whatever the outcome.
func (s *TaskLog) ConfirmCompletion(ctx context.Context, ownerID uint, now time.Time) (*model.Task, error) {
	s.mu.Lock()
	taskID, ok := s.staged[ownerID]
	delete(s.staged, ownerID)
	s.mu.Unlock()
	if !ok {
		return nil, ErrNothingStaged
	}

	task, err := s.repo.FindByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFound(err, "find task")
	}
	done, err := s.repo.MarkCompleted(ctx, task, dateOf(now))
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, ErrInvalidTransition
	}
	return task, nil
}

// dateOf truncates t to its calendar day in UTC.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
