package service

import (
	"context"
	"sync"

	"perf-manage/internal/model"
	"perf-manage/internal/repository"
)

// Approval is the project head's review queue of team submissions.
type Approval struct {
	repo    *repository.SubmissionRepository
	mu      sync.Mutex
	filters map[uint]model.SubmissionStatus
}

func NewApproval(repo *repository.SubmissionRepository) *Approval {
	return &Approval{repo: repo, filters: make(map[uint]model.SubmissionStatus)}
}

func (s *Approval) Mount(ctx context.Context, ownerID uint) error {
	if err := s.repo.Reset(ctx, ownerID, repository.SeedSubmissions(ownerID)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[ownerID] = model.SubmissionPending
	return nil
}

func (s *Approval) Filter(ownerID uint) model.SubmissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.filters[ownerID]; ok {
		return f
	}
	return model.SubmissionPending
}

func (s *Approval) SetFilter(ownerID uint, status model.SubmissionStatus) error {
	if !status.Valid() {
		return invalid("Unknown filter %q.", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[ownerID] = status
	return nil
}

func (s *Approval) List(ctx context.Context, ownerID uint) ([]model.Submission, error) {
	return s.ListStatus(ctx, ownerID, s.Filter(ownerID))
}

func (s *Approval) ListStatus(ctx context.Context, ownerID uint, status model.SubmissionStatus) ([]model.Submission, error) {
	return s.repo.ListByStatus(ctx, ownerID, status)
}

func (s *Approval) Count(ctx context.Context, ownerID uint, status model.SubmissionStatus) (int64, error) {
	return s.repo.CountByStatus(ctx, ownerID, status)
}

// UpdateStatus records the head's decision. The current status is not
// checked, so an already decided submission can be decided again.
func (s *Approval) UpdateStatus(ctx context.Context, ownerID uint, id int64, status model.SubmissionStatus) (*model.Submission, error) {
	if status != model.SubmissionApproved && status != model.SubmissionRejected {
		return nil, invalid("A submission can only be approved or rejected.")
	}
	sub, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, notFound(err, "find submission")
	}
	if err := s.repo.SetStatus(ctx, sub, status); err != nil {
		return nil, err
	}
	return sub, nil
}
