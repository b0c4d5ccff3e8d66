package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"perf-manage/internal/model"
	"perf-manage/internal/repository"
)

// KPIDraft is the content of the KPI edit dialog. A zero ID means a new KPI.
type KPIDraft struct {
	ID          int64
	Name        string
	Description string
	Role        model.KPIRole
	Status      model.KPIStatus
}

func (d KPIDraft) IsNew() bool {
	return d.ID == 0
}

// Catalog manages an admin's KPI definitions.
type Catalog struct {
	repo     *repository.KPIRepository
	mu       sync.Mutex
	deleting map[uint]int64
}

func NewCatalog(repo *repository.KPIRepository) *Catalog {
	return &Catalog{repo: repo, deleting: make(map[uint]int64)}
}

func (s *Catalog) Mount(ctx context.Context, ownerID uint) error {
	if err := s.repo.Reset(ctx, ownerID, repository.SeedKPIs(ownerID)); err != nil {
		return err
	}
	s.CancelDelete(ownerID)
	return nil
}

func (s *Catalog) List(ctx context.Context, ownerID uint) ([]model.KPI, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *Catalog) Count(ctx context.Context, ownerID uint, status model.KPIStatus) (int64, error) {
	return s.repo.CountByStatus(ctx, ownerID, status)
}

// AddNew opens the edit dialog with blank defaults.
func (s *Catalog) AddNew() KPIDraft {
	return KPIDraft{Role: model.KPIRoleEmployee, Status: model.KPIActive}
}

// Edit opens the edit dialog seeded with an existing KPI.
func (s *Catalog) Edit(ctx context.Context, ownerID uint, id int64) (KPIDraft, error) {
	kpi, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return KPIDraft{}, notFound(err, "find kpi")
	}
	return KPIDraft{
		ID:          kpi.ID,
		Name:        kpi.Name,
		Description: kpi.Description,
		Role:        kpi.Role,
		Status:      kpi.Status,
	}, nil
}

// Save replaces the KPI the draft was opened from, or appends a new one with
// an id taken from now.
func (s *Catalog) Save(ctx context.Context, ownerID uint, draft KPIDraft, now time.Time) (*model.KPI, Notice, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, Notice{}, invalid("KPI name is required.")
	}
	role := draft.Role
	if role == "" {
		role = model.KPIRoleEmployee
	}
	if !role.Valid() {
		return nil, Notice{}, invalid("Unknown target role %q.", draft.Role)
	}
	status := draft.Status
	if status == "" {
		status = model.KPIActive
	}
	if !status.Valid() {
		return nil, Notice{}, invalid("Unknown status %q.", draft.Status)
	}

	kpi := &model.KPI{
		OwnerID:     ownerID,
		ID:          draft.ID,
		Name:        name,
		Description: strings.TrimSpace(draft.Description),
		Role:        role,
		Status:      status,
	}

	if !draft.IsNew() {
		if err := s.repo.Replace(ctx, kpi); err != nil {
			return nil, Notice{}, notFound(err, "update kpi")
		}
		return kpi, success("KPI %q updated successfully.", kpi.Name), nil
	}

	kpi.ID = now.UnixMilli()
	if err := s.repo.Append(ctx, kpi); err != nil {
		return nil, Notice{}, err
	}
	return kpi, success("KPI %q created successfully.", kpi.Name), nil
}

// RequestDelete stages a KPI for deletion. Nothing is removed until ConfirmDelete.
func (s *Catalog) RequestDelete(ctx context.Context, ownerID uint, id int64) (*model.KPI, error) {
	kpi, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, notFound(err, "find kpi")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleting[ownerID] = kpi.ID
	return kpi, nil
}

func (s *Catalog) PendingDelete(ownerID uint) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.deleting[ownerID]
	return id, ok
}

func (s *Catalog) CancelDelete(ownerID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deleting, ownerID)
}

// ConfirmDelete removes exactly the staged KPI.
func (s *Catalog) ConfirmDelete(ctx context.Context, ownerID uint) (*model.KPI, Notice, error) {
	s.mu.Lock()
	id, ok := s.deleting[ownerID]
	delete(s.deleting, ownerID)
	s.mu.Unlock()
	if !ok {
		return nil, Notice{}, ErrNothingStaged
	}

	kpi, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, Notice{}, notFound(err, "find kpi")
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return nil, Notice{}, notFound(err, "delete kpi")
	}
	return kpi, success("KPI %q deleted successfully.", kpi.Name), nil
}

// Import saves each draft as a new KPI. Drafts that fail validation are
// counted as skipped; any other error stops the import.
func (s *Catalog) Import(ctx context.Context, ownerID uint, drafts []KPIDraft, now time.Time) ([]model.KPI, int, Notice, error) {
	var (
		added   []model.KPI
		skipped int
	)
	for _, d := range drafts {
		d.ID = 0
		kpi, _, err := s.Save(ctx, ownerID, d, now)
		if errors.Is(err, ErrValidation) {
			skipped++
			continue
		}
		if err != nil {
			return added, skipped, Notice{}, err
		}
		added = append(added, *kpi)
	}
	return added, skipped, info("Imported %d KPIs, skipped %d rows.", len(added), skipped), nil
}
