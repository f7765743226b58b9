package criteria

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("criterion not found")

type (
	Repository interface {
		CreateCriterion(ctx context.Context, crit Criterion) (Criterion, error)
		QueryAllCriteria(ctx context.Context) ([]Criterion, error)
		GetCriterion(ctx context.Context, id string) (Criterion, error)
		UpdateCriterion(ctx context.Context, crit Criterion) (Criterion, error)
		DeleteCriterion(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewCriterion) (Criterion, error) {
	crit := Criterion{
		ID:          uuid.New().String(),
		Name:        nc.Name,
		Description: nc.Description,
		MaxScore:    nc.MaxScore,
		Weight:      nc.Weight,
		IsActive:    true,
	}
	if nc.IsActive != nil {
		crit.IsActive = *nc.IsActive
	}
	return svc.repo.CreateCriterion(ctx, crit)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Criterion, error) {
	return svc.repo.QueryAllCriteria(ctx)
}

// QueryActive returns the criteria currently offered to scoring teachers.
func (svc *Service) QueryActive(ctx context.Context) ([]Criterion, error) {
	all, err := svc.repo.QueryAllCriteria(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Criterion, 0, len(all))
	for _, crit := range all {
		if crit.IsActive {
			active = append(active, crit)
		}
	}
	return active, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Criterion, error) {
	return svc.repo.GetCriterion(ctx, id)
}

// Update modifies a criterion definition. Evaluations recorded before the change
// keep their snapshotted max score and weight.
func (svc *Service) Update(ctx context.Context, id string, uc UpdateCriterion) (Criterion, error) {
	crit, err := svc.repo.GetCriterion(ctx, id)
	if err != nil {
		return Criterion{}, err
	}

	if uc.Name != "" {
		crit.Name = uc.Name
	}
	if uc.Description != nil {
		crit.Description = *uc.Description
	}
	if uc.MaxScore != nil {
		crit.MaxScore = *uc.MaxScore
	}
	if uc.Weight != nil {
		crit.Weight = *uc.Weight
	}
	if uc.IsActive != nil {
		crit.IsActive = *uc.IsActive
	}
	return svc.repo.UpdateCriterion(ctx, crit)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCriterion(ctx, id)
}
