package dummydb

import (
	"context"
	"sort"

	"github.com/tathmini/tathmini/core/criteria"
)

type criteriaRepository struct {
	db *criteriaTable
}

var _ criteria.Repository = (*criteriaRepository)(nil) // interface compliance check

func NewCriteriaRepository(db *DB) criteria.Repository {
	return &criteriaRepository{db: db.criteria}
}

func (repo *criteriaRepository) query() []criteria.Criterion {
	rows := make([]*criteriaRow, 0, len(repo.db.table))
	for _, row := range repo.db.table {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	crits := make([]criteria.Criterion, 0, len(rows))
	for _, row := range rows {
		crits = append(crits, row.crit)
	}
	return crits
}

func (repo *criteriaRepository) CreateCriterion(_ context.Context, crit criteria.Criterion) (criteria.Criterion, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	repo.db.table[crit.ID] = &criteriaRow{seq: repo.db.seq, crit: crit}
	return crit, nil
}

func (repo *criteriaRepository) QueryAllCriteria(_ context.Context) ([]criteria.Criterion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *criteriaRepository) GetCriterion(_ context.Context, id string) (criteria.Criterion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row.crit, nil
	}
	return criteria.Criterion{}, criteria.ErrNotFound
}

func (repo *criteriaRepository) UpdateCriterion(_ context.Context, crit criteria.Criterion) (criteria.Criterion, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[crit.ID]
	if !ok {
		return criteria.Criterion{}, criteria.ErrNotFound
	}
	row.crit = crit
	return crit, nil
}

func (repo *criteriaRepository) DeleteCriterion(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return criteria.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
