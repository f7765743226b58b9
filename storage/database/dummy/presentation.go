package dummydb

import (
	"context"
	"sort"

	"github.com/tathmini/tathmini/core/presentation"
)

type presentationRepository struct {
	db *presentationTable
}

var _ presentation.Repository = (*presentationRepository)(nil) // interface compliance check

func NewPresentationRepository(db *DB) presentation.Repository {
	return &presentationRepository{db: db.presentation}
}

func (repo *presentationRepository) query() []presentation.Presentation {
	rows := make([]*presentationRow, 0, len(repo.db.table))
	for _, row := range repo.db.table {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	pres := make([]presentation.Presentation, 0, len(rows))
	for _, row := range rows {
		pres = append(pres, row.pres)
	}
	return pres
}

func (repo *presentationRepository) CreatePresentation(_ context.Context, pres presentation.Presentation) (presentation.Presentation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	repo.db.table[pres.ID] = &presentationRow{seq: repo.db.seq, pres: pres}
	return pres, nil
}

func (repo *presentationRepository) QueryAllPresentations(_ context.Context) ([]presentation.Presentation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *presentationRepository) GetPresentation(_ context.Context, id string) (presentation.Presentation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row.pres, nil
	}
	return presentation.Presentation{}, presentation.ErrNotFound
}

func (repo *presentationRepository) FilterPresentations(_ context.Context, filter presentation.QueryFilter) ([]presentation.Presentation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []presentation.Presentation
	for _, pres := range repo.query() {
		if filter.StudentID != 0 && pres.StudentID != filter.StudentID {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIn(pres.Status, filter.Statuses) {
			continue
		}
		filtered = append(filtered, pres)
	}
	return filtered, nil
}

func (repo *presentationRepository) UpdatePresentation(_ context.Context, pres presentation.Presentation) (presentation.Presentation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[pres.ID]
	if !ok {
		return presentation.Presentation{}, presentation.ErrNotFound
	}
	row.pres = pres
	return pres, nil
}

func (repo *presentationRepository) DeletePresentation(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return presentation.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func statusIn(status presentation.Status, statuses []presentation.Status) bool {
	for _, s := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
