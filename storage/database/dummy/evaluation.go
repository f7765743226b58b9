package dummydb

import (
	"context"
	"sort"

	"github.com/tathmini/tathmini/core/evaluation"
)

type evaluationRepository struct {
	db *evaluationTable
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *DB) evaluation.Repository {
	return &evaluationRepository{db: db.evaluation}
}

func (repo *evaluationRepository) query() []evaluation.Evaluation {
	rows := make([]*evaluationRow, 0, len(repo.db.table))
	for _, row := range repo.db.table {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	evals := make([]evaluation.Evaluation, 0, len(rows))
	for _, row := range rows {
		evals = append(evals, row.eval)
	}
	return evals
}

func (repo *evaluationRepository) CreateEvaluation(_ context.Context, eval evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	repo.db.table[eval.ID] = &evaluationRow{seq: repo.db.seq, eval: eval}
	return eval, nil
}

func (repo *evaluationRepository) QueryAllEvaluations(_ context.Context) ([]evaluation.Evaluation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *evaluationRepository) GetEvaluation(_ context.Context, id string) (evaluation.Evaluation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row.eval, nil
	}
	return evaluation.Evaluation{}, evaluation.ErrNotFound
}

func (repo *evaluationRepository) FilterEvaluations(_ context.Context, filter evaluation.QueryFilter) ([]evaluation.Evaluation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []evaluation.Evaluation
	for _, eval := range repo.query() {
		if filter.PresentationID != "" && eval.PresentationID != filter.PresentationID {
			continue
		}
		if filter.TeacherID != 0 && eval.TeacherID != filter.TeacherID {
			continue
		}
		filtered = append(filtered, eval)
	}
	return filtered, nil
}

func (repo *evaluationRepository) UpdateEvaluation(_ context.Context, eval evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[eval.ID]
	if !ok {
		return evaluation.Evaluation{}, evaluation.ErrNotFound
	}
	row.eval = eval
	return eval, nil
}

func (repo *evaluationRepository) DeleteEvaluation(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return evaluation.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
