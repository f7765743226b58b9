package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/criteria"
)

type criteriaRepository struct {
	db *sqlx.DB
}

var _ criteria.Repository = (*criteriaRepository)(nil) // interface compliance check

func NewCriteriaRepository(db *sqlx.DB) criteria.Repository {
	return &criteriaRepository{db: db}
}

const criterionColumns = `id, name, description, max_score, weight, is_active`

func (repo *criteriaRepository) CreateCriterion(ctx context.Context, crit criteria.Criterion) (criteria.Criterion, error) {
	q := `INSERT INTO criterion (id, name, description, max_score, weight, is_active)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := repo.db.ExecContext(
		ctx, q,
		crit.ID, crit.Name, crit.Description, crit.MaxScore, crit.Weight, crit.IsActive,
	); err != nil {
		return criteria.Criterion{}, errors.Wrap(err, "creating criterion")
	}
	return crit, nil
}

func (repo *criteriaRepository) QueryAllCriteria(ctx context.Context) ([]criteria.Criterion, error) {
	var crits []criteria.Criterion
	q := `SELECT ` + criterionColumns + ` FROM criterion ORDER BY seq`
	if err := repo.db.SelectContext(ctx, &crits, q); err != nil {
		return nil, errors.Wrap(err, "querying criteria")
	}
	return crits, nil
}

func (repo *criteriaRepository) GetCriterion(ctx context.Context, id string) (criteria.Criterion, error) {
	var crit criteria.Criterion
	q := `SELECT ` + criterionColumns + ` FROM criterion WHERE id = $1`
	if err := repo.db.GetContext(ctx, &crit, q, id); err != nil {
		if err == sql.ErrNoRows {
			return criteria.Criterion{}, criteria.ErrNotFound
		}
		return criteria.Criterion{}, errors.Wrap(err, "getting criterion")
	}
	return crit, nil
}

func (repo *criteriaRepository) UpdateCriterion(ctx context.Context, crit criteria.Criterion) (criteria.Criterion, error) {
	q := `UPDATE criterion SET name = $2, description = $3, max_score = $4, weight = $5, is_active = $6
	      WHERE id = $1`
	res, err := repo.db.ExecContext(
		ctx, q,
		crit.ID, crit.Name, crit.Description, crit.MaxScore, crit.Weight, crit.IsActive,
	)
	if err != nil {
		return criteria.Criterion{}, errors.Wrap(err, "updating criterion")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return criteria.Criterion{}, criteria.ErrNotFound
	}
	return crit, nil
}

func (repo *criteriaRepository) DeleteCriterion(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM criterion WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting criterion")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return criteria.ErrNotFound
	}
	return nil
}
