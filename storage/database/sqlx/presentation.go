package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/presentation"
)

type presentationRepository struct {
	db *sqlx.DB
}

var _ presentation.Repository = (*presentationRepository)(nil) // interface compliance check

func NewPresentationRepository(db *sqlx.DB) presentation.Repository {
	return &presentationRepository{db: db}
}

const presentationColumns = `id, title, description, student_id, student_name, file_name,
	file_url, file_size, file_type, uploaded_at, status`

func (repo *presentationRepository) CreatePresentation(ctx context.Context, pres presentation.Presentation) (presentation.Presentation, error) {
	q := `INSERT INTO presentation (id, title, description, student_id, student_name, file_name,
	      file_url, file_size, file_type, uploaded_at, status)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := repo.db.ExecContext(
		ctx, q,
		pres.ID, pres.Title, pres.Description, pres.StudentID, pres.StudentName, pres.FileName,
		pres.FileURL, pres.FileSize, pres.FileType, pres.UploadedAt, pres.Status,
	); err != nil {
		return presentation.Presentation{}, errors.Wrap(err, "creating presentation")
	}
	return pres, nil
}

func (repo *presentationRepository) QueryAllPresentations(ctx context.Context) ([]presentation.Presentation, error) {
	var press []presentation.Presentation
	q := `SELECT ` + presentationColumns + ` FROM presentation ORDER BY seq`
	if err := repo.db.SelectContext(ctx, &press, q); err != nil {
		return nil, errors.Wrap(err, "querying presentations")
	}
	return press, nil
}

func (repo *presentationRepository) GetPresentation(ctx context.Context, id string) (presentation.Presentation, error) {
	var pres presentation.Presentation
	q := `SELECT ` + presentationColumns + ` FROM presentation WHERE id = $1`
	if err := repo.db.GetContext(ctx, &pres, q, id); err != nil {
		if err == sql.ErrNoRows {
			return presentation.Presentation{}, presentation.ErrNotFound
		}
		return presentation.Presentation{}, errors.Wrap(err, "getting presentation")
	}
	return pres, nil
}

func (repo *presentationRepository) FilterPresentations(ctx context.Context, filter presentation.QueryFilter) ([]presentation.Presentation, error) {
	q := `SELECT ` + presentationColumns + ` FROM presentation WHERE 1=1`
	var args []interface{}

	if filter.StudentID != 0 {
		args = append(args, filter.StudentID)
		q += ` AND student_id = ?`
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		args = append(args, statuses)
		q += ` AND status IN (?)`
	}
	q += ` ORDER BY seq`

	q, inArgs, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building filter query")
	}

	var press []presentation.Presentation
	if err := repo.db.SelectContext(ctx, &press, repo.db.Rebind(q), inArgs...); err != nil {
		return nil, errors.Wrap(err, "filtering presentations")
	}
	return press, nil
}

func (repo *presentationRepository) UpdatePresentation(ctx context.Context, pres presentation.Presentation) (presentation.Presentation, error) {
	q := `UPDATE presentation SET title = $2, description = $3, status = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, pres.ID, pres.Title, pres.Description, pres.Status)
	if err != nil {
		return presentation.Presentation{}, errors.Wrap(err, "updating presentation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return presentation.Presentation{}, presentation.ErrNotFound
	}
	return pres, nil
}

func (repo *presentationRepository) DeletePresentation(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM presentation WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting presentation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return presentation.ErrNotFound
	}
	return nil
}
