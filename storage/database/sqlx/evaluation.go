package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/evaluation"
)

type evaluationRepository struct {
	db *sqlx.DB
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *sqlx.DB) evaluation.Repository {
	return &evaluationRepository{db: db}
}

// evaluationRow carries the criteria snapshots as raw JSONB.
type evaluationRow struct {
	ID             string    `db:"id"`
	PresentationID string    `db:"presentation_id"`
	TeacherID      int       `db:"teacher_id"`
	TeacherName    string    `db:"teacher_name"`
	Criteria       []byte    `db:"criteria"`
	TotalScore     float64   `db:"total_score"`
	Comments       string    `db:"comments"`
	EvaluatedAt    time.Time `db:"evaluated_at"`
}

const evaluationColumns = `id, presentation_id, teacher_id, teacher_name, criteria, total_score, comments, evaluated_at`

func (row evaluationRow) toEvaluation() (evaluation.Evaluation, error) {
	eval := evaluation.Evaluation{
		ID:             row.ID,
		PresentationID: row.PresentationID,
		TeacherID:      row.TeacherID,
		TeacherName:    row.TeacherName,
		TotalScore:     row.TotalScore,
		Comments:       row.Comments,
		EvaluatedAt:    row.EvaluatedAt,
	}
	if err := json.Unmarshal(row.Criteria, &eval.Criteria); err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "decoding criteria snapshots")
	}
	return eval, nil
}

func toEvaluations(rows []evaluationRow) ([]evaluation.Evaluation, error) {
	evals := make([]evaluation.Evaluation, 0, len(rows))
	for _, row := range rows {
		eval, err := row.toEvaluation()
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}
	return evals, nil
}

func (repo *evaluationRepository) CreateEvaluation(ctx context.Context, eval evaluation.Evaluation) (evaluation.Evaluation, error) {
	criteria, err := json.Marshal(eval.Criteria)
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "encoding criteria snapshots")
	}

	q := `INSERT INTO evaluation (id, presentation_id, teacher_id, teacher_name, criteria, total_score, comments, evaluated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := repo.db.ExecContext(
		ctx, q,
		eval.ID, eval.PresentationID, eval.TeacherID, eval.TeacherName, criteria,
		eval.TotalScore, eval.Comments, eval.EvaluatedAt,
	); err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "creating evaluation")
	}
	return eval, nil
}

func (repo *evaluationRepository) QueryAllEvaluations(ctx context.Context) ([]evaluation.Evaluation, error) {
	var rows []evaluationRow
	q := `SELECT ` + evaluationColumns + ` FROM evaluation ORDER BY seq`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying evaluations")
	}
	return toEvaluations(rows)
}

func (repo *evaluationRepository) GetEvaluation(ctx context.Context, id string) (evaluation.Evaluation, error) {
	var row evaluationRow
	q := `SELECT ` + evaluationColumns + ` FROM evaluation WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return evaluation.Evaluation{}, evaluation.ErrNotFound
		}
		return evaluation.Evaluation{}, errors.Wrap(err, "getting evaluation")
	}
	return row.toEvaluation()
}

func (repo *evaluationRepository) FilterEvaluations(ctx context.Context, filter evaluation.QueryFilter) ([]evaluation.Evaluation, error) {
	q := `SELECT ` + evaluationColumns + ` FROM evaluation WHERE 1=1`
	var args []interface{}

	if filter.PresentationID != "" {
		args = append(args, filter.PresentationID)
		q += ` AND presentation_id = $1`
	}
	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		if len(args) == 1 {
			q += ` AND teacher_id = $1`
		} else {
			q += ` AND teacher_id = $2`
		}
	}
	q += ` ORDER BY seq`

	var rows []evaluationRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering evaluations")
	}
	return toEvaluations(rows)
}

func (repo *evaluationRepository) UpdateEvaluation(ctx context.Context, eval evaluation.Evaluation) (evaluation.Evaluation, error) {
	criteria, err := json.Marshal(eval.Criteria)
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "encoding criteria snapshots")
	}

	q := `UPDATE evaluation SET criteria = $2, total_score = $3, comments = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, eval.ID, criteria, eval.TotalScore, eval.Comments)
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "updating evaluation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return evaluation.Evaluation{}, evaluation.ErrNotFound
	}
	return eval, nil
}

func (repo *evaluationRepository) DeleteEvaluation(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM evaluation WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting evaluation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return evaluation.ErrNotFound
	}
	return nil
}
