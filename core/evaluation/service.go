package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/tathmini/tathmini/core"
	"github.com/tathmini/tathmini/core/criteria"
	"github.com/tathmini/tathmini/core/notification"
	"github.com/tathmini/tathmini/core/presentation"
	"github.com/tathmini/tathmini/core/user"
)

var ErrNotFound = errors.New("evaluation not found")

type (
	Repository interface {
		CreateEvaluation(ctx context.Context, eval Evaluation) (Evaluation, error)
		QueryAllEvaluations(ctx context.Context) ([]Evaluation, error)
		GetEvaluation(ctx context.Context, id string) (Evaluation, error)
		FilterEvaluations(ctx context.Context, filter QueryFilter) ([]Evaluation, error)
		UpdateEvaluation(ctx context.Context, eval Evaluation) (Evaluation, error)
		DeleteEvaluation(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		critSvc  *criteria.Service
		presSvc  *presentation.Service
		usrSvc   *user.Service
		notifSvc *notification.Service
	}
)

func NewService(
	repo Repository,
	critSvc *criteria.Service,
	presSvc *presentation.Service,
	usrSvc *user.Service,
	notifSvc *notification.Service,
) *Service {
	return &Service{
		repo:     repo,
		critSvc:  critSvc,
		presSvc:  presSvc,
		usrSvc:   usrSvc,
		notifSvc: notifSvc,
	}
}

// Create records a scoring pass: it snapshots the referenced criteria, computes
// the total, persists the evaluation, advances the presentation to reviewed on
// the first pass and notifies the presentation's student.
func (svc *Service) Create(ctx context.Context, ne NewEvaluation) (Evaluation, error) {
	pres, err := svc.presSvc.GetByID(ctx, ne.PresentationID)
	if err != nil {
		return Evaluation{}, err
	}

	scores, err := svc.snapshotScores(ctx, ne.Scores)
	if err != nil {
		return Evaluation{}, err
	}

	eval := Evaluation{
		ID:             uuid.New().String(),
		PresentationID: pres.ID,
		TeacherID:      ne.TeacherID,
		TeacherName:    ne.TeacherName,
		Criteria:       scores,
		TotalScore:     TotalScore(scores),
		Comments:       ne.Comments,
		EvaluatedAt:    time.Now().UTC(),
	}
	eval, err = svc.repo.CreateEvaluation(ctx, eval)
	if err != nil {
		return Evaluation{}, err
	}

	if pres.Status == presentation.StatusPending {
		if _, err := svc.presSvc.MarkReviewed(ctx, pres.ID); err != nil {
			return eval, pkgerrors.Wrap(err, "marking presentation reviewed")
		}
	}

	student, err := svc.usrSvc.GetByID(ctx, pres.StudentID)
	if err != nil {
		return eval, pkgerrors.Wrap(err, "looking up student to notify")
	}
	if err := svc.notifSvc.NotifyEvaluationComplete(ctx, student, pres.ID, pres.Title, eval.TeacherName); err != nil {
		return eval, pkgerrors.Wrap(err, "notifying student")
	}
	return eval, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Evaluation, error) {
	return svc.repo.QueryAllEvaluations(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Evaluation, error) {
	return svc.repo.GetEvaluation(ctx, id)
}

func (svc *Service) QueryByPresentation(ctx context.Context, presID string) ([]Evaluation, error) {
	return svc.repo.FilterEvaluations(ctx, QueryFilter{PresentationID: presID})
}

func (svc *Service) QueryByTeacher(ctx context.Context, teacherID int) ([]Evaluation, error) {
	return svc.repo.FilterEvaluations(ctx, QueryFilter{TeacherID: teacherID})
}

// Update applies an administrative correction. Scores are corrected within the
// stored snapshots (the criteria's max scores and weights as they were at
// evaluation time) and the total is recomputed.
func (svc *Service) Update(ctx context.Context, id string, ue UpdateEvaluation) (Evaluation, error) {
	eval, err := svc.repo.GetEvaluation(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}

	if ue.Scores != nil {
		for _, ns := range ue.Scores {
			idx := -1
			for i, cs := range eval.Criteria {
				if cs.CriterionID == ns.CriterionID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return Evaluation{}, core.NewValidationError(nil, core.FieldError{
					Field: "scores",
					Error: fmt.Sprintf("criterion %q is not part of this evaluation", ns.CriterionID),
				})
			}
			if ns.Score > eval.Criteria[idx].MaxScore {
				return Evaluation{}, scoreOutOfRangeError(eval.Criteria[idx].CriterionName, ns.Score, eval.Criteria[idx].MaxScore)
			}
			eval.Criteria[idx].Score = ns.Score
		}
		eval.TotalScore = TotalScore(eval.Criteria)
	}
	if ue.Comments != nil {
		eval.Comments = *ue.Comments
	}
	return svc.repo.UpdateEvaluation(ctx, eval)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteEvaluation(ctx, id)
}

// snapshotScores resolves raw scores against current criterion definitions and
// freezes name, max score and weight into the evaluation.
func (svc *Service) snapshotScores(ctx context.Context, raw []NewScore) ([]CriteriaScore, error) {
	scores := make([]CriteriaScore, 0, len(raw))
	for _, ns := range raw {
		crit, err := svc.critSvc.GetByID(ctx, ns.CriterionID)
		if err != nil {
			if pkgerrors.Cause(err) == criteria.ErrNotFound {
				return nil, core.NewValidationError(err, core.FieldError{
					Field: "scores",
					Error: fmt.Sprintf("unknown criterion %q", ns.CriterionID),
				})
			}
			return nil, err
		}
		if ns.Score > crit.MaxScore {
			return nil, scoreOutOfRangeError(crit.Name, ns.Score, crit.MaxScore)
		}
		scores = append(scores, CriteriaScore{
			CriterionID:   crit.ID,
			CriterionName: crit.Name,
			Score:         ns.Score,
			MaxScore:      crit.MaxScore,
			Weight:        crit.Weight,
		})
	}
	return scores, nil
}
