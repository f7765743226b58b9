package stats

import (
	"context"
	"sort"
	"time"

	"github.com/tathmini/tathmini/core/evaluation"
	"github.com/tathmini/tathmini/core/presentation"
	"github.com/tathmini/tathmini/core/user"
)

type (
	// Overview is the dashboard headline block.
	Overview struct {
		TotalPresentations     int     `json:"total_presentations"`
		PendingPresentations   int     `json:"pending_presentations"`
		EvaluatedPresentations int     `json:"evaluated_presentations"`
		PercentEvaluated       float64 `json:"percent_evaluated"`
		TotalEvaluations       int     `json:"total_evaluations"`
		TotalUsers             int     `json:"total_users"`
		Students               int     `json:"students"`
		Teachers               int     `json:"teachers"`
		AverageScore           float64 `json:"average_score"`
	}

	TopStudent struct {
		StudentID         int     `json:"student_id"`
		StudentName       string  `json:"student_name"`
		PresentationID    string  `json:"presentation_id"`
		PresentationTitle string  `json:"presentation_title"`
		AverageScore      float64 `json:"average_score"`
	}

	MonthBucket struct {
		Year  int        `json:"year"`
		Month time.Month `json:"month"`
		Label string     `json:"label"`
		Count int        `json:"count"`
	}

	PresentationStats struct {
		Count        int     `json:"count"`
		AverageScore float64 `json:"average_score"`
	}

	// Service derives aggregate views on demand; nothing is cached, every call
	// recomputes from the stores.
	Service struct {
		presSvc *presentation.Service
		evalSvc *evaluation.Service
		usrSvc  *user.Service
	}
)

func NewService(presSvc *presentation.Service, evalSvc *evaluation.Service, usrSvc *user.Service) *Service {
	return &Service{presSvc: presSvc, evalSvc: evalSvc, usrSvc: usrSvc}
}

// AverageScore is the arithmetic mean of total scores; 0 for an empty set.
func AverageScore(evals []evaluation.Evaluation) float64 {
	if len(evals) == 0 {
		return 0
	}
	var sum float64
	for _, eval := range evals {
		sum += eval.TotalScore
	}
	return sum / float64(len(evals))
}

func (svc *Service) Overview(ctx context.Context) (Overview, error) {
	presentations, err := svc.presSvc.QueryAll(ctx)
	if err != nil {
		return Overview{}, err
	}
	evals, err := svc.evalSvc.QueryAll(ctx)
	if err != nil {
		return Overview{}, err
	}
	users, err := svc.usrSvc.QueryAll(ctx)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{
		TotalPresentations: len(presentations),
		TotalEvaluations:   len(evals),
		TotalUsers:         len(users),
		AverageScore:       AverageScore(evals),
	}
	for _, pres := range presentations {
		switch pres.Status {
		case presentation.StatusPending:
			ov.PendingPresentations++
		case presentation.StatusReviewed, presentation.StatusApproved:
			ov.EvaluatedPresentations++
		}
	}
	if ov.TotalPresentations > 0 {
		ov.PercentEvaluated = float64(ov.EvaluatedPresentations) / float64(ov.TotalPresentations) * 100
	}
	for _, usr := range users {
		switch usr.Role {
		case user.RoleStudent:
			ov.Students++
		case user.RoleTeacher:
			ov.Teachers++
		}
	}
	return ov, nil
}

// TopStudents ranks presentations with at least one evaluation by their mean
// total score, descending. Ties keep store order; the list is cut at limit.
func (svc *Service) TopStudents(ctx context.Context, limit int) ([]TopStudent, error) {
	presentations, err := svc.presSvc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	evals, err := svc.evalSvc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	byPres := make(map[string][]evaluation.Evaluation, len(presentations))
	for _, eval := range evals {
		byPres[eval.PresentationID] = append(byPres[eval.PresentationID], eval)
	}

	top := make([]TopStudent, 0, len(presentations))
	for _, pres := range presentations {
		presEvals := byPres[pres.ID]
		if len(presEvals) == 0 {
			continue
		}
		top = append(top, TopStudent{
			StudentID:         pres.StudentID,
			StudentName:       pres.StudentName,
			PresentationID:    pres.ID,
			PresentationTitle: pres.Title,
			AverageScore:      AverageScore(presEvals),
		})
	}

	sort.SliceStable(top, func(i, j int) bool { return top[i].AverageScore > top[j].AverageScore })
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

// EvaluationsByMonth buckets evaluations by calendar month of EvaluatedAt,
// newest month first. Buckets are keyed by (year, month), not by the display
// label, so ordering never depends on label parsing.
func (svc *Service) EvaluationsByMonth(ctx context.Context) ([]MonthBucket, error) {
	evals, err := svc.evalSvc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	type key struct {
		year  int
		month time.Month
	}
	counts := make(map[key]int)
	for _, eval := range evals {
		at := eval.EvaluatedAt.UTC()
		counts[key{at.Year(), at.Month()}]++
	}

	buckets := make([]MonthBucket, 0, len(counts))
	for k, count := range counts {
		buckets = append(buckets, MonthBucket{
			Year:  k.year,
			Month: k.month,
			Label: time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
			Count: count,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year > buckets[j].Year
		}
		return buckets[i].Month > buckets[j].Month
	})
	return buckets, nil
}

// ForPresentation returns evaluation count and mean score for one presentation.
func (svc *Service) ForPresentation(ctx context.Context, presID string) (PresentationStats, error) {
	if _, err := svc.presSvc.GetByID(ctx, presID); err != nil {
		return PresentationStats{}, err
	}
	evals, err := svc.evalSvc.QueryByPresentation(ctx, presID)
	if err != nil {
		return PresentationStats{}, err
	}
	return PresentationStats{Count: len(evals), AverageScore: AverageScore(evals)}, nil
}

// ForTeacher returns evaluation count and mean awarded score for one teacher.
func (svc *Service) ForTeacher(ctx context.Context, teacherID int) (PresentationStats, error) {
	evals, err := svc.evalSvc.QueryByTeacher(ctx, teacherID)
	if err != nil {
		return PresentationStats{}, err
	}
	return PresentationStats{Count: len(evals), AverageScore: AverageScore(evals)}, nil
}
