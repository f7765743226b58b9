package evaluation

import (
	"fmt"
	"time"

	"github.com/tathmini/tathmini/core"
)

// CriteriaScore is one scored rubric line. MaxScore and Weight are copied from
// the criterion at evaluation time so later rubric edits never rewrite history.
type CriteriaScore struct {
	CriterionID   string  `json:"criterion_id"`
	CriterionName string  `json:"criterion_name"`
	Score         float64 `json:"score"`
	MaxScore      float64 `json:"max_score"`
	Weight        float64 `json:"weight"`
}

// Evaluation is one teacher's complete scoring pass over a presentation.
type Evaluation struct {
	ID             string          `json:"id" db:"id"`
	PresentationID string          `json:"presentation_id" db:"presentation_id"`
	TeacherID      int             `json:"teacher_id" db:"teacher_id"`
	TeacherName    string          `json:"teacher_name" db:"teacher_name"`
	Criteria       []CriteriaScore `json:"criteria"`
	TotalScore     float64         `json:"total_score" db:"total_score"`
	Comments       string          `json:"comments" db:"comments"`
	EvaluatedAt    time.Time       `json:"evaluated_at" db:"evaluated_at"` // UTC
}

// NewScore is one raw slider value keyed by criterion; the service snapshots
// the criterion's name, max score and weight around it.
type NewScore struct {
	CriterionID string  `json:"criterion_id" validate:"required"`
	Score       float64 `json:"score" validate:"gte=0"`
}

// NewEvaluation contains information needed to record an evaluation.
type NewEvaluation struct {
	PresentationID string     `json:"presentation_id" validate:"required"`
	TeacherID      int        `json:"-"`
	TeacherName    string     `json:"-"`
	Scores         []NewScore `json:"scores" validate:"required,min=1,dive"`
	Comments       string     `json:"comments"`
}

func (ne *NewEvaluation) Validate() error {
	ne.Comments = core.CleanString(ne.Comments)
	return core.Validate.Struct(ne)
}

// UpdateEvaluation is an administrative correction: scores and comments only.
// TotalScore is always recomputed, never supplied.
type UpdateEvaluation struct {
	Scores   []NewScore `json:"scores" validate:"omitempty,min=1,dive"`
	Comments *string    `json:"comments"`
}

func (ue *UpdateEvaluation) Validate() error {
	if ue.Comments != nil {
		comments := core.CleanString(*ue.Comments)
		ue.Comments = &comments
	}
	return core.Validate.Struct(ue)
}

type QueryFilter struct {
	PresentationID string `query:"presentation"`
	TeacherID      int    `query:"teacher"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.PresentationID == "" && qf.TeacherID == 0
}

func scoreOutOfRangeError(name string, score, max float64) error {
	return core.NewValidationError(nil, core.FieldError{
		Field: "scores",
		Error: fmt.Sprintf("score %g for criterion %q exceeds its maximum of %g", score, name, max),
	})
}
