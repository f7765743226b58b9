package criteria

import (
	"github.com/tathmini/tathmini/core"
)

// Criterion is a named, weighted rubric dimension with a maximum point value.
type Criterion struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	MaxScore    float64 `json:"max_score" db:"max_score"`
	Weight      float64 `json:"weight" db:"weight"`
	IsActive    bool    `json:"is_active" db:"is_active"`
}

// NewCriterion contains information needed to create a new Criterion.
// MaxScore must be positive and Weight must be a fraction in (0, 1];
// weights across active criteria are deliberately not required to sum to 1.
type NewCriterion struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	MaxScore    float64 `json:"max_score" validate:"required,gt=0"`
	Weight      float64 `json:"weight" validate:"required,gt=0,lte=1"`
	IsActive    *bool   `json:"is_active"`
}

func (nc *NewCriterion) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// UpdateCriterion defines what may be provided to modify an existing Criterion.
// Omitted fields keep their current values.
type UpdateCriterion struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	MaxScore    *float64 `json:"max_score" validate:"omitempty,gt=0"`
	Weight      *float64 `json:"weight" validate:"omitempty,gt=0,lte=1"`
	IsActive    *bool    `json:"is_active"`
}

func (uc *UpdateCriterion) Validate() error {
	uc.Name = core.CleanString(uc.Name)
	if uc.Description != nil {
		desc := core.CleanString(*uc.Description)
		uc.Description = &desc
	}
	return core.Validate.Struct(uc)
}
