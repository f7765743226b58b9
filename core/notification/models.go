package notification

import (
	"time"

	"github.com/tathmini/tathmini/core"
)

// Kind classifies a notification for display purposes.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// related entity types
const (
	RelatedPresentation = "presentation"
	RelatedEvaluation   = "evaluation"
)

type Notification struct {
	ID          string    `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Message     string    `json:"message" db:"message"`
	Kind        Kind      `json:"kind" db:"kind"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	RelatedID   string    `json:"related_id,omitempty" db:"related_id"`
	RelatedType string    `json:"related_type,omitempty" db:"related_type"`
}

type NewNotification struct {
	UserID      int    `json:"user_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Message     string `json:"message" validate:"required"`
	Kind        Kind   `json:"kind" validate:"required,oneof=info success warning error"`
	RelatedID   string `json:"related_id"`
	RelatedType string `json:"related_type" validate:"omitempty,oneof=presentation evaluation"`
}

func (nn *NewNotification) Validate() error {
	nn.Title = core.CleanString(nn.Title)
	nn.Message = core.CleanString(nn.Message)
	return core.Validate.Struct(nn)
}

type QueryFilter struct {
	UserID     int  `query:"user"`
	UnreadOnly bool `query:"unread"`
}
