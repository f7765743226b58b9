package presentation

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/tathmini/tathmini/core"
)

var ErrInvalidTransition = errors.New("invalid presentation status transition")

// Status tracks a presentation's review lifecycle stage.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// transitions encodes the workflow: pending -> reviewed -> {approved, rejected}.
// Approved and rejected are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusReviewed},
	StatusReviewed: {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	targets, ok := transitions[s]
	return ok && len(targets) == 0
}

func (s Status) CanTransition(to Status) bool {
	for _, target := range transitions[s] {
		if target == to {
			return true
		}
	}
	return false
}

// supported upload extensions
var supportedFileTypes = []string{".pdf", ".ppt", ".pptx", ".doc", ".docx"}

func SupportedFileType(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, t := range supportedFileTypes {
		if ext == t {
			return true
		}
	}
	return false
}

// Presentation is a student-submitted artifact undergoing review.
// Its evaluations are stored separately and joined at the API layer.
type Presentation struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StudentID   int       `json:"student_id" db:"student_id"`
	StudentName string    `json:"student_name" db:"student_name"`
	FileName    string    `json:"file_name" db:"file_name"`
	FileURL     string    `json:"file_url" db:"file_url"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	FileType    string    `json:"file_type" db:"file_type"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"` // UTC
	Status      Status    `json:"status" db:"status"`
}

// NewPresentation contains information needed to register a new upload.
// The file itself is stored by an external collaborator; only its metadata lands here.
type NewPresentation struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StudentID   int    `json:"-"`
	StudentName string `json:"-"`
	FileName    string `json:"file_name" validate:"required"`
	FileURL     string `json:"file_url" validate:"required,url"`
	FileSize    int64  `json:"file_size" validate:"gte=0"`
	FileType    string `json:"file_type"`
}

func (np *NewPresentation) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	np.FileName = core.CleanString(np.FileName)

	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	if !SupportedFileType(np.FileName) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "file_name",
			Error: "unsupported file type; expected one of: " + strings.Join(supportedFileTypes, ", "),
		})
	}
	return nil
}

// UpdatePresentation edits title/description only; status moves through
// MarkReviewed/Approve/Reject and never through a plain update.
type UpdatePresentation struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (up *UpdatePresentation) Validate() error {
	up.Title = core.CleanString(up.Title)
	if up.Description != nil {
		desc := core.CleanString(*up.Description)
		up.Description = &desc
	}
	return core.Validate.Struct(up)
}

type QueryFilter struct {
	StudentID int      `query:"student"`
	Statuses  []Status `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == 0 && len(qf.Statuses) == 0
}
