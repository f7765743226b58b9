package presentation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/notification"
	"github.com/tathmini/tathmini/core/user"
)

var ErrNotFound = errors.New("presentation not found")

type (
	Repository interface {
		CreatePresentation(ctx context.Context, pres Presentation) (Presentation, error)
		QueryAllPresentations(ctx context.Context) ([]Presentation, error)
		GetPresentation(ctx context.Context, id string) (Presentation, error)
		FilterPresentations(ctx context.Context, filter QueryFilter) ([]Presentation, error)
		UpdatePresentation(ctx context.Context, pres Presentation) (Presentation, error)
		DeletePresentation(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		usrSvc   *user.Service
		notifSvc *notification.Service
	}
)

func NewService(repo Repository, usrSvc *user.Service, notifSvc *notification.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, notifSvc: notifSvc}
}

func (svc *Service) Create(ctx context.Context, np NewPresentation) (Presentation, error) {
	fileType := np.FileType
	if fileType == "" {
		fileType = strings.TrimPrefix(strings.ToLower(filepath.Ext(np.FileName)), ".")
	}

	pres := Presentation{
		ID:          uuid.New().String(),
		Title:       np.Title,
		Description: np.Description,
		StudentID:   np.StudentID,
		StudentName: np.StudentName,
		FileName:    np.FileName,
		FileURL:     np.FileURL,
		FileSize:    np.FileSize,
		FileType:    fileType,
		UploadedAt:  time.Now().UTC(),
		Status:      StatusPending,
	}
	pres, err := svc.repo.CreatePresentation(ctx, pres)
	if err != nil {
		return Presentation{}, err
	}

	teachers, err := svc.usrSvc.QueryTeachers(ctx)
	if err != nil {
		return pres, pkgerrors.Wrap(err, "querying teachers to notify")
	}
	if err := svc.notifSvc.NotifyNewPresentation(ctx, teachers, pres.ID, pres.Title, pres.StudentName); err != nil {
		return pres, pkgerrors.Wrap(err, "notifying teachers")
	}
	return pres, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Presentation, error) {
	return svc.repo.QueryAllPresentations(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Presentation, error) {
	return svc.repo.GetPresentation(ctx, id)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Presentation, error) {
	return svc.repo.FilterPresentations(ctx, QueryFilter{StudentID: studentID})
}

// QueryReviewable returns the teacher inbox: uploads still open for scoring.
func (svc *Service) QueryReviewable(ctx context.Context) ([]Presentation, error) {
	return svc.repo.FilterPresentations(ctx, QueryFilter{Statuses: []Status{StatusPending, StatusReviewed}})
}

func (svc *Service) Update(ctx context.Context, id string, up UpdatePresentation) (Presentation, error) {
	pres, err := svc.repo.GetPresentation(ctx, id)
	if err != nil {
		return Presentation{}, err
	}
	if up.Title != "" {
		pres.Title = up.Title
	}
	if up.Description != nil {
		pres.Description = *up.Description
	}
	return svc.repo.UpdatePresentation(ctx, pres)
}

// MarkReviewed advances a pending presentation after its first evaluation.
// Already-reviewed presentations are left untouched; terminal states refuse.
func (svc *Service) MarkReviewed(ctx context.Context, id string) (Presentation, error) {
	pres, err := svc.repo.GetPresentation(ctx, id)
	if err != nil {
		return Presentation{}, err
	}
	switch {
	case pres.Status == StatusReviewed:
		return pres, nil
	case pres.Status.CanTransition(StatusReviewed):
		return svc.transition(ctx, pres, StatusReviewed)
	default:
		return Presentation{}, invalidTransition(pres.Status, StatusReviewed)
	}
}

// Approve finalizes a reviewed presentation. Terminal.
func (svc *Service) Approve(ctx context.Context, id string) (Presentation, error) {
	return svc.resolve(ctx, id, StatusApproved)
}

// Reject declines a reviewed presentation. Terminal.
func (svc *Service) Reject(ctx context.Context, id string) (Presentation, error) {
	return svc.resolve(ctx, id, StatusRejected)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeletePresentation(ctx, id)
}

func (svc *Service) resolve(ctx context.Context, id string, to Status) (Presentation, error) {
	pres, err := svc.repo.GetPresentation(ctx, id)
	if err != nil {
		return Presentation{}, err
	}
	if !pres.Status.CanTransition(to) {
		return Presentation{}, invalidTransition(pres.Status, to)
	}
	return svc.transition(ctx, pres, to)
}

func (svc *Service) transition(ctx context.Context, pres Presentation, to Status) (Presentation, error) {
	pres.Status = to
	return svc.repo.UpdatePresentation(ctx, pres)
}

func invalidTransition(from, to Status) error {
	return pkgerrors.Wrap(ErrInvalidTransition, fmt.Sprintf("%s -> %s", from, to))
}
