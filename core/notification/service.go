package notification

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/tathmini/tathmini/core"
	"github.com/tathmini/tathmini/core/user"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, notif Notification) (Notification, error)
		GetNotification(ctx context.Context, id string) (Notification, error)
		FilterNotifications(ctx context.Context, filter QueryFilter) ([]Notification, error)
		UpdateNotification(ctx context.Context, notif Notification) (Notification, error)
		MarkAllRead(ctx context.Context, userID int) error
		DeleteNotification(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) Create(ctx context.Context, nn NewNotification) (Notification, error) {
	notif := Notification{
		ID:          uuid.New().String(),
		UserID:      nn.UserID,
		Title:       nn.Title,
		Message:     nn.Message,
		Kind:        nn.Kind,
		CreatedAt:   time.Now().UTC(),
		RelatedID:   nn.RelatedID,
		RelatedType: nn.RelatedType,
	}
	return svc.repo.CreateNotification(ctx, notif)
}

func (svc *Service) QueryByUser(ctx context.Context, userID int) ([]Notification, error) {
	return svc.repo.FilterNotifications(ctx, QueryFilter{UserID: userID})
}

func (svc *Service) UnreadCount(ctx context.Context, userID int) (int, error) {
	notifs, err := svc.repo.FilterNotifications(ctx, QueryFilter{UserID: userID, UnreadOnly: true})
	if err != nil {
		return 0, err
	}
	return len(notifs), nil
}

func (svc *Service) MarkRead(ctx context.Context, id string) (Notification, error) {
	notif, err := svc.repo.GetNotification(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	notif.IsRead = true
	return svc.repo.UpdateNotification(ctx, notif)
}

func (svc *Service) MarkAllRead(ctx context.Context, userID int) error {
	return svc.repo.MarkAllRead(ctx, userID)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteNotification(ctx, id)
}

// NotifyEvaluationComplete tells a student their presentation has been scored.
func (svc *Service) NotifyEvaluationComplete(ctx context.Context, student user.User, presID, presTitle, teacherName string) error {
	msg := fmt.Sprintf("%s evaluated your presentation %q", teacherName, presTitle)
	_, err := svc.Create(ctx, NewNotification{
		UserID:      student.ID,
		Title:       "Presentation evaluated",
		Message:     msg,
		Kind:        KindSuccess,
		RelatedID:   presID,
		RelatedType: RelatedEvaluation,
	})
	if err != nil {
		return err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject: "Your presentation has been evaluated",
		BodyStr: msg,
	})
	return nil
}

// NotifyNewPresentation tells every teacher a new upload awaits scoring.
func (svc *Service) NotifyNewPresentation(ctx context.Context, teachers []user.User, presID, presTitle, studentName string) error {
	msg := fmt.Sprintf("%s uploaded a new presentation: %q", studentName, presTitle)
	addrs := make([]mail.Address, 0, len(teachers))

	for _, teacher := range teachers {
		_, err := svc.Create(ctx, NewNotification{
			UserID:      teacher.ID,
			Title:       "New presentation awaiting evaluation",
			Message:     msg,
			Kind:        KindInfo,
			RelatedID:   presID,
			RelatedType: RelatedPresentation,
		})
		if err != nil {
			return err
		}
		addrs = append(addrs, mail.Address{Name: teacher.Name, Address: teacher.Email})
	}

	if len(addrs) > 0 {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      addrs,
			Subject: "New presentation awaiting evaluation",
			BodyStr: msg,
		})
	}
	return nil
}
