package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/notification"
)

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) notification.Repository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, title, message, kind, is_read, created_at, related_id, related_type`

func (repo *notificationRepository) CreateNotification(ctx context.Context, notif notification.Notification) (notification.Notification, error) {
	q := `INSERT INTO notification (id, user_id, title, message, kind, is_read, created_at, related_id, related_type)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := repo.db.ExecContext(
		ctx, q,
		notif.ID, notif.UserID, notif.Title, notif.Message, notif.Kind,
		notif.IsRead, notif.CreatedAt, notif.RelatedID, notif.RelatedType,
	); err != nil {
		return notification.Notification{}, errors.Wrap(err, "creating notification")
	}
	return notif, nil
}

func (repo *notificationRepository) GetNotification(ctx context.Context, id string) (notification.Notification, error) {
	var notif notification.Notification
	q := `SELECT ` + notificationColumns + ` FROM notification WHERE id = $1`
	if err := repo.db.GetContext(ctx, &notif, q, id); err != nil {
		if err == sql.ErrNoRows {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "getting notification")
	}
	return notif, nil
}

func (repo *notificationRepository) FilterNotifications(ctx context.Context, filter notification.QueryFilter) ([]notification.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notification WHERE 1=1`
	var args []interface{}

	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		q += ` AND user_id = $1`
	}
	if filter.UnreadOnly {
		q += ` AND is_read = FALSE`
	}
	q += ` ORDER BY created_at DESC`

	var notifs []notification.Notification
	if err := repo.db.SelectContext(ctx, &notifs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering notifications")
	}
	return notifs, nil
}

func (repo *notificationRepository) UpdateNotification(ctx context.Context, notif notification.Notification) (notification.Notification, error) {
	q := `UPDATE notification SET is_read = $2 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, notif.ID, notif.IsRead)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "updating notification")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notification.Notification{}, notification.ErrNotFound
	}
	return notif, nil
}

func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID int) error {
	q := `UPDATE notification SET is_read = TRUE WHERE user_id = $1`
	if _, err := repo.db.ExecContext(ctx, q, userID); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return nil
}

func (repo *notificationRepository) DeleteNotification(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM notification WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting notification")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notification.ErrNotFound
	}
	return nil
}
