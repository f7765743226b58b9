package dummydb

import (
	"context"
	"sort"

	"github.com/tathmini/tathmini/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

// query returns notifications newest first.
func (repo *notificationRepository) query() []notification.Notification {
	rows := make([]*notificationRow, 0, len(repo.db.table))
	for _, row := range repo.db.table {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	notifs := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		notifs = append(notifs, row.notif)
	}
	return notifs
}

func (repo *notificationRepository) CreateNotification(_ context.Context, notif notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	repo.db.table[notif.ID] = &notificationRow{seq: repo.db.seq, notif: notif}
	return notif, nil
}

func (repo *notificationRepository) GetNotification(_ context.Context, id string) (notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row.notif, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) FilterNotifications(_ context.Context, filter notification.QueryFilter) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []notification.Notification
	for _, notif := range repo.query() {
		if filter.UserID != 0 && notif.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && notif.IsRead {
			continue
		}
		filtered = append(filtered, notif)
	}
	return filtered, nil
}

func (repo *notificationRepository) UpdateNotification(_ context.Context, notif notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[notif.ID]
	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	row.notif = notif
	return notif, nil
}

func (repo *notificationRepository) MarkAllRead(_ context.Context, userID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, row := range repo.db.table {
		if row.notif.UserID == userID {
			row.notif.IsRead = true
		}
	}
	return nil
}

func (repo *notificationRepository) DeleteNotification(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return notification.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
