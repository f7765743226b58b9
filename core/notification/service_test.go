package notification_test

import (
	"context"
	"net/mail"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tathmini/tathmini/core"
	"github.com/tathmini/tathmini/core/notification"
	"github.com/tathmini/tathmini/core/user"
	emailsvc "github.com/tathmini/tathmini/services/email"
	dummydb "github.com/tathmini/tathmini/storage/database/dummy"
)

func setup(t *testing.T) *notification.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := &core.Config{
		AppName:          "Tathmini",
		DefaultFromEmail: mail.Address{Name: "Tathmini", Address: "noreply@localhost"},
	}
	emailsvc.ClearSentMessages()
	return notification.NewService(dummydb.NewNotificationRepository(db), emailsvc.NewConsoleServiceMock(conf))
}

func createNotification(t *testing.T, svc *notification.Service, userID int, title string) notification.Notification {
	t.Helper()
	notif, err := svc.Create(context.Background(), notification.NewNotification{
		UserID:  userID,
		Title:   title,
		Message: "something happened",
		Kind:    notification.KindInfo,
	})
	if err != nil {
		t.Fatalf("createNotification() failed: %v", err)
	}
	return notif
}

func TestService_QueryByUser(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	first := createNotification(t, svc, 1, "first")
	second := createNotification(t, svc, 1, "second")
	createNotification(t, svc, 2, "someone else's")

	notifs, err := svc.QueryByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	// newest first
	assert.Equal(t, second.ID, notifs[0].ID)
	assert.Equal(t, first.ID, notifs[1].ID)
}

func TestService_MarkRead(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	notif := createNotification(t, svc, 1, "first")
	assert.False(t, notif.IsRead)

	notif, err := svc.MarkRead(ctx, notif.ID)
	require.NoError(t, err)
	assert.True(t, notif.IsRead)

	_, err = svc.MarkRead(ctx, "nope")
	assert.Equal(t, notification.ErrNotFound, pkgerrors.Cause(err))
}

func TestService_MarkAllRead(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	createNotification(t, svc, 1, "first")
	createNotification(t, svc, 1, "second")
	other := createNotification(t, svc, 2, "someone else's")

	n, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, svc.MarkAllRead(ctx, 1))

	n, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// other users keep their unread notifications
	notifs, err := svc.QueryByUser(ctx, other.UserID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.False(t, notifs[0].IsRead)
}

func TestService_Delete(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	notif := createNotification(t, svc, 1, "first")

	require.NoError(t, svc.Delete(ctx, notif.ID))

	notifs, err := svc.QueryByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, notifs)

	assert.Equal(t, notification.ErrNotFound, pkgerrors.Cause(svc.Delete(ctx, notif.ID)))
}

func TestService_emails(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	student := user.User{ID: 1, Name: "Awe Mbenza", Email: "awe@test.cd"}
	teachers := []user.User{
		{ID: 2, Name: "Hei Matau", Email: "hei@test.cd"},
		{ID: 3, Name: "Nia Ruru", Email: "nia@test.cd"},
	}

	require.NoError(t, svc.NotifyEvaluationComplete(ctx, student, "pres-1", "Solar Car", "Hei Matau"))
	require.NoError(t, svc.NotifyNewPresentation(ctx, teachers, "pres-1", "Solar Car", "Awe Mbenza"))

	require.Len(t, emailsvc.SentMessages, 2)
	assert.Equal(t, []mail.Address{{Name: student.Name, Address: student.Email}}, emailsvc.SentMessages[0].To)
	assert.Len(t, emailsvc.SentMessages[1].To, 2)
}
