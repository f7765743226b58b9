package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/notification"
	"github.com/tathmini/tathmini/core/user"
)

type notificationApi struct {
	svc    *notification.Service
	usrSvc *user.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service, usrSvc *user.Service) {
	api := notificationApi{svc: svc, usrSvc: usrSvc}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.query)
	ng.GET("/unread-count", api.unreadCount)
	ng.POST("/read-all", api.markAllRead)
	ng.PUT("/:id/read", api.markRead)
	ng.DELETE("/:id", api.destroy)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	notifs, err := api.svc.QueryByUser(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if notifs == nil {
		notifs = []notification.Notification{}
	}
	return ctx.JSON(http.StatusOK, notifs)
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	count, err := api.svc.UnreadCount(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return errors.Wrap(err, "counting unread notifications")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": count})
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.MarkAllRead(ctx.Request().Context(), claims.UserID()); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	notif, err := api.getOwned(ctx)
	if err != nil {
		return err
	}

	notif, err = api.svc.MarkRead(ctx.Request().Context(), notif.ID)
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return ctx.JSON(http.StatusOK, notif)
}

func (api *notificationApi) destroy(ctx echo.Context) error {
	notif, err := api.getOwned(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), notif.ID); err != nil {
		return errors.Wrap(err, "deleting notification")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// getOwned fetches the notification and hides other users' notifications.
func (api *notificationApi) getOwned(ctx echo.Context) (notification.Notification, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "getting context claims")
	}

	notifs, err := api.svc.QueryByUser(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "querying notifications")
	}
	for _, notif := range notifs {
		if notif.ID == ctx.Param("id") {
			return notif, nil
		}
	}
	return notification.Notification{}, errHttpNotFound
}
