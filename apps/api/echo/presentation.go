package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/evaluation"
	"github.com/tathmini/tathmini/core/presentation"
	"github.com/tathmini/tathmini/core/stats"
	"github.com/tathmini/tathmini/core/user"
)

type presentationApi struct {
	svc      *presentation.Service
	evalSvc  *evaluation.Service
	statsSvc *stats.Service
	usrSvc   *user.Service
}

func registerPresentationAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *presentation.Service,
	evalSvc *evaluation.Service,
	statsSvc *stats.Service,
	usrSvc *user.Service,
) {
	api := presentationApi{svc: svc, evalSvc: evalSvc, statsSvc: statsSvc, usrSvc: usrSvc}

	pg := g.Group("/presentations", jwt)
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/reviewable", api.queryReviewable, teacherMiddleware())
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
	pg.GET("/:id/evaluations", api.queryEvaluations)
	pg.GET("/:id/stats", api.retrieveStats, teacherMiddleware())

	// review workflow; terminal decisions are teacher/admin only
	pg.POST("/:id/approve", api.approve, teacherMiddleware())
	pg.POST("/:id/reject", api.reject, teacherMiddleware())
}

// Handlers

func (api *presentationApi) create(ctx echo.Context) error {
	var data presentation.NewPresentation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPresentation")
	}

	// uploads are always attributed to the authenticated user
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	data.StudentID = ctxUsr.ID
	data.StudentName = ctxUsr.Name

	if err := data.Validate(); err != nil {
		return err
	}

	pres, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating presentation")
	}
	return ctx.JSON(http.StatusCreated, pres)
}

// query lists all presentations for staff; students only see their own uploads.
func (api *presentationApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var press []presentation.Presentation
	if claims.IsStudent {
		press, err = api.svc.QueryByStudent(ctx.Request().Context(), claims.UserID())
	} else {
		press, err = api.svc.QueryAll(ctx.Request().Context())
	}
	if err != nil {
		return errors.Wrap(err, "querying presentations")
	}
	if press == nil {
		press = []presentation.Presentation{}
	}
	return ctx.JSON(http.StatusOK, press)
}

func (api *presentationApi) queryReviewable(ctx echo.Context) error {
	press, err := api.svc.QueryReviewable(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying reviewable presentations")
	}
	if press == nil {
		press = []presentation.Presentation{}
	}
	return ctx.JSON(http.StatusOK, press)
}

func (api *presentationApi) retrieve(ctx echo.Context) error {
	pres, err := api.getVisible(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pres)
}

func (api *presentationApi) update(ctx echo.Context) error {
	pres, err := api.getVisible(ctx)
	if err != nil {
		return err
	}

	var data presentation.UpdatePresentation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePresentation")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	pres, err = api.svc.Update(ctx.Request().Context(), pres.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating presentation")
	}
	return ctx.JSON(http.StatusOK, pres)
}

// destroy lets a student retract their own upload; admins may prune anything.
// Teachers cannot delete.
func (api *presentationApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// getVisible already hides other students' uploads
	pres, err := api.getVisible(ctx)
	if err != nil {
		return err
	}
	if !claims.IsStudent && !claims.IsAdmin {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), pres.ID); err != nil {
		return errors.Wrap(err, "deleting presentation")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *presentationApi) queryEvaluations(ctx echo.Context) error {
	pres, err := api.getVisible(ctx)
	if err != nil {
		return err
	}

	evals, err := api.evalSvc.QueryByPresentation(ctx.Request().Context(), pres.ID)
	if err != nil {
		return errors.Wrap(err, "querying evaluations")
	}
	if evals == nil {
		evals = []evaluation.Evaluation{}
	}
	return ctx.JSON(http.StatusOK, evals)
}

func (api *presentationApi) retrieveStats(ctx echo.Context) error {
	presStats, err := api.statsSvc.ForPresentation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting presentation stats")
	}
	return ctx.JSON(http.StatusOK, presStats)
}

func (api *presentationApi) approve(ctx echo.Context) error {
	pres, err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "approving presentation")
	}
	return ctx.JSON(http.StatusOK, pres)
}

func (api *presentationApi) reject(ctx echo.Context) error {
	pres, err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "rejecting presentation")
	}
	return ctx.JSON(http.StatusOK, pres)
}

// getVisible fetches the presentation and hides other students' uploads.
func (api *presentationApi) getVisible(ctx echo.Context) (presentation.Presentation, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return presentation.Presentation{}, errors.Wrap(err, "getting context claims")
	}

	pres, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return presentation.Presentation{}, errors.Wrap(err, "getting presentation")
	}
	if claims.IsStudent && pres.StudentID != claims.UserID() {
		return presentation.Presentation{}, errHttpNotFound
	}
	return pres, nil
}
