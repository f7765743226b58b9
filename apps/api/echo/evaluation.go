package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/evaluation"
	"github.com/tathmini/tathmini/core/user"
)

type evaluationApi struct {
	svc    *evaluation.Service
	usrSvc *user.Service
}

func registerEvaluationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *evaluation.Service, usrSvc *user.Service) {
	api := evaluationApi{svc: svc, usrSvc: usrSvc}

	eg := g.Group("/evaluations", jwt)
	eg.POST("", api.create, teacherMiddleware())
	eg.GET("", api.query, teacherMiddleware())
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update, adminMiddleware())
	eg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *evaluationApi) create(ctx echo.Context) error {
	var data evaluation.NewEvaluation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvaluation")
	}

	// evaluations are always attributed to the authenticated teacher
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	data.TeacherID = ctxUsr.ID
	data.TeacherName = ctxUsr.Name

	if err := data.Validate(); err != nil {
		return err
	}

	eval, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating evaluation")
	}
	return ctx.JSON(http.StatusCreated, eval)
}

func (api *evaluationApi) query(ctx echo.Context) error {
	filter := new(evaluation.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	var evals []evaluation.Evaluation
	var err error
	if filter.IsEmpty() {
		evals, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		switch {
		case filter.PresentationID != "":
			evals, err = api.svc.QueryByPresentation(ctx.Request().Context(), filter.PresentationID)
		default:
			evals, err = api.svc.QueryByTeacher(ctx.Request().Context(), filter.TeacherID)
		}
	}
	if err != nil {
		return errors.Wrap(err, "querying evaluations")
	}
	if evals == nil {
		evals = []evaluation.Evaluation{}
	}
	return ctx.JSON(http.StatusOK, evals)
}

func (api *evaluationApi) retrieve(ctx echo.Context) error {
	eval, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting evaluation")
	}
	return ctx.JSON(http.StatusOK, eval)
}

func (api *evaluationApi) update(ctx echo.Context) error {
	var data evaluation.UpdateEvaluation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvaluation")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	eval, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating evaluation")
	}
	return ctx.JSON(http.StatusOK, eval)
}

func (api *evaluationApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting evaluation")
	}
	return ctx.NoContent(http.StatusNoContent)
}
