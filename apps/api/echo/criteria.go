package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/criteria"
)

type criteriaApi struct {
	svc *criteria.Service
}

func registerCriteriaAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *criteria.Service) {
	api := criteriaApi{svc: svc}

	cg := g.Group("/criteria", jwt)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	// rubric administration
	cg.POST("", api.create, adminMiddleware())
	cg.PUT("/:id", api.update, adminMiddleware())
	cg.DELETE("/:id", api.destroy, adminMiddleware())
}

// query returns active criteria by default; ?all=true includes retired ones.
func (api *criteriaApi) query(ctx echo.Context) error {
	var crits []criteria.Criterion
	var err error
	if all, _ := strconv.ParseBool(ctx.QueryParam("all")); all {
		crits, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		crits, err = api.svc.QueryActive(ctx.Request().Context())
	}
	if err != nil {
		return errors.Wrap(err, "querying criteria")
	}
	if crits == nil {
		crits = []criteria.Criterion{}
	}
	return ctx.JSON(http.StatusOK, crits)
}

func (api *criteriaApi) retrieve(ctx echo.Context) error {
	crit, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting criterion")
	}
	return ctx.JSON(http.StatusOK, crit)
}

func (api *criteriaApi) create(ctx echo.Context) error {
	var data criteria.NewCriterion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCriterion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crit, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating criterion")
	}
	return ctx.JSON(http.StatusCreated, crit)
}

func (api *criteriaApi) update(ctx echo.Context) error {
	var data criteria.UpdateCriterion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCriterion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crit, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating criterion")
	}
	return ctx.JSON(http.StatusOK, crit)
}

func (api *criteriaApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting criterion")
	}
	return ctx.NoContent(http.StatusNoContent)
}
