package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/stats"
)

// defaultTopStudentsLimit caps the leaderboard when no limit is supplied.
const defaultTopStudentsLimit = 5

type statsApi struct {
	svc *stats.Service
}

func registerStatsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *stats.Service) {
	api := statsApi{svc: svc}

	sg := g.Group("/stats", jwt, teacherMiddleware())
	sg.GET("/overview", api.overview)
	sg.GET("/top-students", api.topStudents)
	sg.GET("/evaluations-by-month", api.evaluationsByMonth)
	sg.GET("/teachers/:id", api.forTeacher)
}

// Handlers

func (api *statsApi) overview(ctx echo.Context) error {
	ov, err := api.svc.Overview(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *statsApi) topStudents(ctx echo.Context) error {
	limit := defaultTopStudentsLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	top, err := api.svc.TopStudents(ctx.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "ranking top students")
	}
	return ctx.JSON(http.StatusOK, top)
}

func (api *statsApi) evaluationsByMonth(ctx echo.Context) error {
	buckets, err := api.svc.EvaluationsByMonth(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "bucketing evaluations by month")
	}
	return ctx.JSON(http.StatusOK, buckets)
}

func (api *statsApi) forTeacher(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	teacherStats, err := api.svc.ForTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing teacher stats")
	}
	return ctx.JSON(http.StatusOK, teacherStats)
}
