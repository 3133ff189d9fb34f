package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core/content"
	"github.com/hesedu/shikshya/core/user"
)

type contentAPI struct {
	svc    *content.Service
	usrSvc *user.Service
}

func registerContentAPI(g *echo.Group, jwt, deviceLock echo.MiddlewareFunc, svc *content.Service, usrSvc *user.Service) {
	api := contentAPI{svc: svc, usrSvc: usrSvc}

	ag := g.Group("/assignments", jwt, deviceLock)
	ag.GET("", api.queryAssignments)
	ag.POST("", api.createAssignment, staffMiddleware())
	ag.DELETE("/:id", api.deleteAssignment, staffMiddleware())
	ag.POST("/:id/toggle", api.toggleAssignment)

	ng := g.Group("/news", jwt, deviceLock)
	ng.GET("", api.queryNews)
	ng.POST("", api.postNews, staffMiddleware())
	ng.DELETE("/:id", api.deleteNews, staffMiddleware())
}

// Handlers

func (api *contentAPI) queryAssignments(ctx echo.Context) error {
	assignments, err := api.svc.QueryAssignments()
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *contentAPI) createAssignment(ctx echo.Context) error {
	var data content.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	assignment, err := api.svc.CreateAssignment(actor, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, assignment)
}

func (api *contentAPI) deleteAssignment(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.svc.DeleteAssignment(actor, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentAPI) toggleAssignment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	assignment, err := api.svc.ToggleAssignmentCompletion(ctx.Param("id"), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "toggling assignment completion")
	}
	return ctx.JSON(http.StatusOK, assignment)
}

func (api *contentAPI) queryNews(ctx echo.Context) error {
	items, err := api.svc.QueryNews()
	if err != nil {
		return errors.Wrap(err, "querying news")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *contentAPI) postNews(ctx echo.Context) error {
	var data content.NewNewsItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNewsItem")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	item, err := api.svc.PostNews(actor, data)
	if err != nil {
		return errors.Wrap(err, "posting news item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *contentAPI) deleteNews(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.svc.DeleteNews(actor, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting news item")
	}
	return ctx.NoContent(http.StatusNoContent)
}
