package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core/audit"
)

type auditAPI struct {
	svc *audit.Service
}

func registerAuditAPI(g *echo.Group, jwt, deviceLock echo.MiddlewareFunc, svc *audit.Service) {
	api := auditAPI{svc: svc}

	lg := g.Group("/logs", jwt, deviceLock, staffMiddleware())
	lg.GET("", api.queryLogs)
}

func (api *auditAPI) queryLogs(ctx echo.Context) error {
	entries, err := api.svc.Query(ctx.QueryParam("student"))
	if err != nil {
		return errors.Wrap(err, "querying activity log")
	}
	return ctx.JSON(http.StatusOK, entries)
}
