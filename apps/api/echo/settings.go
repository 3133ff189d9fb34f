package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core/settings"
	"github.com/hesedu/shikshya/core/user"
)

type settingsAPI struct {
	svc    *settings.Service
	usrSvc *user.Service
}

func registerSettingsAPI(g *echo.Group, jwt, deviceLock echo.MiddlewareFunc, svc *settings.Service, usrSvc *user.Service) {
	api := settingsAPI{svc: svc, usrSvc: usrSvc}

	sg := g.Group("/settings", jwt, deviceLock)
	sg.GET("", api.retrieve)
	sg.PUT("", api.update, staffMiddleware())
}

func (api *settingsAPI) retrieve(ctx echo.Context) error {
	s, err := api.svc.Get()
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *settingsAPI) update(ctx echo.Context) error {
	var data settings.SystemSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SystemSettings")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	s, err := api.svc.Update(actor, data)
	if err != nil {
		return errors.Wrap(err, "updating settings")
	}
	return ctx.JSON(http.StatusOK, s)
}
