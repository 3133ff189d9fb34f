package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core/settings"
	"github.com/hesedu/shikshya/core/user"
)

// staffMiddleware restricts an endpoint to admin/superadmin users.
func staffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsStaff {
				return next(ctx)
			}
			return errHTTPForbidden
		}
	}
}

// deviceLockMiddleware enforces the single-active-session policy: while
// enabled in settings, the token's device id must match the last-issued one
// for the user. A later login from another client invalidates this session.
func deviceLockMiddleware(usrSvc *user.Service, setSvc *settings.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			conf, err := setSvc.Get()
			if err != nil {
				return errors.Wrap(err, "getting settings")
			}
			if !conf.IsDeviceLockEnabled {
				return next(ctx)
			}

			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !usrSvc.ValidateSession(claims.Subject, claims.DeviceID) {
				return errSessionExpired
			}
			return next(ctx)
		}
	}
}
