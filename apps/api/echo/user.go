package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/user"
)

type userAPI struct {
	svc *user.Service
}

func registerUserAPI(g *echo.Group, jwt, deviceLock echo.MiddlewareFunc, svc *user.Service) {
	api := userAPI{svc: svc}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", jwt, deviceLock)
	ag.GET("/me", api.me)
	ag.PUT("/me", api.updateProfile)
	ag.DELETE("/:uid", api.destroy, staffMiddleware())

	sg := g.Group("/students", jwt, deviceLock)
	sg.GET("", api.queryStudents)
	sg.POST("", api.createStudent, staffMiddleware())
	sg.PUT("/:uid", api.updateStudent, staffMiddleware())
	sg.DELETE("/:uid", api.destroy, staffMiddleware())

	adg := g.Group("/admins", jwt, deviceLock)
	adg.GET("", api.queryAdmins)
	adg.POST("", api.createAdmin, staffMiddleware())
	adg.DELETE("/:uid", api.destroy, staffMiddleware())
}

// Handlers

func (api *userAPI) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, deviceID, err := api.svc.Login(data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrNotFound:
			return core.NewValidationError(errors.New("User not found"))
		case user.ErrInvalidCredentials:
			return core.NewValidationError(errors.New("Invalid credentials"))
		case user.ErrPortalDisabled:
			return core.NewValidationError(errors.New("Student portal is currently disabled."))
		}
		return errors.Wrap(err, "logging in")
	}

	token, err := GenerateToken(GetUserClaims(usr, deviceID))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: usr, DeviceID: deviceID, Token: token})
}

// me returns the authenticated user; with the device-lock middleware in
// front of it, it doubles as the session-restore endpoint.
func (api *userAPI) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userAPI) updateProfile(ctx echo.Context) error {
	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	usr, err := api.svc.UpdateProfile(actor, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userAPI) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *userAPI) queryAdmins(ctx echo.Context) error {
	admins, err := api.svc.QueryAdmins()
	if err != nil {
		return errors.Wrap(err, "querying admins")
	}
	return ctx.JSON(http.StatusOK, admins)
}

func (api *userAPI) createStudent(ctx echo.Context) error {
	var data user.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	usr, err := api.svc.CreateStudent(actor, data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userAPI) createAdmin(ctx echo.Context) error {
	var data user.NewAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdmin")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	usr, err := api.svc.CreateAdmin(actor, data)
	if err != nil {
		return errors.Wrap(err, "creating admin")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userAPI) updateStudent(ctx echo.Context) error {
	var data user.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	usr, err := api.svc.UpdateStudent(actor, ctx.Param("uid"), data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userAPI) destroy(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	// ctxUser cannot delete themselves
	uid := ctx.Param("uid")
	if uid == actor.UID {
		return errHTTPForbidden
	}

	if err := api.svc.Delete(actor, uid); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		User     user.User `json:"user"`
		DeviceID string    `json:"device_id"`
		Token    string    `json:"token"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}
