package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/user"
)

type billingAPI struct {
	svc    *billing.Service
	usrSvc *user.Service
}

func registerBillingAPI(g *echo.Group, jwt, deviceLock echo.MiddlewareFunc, svc *billing.Service, usrSvc *user.Service) {
	api := billingAPI{svc: svc, usrSvc: usrSvc}

	fg := g.Group("/fees", jwt, deviceLock)
	fg.GET("", api.queryFees)
	fg.POST("", api.createFee, staffMiddleware())
	fg.GET("/export", api.exportLedger)
	fg.GET("/summaries", api.summaries)
	fg.POST("/generate", api.generateMonthly, staffMiddleware())

	sg := g.Group("/fee-structures", jwt, deviceLock)
	sg.GET("", api.queryStructures)
	sg.POST("", api.createStructure, staffMiddleware())

	pg := g.Group("/payments", jwt, deviceLock)
	pg.GET("", api.queryPayments)
	pg.POST("", api.recordPayment, staffMiddleware())
}

// Handlers

func (api *billingAPI) queryFees(ctx echo.Context) error {
	fees, err := api.svc.QueryFees()
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *billingAPI) createFee(ctx echo.Context) error {
	var data billing.NewFeeRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeeRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	fee, err := api.svc.AddFee(actor, data)
	if err != nil {
		return errors.Wrap(err, "creating fee")
	}
	return ctx.JSON(http.StatusCreated, fee)
}

func (api *billingAPI) exportLedger(ctx echo.Context) error {
	studentID := ctx.QueryParam("student")

	data, err := api.svc.ExportLedgerCSV(studentID)
	if err != nil {
		return errors.Wrap(err, "exporting ledger")
	}

	scope := "All"
	if studentID != "" {
		scope = "Student"
	}
	filename := fmt.Sprintf("Finance_Report_%s_%s.csv", scope, core.FormatDate(api.svc.NowFunc()))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (api *billingAPI) summaries(ctx echo.Context) error {
	summaries, err := api.svc.Summaries()
	if err != nil {
		return errors.Wrap(err, "aggregating summaries")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *billingAPI) generateMonthly(ctx echo.Context) error {
	var data GenerateFeesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateFeesRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	count, err := api.svc.GenerateMonthlyFees(actor, data.Year, time.Month(data.Month))
	if err != nil {
		return errors.Wrap(err, "generating monthly fees")
	}
	return ctx.JSON(http.StatusOK, GenerateFeesResponse{Count: count})
}

func (api *billingAPI) queryStructures(ctx echo.Context) error {
	structures, err := api.svc.QueryStructures()
	if err != nil {
		return errors.Wrap(err, "querying fee structures")
	}
	return ctx.JSON(http.StatusOK, structures)
}

func (api *billingAPI) createStructure(ctx echo.Context) error {
	var data billing.NewFeeStructure
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeeStructure")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	structure, err := api.svc.AddStructure(actor, data)
	if err != nil {
		return errors.Wrap(err, "creating fee structure")
	}
	return ctx.JSON(http.StatusCreated, structure)
}

func (api *billingAPI) queryPayments(ctx echo.Context) error {
	payments, err := api.svc.QueryPayments()
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *billingAPI) recordPayment(ctx echo.Context) error {
	var data billing.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// caller-boundary check: the payment may not exceed the balance due;
	// the ledger clamps regardless.
	fee, err := api.svc.GetFee(data.FeeID)
	if err != nil {
		return errors.Wrap(err, "finding fee")
	}
	if data.Amount > fee.Balance() {
		return core.NewValidationError(nil, core.FieldError{
			Field: "amount",
			Error: fmt.Sprintf("amount exceeds balance due (Rs. %.2f)", fee.Balance()),
		})
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	fee, err = api.svc.RecordPayment(actor, data)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, fee)
}

type (
	GenerateFeesRequest struct {
		Year  int `json:"year" validate:"required,min=2000,max=2200"`
		Month int `json:"month" validate:"required,min=1,max=12"`
	}

	GenerateFeesResponse struct {
		Count int `json:"count"`
	}
)

func (gr *GenerateFeesRequest) Validate() error {
	return core.Validate.Struct(gr)
}
