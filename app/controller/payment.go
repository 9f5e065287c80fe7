package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-storefront/app/factory"
	"github.com/vibast-solutions/ms-go-storefront/app/mapper"
	"github.com/vibast-solutions/ms-go-storefront/app/service"
	"github.com/vibast-solutions/ms-go-storefront/app/types"
	"github.com/vibast-solutions/ms-go-storefront/config"
)

type PaymentController struct {
	paymentService *service.PaymentService
	successPageURL string
	failPageURL    string
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService, bank config.BankConfig) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		successPageURL: bank.SuccessPageURL,
		failPageURL:    bank.FailPageURL,
		logger:         factory.NewModuleLogger("payments-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

// CreateHostedPayment answers with an HTML page that posts a Hashv3 signed
// request to the bank.
func (c *PaymentController) CreateHostedPayment(ctx echo.Context) error {
	req, err := types.NewCreateHostedPaymentRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	intent, err := c.paymentService.CreateHostedPayment(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrGatewayNotConfigured):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Bank gateway is not configured")
			return writeError(ctx, http.StatusServiceUnavailable, "payments are unavailable")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create hosted payment failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	page, err := intent.HTML()
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Render payment form failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.HTML(http.StatusOK, page)
}

// PaymentSuccess is the browser redirect from the bank. It only picks the
// page to show; orders are settled by the signed callback.
func (c *PaymentController) PaymentSuccess(ctx echo.Context) error {
	req, err := types.NewPaymentRedirectRequestFromContext(ctx)
	if err != nil {
		return ctx.Redirect(http.StatusFound, c.failPageURL)
	}

	logger := factory.LoggerWithContext(c.logger, ctx).WithFields(logrus.Fields{
		"order_id":         req.OrderID,
		"proc_return_code": req.ProcReturnCode,
	})
	if req.Approved() {
		logger.Info("Bank reported approved payment")
		return ctx.Redirect(http.StatusFound, c.successPageURL)
	}

	logger.Info("Bank reported unapproved payment")
	return ctx.Redirect(http.StatusFound, c.failPageURL)
}

func (c *PaymentController) PaymentFail(ctx echo.Context) error {
	if req, err := types.NewPaymentRedirectRequestFromContext(ctx); err == nil {
		factory.LoggerWithContext(c.logger, ctx).WithField("order_id", req.OrderID).Info("Bank reported failed payment")
	}
	return ctx.Redirect(http.StatusFound, c.failPageURL)
}

// TestPayment authorises a card through the bank's direct API. The request
// body is never logged.
func (c *PaymentController) TestPayment(ctx echo.Context) error {
	req, err := types.NewDirectPaymentRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.paymentService.AuthorizeDirect(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUpstreamTimeout):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Bank API timed out")
			return writeError(ctx, http.StatusGatewayTimeout, "bank request timed out")
		case errors.Is(err, service.ErrUpstreamFailed):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Bank API failed")
			return writeError(ctx, http.StatusBadGateway, "bank request failed")
		case errors.Is(err, service.ErrGatewayNotConfigured):
			return writeError(ctx, http.StatusServiceUnavailable, "payments are unavailable")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Direct payment failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.DirectAuthToResponse(result))
}
