package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-storefront/app/auth"
	"github.com/vibast-solutions/ms-go-storefront/app/factory"
	"github.com/vibast-solutions/ms-go-storefront/app/mapper"
	"github.com/vibast-solutions/ms-go-storefront/app/metrics"
	"github.com/vibast-solutions/ms-go-storefront/app/service"
	"github.com/vibast-solutions/ms-go-storefront/app/types"
)

const invalidCallbackMessage = "invalid callback"

type OrderController struct {
	orderService *service.OrderService
	logger       logrus.FieldLogger
}

func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       factory.NewModuleLogger("orders-controller"),
	}
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	req, err := types.NewCreateOrderRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	order, intent, err := c.orderService.CreateOrder(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrGatewayNotConfigured):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Bank gateway is not configured")
			return writeError(ctx, http.StatusServiceUnavailable, "payments are unavailable")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create order failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &types.CreateOrderResponse{
		Order:       mapper.OrderToResponse(order),
		BankPayment: mapper.IntentToBankPayment(intent),
	})
}

func (c *OrderController) ListMyOrders(ctx echo.Context) error {
	req, err := types.NewListOrdersRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	req.UserID = auth.UserIDFromContext(ctx)
	if req.UserID == 0 {
		return writeError(ctx, http.StatusUnauthorized, "not authorized")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	return c.listOrders(ctx, req)
}

func (c *OrderController) ListAllOrders(ctx echo.Context) error {
	req, err := types.NewListOrdersRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	return c.listOrders(ctx, req)
}

func (c *OrderController) listOrders(ctx echo.Context, req *types.ListOrdersRequest) error {
	items, err := c.orderService.ListOrders(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List orders failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListOrdersResponse{Orders: mapper.OrdersToResponse(items)})
}

func (c *OrderController) GetOrder(ctx echo.Context) error {
	req, err := types.NewGetOrderRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid order id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	order, err := c.orderService.GetOrder(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get order failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.OrderResponse{Order: mapper.OrderToResponse(order)})
}

func (c *OrderController) ListOrderCallbacks(ctx echo.Context) error {
	req, err := types.NewGetOrderRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid order id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	callbacks, err := c.orderService.ListPaymentCallbacks(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List payment callbacks failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListPaymentCallbacksResponse{Callbacks: mapper.PaymentCallbacksToResponse(callbacks)})
}

func (c *OrderController) GetOrderStatus(ctx echo.Context) error {
	req, err := types.NewGetOrderStatusRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	order, err := c.orderService.GetOrderStatus(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get order status failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.OrderStatusToResponse(order))
}

func (c *OrderController) UpdateOrderStatus(ctx echo.Context) error {
	req, err := types.NewUpdateOrderStatusRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	order, err := c.orderService.UpdateOrderStatus(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return writeError(ctx, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidStatus):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Update order status failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.OrderResponse{Order: mapper.OrderToResponse(order)})
}

// PaymentCallback handles the bank's server-to-server result post. Every
// rejection gets the same body so callers cannot tell a bad signature from
// an unknown order.
func (c *OrderController) PaymentCallback(ctx echo.Context) error {
	req, err := types.NewPaymentCallbackRequestFromContext(ctx)
	if err != nil {
		metrics.ObserveCallback(metrics.CallbackMalformed)
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Unreadable payment callback body")
		return writeError(ctx, http.StatusBadRequest, invalidCallbackMessage)
	}

	order, err := c.orderService.HandlePaymentCallback(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedCallback),
			errors.Is(err, service.ErrSignatureMismatch),
			errors.Is(err, service.ErrOrderNotFound):
			return writeError(ctx, http.StatusBadRequest, invalidCallbackMessage)
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Handle payment callback failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.CallbackResponse{
		Status:  string(order.PaymentStatus),
		OrderID: order.OrderID,
	})
}
