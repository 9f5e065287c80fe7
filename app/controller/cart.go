package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/app/factory"
	"github.com/vibast-solutions/ms-go-storefront/app/mapper"
	"github.com/vibast-solutions/ms-go-storefront/app/service"
	"github.com/vibast-solutions/ms-go-storefront/app/types"
)

type CartController struct {
	cartService *service.CartService
	logger      logrus.FieldLogger
}

func NewCartController(cartService *service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
		logger:      factory.NewModuleLogger("cart-controller"),
	}
}

func (c *CartController) GetCart(ctx echo.Context) error {
	req, err := types.NewGetCartRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusUnauthorized, "not authorized")
	}

	cart, err := c.cartService.GetCart(ctx.Request().Context(), req)
	return c.writeCart(ctx, http.StatusOK, cart, err, "Get cart failed")
}

func (c *CartController) AddItem(ctx echo.Context) error {
	req, err := types.NewAddCartItemRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cart, err := c.cartService.AddItem(ctx.Request().Context(), req)
	return c.writeCart(ctx, http.StatusCreated, cart, err, "Add cart item failed")
}

func (c *CartController) UpdateItem(ctx echo.Context) error {
	req, err := types.NewUpdateCartItemRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cart, err := c.cartService.UpdateItem(ctx.Request().Context(), req)
	return c.writeCart(ctx, http.StatusOK, cart, err, "Update cart item failed")
}

func (c *CartController) RemoveItem(ctx echo.Context) error {
	req, err := types.NewRemoveCartItemRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cart, err := c.cartService.RemoveItem(ctx.Request().Context(), req)
	return c.writeCart(ctx, http.StatusOK, cart, err, "Remove cart item failed")
}

func (c *CartController) writeCart(ctx echo.Context, status int, cart *entity.Cart, err error, failure string) error {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrCartItemNotFound):
			return writeError(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidSize), errors.Is(err, service.ErrInvalidColor), errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error(failure)
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(status, &types.CartResponse{Cart: mapper.CartToResponse(cart)})
}
