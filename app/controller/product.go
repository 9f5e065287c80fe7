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
)

type ProductController struct {
	productService *service.ProductService
	logger         logrus.FieldLogger
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
		logger:         factory.NewModuleLogger("products-controller"),
	}
}

func (c *ProductController) ListProducts(ctx echo.Context) error {
	req, err := types.NewListProductsRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.productService.ListProducts(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List products failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListProductsResponse{Products: mapper.ProductsToResponse(items)})
}

func (c *ProductController) GetProduct(ctx echo.Context) error {
	req, err := types.NewProductIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid product id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	product, err := c.productService.GetProduct(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return writeError(ctx, http.StatusNotFound, "product not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get product failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ProductResponse{Product: mapper.ProductToResponse(product)})
}

func (c *ProductController) CreateProduct(ctx echo.Context) error {
	req, err := types.NewCreateProductRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	product, err := c.productService.CreateProduct(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create product failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &types.ProductResponse{Product: mapper.ProductToResponse(product)})
}

func (c *ProductController) UpdateProduct(ctx echo.Context) error {
	req, err := types.NewUpdateProductRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	product, err := c.productService.UpdateProduct(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return writeError(ctx, http.StatusNotFound, "product not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Update product failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ProductResponse{Product: mapper.ProductToResponse(product)})
}

func (c *ProductController) DeleteProduct(ctx echo.Context) error {
	req, err := types.NewProductIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid product id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.productService.DeleteProduct(ctx.Request().Context(), req); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return writeError(ctx, http.StatusNotFound, "product not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Delete product failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Product removed"})
}
