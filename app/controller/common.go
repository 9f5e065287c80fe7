package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-storefront/app/types"
)

func writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
