package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "auth.claims"

type errorBody struct {
	Error string `json:"error"`
}

type tokenValidator interface {
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// RequireUser rejects requests without a valid bearer token and stores the
// token claims on the echo context.
func RequireUser(tokens tokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return ctx.JSON(http.StatusUnauthorized, &errorBody{Error: "missing authorization header"})
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return ctx.JSON(http.StatusUnauthorized, &errorBody{Error: "invalid authorization header format"})
			}

			claims, err := tokens.ValidateAccessToken(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, ErrExpiredToken) {
					return ctx.JSON(http.StatusUnauthorized, &errorBody{Error: "token expired"})
				}
				return ctx.JSON(http.StatusUnauthorized, &errorBody{Error: "invalid token"})
			}

			ctx.Set(claimsContextKey, claims)
			return next(ctx)
		}
	}
}

// RequireAdmin must run after RequireUser.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, ok := ClaimsFromContext(ctx)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, &errorBody{Error: "not authorized"})
			}
			if !claims.IsAdmin() {
				return ctx.JSON(http.StatusForbidden, &errorBody{Error: "admin access required"})
			}
			return next(ctx)
		}
	}
}

func ClaimsFromContext(ctx echo.Context) (*Claims, bool) {
	claims, ok := ctx.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns 0 when the request is not authenticated.
func UserIDFromContext(ctx echo.Context) uint64 {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0
	}
	return claims.UserID
}

// WithClaims stores claims on ctx; used by tests and internal callers.
func WithClaims(ctx echo.Context, claims *Claims) {
	ctx.Set(claimsContextKey, claims)
}
