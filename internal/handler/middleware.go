package handler

import (
	"github.com/labstack/echo/v4"

	"taskflow/internal/auth"
	"taskflow/internal/model"
	"taskflow/internal/service"
)

const principalContextKey = "principal"

// ResolvePrincipal turns the JWT placed in the context by the echo-jwt
// middleware into the acting principal and stores it for handlers. A token
// for a revoked session or a deleted user resolves to no principal; the
// role-gate rejects the request with Unauthenticated downstream, so the
// handlers never read claims themselves.
func ResolvePrincipal(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims := claimsFrom(c); claims != nil {
				p, err := authService.ResolvePrincipal(c.Request().Context(), claims)
				if err != nil {
					return respondError(c, err)
				}
				if p != nil {
					c.Set(principalContextKey, p)
				}
			}
			return next(c)
		}
	}
}

func claimsFrom(c echo.Context) *auth.Claims {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func principalFrom(c echo.Context) *model.Principal {
	p, _ := c.Get(principalContextKey).(*model.Principal)
	return p
}
