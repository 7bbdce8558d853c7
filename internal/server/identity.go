package server

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// resolveIdentity populates the request's user id. Identity is issued and
// managed elsewhere; this service only reads it. A bearer token, when
// present and a secret is configured, wins over the userId query parameter.
// Requests with neither stay anonymous; the handlers decide whether that is
// acceptable.
func resolveIdentity(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth := c.Request().Header.Get("Authorization"); len(secret) > 0 && strings.HasPrefix(auth, "Bearer ") {
				tok := strings.TrimPrefix(auth, "Bearer ")
				parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) { return secret, nil })
				if err != nil || !parsed.Valid {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
					if sub, ok := claims["sub"].(string); ok && sub != "" {
						c.Set("user_id", sub)
						return next(c)
					}
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if uid := c.QueryParam("userId"); uid != "" {
				c.Set("user_id", uid)
			}
			return next(c)
		}
	}
}

// requestUserID returns the resolved user id, or "" for anonymous requests.
func requestUserID(c echo.Context) string {
	if uid, ok := c.Get("user_id").(string); ok {
		return uid
	}
	return c.QueryParam("userId")
}
