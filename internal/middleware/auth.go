package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware trusts the reverse proxy in front of this service to have
// verified the caller and to forward the subject uid in X-User-UID.
// Verification itself is an external collaborator.
type AuthMiddleware struct {
	adminUIDs map[string]bool
}

func NewAuthMiddleware(adminUIDs string) *AuthMiddleware {
	admins := make(map[string]bool)
	for _, uid := range strings.Split(adminUIDs, ",") {
		uid = strings.TrimSpace(uid)
		if uid != "" {
			admins[uid] = true
		}
	}
	return &AuthMiddleware{adminUIDs: admins}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := strings.TrimSpace(c.Request().Header.Get("X-User-UID"))
		if uid == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		c.Set("uid", uid)
		return next(c)
	}
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		uid, _ := c.Get("uid").(string)
		if !m.adminUIDs[uid] {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return next(c)
	})
}
