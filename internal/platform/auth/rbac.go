package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Roles recognised by the patient summary API.
const (
	RoleAdmin      = "admin"
	RolePhysician  = "physician"
	RoleResearcher = "researcher"
)

// HasRole reports whether granted satisfies any of required. Admin satisfies all.
func HasRole(granted []string, required ...string) bool {
	for _, g := range granted {
		if g == RoleAdmin {
			return true
		}
		for _, r := range required {
			if g == r {
				return true
			}
		}
	}
	return false
}

// RequireRole rejects with 403 unless the authenticated user holds one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	denied := fmt.Sprintf("required role: %s", strings.Join(roles, " or "))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !HasRole(RolesFromContext(c.Request().Context()), roles...) {
				return echo.NewHTTPError(http.StatusForbidden, denied)
			}
			return next(c)
		}
	}
}
