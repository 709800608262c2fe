// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NKaram/inkwell_backend/models"
)

// RequireRole checks if the authenticated user has one of the allowed roles
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := ExtractUserRole(c)

			if role == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Success: false,
					Message: "Authentication failed: role not found",
				})
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, models.Response{
				Success: false,
				Message: "Access denied for your role",
			})
		}
	}
}

// CanModify is the owner-or-admin policy used by every mutation on posts
// and comments: the resource owner may modify it, and so may any admin.
func CanModify(requester primitive.ObjectID, role string, owner primitive.ObjectID) bool {
	return requester == owner || role == models.RoleAdmin
}
