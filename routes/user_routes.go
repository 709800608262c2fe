package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/NKaram/inkwell_backend/controllers"
	"github.com/NKaram/inkwell_backend/middleware"
	"github.com/NKaram/inkwell_backend/models"
)

// RegisterUserRoutes sets up all user-related protected routes
func RegisterUserRoutes(e *echo.Echo, userController *controllers.UserController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/users/profile", userController.GetProfile)
	r.PUT("/users/profile", userController.UpdateProfile)
	r.POST("/users/change-password", userController.ChangePassword)
	r.POST("/users/avatar", userController.UploadAvatar)

	// Admin routes
	admin := e.Group("/api")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", userController.GetAllUsers)
}
