package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/NKaram/inkwell_backend/controllers"
	"github.com/NKaram/inkwell_backend/middleware"
)

// RegisterAuthRoutes sets up authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")

	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/refresh", authController.RefreshToken)
	auth.POST("/forgot-password", authController.ForgotPassword)
	auth.POST("/reset-password", authController.ResetPassword)

	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
}
