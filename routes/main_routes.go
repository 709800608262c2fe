package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NKaram/inkwell_backend/controllers"
	"github.com/NKaram/inkwell_backend/repositories"
)

// SetupRoutes registers every route group on the Echo instance
func SetupRoutes(e *echo.Echo, db *mongo.Client) {
	userRepo := repositories.NewUserRepository(db)

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db, userRepo)

	RegisterAuthRoutes(e, authController)
	RegisterPostRoutes(e, db)
	RegisterUserRoutes(e, userController)
}
