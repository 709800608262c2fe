package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NKaram/inkwell_backend/controllers"
	"github.com/NKaram/inkwell_backend/middleware"
)

// RegisterPostRoutes sets up public and protected post routes
func RegisterPostRoutes(e *echo.Echo, db *mongo.Client) {
	postController := controllers.NewPostController(db)

	// Public routes
	public := e.Group("/api")
	public.GET("/posts", postController.GetPosts)
	public.GET("/posts/:id", postController.GetPost)

	// Protected routes
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.POST("/posts", postController.CreatePost)
	r.PUT("/posts/:id", postController.UpdatePost)
	r.DELETE("/posts/:id", postController.DeletePost)
	r.POST("/posts/:id/like", postController.ToggleLike)
	r.POST("/posts/:id/comment", postController.AddComment)
	r.DELETE("/posts/:id/comment/:commentId", postController.DeleteComment)
}
