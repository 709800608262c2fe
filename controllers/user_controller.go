// controllers/user_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NKaram/inkwell_backend/config"
	"github.com/NKaram/inkwell_backend/models"
	"github.com/NKaram/inkwell_backend/repositories"
	"github.com/NKaram/inkwell_backend/utils"
)

const avatarMaxWidth = 512

// UserController contains profile management logic
type UserController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client, userRepo *repositories.UserRepository) *UserController {
	return &UserController{DB: db, userRepo: userRepo}
}

// GetProfile returns the authenticated user's own record
func (uc *UserController) GetProfile(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, uc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile edits the mutable profile fields. Username, email and
// role are not reachable through this path.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ValidationResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  utils.ValidationErrors(err),
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.FirstName != nil {
		set["firstName"] = utils.SanitizeInput(*req.FirstName)
	}
	if req.LastName != nil {
		set["lastName"] = utils.SanitizeInput(*req.LastName)
	}
	if req.Bio != nil {
		set["bio"] = utils.SanitizeInput(*req.Bio)
	}
	if req.Avatar != nil {
		set["avatar"] = *req.Avatar
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var updated models.User
	err = config.GetCollection(uc.DB, "users").FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to update profile",
		})
	}

	updated.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile updated successfully",
		Data:    updated,
	})
}

// ChangePassword verifies the current password and stores a new hash
func (uc *UserController) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ValidationResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  utils.ValidationErrors(err),
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersColl := config.GetCollection(uc.DB, "users")

	var user models.User
	if err := usersColl.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "User not found",
		})
	}

	if err := utils.CheckPassword(req.CurrentPassword, user.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Current password is incorrect",
		})
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to process password",
		})
	}

	_, err = usersColl.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"password":  hashedPassword,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to change password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Password changed successfully",
	})
}

// UploadAvatar stores a resized profile image and records its path
func (uc *UserController) UploadAvatar(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Avatar file is required",
		})
	}

	avatarPath, err := utils.SaveImage(file, "avatars", avatarMaxWidth)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: err.Error(),
		})
	}

	if err := uc.userRepo.UpdateAvatar(userID, avatarPath); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to update avatar",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Avatar uploaded successfully",
		Data:    map[string]string{"avatar": avatarPath},
	})
}

// GetAllUsers lists all user accounts, admin only
func (uc *UserController) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0, "resetCode": 0, "resetCodeExpiresAt": 0})

	cursor, err := config.GetCollection(uc.DB, "users").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error fetching users",
		})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error parsing users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}
