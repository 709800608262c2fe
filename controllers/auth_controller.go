// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NKaram/inkwell_backend/config"
	"github.com/NKaram/inkwell_backend/middleware"
	"github.com/NKaram/inkwell_backend/models"
	"github.com/NKaram/inkwell_backend/utils"
)

const (
	maxLoginAttempts = 5
	loginLockWindow  = 15 * time.Minute
	resetCodeTTL     = 15 * time.Minute
)

type loginAttempt struct {
	count       int
	lastAttempt time.Time
}

// AuthController contains authentication logic
type AuthController struct {
	DB              *mongo.Client
	logger          *log.Logger
	loginAttempts   map[string]loginAttempt
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	ac := &AuthController{
		DB:            db,
		logger:        log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]loginAttempt),
	}

	go ac.startLoginAttemptCleanupRoutine()

	return ac
}

// startLoginAttemptCleanupRoutine drops stale attempt records
func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	for {
		time.Sleep(30 * time.Minute)
		ac.loginAttemptsMu.Lock()
		now := time.Now()
		for email, attempt := range ac.loginAttempts {
			if now.Sub(attempt.lastAttempt) > loginLockWindow {
				delete(ac.loginAttempts, email)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}

func (ac *AuthController) isLoginLocked(email string) bool {
	ac.loginAttemptsMu.RLock()
	defer ac.loginAttemptsMu.RUnlock()

	attempt, ok := ac.loginAttempts[email]
	if !ok {
		return false
	}
	return attempt.count >= maxLoginAttempts && time.Since(attempt.lastAttempt) < loginLockWindow
}

func (ac *AuthController) recordFailedLogin(email string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()

	attempt := ac.loginAttempts[email]
	if time.Since(attempt.lastAttempt) > loginLockWindow {
		attempt.count = 0
	}
	attempt.count++
	attempt.lastAttempt = time.Now()
	ac.loginAttempts[email] = attempt
}

func (ac *AuthController) clearLoginAttempts(email string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()
	delete(ac.loginAttempts, email)
}

// Register creates a new user account and returns a token pair
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid email format",
		})
	}
	username := utils.SanitizeInput(req.Username)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersColl := config.GetCollection(ac.DB, "users")

	count, err := usersColl.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"email": email},
		{"username": username},
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error checking existing users",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Email or username already in use",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	user := models.User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		FirstName: utils.SanitizeInput(req.FirstName),
		LastName:  utils.SanitizeInput(req.LastName),
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := usersColl.InsertOne(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to create user",
		})
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	ac.logger.Printf("New user registered: %s", user.Username)

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Registration successful",
		Data: models.TokenData{
			Token:        token,
			RefreshToken: refreshToken,
			User:         &user,
		},
	})
}

// Login authenticates a user by email and password
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid email format",
		})
	}

	if ac.isLoginLocked(email) {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Success: false,
			Message: "Too many failed login attempts, try again later",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			ac.recordFailedLogin(email)
			return c.JSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: "Invalid email or password",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error retrieving user",
		})
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		ac.recordFailedLogin(email)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Invalid email or password",
		})
	}

	ac.clearLoginAttempts(email)

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data: models.TokenData{
			Token:        token,
			RefreshToken: refreshToken,
			User:         &user,
		},
	})
}

// Logout revokes the presented access token
func (ac *AuthController) Logout(c echo.Context) error {
	userToken, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	claims, ok := userToken.Claims.(*middleware.JwtCustomClaims)
	expiry := time.Now().Add(middleware.AccessTokenTTL)
	if ok && claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}

	middleware.BlacklistToken(userToken.Raw, expiry)

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Logged out successfully",
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (ac *AuthController) RefreshToken(c echo.Context) error {
	var req models.RefreshRequest
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

	if middleware.IsTokenBlacklisted(req.RefreshToken) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Token has been invalidated",
		})
	}

	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Invalid or expired refresh token",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to generate token",
		})
	}

	// Old refresh token can no longer be replayed
	if claims.ExpiresAt > 0 {
		middleware.BlacklistToken(req.RefreshToken, time.Unix(claims.ExpiresAt, 0))
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Token refreshed successfully",
		Data: models.TokenData{
			Token:        token,
			RefreshToken: refreshToken,
		},
	})
}

// ForgotPassword generates a reset code and emails it to the user. The
// response is the same whether or not the email exists.
func (ac *AuthController) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid email format",
		})
	}

	genericResponse := models.Response{
		Success: true,
		Message: "If the email exists, a reset code has been sent",
	}

	if err := utils.ValidateResetAttempts(email, config.RedisClient); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Success: false,
			Message: "Too many password reset attempts, try again later",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersColl := config.GetCollection(ac.DB, "users")

	var user models.User
	if err := usersColl.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return c.JSON(http.StatusOK, genericResponse)
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to generate reset code",
		})
	}

	_, err = usersColl.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"resetCode":          code,
		"resetCodeExpiresAt": time.Now().Add(resetCodeTTL),
		"updatedAt":          time.Now(),
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to store reset code",
		})
	}

	if err := utils.SendPasswordResetEmail(user.Email, user.Username, code); err != nil {
		ac.logger.Printf("Failed to send reset email to %s: %v", user.Email, err)
	}

	return c.JSON(http.StatusOK, genericResponse)
}

// ResetPassword redeems a reset code for a new password
func (ac *AuthController) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid email format",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersColl := config.GetCollection(ac.DB, "users")

	var user models.User
	if err := usersColl.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid reset code",
		})
	}

	if user.ResetCode == "" || user.ResetCode != req.Code || time.Now().After(user.ResetCodeExpiresAt) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid or expired reset code",
		})
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to process password",
		})
	}

	_, err = usersColl.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"password": hashedPassword, "updatedAt": time.Now()},
		"$unset": bson.M{"resetCode": "", "resetCodeExpiresAt": ""},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to reset password",
		})
	}

	ac.logger.Printf("Password reset completed for %s", user.Email)

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Password reset successfully",
	})
}
