// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User model
type User struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username           string             `json:"username" bson:"username"`
	Email              string             `json:"email" bson:"email"`
	Password           string             `json:"password,omitempty" bson:"password"`
	FirstName          string             `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName           string             `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Avatar             string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio                string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Role               string             `json:"role" bson:"role"`
	IsActive           bool               `json:"isActive" bson:"isActive"`
	ResetCode          string             `json:"-" bson:"resetCode,omitempty"`
	ResetCodeExpiresAt time.Time          `json:"-" bson:"resetCodeExpiresAt,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary carries the public display fields resolved onto posts,
// comments and likes
type UserSummary struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Username  string             `json:"username" bson:"username"`
	FirstName string             `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName  string             `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Avatar    string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Summary strips a user down to its display fields
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

// RegisterRequest model for user signup
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
}

// LoginRequest model for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest model for exchanging a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ForgotPasswordRequest model for requesting a reset code
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest model for redeeming a reset code
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// ChangePasswordRequest model for authenticated password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// UpdateProfileRequest model for profile edits. Username, email and role
// are immutable through this path.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	Avatar    *string `json:"avatar" validate:"omitempty,max=2048"`
}
