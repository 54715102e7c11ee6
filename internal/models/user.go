package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Forename    string    `json:"forename" gorm:"size:100"`
	Email       string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Avatar      string    `json:"avatar"`
	Role        string    `json:"role" gorm:"size:20;default:'user'"`
	// bcrypt hash, never serialized
	Password    string    `json:"-"`
	// set once the account is linked through Firebase
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"size:128;uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may manage categories, roles and delete posts.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// FullName is the display name used in the feed.
func (u *User) FullName() string {
	if u.Forename == "" {
		return u.Name
	}
	return u.Forename + " " + u.Name
}

type RegisterRequest struct {
	Name                 string `form:"name" json:"name" validate:"required,min=2,max=100"`
	Forename             string `form:"forename" json:"forename" validate:"required,min=2,max=100"`
	Email                string `form:"email" json:"email" validate:"required,email"`
	Password             string `form:"password" json:"password" validate:"required,min=6"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name     string `form:"name" json:"name" validate:"required,min=2,max=100"`
	Forename string `form:"forename" json:"forename" validate:"required,min=2,max=100"`
	Avatar   string `form:"avatar" json:"avatar" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
