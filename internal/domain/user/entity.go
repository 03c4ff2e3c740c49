// internal/domain/user/entity.go
package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user account document
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Name        string             `bson:"name" json:"name"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role        string             `bson:"role" json:"role"`
	AvatarURL   string             `bson:"avatarUrl,omitempty" json:"avatar_url,omitempty"`
	IsActive    bool               `bson:"isActive" json:"is_active"`
	LastLoginAt *time.Time         `bson:"lastLoginAt,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}

// IsAdmin reports whether the account has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitize clears fields that must never leave the service
func (u *User) Sanitize() {
	u.Password = ""
}

// Address represents a saved delivery address
type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	FullName  string             `bson:"fullName" json:"full_name"`
	Phone     string             `bson:"phone" json:"phone"`
	Street    string             `bson:"street" json:"street"`
	City      string             `bson:"city" json:"city"`
	District  string             `bson:"district,omitempty" json:"district,omitempty"`
	Ward      string             `bson:"ward,omitempty" json:"ward,omitempty"`
	IsDefault bool               `bson:"isDefault" json:"is_default"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}
