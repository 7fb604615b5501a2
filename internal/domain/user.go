package domain

import (
	"context"
	"time"
)

// User is a staff account that operates the back office.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	Verified     bool      `bson:"verified" json:"verified"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin reports whether the account may sign in. Admins are always
// considered verified.
func (u *User) CanLogin() bool {
	return u.IsAdmin() || u.Verified
}

// UserRepository defines operations for managing staff accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	SetVerified(ctx context.Context, id string, verified bool) error
}

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
