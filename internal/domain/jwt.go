package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// ClubhouseClaims represents custom JWT claims for staff sessions
type ClubhouseClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}
