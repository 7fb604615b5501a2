package domain

import (
	"context"
	"time"
)

// RefreshToken is a stored staff session. Only the SHA256 hash of the raw
// token is persisted.
type RefreshToken struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	TokenHash string    `bson:"token_hash" json:"-"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UserAgent string    `bson:"user_agent" json:"userAgent"`
	IPAddress string    `bson:"ip_address" json:"ipAddress"`
	Revoked   bool      `bson:"revoked" json:"revoked"`
}

// IsValid reports whether the token can still be exchanged at now.
func (r *RefreshToken) IsValid(now time.Time) bool {
	return !r.Revoked && now.Before(r.ExpiresAt)
}

// RefreshTokenRepository defines the interface for refresh token storage
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	// FindByHash returns ErrNotFound for unknown or revoked tokens.
	FindByHash(ctx context.Context, hash string) (*RefreshToken, error)
	RevokeByHash(ctx context.Context, hash string) error
	// RevokeAllByUserID revokes all refresh tokens for a user (force logout)
	RevokeAllByUserID(ctx context.Context, userID string) error
}
