package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResetTokenDuration is the TTL of a password recovery link.
const ResetTokenDuration = time.Hour

// ResetTokenStore persists password reset tokens.
type ResetTokenStore interface {
	Create(ctx context.Context, token ResetToken) error
	GetByToken(ctx context.Context, token string) (ResetToken, error)
	Consume(ctx context.Context, token string) error
}

// ResetToken is a single-use, expiring token sent to a user's email to
// authorize a password change.
type ResetToken struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Token      string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
