package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/notekeeper-server/internal/model"
)

var _ model.ResetTokenStore = (*ResetTokenRepository)(nil)

type ResetTokenRepository struct {
	db *Connection
}

func NewResetTokenRepository(db *Connection) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token model.ResetToken) error {
	const query = `
        INSERT INTO reset_tokens (id, user_id, token, expires_at, created_at)
        VALUES ($1, $2, $3, $4, NOW())
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query, token.ID, token.UserID, token.Token, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) GetByToken(ctx context.Context, token string) (model.ResetToken, error) {
	const query = `
        SELECT id, user_id, token, expires_at, consumed_at, created_at
        FROM reset_tokens WHERE token = $1
    `
	var rt model.ResetToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.ConsumedAt, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ResetToken{}, model.ErrNotFound
		}
		return model.ResetToken{}, fmt.Errorf("failed to get reset token: %w", err)
	}
	return rt, nil
}

func (r *ResetTokenRepository) Consume(ctx context.Context, token string) error {
	const query = `
        UPDATE reset_tokens SET consumed_at = NOW()
        WHERE token = $1 AND consumed_at IS NULL
    `
	cmd, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrResetTokenConsumed
	}
	return nil
}
