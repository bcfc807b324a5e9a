package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository хранит отозванные сессионные токены до истечения их срока
// и одноразовые коды привязки Telegram
type TokenRepository struct {
	*base.Repository
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{Repository: base.NewRepository(pool)}
}

// Revoke отзывает токен по jti
func (r *TokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`

	if _, err := r.ExecAffected(ctx, query, jti, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

// IsRevoked проверяет, отозван ли токен
func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}

	return exists, nil
}

// PurgeExpired удаляет просроченные записи об отозванных токенах и коды привязки
func (r *TokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tokens, err := r.ExecAffected(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}

	codes, err := r.ExecAffected(ctx, `DELETE FROM telegram_link_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return tokens, fmt.Errorf("purge telegram link codes: %w", err)
	}

	return tokens + codes, nil
}

// SaveLinkCode сохраняет одноразовый код привязки чата. Прежние коды этого чата удаляются
func (r *TokenRepository) SaveLinkCode(ctx context.Context, code string, chatID int64, expiresAt time.Time) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM telegram_link_codes WHERE chat_id = $1`, chatID); err != nil {
			return fmt.Errorf("drop previous link codes: %w", err)
		}

		query := `
			INSERT INTO telegram_link_codes (code, chat_id, expires_at)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.Exec(ctx, query, code, chatID, expiresAt); err != nil {
			if base.IsUniqueViolation(err) {
				return fmt.Errorf("save link code: %w", ErrConflict)
			}
			return fmt.Errorf("save link code: %w", err)
		}
		return nil
	})
}

// ConsumeLinkCode удаляет код и возвращает его чат. Неизвестный или просроченный код даёт ErrNotFound
func (r *TokenRepository) ConsumeLinkCode(ctx context.Context, code string, now time.Time) (int64, error) {
	query := `
		DELETE FROM telegram_link_codes
		WHERE code = $1
		RETURNING chat_id, expires_at
	`

	var (
		chatID    int64
		expiresAt time.Time
	)
	if err := r.QueryRow(ctx, query, code).Scan(&chatID, &expiresAt); err != nil {
		if base.IsNotFound(err) {
			return 0, fmt.Errorf("consume link code: %w", ErrNotFound)
		}
		return 0, fmt.Errorf("consume link code: %w", err)
	}
	if !expiresAt.After(now) {
		return 0, fmt.Errorf("consume link code: expired: %w", ErrNotFound)
	}

	return chatID, nil
}
