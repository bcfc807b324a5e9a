package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `uid, email, password_hash, role, telegram_chat_id, created_at`

type AccountRepository struct {
	*base.Repository
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт учётную запись. Занятый email -> ErrConflict
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		return insertAccount(ctx, tx, account)
	})
}

// CreateStudentAccount атомарно создаёт учётную запись и профиль студента
func (r *AccountRepository) CreateStudentAccount(ctx context.Context, account *model.Account, student *model.Student) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := insertAccount(ctx, tx, account); err != nil {
			return err
		}

		if student.ID == uuid.Nil {
			student.ID = uuid.New()
		}
		student.UID = account.UID

		query := `
			INSERT INTO students (id, uid, email, name, approved)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`
		err := tx.QueryRow(ctx, query,
			student.ID,
			student.UID,
			student.Email,
			student.Name,
			student.Approved,
		).Scan(&student.CreatedAt)
		if err != nil {
			return fmt.Errorf("create student: %w", err)
		}

		return nil
	})
}

// GetByEmail получает учётную запись по email без учёта регистра
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`

	account, err := scanAccount(r.QueryRow(ctx, query, email))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	return account, nil
}

// GetByUID получает учётную запись по UID
func (r *AccountRepository) GetByUID(ctx context.Context, uid uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE uid = $1`

	account, err := scanAccount(r.QueryRow(ctx, query, uid))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by uid: %w", err)
	}

	return account, nil
}

// GetByTelegramChatID получает учётную запись по привязанному чату
func (r *AccountRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE telegram_chat_id = $1`

	account, err := scanAccount(r.QueryRow(ctx, query, chatID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by telegram chat: %w", err)
	}

	return account, nil
}

// SetTelegramChatID привязывает чат Telegram к учётной записи
func (r *AccountRepository) SetTelegramChatID(ctx context.Context, uid uuid.UUID, chatID int64) error {
	query := `UPDATE accounts SET telegram_chat_id = $2 WHERE uid = $1`

	affected, err := r.ExecAffected(ctx, query, uid, chatID)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("set telegram chat: %w", ErrConflict)
		}
		return fmt.Errorf("set telegram chat: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set telegram chat %s: %w", uid, ErrNotFound)
	}

	return nil
}

func insertAccount(ctx context.Context, tx pgx.Tx, account *model.Account) error {
	if account.UID == uuid.Nil {
		account.UID = uuid.New()
	}

	query := `
		INSERT INTO accounts (uid, email, password_hash, role, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := tx.QueryRow(ctx, query,
		account.UID,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.TelegramChatID,
	).Scan(&account.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create account: %w", ErrConflict)
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.UID, &a.Email, &a.PasswordHash, &a.Role, &a.TelegramChatID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
