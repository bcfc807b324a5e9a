package memory

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
)

type AccountRepository struct {
	s *Store
}

func (r *AccountRepository) Create(_ context.Context, account *model.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.insertLocked(account)
}

// CreateStudentAccount пишет обе записи под одной блокировкой: либо обе, либо ни одной
func (r *AccountRepository) CreateStudentAccount(_ context.Context, account *model.Account, student *model.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.insertLocked(account); err != nil {
		return err
	}

	student.ID = newID(student.ID)
	student.UID = account.UID
	student.CreatedAt = account.CreatedAt
	cp := *student
	r.s.students = append(r.s.students, &cp)
	return nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	return r.find(func(a *model.Account) bool { return sameEmail(a.Email, email) }), nil
}

func (r *AccountRepository) GetByUID(_ context.Context, uid uuid.UUID) (*model.Account, error) {
	return r.find(func(a *model.Account) bool { return a.UID == uid }), nil
}

func (r *AccountRepository) GetByTelegramChatID(_ context.Context, chatID int64) (*model.Account, error) {
	return r.find(func(a *model.Account) bool {
		return a.TelegramChatID != nil && *a.TelegramChatID == chatID
	}), nil
}

func (r *AccountRepository) SetTelegramChatID(_ context.Context, uid uuid.UUID, chatID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var target *model.Account
	for _, a := range r.s.accounts {
		if a.TelegramChatID != nil && *a.TelegramChatID == chatID && a.UID != uid {
			return fmt.Errorf("set telegram chat: %w", repository.ErrConflict)
		}
		if a.UID == uid {
			target = a
		}
	}
	if target == nil {
		return fmt.Errorf("set telegram chat %s: %w", uid, repository.ErrNotFound)
	}

	id := chatID
	target.TelegramChatID = &id
	return nil
}

func (r *AccountRepository) insertLocked(account *model.Account) error {
	for _, a := range r.s.accounts {
		if sameEmail(a.Email, account.Email) {
			return fmt.Errorf("create account: %w", repository.ErrConflict)
		}
	}

	account.UID = newID(account.UID)
	account.CreatedAt = r.s.now()
	cp := *account
	r.s.accounts = append(r.s.accounts, &cp)
	return nil
}

func (r *AccountRepository) find(match func(*model.Account) bool) *model.Account {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.accounts {
		if match(a) {
			cp := *a
			return &cp
		}
	}
	return nil
}
